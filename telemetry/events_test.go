package telemetry

import "testing"

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func steadyWindow(tick int32) WindowStats {
	return WindowStats{
		WindowEndTick: tick,
		TotalMass:     1000,
		FxMean:        0.5,
		FyMean:        0.1,
		LiftToDrag:    0.2,
		BarrierCount:  20,
		Stable:        true,
	}
}

func TestEventDetector_SheddingOnset(t *testing.T) {
	ed := NewEventDetector(10)

	for i := 0; i < 3; i++ {
		if events := ed.Check(steadyWindow(int32(i * 200))); hasEvent(events, EventSheddingOnset) {
			t.Fatal("shedding reported before a period was measured")
		}
	}

	w := steadyWindow(600)
	w.SheddingPeriod = 180
	if !hasEvent(ed.Check(w), EventSheddingOnset) {
		t.Error("expected shedding_onset event")
	}

	w.WindowEndTick = 800
	if hasEvent(ed.Check(w), EventSheddingOnset) {
		t.Error("shedding_onset should fire once")
	}
}

func TestEventDetector_MassDrift(t *testing.T) {
	ed := NewEventDetector(10)
	ed.Check(steadyWindow(200))

	w := steadyWindow(400)
	w.TotalMass = 1030
	if hasEvent(ed.Check(w), EventMassDrift) {
		t.Error("3% drift should not trigger")
	}

	w = steadyWindow(600)
	w.TotalMass = 1100
	if !hasEvent(ed.Check(w), EventMassDrift) {
		t.Error("expected mass_drift event for 10% drift")
	}
}

func TestEventDetector_LiftTarget(t *testing.T) {
	ed := NewEventDetector(10)

	w := steadyWindow(200)
	w.LiftToDrag = 2.5
	if !hasEvent(ed.Check(w), EventLiftTarget) {
		t.Error("expected lift_target event")
	}

	w.WindowEndTick = 400
	if hasEvent(ed.Check(w), EventLiftTarget) {
		t.Error("lift_target should only fire on crossing")
	}

	w.WindowEndTick = 600
	w.LiftToDrag = 1
	ed.Check(w)
	w.WindowEndTick = 800
	w.LiftToDrag = 3
	if !hasEvent(ed.Check(w), EventLiftTarget) {
		t.Error("expected lift_target after dropping below and rising again")
	}
}

func TestEventDetector_SteadyFlow(t *testing.T) {
	ed := NewEventDetector(10)

	var fired int
	for i := 0; i < 12; i++ {
		if hasEvent(ed.Check(steadyWindow(int32(i*200))), EventSteadyFlow) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("steady_flow fired %d times, want once", fired)
	}
}

func TestEventDetector_UnsteadyFlow(t *testing.T) {
	ed := NewEventDetector(10)

	for i := 0; i < 12; i++ {
		w := steadyWindow(int32(i * 200))
		if i%2 == 0 {
			w.FxMean = 0.8
		}
		if hasEvent(ed.Check(w), EventSteadyFlow) {
			t.Fatal("oscillating drag reported as steady")
		}
	}
}

func TestEventDetector_ResetOnInstability(t *testing.T) {
	ed := NewEventDetector(10)
	w := steadyWindow(200)
	w.SheddingPeriod = 100
	ed.Check(w)

	bad := steadyWindow(400)
	bad.Stable = false
	if events := ed.Check(bad); len(events) != 0 {
		t.Errorf("unstable window produced events: %v", events)
	}

	w.WindowEndTick = 600
	if !hasEvent(ed.Check(w), EventSheddingOnset) {
		t.Error("shedding_onset should fire again after a reset")
	}
}
