// Package telemetry provides flow statistics, event detection, performance
// tracking and field snapshots for the wind tunnel.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// EventType identifies the type of event.
type EventType string

const (
	EventInstability   EventType = "instability"
	EventReset         EventType = "reset"
	EventSheddingOnset EventType = "shedding_onset"
	EventSteadyFlow    EventType = "steady_flow"
	EventMassDrift     EventType = "mass_drift"
	EventLiftTarget    EventType = "lift_target"
)

// LiftTarget is the lift-to-drag ratio that triggers EventLiftTarget.
const LiftTarget = 2.0

// Event represents a notable moment in a run.
type Event struct {
	Type   EventType `csv:"type"`
	Tick   int32     `csv:"tick"`
	Detail string    `csv:"detail"`
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	level := slog.LevelInfo
	if e.Type == EventInstability {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "event",
		"type", string(e.Type),
		"tick", e.Tick,
		"detail", e.Detail,
	)
}

// NewInstabilityEvent records a failed stability probe.
func NewInstabilityEvent(tick int32, viscosity, speed float64) Event {
	return Event{
		Type:   EventInstability,
		Tick:   tick,
		Detail: fmt.Sprintf("midline density non-positive at viscosity %.4f speed %.4f", viscosity, speed),
	}
}

// NewResetEvent records a fluid reset.
func NewResetEvent(tick int32, resets int) Event {
	return Event{
		Type:   EventReset,
		Tick:   tick,
		Detail: fmt.Sprintf("fluid reset (%d so far)", resets),
	}
}

// EventDetector watches window stats for notable changes in the flow.
type EventDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	baselineMass      float64 // total mass at the first window after a reset
	shedding          bool    // shedding period already reported
	aboveLiftTarget   bool    // lift-to-drag currently above target
	steadyWindowCount int     // consecutive windows with steady drag
}

// NewEventDetector creates a detector with the given history size.
func NewEventDetector(historySize int) *EventDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady flow detection
	}
	return &EventDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered events.
func (ed *EventDetector) Check(stats WindowStats) []Event {
	if stats.Resets > 0 || !stats.Stable {
		ed.Reset()
		ed.addToHistory(stats)
		return nil
	}

	var events []Event

	if e := ed.checkSheddingOnset(stats); e != nil {
		events = append(events, *e)
	}
	if e := ed.checkMassDrift(stats); e != nil {
		events = append(events, *e)
	}
	if e := ed.checkLiftTarget(stats); e != nil {
		events = append(events, *e)
	}

	ed.addToHistory(stats)

	if e := ed.checkSteadyFlow(stats); e != nil {
		events = append(events, *e)
	}

	return events
}

// Reset forgets history, e.g. after the fluid was re-initialized.
func (ed *EventDetector) Reset() {
	ed.historyIdx = 0
	ed.historyFull = false
	ed.baselineMass = 0
	ed.shedding = false
	ed.aboveLiftTarget = false
	ed.steadyWindowCount = 0
}

func (ed *EventDetector) addToHistory(stats WindowStats) {
	ed.history[ed.historyIdx] = stats
	ed.historyIdx = (ed.historyIdx + 1) % ed.historySize
	if ed.historyIdx == 0 {
		ed.historyFull = true
	}
}

// recent returns up to n of the latest windows, oldest first.
func (ed *EventDetector) recent(n int) []WindowStats {
	count := ed.historyIdx
	if ed.historyFull {
		count = ed.historySize
	}
	if n > count {
		n = count
	}
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (ed.historyIdx - n + i + ed.historySize) % ed.historySize
		out[i] = ed.history[idx]
	}
	return out
}

func (ed *EventDetector) checkSheddingOnset(stats WindowStats) *Event {
	if ed.shedding || stats.SheddingPeriod <= 0 {
		return nil
	}
	ed.shedding = true
	return &Event{
		Type:   EventSheddingOnset,
		Tick:   stats.WindowEndTick,
		Detail: fmt.Sprintf("vortex shedding with period %.1f ticks", stats.SheddingPeriod),
	}
}

func (ed *EventDetector) checkMassDrift(stats WindowStats) *Event {
	if ed.baselineMass == 0 {
		ed.baselineMass = stats.TotalMass
		return nil
	}

	drift := stats.TotalMass/ed.baselineMass - 1
	if math.Abs(drift) <= 0.05 {
		return nil
	}

	old := ed.baselineMass
	ed.baselineMass = stats.TotalMass
	return &Event{
		Type:   EventMassDrift,
		Tick:   stats.WindowEndTick,
		Detail: fmt.Sprintf("fluid mass drifted %+.1f%% from %.1f to %.1f", drift*100, old, stats.TotalMass),
	}
}

func (ed *EventDetector) checkLiftTarget(stats WindowStats) *Event {
	above := stats.BarrierCount > 0 && stats.LiftToDrag > LiftTarget
	crossed := above && !ed.aboveLiftTarget
	ed.aboveLiftTarget = above
	if !crossed {
		return nil
	}
	return &Event{
		Type:   EventLiftTarget,
		Tick:   stats.WindowEndTick,
		Detail: fmt.Sprintf("lift to drag %.2f above %.1f", stats.LiftToDrag, LiftTarget),
	}
}

func (ed *EventDetector) checkSteadyFlow(stats WindowStats) *Event {
	window := ed.recent(4)
	if len(window) < 4 || stats.BarrierCount == 0 {
		ed.steadyWindowCount = 0
		return nil
	}

	var sum float64
	for _, h := range window {
		sum += h.FxMean
	}
	mean := sum / 4

	var variance float64
	for _, h := range window {
		d := h.FxMean - mean
		variance += d * d
	}
	variance /= 4

	// Coefficient of variation of drag below 2%
	if mean != 0 && variance/(mean*mean) < 0.0004 {
		ed.steadyWindowCount++
	} else {
		ed.steadyWindowCount = 0
	}

	if ed.steadyWindowCount == 5 { // trigger exactly once at 5 windows
		return &Event{
			Type:   EventSteadyFlow,
			Tick:   stats.WindowEndTick,
			Detail: fmt.Sprintf("drag steady at %.4f over 5+ windows", mean),
		}
	}
	return nil
}
