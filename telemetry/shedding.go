package telemetry

// SheddingTracker estimates the vortex shedding period from the sign changes
// of the lift force. Each upward zero crossing of Fy is located by linear
// interpolation between ticks; the period is the time between successive
// crossings.
type SheddingTracker struct {
	lastFy       float64
	lastCrossing float64
	period       float64
	crossings    int
}

// NewSheddingTracker returns a tracker that ignores a first sample that is
// already positive.
func NewSheddingTracker() *SheddingTracker {
	return &SheddingTracker{lastFy: 1}
}

// Observe records the lift at tick t. It returns the new period and true
// when t completes an oscillation.
func (s *SheddingTracker) Observe(t float64, fy float64) (float64, bool) {
	lastFy := s.lastFy
	s.lastFy = fy
	if !(fy > 0 && lastFy <= 0) {
		return 0, false
	}

	crossing := t - fy/(fy-lastFy)
	s.crossings++
	prev := s.lastCrossing
	s.lastCrossing = crossing
	if prev <= 0 {
		return 0, false
	}
	s.period = crossing - prev
	return s.period, true
}

// Period returns the most recent period, or 0 before two crossings.
func (s *SheddingTracker) Period() float64 {
	return s.period
}

// Crossings returns the number of upward crossings seen.
func (s *SheddingTracker) Crossings() int {
	return s.crossings
}

// Reset forgets all history.
func (s *SheddingTracker) Reset() {
	*s = SheddingTracker{lastFy: 1}
}
