package lbm

import "math"

// pressureDT is the nominal time step used by the pressure proxy.
const pressureDT = 0.1

// IsStable scans the horizontal midline and reports false if any density
// there is non-positive, NaN or infinite.
func (s *Solver) IsStable() bool {
	l := s.lat
	y := l.Height / 2
	row := l.Rho[y*l.Width : (y+1)*l.Width]
	for _, rho := range row {
		if !(rho > 0) || math.IsInf(rho, 0) {
			return false
		}
	}
	return true
}

// ComputeDerived fills Curl and Pressure for every interior cell from the
// current macroscopic fields. The outer ring is left untouched.
//
// Pressure is a visualization proxy, not a physical pressure.
func (s *Solver) ComputeDerived() {
	l := s.lat
	interior := (l.Width - 2) * (l.Height - 2)
	s.pool.run(1, l.Height-1, interior, s.derivedRows)
}

func (s *Solver) derivedRows(y0, y1 int) {
	l := s.lat
	w := l.Width
	for y := y0; y < y1; y++ {
		for x := 1; x < w-1; x++ {
			i := x + y*w
			l.Curl[i] = l.Uy[i+1] - l.Uy[i-1] - l.Ux[i+w] + l.Ux[i-w]

			speed := math.Hypot(l.Ux[i], l.Uy[i])
			l.Pressure[i] = l.Rho[i] * (1 / (speed/pressureDT + 1)) / 30
		}
	}
}
