// Package boundary forces the fluid at the tunnel walls, around inlet and
// outlet cells, and under a user push.
package boundary

import "github.com/pthm-cable/windtunnel/lbm"

// Field is the part of the solver that boundary conditions write through.
type Field interface {
	Lattice() *lbm.Lattice
	SetEquilibrium(x, y int, ux, uy, rho float64)
	SetVelocity(x, y int, ux, uy float64)
}

// Tunnel holds the outer ring at a uniform eastward flow.
type Tunnel struct {
	Speed   float64
	Density float64
}

// Apply sets the top and bottom rows and the left and right columns to the
// equilibrium for (Speed, 0, Density).
func (t Tunnel) Apply(f Field) {
	l := f.Lattice()
	w, h := l.Width, l.Height
	for x := 0; x < w; x++ {
		f.SetEquilibrium(x, 0, t.Speed, 0, t.Density)
		f.SetEquilibrium(x, h-1, t.Speed, 0, t.Density)
	}
	for y := 1; y < h-1; y++ {
		f.SetEquilibrium(0, y, t.Speed, 0, t.Density)
		f.SetEquilibrium(w-1, y, t.Speed, 0, t.Density)
	}
}
