// Package obstacle places barriers on a lattice: primitive shapes, NACA
// airfoils, named presets and run-length encoded masks.
package obstacle

import "github.com/pthm-cable/windtunnel/lbm"

// Placeable reports whether a barrier may be drawn at (x, y). Barriers keep
// two cells away from the outer ring.
func Placeable(l *lbm.Lattice, x, y int) bool {
	return x > 1 && x < l.Width-2 && y > 1 && y < l.Height-2
}

// Set writes cell at (x, y) if the position is placeable and reports whether
// it did.
func Set(l *lbm.Lattice, x, y int, cell lbm.Cell) bool {
	if !Placeable(l, x, y) {
		return false
	}
	l.SetCell(x, y, cell)
	return true
}

// Clear removes every barrier.
func Clear(l *lbm.Lattice) {
	l.ClearBarriers()
}

// Shape is a region of the lattice.
type Shape interface {
	Contains(x, y int) bool
}

// Place writes cell into every placeable position inside shape and returns
// the number of cells written.
func Place(l *lbm.Lattice, shape Shape, cell lbm.Cell) int {
	n := 0
	for y := 2; y < l.Height-2; y++ {
		for x := 2; x < l.Width-2; x++ {
			if shape.Contains(x, y) {
				l.SetCell(x, y, cell)
				n++
			}
		}
	}
	return n
}
