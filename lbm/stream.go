package lbm

// Forces summarises the momentum exchanged with solid cells during one
// Stream call.
type Forces struct {
	Count int     // solid cells that bounced populations
	SumX  float64 // sum of solid x coordinates
	SumY  float64 // sum of solid y coordinates
	Fx    float64
	Fy    float64
}

// Centroid returns the mean position of the solid cells, or (0, 0) when there
// are none.
func (f Forces) Centroid() (x, y float64) {
	if f.Count == 0 {
		return 0, 0
	}
	n := float64(f.Count)
	return f.SumX / n, f.SumY / n
}

// LiftToDrag returns Fy/Fx with a small offset that keeps the ratio finite
// when drag vanishes.
func (f Forces) LiftToDrag() float64 {
	return f.Fy / (f.Fx + 0.0001)
}

// Stream moves every population one cell along its lattice velocity, then
// reflects populations off barrier cells and measures the force on solids.
//
// Propagation reads from the current populations and writes into a scratch
// set that is swapped in afterwards, so rows are independent. The outer ring
// keeps its values.
func (s *Solver) Stream() Forces {
	l := s.lat
	s.pool.run(0, l.Height, l.Len(), s.streamRows)
	for d := East; d < NumDirections; d++ {
		l.F[d], s.next[d] = s.next[d], l.F[d]
	}

	s.forces = s.bounceBack()
	return s.forces
}

func (s *Solver) streamRows(y0, y1 int) {
	l := s.lat
	w, h := l.Width, l.Height

	for d := East; d < NumDirections; d++ {
		cur := l.F[d]
		next := s.next[d]
		off := dirEx[d] + dirEy[d]*w

		for y := y0; y < y1; y++ {
			row := y * w
			if y == 0 || y == h-1 {
				copy(next[row:row+w], cur[row:row+w])
				continue
			}
			next[row] = cur[row]
			next[row+w-1] = cur[row+w-1]
			for i := row + 1; i < row+w-1; i++ {
				next[i] = cur[i-off]
			}
		}
	}
}

// bounceBack reflects the populations sitting on interior barrier cells into
// the opposite direction of the neighbour they came from. Cells are visited
// in row-major order.
func (s *Solver) bounceBack() Forces {
	l := s.lat
	w := l.Width

	nE := l.F[East]
	nN := l.F[North]
	nW := l.F[West]
	nS := l.F[South]
	nNE := l.F[NorthEast]
	nNW := l.F[NorthWest]
	nSW := l.F[SouthWest]
	nSE := l.F[SouthEast]

	var f Forces
	for y := 1; y < l.Height-1; y++ {
		for x := 1; x < w-1; x++ {
			i := x + y*w
			c := l.Cells[i]
			if !c.IsBarrier() {
				continue
			}

			nE[i+1] = nW[i]
			nW[i-1] = nE[i]
			nN[i+w] = nS[i]
			nS[i-w] = nN[i]
			nNE[i+1+w] = nSW[i]
			nNW[i-1+w] = nSE[i]
			nSE[i+1-w] = nNW[i]
			nSW[i-1-w] = nNE[i]

			if c.Kind != Solid {
				continue
			}
			f.Count++
			f.SumX += float64(x)
			f.SumY += float64(y)
			f.Fx += nE[i] + nNE[i] + nSE[i] - nW[i] - nNW[i] - nSW[i]
			f.Fy += nN[i] + nNE[i] + nNW[i] - nS[i] - nSE[i] - nSW[i]
		}
	}
	return f
}
