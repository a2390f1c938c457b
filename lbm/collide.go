package lbm

// Collide relaxes every interior cell toward its local equilibrium with rate
// Omega. Density and velocity are recomputed from the populations before
// relaxation and stored in the macroscopic fields.
//
// A cell with zero density produces NaN or Inf velocity rather than an error;
// IsStable reports the condition.
func (s *Solver) Collide() {
	l := s.lat
	interior := (l.Width - 2) * (l.Height - 2)
	s.pool.run(1, l.Height-1, interior, s.collideRows)

	// Copy leftward populations from column W-2 onto the right edge.
	w := l.Width
	for y := 1; y < l.Height-2; y++ {
		dst := w - 1 + y*w
		src := dst - 1
		l.F[West][dst] = l.F[West][src]
		l.F[NorthWest][dst] = l.F[NorthWest][src]
		l.F[SouthWest][dst] = l.F[SouthWest][src]
	}
}

func (s *Solver) collideRows(y0, y1 int) {
	l := s.lat
	w := l.Width
	omega := s.omega

	n0 := l.F[Rest]
	nE := l.F[East]
	nN := l.F[North]
	nW := l.F[West]
	nS := l.F[South]
	nNE := l.F[NorthEast]
	nNW := l.F[NorthWest]
	nSW := l.F[SouthWest]
	nSE := l.F[SouthEast]

	for y := y0; y < y1; y++ {
		for x := 1; x < w-1; x++ {
			i := x + y*w

			rho := n0[i] + nE[i] + nN[i] + nW[i] + nS[i] + nNE[i] + nNW[i] + nSW[i] + nSE[i]
			ux := (nE[i] + nNE[i] + nSE[i] - nW[i] - nNW[i] - nSW[i]) / rho
			uy := (nN[i] + nNE[i] + nNW[i] - nS[i] - nSE[i] - nSW[i]) / rho
			l.Rho[i] = rho
			l.Ux[i] = ux
			l.Uy[i] = uy

			r9 := one9th * rho
			r36 := one36th * rho
			ux3 := 3 * ux
			uy3 := 3 * uy
			ux2 := ux * ux
			uy2 := uy * uy
			uxuy2 := 2 * ux * uy
			u2 := ux2 + uy2
			u215 := 1.5 * u2

			n0[i] += omega * (four9ths*rho*(1-u215) - n0[i])
			nE[i] += omega * (r9*(1+ux3+4.5*ux2-u215) - nE[i])
			nW[i] += omega * (r9*(1-ux3+4.5*ux2-u215) - nW[i])
			nN[i] += omega * (r9*(1+uy3+4.5*uy2-u215) - nN[i])
			nS[i] += omega * (r9*(1-uy3+4.5*uy2-u215) - nS[i])
			nNE[i] += omega * (r36*(1+ux3+uy3+4.5*(u2+uxuy2)-u215) - nNE[i])
			nSE[i] += omega * (r36*(1+ux3-uy3+4.5*(u2-uxuy2)-u215) - nSE[i])
			nNW[i] += omega * (r36*(1-ux3+uy3+4.5*(u2-uxuy2)-u215) - nNW[i])
			nSW[i] += omega * (r36*(1-ux3-uy3+4.5*(u2+uxuy2)-u215) - nSW[i])
		}
	}
}
