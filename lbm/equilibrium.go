package lbm

// Equilibrium returns the D2Q9 equilibrium population for direction d at
// density rho and velocity (ux, uy).
func Equilibrium(d Direction, rho, ux, uy float64) float64 {
	eu := float64(dirEx[d])*ux + float64(dirEy[d])*uy
	u2 := ux*ux + uy*uy
	return dirWeight[d] * rho * (1 + 3*eu + 4.5*eu*eu - 1.5*u2)
}

// setEquilibrium writes all nine equilibrium populations and the macroscopic
// fields at index i. The expansion is inlined for the hot paths.
func (l *Lattice) setEquilibrium(i int, ux, uy, rho float64) {
	ux3 := 3 * ux
	uy3 := 3 * uy
	ux2 := ux * ux
	uy2 := uy * uy
	uxuy2 := 2 * ux * uy
	u2 := ux2 + uy2
	u215 := 1.5 * u2

	l.F[Rest][i] = four9ths * rho * (1 - u215)
	l.F[East][i] = one9th * rho * (1 + ux3 + 4.5*ux2 - u215)
	l.F[West][i] = one9th * rho * (1 - ux3 + 4.5*ux2 - u215)
	l.F[North][i] = one9th * rho * (1 + uy3 + 4.5*uy2 - u215)
	l.F[South][i] = one9th * rho * (1 - uy3 + 4.5*uy2 - u215)
	l.F[NorthEast][i] = one36th * rho * (1 + ux3 + uy3 + 4.5*(u2+uxuy2) - u215)
	l.F[SouthEast][i] = one36th * rho * (1 + ux3 - uy3 + 4.5*(u2-uxuy2) - u215)
	l.F[NorthWest][i] = one36th * rho * (1 - ux3 + uy3 + 4.5*(u2-uxuy2) - u215)
	l.F[SouthWest][i] = one36th * rho * (1 - ux3 - uy3 + 4.5*(u2+uxuy2) - u215)

	l.Rho[i] = rho
	l.Ux[i] = ux
	l.Uy[i] = uy
}

// SetEquilibrium overwrites the cell at (x, y) with the equilibrium
// distribution for the given velocity and density.
func (s *Solver) SetEquilibrium(x, y int, ux, uy, rho float64) {
	s.lat.setEquilibrium(x+y*s.lat.Width, ux, uy, rho)
}

// SetVelocity is SetEquilibrium at the cell's current density.
func (s *Solver) SetVelocity(x, y int, ux, uy float64) {
	i := x + y*s.lat.Width
	s.lat.setEquilibrium(i, ux, uy, s.lat.Rho[i])
}
