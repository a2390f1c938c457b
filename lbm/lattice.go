package lbm

// Lattice holds every per-cell array of the simulation. All slices are
// row-major with index = x + y*Width and y growing northward.
type Lattice struct {
	Width, Height int

	// F holds the nine population arrays, indexed by Direction.
	F [NumDirections][]float64

	// Macroscopic fields, refreshed by Collide and SetEquilibrium.
	Rho []float64
	Ux  []float64
	Uy  []float64

	// Visualization fields, only refreshed by ComputeDerived.
	Curl     []float64
	Pressure []float64

	// Cells is the barrier mask. It is owned by the caller between steps.
	Cells []Cell
}

// NewLattice allocates a lattice of the given size with every cell fluid
// and every population zero.
func NewLattice(width, height int) *Lattice {
	n := width * height
	l := &Lattice{
		Width:    width,
		Height:   height,
		Rho:      make([]float64, n),
		Ux:       make([]float64, n),
		Uy:       make([]float64, n),
		Curl:     make([]float64, n),
		Pressure: make([]float64, n),
		Cells:    make([]Cell, n),
	}
	for d := range l.F {
		l.F[d] = make([]float64, n)
	}
	return l
}

// Len returns the number of cells.
func (l *Lattice) Len() int {
	return l.Width * l.Height
}

// Index returns the array index of (x, y). Coordinates must be in range.
func (l *Lattice) Index(x, y int) int {
	return x + y*l.Width
}

// IsEdge reports whether (x, y) lies on the outermost ring.
func (l *Lattice) IsEdge(x, y int) bool {
	return x == 0 || y == 0 || x == l.Width-1 || y == l.Height-1
}

// Cell returns the barrier entry at (x, y).
func (l *Lattice) Cell(x, y int) Cell {
	return l.Cells[x+y*l.Width]
}

// SetCell writes the barrier entry at (x, y).
func (l *Lattice) SetCell(x, y int, c Cell) {
	l.Cells[x+y*l.Width] = c
}

// ClearBarriers turns every cell back into fluid.
func (l *Lattice) ClearBarriers() {
	for i := range l.Cells {
		l.Cells[i] = FluidCell
	}
}

// BarrierCount returns the number of non-fluid cells.
func (l *Lattice) BarrierCount() int {
	n := 0
	for _, c := range l.Cells {
		if c.IsBarrier() {
			n++
		}
	}
	return n
}

// CellDensity sums the populations at index i.
func (l *Lattice) CellDensity(i int) float64 {
	var rho float64
	for d := range l.F {
		rho += l.F[d][i]
	}
	return rho
}

// CellMoments returns density and velocity computed from the populations at
// index i rather than from the stored macroscopic fields.
func (l *Lattice) CellMoments(i int) (rho, ux, uy float64) {
	f := &l.F
	rho = f[Rest][i] + f[East][i] + f[North][i] + f[West][i] + f[South][i] +
		f[NorthEast][i] + f[NorthWest][i] + f[SouthWest][i] + f[SouthEast][i]
	ux = (f[East][i] + f[NorthEast][i] + f[SouthEast][i] - f[West][i] - f[NorthWest][i] - f[SouthWest][i]) / rho
	uy = (f[North][i] + f[NorthEast][i] + f[NorthWest][i] - f[South][i] - f[SouthEast][i] - f[SouthWest][i]) / rho
	return rho, ux, uy
}

// OrientPorts recomputes the open-face mask of every interior inlet and
// outlet from its fluid neighbours. Non-port cells get an empty mask.
func (l *Lattice) OrientPorts() {
	w := l.Width
	for y := 1; y < l.Height-1; y++ {
		for x := 1; x < w-1; x++ {
			i := x + y*w
			c := &l.Cells[i]
			if !c.IsPort() {
				c.Ports = 0
				continue
			}
			var m PortMask
			if l.Cells[i+w].Kind == Fluid {
				m |= FaceNorth
			}
			if l.Cells[i+1].Kind == Fluid {
				m |= FaceEast
			}
			if l.Cells[i-w].Kind == Fluid {
				m |= FaceSouth
			}
			if l.Cells[i-1].Kind == Fluid {
				m |= FaceWest
			}
			c.Ports = m
		}
	}
}
