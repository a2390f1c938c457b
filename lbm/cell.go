package lbm

// CellKind is the role a lattice site plays in the simulation.
type CellKind uint8

const (
	Fluid CellKind = iota
	Solid
	Outlet
	Inlet
)

// PortMask records which faces of a port cell open onto fluid.
type PortMask uint8

// Port faces, matching the bit layout of the orientation mask.
const (
	FaceNorth PortMask = 1 << iota
	FaceEast
	FaceSouth
	FaceWest
)

// Cell is the barrier entry for one site. Ports is only meaningful for Inlet
// and Outlet cells and is recomputed by OrientPorts.
type Cell struct {
	Kind  CellKind
	Ports PortMask
}

// Common cell values.
var (
	FluidCell  = Cell{Kind: Fluid}
	SolidCell  = Cell{Kind: Solid}
	InletCell  = Cell{Kind: Inlet}
	OutletCell = Cell{Kind: Outlet}
)

// IsBarrier reports whether the cell reflects populations.
func (c Cell) IsBarrier() bool {
	return c.Kind != Fluid
}

// IsPort reports whether the cell is a directional inlet or outlet.
func (c Cell) IsPort() bool {
	return c.Kind == Inlet || c.Kind == Outlet
}

// Code returns the numeric barrier code: 0 fluid, 1 solid, 2 outlet, 3 inlet.
func (c Cell) Code() uint8 {
	return uint8(c.Kind)
}

// CellFromCode converts a numeric barrier code back to a Cell.
// Unknown codes are treated as solid.
func CellFromCode(code uint8) Cell {
	switch CellKind(code) {
	case Fluid:
		return FluidCell
	case Solid:
		return SolidCell
	case Outlet:
		return OutletCell
	case Inlet:
		return InletCell
	}
	return SolidCell
}

// Open reports whether face f of a port cell is open.
func (m PortMask) Open(f PortMask) bool {
	return m&f != 0
}

func (k CellKind) String() string {
	switch k {
	case Fluid:
		return "fluid"
	case Solid:
		return "solid"
	case Outlet:
		return "outlet"
	case Inlet:
		return "inlet"
	}
	return "unknown"
}
