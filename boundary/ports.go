package boundary

import "github.com/pthm-cable/windtunnel/lbm"

// Ports drives the fluid next to inlet and outlet cells. An inlet blows
// Speed out of each open face; an outlet pins the density of the fluid in
// front of each open face to Density while keeping its velocity.
type Ports struct {
	Speed   float64
	Density float64
}

var faces = [...]struct {
	face   lbm.PortMask
	dx, dy int
}{
	{lbm.FaceNorth, 0, 1},
	{lbm.FaceEast, 1, 0},
	{lbm.FaceSouth, 0, -1},
	{lbm.FaceWest, -1, 0},
}

// Apply re-orients every port and forces its open neighbours. It returns the
// number of fluid cells written.
func (p Ports) Apply(f Field) int {
	l := f.Lattice()
	l.OrientPorts()

	n := 0
	for y := 1; y < l.Height-1; y++ {
		for x := 1; x < l.Width-1; x++ {
			c := l.Cell(x, y)
			if !c.IsPort() || c.Ports == 0 {
				continue
			}
			for _, fc := range faces {
				if !c.Ports.Open(fc.face) {
					continue
				}
				nx, ny := x+fc.dx, y+fc.dy
				switch c.Kind {
				case lbm.Inlet:
					f.SetEquilibrium(nx, ny, p.Speed*float64(fc.dx), p.Speed*float64(fc.dy), p.Density)
				case lbm.Outlet:
					i := l.Index(nx, ny)
					f.SetEquilibrium(nx, ny, l.Ux[i], l.Uy[i], p.Density)
				}
				n++
			}
		}
	}
	return n
}
