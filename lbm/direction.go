package lbm

// Direction indexes one of the nine D2Q9 lattice velocities.
type Direction uint8

// D2Q9 directions. North is +y.
const (
	Rest Direction = iota
	East
	North
	West
	South
	NorthEast
	NorthWest
	SouthWest
	SouthEast

	NumDirections = 9
)

// Lattice weights.
const (
	four9ths = 4.0 / 9.0
	one9th   = 1.0 / 9.0
	one36th  = 1.0 / 36.0
)

var (
	dirEx       = [NumDirections]int{0, 1, 0, -1, 0, 1, -1, -1, 1}
	dirEy       = [NumDirections]int{0, 0, 1, 0, -1, 1, 1, -1, -1}
	dirWeight   = [NumDirections]float64{four9ths, one9th, one9th, one9th, one9th, one36th, one36th, one36th, one36th}
	dirOpposite = [NumDirections]Direction{Rest, West, South, East, North, SouthWest, SouthEast, NorthEast, NorthWest}
	dirNames    = [NumDirections]string{"rest", "e", "n", "w", "s", "ne", "nw", "sw", "se"}
)

// Velocity returns the lattice velocity (ex, ey) of d.
func (d Direction) Velocity() (ex, ey int) {
	return dirEx[d], dirEy[d]
}

// Weight returns the equilibrium weight of d.
func (d Direction) Weight() float64 {
	return dirWeight[d]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return dirOpposite[d]
}

func (d Direction) String() string {
	if int(d) < NumDirections {
		return dirNames[d]
	}
	return "invalid"
}
