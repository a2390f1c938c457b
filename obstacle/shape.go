package obstacle

import "math"

// Circle is a filled disc.
type Circle struct {
	CX, CY float64
	Radius float64
}

func (c Circle) Contains(x, y int) bool {
	dx := float64(x) - c.CX
	dy := float64(y) - c.CY
	return dx*dx+dy*dy < c.Radius*c.Radius
}

// Rect is an axis-aligned filled rectangle with inclusive bounds.
type Rect struct {
	X0, Y0, X1, Y1 int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Square returns the Rect of half-side half centred on (cx, cy).
func Square(cx, cy, half int) Rect {
	return Rect{X0: cx - half, Y0: cy - half, X1: cx + half, Y1: cy + half}
}

// Line is a segment thickened to Width cells.
type Line struct {
	X0, Y0, X1, Y1 float64
	Width          float64
}

func (l Line) Contains(x, y int) bool {
	px, py := float64(x), float64(y)
	dx, dy := l.X1-l.X0, l.Y1-l.Y0
	len2 := dx*dx + dy*dy

	t := 0.0
	if len2 > 0 {
		t = ((px-l.X0)*dx + (py-l.Y0)*dy) / len2
		t = math.Max(0, math.Min(1, t))
	}
	qx := l.X0 + t*dx - px
	qy := l.Y0 + t*dy - py
	half := math.Max(l.Width, 1) / 2
	return qx*qx+qy*qy <= half*half
}

// Airfoil is a NACA 4-digit section. The leading edge sits at (X, Y); the
// chord extends downstream and is rotated by AngleOfAttack degrees, positive
// nose up.
type Airfoil struct {
	X, Y          float64
	Chord         float64
	Camber        float64 // m, max camber as a fraction of chord
	CamberPos     float64 // p, chordwise position of max camber
	Thickness     float64 // t, max thickness as a fraction of chord
	AngleOfAttack float64
}

// NACA builds an Airfoil from the classic four digits, e.g. 2412.
func NACA(digits int, x, y, chord, aoa float64) Airfoil {
	return Airfoil{
		X:             x,
		Y:             y,
		Chord:         chord,
		Camber:        float64(digits/1000) / 100,
		CamberPos:     float64(digits/100%10) / 10,
		Thickness:     float64(digits%100) / 100,
		AngleOfAttack: aoa,
	}
}

func (a Airfoil) Contains(x, y int) bool {
	if a.Chord <= 0 {
		return false
	}

	// Rotate into the chord frame. Positive angle lifts the nose, which
	// rotates the body clockwise about the leading edge.
	rad := a.AngleOfAttack * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	dx := float64(x) - a.X
	dy := float64(y) - a.Y
	xn := (dx*cos - dy*sin) / a.Chord
	yn := (dx*sin + dy*cos) / a.Chord

	if xn < 0 || xn > 1 {
		return false
	}

	m, p, t := a.Camber, a.CamberPos, a.Thickness
	if p <= 0 || p >= 1 {
		p = 0.4
	}

	// Camber line and slope
	var yc, dycdx float64
	if xn < p {
		yc = (m / (p * p)) * (2*p*xn - xn*xn)
		dycdx = (2 * m / (p * p)) * (p - xn)
	} else {
		yc = (m / ((1 - p) * (1 - p))) * ((1 - 2*p) + 2*p*xn - xn*xn)
		dycdx = (2 * m / ((1 - p) * (1 - p))) * (p - xn)
	}
	theta := math.Atan(dycdx)

	yt := 5 * t * (0.2969*math.Sqrt(xn) -
		0.1260*xn -
		0.3516*xn*xn +
		0.2843*xn*xn*xn -
		0.1015*xn*xn*xn*xn)

	// Half a cell of slack keeps thin trailing edges connected on the grid.
	slack := 0.5 / a.Chord
	upper := yc + yt*math.Cos(theta) + slack
	lower := yc - yt*math.Cos(theta) - slack
	return yn >= lower && yn <= upper
}
