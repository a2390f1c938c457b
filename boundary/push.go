package boundary

// Push drags the fluid around (X, Y) with velocity (UX, UY).
type Push struct {
	X, Y   int
	UX, UY float64
}

// PushParams bounds a push.
type PushParams struct {
	Radius   int     // half-width of the pushed square
	Margin   int     // minimum distance from the outer ring
	MaxSpeed float64 // per-component velocity clamp
}

// DefaultPushParams is the interactive drag brush.
var DefaultPushParams = PushParams{Radius: 2, Margin: 3, MaxSpeed: 0.1}

// Clamped returns p with each velocity component limited to MaxSpeed.
func (p Push) Clamped(maxSpeed float64) Push {
	p.UX = clamp(p.UX, maxSpeed)
	p.UY = clamp(p.UY, maxSpeed)
	return p
}

// Apply sets every cell of the (2R+1)^2 square around the push point to the
// push velocity at its current density. Pushes closer than Margin to the edge
// are ignored. Apply reports whether anything was written.
func (p Push) Apply(f Field, params PushParams) bool {
	l := f.Lattice()
	m := params.Margin
	if p.X <= m || p.X >= l.Width-1-m || p.Y <= m || p.Y >= l.Height-1-m {
		return false
	}

	p = p.Clamped(params.MaxSpeed)
	r := params.Radius
	for dy := -r; dy <= r; dy++ {
		y := p.Y + dy
		if y < 0 || y >= l.Height {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			x := p.X + dx
			if x < 0 || x >= l.Width {
				continue
			}
			f.SetVelocity(x, y, p.UX, p.UY)
		}
	}
	return true
}

func clamp(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
