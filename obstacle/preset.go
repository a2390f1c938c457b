package obstacle

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/windtunnel/config"
	"github.com/pthm-cable/windtunnel/lbm"
)

// Preset names.
const (
	PresetNone    = "none"
	PresetCircle  = "circle"
	PresetSquare  = "square"
	PresetLine    = "line"
	PresetAirfoil = "airfoil"
)

// Preset builds the named shape for a width x height lattice. It returns a
// nil Shape for PresetNone.
func Preset(name string, cfg config.ObstacleConfig, width, height int) (Shape, error) {
	cx := cfg.CenterX * float64(width)
	cy := cfg.CenterY * float64(height)
	size := float64(cfg.Size)

	switch name {
	case PresetNone, "":
		return nil, nil
	case PresetCircle:
		return Circle{CX: cx, CY: cy, Radius: size}, nil
	case PresetSquare:
		return Square(int(math.Round(cx)), int(math.Round(cy)), cfg.Size), nil
	case PresetLine:
		return Line{X0: cx, Y0: cy - size, X1: cx, Y1: cy + size, Width: 1}, nil
	case PresetAirfoil:
		chord := float64(cfg.Chord)
		return Airfoil{
			X:             cx - chord/2,
			Y:             cy,
			Chord:         chord,
			Camber:        cfg.Camber,
			CamberPos:     0.4,
			Thickness:     cfg.Thickness,
			AngleOfAttack: cfg.AngleOfAttack,
		}, nil
	}
	return nil, fmt.Errorf("unknown obstacle preset %q", name)
}

// Apply clears the lattice and places the obstacle described by cfg: the mask
// file when set, otherwise the named preset. It returns the barrier count.
func Apply(l *lbm.Lattice, cfg config.ObstacleConfig) (int, error) {
	Clear(l)

	if cfg.MaskFile != "" {
		codes, err := LoadMaskFile(cfg.MaskFile)
		if err != nil {
			return 0, err
		}
		if err := ApplyCodes(l, codes); err != nil {
			return 0, fmt.Errorf("applying mask %s: %w", cfg.MaskFile, err)
		}
		n := l.BarrierCount()
		slog.Info("obstacle loaded", "mask_file", cfg.MaskFile, "cells", n)
		return n, nil
	}

	shape, err := Preset(cfg.Preset, cfg, l.Width, l.Height)
	if err != nil {
		return 0, err
	}
	if shape == nil {
		return 0, nil
	}
	n := Place(l, shape, lbm.SolidCell)
	slog.Info("obstacle placed", "preset", cfg.Preset, "cells", n)
	return n, nil
}
