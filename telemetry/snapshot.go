package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/windtunnel/lbm"
	"github.com/pthm-cable/windtunnel/obstacle"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// FieldSnapshot holds the macroscopic state of the lattice for external
// rendering and for restarting a run.
type FieldSnapshot struct {
	Version int   `json:"version"`
	Tick    int32 `json:"tick"`

	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Viscosity float64 `json:"viscosity"`

	Rho      []float64 `json:"rho"`
	Ux       []float64 `json:"ux"`
	Uy       []float64 `json:"uy"`
	Curl     []float64 `json:"curl"`
	Pressure []float64 `json:"pressure"`

	// Barrier is the RLE encoded barrier mask.
	Barrier string `json:"barrier"`

	Forces lbm.Forces `json:"forces"`

	Event *Event `json:"event,omitempty"`
}

// NewFieldSnapshot copies the current state of s.
func NewFieldSnapshot(s *lbm.Solver, tick int32) *FieldSnapshot {
	l := s.Lattice()
	return &FieldSnapshot{
		Version:   SnapshotVersion,
		Tick:      tick,
		Width:     l.Width,
		Height:    l.Height,
		Viscosity: s.Viscosity(),
		Rho:       append([]float64(nil), l.Rho...),
		Ux:        append([]float64(nil), l.Ux...),
		Uy:        append([]float64(nil), l.Uy...),
		Curl:      append([]float64(nil), l.Curl...),
		Pressure:  append([]float64(nil), l.Pressure...),
		Barrier:   obstacle.EncodeRLE(obstacle.Codes(l)),
		Forces:    s.Forces(),
	}
}

// Restore puts every cell of s at the equilibrium for the snapshot's
// density and velocity and replaces the barrier mask. The solver must have
// the snapshot's dimensions.
func (fs *FieldSnapshot) Restore(s *lbm.Solver) error {
	l := s.Lattice()
	if l.Width != fs.Width || l.Height != fs.Height {
		return fmt.Errorf("snapshot is %dx%d, solver is %dx%d", fs.Width, fs.Height, l.Width, l.Height)
	}
	n := l.Len()
	if len(fs.Rho) != n || len(fs.Ux) != n || len(fs.Uy) != n {
		return fmt.Errorf("snapshot fields have %d/%d/%d cells, want %d", len(fs.Rho), len(fs.Ux), len(fs.Uy), n)
	}

	codes, err := obstacle.DecodeRLE(fs.Barrier)
	if err != nil {
		return fmt.Errorf("decode barrier: %w", err)
	}
	if err := obstacle.ApplyCodes(l, codes); err != nil {
		return err
	}

	s.SetViscosity(fs.Viscosity)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			i := l.Index(x, y)
			s.SetEquilibrium(x, y, fs.Ux[i], fs.Uy[i], fs.Rho[i])
		}
	}
	if len(fs.Curl) == n && len(fs.Pressure) == n {
		copy(l.Curl, fs.Curl)
		copy(l.Pressure, fs.Pressure)
	}
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *FieldSnapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("field_%d", snapshot.Tick)
	if snapshot.Event != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Event.Type), " ", "_")
		name = fmt.Sprintf("field_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*FieldSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot FieldSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
