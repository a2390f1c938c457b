// Package lbm implements a two-dimensional D2Q9 lattice Boltzmann fluid solver
// with BGK collisions and bounce-back barriers.
package lbm

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is wrapped by NewSolver when the options cannot describe
// a runnable lattice.
var ErrInvalidOptions = errors.New("invalid solver options")

// Options configures a Solver.
type Options struct {
	Width     int
	Height    int
	Viscosity float64

	// Workers is the size of the row worker pool. Zero means GOMAXPROCS.
	Workers int
	// ParallelThreshold is the minimum cell count for a parallel pass.
	// Zero selects a built-in default.
	ParallelThreshold int
}

// Solver owns a Lattice and advances it in time. A Solver is not safe for
// concurrent use; callers edit barriers only between steps.
type Solver struct {
	lat       *Lattice
	next      [NumDirections][]float64
	viscosity float64
	omega     float64
	forces    Forces
	pool      *rowPool
}

// NewSolver allocates a solver with every population zero. Call Initialize
// before stepping.
func NewSolver(opts Options) (*Solver, error) {
	if opts.Width < 3 || opts.Height < 3 {
		return nil, fmt.Errorf("%w: grid %dx%d smaller than 3x3", ErrInvalidOptions, opts.Width, opts.Height)
	}
	if !(opts.Viscosity > 0) {
		return nil, fmt.Errorf("%w: viscosity %v must be positive", ErrInvalidOptions, opts.Viscosity)
	}

	lat := NewLattice(opts.Width, opts.Height)
	s := &Solver{
		lat:  lat,
		pool: newRowPool(opts.Workers, opts.ParallelThreshold),
	}
	for d := East; d < NumDirections; d++ {
		s.next[d] = make([]float64, lat.Len())
	}
	s.SetViscosity(opts.Viscosity)
	return s, nil
}

// Omega returns the relaxation rate for kinematic viscosity nu.
func Omega(nu float64) float64 {
	return 1 / (3*nu + 0.5)
}

// Initialize sets every cell to the equilibrium for a uniform eastward flow
// and clears the derived fields.
func (s *Solver) Initialize(speed, density float64) {
	l := s.lat
	for i := 0; i < l.Len(); i++ {
		l.setEquilibrium(i, speed, 0, density)
		l.Curl[i] = 0
		l.Pressure[i] = 0
	}
	s.forces = Forces{}
}

// Step runs one collision followed by one stream.
func (s *Solver) Step() Forces {
	s.Collide()
	return s.Stream()
}

// Lattice returns the solver's state. Callers may read every field and write
// Cells between steps.
func (s *Solver) Lattice() *Lattice { return s.lat }

// Width returns the grid width.
func (s *Solver) Width() int { return s.lat.Width }

// Height returns the grid height.
func (s *Solver) Height() int { return s.lat.Height }

// Index returns the array index of (x, y).
func (s *Solver) Index(x, y int) int { return x + y*s.lat.Width }

func (s *Solver) Viscosity() float64 { return s.viscosity }

// SetViscosity changes the viscosity and the derived relaxation rate. The
// value is not validated.
func (s *Solver) SetViscosity(nu float64) {
	s.viscosity = nu
	s.omega = Omega(nu)
}

func (s *Solver) Omega() float64 { return s.omega }

// Forces returns the result of the most recent Stream.
func (s *Solver) Forces() Forces { return s.forces }

// Close stops the worker pool. The solver stays usable and runs inline or
// restarts workers on the next parallel pass.
func (s *Solver) Close() {
	s.pool.stop()
}
