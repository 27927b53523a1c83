package smt

import (
	"github.com/hornkernel/chck/smt/native"
)

// SingleUseFacade creates a brand new solver for every query. It pays the
// cost of re-asserting the whole preamble each time but never accumulates
// internal solver state.
type SingleUseFacade struct {
	ctx      *native.Context
	cfg      *native.Config
	preamble []*Term

	lastSolver *native.Solver
	lastResult native.LBool
	preambleMask uint64
}

// NewSingleUseFacade creates a SingleUseFacade whose preamble is initially phi.
func NewSingleUseFacade(ctx *native.Context, cfg *native.Config, phi *Term) *SingleUseFacade {
	return &SingleUseFacade{
		ctx:      ctx,
		cfg:      cfg,
		preamble: []*Term{phi},
	}
}

func (f *SingleUseFacade) Strengthen(phi *Term) {
	f.preamble = append(f.preamble, phi)
}

func (f *SingleUseFacade) CheckConsistent(q *Term) (Reachability, error) {
	solver := f.ctx.NewSolver()
	for _, p := range f.preamble {
		solver.Assert(p)
	}
	solver.Assert(q)
	f.preambleMask = native.PartitionMask(len(f.preamble))

	f.lastSolver = solver
	f.lastResult = solver.Check()
	switch f.lastResult {
	case native.Sat:
		return Reachable, nil
	case native.Unsat:
		return Unreachable, nil
	default:
		return Unknown, ErrSolverUnknown
	}
}

func (f *SingleUseFacade) LastModel() (*Model, error) {
	if f.lastSolver == nil || f.lastResult != native.Sat {
		return nil, ErrNoModel
	}
	return f.lastSolver.Model(), nil
}

func (f *SingleUseFacade) LastTransitionInterpolant() (*Term, error) {
	if f.lastSolver == nil || f.lastResult != native.Unsat {
		return nil, ErrNoInterpolant
	}
	return f.lastSolver.Interpolate(f.preambleMask), nil
}

func (f *SingleUseFacade) Close() error {
	if f.lastSolver != nil {
		return f.lastSolver.Close()
	}
	return nil
}
