package smt

import (
	"github.com/hornkernel/chck/smt/native"
)

// IncrementalFacade keeps a single persistent solver alive across queries.
// Strengthen opens a permanent backtracking scope; CheckConsistent opens a
// scope for the query alone and leaves it open until the caller has pulled
// the model or interpolant out, mirroring SolverWrapperIncremental.
type IncrementalFacade struct {
	ctx    *native.Context
	cfg    *native.Config
	solver *native.Solver

	preamble     []*Term
	preambleMask uint64

	queryOpen  bool
	lastResult native.LBool
}

// NewIncrementalFacade creates an IncrementalFacade whose preamble is
// initially phi.
func NewIncrementalFacade(ctx *native.Context, cfg *native.Config, phi *Term) *IncrementalFacade {
	f := &IncrementalFacade{
		ctx:    ctx,
		cfg:    cfg,
		solver: ctx.NewSolver(),
	}
	f.assertPreamble(phi)
	return f
}

func (f *IncrementalFacade) assertPreamble(phi *Term) {
	idx := f.solver.Assert(phi)
	f.preamble = append(f.preamble, phi)
	f.preambleMask |= uint64(1) << uint(idx)
}

func (f *IncrementalFacade) Strengthen(phi *Term) {
	f.closeQueryScope()
	f.solver.Push()
	f.assertPreamble(phi)
}

func (f *IncrementalFacade) CheckConsistent(q *Term) (Reachability, error) {
	f.closeQueryScope()
	f.solver.Push()
	f.solver.Assert(q)
	f.queryOpen = true
	f.lastResult = f.solver.Check()
	switch f.lastResult {
	case native.Sat:
		return Reachable, nil
	case native.Unsat:
		return Unreachable, nil
	default:
		return Unknown, ErrSolverUnknown
	}
}

// LastModel returns the model witnessing the last Reachable result. The
// query scope it was computed in stays open (and the model stays valid)
// until the next CheckConsistent or Strengthen call closes it; a caller
// that needs values out of the model must read them before making either
// call again.
func (f *IncrementalFacade) LastModel() (*Model, error) {
	if !f.queryOpen || f.lastResult != native.Sat {
		return nil, ErrNoModel
	}
	return f.solver.Model(), nil
}

// LastTransitionInterpolant returns the interpolant for the last Unreachable
// result. See LastModel's note on the query scope's lifetime.
func (f *IncrementalFacade) LastTransitionInterpolant() (*Term, error) {
	if !f.queryOpen || f.lastResult != native.Unsat {
		return nil, ErrNoInterpolant
	}
	return f.solver.Interpolate(f.preambleMask), nil
}

func (f *IncrementalFacade) closeQueryScope() {
	if f.queryOpen {
		f.solver.Pop()
		f.queryOpen = false
	}
}

func (f *IncrementalFacade) Close() error {
	return f.solver.Close()
}

// rebuild discards the current solver and its accumulated push scopes,
// replacing the preamble with a single consolidated formula. Used by
// IncrementalRestartFacade once the push stack grows past its limit.
func (f *IncrementalFacade) rebuild(consolidated *Term) {
	f.closeQueryScope()
	f.solver.Close()
	f.solver = f.ctx.NewSolver()
	f.preamble = nil
	f.preambleMask = 0
	f.assertPreamble(consolidated)
}
