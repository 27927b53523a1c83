package smt

import (
	"github.com/hornkernel/chck/smt/native"
)

// DefaultRestartLimit is the number of push scopes an IncrementalRestartFacade
// tolerates before collapsing them into a single consolidated assertion,
// matching SolverWrapperIncrementalWithRestarts's limit in TPA.cc.
const DefaultRestartLimit = 100

// IncrementalRestartFacade behaves like IncrementalFacade but periodically
// rebuilds its underlying solver from scratch, folding every strengthening
// formula asserted so far into one conjunction. This bounds the depth of the
// solver's internal backtracking stack at the cost of re-asserting the
// consolidated preamble.
type IncrementalRestartFacade struct {
	inner *IncrementalFacade
	ctx   *native.Context

	limit  int
	levels int

	components []*Term
}

// NewIncrementalRestartFacade creates an IncrementalRestartFacade whose
// preamble is initially phi, restarting once more than limit scopes have
// been opened. A limit <= 0 selects DefaultRestartLimit.
func NewIncrementalRestartFacade(ctx *native.Context, cfg *native.Config, phi *Term, limit int) *IncrementalRestartFacade {
	if limit <= 0 {
		limit = DefaultRestartLimit
	}
	return &IncrementalRestartFacade{
		inner:      NewIncrementalFacade(ctx, cfg, phi),
		ctx:        ctx,
		limit:      limit,
		components: []*Term{phi},
	}
}

func (f *IncrementalRestartFacade) maybeRestart() {
	if f.levels <= f.limit {
		return
	}
	f.inner.rebuild(f.ctx.And(f.components...))
	f.levels = 0
}

func (f *IncrementalRestartFacade) Strengthen(phi *Term) {
	f.inner.Strengthen(phi)
	f.components = append(f.components, phi)
	f.levels++
	f.maybeRestart()
}

func (f *IncrementalRestartFacade) CheckConsistent(q *Term) (Reachability, error) {
	f.levels++
	f.maybeRestart()
	return f.inner.CheckConsistent(q)
}

func (f *IncrementalRestartFacade) LastModel() (*Model, error) {
	return f.inner.LastModel()
}

func (f *IncrementalRestartFacade) LastTransitionInterpolant() (*Term, error) {
	return f.inner.LastTransitionInterpolant()
}

func (f *IncrementalRestartFacade) Close() error {
	return f.inner.Close()
}
