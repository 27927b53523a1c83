package tpa

import (
	"github.com/hornkernel/chck/smt"
	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
)

// Hierarchy is a growable sequence of over-approximations of Tr's n-step
// powers (Exact[n], LessThan[n], or the basic variant's Level[n]), the
// data structure Transition Power Abstraction refines level by level as the
// doubling search proceeds. Level n>=2 additionally owns a persistent
// two-step reachability solver whose preamble is Get(n-1) /\ next(Get(n-1)),
// kept incremental by Strengthen so that repeated two-step queries at level
// n+1 do not re-assert the level-(n-1) formula from scratch.
type Hierarchy struct {
	ctx *native.Context
	tm  *timemachine.TimeMachine
	cfg *native.Config

	variant      smt.Variant
	restartLimit int

	formulas map[int]*native.Term
	solvers  map[int]smt.Facade
}

func newHierarchy(ctx *native.Context, tm *timemachine.TimeMachine, cfg *native.Config, variant smt.Variant, restartLimit int) *Hierarchy {
	return &Hierarchy{
		ctx:          ctx,
		tm:           tm,
		cfg:          cfg,
		variant:      variant,
		restartLimit: restartLimit,
		formulas:     make(map[int]*native.Term),
		solvers:      make(map[int]smt.Facade),
	}
}

// Get returns the formula at level n, true if level n was never set.
func (h *Hierarchy) Get(n int) *native.Term {
	if f, ok := h.formulas[n]; ok {
		return f
	}
	return h.ctx.True()
}

// Init sets level n's initial formula. Only valid before any query has
// created level n's two-step solver.
func (h *Hierarchy) Init(n int, f *native.Term) {
	h.formulas[n] = f
}

// Strengthen conjoins f onto level n and propagates the change to level
// n+1's two-step solver, if it exists, by strengthening its preamble with
// f's two-step image.
func (h *Hierarchy) Strengthen(n int, f *native.Term) {
	h.formulas[n] = h.ctx.And(h.Get(n), f)
	if s, ok := h.solvers[n+1]; ok {
		s.Strengthen(h.ctx.And(f, h.tm.Shift(f, 1)))
	}
}

// solverFor returns the two-step reachability facade for level n (n>=2),
// lazily built over Get(n-1) /\ next(Get(n-1)).
func (h *Hierarchy) solverFor(n int) smt.Facade {
	if s, ok := h.solvers[n]; ok {
		return s
	}
	basis := h.Get(n - 1)
	preamble := h.ctx.And(basis, h.tm.Shift(basis, 1))
	s := smt.New(h.variant, h.ctx, h.cfg, preamble, h.restartLimit)
	h.solvers[n] = s
	return s
}

// reset drops every cached two-step solver, used when a power's caches are
// cleared so the next power's queries do not reuse stale state; the level
// formulas themselves are untouched (they are monotone and persist).
func (h *Hierarchy) resetSolvers() {
	for n, s := range h.solvers {
		s.Close()
		delete(h.solvers, n)
	}
}
