// Package tpa implements Transition Power Abstraction, the doubling
// reachability procedure behind Golem's TPA engine: an accelerated
// reachability engine maintaining a hierarchy of
// over-approximations of Tr^{=2^n} (and, in the split variant, Tr^{<2^n}),
// refined by interpolants, used to detect safety fixed points or genuine
// counterexamples without unrolling Tr one step at a time.
package tpa

import (
	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/mbp"
	"github.com/hornkernel/chck/smt"
	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
	"github.com/hornkernel/chck/transition"
)

// MaxPower bounds the doubling search as a safety valve, matching
// engine/kind's MaxDepth: a correctly implemented run reaches UNSAFE, SAFE,
// or a fixed point long before the hierarchy's exponent gets here.
const MaxPower = 64

// Base holds the state shared by the split and basic TPA variants: the term
// bank, the transition system, the MBP projector, and the per-power query
// cache. Each level's solver lives inside the Hierarchy that owns it.
type Base struct {
	ctx  *native.Context
	tm   *timemachine.TimeMachine
	ts   *transition.TransitionSystem
	elim *mbp.Eliminator
	cfg  *native.Config
	opts core.Options
	cache   *queryCache
	cacheLT *queryCache
	qe      *mbp.QuantifierElimination
}

// MaxQEModels bounds the model-enumeration quantifier elimination used for
// fixed-point invariant extraction; enumerating blocking models has no
// termination guarantee on a pathological formula, so a cap keeps invariant
// construction from running away.
const MaxQEModels = 16

func newBase(ctx *native.Context, opts core.Options) *Base {
	cfg := native.NewConfig(opts.SimplifyLevel, opts.InterpolationStrength)
	return &Base{
		ctx:     ctx,
		elim:    mbp.New(ctx),
		cfg:     cfg,
		opts:    opts,
		cache:   newQueryCache(),
		cacheLT: newQueryCache(),
		qe:      mbp.NewQuantifierElimination(ctx),
	}
}

// project keeps only the named variables of f, honoring opts.UseQE: the
// default is model-based projection witnessed by m; when the flag is set it
// is exact quantifier elimination via model enumeration instead, trading
// speed for an exact (rather than under-approximating) projection.
func (b *Base) project(f *native.Term, keep []timemachine.Variable, m *native.Model) *native.Term {
	if b.opts.UseQE {
		return b.qe.KeepOnly(f, keep, MaxQEModels)
	}
	return b.elim.KeepOnly(f, keep, m)
}

func (b *Base) checkUnsat(f *native.Term) (bool, error) {
	b.opts.Progress.IncrQueries(1)
	s := b.ctx.NewSolver()
	defer s.Close()
	s.Assert(f)
	switch s.Check() {
	case native.Unsat:
		return true, nil
	case native.Sat:
		return false, nil
	default:
		return false, core.ErrSolverUnknown
	}
}

func (b *Base) bind(ts *transition.TransitionSystem) {
	b.ts = ts
	b.tm = ts.TM
}

func (b *Base) invariantOrNil(inv *native.Term) *native.Term {
	if !b.opts.ComputeWitness {
		return nil
	}
	return inv
}

func (b *Base) depthOrUnset(k int) int {
	if !b.opts.ComputeWitness {
		return -1
	}
	return k
}

func stateVarsAtVersion(ts *transition.TransitionSystem, v int) []timemachine.Variable {
	names := ts.StateVarBaseNames()
	out := make([]timemachine.Variable, len(names))
	for i, name := range names {
		out[i] = timemachine.Variable{BaseName: name, Version: v}
	}
	return out
}

//-------------------------------------------------------------------
// Generic exact-style two-hierarchy reachability (shared by split's Exact
// and basic's Level; both are single relations strengthened monotonically).
//-------------------------------------------------------------------

// exactLike decides reachability of to from from in 2^{n-1} steps under
// hier (exactly that many for Exact, at most that many for Level): the recursive halving step TPA shares between its Exact and
// Level hierarchies.
func (b *Base) exactLike(hier *Hierarchy, n int, from, to *native.Term) (QueryResult, error) {
	if cached, ok := b.cache.get(n, from, to); ok {
		return cached, nil
	}
	var res QueryResult
	var err error
	if n == 1 {
		res, err = b.baseStep(hier, from, to)
	} else {
		res, err = b.recursiveStep(hier, n, from, to)
	}
	if err != nil {
		return QueryResult{}, err
	}
	b.cache.set(n, from, to, res)
	return res, nil
}

func (b *Base) baseStep(hier *Hierarchy, from, to *native.Term) (QueryResult, error) {
	b.opts.Progress.IncrQueries(1)
	s := b.ctx.NewSolver()
	defer s.Close()
	s.Assert(from)
	s.Assert(hier.Get(1))
	s.Assert(b.tm.Shift(to, 1))
	switch s.Check() {
	case native.Sat:
		m := s.Model()
		refined := b.project(b.ctx.And(hier.Get(1), b.tm.Shift(to, 1)), b.ts.StateVariables(), m)
		return QueryResult{Reachable: true, Refined: refined}, nil
	case native.Unsat:
		return QueryResult{}, nil
	default:
		return QueryResult{}, core.ErrSolverUnknown
	}
}

func (b *Base) recursiveStep(hier *Hierarchy, n int, from, to *native.Term) (QueryResult, error) {
	for {
		facade := hier.solverFor(n)
		b.opts.Progress.IncrQueries(1)
		goal := b.ctx.And(from, b.tm.Shift(to, 2))
		res, err := facade.CheckConsistent(goal)
		if err != nil {
			return QueryResult{}, err
		}
		if res == smt.Unreachable {
			itp, err := facade.LastTransitionInterpolant()
			if err != nil {
				return QueryResult{}, err
			}
			renamed := b.tm.RenameVersion(itp, 2, 1)
			hier.Strengthen(n, renamed)
			return QueryResult{}, nil
		}

		m, err := facade.LastModel()
		if err != nil {
			return QueryResult{}, err
		}

		if n == 2 {
			basis := hier.Get(1)
			twoStep := b.ctx.And(from, basis, b.tm.Shift(basis, 1), b.tm.Shift(to, 2))
			refined2 := b.project(twoStep, stateVarsAtVersion(b.ts, 2), m)
			refined := b.tm.RenameVersion(refined2, 2, 0)
			return QueryResult{Reachable: true, Refined: refined}, nil
		}

		basis := hier.Get(n - 1)
		midFrom1 := b.project(b.ctx.And(from, basis), stateVarsAtVersion(b.ts, 1), m)
		midFrom := b.tm.RenameVersion(midFrom1, 1, 0)
		midTo1 := b.project(b.ctx.And(b.tm.Shift(to, 2), b.tm.Shift(basis, 1)), stateVarsAtVersion(b.ts, 1), m)
		midTo := b.tm.RenameVersion(midTo1, 1, 0)
		mid := b.ctx.And(midFrom, midTo)

		left, err := b.exactLike(hier, n-1, from, mid)
		if err != nil {
			return QueryResult{}, err
		}
		if !left.Reachable {
			continue
		}
		right, err := b.exactLike(hier, n-1, left.Refined, to)
		if err != nil {
			return QueryResult{}, err
		}
		if !right.Reachable {
			continue
		}
		return QueryResult{Reachable: true, Refined: right.Refined}, nil
	}
}
