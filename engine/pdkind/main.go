// Package pdkind implements property-directed k-induction (PDKind): a frame
// of (lemma, counterexample) pairs is pushed through increasingly deep
// unrollings of the transition relation until it reaches a fixed point (a
// safe invariant) or a counterexample is confirmed reachable from Init.
package pdkind

import (
	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/mbp"
	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
	"github.com/hornkernel/chck/transition"
)

// MaxOuterIterations bounds the main loop as a safety valve: a correctly
// implemented PDKind run either reaches a fixed point or finds a
// counterexample, but a degenerate input (e.g. an always-UNKNOWN solver
// response downstream) must not spin forever.
const MaxOuterIterations = 10000

// Engine is the property-directed k-induction engine.
type Engine struct {
	ctx  *native.Context
	opts core.Options
}

// New creates a pdkind Engine sharing ctx as its term bank.
func New(ctx *native.Context, opts core.Options) *Engine {
	return &Engine{ctx: ctx, opts: opts}
}

// Solve runs property-directed k-induction to a SAFE/UNSAFE/UNKNOWN verdict.
func (e *Engine) Solve(ts *transition.TransitionSystem) (*core.VerificationResult, error) {
	ctx := e.ctx

	e.opts.Progress.IncrQueries(1)
	initCheck := ctx.NewSolver()
	defer initCheck.Close()
	initCheck.Assert(ts.Init)
	if initCheck.Check() == native.Unsat {
		return &core.VerificationResult{Verdict: core.Safe, Invariant: e.invariantOrNil(ctx.False()), Depth: -1}, nil
	}

	e.opts.Progress.IncrQueries(1)
	badCheck := ctx.NewSolver()
	defer badCheck.Close()
	badCheck.Assert(ts.Init)
	badCheck.Assert(ts.Bad)
	switch badCheck.Check() {
	case native.Sat:
		return &core.VerificationResult{Verdict: core.Unsafe, Depth: e.depthOrUnset(0)}, nil
	case native.Unknown:
		return nil, core.ErrSolverUnknown
	}

	elim := mbp.New(ctx)
	rc := NewReachabilityChecker(ctx, ts.TM, ts, elim, e.opts.UseQE, e.opts.Progress)

	frame := NewIFrame()
	frame.Add(IFrameElement{Lemma: ctx.Not(ts.Bad), Cex: ts.Bad})
	n := 0

	for iter := 0; iter < MaxOuterIterations; iter++ {
		k := n + 1
		e.opts.Progress.IncrIteration()
		e.opts.Progress.SetDepth(n)
		e.opts.Progress.SetFrameSizes(len(frame.Elements()), len(frame.Elements()))

		newFrame, n2, invalid, err := push(ctx, ts.TM, ts, rc, frame, n, k)
		if err != nil {
			return nil, err
		}
		if invalid {
			return &core.VerificationResult{Verdict: core.Unsafe, Depth: e.depthOrUnset(n2 + k)}, nil
		}
		if newFrame.Equal(frame) {
			return e.buildSafeResult(ctx, ts, newFrame, k), nil
		}
		frame = newFrame
		n = n2
	}

	return &core.VerificationResult{Verdict: core.Unknown, Depth: -1}, nil
}

// buildSafeResult lifts the fixed-point frame's k-inductive invariant (the
// conjunction of its lemmas) to a 1-inductive invariant via KToOneLift, so
// the witness returned on SAFE is a genuine predicate over the unversioned
// state rather than something only provable k steps at a time.
func (e *Engine) buildSafeResult(ctx *native.Context, ts *transition.TransitionSystem, frame *IFrame, k int) *core.VerificationResult {
	if !e.opts.ComputeWitness {
		return &core.VerificationResult{Verdict: core.Safe, Depth: -1}
	}
	kInductive := frame.Conjunction(ctx)
	qe := mbp.NewQuantifierElimination(ctx)
	invariant := KToOneLift(ctx, ts.TM, qe, ts, ts.Tr, kInductive, k)
	return &core.VerificationResult{Verdict: core.Safe, Invariant: invariant, Depth: -1}
}

// KToOneLift turns a k-inductive invariant phi into a 1-inductive one:
// phi_0 /\ (j=1..k-1) not-exists x_1..x_j. (Tr_0 /\ phi_1 /\ Tr_1 /\ ... /\
// Tr_{j-1}) /\ not phi_j, each conjunct quantifier-eliminated down to the
// version-0 state variables so the result is a genuine predicate over
// unversioned state rather than a formula with free next-state variables.
//
// f tracks, across increasing j, the relation "reachable from x_0 in j
// phi-respecting steps", eliminating one variable block (the newly closed
// intermediate state) at a time instead of re-deriving the whole chain from
// scratch at every j. Shared with engine/tpa's fixed-point invariant
// construction.
func KToOneLift(ctx *native.Context, tm *timemachine.TimeMachine, qe *mbp.QuantifierElimination, ts *transition.TransitionSystem, tr, phi *native.Term, k int) *native.Term {
	if k <= 1 {
		return phi
	}
	conjuncts := make([]*native.Term, 0, k)
	conjuncts = append(conjuncts, phi)

	x0 := stateVarsAtVersion(ts, 0)
	f := tm.Shift(tr, 0) // f = F_1(x_0, x_1) = Tr_0
	for j := 1; j < k; j++ {
		notPhiJ := ctx.Not(tm.Shift(phi, j))
		closed := qe.KeepOnly(ctx.And(f, notPhiJ), x0, MaxQEModels)
		conjuncts = append(conjuncts, ctx.Not(closed))

		if j < k-1 {
			extended := ctx.And(f, tm.Shift(phi, j), tm.Shift(tr, j))
			keep := append(append([]timemachine.Variable{}, x0...), stateVarsAtVersion(ts, j+1)...)
			f = qe.KeepOnly(extended, keep, MaxQEModels)
		}
	}
	return ctx.And(conjuncts...)
}

func stateVarsAtVersion(ts *transition.TransitionSystem, v int) []timemachine.Variable {
	names := ts.StateVarBaseNames()
	out := make([]timemachine.Variable, len(names))
	for i, name := range names {
		out[i] = timemachine.Variable{BaseName: name, Version: v}
	}
	return out
}

func (e *Engine) invariantOrNil(inv *native.Term) *native.Term {
	if !e.opts.ComputeWitness {
		return nil
	}
	return inv
}

func (e *Engine) depthOrUnset(k int) int {
	if !e.opts.ComputeWitness {
		return -1
	}
	return k
}
