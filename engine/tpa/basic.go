package tpa

import (
	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/transition"
)

// Basic is the single-hierarchy TPA variant: one hierarchy
// Level[n] over-approximates Tr^{<=2^{n-1}}, Level[1] initialised as Identity \/ Tr, and
// the same recursive reachability routine that serves Split's Exact
// hierarchy handles both the zero- and one-step base cases directly since
// Level already folds "0 or 1 step" into its base relation.
type Basic struct {
	*Base
}

// NewBasic creates a Basic TPA engine sharing ctx as its term bank.
func NewBasic(ctx *native.Context, opts core.Options) *Basic {
	return &Basic{Base: newBase(ctx, opts)}
}

// Solve runs the basic TPA main loop to a verdict. Level[n]
// plays the role Split's Exact[n] plays in exactLike/checkExactFixedPoint;
// there is no LessThan hierarchy to consult separately, so every power only
// runs one reachability query and one fixed-point check.
func (b *Basic) Solve(ts *transition.TransitionSystem) (*core.VerificationResult, error) {
	ctx := b.ctx
	b.bind(ts)

	initUnsat, err := b.checkUnsat(ts.Init)
	if err != nil {
		return nil, err
	}
	if initUnsat {
		return &core.VerificationResult{Verdict: core.Safe, Invariant: b.invariantOrNil(ctx.False()), Depth: -1}, nil
	}
	badInit := ctx.NewSolver()
	badInit.Assert(ts.Init)
	badInit.Assert(ts.Bad)
	switch badInit.Check() {
	case native.Sat:
		badInit.Close()
		return &core.VerificationResult{Verdict: core.Unsafe, Depth: b.depthOrUnset(0)}, nil
	case native.Unknown:
		badInit.Close()
		return nil, core.ErrSolverUnknown
	}
	badInit.Close()

	level := newHierarchy(ctx, b.tm, b.cfg, b.opts.SolverVariant, b.opts.RestartLimit)
	level.Init(1, ctx.Or(identityRelation(ctx, ts), ts.Tr))

	for power := 1; power <= MaxPower; power++ {
		b.opts.Progress.SetPower(power)

		res, err := b.exactLike(level, power, ts.Init, ts.Bad)
		if err != nil {
			return nil, err
		}
		if res.Reachable {
			return &core.VerificationResult{Verdict: core.Unsafe, Depth: b.depthOrUnset(1 << uint(power))}, nil
		}

		if power >= 3 {
			if inv, ok, err := b.checkLevelFixedPoint(level, power); err != nil {
				return nil, err
			} else if ok {
				return &core.VerificationResult{Verdict: core.Safe, Invariant: b.invariantOrNil(inv), Depth: -1}, nil
			}
		}

		b.cache.reset()
		level.resetSolvers()
	}

	return &core.VerificationResult{Verdict: core.Unknown, Depth: -1}, nil
}
