package tpa

import (
	"github.com/hornkernel/chck/engine/pdkind"
	"github.com/hornkernel/chck/smt/native"
)

// checkLessThanFixedPoint looks for a level i in [3, power] at which
// LessThan[i] is closed under extending by one Tr step on either side: the
// over-approximation has stopped growing and is itself an inductive
// invariant.
func (b *Base) checkLessThanFixedPoint(lt *Hierarchy, power int) (*native.Term, bool, error) {
	for i := 3; i <= power; i++ {
		ltI := lt.Get(i)
		ltI02 := b.tm.RenameVersion(ltI, 1, 2)

		composedRight := b.ctx.And(ltI, b.tm.Shift(b.ts.Tr, 1))
		rightUnsat, err := b.checkUnsat(b.ctx.And(b.ts.Init, composedRight, b.ctx.Not(ltI02)))
		if err != nil {
			return nil, false, err
		}
		if rightUnsat {
			inv := b.qe.KeepOnly(b.ctx.And(b.ts.Init, ltI), stateVarsAtVersion(b.ts, 1), MaxQEModels)
			return b.tm.RenameVersion(inv, 1, 0), true, nil
		}

		composedLeft := b.ctx.And(b.ts.Tr, b.tm.Shift(ltI, 1))
		leftUnsat, err := b.checkUnsat(b.ctx.And(composedLeft, b.ctx.Not(ltI02), b.tm.Shift(b.ts.Bad, 2)))
		if err != nil {
			return nil, false, err
		}
		if leftUnsat {
			canReachBad := b.qe.KeepOnly(b.ctx.And(ltI, b.tm.Shift(b.ts.Bad, 1)), b.ts.StateVariables(), MaxQEModels)
			return b.ctx.Not(canReachBad), true, nil
		}
	}
	return nil, false, nil
}

// checkLevelFixedPoint mirrors checkLessThanFixedPoint for the basic
// variant's single Level hierarchy: Level[n] already over-approximates
// Tr^{<=2^{n-1}} the way LessThan does once reflexivity is folded in at level
// 1, so its fixed-point check and invariant extraction follow the
// less-than case directly, without a k-to-1 lift.
func (b *Base) checkLevelFixedPoint(level *Hierarchy, power int) (*native.Term, bool, error) {
	for i := 3; i <= power; i++ {
		levelI := level.Get(i)
		levelI02 := b.tm.RenameVersion(levelI, 1, 2)

		composedRight := b.ctx.And(levelI, b.tm.Shift(b.ts.Tr, 1))
		rightUnsat, err := b.checkUnsat(b.ctx.And(b.ts.Init, composedRight, b.ctx.Not(levelI02)))
		if err != nil {
			return nil, false, err
		}
		if rightUnsat {
			inv := b.qe.KeepOnly(b.ctx.And(b.ts.Init, levelI), stateVarsAtVersion(b.ts, 1), MaxQEModels)
			return b.tm.RenameVersion(inv, 1, 0), true, nil
		}

		composedLeft := b.ctx.And(b.ts.Tr, b.tm.Shift(levelI, 1))
		leftUnsat, err := b.checkUnsat(b.ctx.And(composedLeft, b.ctx.Not(levelI02), b.tm.Shift(b.ts.Bad, 2)))
		if err != nil {
			return nil, false, err
		}
		if leftUnsat {
			canReachBad := b.qe.KeepOnly(b.ctx.And(levelI, b.tm.Shift(b.ts.Bad, 1)), b.ts.StateVariables(), MaxQEModels)
			return b.ctx.Not(canReachBad), true, nil
		}
	}
	return nil, false, nil
}

// checkExactFixedPoint mirrors checkLessThanFixedPoint for the Exact
// hierarchy and, on success, lifts the resulting k-inductive transition
// invariant to a 1-inductive one. The search stops at i=10: beyond that,
// k=2^{i-1} makes the k-to-1 lift's per-step unrolling too expensive to be
// worth attempting.
func (b *Base) checkExactFixedPoint(lt, exact *Hierarchy, upTo int) (*native.Term, bool, error) {
	limit := upTo
	if limit > 10 {
		limit = 10
	}
	for i := 3; i <= limit; i++ {
		exI := exact.Get(i)
		composed := b.ctx.And(exI, b.tm.Shift(exI, 1))
		unsat, err := b.checkUnsat(b.ctx.And(composed, b.ctx.Not(b.tm.RenameVersion(exI, 1, 2))))
		if err != nil {
			return nil, false, err
		}
		if !unsat {
			continue
		}

		k := 1 << uint(i-1)
		transitionInvariant := b.ctx.Or(b.tm.Shift(lt.Get(i), 1), b.ctx.And(lt.Get(i), b.tm.Shift(exI, 1)))
		kInductive := b.qe.KeepOnly(transitionInvariant, b.ts.StateVariables(), MaxQEModels)
		invariant := pdkind.KToOneLift(b.ctx, b.tm, b.qe, b.ts, b.ts.Tr, kInductive, k)
		return invariant, true, nil
	}
	return nil, false, nil
}
