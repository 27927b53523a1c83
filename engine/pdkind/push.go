package pdkind

import (
	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
	"github.com/hornkernel/chck/transition"
)

// buildTk builds Tr_0 /\ A_1 /\ Tr_1 /\ A_2 /\ ... /\ A_{k-1} /\ Tr_{k-1},
// the k-step unrolling of the transition relation interleaved with the
// current frame's strengthening at every intermediate step.
func buildTk(ctx *native.Context, tm *timemachine.TimeMachine, tr, a *native.Term, k int) *native.Term {
	parts := make([]*native.Term, 0, 2*k-1)
	parts = append(parts, tm.Shift(tr, 0))
	for i := 1; i < k; i++ {
		parts = append(parts, tm.Shift(a, i))
		parts = append(parts, tm.Shift(tr, i))
	}
	return ctx.And(parts...)
}

// pushOutcome classifies what happened to one queue element during push.
type pushOutcome int

const (
	outcomeSurvived pushOutcome = iota
	outcomeRequeued
	outcomeBlocked
	outcomeWidened
	outcomeInvalid
)

// pushElement runs the three-step consecution/CEX/blocking procedure for a
// single IFrameElement against the working frame.
func pushElement(ctx *native.Context, tm *timemachine.TimeMachine, ts *transition.TransitionSystem, rc *ReachabilityChecker, working *IFrame, elem IFrameElement, n, k int) (outcome pushOutcome, replacement []IFrameElement, newN int, err error) {
	newN = n
	a := working.Conjunction(ctx)
	tk := buildTk(ctx, tm, ts.Tr, a, k)

	// Step 1: consecution.
	consec := ctx.NewSolver()
	consec.Assert(a)
	consec.Assert(tk)
	consec.Assert(ctx.Not(tm.Shift(elem.Lemma, k)))
	switch consec.Check() {
	case native.Unsat:
		consec.Close()
		return outcomeSurvived, []IFrameElement{elem}, newN, nil
	case native.Unknown:
		consec.Close()
		return 0, nil, newN, core.ErrSolverUnknown
	}
	m1 := consec.Model()

	// Step 2: is the stored counterexample itself reachable at this depth?
	cex := ctx.NewSolver()
	cex.Assert(a)
	cex.Assert(tk)
	cex.Assert(tm.Shift(elem.Cex, k))
	switch cex.Check() {
	case native.Sat:
		m2 := cex.Model()
		gCex := rc.Generalize(ctx.And(tk, tm.Shift(elem.Cex, k)), ts.StateVariables(), m2)
		cex.Close()
		consec.Close()

		reachable, _, gAbs, rerr := rc.CheckReachability(n-k+1, n, gCex)
		if rerr != nil {
			return 0, nil, newN, rerr
		}
		if reachable {
			return outcomeInvalid, nil, newN, nil
		}
		newElem := IFrameElement{Lemma: gAbs, Cex: gCex}
		return outcomeRequeued, []IFrameElement{newElem, elem}, newN, nil

	case native.Unknown:
		cex.Close()
		consec.Close()
		return 0, nil, newN, core.ErrSolverUnknown
	}
	cex.Close()

	// Step 3: blocking. m1 is still valid since consec has not been
	// re-checked or popped since it was taken.
	gCti := rc.Generalize(ctx.And(tk, ctx.Not(tm.Shift(elem.Lemma, k))), ts.StateVariables(), m1)
	consec.Close()

	reachable, depth, itp, rerr := rc.CheckReachability(n-k+1, n, gCti)
	if rerr != nil {
		return 0, nil, newN, rerr
	}
	if !reachable {
		strengthened := IFrameElement{Lemma: ctx.And(elem.Lemma, itp), Cex: elem.Cex}
		return outcomeBlocked, []IFrameElement{strengthened}, newN, nil
	}

	// gCti is reachable within the checked window: the lemma itself cannot
	// be blocked, so widen it to the negation of its counterexample. The
	// lemma is derived (not the root Bad-lemma), so a further check of
	// whether its negation is reachable over a larger window cannot turn
	// this into UNSAFE; its result only tightens n for the next iteration.
	notLemma := ctx.Not(elem.Lemma)
	_, depth2, _, rerr2 := rc.CheckReachability(n+1, depth+k, notLemma)
	if rerr2 != nil {
		return 0, nil, newN, rerr2
	}
	if depth2 < newN {
		newN = depth2
	}
	widened := IFrameElement{Lemma: ctx.Not(elem.Cex), Cex: elem.Cex}
	return outcomeWidened, []IFrameElement{widened}, newN, nil
}

// push runs the full queue-driven fixed-point procedure for one (n, k)
// pair, returning the next frame and n, or invalid=true if a
// counterexample was confirmed reachable.
func push(ctx *native.Context, tm *timemachine.TimeMachine, ts *transition.TransitionSystem, rc *ReachabilityChecker, frame *IFrame, n, k int) (newFrame *IFrame, nPrime int, invalid bool, err error) {
	working := frame.Clone()
	newFrame = NewIFrame()
	queue := frame.Elements()
	nPrime = n

	for len(queue) > 0 {
		elem := queue[0]
		queue = queue[1:]

		outcome, replacement, n2, err := pushElement(ctx, tm, ts, rc, working, elem, nPrime, k)
		if err != nil {
			return nil, 0, false, err
		}
		nPrime = n2

		switch outcome {
		case outcomeInvalid:
			return newFrame, nPrime, true, nil

		case outcomeSurvived:
			newFrame.Add(replacement[0])

		case outcomeRequeued:
			working.Add(replacement[0])
			queue = append(queue, replacement[0], replacement[1])

		case outcomeBlocked:
			working.Remove(elem)
			working.Add(replacement[0])
			queue = append(queue, replacement[0])

		case outcomeWidened:
			working.Add(replacement[0])
			newFrame.Add(replacement[0])
		}
	}

	return newFrame, nPrime, false, nil
}
