package pdkind

import (
	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/mbp"
	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
	"github.com/hornkernel/chck/transition"
)

// ReachabilityChecker decides, for a target state formula F and a depth k,
// whether some state satisfying F is reachable from Init in exactly k
// steps. It owns an RFrame that grows monotonically across the lifetime of
// one Solve call: strengthenings discovered while checking one depth are
// reused by every later check at that depth.
type ReachabilityChecker struct {
	ctx   *native.Context
	tm    *timemachine.TimeMachine
	ts    *transition.TransitionSystem
	elim  *mbp.Eliminator
	qe    *mbp.QuantifierElimination
	useQE bool
	r     *RFrame

	progress *core.Progress
}

// MaxQEModels bounds the model-enumeration quantifier elimination used when
// useQE is set, mirroring engine/tpa's bound of the same name.
const MaxQEModels = 16

// NewReachabilityChecker creates a checker over ts, sharing ctx as the term
// bank. useQE selects exact quantifier elimination over model-based
// projection at every Generalize/projection call.
func NewReachabilityChecker(ctx *native.Context, tm *timemachine.TimeMachine, ts *transition.TransitionSystem, elim *mbp.Eliminator, useQE bool, progress *core.Progress) *ReachabilityChecker {
	return &ReachabilityChecker{ctx: ctx, tm: tm, ts: ts, elim: elim, qe: mbp.NewQuantifierElimination(ctx), useQE: useQE, r: NewRFrame(ctx), progress: progress}
}

// Generalize keeps only the named variables of f, eliminating the rest
// under m (or, if useQE is set, by exact quantifier elimination ignoring
// m); exposed so the push procedure can reuse the same projection
// primitive for CTI/counterexample generalisation.
func (rc *ReachabilityChecker) Generalize(f *native.Term, keep []timemachine.Variable, m *native.Model) *native.Term {
	return rc.keepOnly(f, keep, m)
}

func (rc *ReachabilityChecker) keepOnly(f *native.Term, keep []timemachine.Variable, m *native.Model) *native.Term {
	if rc.useQE {
		return rc.qe.KeepOnly(f, keep, MaxQEModels)
	}
	return rc.elim.KeepOnly(f, keep, m)
}

// Reachable decides whether F is reachable in exactly k steps. On a
// negative answer it also returns the interpolant (a state formula over F's
// vocabulary) witnessing why no such state exists, used by the caller to
// strengthen its own state.
func (rc *ReachabilityChecker) Reachable(k int, f *native.Term) (bool, *native.Term, error) {
	if k == 0 {
		return rc.reachableAtZero(f)
	}
	return rc.reachableAtDepth(k, f)
}

func (rc *ReachabilityChecker) reachableAtZero(f *native.Term) (bool, *native.Term, error) {
	rc.progress.IncrQueries(1)
	s := rc.ctx.NewSolver()
	defer s.Close()
	s.Assert(rc.ts.Init)
	s.Assert(f)
	switch s.Check() {
	case native.Sat:
		return true, nil, nil
	case native.Unsat:
		return false, s.Interpolate(native.PartitionMask(1)), nil
	default:
		return false, nil, core.ErrSolverUnknown
	}
}

func (rc *ReachabilityChecker) reachableAtDepth(k int, f *native.Term) (bool, *native.Term, error) {
	for {
		fShifted := rc.tm.Shift(f, 1)

		rc.progress.IncrQueries(1)
		s := rc.ctx.NewSolver()
		s.Assert(rc.r.Get(k - 1))
		s.Assert(rc.ts.Tr)
		s.Assert(fShifted)

		switch s.Check() {
		case native.Sat:
			m := s.Model()
			g := rc.keepOnly(rc.ctx.And(rc.ts.Tr, fShifted), rc.ts.StateVariables(), m)
			s.Close()

			reachable, itp, err := rc.Reachable(k-1, g)
			if err != nil {
				return false, nil, err
			}
			if reachable {
				return true, nil, nil
			}
			rc.r.Insert(itp, k-1)
			continue

		case native.Unsat:
			itpRaw := s.Interpolate(native.PartitionMask(2))
			s.Close()
			itp1 := rc.tm.Shift(itpRaw, -1)

			reachedAtZero, itp2, err := rc.reachableAtZero(f)
			if err != nil {
				return false, nil, err
			}
			if reachedAtZero {
				return false, itp1, nil
			}
			return false, rc.ctx.Or(itp1, itp2), nil

		default:
			s.Close()
			return false, nil, core.ErrSolverUnknown
		}
	}
}

// CheckReachability tries every depth in [from, to] in order, returning the
// first depth at which f is found reachable, or, if no such depth exists,
// to itself together with the interpolant of the deepest negative check.
func (rc *ReachabilityChecker) CheckReachability(from, to int, f *native.Term) (reachable bool, depth int, interpolant *native.Term, err error) {
	if from < 0 {
		from = 0
	}
	var lastItp *native.Term
	for i := from; i <= to; i++ {
		ok, itp, err := rc.Reachable(i, f)
		if err != nil {
			return false, 0, nil, err
		}
		if ok {
			return true, i, nil, nil
		}
		lastItp = itp
	}
	return false, to, lastItp, nil
}
