package tpa

import (
	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/smt/native"
)

// lessThanLike decides reachability of to from from in fewer than 2^{n-1}
// steps under lt (LessThan[n]), consulting exact (Exact[n-1]) for the
// two-step body at n>=2. The two-step body's disjuncts are queried with a
// fresh solver rather than a persistent incremental facade: LessThan[n]'s
// two-step relation
// depends on both hierarchies (lt and exact), and Hierarchy's incremental
// solver cache only tracks invalidation within one hierarchy, so reusing it
// here would risk asserting a stale Exact[n-1] after a strengthen.
func (b *Base) lessThanLike(lt, exact *Hierarchy, n int, from, to *native.Term) (QueryResult, error) {
	if cached, ok := b.cacheLT.get(n, from, to); ok {
		return cached, nil
	}
	var res QueryResult
	var err error
	if n == 1 {
		res, err = b.baseStep(lt, from, to)
	} else {
		res, err = b.lessThanRecursive(lt, exact, n, from, to)
	}
	if err != nil {
		return QueryResult{}, err
	}
	b.cacheLT.set(n, from, to, res)
	return res, nil
}

func (b *Base) lessThanRecursive(lt, exact *Hierarchy, n int, from, to *native.Term) (QueryResult, error) {
	for {
		ltPrev := lt.Get(n - 1)
		exactPrev := exact.Get(n - 1)
		left := b.tm.RenameVersion(ltPrev, 1, 2)
		right := b.ctx.And(ltPrev, b.tm.Shift(exactPrev, 1))
		body := b.ctx.Or(left, right)

		s := b.ctx.NewSolver()
		s.Assert(from)
		s.Assert(body)
		s.Assert(b.tm.Shift(to, 2))
		switch s.Check() {
		case native.Sat:
			m := s.Model()
			satisfiesLeft := m.Eval(left).Eq(b.ctx.True())
			var refined2 *native.Term
			if satisfiesLeft {
				refined2 = b.project(b.ctx.And(from, left, b.tm.Shift(to, 2)), stateVarsAtVersion(b.ts, 2), m)
			} else {
				refined2 = b.project(b.ctx.And(from, right, b.tm.Shift(to, 2)), stateVarsAtVersion(b.ts, 2), m)
			}
			s.Close()
			refined := b.tm.RenameVersion(refined2, 2, 0)

			if satisfiesLeft {
				// Left disjunct: LessThan[n-1] alone, fewer than 2^{n-2} steps.
				sub, err := b.lessThanLike(lt, exact, n-1, from, refined)
				if err != nil {
					return QueryResult{}, err
				}
				if !sub.Reachable {
					continue
				}
				return QueryResult{Reachable: true, Refined: sub.Refined}, nil
			}
			// Right disjunct: 2^{n-2} exact steps plus fewer than 2^{n-2} more.
			midExact, err := b.exactLike(exact, n-1, from, refined)
			if err != nil {
				return QueryResult{}, err
			}
			if !midExact.Reachable {
				continue
			}
			sub, err := b.lessThanLike(lt, exact, n-1, midExact.Refined, to)
			if err != nil {
				return QueryResult{}, err
			}
			if !sub.Reachable {
				continue
			}
			return QueryResult{Reachable: true, Refined: sub.Refined}, nil

		case native.Unsat:
			// Two complementary interpolation algorithms, Farkas (weak) and
			// McMillan-style (strong), from the same unsat core, conjoined
			// before strengthening. The A side is the two-step body alone
			// (assertion 1), so the interpolant relates versions 0 and 2.
			bodyMask := uint64(1) << 1
			weak := s.InterpolateStrength(bodyMask, native.Weak)
			strong := s.InterpolateStrength(bodyMask, native.Strong)
			s.Close()
			itp := b.ctx.And(weak, strong)
			renamed := b.tm.RenameVersion(itp, 2, 1)
			lt.Strengthen(n, renamed)
			return QueryResult{}, nil

		default:
			s.Close()
			return QueryResult{}, core.ErrSolverUnknown
		}
	}
}
