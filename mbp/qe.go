package mbp

import "github.com/hornkernel/chck/timemachine"
import "github.com/hornkernel/chck/smt/native"

// QuantifierElimination computes the existential closure of a formula over
// a variable set without being handed a witnessing model, by iterated model
// enumeration and blocking. This is what fixed-point invariant extraction
// and the k-to-1 lift need: there is no single model to project from, since
// the formula being eliminated describes a whole reachable region.
//
// It uses model enumeration: repeatedly find a model of what is left
// unexplained, MBP-project it out, and disjoin, until either no model
// remains (exact) or maxModels is exhausted. Every disjunct implies the
// true existential, so a run cut off at maxModels returns an
// under-approximation: a formula that implies the existential and may be
// strictly stronger than it. This is the technique a complete CHC solver would use in
// the absence of a decision procedure with a native exact-QE primitive.
type QuantifierElimination struct {
	ctx  *native.Context
	elim *Eliminator
}

// NewQuantifierElimination creates a QuantifierElimination over ctx.
func NewQuantifierElimination(ctx *native.Context) *QuantifierElimination {
	return &QuantifierElimination{ctx: ctx, elim: New(ctx)}
}

// Eliminate returns a formula that implies the existential closure of f over
// eliminate (and equals it when enumeration finishes within maxModels), free
// of eliminate, built from at most maxModels projected models.
func (q *QuantifierElimination) Eliminate(f *native.Term, eliminate []timemachine.Variable, maxModels int) *native.Term {
	ctx := q.ctx
	residual := f
	var disjuncts []*native.Term
	for i := 0; i < maxModels; i++ {
		s := ctx.NewSolver()
		s.Assert(residual)
		if s.Check() != native.Sat {
			s.Close()
			break
		}
		m := s.Model()
		piece := q.elim.Project(f, eliminate, m)
		s.Close()
		disjuncts = append(disjuncts, piece)
		residual = ctx.And(residual, ctx.Not(piece))
	}
	if len(disjuncts) == 0 {
		return ctx.False()
	}
	return ctx.Or(disjuncts...)
}

// KeepOnly is Eliminate's dual: it keeps only the named variables.
func (q *QuantifierElimination) KeepOnly(f *native.Term, keep []timemachine.Variable, maxModels int) *native.Term {
	keepNames := variableNameSet(keep)
	var eliminate []timemachine.Variable
	for _, v := range q.ctx.Vars(f) {
		parsed := timemachine.ParseVariableName(v.DeclName().String())
		if !keepNames[versionedName(parsed)] {
			eliminate = append(eliminate, parsed)
		}
	}
	return q.Eliminate(f, eliminate, maxModels)
}
