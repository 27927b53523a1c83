// Package mbp implements model-based projection and quantifier elimination
// for the linear-arithmetic fragment, in the style of Bjorner and Janota's
// DPLL(T)-aligned projection: given a formula, a model satisfying it, and a
// set of variables to eliminate, produce a model-satisfying, variable-free
// under-approximation of the existential.
package mbp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
)

// Eliminator projects formulas over a fixed context; elimination itself
// never invents variables.
type Eliminator struct {
	ctx *native.Context
}

// New creates an Eliminator over ctx.
func New(ctx *native.Context) *Eliminator {
	return &Eliminator{ctx: ctx}
}

// Project returns psi such that m |= psi, psi mentions none of eliminate,
// and psi implies the existential closure of f over eliminate. m must
// satisfy f.
func (e *Eliminator) Project(f *native.Term, eliminate []timemachine.Variable, m *native.Model) *native.Term {
	elimNames := variableNameSet(eliminate)
	varTerms := make(map[string]*native.Term)
	for _, v := range e.ctx.Vars(f) {
		varTerms[timemachine.ParseVariableName(v.DeclName().String()).Name()] = v
	}

	literals := e.selectLiterals(f, m, true)
	literals = e.eliminateByEquality(literals, elimNames, varTerms, m)
	literals = e.eliminateByBounds(literals, elimNames, varTerms, m)
	literals = e.eliminateByWitness(literals, elimNames, m)
	if len(literals) == 0 {
		return e.ctx.True()
	}
	return e.ctx.And(literals...)
}

// KeepOnly eliminates every free variable of f except those named in keep;
// it is Project's dual, used when an engine wants a projection onto a named
// set of variables instead of a named set of variables to remove.
func (e *Eliminator) KeepOnly(f *native.Term, keep []timemachine.Variable, m *native.Model) *native.Term {
	keepNames := variableNameSet(keep)
	var eliminate []timemachine.Variable
	for _, v := range e.ctx.Vars(f) {
		parsed := timemachine.ParseVariableName(v.DeclName().String())
		if !keepNames[versionedName(parsed)] {
			eliminate = append(eliminate, parsed)
		}
	}
	return e.Project(f, eliminate, m)
}

func variableNameSet(vars []timemachine.Variable) map[string]bool {
	set := make(map[string]bool, len(vars))
	for _, v := range vars {
		set[versionedName(v)] = true
	}
	return set
}

func versionedName(v timemachine.Variable) string { return v.Name() }

//-------------------------------------------------------------------
// Literal selection: resolve f into a conjunction of literals true
// under m, recursing into And/Or/Not following the model.
//-------------------------------------------------------------------

func (e *Eliminator) selectLiterals(f *native.Term, m *native.Model, positive bool) []*native.Term {
	switch {
	case e.ctx.IsAnd(f):
		var out []*native.Term
		for _, arg := range e.ctx.Args(f) {
			if positive {
				out = append(out, e.selectLiterals(arg, m, true)...)
			}
		}
		if !positive {
			return []*native.Term{e.negate(f)}
		}
		return out
	case e.ctx.IsOr(f):
		if positive {
			for _, arg := range e.ctx.Args(f) {
				if isTrueUnder(e.ctx, m, arg) {
					return e.selectLiterals(arg, m, true)
				}
			}
			return []*native.Term{f}
		}
		return []*native.Term{e.negate(f)}
	case e.ctx.IsNot(f):
		inner := e.ctx.Args(f)[0]
		return e.selectLiterals(inner, m, !positive)
	default:
		if positive {
			return []*native.Term{f}
		}
		return []*native.Term{e.negate(f)}
	}
}

func (e *Eliminator) negate(f *native.Term) *native.Term {
	if e.ctx.IsLeq(f) {
		args := e.ctx.Args(f)
		return e.ctx.Lt(args[1], args[0])
	}
	if e.ctx.IsLt(f) {
		args := e.ctx.Args(f)
		return e.ctx.Leq(args[1], args[0])
	}
	return e.ctx.Not(f)
}

func isTrueUnder(ctx *native.Context, m *native.Model, f *native.Term) bool {
	v := m.Eval(f)
	return v.Eq(ctx.True())
}

//-------------------------------------------------------------------
// Linear extraction: a literal's two sides, restricted to the
// variables being eliminated, expressed as numeric coefficients plus
// a symbolic residual built from the surviving variables.
//-------------------------------------------------------------------

// linearForm is lhs - rhs, written as sum(coeff[v] * v) + residual, where
// residual is a term containing none of the eliminated variables.
type linearForm struct {
	coeffs   map[string]float64
	residual *native.Term
}

func (e *Eliminator) extractLinear(t *native.Term, elimNames map[string]bool) (linearForm, bool) {
	vars := e.ctx.Vars(t)

	residual := e.ctx.Substitute(t, elimVarsOnly(vars, elimNames), zerosFor(e.ctx, elimVarsOnly(vars, elimNames)))
	if !isPureNumeralOrResidual(e.ctx, residual, elimNames) {
		return linearForm{}, false
	}

	coeffs := make(map[string]float64)
	for _, v := range vars {
		parsed := timemachine.ParseVariableName(v.DeclName().String())
		name := parsed.Name()
		if !elimNames[name] {
			continue
		}
		from := make([]*native.Term, 0, len(vars))
		to := make([]*native.Term, 0, len(vars))
		for _, other := range vars {
			if other.Eq(v) {
				continue
			}
			from = append(from, other)
			to = append(to, e.zeroOfSort(other.Sort()))
		}
		probeSet := e.ctx.Substitute(t, from, to)
		one := e.oneOfSort(v.Sort())
		vZero := e.zeroOfSort(v.Sort())
		atOne := e.ctx.Substitute(probeSet, []*native.Term{v}, []*native.Term{one})
		atZero := e.ctx.Substitute(probeSet, []*native.Term{v}, []*native.Term{vZero})
		c1, ok1 := numeralValue(atOne)
		c0, ok0 := numeralValue(atZero)
		if !ok1 || !ok0 {
			return linearForm{}, false
		}
		coeffs[name] = c1 - c0
	}
	return linearForm{coeffs: coeffs, residual: residual}, true
}

func elimVarsOnly(vars []*native.Term, elimNames map[string]bool) []*native.Term {
	var out []*native.Term
	for _, v := range vars {
		if elimNames[timemachine.ParseVariableName(v.DeclName().String()).Name()] {
			out = append(out, v)
		}
	}
	return out
}

func zerosFor(ctx *native.Context, vars []*native.Term) []*native.Term {
	out := make([]*native.Term, len(vars))
	for i, v := range vars {
		out[i] = zeroOfSort(ctx, v.Sort())
	}
	return out
}

func (e *Eliminator) zeroOfSort(s *native.Sort) *native.Term { return zeroOfSort(e.ctx, s) }

func zeroOfSort(ctx *native.Context, s *native.Sort) *native.Term {
	if s.Kind().Eq(native.RealSort) {
		return ctx.Real(0, 1)
	}
	return ctx.Int(0)
}

func (e *Eliminator) oneOfSort(s *native.Sort) *native.Term {
	if s.Kind().Eq(native.RealSort) {
		return e.ctx.Real(1, 1)
	}
	return e.ctx.Int(1)
}

func numeralValue(t *native.Term) (float64, bool) {
	if n, ok := t.IntValue(); ok {
		return float64(n), true
	}
	if num, den, ok := t.RatValue(); ok {
		return float64(num) / float64(den), true
	}
	return 0, false
}

// isPureNumeralOrResidual reports whether t, after the elimination set has
// been zeroed out, mentions no remaining variable from that set (a sanity
// check guarding against a non-linear occurrence slipping through).
func isPureNumeralOrResidual(ctx *native.Context, t *native.Term, elimNames map[string]bool) bool {
	for _, v := range ctx.Vars(t) {
		if elimNames[timemachine.ParseVariableName(v.DeclName().String()).Name()] {
			return false
		}
	}
	return true
}

//-------------------------------------------------------------------
// Equality elimination: solve the block of equality literals that tie
// eliminated variables together, via a small dense linear solve.
//-------------------------------------------------------------------

// eqRow is one equality literal reduced to its linear form over the
// elimination set; lit is the original literal, kept so an underdetermined
// block can be returned unchanged instead of reconstructed lossily.
type eqRow struct {
	lit  *native.Term
	form linearForm
}

func (e *Eliminator) eliminateByEquality(literals []*native.Term, elimNames map[string]bool, varTerms map[string]*native.Term, m *native.Model) []*native.Term {
	if len(elimNames) == 0 {
		return literals
	}
	var rows []eqRow
	var rest []*native.Term
	for _, lit := range literals {
		if !e.ctx.IsEqAtom(lit) {
			rest = append(rest, lit)
			continue
		}
		args := e.ctx.Args(lit)
		diff := e.ctx.Sub(args[0], args[1])
		form, ok := e.extractLinear(diff, elimNames)
		if !ok || len(form.coeffs) == 0 {
			rest = append(rest, lit)
			continue
		}
		rows = append(rows, eqRow{lit: lit, form: form})
	}
	if len(rows) == 0 {
		return literals
	}

	unknowns := orderedUnknowns(rows, elimNames)
	if len(unknowns) == 0 || len(rows) < len(unknowns) {
		// Underdetermined: fall back to bound substitution for these vars.
		return append(rest, eqLiteralsBack(rows)...)
	}
	n := len(unknowns)
	a := make([]float64, n*n)
	bResidualTerms := make([]*native.Term, n)
	for i := 0; i < n; i++ {
		for j, name := range unknowns {
			a[i*n+j] = rows[i].form.coeffs[name]
		}
		bResidualTerms[i] = rows[i].form.residual
	}
	A := mat.NewDense(n, n, a)
	if mat.Det(A) == 0 || math.IsNaN(mat.Det(A)) {
		return append(rest, eqLiteralsBack(rows)...)
	}
	var Ainv mat.Dense
	if err := Ainv.Inverse(A); err != nil {
		return append(rest, eqLiteralsBack(rows)...)
	}

	// x_i = sum_j Ainv[i][j] * (-residual_j)
	substitutions := make([]*native.Term, n)
	for i := 0; i < n; i++ {
		varSort := varTerms[unknowns[i]].Sort()
		var sum *native.Term
		for j := 0; j < n; j++ {
			w := Ainv.At(i, j)
			if w == 0 {
				continue
			}
			coeff, ok := rationalTerm(e.ctx, -w, varSort)
			if !ok {
				// The matrix inverse produced a coefficient that isn't
				// integral for an Int-sorted variable; substituting it
				// would inject a Real subterm into Int arithmetic, so
				// fall back to bound substitution for this block instead.
				return append(rest, eqLiteralsBack(rows)...)
			}
			term := e.ctx.Mul(coeff, bResidualTerms[j])
			if sum == nil {
				sum = term
			} else {
				sum = e.ctx.Add(sum, term)
			}
		}
		if sum == nil {
			sum = zeroOfSort(e.ctx, varSort)
		}
		substitutions[i] = sum
	}

	from := make([]*native.Term, n)
	for i, name := range unknowns {
		from[i] = varTerms[name]
	}
	out := make([]*native.Term, 0, len(rest))
	for _, lit := range rest {
		out = append(out, e.ctx.Substitute(lit, from, substitutions))
	}
	return out
}

func orderedUnknowns(rows []eqRow, elimNames map[string]bool) []string {
	seen := map[string]bool{}
	var names []string
	for _, r := range rows {
		for name := range r.form.coeffs {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// eqLiteralsBack returns the original literals of an underdetermined
// equality block: without enough equations to isolate every unknown
// jointly, the variables stay and fall through to bound substitution.
func eqLiteralsBack(rows []eqRow) []*native.Term {
	out := make([]*native.Term, len(rows))
	for i, r := range rows {
		out[i] = r.lit
	}
	return out
}

// rationalTerm builds a numeral of the given sort carrying the value w: an
// Int literal when sort is Int (only legal when w is itself integral; ok is
// false otherwise, since injecting a Real subterm into an Int-sorted
// context is ill-sorted for a strict LIA backend), or a Real literal for
// sort Real.
func rationalTerm(ctx *native.Context, w float64, sort *native.Sort) (*native.Term, bool) {
	num, den := rationalize(w)
	if sort.Kind().Eq(native.IntSort) {
		if den != 1 {
			return nil, false
		}
		return ctx.Int(num), true
	}
	return ctx.Real(num, den), true
}

// rationalize finds a small-denominator rational approximating w; linear
// arithmetic coefficients arising from this kernel's case split are always
// small integers or half-integers in practice.
func rationalize(w float64) (int, int) {
	const maxDen = 1 << 16
	for den := 1; den <= maxDen; den++ {
		num := w * float64(den)
		rounded := math.Round(num)
		if math.Abs(num-rounded) < 1e-6 {
			return int(rounded), den
		}
	}
	return int(math.Round(w * maxDen)), maxDen
}

//-------------------------------------------------------------------
// Bound substitution (Loos-Weispfenning): for a variable with no
// usable equality, pick the tightest model-witnessed bound.
//-------------------------------------------------------------------

func (e *Eliminator) eliminateByBounds(literals []*native.Term, elimNames map[string]bool, varTerms map[string]*native.Term, m *native.Model) []*native.Term {
	remaining := map[string]bool{}
	for name := range elimNames {
		remaining[name] = mentionsAny(e.ctx, literals, name)
	}
	for name := range remaining {
		if !remaining[name] {
			continue
		}
		literals = e.eliminateOneByBounds(literals, name, varTerms[name], m)
	}
	return literals
}

func mentionsAny(ctx *native.Context, literals []*native.Term, name string) bool {
	for _, lit := range literals {
		for _, v := range ctx.Vars(lit) {
			if timemachine.ParseVariableName(v.DeclName().String()).Name() == name {
				return true
			}
		}
	}
	return false
}

func (e *Eliminator) eliminateOneByBounds(literals []*native.Term, name string, varTerm *native.Term, m *native.Model) []*native.Term {
	elim := map[string]bool{name: true}
	type bound struct {
		idx    int
		isUp   bool
		value  *native.Term
		weight float64
	}
	var bounds []bound
	for i, lit := range literals {
		if !e.ctx.IsLeq(lit) && !e.ctx.IsLt(lit) {
			continue
		}
		args := e.ctx.Args(lit)
		diff := e.ctx.Sub(args[0], args[1]) // lhs - rhs <= 0 (or < 0)
		form, ok := e.extractLinear(diff, elim)
		if !ok {
			continue
		}
		c, present := form.coeffs[name]
		if !present || c == 0 {
			continue
		}
		// c*v + residual <= 0  =>  v <= -residual/c   (c>0, upper bound)
		//                     =>  v >= -residual/c   (c<0, lower bound)
		coeff, ok := rationalTerm(e.ctx, -1/c, varTerm.Sort())
		if !ok {
			// -1/c isn't integral for an Int-sorted variable: this bound
			// can't be expressed without a Real subterm, so skip it.
			continue
		}
		boundVal := e.ctx.Mul(coeff, form.residual)
		bv, ok := numeralValue(m.Eval(boundVal))
		if !ok {
			continue
		}
		bounds = append(bounds, bound{idx: i, isUp: c > 0, value: boundVal, weight: bv})
	}
	if len(bounds) == 0 {
		return literals
	}
	var chosen *bound
	for i := range bounds {
		b := &bounds[i]
		if chosen == nil {
			chosen = b
			continue
		}
		if b.isUp == chosen.isUp {
			if (b.isUp && b.weight < chosen.weight) || (!b.isUp && b.weight > chosen.weight) {
				chosen = b
			}
		}
	}
	from := []*native.Term{varTerm}
	to := []*native.Term{chosen.value}
	out := make([]*native.Term, 0, len(literals))
	for _, lit := range literals {
		out = append(out, e.ctx.Substitute(lit, from, to))
	}
	return out
}

//-------------------------------------------------------------------
// Witness fallback: anything still mentioning an eliminated variable
// (disequalities, non-linear occurrences) is pinned to its model value.
//-------------------------------------------------------------------

func (e *Eliminator) eliminateByWitness(literals []*native.Term, elimNames map[string]bool, m *native.Model) []*native.Term {
	var from, to []*native.Term
	seen := map[string]bool{}
	for _, lit := range literals {
		for _, v := range e.ctx.Vars(lit) {
			parsed := timemachine.ParseVariableName(v.DeclName().String())
			name := parsed.Name()
			if !elimNames[name] || seen[name] {
				continue
			}
			seen[name] = true
			from = append(from, v)
			to = append(to, m.Eval(v))
		}
	}
	if len(from) == 0 {
		return literals
	}
	out := make([]*native.Term, len(literals))
	for i, lit := range literals {
		out[i] = e.ctx.Substitute(lit, from, to)
	}
	return out
}
