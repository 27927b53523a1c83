package native

// #include "csmt.h"
import "C"

// TermKind distinguishes application, numeral, and variable terms.
type TermKind struct {
	raw C.CSMT_term_kind
}

func (k *TermKind) Eq(other *TermKind) bool {
	return k.raw == other.raw
}

var (
	AppTerm     = &TermKind{raw: C.CSMT_APP_TERM}
	NumeralTerm = &TermKind{raw: C.CSMT_NUMERAL_TERM}
	VarTerm     = &TermKind{raw: C.CSMT_VAR_TERM}
)

// Term is an opaque handle into the Context's hash-consed term bank.
// Equality between two Terms is equality of their handles, and a Term is
// immutable once built.
type Term struct {
	ctx *Context
	raw C.CSMT_term
}

// Raw exposes the underlying handle for use by other native.go files in
// this package; callers outside native build formulas exclusively through
// the Context methods below.
func (t *Term) Raw() C.CSMT_term { return t.raw }

func (c *Context) term(raw C.CSMT_term) *Term {
	return &Term{ctx: c, raw: raw}
}

// Kind reports the term's top-level shape.
func (t *Term) Kind() *TermKind {
	return &TermKind{raw: C.csmt_term_kind(t.ctx.Raw, t.raw)}
}

// Sort reports the term's sort.
func (t *Term) Sort() *Sort {
	return &Sort{ctx: t.ctx, raw: C.csmt_term_sort(t.ctx.Raw, t.raw)}
}

// String renders the term for diagnostics.
func (t *Term) String() string {
	t.ctx.Lock()
	defer t.ctx.Unlock()
	return C.GoString(C.csmt_term_to_string(t.ctx.Raw, t.raw))
}

// Eq reports handle equality, i.e. structural equality under hash-consing.
func (t *Term) Eq(other *Term) bool {
	return t.raw == other.raw
}

// Var declares a variable (a "const" in SMT-LIB terms) of the given sort.
func (c *Context) Var(s *Symbol, sort *Sort) *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_var(c.Raw, s.raw, sort.raw))
}

// IntVar is a convenience constructor for an integer-sorted variable.
func (c *Context) IntVar(name string) *Term {
	return c.Var(c.Symbol(name), c.IntSort())
}

// RealVar is a convenience constructor for a real-sorted variable.
func (c *Context) RealVar(name string) *Term {
	return c.Var(c.Symbol(name), c.RealSort())
}

// BoolVar is a convenience constructor for a boolean-sorted variable.
func (c *Context) BoolVar(name string) *Term {
	return c.Var(c.Symbol(name), c.BoolSort())
}

// Int builds an integer literal.
func (c *Context) Int(v int) *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_int(c.Raw, C.int(v)))
}

// Real builds a rational literal num/den.
func (c *Context) Real(num, den int) *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_real(c.Raw, C.int(num), C.int(den)))
}

// True builds the boolean constant true.
func (c *Context) True() *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_true(c.Raw))
}

// False builds the boolean constant false.
func (c *Context) False() *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_false(c.Raw))
}

//-------------------------------------------------------------------
// Boolean connectives
//-------------------------------------------------------------------

func rawTerms(args []*Term) []C.CSMT_term {
	raws := make([]C.CSMT_term, len(args))
	for i, a := range args {
		raws[i] = a.raw
	}
	return raws
}

// And conjoins zero or more terms; an empty conjunction is true.
func (c *Context) And(args ...*Term) *Term {
	if len(args) == 0 {
		return c.True()
	}
	raws := rawTerms(args)
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_and(c.Raw, &raws[0], C.int(len(raws))))
}

// Or disjoins zero or more terms; an empty disjunction is false.
func (c *Context) Or(args ...*Term) *Term {
	if len(args) == 0 {
		return c.False()
	}
	raws := rawTerms(args)
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_or(c.Raw, &raws[0], C.int(len(raws))))
}

// Not negates a term.
func (c *Context) Not(a *Term) *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_not(c.Raw, a.raw))
}

// Implies builds a -> b.
func (c *Context) Implies(a, b *Term) *Term {
	return c.Or(c.Not(a), b)
}

// Eq builds a = b.
func (c *Context) Eq(a, b *Term) *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_eq(c.Raw, a.raw, b.raw))
}

// IsAnd reports whether t's top connective is conjunction.
func (c *Context) IsAnd(t *Term) bool { return C.csmt_is_and(c.Raw, t.raw) != 0 }

// IsOr reports whether t's top connective is disjunction.
func (c *Context) IsOr(t *Term) bool { return C.csmt_is_or(c.Raw, t.raw) != 0 }

// IsAtom reports whether t has no boolean connective at the top.
func (c *Context) IsAtom(t *Term) bool { return C.csmt_is_atom(c.Raw, t.raw) != 0 }

// Vars returns the free variables occurring in t, in a deterministic order.
func (c *Context) Vars(t *Term) []*Term {
	c.Lock()
	n := int(C.csmt_term_num_vars(c.Raw, t.raw))
	result := make([]*Term, n)
	for i := 0; i < n; i++ {
		result[i] = c.term(C.csmt_term_var_at(c.Raw, t.raw, C.int(i)))
	}
	c.Unlock()
	return result
}

// DeclName returns the declaration name of a variable term.
func (t *Term) DeclName() *Symbol {
	return &Symbol{ctx: t.ctx, raw: C.csmt_term_decl_name(t.ctx.Raw, t.raw)}
}

// Substitute returns t with every occurrence of from[i] replaced by to[i].
func (c *Context) Substitute(t *Term, from, to []*Term) *Term {
	rawFrom := rawTerms(from)
	rawTo := rawTerms(to)
	c.Lock()
	defer c.Unlock()
	var fromPtr, toPtr *C.CSMT_term
	if len(rawFrom) > 0 {
		fromPtr = &rawFrom[0]
		toPtr = &rawTo[0]
	}
	return c.term(C.csmt_substitute(c.Raw, t.raw, fromPtr, toPtr, C.int(len(rawFrom))))
}
