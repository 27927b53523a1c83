package native

// #include "csmt.h"
import "C"

// Add builds the sum of the given linear-arithmetic terms.
func (c *Context) Add(args ...*Term) *Term {
	raws := rawTerms(args)
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_add(c.Raw, &raws[0], C.int(len(raws))))
}

// Sub builds a - b.
func (c *Context) Sub(a, b *Term) *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_sub(c.Raw, a.raw, b.raw))
}

// Mul builds the product of the given terms. The background theory is
// linear arithmetic, so at most one factor may be a non-constant term.
func (c *Context) Mul(args ...*Term) *Term {
	raws := rawTerms(args)
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_mul(c.Raw, &raws[0], C.int(len(raws))))
}

// Neg builds -a.
func (c *Context) Neg(a *Term) *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_neg(c.Raw, a.raw))
}

// Leq builds a <= b.
func (c *Context) Leq(a, b *Term) *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_leq(c.Raw, a.raw, b.raw))
}

// Lt builds a < b.
func (c *Context) Lt(a, b *Term) *Term {
	c.Lock()
	defer c.Unlock()
	return c.term(C.csmt_mk_lt(c.Raw, a.raw, b.raw))
}

// Geq builds a >= b.
func (c *Context) Geq(a, b *Term) *Term {
	return c.Leq(b, a)
}

// Gt builds a > b.
func (c *Context) Gt(a, b *Term) *Term {
	return c.Lt(b, a)
}

//-------------------------------------------------------------------
// Numeral readers, used by mbp to inspect models
//-------------------------------------------------------------------

// IntValue returns the integer value of a numeral term.
func (t *Term) IntValue() (int, bool) {
	if t.Kind().Eq(NumeralTerm) && t.Sort().Kind().Eq(IntSort) {
		return int(C.csmt_term_int_value(t.ctx.Raw, t.raw)), true
	}
	return 0, false
}

// RatValue returns the rational value (numerator, denominator) of a real
// numeral term.
func (t *Term) RatValue() (int, int, bool) {
	if t.Kind().Eq(NumeralTerm) && t.Sort().Kind().Eq(RealSort) {
		var num, den C.int
		C.csmt_term_rat_value(t.ctx.Raw, t.raw, &num, &den)
		return int(num), int(den), true
	}
	return 0, 1, false
}
