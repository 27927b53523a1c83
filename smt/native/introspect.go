package native

// #include "csmt.h"
import "C"

// Args returns t's direct subterms, in declaration order. Leaf terms
// (variables, numerals) return an empty slice.
func (c *Context) Args(t *Term) []*Term {
	c.Lock()
	defer c.Unlock()
	n := int(C.csmt_term_num_args(c.Raw, t.raw))
	result := make([]*Term, n)
	for i := 0; i < n; i++ {
		result[i] = c.term(C.csmt_term_arg_at(c.Raw, t.raw, C.int(i)))
	}
	return result
}

// IsLeq reports whether t is a <= atom.
func (c *Context) IsLeq(t *Term) bool { return C.csmt_is_leq(c.Raw, t.raw) != 0 }

// IsLt reports whether t is a < atom.
func (c *Context) IsLt(t *Term) bool { return C.csmt_is_lt(c.Raw, t.raw) != 0 }

// IsEqAtom reports whether t is an equality atom (as opposed to the boolean
// Eq used to build it; kept distinct from IsAtom for readability at call
// sites that branch on relation kind).
func (c *Context) IsEqAtom(t *Term) bool { return C.csmt_is_eq(c.Raw, t.raw) != 0 }

// IsNot reports whether t's top connective is negation.
func (c *Context) IsNot(t *Term) bool { return C.csmt_is_not(c.Raw, t.raw) != 0 }
