package native

// #include "csmt.h"
import "C"

// SortKind distinguishes the handful of sorts this kernel's background
// theory needs: booleans and the two flavours of linear arithmetic.
type SortKind struct {
	raw C.CSMT_sort_kind
}

func (s *SortKind) Eq(other *SortKind) bool {
	return s.raw == other.raw
}

var (
	BoolSort = &SortKind{raw: C.CSMT_BOOL_SORT}
	IntSort  = &SortKind{raw: C.CSMT_INT_SORT}
	RealSort = &SortKind{raw: C.CSMT_REAL_SORT}
)

// Sort represents a sort within a Context.
type Sort struct {
	ctx *Context
	raw C.CSMT_sort
}

// BoolSort returns the boolean sort.
func (c *Context) BoolSort() *Sort {
	c.Lock()
	defer c.Unlock()
	return &Sort{ctx: c, raw: C.csmt_mk_bool_sort(c.Raw)}
}

// IntSort returns the integer sort.
func (c *Context) IntSort() *Sort {
	c.Lock()
	defer c.Unlock()
	return &Sort{ctx: c, raw: C.csmt_mk_int_sort(c.Raw)}
}

// RealSort returns the real sort.
func (c *Context) RealSort() *Sort {
	c.Lock()
	defer c.Unlock()
	return &Sort{ctx: c, raw: C.csmt_mk_real_sort(c.Raw)}
}

// Kind reports which of the supported sorts this is.
func (s *Sort) Kind() *SortKind {
	return &SortKind{raw: C.csmt_get_sort_kind(s.ctx.Raw, s.raw)}
}
