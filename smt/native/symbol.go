package native

import "unsafe"

// #include <stdlib.h>
// #include "csmt.h"
import "C"

// Symbol names a declaration within a Context.
//
// Memory for the symbol is freed when the context is freed.
type Symbol struct {
	ctx *Context
	raw C.CSMT_symbol
}

// Symbol interns a string-named symbol.
func (c *Context) Symbol(name string) *Symbol {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	c.Lock()
	defer c.Unlock()
	return &Symbol{
		ctx: c,
		raw: C.csmt_mk_string_symbol(c.Raw, cname),
	}
}

// String returns the symbol's name.
func (s *Symbol) String() string {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	return C.GoString(C.csmt_symbol_string(s.ctx.Raw, s.raw))
}
