package native

// #include "csmt.h"
import "C"

// Model is a satisfying assignment returned by a Solver after a Reachable
// check. Only valid until the Solver's next Check or Pop call.
type Model struct {
	ctx *Context
	raw C.CSMT_model
}

// Eval evaluates t under the model, with model completion (unassigned
// variables get an arbitrary value of their sort, so Eval never fails on a
// well-sorted term).
func (m *Model) Eval(t *Term) *Term {
	m.ctx.Lock()
	defer m.ctx.Unlock()
	return m.ctx.term(C.csmt_model_eval(m.ctx.Raw, m.raw, t.raw))
}

// Assignments returns the model's assignment to every constant it
// interprets, keyed by declaration name. This is the primitive mbp uses to
// read off the bounds that witness an existential.
func (m *Model) Assignments(vars []*Term) map[string]*Term {
	result := make(map[string]*Term, len(vars))
	for _, v := range vars {
		result[v.DeclName().String()] = m.Eval(v)
	}
	return result
}
