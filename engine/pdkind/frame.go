package pdkind

import (
	"sort"

	"github.com/hornkernel/chck/smt/native"
)

// IFrameElement is a lemma/counterexample pair of state formulas: lemma is
// a candidate invariant strengthening, cex is the generalised bad region
// lemma must exclude.
type IFrameElement struct {
	Lemma *native.Term
	Cex   *native.Term
}

func (e IFrameElement) key() string {
	return e.Lemma.String() + "\x00" + e.Cex.String()
}

// IFrame is a duplicate-free set of IFrameElement, iterated in a
// deterministic (lexicographic) order.
type IFrame struct {
	elements map[string]IFrameElement
}

// NewIFrame creates an empty induction frame.
func NewIFrame() *IFrame {
	return &IFrame{elements: make(map[string]IFrameElement)}
}

// Add inserts e, a no-op if already present.
func (f *IFrame) Add(e IFrameElement) {
	f.elements[e.key()] = e
}

// Remove deletes e if present.
func (f *IFrame) Remove(e IFrameElement) {
	delete(f.elements, e.key())
}

// Contains reports whether e is already in the frame.
func (f *IFrame) Contains(e IFrameElement) bool {
	_, ok := f.elements[e.key()]
	return ok
}

// Elements returns the frame's members in deterministic lexicographic order.
func (f *IFrame) Elements() []IFrameElement {
	keys := make([]string, 0, len(f.elements))
	for k := range f.elements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]IFrameElement, len(keys))
	for i, k := range keys {
		out[i] = f.elements[k]
	}
	return out
}

// Clone returns an independent copy of f.
func (f *IFrame) Clone() *IFrame {
	c := NewIFrame()
	for k, v := range f.elements {
		c.elements[k] = v
	}
	return c
}

// Equal reports whether f and other contain the same elements, the
// condition the PDKind main loop checks for a fixed point.
func (f *IFrame) Equal(other *IFrame) bool {
	if len(f.elements) != len(other.elements) {
		return false
	}
	for k := range f.elements {
		if _, ok := other.elements[k]; !ok {
			return false
		}
	}
	return true
}

// Conjunction returns the conjunction of every element's lemma.
func (f *IFrame) Conjunction(ctx *native.Context) *native.Term {
	elems := f.Elements()
	lemmas := make([]*native.Term, len(elems))
	for i, e := range elems {
		lemmas[i] = e.Lemma
	}
	return ctx.And(lemmas...)
}

// RFrame is a growable sequence of state formulas indexed by depth: R[k]
// over-approximates states reachable in exactly k steps. Unwritten indices
// read as true.
type RFrame struct {
	ctx    *native.Context
	levels map[int]*native.Term
}

// NewRFrame creates an RFrame over ctx.
func NewRFrame(ctx *native.Context) *RFrame {
	return &RFrame{ctx: ctx, levels: make(map[int]*native.Term)}
}

// Get returns R[k], true if k was never written.
func (r *RFrame) Get(k int) *native.Term {
	if f, ok := r.levels[k]; ok {
		return f
	}
	return r.ctx.True()
}

// Insert strengthens R[k] by conjoining f.
func (r *RFrame) Insert(f *native.Term, k int) {
	r.levels[k] = r.ctx.And(r.Get(k), f)
}
