package native

// #include "csmt.h"
import "C"
import "sync"

// LBool is the three-valued result of a satisfiability check.
type LBool int

const (
	Unknown LBool = iota
	Sat
	Unsat
)

// Solver is a single incremental solver instance tied to a Context.
//
// Every asserted formula is recorded in an interpolation partition: the
// i-th assertion occupies bit i of the partition mask handed to Interpolate,
// one bit per assertion belonging to the A-side of the last interpolation
// query.
type Solver struct {
	ctx      *Context
	raw      C.CSMT_solver
	lock     *sync.Mutex
	nAsserts int
}

// NewSolver creates a fresh solver within the context.
func (c *Context) NewSolver() *Solver {
	c.Lock()
	raw := C.csmt_mk_solver(c.Raw)
	c.Unlock()
	return &Solver{ctx: c, raw: raw, lock: new(sync.Mutex)}
}

// Close releases the solver's native resources.
func (s *Solver) Close() error {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	C.csmt_del_solver(s.ctx.Raw, s.raw)
	return nil
}

// Assert adds a formula to the solver and returns the bit index it occupies
// in the interpolation partition.
func (s *Solver) Assert(t *Term) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.ctx.Lock()
	C.csmt_solver_assert(s.ctx.Raw, s.raw, t.raw)
	s.ctx.Unlock()
	idx := s.nAsserts
	s.nAsserts++
	return idx
}

// Push opens a new backtracking scope.
func (s *Solver) Push() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.ctx.Lock()
	C.csmt_solver_push(s.ctx.Raw, s.raw)
	s.ctx.Unlock()
}

// Pop closes the most recently opened backtracking scope.
func (s *Solver) Pop() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.ctx.Lock()
	C.csmt_solver_pop(s.ctx.Raw, s.raw, C.uint(1))
	s.ctx.Unlock()
}

// Check decides satisfiability of the conjunction of all asserted formulas.
func (s *Solver) Check() LBool {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.ctx.Lock()
	r := C.csmt_solver_check(s.ctx.Raw, s.raw)
	s.ctx.Unlock()
	switch r {
	case C.CSMT_L_TRUE:
		return Sat
	case C.CSMT_L_FALSE:
		return Unsat
	default:
		return Unknown
	}
}

// Model returns the model witnessing the last Sat result.
func (s *Solver) Model() *Model {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	return &Model{ctx: s.ctx, raw: C.csmt_solver_get_model(s.ctx.Raw, s.raw)}
}

// PartitionMask builds a mask selecting assertion indices [0, n).
func PartitionMask(n int) uint64 {
	if n >= 64 {
		n = 64
	}
	return (uint64(1) << uint(n)) - 1
}

// Interpolate computes a Craig interpolant for the last Unsat result, with
// the A-side given by mask (bit i set means assertion i belongs to A). The
// returned interpolant I satisfies A => I and I /\ B unsat, over variables
// common to A and B.
func (s *Solver) Interpolate(mask uint64) *Term {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	return s.ctx.term(C.csmt_solver_interpolate(s.ctx.Raw, s.raw, C.uint64_t(mask)))
}

// InterpolateStrength computes a Craig interpolant for the last Unsat
// result the same way Interpolate does, but overrides the Context's
// configured interpolation algorithm for this one query. TPA's less-than
// refinement needs both a Farkas and a McMillan interpolant from the same
// unsat core.
func (s *Solver) InterpolateStrength(mask uint64, strength InterpolationStrength) *Term {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	return s.ctx.term(C.csmt_solver_interpolate_strength(s.ctx.Raw, s.raw, C.uint64_t(mask), C.int(strength)))
}
