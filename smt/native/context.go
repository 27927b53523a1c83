// Package native binds the background-theory solver that computes every
// sat/unsat answer, model and Craig interpolant this repository needs: a
// thin, mutex guarded cgo layer around a C API, with no decision procedure
// of its own.
//
// The C side (csmt.h) is assumed to be provided by the linked solver and is
// not vendored here. Golem links OpenSMT for exactly this purpose; csmt.h
// is the stand-in for that library's C surface, extended with the
// partition-masked interpolation entry point this kernel requires.
package native

// #include "csmt.h"
import "C"
import "sync"

// Context owns the solver's global state: the hash-consed term bank, the
// active theory (linear arithmetic over integers and reals) and the
// interpolation configuration. One Context is created per verification
// session and torn down when the session ends.
type Context struct {
	Raw    C.CSMT_context
	rawCfg C.CSMT_config
	*sync.Mutex
}

// Config configures interpolation strength and simplification level before
// a Context is created. Strength distinguishes at least a "weak/Farkas"
// and a "strong/McMillan" mode.
type Config struct {
	raw C.CSMT_config
}

// InterpolationStrength selects the interpolation algorithm.
type InterpolationStrength int

const (
	// Weak requests a Farkas-style (weak) interpolant.
	Weak InterpolationStrength = iota
	// Strong requests a McMillan-style (strong) interpolant.
	Strong
)

// NewConfig creates a solver configuration with models and interpolation
// enabled, at the given simplification level (0-4).
func NewConfig(simplifyLevel int, strength InterpolationStrength) *Config {
	raw := C.csmt_mk_config()
	C.csmt_config_set_produce_models(raw, C.int(1))
	C.csmt_config_set_produce_interpolants(raw, C.int(1))
	C.csmt_config_set_simplify_interpolant(raw, C.int(simplifyLevel))
	C.csmt_config_set_interpolation_strength(raw, C.int(strength))
	return &Config{raw: raw}
}

// NewContext creates a new Context from the given Config.
func NewContext(c *Config) *Context {
	return &Context{
		Raw:    C.csmt_mk_context(c.raw),
		rawCfg: c.raw,
		Mutex:  new(sync.Mutex),
	}
}

// Close frees the memory associated with this context. No AST, Sort, Model
// or Solver created from this Context may be used afterwards.
func (c *Context) Close() error {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	C.csmt_del_context(c.Raw)
	return nil
}
