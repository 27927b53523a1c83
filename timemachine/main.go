// Package timemachine versions state variables by integer time offsets, the
// way OpenSMT's TimeMachine does for Golem's engines: variable "x" at
// version 0 is current, version 1 is the next-state copy, and so on: a
// variable's name carries its version as a "#n" suffix, absent at version 0.
package timemachine

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hornkernel/chck/smt/native"
)

// Variable is a named state symbol at a given integer version. Version 0
// is "current", 1 is "next", negative versions are legal.
type Variable struct {
	BaseName string
	Version  int
}

// Name renders the variable's versioned SMT identifier.
func (v Variable) Name() string {
	if v.Version == 0 {
		return v.BaseName
	}
	return fmt.Sprintf("%s#%d", v.BaseName, v.Version)
}

// parseName splits a versioned identifier back into base name and version.
// Names with no "#n" suffix are version 0.
func parseName(name string) Variable {
	idx := strings.LastIndexByte(name, '#')
	if idx < 0 {
		return Variable{BaseName: name, Version: 0}
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return Variable{BaseName: name, Version: 0}
	}
	return Variable{BaseName: name[:idx], Version: n}
}

type shiftKey struct {
	formula string
	delta   int
}

// TimeMachine maps variables to their versioned companions and shifts whole
// formulas by an integer offset, memoised by (formula, delta). It owns no
// solver state and outlives any single query.
type TimeMachine struct {
	ctx *native.Context

	mu    sync.Mutex
	sorts map[string]*native.Sort

	varCache   map[Variable]*native.Term
	shiftCache map[shiftKey]*native.Term
}

// New creates a TimeMachine over ctx. Every base variable used with
// VersionOf or appearing in a formula passed to Shift must first be
// registered with Register so the machine knows its sort.
func New(ctx *native.Context) *TimeMachine {
	return &TimeMachine{
		ctx:        ctx,
		sorts:      make(map[string]*native.Sort),
		varCache:   make(map[Variable]*native.Term),
		shiftCache: make(map[shiftKey]*native.Term),
	}
}

// Register records the sort of a base variable name so the machine can
// manufacture its versioned companions on demand.
func (tm *TimeMachine) Register(baseName string, sort *native.Sort) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.sorts[baseName] = sort
}

// RegisterVar registers v's base name under its own sort; a convenience for
// seeding the machine directly from an already-built version-0 term.
func (tm *TimeMachine) RegisterVar(v *native.Term) {
	tm.Register(parseName(v.DeclName().String()).BaseName, v.Sort())
}

// VersionOf returns the term for v's base variable at absolute version n.
func (tm *TimeMachine) VersionOf(v Variable, n int) *native.Term {
	return tm.versionTerm(Variable{BaseName: v.BaseName, Version: n})
}

func (tm *TimeMachine) versionTerm(v Variable) *native.Term {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if t, ok := tm.varCache[v]; ok {
		return t
	}
	sort, ok := tm.sorts[v.BaseName]
	if !ok {
		panic(fmt.Sprintf("timemachine: unregistered base variable %q", v.BaseName))
	}
	t := tm.ctx.Var(tm.ctx.Symbol(v.Name()), sort)
	tm.varCache[v] = t
	return t
}

// Shift returns f with every free variable's version increased by delta. It
// is a group action: Shift(Shift(f, a), b) == Shift(f, a+b), and Shift(f, 0)
// is f itself (by identity, not merely equivalence).
func (tm *TimeMachine) Shift(f *native.Term, delta int) *native.Term {
	if delta == 0 {
		return f
	}
	key := shiftKey{formula: f.String(), delta: delta}

	tm.mu.Lock()
	if cached, ok := tm.shiftCache[key]; ok {
		tm.mu.Unlock()
		return cached
	}
	tm.mu.Unlock()

	vars := tm.ctx.Vars(f)
	from := make([]*native.Term, 0, len(vars))
	to := make([]*native.Term, 0, len(vars))
	for _, v := range vars {
		parsed := parseName(v.DeclName().String())
		shifted := tm.versionTerm(Variable{BaseName: parsed.BaseName, Version: parsed.Version + delta})
		from = append(from, v)
		to = append(to, shifted)
	}
	result := tm.ctx.Substitute(f, from, to)

	tm.mu.Lock()
	tm.shiftCache[key] = result
	tm.mu.Unlock()
	return result
}

// RenameVersion returns f with every free variable at version from moved to
// version to, leaving variables at other versions untouched. Unlike Shift,
// which moves every version by a uniform delta, this targets a single
// version band; TPA uses it to collapse an interpolant's "next-next"
// (version 2) vocabulary down to "next" (version 1) before strengthening a
// hierarchy level.
func (tm *TimeMachine) RenameVersion(f *native.Term, from, to int) *native.Term {
	vars := tm.ctx.Vars(f)
	var fromTerms, toTerms []*native.Term
	for _, v := range vars {
		parsed := parseName(v.DeclName().String())
		if parsed.Version != from {
			continue
		}
		fromTerms = append(fromTerms, v)
		toTerms = append(toTerms, tm.versionTerm(Variable{BaseName: parsed.BaseName, Version: to}))
	}
	if len(fromTerms) == 0 {
		return f
	}
	return tm.ctx.Substitute(f, fromTerms, toTerms)
}

// VersionOfName is VersionOf for callers that only have a base name handy.
func (tm *TimeMachine) VersionOfName(baseName string, n int) *native.Term {
	return tm.versionTerm(Variable{BaseName: baseName, Version: n})
}

// ParseVariableName recovers the Variable a versioned SMT identifier denotes.
func ParseVariableName(name string) Variable {
	return parseName(name)
}
