// Package smt implements the SolverFacade: a small set of contracts over
// smt/native that the reachability engines drive without caring whether
// queries are answered by a throwaway solver, an incremental one, or an
// incremental one that periodically restarts.
package smt

import (
	"errors"

	"github.com/hornkernel/chck/smt/native"
)

// Term is the opaque formula handle.
type Term = native.Term

// Model is a satisfying assignment.
type Model = native.Model

// Reachability is the three-valued answer to a consistency check. Unknown
// surfaces as SolverUnknown and is fatal unless the caller explicitly
// treats it as recoverable.
type Reachability int

const (
	Unreachable Reachability = iota
	Reachable
	Unknown
)

var (
	// ErrNoModel is returned by LastModel when the last check was not Reachable.
	ErrNoModel = errors.New("smt: no model available, last query was not reachable")
	// ErrNoInterpolant is returned by LastTransitionInterpolant when the last
	// check was not Unreachable.
	ErrNoInterpolant = errors.New("smt: no interpolant available, last query was not unreachable")
	// ErrSolverUnknown is returned when the backend answers unknown.
	ErrSolverUnknown = errors.New("smt: backend returned unknown")
)

// Facade is the contract shared by all three SolverFacade variants.
type Facade interface {
	// CheckConsistent asserts q on top of the fixed preamble and reports
	// whether the conjunction is satisfiable.
	CheckConsistent(q *Term) (Reachability, error)
	// Strengthen permanently adds phi to the preamble; every subsequent
	// CheckConsistent is against preamble /\ phi.
	Strengthen(phi *Term)
	// LastModel returns the model witnessing the last Reachable result.
	LastModel() (*Model, error)
	// LastTransitionInterpolant returns a Craig interpolant for the last
	// Unreachable result, with the preamble as the A-partition.
	LastTransitionInterpolant() (*Term, error)
	// Close releases solver resources.
	Close() error
}
