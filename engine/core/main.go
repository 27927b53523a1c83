// Package core holds the types shared by every verification engine
// (kind, pdkind, tpa) and by the dispatcher in package engine. It is kept
// separate from package engine itself so the concrete engines can depend on
// these types without importing the dispatcher that in turn depends on them.
package core

import (
	"errors"

	"github.com/hornkernel/chck/smt"
	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/transition"
)

// Options are the options every engine recognises, plus the solver tuning
// knobs left to the SMT backend (interpolation strength, simplification
// level, incremental-restart limit).
type Options struct {
	// Engine selects kind|pdkind|tpa|tpa-split.
	Engine string
	// ComputeWitness requests an invariant/counterexample depth on top of the verdict.
	ComputeWitness bool
	// Verbose is carried for the CLI's verbosity setting. No engine reads it;
	// the engines write no log output and report progress only via Progress.
	Verbose int
	// UseQE replaces model-based projection with exact quantifier elimination.
	UseQE bool

	// SolverVariant selects one of smt's three SolverFacade strategies.
	SolverVariant smt.Variant
	// RestartLimit is forwarded to IncrementalWithRestart; 0 selects smt.DefaultRestartLimit.
	RestartLimit int
	// InterpolationStrength selects weak/Farkas vs strong/McMillan interpolants.
	InterpolationStrength native.InterpolationStrength
	// SimplifyLevel is the backend's simplification/decomposition level, 0-4.
	SimplifyLevel int

	// Progress, if non-nil, is updated as the engine's main loop advances so
	// a status server can report depth/power/frame size without waiting for
	// the run to finish. Nil disables the bookkeeping entirely.
	Progress *Progress
}

// Verdict is the three-valued safety answer an engine reports.
type Verdict int

const (
	Safe Verdict = iota
	Unsafe
	Unknown
)

func (v Verdict) String() string {
	switch v {
	case Safe:
		return "SAFE"
	case Unsafe:
		return "UNSAFE"
	default:
		return "UNKNOWN"
	}
}

// VerificationResult is the engine's answer. Invariant is set only for Safe
// with a witness requested; Depth is set only for Unsafe with a witness
// requested and is otherwise -1.
type VerificationResult struct {
	Verdict   Verdict
	Invariant *native.Term
	Depth     int
}

// Engine is the unified capability every dispatched engine exposes.
type Engine interface {
	Solve(ts *transition.TransitionSystem) (*VerificationResult, error)
}

var (
	// ErrSolverUnknown surfaces a backend "unknown" answer.
	ErrSolverUnknown = errors.New("engine: solver backend answered unknown")
	// ErrInternalInconsistency surfaces a violated internal assumption
	// (e.g. a refined target missing); fatal, with no recovery path.
	ErrInternalInconsistency = errors.New("engine: internal inconsistency")
	// ErrCancelled surfaces a host-provided deadline or signal, polled
	// between outer main-loop iterations only.
	ErrCancelled = errors.New("engine: cancelled or timed out")
)
