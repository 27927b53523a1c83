// Package engine dispatches to one of the verification engines selectable
// from the command line and re-exports the shared types of engine/core
// under the names the CLI surface uses.
package engine

import (
	"fmt"

	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/engine/kind"
	"github.com/hornkernel/chck/engine/pdkind"
	"github.com/hornkernel/chck/engine/tpa"
	"github.com/hornkernel/chck/smt/native"
)

type Options = core.Options
type VerificationResult = core.VerificationResult
type Verdict = core.Verdict
type Engine = core.Engine

const (
	Safe    = core.Safe
	Unsafe  = core.Unsafe
	Unknown = core.Unknown
)

var (
	ErrSolverUnknown         = core.ErrSolverUnknown
	ErrInternalInconsistency = core.ErrInternalInconsistency
	ErrCancelled             = core.ErrCancelled
)

// Select builds the Engine named by opts.Engine, sharing ctx as the term
// bank every formula the engine builds lives in.
func Select(ctx *native.Context, opts Options) (Engine, error) {
	switch opts.Engine {
	case "", "kind":
		return kind.New(ctx, opts), nil
	case "pdkind":
		return pdkind.New(ctx, opts), nil
	case "tpa":
		return tpa.NewBasic(ctx, opts), nil
	case "tpa-split":
		return tpa.NewSplit(ctx, opts), nil
	default:
		return nil, fmt.Errorf("engine: unknown engine %q", opts.Engine)
	}
}
