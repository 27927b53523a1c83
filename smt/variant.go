package smt

import "github.com/hornkernel/chck/smt/native"

// Variant names one of the three SolverFacade strategies.
type Variant string

const (
	SingleUse           Variant = "single-use"
	Incremental         Variant = "incremental"
	IncrementalWithRestart Variant = "incremental-restart"
)

// New builds the requested Facade variant over a fresh preamble formula phi.
// restartLimit is only consulted for IncrementalWithRestart.
func New(variant Variant, ctx *native.Context, cfg *native.Config, phi *Term, restartLimit int) Facade {
	switch variant {
	case SingleUse:
		return NewSingleUseFacade(ctx, cfg, phi)
	case IncrementalWithRestart:
		return NewIncrementalRestartFacade(ctx, cfg, phi, restartLimit)
	case Incremental:
		fallthrough
	default:
		return NewIncrementalFacade(ctx, cfg, phi)
	}
}
