// Package transition holds the TransitionSystem model: the state
// variables, the Init/Tr/Bad formulas over them, and the purity invariants
// every engine relies on.
package transition

import (
	"fmt"

	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
	"github.com/hornkernel/chck/types"
)

// InputInvariantViolation is returned by New when Init, Tr, or Bad does not
// respect the purity invariants of a transition system (e.g. Bad mentions a
// next-state variable, or Tr mentions a version other than {0,1}).
type InputInvariantViolation struct {
	Formula string
	Reason  string
}

func (e *InputInvariantViolation) Error() string {
	return fmt.Sprintf("input invariant violation in %s: %s", e.Formula, e.Reason)
}

// TransitionSystem is the (Init, Tr, Bad) triple an engine verifies,
// together with the variable bookkeeping needed to version formulas.
type TransitionSystem struct {
	TM *timemachine.TimeMachine

	StateVars     []*native.Term
	NextStateVars []*native.Term
	AuxVars       []*native.Term

	Init *native.Term
	Tr   *native.Term
	Bad  *native.Term
}

// New validates and builds a TransitionSystem. stateVars must be version-0
// terms with distinct base names; auxVars are symbols permitted in Tr that
// are not carried across steps. tm is used both to validate variable
// versions and to register every variable's sort for later use by the
// engines.
func New(ctx *native.Context, tm *timemachine.TimeMachine, stateVars, auxVars []*native.Term, init, tr, bad *native.Term) (*TransitionSystem, error) {
	stateNames := types.NewSet[string]()
	for _, v := range stateVars {
		base := timemachine.ParseVariableName(v.DeclName().String()).BaseName
		if stateNames.Contains(base) {
			return nil, &InputInvariantViolation{Formula: "stateVars", Reason: fmt.Sprintf("duplicate base name %q", base)}
		}
		stateNames.Add(base)
		tm.RegisterVar(v)
	}

	auxNames := types.NewSet[string]()
	for _, v := range auxVars {
		auxNames.Add(timemachine.ParseVariableName(v.DeclName().String()).BaseName)
		tm.RegisterVar(v)
	}

	nextStateVars := make([]*native.Term, len(stateVars))
	for i, v := range stateVars {
		base := timemachine.ParseVariableName(v.DeclName().String()).BaseName
		nextStateVars[i] = tm.VersionOfName(base, 1)
	}

	if err := onlyStateVars(ctx, init, stateNames); err != nil {
		return nil, &InputInvariantViolation{Formula: "Init", Reason: err.Error()}
	}
	if err := onlyStateVars(ctx, bad, stateNames); err != nil {
		return nil, &InputInvariantViolation{Formula: "Bad", Reason: err.Error()}
	}
	if err := onlyTransitionVars(ctx, tr, stateNames, auxNames); err != nil {
		return nil, &InputInvariantViolation{Formula: "Tr", Reason: err.Error()}
	}

	return &TransitionSystem{
		TM:            tm,
		StateVars:     stateVars,
		NextStateVars: nextStateVars,
		AuxVars:       auxVars,
		Init:          init,
		Tr:            tr,
		Bad:           bad,
	}, nil
}

func onlyStateVars(ctx *native.Context, f *native.Term, state *types.Set[string]) error {
	for _, v := range ctx.Vars(f) {
		parsed := timemachine.ParseVariableName(v.DeclName().String())
		if parsed.Version != 0 || !state.Contains(parsed.BaseName) {
			return fmt.Errorf("variable %q is not a version-0 state variable", v.DeclName().String())
		}
	}
	return nil
}

func onlyTransitionVars(ctx *native.Context, f *native.Term, state, aux *types.Set[string]) error {
	for _, v := range ctx.Vars(f) {
		name := v.DeclName().String()
		parsed := timemachine.ParseVariableName(name)
		if aux.Contains(parsed.BaseName) {
			continue
		}
		if !state.Contains(parsed.BaseName) {
			return fmt.Errorf("variable %q is neither a state nor an auxiliary variable", name)
		}
		if parsed.Version != 0 && parsed.Version != 1 {
			return fmt.Errorf("variable %q has version %d, only versions 0 and 1 are allowed in Tr", name, parsed.Version)
		}
	}
	return nil
}

// StateVarBaseNames returns the state variables' base names in order.
func (ts *TransitionSystem) StateVarBaseNames() []string {
	names := make([]string, len(ts.StateVars))
	for i, v := range ts.StateVars {
		names[i] = timemachine.ParseVariableName(v.DeclName().String()).BaseName
	}
	return names
}

// StateVariables returns the state variables as timemachine.Variable at
// version 0, the representation MBP and the engines eliminate against.
func (ts *TransitionSystem) StateVariables() []timemachine.Variable {
	vars := make([]timemachine.Variable, len(ts.StateVars))
	for i, name := range ts.StateVarBaseNames() {
		vars[i] = timemachine.Variable{BaseName: name, Version: 0}
	}
	return vars
}
