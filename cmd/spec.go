package cmd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
	"github.com/hornkernel/chck/transition"
)

// systemSpec is the JSON transition-system description the solve subcommand
// reads: CHC parsing is out of scope here, but the core kernel still needs
// a thin, concrete way to be handed an (Init, Tr, Bad) triple without a full
// CHC front end. The CHC-hypergraph reduction that would normally produce
// this triple is assumed to have already run upstream.
type systemSpec struct {
	StateVars []varSpec `json:"state_vars"`
	AuxVars   []varSpec `json:"aux_vars"`
	Init      termSpec  `json:"init"`
	Tr        termSpec  `json:"tr"`
	Bad       termSpec  `json:"bad"`
}

type varSpec struct {
	Name string `json:"name"`
	Sort string `json:"sort"`
}

// termSpec is a small S-expression-shaped JSON formula AST: exactly one of
// Var, Const, or Op/Args is set.
type termSpec struct {
	Var   *varRef    `json:"var,omitempty"`
	Const *string    `json:"const,omitempty"`
	Op    string     `json:"op,omitempty"`
	Args  []termSpec `json:"args,omitempty"`
}

type varRef struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// loadTransitionSystem reads path as a systemSpec and builds the
// transition.TransitionSystem it describes.
func loadTransitionSystem(ctx *native.Context, tm *timemachine.TimeMachine, path string) (*transition.TransitionSystem, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transition system: %w", err)
	}
	var spec systemSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parsing transition system: %w", err)
	}

	b := &specBuilder{ctx: ctx, tm: tm}
	stateVars := make([]*native.Term, len(spec.StateVars))
	for i, vs := range spec.StateVars {
		sort, err := b.sort(vs.Sort)
		if err != nil {
			return nil, err
		}
		tm.Register(vs.Name, sort)
		stateVars[i] = tm.VersionOfName(vs.Name, 0)
	}
	auxVars := make([]*native.Term, len(spec.AuxVars))
	for i, vs := range spec.AuxVars {
		sort, err := b.sort(vs.Sort)
		if err != nil {
			return nil, err
		}
		tm.Register(vs.Name, sort)
		auxVars[i] = tm.VersionOfName(vs.Name, 0)
	}

	init, err := b.build(spec.Init)
	if err != nil {
		return nil, fmt.Errorf("building Init: %w", err)
	}
	tr, err := b.build(spec.Tr)
	if err != nil {
		return nil, fmt.Errorf("building Tr: %w", err)
	}
	bad, err := b.build(spec.Bad)
	if err != nil {
		return nil, fmt.Errorf("building Bad: %w", err)
	}

	return transition.New(ctx, tm, stateVars, auxVars, init, tr, bad)
}

// specBuilder turns a termSpec tree into native.Terms over a fixed context
// and time machine.
type specBuilder struct {
	ctx *native.Context
	tm  *timemachine.TimeMachine
}

func (b *specBuilder) sort(name string) (*native.Sort, error) {
	switch name {
	case "Int", "":
		return b.ctx.IntSort(), nil
	case "Real":
		return b.ctx.RealSort(), nil
	case "Bool":
		return b.ctx.BoolSort(), nil
	default:
		return nil, fmt.Errorf("unknown sort %q", name)
	}
}

func (b *specBuilder) build(t termSpec) (*native.Term, error) {
	switch {
	case t.Var != nil:
		return b.tm.VersionOfName(t.Var.Name, t.Var.Version), nil
	case t.Const != nil:
		return b.buildConst(*t.Const)
	case t.Op != "":
		return b.buildOp(t.Op, t.Args)
	default:
		return nil, fmt.Errorf("empty term")
	}
}

func (b *specBuilder) buildConst(lit string) (*native.Term, error) {
	switch lit {
	case "true":
		return b.ctx.True(), nil
	case "false":
		return b.ctx.False(), nil
	}
	var num, den int
	if n, err := fmt.Sscanf(lit, "%d/%d", &num, &den); err == nil && n == 2 {
		return b.ctx.Real(num, den), nil
	}
	var v int
	if _, err := fmt.Sscanf(lit, "%d", &v); err != nil {
		return nil, fmt.Errorf("invalid constant %q", lit)
	}
	return b.ctx.Int(v), nil
}

func (b *specBuilder) buildOp(op string, argSpecs []termSpec) (*native.Term, error) {
	args := make([]*native.Term, len(argSpecs))
	for i, a := range argSpecs {
		t, err := b.build(a)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}

	switch op {
	case "and":
		return b.ctx.And(args...), nil
	case "or":
		return b.ctx.Or(args...), nil
	case "not":
		return requireArity(op, args, 1, func() *native.Term { return b.ctx.Not(args[0]) })
	case "=>":
		return requireArity(op, args, 2, func() *native.Term { return b.ctx.Implies(args[0], args[1]) })
	case "=":
		return requireArity(op, args, 2, func() *native.Term { return b.ctx.Eq(args[0], args[1]) })
	case "<=":
		return requireArity(op, args, 2, func() *native.Term { return b.ctx.Leq(args[0], args[1]) })
	case "<":
		return requireArity(op, args, 2, func() *native.Term { return b.ctx.Lt(args[0], args[1]) })
	case ">=":
		return requireArity(op, args, 2, func() *native.Term { return b.ctx.Geq(args[0], args[1]) })
	case ">":
		return requireArity(op, args, 2, func() *native.Term { return b.ctx.Gt(args[0], args[1]) })
	case "+":
		return b.ctx.Add(args...), nil
	case "*":
		return b.ctx.Mul(args...), nil
	case "-":
		if len(args) == 1 {
			return b.ctx.Neg(args[0]), nil
		}
		return requireArity(op, args, 2, func() *native.Term { return b.ctx.Sub(args[0], args[1]) })
	default:
		return nil, fmt.Errorf("unknown operator %q", op)
	}
}

func requireArity(op string, args []*native.Term, n int, build func() *native.Term) (*native.Term, error) {
	if len(args) != n {
		return nil, fmt.Errorf("operator %q expects %d argument(s), got %d", op, n, len(args))
	}
	return build(), nil
}
