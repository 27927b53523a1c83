package kind

import (
	"testing"

	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
	"github.com/hornkernel/chck/transition"
)

func newSystem(t *testing.T, init, tr, bad func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term) (*native.Context, *transition.TransitionSystem) {
	t.Helper()
	ctx := native.NewContext(native.NewConfig(0, native.Weak))
	tm := timemachine.New(ctx)
	x := ctx.IntVar("x")
	tm.RegisterVar(x)

	ts, err := transition.New(ctx, tm, []*native.Term{x}, nil, init(ctx, tm, x), tr(ctx, tm, x), bad(ctx, tm, x))
	if err != nil {
		t.Fatalf("unexpected invariant violation: %v", err)
	}
	return ctx, ts
}

func TestUnsafeAtDepthFive(t *testing.T) {
	ctx, ts := newSystem(t,
		func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term {
			return ctx.Eq(x, ctx.Int(0))
		},
		func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term {
			return ctx.Eq(tm.VersionOfName("x", 1), ctx.Add(x, ctx.Int(1)))
		},
		func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term {
			return ctx.Eq(x, ctx.Int(5))
		},
	)

	e := New(ctx, core.Options{ComputeWitness: true})
	result, err := e.Solve(ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Verdict != core.Unsafe {
		t.Fatalf("expected UNSAFE, got %s", result.Verdict)
	}
	if result.Depth != 5 {
		t.Fatalf("expected depth 5, got %d", result.Depth)
	}
}

func TestSafeOneInductive(t *testing.T) {
	ctx, ts := newSystem(t,
		func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term {
			return ctx.Geq(x, ctx.Int(0))
		},
		func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term {
			return ctx.And(
				ctx.Geq(x, ctx.Int(1)),
				ctx.Eq(tm.VersionOfName("x", 1), ctx.Sub(x, ctx.Int(1))),
			)
		},
		func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term {
			return ctx.Lt(x, ctx.Int(0))
		},
	)

	e := New(ctx, core.Options{})
	result, err := e.Solve(ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Verdict != core.Safe {
		t.Fatalf("expected SAFE, got %s", result.Verdict)
	}
}

func TestEmptyInitIsImmediatelySafe(t *testing.T) {
	ctx, ts := newSystem(t,
		func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term {
			return ctx.And(ctx.Eq(x, ctx.Int(0)), ctx.Eq(x, ctx.Int(1)))
		},
		func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term {
			return ctx.Eq(tm.VersionOfName("x", 1), x)
		},
		func(ctx *native.Context, tm *timemachine.TimeMachine, x *native.Term) *native.Term {
			return ctx.True()
		},
	)

	e := New(ctx, core.Options{})
	result, err := e.Solve(ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Verdict != core.Safe {
		t.Fatalf("expected SAFE, got %s", result.Verdict)
	}
}
