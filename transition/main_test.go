package transition

import (
	"testing"

	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
)

func newCtx(t *testing.T) *native.Context {
	t.Helper()
	return native.NewContext(native.NewConfig(0, native.Weak))
}

func TestNewRejectsNextStateInInit(t *testing.T) {
	ctx := newCtx(t)
	tm := timemachine.New(ctx)
	x := ctx.IntVar("x")
	tm.RegisterVar(x)
	x1 := tm.VersionOfName("x", 1)

	_, err := New(ctx, tm, []*native.Term{x}, nil, x1, ctx.True(), ctx.True())
	if err == nil {
		t.Fatal("expected InputInvariantViolation, got nil")
	}
	if _, ok := err.(*InputInvariantViolation); !ok {
		t.Fatalf("expected *InputInvariantViolation, got %T", err)
	}
}

func TestNewRejectsDuplicateStateVarBaseNames(t *testing.T) {
	ctx := newCtx(t)
	tm := timemachine.New(ctx)
	x := ctx.IntVar("x")
	xAgain := ctx.IntVar("x")

	_, err := New(ctx, tm, []*native.Term{x, xAgain}, nil, ctx.True(), ctx.True(), ctx.True())
	if err == nil {
		t.Fatal("expected InputInvariantViolation, got nil")
	}
}

func TestNewAcceptsWellFormedSystem(t *testing.T) {
	ctx := newCtx(t)
	tm := timemachine.New(ctx)
	x := ctx.IntVar("x")
	tm.RegisterVar(x)

	init := ctx.Eq(x, ctx.Int(0))
	tr := ctx.Eq(tm.VersionOfName("x", 1), ctx.Add(x, ctx.Int(1)))
	bad := ctx.Eq(x, ctx.Int(5))

	ts, err := New(ctx, tm, []*native.Term{x}, nil, init, tr, bad)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ts.NextStateVars) != 1 {
		t.Fatalf("expected 1 next-state var, got %d", len(ts.NextStateVars))
	}
}
