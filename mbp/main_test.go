package mbp

import (
	"testing"

	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
)

func newCtx(t *testing.T) *native.Context {
	t.Helper()
	return native.NewContext(native.NewConfig(0, native.Weak))
}

func TestProjectEliminatesEqualityBoundVariable(t *testing.T) {
	ctx := newCtx(t)
	tm := timemachine.New(ctx)
	x := ctx.IntVar("x")
	y := ctx.IntVar("y")
	tm.RegisterVar(x)
	tm.RegisterVar(y)

	// x = y + 2 /\ y = 3
	phi := ctx.And(
		ctx.Eq(x, ctx.Add(y, ctx.Int(2))),
		ctx.Eq(y, ctx.Int(3)),
	)

	solver := ctx.NewSolver()
	solver.Assert(phi)
	if solver.Check() != native.Sat {
		t.Fatal("expected phi to be satisfiable")
	}
	m := solver.Model()

	e := New(ctx)
	psi := e.Project(phi, []timemachine.Variable{{BaseName: "x", Version: 0}}, m)

	for _, v := range ctx.Vars(psi) {
		if timemachine.ParseVariableName(v.DeclName().String()).BaseName == "x" {
			t.Fatalf("psi still mentions eliminated variable x: %s", psi.String())
		}
	}
}

func TestProjectBoundSubstitutionStaysSatisfiable(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.IntVar("x")

	// 0 <= x /\ x <= 10
	phi := ctx.And(ctx.Leq(ctx.Int(0), x), ctx.Leq(x, ctx.Int(10)))

	solver := ctx.NewSolver()
	solver.Assert(phi)
	if solver.Check() != native.Sat {
		t.Fatal("expected phi to be satisfiable")
	}
	m := solver.Model()

	e := New(ctx)
	psi := e.Project(phi, []timemachine.Variable{{BaseName: "x", Version: 0}}, m)

	check := ctx.NewSolver()
	check.Assert(psi)
	if check.Check() != native.Sat {
		t.Fatal("projected formula must remain satisfiable")
	}
}
