package opt_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/linopt/opt"
	"github.com/consensys/linopt/rational"
)

func rat(v int64) *rational.Rational {
	return new(rational.Rational).SetInt64(v)
}

// ratComparer lets go-cmp look inside rational.Rational.
var ratComparer = cmp.Comparer(func(a, b rational.Rational) bool {
	return a.Equal(&b)
})

func requireFinite(t *testing.T, res rational.Extended, want int64) {
	t.Helper()
	require.False(t, res.IsInfinite())
	require.Equal(t, 0, res.EpsSign())
	r := res.Rat()
	require.True(t, r.Equal(rat(want)), "got %s, want %d", r.String(), want)
}

func TestMaximizeUnbounded(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(0))
	m.SetObjective(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(0))

	res := m.Maximize()
	require.True(t, res.IsInfinite())
	require.Equal(t, 1, res.InfSign())
}

func TestMaximizeSimpleBound(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(0))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(-3), opt.Le)
	m.SetObjective(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(0))

	requireFinite(t, m.Maximize(), 3)
	val := m.Value(v0)
	require.True(t, val.Equal(rat(3)))
}

func TestMaximizeTwoBounds(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(0))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(-5), opt.Le)
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(-2), opt.Le)
	m.SetObjective(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(0))

	requireFinite(t, m.Maximize(), 2)
	val := m.Value(v0)
	require.True(t, val.Equal(rat(2)))
}

func TestMaximizeStrict(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(0))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(-4), opt.Lt)
	m.SetObjective(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(0))

	res := m.Maximize()
	require.False(t, res.IsInfinite())
	require.Equal(t, -1, res.EpsSign())
	r := res.Rat()
	require.True(t, r.Equal(rat(4)))

	// the witness stays strictly below the open bound
	val := m.Value(v0)
	require.True(t, val.Cmp(rat(4)) < 0)
}

func TestMaximizeResolutionChain(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(0))
	v1 := m.AddVar(rat(0))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0), opt.NewTermInt64(-1, v1)}, rat(0), opt.Le)
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v1)}, rat(-7), opt.Le)
	m.SetObjective(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(0))

	requireFinite(t, m.Maximize(), 7)
	val0, val1 := m.Value(v0), m.Value(v1)
	require.True(t, val0.Equal(rat(7)))
	require.True(t, val1.Equal(rat(7)))
}

func TestProject(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(3))
	v1 := m.AddVar(rat(5))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0), opt.NewTermInt64(-1, v1)}, rat(0), opt.Le)
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v1)}, rat(-10), opt.Le)
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(-1, v1)}, rat(1), opt.Le)

	m.Project(v1)

	// no live row mentions v1, and the model still satisfies every live row
	var sawUpperBound bool
	for _, r := range m.LiveRows() {
		for _, term := range r.Terms {
			require.NotEqual(t, v1, term.VID)
		}
		require.LessOrEqual(t, r.Value.Sign(), 0)
		if len(r.Terms) == 1 && r.Terms[0].VID == v0 && r.Rel == opt.Le &&
			r.Terms[0].Coeff.Equal(rat(1)) && r.Constant.Equal(rat(-10)) {
			sawUpperBound = true
		}
	}
	require.True(t, sawUpperBound, "projection lost the bound v0 <= 10")
	val := m.Value(v0)
	require.True(t, val.Equal(rat(3)))
}

func TestProjectIdempotent(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(3))
	v1 := m.AddVar(rat(5))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0), opt.NewTermInt64(-1, v1)}, rat(0), opt.Le)
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v1)}, rat(-10), opt.Le)

	m.Project(v1)
	once := m.LiveRows()
	m.Project(v1)
	twice := m.LiveRows()

	require.Empty(t, cmp.Diff(once, twice, ratComparer))
}

func TestProjectEquality(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(2))
	v1 := m.AddVar(rat(2))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v1), opt.NewTermInt64(-1, v0)}, rat(0), opt.Eq)
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v1)}, rat(-10), opt.Le)

	m.Project(v1)

	var sawUpperBound bool
	for _, r := range m.LiveRows() {
		for _, term := range r.Terms {
			require.NotEqual(t, v1, term.VID)
		}
		if len(r.Terms) == 1 && r.Terms[0].VID == v0 && r.Rel == opt.Le {
			sawUpperBound = true
		}
	}
	require.True(t, sawUpperBound, "equality substitution lost the bound on v0")
}

func TestProjectFreeVariable(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(0))
	v1 := m.AddVar(rat(0))
	// v1 only bounded from below: all rows mentioning it may be dropped
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(-1, v1), opt.NewTermInt64(1, v0)}, rat(0), opt.Le)

	m.Project(v1)

	for _, r := range m.LiveRows() {
		require.Empty(t, r.Terms)
	}
}

func TestSetValue(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(0))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(-3), opt.Le)

	m.SetValue(v0, rat(2))

	val := m.Value(v0)
	require.True(t, val.Equal(rat(2)))
	for _, r := range m.LiveRows() {
		if len(r.Terms) == 1 && r.Terms[0].VID == v0 {
			require.True(t, r.Value.Equal(rat(-1)))
		}
	}
}

func TestLiveRowsCopies(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(0))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(-3), opt.Le)

	rows := m.LiveRows()
	for i := range rows {
		rows[i].Constant.SetInt64(99)
		for j := range rows[i].Terms {
			rows[i].Terms[j].Coeff.SetInt64(99)
		}
	}

	require.Empty(t, cmp.Diff(m.LiveRows(), func() []opt.Row {
		m2 := opt.New()
		w := m2.AddVar(rat(0))
		m2.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, w)}, rat(-3), opt.Le)
		return m2.LiveRows()
	}(), ratComparer))
}

func TestCloneParallel(t *testing.T) {
	m := opt.New()
	v0 := m.AddVar(rat(0))
	v1 := m.AddVar(rat(0))
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v0), opt.NewTermInt64(-1, v1)}, rat(0), opt.Le)
	m.AddConstraint(opt.LinearExpression{opt.NewTermInt64(1, v1)}, rat(-7), opt.Le)
	m.SetObjective(opt.LinearExpression{opt.NewTermInt64(1, v0)}, rat(0))

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		c := m.Clone()
		g.Go(func() error {
			res := c.Maximize()
			if res.IsInfinite() {
				return fmt.Errorf("unexpected unbounded result")
			}
			if r := res.Rat(); !r.Equal(rat(7)) {
				return fmt.Errorf("got %s, want 7", r.String())
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// the original engine was not touched by the clones
	val := m.Value(v0)
	require.True(t, val.Equal(rat(0)))
}

func ExampleOptimizer_Maximize() {
	m := opt.New()
	v0 := m.AddVar(new(rational.Rational).SetInt64(0))
	v1 := m.AddVar(new(rational.Rational).SetInt64(0))

	// v0 <= v1 and v1 <= 7
	m.AddConstraint(opt.LinearExpression{
		opt.NewTermInt64(1, v0),
		opt.NewTermInt64(-1, v1),
	}, new(rational.Rational).SetInt64(0), opt.Le)
	m.AddConstraint(opt.LinearExpression{
		opt.NewTermInt64(1, v1),
	}, new(rational.Rational).SetInt64(-7), opt.Le)

	// maximize v0
	m.SetObjective(opt.LinearExpression{opt.NewTermInt64(1, v0)}, new(rational.Rational).SetInt64(0))

	res := m.Maximize()
	w0, w1 := m.Value(v0), m.Value(v1)
	fmt.Println(res.String())
	fmt.Println(w0.String(), w1.String())
	// Output:
	// 7
	// 7 7
}
