package stark

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/gilescope/plonky2/builder"
	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates/gatetest"
	"github.com/gilescope/plonky2/iop"
)

// packTrace lays out rows as lanes, with the next row taken cyclically.
func packTrace(s Stark, rows [][]field.Element) VarsPacked {
	n := len(rows)
	vars := VarsPacked{
		LocalValues: make([]field.Packed, s.Columns()),
		NextValues:  make([]field.Packed, s.Columns()),
	}
	for col := range vars.LocalValues {
		vars.LocalValues[col] = make(field.Packed, n)
		vars.NextValues[col] = make(field.Packed, n)
		for row := 0; row < n; row++ {
			vars.LocalValues[col][row] = rows[row][col]
			vars.NextValues[col][row] = rows[(row+1)%n][col]
		}
	}
	return vars
}

func traceConsumer(n int) *PackedConsumer {
	c := &PackedConsumer{
		ZLast:         field.PackedOne(n),
		LagrangeFirst: field.PackedZero(n),
		LagrangeLast:  field.PackedZero(n),
	}
	c.ZLast[n-1] = field.Zero()
	c.LagrangeFirst[0] = field.One()
	c.LagrangeLast[n-1] = field.One()
	return c
}

func evalTrace(s *FibonacciStark, rows [][]field.Element, pis []field.Element) []field.Packed {
	vars := packTrace(s, rows)
	vars.PublicInputs = pis
	yield := traceConsumer(len(rows))
	s.EvalPackedBase(vars, yield)
	return yield.Constraints
}

func allZero(constraints []field.Packed) bool {
	for _, c := range constraints {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

func TestFibonacciTrace(t *testing.T) {
	s := &FibonacciStark{NumRows: field.PackedWidth}
	x0, x1 := field.Zero(), field.One()
	rows, result := s.GenerateTrace(x0, x1)
	require.Equal(t, uint64(21), result.Uint64())

	pis := []field.Element{x0, x1, result}
	constraints := evalTrace(s, rows, pis)
	require.Len(t, constraints, 5)
	require.True(t, allZero(constraints))

	wrongResult := []field.Element{x0, x1, field.NewElement(22)}
	require.False(t, allZero(evalTrace(s, rows, wrongResult)))

	rows[3][1] = field.NewElement(4)
	require.False(t, allZero(evalTrace(s, rows, pis)))
}

func TestQuotientDegreeFactor(t *testing.T) {
	require.Equal(t, 1, QuotientDegreeFactor(&FibonacciStark{NumRows: 4}))
}

func TestFibonacciPackedMatchesExtension(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	s := &FibonacciStark{NumRows: 16}
	width := field.PackedWidth
	randPacked := func() field.Packed { return field.Packed(field.RandElements(r, width)) }

	vars := VarsPacked{PublicInputs: field.RandElements(r, s.PublicInputs())}
	for i := 0; i < s.Columns(); i++ {
		vars.LocalValues = append(vars.LocalValues, randPacked())
		vars.NextValues = append(vars.NextValues, randPacked())
	}
	packed := &PackedConsumer{ZLast: randPacked(), LagrangeFirst: randPacked(), LagrangeLast: randPacked()}
	s.EvalPackedBase(vars, packed)

	for lane := 0; lane < width; lane++ {
		lanes := func(ps []field.Packed) []field.Extension {
			res := make([]field.Extension, len(ps))
			for i := range ps {
				res[i] = field.Embed(ps[i][lane])
			}
			return res
		}
		ext := &ExtConsumer{
			ZLast:         field.Embed(packed.ZLast[lane]),
			LagrangeFirst: field.Embed(packed.LagrangeFirst[lane]),
			LagrangeLast:  field.Embed(packed.LagrangeLast[lane]),
		}
		s.EvalExt(VarsExt{
			LocalValues:  lanes(vars.LocalValues),
			NextValues:   lanes(vars.NextValues),
			PublicInputs: field.EmbedAll(vars.PublicInputs),
		}, ext)
		require.Len(t, ext.Constraints, len(packed.Constraints))
		for c := range ext.Constraints {
			want := field.Embed(packed.Constraints[c][lane])
			require.True(t, ext.Constraints[c].Equal(&want), "constraint %d lane %d", c, lane)
		}
	}
}

func randVarsExt(r *rand.Rand, s Stark) (VarsExt, *ExtConsumer) {
	vars := VarsExt{
		LocalValues:  field.RandExtensions(r, s.Columns()),
		NextValues:   field.RandExtensions(r, s.Columns()),
		PublicInputs: field.RandExtensions(r, s.PublicInputs()),
	}
	filters := field.RandExtensions(r, 3)
	return vars, &ExtConsumer{ZLast: filters[0], LagrangeFirst: filters[1], LagrangeLast: filters[2]}
}

func TestFibonacciCircuitMatchesExtension(t *testing.T) {
	r := rand.New(rand.NewSource(22))
	s := &FibonacciStark{NumRows: 8}
	vars, ext := randVarsExt(r, s)
	s.EvalExt(vars, ext)

	b := builder.NewCircuitBuilder(config.StandardRecursionConfig())
	targets := VarsTargets{
		LocalValues:  b.AddVirtualExtensionTargets(s.Columns()),
		NextValues:   b.AddVirtualExtensionTargets(s.Columns()),
		PublicInputs: b.AddVirtualExtensionTargets(s.PublicInputs()),
	}
	filters := b.AddVirtualExtensionTargets(3)
	yield := &RecursiveConsumer{B: b, ZLast: filters[0], LagrangeFirst: filters[1], LagrangeLast: filters[2]}
	s.EvalExtRecursively(b, targets, yield)
	require.Len(t, yield.Constraints, len(ext.Constraints))

	data, err := b.Build()
	require.NoError(t, err)
	inputs := iop.NewPartialWitness()
	set := func(ts []iop.ExtensionTarget, vs []field.Extension) {
		for i := range ts {
			inputs.SetExtensionTarget(ts[i], vs[i])
		}
	}
	set(targets.LocalValues, vars.LocalValues)
	set(targets.NextValues, vars.NextValues)
	set(targets.PublicInputs, vars.PublicInputs)
	set(filters, []field.Extension{ext.ZLast, ext.LagrangeFirst, ext.LagrangeLast})

	w, err := data.GenerateWitness(inputs)
	require.NoError(t, err)
	for c, et := range yield.Constraints {
		got := w.GetExtensionTarget(et)
		require.True(t, got.Equal(&ext.Constraints[c]), "constraint %d", c)
	}
}

func TestFibonacciConstraintDegree(t *testing.T) {
	s := &FibonacciStark{NumRows: 8}
	sym := gatetest.NewSymbolicBuilder()
	next := 0
	variables := func(n int) []iop.ExtensionTarget {
		res := make([]iop.ExtensionTarget, n)
		for i := range res {
			res[i] = sym.Variable(next)
			next++
		}
		return res
	}
	vars := VarsTargets{
		LocalValues:  variables(s.Columns()),
		NextValues:   variables(s.Columns()),
		PublicInputs: variables(s.PublicInputs()),
	}
	filters := variables(3)
	yield := &RecursiveConsumer{B: sym, ZLast: filters[0], LagrangeFirst: filters[1], LagrangeLast: filters[2]}
	s.EvalExtRecursively(sym, vars, yield)

	maxDegree := 0
	for _, c := range yield.Constraints {
		maxDegree = max(maxDegree, sym.Expr(c).Degree())
	}
	require.Equal(t, s.ConstraintDegree(), maxDegree)
}
