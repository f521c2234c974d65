package gatetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/gilescope/plonky2/builder"
	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
)

// batchRows is deliberately not a multiple of field.PackedWidth.
const batchRows = 2*field.PackedWidth + 3

// TestEvalFns checks that every evaluation mode of g computes the same constraints.
func TestEvalFns(t *testing.T, g gates.Gate) {
	r := rand.New(rand.NewSource(uint64(g.NumWires())))
	t.Run("base one is disallowed", func(t *testing.T) {
		vars := gates.EvaluationVarsBase{
			LocalConstants: field.RandElements(r, g.NumConstants()),
			LocalWires:     field.RandElements(r, g.NumWires()),
		}
		buf := make([]field.Element, g.NumConstraints())
		err := g.EvalUnfilteredBaseOne(vars, gates.NewStridedConstraintConsumer(buf, 1, 0, 1))
		require.ErrorIs(t, err, gates.ErrUsePackedEvaluator)
	})
	t.Run("packed matches extension", func(t *testing.T) {
		testPackedMatchesExtension(t, r, g)
	})
	t.Run("symbolic matches extension", func(t *testing.T) {
		testSymbolicMatchesExtension(t, r, g)
	})
	t.Run("circuit matches extension", func(t *testing.T) {
		testCircuitMatchesExtension(t, r, g)
	})
}

func testPackedMatchesExtension(t *testing.T, r *rand.Rand, g gates.Gate) {
	rows := make([]gates.EvaluationVarsBase, batchRows)
	for i := range rows {
		rows[i] = gates.EvaluationVarsBase{
			LocalConstants: field.RandElements(r, g.NumConstants()),
			LocalWires:     field.RandElements(r, g.NumWires()),
		}
	}
	batch := gates.BatchFromRows(rows)
	packed := g.EvalUnfilteredBaseBatch(batch)
	require.Len(t, packed, g.NumConstraints()*batchRows)

	for row, vars := range rows {
		ext := g.EvalUnfiltered(gates.EvaluationVars{
			LocalConstants: field.EmbedAll(vars.LocalConstants),
			LocalWires:     field.EmbedAll(vars.LocalWires),
		})
		require.NoError(t, gates.CheckConstraintCount(g, len(ext)))
		for c := range ext {
			want := field.Embed(packed[c*batchRows+row])
			require.True(t, ext[c].Equal(&want), "%s: constraint %d of row %d", g.ID(), c, row)
		}
	}
}

func testSymbolicMatchesExtension(t *testing.T, r *rand.Rand, g gates.Gate) {
	vars := gates.EvaluationVars{
		LocalConstants: field.RandExtensions(r, g.NumConstants()),
		LocalWires:     field.RandExtensions(r, g.NumWires()),
	}
	ext := g.EvalUnfiltered(vars)
	assignment := append(append([]field.Extension{}, vars.LocalConstants...), vars.LocalWires...)
	symbolic := SymbolicConstraints(g)
	require.Len(t, symbolic, len(ext))
	for c := range ext {
		got := symbolic[c].Evaluate(assignment)
		require.True(t, got.Equal(&ext[c]), "%s: constraint %d", g.ID(), c)
	}
}

func testCircuitMatchesExtension(t *testing.T, r *rand.Rand, g gates.Gate) {
	vars := gates.EvaluationVars{
		LocalConstants: field.RandExtensions(r, g.NumConstants()),
		LocalWires:     field.RandExtensions(r, g.NumWires()),
	}
	ext := g.EvalUnfiltered(vars)

	b := builder.NewCircuitBuilder(config.StandardRecursionConfig())
	targets := gates.EvaluationTargets{
		LocalConstants: b.AddVirtualExtensionTargets(g.NumConstants()),
		LocalWires:     b.AddVirtualExtensionTargets(g.NumWires()),
	}
	constraints := g.EvalUnfilteredRecursively(b, targets)
	require.Len(t, constraints, len(ext))
	data, err := b.Build()
	require.NoError(t, err)

	inputs := iop.NewPartialWitness()
	for i, et := range targets.LocalConstants {
		inputs.SetExtensionTarget(et, vars.LocalConstants[i])
	}
	for i, et := range targets.LocalWires {
		inputs.SetExtensionTarget(et, vars.LocalWires[i])
	}
	w, err := data.GenerateWitness(inputs)
	require.NoError(t, err)
	for c, et := range constraints {
		got := w.GetExtensionTarget(et)
		require.True(t, got.Equal(&ext[c]), "%s: constraint %d", g.ID(), c)
	}
}
