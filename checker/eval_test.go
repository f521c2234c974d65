package checker

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

func TestCheckWitnessSatisfied(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	b := builder.NewCircuitBuilder(config.StandardRecursionConfig())
	x, y := b.AddVirtualExtensionTarget(), b.AddVirtualExtensionTarget()
	prod := b.MulExtension(x, y)
	index := b.AddVirtualTarget()
	list := b.AddVirtualTargets(8)
	b.RandomAccess(index, list)
	b.AddExtension(prod, b.ConstantExtension(field.NewExtension(5, 6)))

	data, err := b.Build()
	require.NoError(t, err)

	inputs := iop.NewPartialWitness()
	inputs.SetExtensionTarget(x, field.RandExtension(r))
	inputs.SetExtensionTarget(y, field.RandExtension(r))
	inputs.SetTarget(index, field.NewElement(5))
	inputs.SetTargets(list, field.RandElements(r, 8))
	w, err := data.GenerateWitness(inputs)
	require.NoError(t, err)

	report, err := CheckWitness(data, w)
	require.NoError(t, err)
	require.True(t, report.Satisfied(), "%v", report.Violations)
	require.Equal(t, len(data.Gates), report.NumRows)
	require.Positive(t, report.NumConstraints)
}

func assignAll(r *rand.Rand, p *iop.Partition) *iop.PartialWitness {
	inputs := iop.NewPartialWitness()
	for row := 0; row < p.Degree(); row++ {
		for col := 0; col < p.NumWires(); col++ {
			inputs.SetTarget(iop.WireTarget(row, col), field.RandElement(r))
		}
	}
	return inputs
}

func TestCheckWitnessViolations(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	c := config.StandardRecursionConfig()
	g := gates.NewArithmeticExtensionGate(1)
	p := iop.NewForest(c.NumWires, 2, 0).Partition()
	data := &builder.CircuitData{
		Config:     c,
		Gates:      []builder.GateInstance{{Gate: g, Constants: []field.Element{field.One(), field.One()}}},
		Degree:     2,
		Partition:  p,
		Generators: iop.NewGeneratorSet(p, nil),
	}
	w, err := data.GenerateWitness(assignAll(r, p))
	require.NoError(t, err)

	report, err := CheckWitness(data, w)
	require.NoError(t, err)
	require.False(t, report.Satisfied())
	require.Len(t, report.Violations, g.NumConstraints())
	for i, v := range report.Violations {
		require.Equal(t, 0, v.Row)
		require.Equal(t, i, v.Constraint)
		require.Equal(t, g.ID(), v.GateID)
	}
}

type overcountingGate struct {
	*gates.ConstantGate
}

func (g overcountingGate) NumConstraints() int {
	return g.ConstantGate.NumConstraints() + 1
}

func TestCheckWitnessConstraintCountMismatch(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	c := config.StandardRecursionConfig()
	p := iop.NewForest(c.NumWires, 2, 0).Partition()
	data := &builder.CircuitData{
		Config:     c,
		Gates:      []builder.GateInstance{{Gate: overcountingGate{gates.NewConstantGate(2)}, Constants: make([]field.Element, 2)}},
		Degree:     2,
		Partition:  p,
		Generators: iop.NewGeneratorSet(p, nil),
	}
	w, err := data.GenerateWitness(assignAll(r, p))
	require.NoError(t, err)

	_, err = CheckWitness(data, w)
	require.ErrorIs(t, err, gates.ErrConstraintCountMismatch)
}

func TestCheckWitnessForeignWitness(t *testing.T) {
	b := builder.NewCircuitBuilder(config.StandardRecursionConfig())
	b.AddVirtualTarget()
	data, err := b.Build()
	require.NoError(t, err)

	other := iop.NewPartitionWitness(iop.NewForest(4, 2, 0).Partition())
	_, err = CheckWitness(data, other)
	require.Error(t, err)
}
