package gnarkapi

import (
	"testing"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
)

type gateCircuit struct {
	gate      gates.Gate
	Constants [][field.D]frontend.Variable
	Wires     [][field.D]frontend.Variable
}

func newGateCircuit(g gates.Gate) *gateCircuit {
	return &gateCircuit{
		gate:      g,
		Constants: make([][field.D]frontend.Variable, g.NumConstants()),
		Wires:     make([][field.D]frontend.Variable, g.NumWires()),
	}
}

func (c *gateCircuit) Define(api frontend.API) error {
	a := New(api)
	vars := gates.EvaluationTargets{
		LocalConstants: make([]iop.ExtensionTarget, len(c.Constants)),
		LocalWires:     make([]iop.ExtensionTarget, len(c.Wires)),
	}
	for i, v := range c.Constants {
		vars.LocalConstants[i] = a.FromVariables(v)
	}
	for i, v := range c.Wires {
		vars.LocalWires[i] = a.FromVariables(v)
	}
	for _, constraint := range c.gate.EvalUnfilteredRecursively(a, vars) {
		a.AssertIsZero(constraint)
	}
	return nil
}

func assign(g gates.Gate, consts, wires []field.Element) *gateCircuit {
	res := newGateCircuit(g)
	for i := range consts {
		res.Constants[i] = [field.D]frontend.Variable{consts[i].Uint64(), 0}
	}
	for i := range wires {
		res.Wires[i] = [field.D]frontend.Variable{wires[i].Uint64(), 0}
	}
	return res
}

func generateRow(t *testing.T, g gates.Gate, consts []field.Element, inputs *iop.PartialWitness) []field.Element {
	p := iop.NewForest(g.NumWires(), 2, 0).Partition()
	w, err := iop.GeneratePartialWitness(inputs, p, g.Generators(0, consts))
	require.NoError(t, err)
	return w.FullWitness().Row(0)
}

func TestArithmeticExtensionInCircuit(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	g := gates.NewArithmeticExtensionGate(2)
	consts := field.RandElements(r, g.NumConstants())
	inputs := iop.NewPartialWitness()
	for op := 0; op < g.NumOps; op++ {
		for _, start := range []int{g.WireIthMultiplicand0(op), g.WireIthMultiplicand1(op), g.WireIthAddend(op)} {
			inputs.SetExtensionTarget(iop.ExtensionTargetFromRange(0, start), field.RandExtension(r))
		}
	}
	row := generateRow(t, g, consts, inputs)

	require.NoError(t, test.IsSolved(newGateCircuit(g), assign(g, consts, row), field.ScalarField))

	row[g.WireIthOutput(1)] = field.RandElement(r)
	require.Error(t, test.IsSolved(newGateCircuit(g), assign(g, consts, row), field.ScalarField))
}

func TestRandomAccessInCircuit(t *testing.T) {
	r := rand.New(rand.NewSource(12))
	g := gates.NewRandomAccessGate(2, 2)
	inputs := iop.NewPartialWitness()
	for cp, index := range []uint64{3, 1} {
		inputs.SetTarget(iop.WireTarget(0, g.WireAccessIndex(cp)), field.NewElement(index))
		for i := 0; i < g.VecSize(); i++ {
			inputs.SetTarget(iop.WireTarget(0, g.WireListItem(i, cp)), field.RandElement(r))
		}
	}
	row := generateRow(t, g, nil, inputs)

	require.NoError(t, test.IsSolved(newGateCircuit(g), assign(g, nil, row), field.ScalarField))

	row[g.WireClaimedElement(0)] = row[g.WireListItem(2, 0)]
	require.Error(t, test.IsSolved(newGateCircuit(g), assign(g, nil, row), field.ScalarField))
}

// The extension multiplication must agree with the native one.
func TestMulExtension(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	x, y := field.RandExtension(r), field.RandExtension(r)
	var want field.Extension
	want.Mul(&x, &y)

	circuit := &mulCircuit{}
	assignment := &mulCircuit{
		X:   [field.D]frontend.Variable{x.A0.Uint64(), x.A1.Uint64()},
		Y:   [field.D]frontend.Variable{y.A0.Uint64(), y.A1.Uint64()},
		Out: [field.D]frontend.Variable{want.A0.Uint64(), want.A1.Uint64()},
	}
	require.NoError(t, test.IsSolved(circuit, assignment, field.ScalarField))
}

type mulCircuit struct {
	X, Y [field.D]frontend.Variable
	Out  [field.D]frontend.Variable `gnark:",public"`
}

func (c *mulCircuit) Define(api frontend.API) error {
	a := New(api)
	prod := a.Value(a.MulExtension(a.FromVariables(c.X), a.FromVariables(c.Y)))
	for i := range prod {
		api.AssertIsEqual(prod[i], c.Out[i])
	}
	return nil
}
