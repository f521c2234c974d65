package gates

import (
	"fmt"

	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
)

// nonResidue is W in F[u]/(u^D - W).
const nonResidue = 7

// ArithmeticExtensionGate computes NumOps operations
// output = c0*multiplicand0*multiplicand1 + c1*addend over the extension field,
// where c0 and c1 are the row constants and each operand spans D wires.
type ArithmeticExtensionGate struct {
	NumOps int
}

func NewArithmeticExtensionGate(numOps int) *ArithmeticExtensionGate {
	if numOps <= 0 {
		panic(fmt.Sprintf("invalid arithmetic extension gate: %d ops", numOps))
	}
	return &ArithmeticExtensionGate{NumOps: numOps}
}

func NewArithmeticExtensionGateFromConfig(c config.CircuitConfig) *ArithmeticExtensionGate {
	return NewArithmeticExtensionGate(c.NumRoutedWires / (4 * field.D))
}

func (g *ArithmeticExtensionGate) ID() string {
	return fmt.Sprintf("ArithmeticExtensionGate{ops: %d}", g.NumOps)
}

func (g *ArithmeticExtensionGate) WireIthMultiplicand0(i int) int {
	return 4 * field.D * i
}

func (g *ArithmeticExtensionGate) WireIthMultiplicand1(i int) int {
	return 4*field.D*i + field.D
}

func (g *ArithmeticExtensionGate) WireIthAddend(i int) int {
	return 4*field.D*i + 2*field.D
}

func (g *ArithmeticExtensionGate) WireIthOutput(i int) int {
	return 4*field.D*i + 3*field.D
}

func (g *ArithmeticExtensionGate) NumWires() int {
	return 4 * field.D * g.NumOps
}

func (g *ArithmeticExtensionGate) NumConstants() int {
	return 2
}

func (g *ArithmeticExtensionGate) Degree() int {
	return 3
}

func (g *ArithmeticExtensionGate) NumConstraints() int {
	return g.NumOps * field.D
}

// algebraMul multiplies two elements of the degree-D algebra whose coefficients are extension elements.
func algebraMul(a, b [field.D]field.Extension) [field.D]field.Extension {
	w := field.Embed(field.NewElement(nonResidue))
	return [field.D]field.Extension{
		extAdd(extMul(a[0], b[0]), extMul(w, extMul(a[1], b[1]))),
		extAdd(extMul(a[0], b[1]), extMul(a[1], b[0])),
	}
}

func (g *ArithmeticExtensionGate) EvalUnfiltered(vars EvaluationVars) []field.Extension {
	c0, c1 := vars.LocalConstants[0], vars.LocalConstants[1]
	limbs := func(start int) (res [field.D]field.Extension) {
		copy(res[:], vars.LocalWires[start:start+field.D])
		return
	}
	constraints := make([]field.Extension, 0, g.NumConstraints())
	for i := 0; i < g.NumOps; i++ {
		prod := algebraMul(limbs(g.WireIthMultiplicand0(i)), limbs(g.WireIthMultiplicand1(i)))
		addend := limbs(g.WireIthAddend(i))
		output := limbs(g.WireIthOutput(i))
		for j := 0; j < field.D; j++ {
			computed := extAdd(extMul(c0, prod[j]), extMul(c1, addend[j]))
			constraints = append(constraints, extSub(output[j], computed))
		}
	}
	return constraints
}

func (g *ArithmeticExtensionGate) EvalUnfilteredBaseOne(vars EvaluationVarsBase, yield *StridedConstraintConsumer) error {
	return ErrUsePackedEvaluator
}

func (g *ArithmeticExtensionGate) EvalUnfilteredBaseBatch(vars EvaluationVarsBaseBatch) []field.Element {
	return EvalBaseBatchPacked(g, vars)
}

func (g *ArithmeticExtensionGate) EvalUnfilteredBasePacked(vars EvaluationVarsBasePacked, yield *StridedConstraintConsumer) {
	c0, c1 := vars.LocalConstants[0], vars.LocalConstants[1]
	w := field.NewElement(nonResidue)
	for i := 0; i < g.NumOps; i++ {
		m0 := vars.LocalWires[g.WireIthMultiplicand0(i):]
		m1 := vars.LocalWires[g.WireIthMultiplicand1(i):]
		addend := vars.LocalWires[g.WireIthAddend(i):]
		output := vars.LocalWires[g.WireIthOutput(i):]
		prod := [field.D]field.Packed{
			m0[0].Mul(m1[0]).Add(m0[1].Mul(m1[1]).ScalarMul(w)),
			m0[0].Mul(m1[1]).Add(m0[1].Mul(m1[0])),
		}
		for j := 0; j < field.D; j++ {
			computed := c0.Mul(prod[j]).Add(c1.Mul(addend[j]))
			yield.One(output[j].Sub(computed))
		}
	}
}

func (g *ArithmeticExtensionGate) EvalUnfilteredRecursively(b RecursiveBuilder, vars EvaluationTargets) []iop.ExtensionTarget {
	c0, c1 := vars.LocalConstants[0], vars.LocalConstants[1]
	w := field.NewElement(nonResidue)
	constraints := make([]iop.ExtensionTarget, 0, g.NumConstraints())
	for i := 0; i < g.NumOps; i++ {
		m0 := vars.LocalWires[g.WireIthMultiplicand0(i):]
		m1 := vars.LocalWires[g.WireIthMultiplicand1(i):]
		addend := vars.LocalWires[g.WireIthAddend(i):]
		output := vars.LocalWires[g.WireIthOutput(i):]
		prod := [field.D]iop.ExtensionTarget{
			b.ScalarMulAddExtension(w, b.MulExtension(m0[1], m1[1]), b.MulExtension(m0[0], m1[0])),
			b.MulAddExtension(m0[0], m1[1], b.MulExtension(m0[1], m1[0])),
		}
		for j := 0; j < field.D; j++ {
			computed := b.MulAddExtension(c0, prod[j], b.MulExtension(c1, addend[j]))
			constraints = append(constraints, b.SubExtension(output[j], computed))
		}
	}
	return constraints
}

func (g *ArithmeticExtensionGate) Generators(row int, localConstants []field.Element) []iop.WitnessGenerator {
	res := make([]iop.WitnessGenerator, g.NumOps)
	for i := range res {
		res[i] = iop.Adapt(&ArithmeticExtensionGenerator{
			Row:    row,
			Gate:   *g,
			Const0: localConstants[0],
			Const1: localConstants[1],
			Op:     i,
		})
	}
	return res
}

// ArithmeticExtensionGenerator computes the output of one operation.
type ArithmeticExtensionGenerator struct {
	Row    int
	Gate   ArithmeticExtensionGate
	Const0 field.Element
	Const1 field.Element
	Op     int
}

func (g *ArithmeticExtensionGenerator) operand(start int) iop.ExtensionTarget {
	return iop.ExtensionTargetFromRange(g.Row, start)
}

func (g *ArithmeticExtensionGenerator) Dependencies() []iop.Target {
	return iop.FlattenExtensionTargets([]iop.ExtensionTarget{
		g.operand(g.Gate.WireIthMultiplicand0(g.Op)),
		g.operand(g.Gate.WireIthMultiplicand1(g.Op)),
		g.operand(g.Gate.WireIthAddend(g.Op)),
	})
}

func (g *ArithmeticExtensionGenerator) RunOnce(w *iop.PartitionWitness, out *iop.GeneratedValues) error {
	m0 := w.GetExtensionTarget(g.operand(g.Gate.WireIthMultiplicand0(g.Op)))
	m1 := w.GetExtensionTarget(g.operand(g.Gate.WireIthMultiplicand1(g.Op)))
	addend := w.GetExtensionTarget(g.operand(g.Gate.WireIthAddend(g.Op)))

	var computed, scaledAddend field.Extension
	computed.Mul(&m0, &m1).MulByElement(&computed, &g.Const0)
	scaledAddend.MulByElement(&addend, &g.Const1)
	computed.Add(&computed, &scaledAddend)

	out.SetExtensionTarget(g.operand(g.Gate.WireIthOutput(g.Op)), computed)
	return nil
}
