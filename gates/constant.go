package gates

import (
	"fmt"

	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
)

// ConstantGate exposes the row constants on its wires.
type ConstantGate struct {
	NumConsts int
}

func NewConstantGate(numConsts int) *ConstantGate {
	if numConsts <= 0 {
		panic(fmt.Sprintf("invalid constant gate: %d constants", numConsts))
	}
	return &ConstantGate{NumConsts: numConsts}
}

func (g *ConstantGate) ID() string {
	return fmt.Sprintf("ConstantGate{consts: %d}", g.NumConsts)
}

func (g *ConstantGate) WireOutput(i int) int {
	return i
}

func (g *ConstantGate) NumWires() int {
	return g.NumConsts
}

func (g *ConstantGate) NumConstants() int {
	return g.NumConsts
}

func (g *ConstantGate) Degree() int {
	return 1
}

func (g *ConstantGate) NumConstraints() int {
	return g.NumConsts
}

func (g *ConstantGate) EvalUnfiltered(vars EvaluationVars) []field.Extension {
	res := make([]field.Extension, g.NumConsts)
	for i := range res {
		res[i] = extSub(vars.LocalConstants[i], vars.LocalWires[g.WireOutput(i)])
	}
	return res
}

func (g *ConstantGate) EvalUnfilteredBaseOne(vars EvaluationVarsBase, yield *StridedConstraintConsumer) error {
	return ErrUsePackedEvaluator
}

func (g *ConstantGate) EvalUnfilteredBaseBatch(vars EvaluationVarsBaseBatch) []field.Element {
	return EvalBaseBatchPacked(g, vars)
}

func (g *ConstantGate) EvalUnfilteredBasePacked(vars EvaluationVarsBasePacked, yield *StridedConstraintConsumer) {
	for i := 0; i < g.NumConsts; i++ {
		yield.One(vars.LocalConstants[i].Sub(vars.LocalWires[g.WireOutput(i)]))
	}
}

func (g *ConstantGate) EvalUnfilteredRecursively(b RecursiveBuilder, vars EvaluationTargets) []iop.ExtensionTarget {
	res := make([]iop.ExtensionTarget, g.NumConsts)
	for i := range res {
		res[i] = b.SubExtension(vars.LocalConstants[i], vars.LocalWires[g.WireOutput(i)])
	}
	return res
}

func (g *ConstantGate) Generators(row int, localConstants []field.Element) []iop.WitnessGenerator {
	res := make([]iop.WitnessGenerator, g.NumConsts)
	for i := range res {
		res[i] = iop.Adapt(&iop.ConstantGenerator{
			Target: iop.WireTarget(row, g.WireOutput(i)),
			Value:  localConstants[i],
		})
	}
	return res
}
