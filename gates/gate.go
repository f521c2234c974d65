// Package gates defines the gate contract and the gates used by the circuit builder.
//
// A gate is evaluated in several representations which must agree on
// equivalent inputs: over the extension field for a single point, over packed
// base-field batches, and symbolically inside a circuit.
package gates

import (
	"errors"
	"fmt"

	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
)

var (
	ErrUsePackedEvaluator      = errors.New("per-row base evaluation is not supported, use the packed batch evaluator")
	ErrConstraintCountMismatch = errors.New("constraint count mismatch")
	ErrAccessIndexOutOfRange   = errors.New("access index out of range")
)

type Gate interface {
	// ID identifies the gate kind and its parameters.
	ID() string

	// EvalUnfiltered evaluates the constraints at a single point of the extension field.
	EvalUnfiltered(vars EvaluationVars) []field.Extension

	// EvalUnfilteredBaseOne is the per-row base field path. Gates route base
	// evaluation through packed batches and return ErrUsePackedEvaluator here.
	EvalUnfilteredBaseOne(vars EvaluationVarsBase, yield *StridedConstraintConsumer) error

	// EvalUnfilteredBaseBatch evaluates every row of the batch. The result is
	// constraint-major: constraint c of row r is at c*BatchSize+r.
	EvalUnfilteredBaseBatch(vars EvaluationVarsBaseBatch) []field.Element

	// EvalUnfilteredRecursively emits the constraints as circuit operations.
	EvalUnfilteredRecursively(b RecursiveBuilder, vars EvaluationTargets) []iop.ExtensionTarget

	// Generators returns the witness generators of an instance placed at row.
	Generators(row int, localConstants []field.Element) []iop.WitnessGenerator

	NumWires() int
	NumConstants() int
	// Degree bounds the total degree of every constraint.
	Degree() int
	NumConstraints() int
}

// PackedEvaluableBase is implemented by gates evaluating several rows at once.
type PackedEvaluableBase interface {
	EvalUnfilteredBasePacked(vars EvaluationVarsBasePacked, yield *StridedConstraintConsumer)
	NumConstraints() int
}

// EvalBaseBatchPacked evaluates a batch in chunks of field.PackedWidth rows.
// It panics when the gate yields fewer or more constraints than it declares.
func EvalBaseBatchPacked(g PackedEvaluableBase, vars EvaluationVarsBaseBatch) []field.Element {
	res := make([]field.Element, g.NumConstraints()*vars.BatchSize)
	for start := 0; start < vars.BatchSize; start += field.PackedWidth {
		width := min(field.PackedWidth, vars.BatchSize-start)
		yield := NewStridedConstraintConsumer(res, vars.BatchSize, start, width)
		g.EvalUnfilteredBasePacked(vars.Pack(start, width), yield)
		if err := CheckConstraintCount(g, yield.Count()); err != nil {
			panic(err)
		}
	}
	return res
}

func CheckConstraintCount(g interface{ NumConstraints() int }, produced int) error {
	if produced != g.NumConstraints() {
		return fmt.Errorf("%w: %T declares %d, produced %d", ErrConstraintCountMismatch, g, g.NumConstraints(), produced)
	}
	return nil
}
