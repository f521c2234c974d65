package stark

import (
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
)

// FibonacciStark proves that the last row of a two column trace holds the
// (NumRows-1)-th step of x_{i+2} = x_{i+1} + x_i. Public inputs are the two
// starting values and the final value.
type FibonacciStark struct {
	NumRows int
}

func (s *FibonacciStark) Columns() int {
	return 2
}

func (s *FibonacciStark) PublicInputs() int {
	return 3
}

func (s *FibonacciStark) ConstraintDegree() int {
	return 2
}

// GenerateTrace returns the rows of the trace and the final value.
func (s *FibonacciStark) GenerateTrace(x0, x1 field.Element) ([][]field.Element, field.Element) {
	rows := make([][]field.Element, s.NumRows)
	rows[0] = []field.Element{x0, x1}
	for i := 1; i < s.NumRows; i++ {
		prev := rows[i-1]
		var sum field.Element
		sum.Add(&prev[0], &prev[1])
		rows[i] = []field.Element{prev[1], sum}
	}
	return rows, rows[s.NumRows-1][1]
}

func (s *FibonacciStark) EvalPackedBase(vars VarsPacked, yield *PackedConsumer) {
	width := vars.LocalValues[0].Width()
	pis := make([]field.Packed, len(vars.PublicInputs))
	for i, pi := range vars.PublicInputs {
		pis[i] = field.PackedConst(width, pi)
	}
	local, next := vars.LocalValues, vars.NextValues

	yield.ConstraintFirstRow(local[0].Sub(pis[0]))
	yield.ConstraintFirstRow(local[1].Sub(pis[1]))
	yield.ConstraintLastRow(local[1].Sub(pis[2]))

	yield.ConstraintTransition(next[0].Sub(local[1]))
	yield.ConstraintTransition(next[1].Sub(local[0].Add(local[1])))
}

func (s *FibonacciStark) EvalExt(vars VarsExt, yield *ExtConsumer) {
	local, next, pis := vars.LocalValues, vars.NextValues, vars.PublicInputs
	sub := func(a, b field.Extension) field.Extension {
		var r field.Extension
		r.Sub(&a, &b)
		return r
	}
	var sum field.Extension
	sum.Add(&local[0], &local[1])

	yield.ConstraintFirstRow(sub(local[0], pis[0]))
	yield.ConstraintFirstRow(sub(local[1], pis[1]))
	yield.ConstraintLastRow(sub(local[1], pis[2]))

	yield.ConstraintTransition(sub(next[0], local[1]))
	yield.ConstraintTransition(sub(next[1], sum))
}

func (s *FibonacciStark) EvalExtRecursively(b gates.RecursiveBuilder, vars VarsTargets, yield *RecursiveConsumer) {
	local, next, pis := vars.LocalValues, vars.NextValues, vars.PublicInputs

	yield.ConstraintFirstRow(b.SubExtension(local[0], pis[0]))
	yield.ConstraintFirstRow(b.SubExtension(local[1], pis[1]))
	yield.ConstraintLastRow(b.SubExtension(local[1], pis[2]))

	yield.ConstraintTransition(b.SubExtension(next[0], local[1]))
	yield.ConstraintTransition(b.SubExtension(next[1], b.AddExtension(local[0], local[1])))
}
