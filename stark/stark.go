// Package stark defines constraint systems over an execution trace. Like gates,
// each system is evaluated on packed base field lanes, on extension points and
// inside a circuit.
package stark

import (
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
)

// Stark is a set of transition and boundary constraints on a trace of
// Columns() columns. Constraints relate the local row to the next one.
type Stark interface {
	Columns() int
	PublicInputs() int

	EvalPackedBase(vars VarsPacked, yield *PackedConsumer)
	EvalExt(vars VarsExt, yield *ExtConsumer)
	EvalExtRecursively(b gates.RecursiveBuilder, vars VarsTargets, yield *RecursiveConsumer)

	// ConstraintDegree bounds the degree of every constraint, filters included.
	ConstraintDegree() int
}

// QuotientDegreeFactor is the number of quotient chunks per challenge.
func QuotientDegreeFactor(s Stark) int {
	return max(1, s.ConstraintDegree()-1)
}

type VarsPacked struct {
	LocalValues  []field.Packed
	NextValues   []field.Packed
	PublicInputs []field.Element
}

type VarsExt struct {
	LocalValues  []field.Extension
	NextValues   []field.Extension
	PublicInputs []field.Extension
}

type VarsTargets struct {
	LocalValues  []iop.ExtensionTarget
	NextValues   []iop.ExtensionTarget
	PublicInputs []iop.ExtensionTarget
}

// PackedConsumer collects constraint values, one lane per row.
// ZLast vanishes on the last row, LagrangeFirst and LagrangeLast select the
// first and last rows.
type PackedConsumer struct {
	ZLast         field.Packed
	LagrangeFirst field.Packed
	LagrangeLast  field.Packed
	Constraints   []field.Packed
}

func (c *PackedConsumer) Constraint(x field.Packed) {
	c.Constraints = append(c.Constraints, x)
}

// ConstraintTransition applies x to every row but the last.
func (c *PackedConsumer) ConstraintTransition(x field.Packed) {
	c.Constraint(x.Mul(c.ZLast))
}

func (c *PackedConsumer) ConstraintFirstRow(x field.Packed) {
	c.Constraint(x.Mul(c.LagrangeFirst))
}

func (c *PackedConsumer) ConstraintLastRow(x field.Packed) {
	c.Constraint(x.Mul(c.LagrangeLast))
}

type ExtConsumer struct {
	ZLast         field.Extension
	LagrangeFirst field.Extension
	LagrangeLast  field.Extension
	Constraints   []field.Extension
}

func (c *ExtConsumer) Constraint(x field.Extension) {
	c.Constraints = append(c.Constraints, x)
}

func (c *ExtConsumer) filtered(x, filter field.Extension) {
	var r field.Extension
	r.Mul(&x, &filter)
	c.Constraint(r)
}

func (c *ExtConsumer) ConstraintTransition(x field.Extension) {
	c.filtered(x, c.ZLast)
}

func (c *ExtConsumer) ConstraintFirstRow(x field.Extension) {
	c.filtered(x, c.LagrangeFirst)
}

func (c *ExtConsumer) ConstraintLastRow(x field.Extension) {
	c.filtered(x, c.LagrangeLast)
}

// RecursiveConsumer emits filtered constraints as circuit operations on B.
type RecursiveConsumer struct {
	B             gates.RecursiveBuilder
	ZLast         iop.ExtensionTarget
	LagrangeFirst iop.ExtensionTarget
	LagrangeLast  iop.ExtensionTarget
	Constraints   []iop.ExtensionTarget
}

func (c *RecursiveConsumer) Constraint(x iop.ExtensionTarget) {
	c.Constraints = append(c.Constraints, x)
}

func (c *RecursiveConsumer) ConstraintTransition(x iop.ExtensionTarget) {
	c.Constraint(c.B.MulExtension(x, c.ZLast))
}

func (c *RecursiveConsumer) ConstraintFirstRow(x iop.ExtensionTarget) {
	c.Constraint(c.B.MulExtension(x, c.LagrangeFirst))
}

func (c *RecursiveConsumer) ConstraintLastRow(x iop.ExtensionTarget) {
	c.Constraint(c.B.MulExtension(x, c.LagrangeLast))
}
