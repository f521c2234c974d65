package gatetest

import (
	"github.com/gilescope/plonky2/expr"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
)

// SymbolicBuilder evaluates in-circuit constraints as polynomials. Extension
// targets it hands out are handles into its expression table.
type SymbolicBuilder struct {
	exprs    []expr.Expression
	interned expr.Map
}

var _ gates.RecursiveBuilder = (*SymbolicBuilder)(nil)

func NewSymbolicBuilder() *SymbolicBuilder {
	return &SymbolicBuilder{interned: make(expr.Map)}
}

func (s *SymbolicBuilder) handle(e expr.Expression) iop.ExtensionTarget {
	id := s.interned.Add(e, len(s.exprs))
	if id == len(s.exprs) {
		s.exprs = append(s.exprs, e)
	}
	return iop.ExtensionTarget{iop.VirtualTarget(id), iop.VirtualTarget(id)}
}

// Variable returns the handle of the i-th free variable.
func (s *SymbolicBuilder) Variable(i int) iop.ExtensionTarget {
	return s.handle(expr.NewVariable(i))
}

func (s *SymbolicBuilder) Expr(et iop.ExtensionTarget) expr.Expression {
	return s.exprs[et[0].Index]
}

func (s *SymbolicBuilder) ZeroExtension() iop.ExtensionTarget {
	return s.ConstantExtension(field.ExtensionZero())
}

func (s *SymbolicBuilder) OneExtension() iop.ExtensionTarget {
	return s.ConstantExtension(field.ExtensionOne())
}

func (s *SymbolicBuilder) TwoExtension() iop.ExtensionTarget {
	return s.ConstantExtension(field.Embed(field.NewElement(2)))
}

func (s *SymbolicBuilder) ConstantExtension(c field.Extension) iop.ExtensionTarget {
	return s.handle(expr.NewConstantExpression(c))
}

func (s *SymbolicBuilder) AddExtension(a, b iop.ExtensionTarget) iop.ExtensionTarget {
	return s.handle(s.Expr(a).Add(s.Expr(b)))
}

func (s *SymbolicBuilder) SubExtension(a, b iop.ExtensionTarget) iop.ExtensionTarget {
	return s.handle(s.Expr(a).Sub(s.Expr(b)))
}

func (s *SymbolicBuilder) MulExtension(a, b iop.ExtensionTarget) iop.ExtensionTarget {
	return s.handle(s.Expr(a).Mul(s.Expr(b)))
}

func (s *SymbolicBuilder) MulAddExtension(a, b, c iop.ExtensionTarget) iop.ExtensionTarget {
	return s.handle(s.Expr(a).Mul(s.Expr(b)).Add(s.Expr(c)))
}

func (s *SymbolicBuilder) MulSubExtension(a, b, c iop.ExtensionTarget) iop.ExtensionTarget {
	return s.handle(s.Expr(a).Mul(s.Expr(b)).Sub(s.Expr(c)))
}

func (s *SymbolicBuilder) ScalarMulAddExtension(k field.Element, a, b iop.ExtensionTarget) iop.ExtensionTarget {
	return s.handle(s.Expr(a).Scale(field.Embed(k)).Add(s.Expr(b)))
}

func (s *SymbolicBuilder) SelectExtGeneralized(b, x, y iop.ExtensionTarget) iop.ExtensionTarget {
	return s.handle(s.Expr(b).Mul(s.Expr(x).Sub(s.Expr(y))).Add(s.Expr(y)))
}

// SymbolicConstraints evaluates the in-circuit constraints of g over free
// variables: constants are variables [0, NumConstants), wires follow.
func SymbolicConstraints(g gates.Gate) []expr.Expression {
	s := NewSymbolicBuilder()
	vars := gates.EvaluationTargets{
		LocalConstants: make([]iop.ExtensionTarget, g.NumConstants()),
		LocalWires:     make([]iop.ExtensionTarget, g.NumWires()),
	}
	for i := range vars.LocalConstants {
		vars.LocalConstants[i] = s.Variable(i)
	}
	for i := range vars.LocalWires {
		vars.LocalWires[i] = s.Variable(g.NumConstants() + i)
	}
	constraints := g.EvalUnfilteredRecursively(s, vars)
	res := make([]expr.Expression, len(constraints))
	for i, c := range constraints {
		res[i] = s.Expr(c)
	}
	return res
}

// SymbolicDegrees returns the total degree of each constraint of g.
func SymbolicDegrees(g gates.Gate) []int {
	constraints := SymbolicConstraints(g)
	res := make([]int, len(constraints))
	for i, c := range constraints {
		res[i] = c.Degree()
	}
	return res
}
