// Package expr implements sparse multivariate polynomials over the extension
// field. They are used to evaluate constraints symbolically and measure their degree.
package expr

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gilescope/plonky2/field"
)

// Expression is a sum of terms. Expressions built by this package are kept in
// canonical form: sorted by monomial, no duplicate monomials, no zero coefficients.
type Expression []Term

// NewConstantExpression returns c
func NewConstantExpression(c field.Extension) Expression {
	return Expression{NewTerm(nil, c)}.canonical()
}

// NewLinearExpression returns c * v
func NewLinearExpression(v int, c field.Extension) Expression {
	return Expression{NewTerm([]int{v}, c)}.canonical()
}

// NewQuadraticExpression returns c * v0 * v1
func NewQuadraticExpression(v0, v1 int, c field.Extension) Expression {
	return Expression{NewTerm([]int{v0, v1}, c)}.canonical()
}

// NewVariable returns v
func NewVariable(v int) Expression {
	return NewLinearExpression(v, field.ExtensionOne())
}

func (e Expression) Clone() Expression {
	res := make(Expression, len(e))
	for i, t := range e {
		res[i] = Term{Vars: slices.Clone(t.Vars), Coeff: t.Coeff}
	}
	return res
}

// Len return the length of the Variable (implements Sort interface)
func (e Expression) Len() int {
	return len(e)
}

// Swap swaps terms in the Variable (implements Sort interface)
func (e Expression) Swap(i, j int) {
	e[i], e[j] = e[j], e[i]
}

// Less orders terms by monomial (implements Sort interface)
func (e Expression) Less(i, j int) bool {
	return compareMonomials(e[i].Vars, e[j].Vars) < 0
}

// Equal returns true if both canonical expressions are the same
func (e Expression) Equal(o Expression) bool {
	if len(e) != len(o) {
		return false
	}
	for i := range e {
		if !slices.Equal(e[i].Vars, o[i].Vars) || !e[i].Coeff.Equal(&o[i].Coeff) {
			return false
		}
	}
	return true
}

// HashCode returns a fast-to-compute but NOT collision resistant hash code identifier for the expression
//
// requires canonical form
func (e Expression) HashCode() uint64 {
	h := uint64(17)
	for _, val := range e {
		h = h*23 + val.HashCode()
	}
	return h
}

// Degree returns the total degree of the polynomial. The zero polynomial has degree 0.
func (e Expression) Degree() int {
	res := 0
	for _, val := range e {
		res = max(res, val.Degree())
	}
	return res
}

func (e Expression) IsZero() bool {
	return len(e) == 0
}

func (e Expression) IsConstant() bool {
	return e.Degree() == 0
}

func (e Expression) canonical() Expression {
	slices.SortStableFunc(e, func(a, b Term) int { return compareMonomials(a.Vars, b.Vars) })
	res := e[:0]
	for _, t := range e {
		if n := len(res); n > 0 && slices.Equal(res[n-1].Vars, t.Vars) {
			res[n-1].Coeff.Add(&res[n-1].Coeff, &t.Coeff)
			continue
		}
		res = append(res, t)
	}
	out := res[:0]
	for _, t := range res {
		if !t.Coeff.IsZero() {
			out = append(out, t)
		}
	}
	return out
}

func (e Expression) Add(o Expression) Expression {
	res := make(Expression, 0, len(e)+len(o))
	res = append(res, e.Clone()...)
	res = append(res, o.Clone()...)
	return res.canonical()
}

func (e Expression) Neg() Expression {
	res := e.Clone()
	for i := range res {
		res[i].Coeff.Neg(&res[i].Coeff)
	}
	return res
}

func (e Expression) Sub(o Expression) Expression {
	return e.Add(o.Neg())
}

func (e Expression) Scale(c field.Extension) Expression {
	res := e.Clone()
	for i := range res {
		res[i].Coeff.Mul(&res[i].Coeff, &c)
	}
	return res.canonical()
}

func (e Expression) Mul(o Expression) Expression {
	res := make(Expression, 0, len(e)*len(o))
	for _, a := range e {
		for _, b := range o {
			var c field.Extension
			c.Mul(&a.Coeff, &b.Coeff)
			res = append(res, Term{Vars: mulMonomials(a.Vars, b.Vars), Coeff: c})
		}
	}
	return res.canonical()
}

// Evaluate substitutes values[v] for every variable v.
func (e Expression) Evaluate(values []field.Extension) field.Extension {
	var res field.Extension
	for _, t := range e {
		acc := t.Coeff
		for _, v := range t.Vars {
			acc.Mul(&acc, &values[v])
		}
		res.Add(&res, &acc)
	}
	return res
}

func (e Expression) String() string {
	if len(e) == 0 {
		return "0"
	}
	s := make([]string, len(e))
	for i, term := range e {
		parts := []string{term.Coeff.String()}
		for _, v := range term.Vars {
			parts = append(parts, "v"+strconv.Itoa(v))
		}
		s[i] = strings.Join(parts, "*")
	}
	return strings.Join(s, "+")
}
