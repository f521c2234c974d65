package expr

import (
	"slices"

	"github.com/gilescope/plonky2/field"
)

// Term is coeff times the product of Vars. Vars is sorted and may repeat.
type Term struct {
	Vars  []int
	Coeff field.Extension
}

func NewTerm(vars []int, coeff field.Extension) Term {
	vs := slices.Clone(vars)
	slices.Sort(vs)
	return Term{Vars: vs, Coeff: coeff}
}

func (t Term) HashCode() uint64 {
	x := t.Coeff.A0.Bits()[0] ^ (t.Coeff.A1.Bits()[0] * 31)
	for i, v := range t.Vars {
		x ^= uint64(v+1) * 998244353 * uint64(i+1)
	}
	return x
}

func (t Term) Degree() int {
	return len(t.Vars)
}

// compareMonomials orders by degree, then lexicographically.
func compareMonomials(a, b []int) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return slices.Compare(a, b)
}

func mulMonomials(a, b []int) []int {
	res := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			res = append(res, a[i])
			i++
		} else {
			res = append(res, b[j])
			j++
		}
	}
	res = append(res, a[i:]...)
	return append(res, b[j:]...)
}
