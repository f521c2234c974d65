package field

import (
	"github.com/consensys/gnark-crypto/field/goldilocks"
)

// PackedWidth is the number of rows evaluated together by packed evaluators.
const PackedWidth = 8

// Packed holds one base element per lane. Operands of a binary operation must
// have the same number of lanes.
type Packed []Element

func PackedConst(width int, c Element) Packed {
	res := make(Packed, width)
	for i := range res {
		res[i] = c
	}
	return res
}

func PackedZero(width int) Packed {
	return make(Packed, width)
}

func PackedOne(width int) Packed {
	return PackedConst(width, goldilocks.One())
}

func (a Packed) Width() int {
	return len(a)
}

func (a Packed) Add(b Packed) Packed {
	res := make(goldilocks.Vector, len(a))
	res.Add(goldilocks.Vector(a), goldilocks.Vector(b))
	return Packed(res)
}

func (a Packed) Sub(b Packed) Packed {
	res := make(goldilocks.Vector, len(a))
	res.Sub(goldilocks.Vector(a), goldilocks.Vector(b))
	return Packed(res)
}

func (a Packed) Mul(b Packed) Packed {
	res := make(goldilocks.Vector, len(a))
	res.Mul(goldilocks.Vector(a), goldilocks.Vector(b))
	return Packed(res)
}

func (a Packed) Double() Packed {
	return a.Add(a)
}

func (a Packed) Neg() Packed {
	return PackedZero(len(a)).Sub(a)
}

func (a Packed) ScalarMul(k Element) Packed {
	res := make(goldilocks.Vector, len(a))
	res.ScalarMul(goldilocks.Vector(a), &k)
	return Packed(res)
}

func (a Packed) IsZero() bool {
	for i := range a {
		if !a[i].IsZero() {
			return false
		}
	}
	return true
}
