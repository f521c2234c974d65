package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/gnark-crypto/field/goldilocks/extensions"
	"golang.org/x/exp/rand"
)

// D is the degree of the extension field used for constraint evaluation.
const D = 2

// Element is a base field element, p = 2^64 - 2^32 + 1.
type Element = goldilocks.Element

// Extension is an element of F[u]/(u^2 - 7).
type Extension = extensions.E2

var ScalarField = goldilocks.Modulus()

type Goldilocks struct{}

func (engine *Goldilocks) Field() *big.Int {
	return ScalarField
}

func (engine *Goldilocks) FieldBitLen() int {
	return goldilocks.Bits
}

func (engine *Goldilocks) ExtensionDegree() int {
	return D
}

func NewElement(v uint64) Element {
	return goldilocks.NewElement(v)
}

func Zero() Element {
	return Element{}
}

func One() Element {
	return goldilocks.One()
}

func FromBool(b bool) Element {
	if b {
		return goldilocks.One()
	}
	return Element{}
}

// Bits returns the n low-order bits of the canonical representative of x, little-endian.
func Bits(x Element, n int) []bool {
	v := x.Uint64()
	res := make([]bool, n)
	for i := 0; i < n && i < 64; i++ {
		res[i] = (v>>i)&1 == 1
	}
	return res
}

// Embed lifts a base element into the extension.
func Embed(x Element) Extension {
	return Extension{A0: x}
}

func EmbedAll(xs []Element) []Extension {
	res := make([]Extension, len(xs))
	for i := range xs {
		res[i] = Embed(xs[i])
	}
	return res
}

func NewExtension(a0, a1 uint64) Extension {
	return Extension{A0: goldilocks.NewElement(a0), A1: goldilocks.NewElement(a1)}
}

func ExtensionZero() Extension {
	return Extension{}
}

func ExtensionOne() Extension {
	var one Extension
	one.SetOne()
	return one
}

// IsBase reports whether x lies in the base field.
func IsBase(x *Extension) bool {
	return x.A1.IsZero()
}

func RandElement(r *rand.Rand) Element {
	var e Element
	e.SetUint64(r.Uint64())
	return e
}

func RandElements(r *rand.Rand, n int) []Element {
	res := make([]Element, n)
	for i := range res {
		res[i] = RandElement(r)
	}
	return res
}

func RandExtension(r *rand.Rand) Extension {
	return Extension{A0: RandElement(r), A1: RandElement(r)}
}

func RandExtensions(r *rand.Rand, n int) []Extension {
	res := make([]Extension, n)
	for i := range res {
		res[i] = RandExtension(r)
	}
	return res
}
