package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/field/goldilocks"
)

// Field describes the arithmetic engine a circuit is defined over.
type Field interface {
	Field() *big.Int
	FieldBitLen() int
	ExtensionDegree() int
}

func GetFieldFromOrder(x *big.Int) Field {
	if x.Cmp(goldilocks.Modulus()) == 0 {
		return &Goldilocks{}
	}
	panic(fmt.Sprintf("unknown field %v", x))
}
