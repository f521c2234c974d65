package gates

import (
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
)

// RecursiveBuilder receives the operations of in-circuit constraint evaluation.
// Values are extension targets, whose meaning is up to the implementation.
type RecursiveBuilder interface {
	ZeroExtension() iop.ExtensionTarget
	OneExtension() iop.ExtensionTarget
	TwoExtension() iop.ExtensionTarget
	ConstantExtension(c field.Extension) iop.ExtensionTarget

	AddExtension(a, b iop.ExtensionTarget) iop.ExtensionTarget
	SubExtension(a, b iop.ExtensionTarget) iop.ExtensionTarget
	MulExtension(a, b iop.ExtensionTarget) iop.ExtensionTarget
	// MulAddExtension returns a*b+c.
	MulAddExtension(a, b, c iop.ExtensionTarget) iop.ExtensionTarget
	// MulSubExtension returns a*b-c.
	MulSubExtension(a, b, c iop.ExtensionTarget) iop.ExtensionTarget
	// ScalarMulAddExtension returns k*a+b.
	ScalarMulAddExtension(k field.Element, a, b iop.ExtensionTarget) iop.ExtensionTarget
	// SelectExtGeneralized returns b*x+(1-b)*y. b is not required to be boolean.
	SelectExtGeneralized(b, x, y iop.ExtensionTarget) iop.ExtensionTarget
}
