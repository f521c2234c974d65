package builder

import (
	"fmt"

	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
)

// Constant returns a target fixed to c. Equal constants share a target.
func (b *CircuitBuilder) Constant(c field.Element) iop.Target {
	if t, ok := b.constantCache[c]; ok {
		return t
	}
	if b.constantGate == nil {
		if b.config.NumConstants == 0 {
			b.errs = append(b.errs, ErrTooManyConstants)
			t := b.AddVirtualTarget()
			b.constantCache[c] = t
			return t
		}
		b.constantGate = gates.NewConstantGate(b.config.NumConstants)
	}
	slot := b.constantSlot
	if slot == nil || slot.next == b.constantGate.NumConsts {
		slot = &openSlot{row: b.AddGate(b.constantGate, nil)}
		b.constantSlot = slot
	}
	i := slot.next
	slot.next++
	b.gateInstances[slot.row].Constants[i] = c
	t := iop.WireTarget(slot.row, b.constantGate.WireOutput(i))
	b.constantCache[c] = t
	return t
}

func (b *CircuitBuilder) Zero() iop.Target {
	return b.Constant(field.Zero())
}

func (b *CircuitBuilder) One() iop.Target {
	return b.Constant(field.One())
}

func (b *CircuitBuilder) ConstantExtension(c field.Extension) iop.ExtensionTarget {
	return iop.ExtensionTarget{b.Constant(c.A0), b.Constant(c.A1)}
}

func (b *CircuitBuilder) ZeroExtension() iop.ExtensionTarget {
	return b.ConstantExtension(field.ExtensionZero())
}

func (b *CircuitBuilder) OneExtension() iop.ExtensionTarget {
	return b.ConstantExtension(field.ExtensionOne())
}

func (b *CircuitBuilder) TwoExtension() iop.ExtensionTarget {
	return b.ConstantExtension(field.Embed(field.NewElement(2)))
}

// ConvertToExt embeds a base target into the extension.
func (b *CircuitBuilder) ConvertToExt(t iop.Target) iop.ExtensionTarget {
	return iop.ExtensionTarget{t, b.Zero()}
}

// ArithmeticExtension returns c0*m0*m1 + c1*addend.
func (b *CircuitBuilder) ArithmeticExtension(c0, c1 field.Element, m0, m1, addend iop.ExtensionTarget) iop.ExtensionTarget {
	if b.arithmeticGate == nil {
		if b.config.NumRoutedWires < 4*field.D {
			if !b.arithmeticTooWide {
				b.arithmeticTooWide = true
				b.errs = append(b.errs, fmt.Errorf("%w: arithmetic operation needs %d routed wires, %d configured",
					ErrGateTooWide, 4*field.D, b.config.NumRoutedWires))
			}
			return b.AddVirtualExtensionTarget()
		}
		b.arithmeticGate = gates.NewArithmeticExtensionGateFromConfig(b.config)
	}
	g := b.arithmeticGate
	key := arithmeticKey{c0, c1}
	slot, ok := b.arithmeticSlots[key]
	if !ok {
		b.arithmeticOrder = append(b.arithmeticOrder, key)
	}
	if slot == nil || slot.next == g.NumOps {
		slot = &openSlot{row: b.AddGate(g, []field.Element{c0, c1})}
		b.arithmeticSlots[key] = slot
	}
	op := slot.next
	slot.next++
	b.connectArithmeticOperands(slot.row, op, m0, m1, addend)
	return iop.ExtensionTargetFromRange(slot.row, g.WireIthOutput(op))
}

func (b *CircuitBuilder) connectArithmeticOperands(row, op int, m0, m1, addend iop.ExtensionTarget) {
	g := b.arithmeticGate
	b.ConnectExtension(m0, iop.ExtensionTargetFromRange(row, g.WireIthMultiplicand0(op)))
	b.ConnectExtension(m1, iop.ExtensionTargetFromRange(row, g.WireIthMultiplicand1(op)))
	b.ConnectExtension(addend, iop.ExtensionTargetFromRange(row, g.WireIthAddend(op)))
}

func minusOne() field.Element {
	var e field.Element
	return *e.SetInt64(-1)
}

func (b *CircuitBuilder) AddExtension(x, y iop.ExtensionTarget) iop.ExtensionTarget {
	return b.ArithmeticExtension(field.One(), field.One(), x, b.OneExtension(), y)
}

func (b *CircuitBuilder) SubExtension(x, y iop.ExtensionTarget) iop.ExtensionTarget {
	return b.ArithmeticExtension(field.One(), minusOne(), x, b.OneExtension(), y)
}

func (b *CircuitBuilder) MulExtension(x, y iop.ExtensionTarget) iop.ExtensionTarget {
	return b.ArithmeticExtension(field.One(), field.Zero(), x, y, b.ZeroExtension())
}

func (b *CircuitBuilder) MulAddExtension(x, y, z iop.ExtensionTarget) iop.ExtensionTarget {
	return b.ArithmeticExtension(field.One(), field.One(), x, y, z)
}

func (b *CircuitBuilder) MulSubExtension(x, y, z iop.ExtensionTarget) iop.ExtensionTarget {
	return b.ArithmeticExtension(field.One(), minusOne(), x, y, z)
}

func (b *CircuitBuilder) ScalarMulAddExtension(k field.Element, x, y iop.ExtensionTarget) iop.ExtensionTarget {
	return b.ArithmeticExtension(k, field.One(), x, b.OneExtension(), y)
}

func (b *CircuitBuilder) SelectExtGeneralized(bit, x, y iop.ExtensionTarget) iop.ExtensionTarget {
	return b.MulAddExtension(bit, b.SubExtension(x, y), y)
}

// AssertZeroExtension constrains x to be zero.
func (b *CircuitBuilder) AssertZeroExtension(x iop.ExtensionTarget) {
	b.ConnectExtension(x, b.ZeroExtension())
}
