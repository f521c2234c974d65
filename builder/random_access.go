package builder

import (
	"fmt"

	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
	"github.com/gilescope/plonky2/utils"
)

func (b *CircuitBuilder) randomAccessGate(nbBits int) *gates.RandomAccessGate {
	if g, ok := b.randomAccessGates[nbBits]; ok {
		return g
	}
	vecSize := 1 << nbBits
	copies := min(b.config.NumRoutedWires/(2+vecSize), b.config.NumWires/(2+vecSize+nbBits))
	if copies == 0 {
		b.errs = append(b.errs, fmt.Errorf("%w: random access over %d items", ErrGateTooWide, vecSize))
		b.randomAccessGates[nbBits] = nil
		return nil
	}
	g := gates.NewRandomAccessGateFromConfig(b.config, nbBits)
	b.randomAccessGates[nbBits] = g
	return g
}

// RandomAccess returns list[index]. len(list) must be a power of two and index
// must be smaller than len(list) at witness generation time.
func (b *CircuitBuilder) RandomAccess(index iop.Target, list []iop.Target) iop.Target {
	n := len(list)
	if !utils.IsPowerOfTwo(n) {
		b.errs = append(b.errs, fmt.Errorf("%w: got %d", ErrListNotPowerOfTwo, n))
		return b.AddVirtualTarget()
	}
	nbBits := utils.Log2Ceil(n)
	g := b.randomAccessGate(nbBits)
	if g == nil {
		return b.AddVirtualTarget()
	}
	slot := b.randomAccessSlots[nbBits]
	if slot == nil || slot.next == g.NumCopies {
		slot = &openSlot{row: b.AddGate(g, nil)}
		b.randomAccessSlots[nbBits] = slot
	}
	cp := slot.next
	slot.next++
	b.Connect(index, iop.WireTarget(slot.row, g.WireAccessIndex(cp)))
	for i, t := range list {
		b.Connect(t, iop.WireTarget(slot.row, g.WireListItem(i, cp)))
	}
	return iop.WireTarget(slot.row, g.WireClaimedElement(cp))
}

// RandomAccessExtension looks up an extension element limb by limb.
func (b *CircuitBuilder) RandomAccessExtension(index iop.Target, list []iop.ExtensionTarget) iop.ExtensionTarget {
	var res iop.ExtensionTarget
	for limb := range res {
		column := make([]iop.Target, len(list))
		for i, et := range list {
			column[i] = et[limb]
		}
		res[limb] = b.RandomAccess(index, column)
	}
	return res
}
