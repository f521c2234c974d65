package iop

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/gilescope/plonky2/field"
)

var ErrConflictingValues = errors.New("conflicting values for the same target")

// PartialWitness holds the externally supplied assignments, in insertion order.
type PartialWitness struct {
	values map[Target]field.Element
	order  []Target
}

func NewPartialWitness() *PartialWitness {
	return &PartialWitness{values: make(map[Target]field.Element)}
}

// SetTarget assigns v to t. Assigning a different value to the same target panics.
func (pw *PartialWitness) SetTarget(t Target, v field.Element) {
	if old, ok := pw.values[t]; ok {
		if !old.Equal(&v) {
			panic(fmt.Sprintf("%v set twice with different values: %s and %s", t, old.String(), v.String()))
		}
		return
	}
	pw.values[t] = v
	pw.order = append(pw.order, t)
}

func (pw *PartialWitness) SetTargets(ts []Target, vs []field.Element) {
	if len(ts) != len(vs) {
		panic("targets and values length mismatch")
	}
	for i := range ts {
		pw.SetTarget(ts[i], vs[i])
	}
}

func (pw *PartialWitness) SetWire(w Wire, v field.Element) {
	pw.SetTarget(WireTarget(w.Row, w.Column), v)
}

func (pw *PartialWitness) SetBoolTarget(b BoolTarget, v bool) {
	pw.SetTarget(b.Target, field.FromBool(v))
}

func (pw *PartialWitness) SetExtensionTarget(et ExtensionTarget, v field.Extension) {
	pw.SetTarget(et[0], v.A0)
	pw.SetTarget(et[1], v.A1)
}

func (pw *PartialWitness) TryGetTarget(t Target) (field.Element, bool) {
	v, ok := pw.values[t]
	return v, ok
}

func (pw *PartialWitness) Len() int {
	return len(pw.order)
}

// Targets returns the assigned targets in insertion order.
func (pw *PartialWitness) Targets() []Target {
	return pw.order
}

// PartitionWitness stores one value per equivalence class of a Partition.
// All reads and writes go through the representative of the target.
type PartitionWitness struct {
	partition *Partition
	values    []field.Element
	assigned  *bitset.BitSet
}

func NewPartitionWitness(p *Partition) *PartitionWitness {
	return &PartitionWitness{
		partition: p,
		values:    make([]field.Element, p.Len()),
		assigned:  bitset.New(uint(p.Len())),
	}
}

func (w *PartitionWitness) Partition() *Partition {
	return w.partition
}

// NumAssigned returns the number of populated equivalence classes.
func (w *PartitionWitness) NumAssigned() int {
	return int(w.assigned.Count())
}

func (w *PartitionWitness) TryGetTarget(t Target) (field.Element, bool) {
	rep := w.partition.Representative(t)
	if !w.assigned.Test(uint(rep)) {
		return field.Element{}, false
	}
	return w.values[rep], true
}

// GetTarget panics if t has not been assigned.
func (w *PartitionWitness) GetTarget(t Target) field.Element {
	v, ok := w.TryGetTarget(t)
	if !ok {
		panic(fmt.Sprintf("%v is not set", t))
	}
	return v
}

func (w *PartitionWitness) GetTargets(ts []Target) []field.Element {
	res := make([]field.Element, len(ts))
	for i, t := range ts {
		res[i] = w.GetTarget(t)
	}
	return res
}

func (w *PartitionWitness) ContainsAll(ts []Target) bool {
	for _, t := range ts {
		if !w.assigned.Test(uint(w.partition.Representative(t))) {
			return false
		}
	}
	return true
}

func (w *PartitionWitness) GetWire(wire Wire) field.Element {
	return w.GetTarget(WireTarget(wire.Row, wire.Column))
}

func (w *PartitionWitness) GetBoolTarget(b BoolTarget) bool {
	v := w.GetTarget(b.Target)
	if v.IsZero() {
		return false
	}
	if v.IsOne() {
		return true
	}
	panic(fmt.Sprintf("%v holds non-boolean value %s", b.Target, v.String()))
}

func (w *PartitionWitness) GetExtensionTarget(et ExtensionTarget) field.Extension {
	return field.Extension{A0: w.GetTarget(et[0]), A1: w.GetTarget(et[1])}
}

func (w *PartitionWitness) TryGetExtensionTarget(et ExtensionTarget) (field.Extension, bool) {
	a0, ok0 := w.TryGetTarget(et[0])
	a1, ok1 := w.TryGetTarget(et[1])
	return field.Extension{A0: a0, A1: a1}, ok0 && ok1
}

// SetTargetReturningRep writes v to the class of t and returns its representative.
// newly is false when the class already held v. A different value yields ErrConflictingValues.
func (w *PartitionWitness) SetTargetReturningRep(t Target, v field.Element) (rep int, newly bool, err error) {
	rep = w.partition.Representative(t)
	if w.assigned.Test(uint(rep)) {
		old := w.values[rep]
		if !old.Equal(&v) {
			return rep, false, fmt.Errorf("%w: %v (class of %v) holds %s, got %s",
				ErrConflictingValues, t, w.partition.TargetAt(rep), old.String(), v.String())
		}
		return rep, false, nil
	}
	w.values[rep] = v
	w.assigned.Set(uint(rep))
	return rep, true, nil
}

// MatrixWitness is the wire part of a witness laid out as columns of the trace.
type MatrixWitness struct {
	// Wires[column][row]
	Wires    [][]field.Element
	NumWires int
	Degree   int
}

func (m *MatrixWitness) Get(row, column int) field.Element {
	return m.Wires[column][row]
}

func (m *MatrixWitness) Row(r int) []field.Element {
	res := make([]field.Element, m.NumWires)
	for c := range res {
		res[c] = m.Wires[c][r]
	}
	return res
}

// FullWitness copies every wire value into a trace matrix. Unassigned cells are zero.
func (w *PartitionWitness) FullWitness() *MatrixWitness {
	p := w.partition
	m := &MatrixWitness{
		Wires:    make([][]field.Element, p.NumWires()),
		NumWires: p.NumWires(),
		Degree:   p.Degree(),
	}
	for c := range m.Wires {
		m.Wires[c] = make([]field.Element, p.Degree())
		for r := 0; r < p.Degree(); r++ {
			if v, ok := w.TryGetTarget(WireTarget(r, c)); ok {
				m.Wires[c][r] = v
			}
		}
	}
	return m
}
