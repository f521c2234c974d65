package iop

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilescope/plonky2/field"
)

func TestPartialWitness(t *testing.T) {
	pw := NewPartialWitness()
	pw.SetTarget(VirtualTarget(0), field.NewElement(3))
	pw.SetTarget(VirtualTarget(0), field.NewElement(3))
	pw.SetWire(Wire{Row: 1, Column: 2}, field.NewElement(4))
	require.Equal(t, 2, pw.Len())
	require.Equal(t, []Target{VirtualTarget(0), WireTarget(1, 2)}, pw.Targets())

	v, ok := pw.TryGetTarget(WireTarget(1, 2))
	require.True(t, ok)
	require.Equal(t, uint64(4), v.Uint64())

	assert.Panics(t, func() { pw.SetTarget(VirtualTarget(0), field.NewElement(5)) })
}

func TestPartitionWitnessThroughRepresentatives(t *testing.T) {
	f := NewForest(2, 2, 2)
	f.Merge(WireTarget(0, 0), VirtualTarget(1))
	w := NewPartitionWitness(f.Partition())

	_, ok := w.TryGetTarget(WireTarget(0, 0))
	require.False(t, ok)
	assert.Panics(t, func() { w.GetTarget(WireTarget(0, 0)) })

	rep, newly, err := w.SetTargetReturningRep(VirtualTarget(1), field.NewElement(9))
	require.NoError(t, err)
	require.True(t, newly)
	require.Equal(t, w.Partition().Representative(WireTarget(0, 0)), rep)
	require.Equal(t, uint64(9), u64(w.GetWire(Wire{Row: 0, Column: 0})))

	_, newly, err = w.SetTargetReturningRep(WireTarget(0, 0), field.NewElement(9))
	require.NoError(t, err)
	require.False(t, newly, "same value must not count as new")

	_, _, err = w.SetTargetReturningRep(WireTarget(0, 0), field.NewElement(10))
	require.True(t, errors.Is(err, ErrConflictingValues))
	require.Equal(t, uint64(9), u64(w.GetTarget(VirtualTarget(1))))
	require.Equal(t, 1, w.NumAssigned())
}

func TestPartitionWitnessExtensionAndBool(t *testing.T) {
	w := NewPartitionWitness(NewForest(0, 0, 3).Partition())
	et := ExtensionTarget{VirtualTarget(0), VirtualTarget(1)}
	_, ok := w.TryGetExtensionTarget(et)
	require.False(t, ok)

	_, _, err := w.SetTargetReturningRep(et[0], field.NewElement(5))
	require.NoError(t, err)
	_, _, err = w.SetTargetReturningRep(et[1], field.NewElement(6))
	require.NoError(t, err)
	got := w.GetExtensionTarget(et)
	want := field.NewExtension(5, 6)
	require.True(t, got.Equal(&want))

	b := NewBoolTargetUnsafe(VirtualTarget(2))
	_, _, err = w.SetTargetReturningRep(b.Target, field.NewElement(2))
	require.NoError(t, err)
	assert.Panics(t, func() { w.GetBoolTarget(b) })
}

func TestFullWitness(t *testing.T) {
	f := NewForest(3, 4, 0)
	f.Merge(WireTarget(0, 0), WireTarget(3, 2))
	w := NewPartitionWitness(f.Partition())
	_, _, err := w.SetTargetReturningRep(WireTarget(0, 0), field.NewElement(7))
	require.NoError(t, err)

	m := w.FullWitness()
	require.Equal(t, 3, m.NumWires)
	require.Equal(t, 4, m.Degree)
	require.Equal(t, uint64(7), u64(m.Get(0, 0)))
	require.Equal(t, uint64(7), u64(m.Get(3, 2)))
	require.Equal(t, uint64(0), u64(m.Get(1, 1)))
	require.Len(t, m.Row(3), 3)
}
