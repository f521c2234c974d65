package iop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionRepresentatives(t *testing.T) {
	f := NewForest(4, 8, 3)
	a := WireTarget(0, 1)
	b := WireTarget(5, 3)
	c := VirtualTarget(2)
	d := WireTarget(7, 0)
	f.Merge(a, b)
	f.Merge(c, b)
	f.Merge(c, a)
	p := f.Partition()

	require.Equal(t, 4*8+3, p.Len())
	require.Equal(t, p.Representative(a), p.Representative(b))
	require.Equal(t, p.Representative(a), p.Representative(c))
	require.NotEqual(t, p.Representative(a), p.Representative(d))
	require.Equal(t, p.Index(d), p.Representative(d))
	require.ElementsMatch(t, []Target{a, b, c}, p.Members(p.Representative(a)))
}

func TestPartitionIndexRoundTrip(t *testing.T) {
	p := NewForest(3, 4, 2).Partition()
	for i := 0; i < p.Len(); i++ {
		require.Equal(t, i, p.Index(p.TargetAt(i)))
	}
	require.Equal(t, VirtualTarget(1), p.TargetAt(13))
	require.Equal(t, WireTarget(2, 1), p.TargetAt(7))
}

func TestPartitionOutOfRange(t *testing.T) {
	p := NewForest(3, 4, 2).Partition()
	assert.Panics(t, func() { p.Index(WireTarget(4, 0)) })
	assert.Panics(t, func() { p.Index(WireTarget(0, 3)) })
	assert.Panics(t, func() { p.Index(VirtualTarget(2)) })
}

func TestVirtualOnlyPartition(t *testing.T) {
	f := NewForest(0, 0, 5)
	f.Merge(VirtualTarget(0), VirtualTarget(4))
	p := f.Partition()
	require.Equal(t, 5, p.Len())
	require.Equal(t, p.Representative(VirtualTarget(0)), p.Representative(VirtualTarget(4)))
	require.Equal(t, VirtualTarget(3), p.TargetAt(3))
}
