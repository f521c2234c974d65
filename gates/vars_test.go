package gates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilescope/plonky2/field"
)

func elements(vs ...uint64) []field.Element {
	res := make([]field.Element, len(vs))
	for i, v := range vs {
		res[i] = field.NewElement(v)
	}
	return res
}

func TestBatchLayout(t *testing.T) {
	rows := []EvaluationVarsBase{
		{LocalConstants: elements(1), LocalWires: elements(10, 11)},
		{LocalConstants: elements(2), LocalWires: elements(20, 21)},
		{LocalConstants: elements(3), LocalWires: elements(30, 31)},
	}
	batch := BatchFromRows(rows)
	require.Equal(t, 3, batch.BatchSize)
	require.Equal(t, 2, batch.NumWires())
	require.Equal(t, 1, batch.NumConstants())
	require.Equal(t, elements(10, 20, 30, 11, 21, 31), batch.LocalWires)
	require.Equal(t, rows[1], batch.View(1))

	packed := batch.Pack(1, 2)
	require.Equal(t, 2, packed.Width())
	require.Equal(t, field.Packed(elements(21, 31)), packed.LocalWires[1])
	require.Equal(t, field.Packed(elements(2, 3)), packed.LocalConstants[0])

	assert.Panics(t, func() { NewEvaluationVarsBaseBatch(2, nil, elements(1, 2, 3)) })
}

func TestStridedConstraintConsumer(t *testing.T) {
	buf := make([]field.Element, 2*5)
	c := NewStridedConstraintConsumer(buf, 5, 3, 2)
	c.One(field.Packed(elements(1, 2)))
	c.Many([]field.Packed{field.Packed(elements(3, 4))})
	require.Equal(t, 2, c.Count())
	require.Equal(t, elements(0, 0, 0, 1, 2, 0, 0, 0, 3, 4), buf)

	assert.Panics(t, func() { c.One(field.Packed(elements(5, 6))) })
	assert.Panics(t, func() { NewStridedConstraintConsumer(buf, 5, 0, 2).One(field.Packed(elements(1))) })
}
