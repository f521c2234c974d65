package plonky2

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gilescope/plonky2/builder"
	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
)

func TestCompile(t *testing.T) {
	var x, y, out iop.ExtensionTarget
	cr, err := Compile(config.StandardRecursionConfig(), func(b *builder.CircuitBuilder) error {
		x, y = b.AddVirtualExtensionTarget(), b.AddVirtualExtensionTarget()
		out = b.MulAddExtension(x, y, b.ConstantExtension(field.NewExtension(1, 2)))
		return nil
	})
	require.NoError(t, err)

	inputs := iop.NewPartialWitness()
	inputs.SetExtensionTarget(x, field.NewExtension(3, 0))
	inputs.SetExtensionTarget(y, field.NewExtension(0, 1))
	w, err := cr.SolveWitness(inputs)
	require.NoError(t, err)
	got := w.GetExtensionTarget(out)
	want := field.NewExtension(1, 5)
	require.True(t, got.Equal(&want))

	report, err := cr.CheckWitness(w)
	require.NoError(t, err)
	require.True(t, report.Satisfied())

	var buf bytes.Buffer
	cr.Print(&buf)
	require.Contains(t, buf.String(), "ArithmeticExtensionGate")
	require.Contains(t, buf.String(), "ConstantGate")
}

func TestCompileErrors(t *testing.T) {
	errDefine := errors.New("define failed")
	_, err := Compile(config.StandardRecursionConfig(), func(*builder.CircuitBuilder) error { return errDefine })
	require.ErrorIs(t, err, errDefine)

	_, err = Compile(config.CircuitConfig{}, func(*builder.CircuitBuilder) error { return nil })
	require.Error(t, err)

	_, err = Compile(config.StandardRecursionConfig(), func(b *builder.CircuitBuilder) error {
		b.RandomAccess(b.Zero(), b.AddVirtualTargets(3))
		return nil
	})
	require.ErrorIs(t, err, builder.ErrListNotPowerOfTwo)
}
