package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gilescope/plonky2"
	"github.com/gilescope/plonky2/iop"
)

type Assert struct {
	t *testing.T
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// WitnessSatisfies generates the witness of inputs and checks every constraint on it.
func (a *Assert) WitnessSatisfies(cr *plonky2.CompileResult, inputs *iop.PartialWitness, opts ...iop.GenerateOption) *iop.PartitionWitness {
	a.t.Helper()
	w, err := cr.SolveWitness(inputs, opts...)
	require.NoError(a.t, err, "witness generation should succeed")
	report, err := cr.CheckWitness(w)
	require.NoError(a.t, err)
	require.True(a.t, report.Satisfied(), "constraints should vanish, got %v", report.Violations)
	return w
}

// WitnessFails generates the witness of inputs and expects some constraint not to vanish.
func (a *Assert) WitnessFails(cr *plonky2.CompileResult, inputs *iop.PartialWitness) {
	a.t.Helper()
	w, err := cr.SolveWitness(inputs)
	require.NoError(a.t, err, "witness generation should succeed")
	report, err := cr.CheckWitness(w)
	require.NoError(a.t, err)
	require.False(a.t, report.Satisfied(), "should fail")
}

// GenerationFails expects witness generation to stop with target.
func (a *Assert) GenerationFails(cr *plonky2.CompileResult, inputs *iop.PartialWitness, target error) {
	a.t.Helper()
	_, err := cr.SolveWitness(inputs)
	require.ErrorIs(a.t, err, target)
}
