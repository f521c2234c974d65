// Package gatetest checks that a gate honours the gate contract.
package gatetest

import (
	"slices"
	"testing"

	"github.com/consensys/gnark-crypto/field/goldilocks/fft"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/utils"
)

// witnessSize is the number of points the random wire polynomials interpolate.
const witnessSize = 1 << 5

// TestLowDegree evaluates g on random polynomials of degree < witnessSize and
// checks that no constraint exceeds (witnessSize-1)*g.Degree().
func TestLowDegree(t *testing.T, g gates.Gate) {
	rateBits := utils.Log2Ceil(g.Degree() + 1)
	n := witnessSize << rateBits
	domain := fft.NewDomain(uint64(n))
	r := rand.New(rand.NewSource(uint64(n)))

	// evaluations of a random low degree polynomial, in bit-reversed order
	lde := func() []field.Element {
		values := make([]field.Element, n)
		copy(values, field.RandElements(r, witnessSize))
		domain.FFT(values, fft.DIF)
		return values
	}
	consts := make([]field.Element, 0, g.NumConstants()*n)
	for i := 0; i < g.NumConstants(); i++ {
		consts = append(consts, lde()...)
	}
	wires := make([]field.Element, 0, g.NumWires()*n)
	for i := 0; i < g.NumWires(); i++ {
		wires = append(wires, lde()...)
	}

	values := g.EvalUnfilteredBaseBatch(gates.NewEvaluationVarsBaseBatch(n, consts, wires))
	require.Len(t, values, g.NumConstraints()*n, "%s", g.ID())

	maxDegree := (witnessSize - 1) * g.Degree()
	for c := 0; c < g.NumConstraints(); c++ {
		coeffs := slices.Clone(values[c*n : (c+1)*n])
		domain.FFTInverse(coeffs, fft.DIT)
		require.LessOrEqual(t, polyDegree(coeffs), maxDegree, "constraint %d of %s", c, g.ID())
	}
}

func polyDegree(coeffs []field.Element) int {
	for i := len(coeffs) - 1; i >= 0; i-- {
		if !coeffs[i].IsZero() {
			return i
		}
	}
	return 0
}

// TestSymbolicDegree checks that the declared degree is exactly the maximum
// constraint degree.
func TestSymbolicDegree(t *testing.T, g gates.Gate) {
	degrees := SymbolicDegrees(g)
	require.Len(t, degrees, g.NumConstraints(), "%s", g.ID())
	require.Equal(t, g.Degree(), slices.Max(degrees), "%s", g.ID())
}
