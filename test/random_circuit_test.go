package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gilescope/plonky2"
	"github.com/gilescope/plonky2/builder"
	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
)

func testRandomCircuit(t *testing.T, conf *randomCircuitConfig, seedL, seedR uint64) {
	a := NewAssert(t)
	for seed := seedL; seed <= seedR; seed++ {
		conf.seed = seed
		rc := newRandomCircuit(conf)
		cr, err := plonky2.Compile(config.StandardRecursionConfig(), rc.define)
		require.NoError(t, err)

		w := a.WitnessSatisfies(cr, rc.inputs)
		for _, e := range rc.expected {
			got := w.GetTarget(e.target)
			require.True(t, got.Equal(&e.value), "seed %d: %v", seed, e.target)
		}

		parallel := a.WitnessSatisfies(cr, rc.inputs, iop.WithParallelism(4))
		for _, e := range rc.expected {
			got := parallel.GetTarget(e.target)
			require.True(t, got.Equal(&e.value), "seed %d (parallel): %v", seed, e.target)
		}

		if len(rc.expected) > 0 {
			e := rc.expected[0]
			wrong := e.value
			wrong.Add(&wrong, &e.value).Add(&wrong, &e.value)
			if wrong.Equal(&e.value) {
				continue
			}
			bad := iop.NewPartialWitness()
			for _, tg := range rc.inputs.Targets() {
				v, _ := rc.inputs.TryGetTarget(tg)
				bad.SetTarget(tg, v)
			}
			bad.SetTarget(e.target, wrong)
			a.GenerationFails(cr, bad, iop.ErrConflictingValues)
		}
	}
}

func TestRandomCircuitLookups(t *testing.T) {
	testRandomCircuit(t, &randomCircuitConfig{
		nbLookups:  randRange{5, 40},
		lookupBits: randRange{0, 4},
		nbArith:    randRange{0, 5},
		nbCopies:   randRange{0, 10},
		extPercent: 30,
		mulPercent: 40,
		addPercent: 60,
		subPercent: 80,
	}, 1, 20)
}

func TestRandomCircuitArithmetic(t *testing.T) {
	testRandomCircuit(t, &randomCircuitConfig{
		nbLookups:  randRange{0, 2},
		lookupBits: randRange{1, 3},
		nbArith:    randRange{50, 200},
		nbCopies:   randRange{0, 2},
		extPercent: 50,
		mulPercent: 25,
		addPercent: 50,
		subPercent: 75,
	}, 21, 30)
}

func TestRandomCircuitWideLookups(t *testing.T) {
	testRandomCircuit(t, &randomCircuitConfig{
		nbLookups:  randRange{1, 3},
		lookupBits: randRange{5, 6},
		nbArith:    randRange{0, 0},
		nbCopies:   randRange{20, 20},
		extPercent: 0,
	}, 31, 35)
}

func TestRandomCircuitIndexOutOfRange(t *testing.T) {
	rc := newRandomCircuit(&randomCircuitConfig{
		seed:       7,
		nbLookups:  randRange{3, 3},
		lookupBits: randRange{2, 2},
	})
	cr, err := plonky2.Compile(config.StandardRecursionConfig(), rc.define)
	require.NoError(t, err)
	require.NotEmpty(t, rc.indices)

	bad := iop.NewPartialWitness()
	for _, tg := range rc.inputs.Targets() {
		if tg == rc.indices[0] {
			continue
		}
		v, _ := rc.inputs.TryGetTarget(tg)
		bad.SetTarget(tg, v)
	}
	bad.SetTarget(rc.indices[0], field.NewElement(4))
	NewAssert(t).GenerationFails(cr, bad, gates.ErrAccessIndexOutOfRange)
}

// unsoundGate computes its outputs as the addends, which its constraints reject.
type unsoundGate struct {
	*gates.ArithmeticExtensionGate
}

func (g unsoundGate) Generators(row int, localConstants []field.Element) []iop.WitnessGenerator {
	var res []iop.WitnessGenerator
	for op := 0; op < g.NumOps; op++ {
		for limb := 0; limb < field.D; limb++ {
			res = append(res, iop.Adapt(&iop.CopyGenerator{
				Src: iop.WireTarget(row, g.WireIthAddend(op)+limb),
				Dst: iop.WireTarget(row, g.WireIthOutput(op)+limb),
			}))
		}
	}
	return res
}

func TestUnsoundGeneratorIsCaught(t *testing.T) {
	var row int
	cr, err := plonky2.Compile(config.StandardRecursionConfig(), func(b *builder.CircuitBuilder) error {
		row = b.AddGate(unsoundGate{gates.NewArithmeticExtensionGate(1)}, []field.Element{field.One(), field.One()})
		return nil
	})
	require.NoError(t, err)

	inputs := iop.NewPartialWitness()
	for col := 0; col < 3*field.D; col++ {
		inputs.SetTarget(iop.WireTarget(row, col), field.NewElement(uint64(col+2)))
	}
	NewAssert(t).WitnessFails(cr, inputs)
}
