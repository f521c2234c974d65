package test

import (
	"golang.org/x/exp/rand"

	"github.com/gilescope/plonky2/builder"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
)

type randomCircuitConfig struct {
	seed       uint64
	nbLookups  randRange
	lookupBits randRange
	nbArith    randRange
	nbCopies   randRange
	// extPercent of the lookups are over extension targets.
	extPercent int
	// mulPercent, addPercent and subPercent are cumulative thresholds over the
	// arithmetic operations; the rest are scalar multiply-adds.
	mulPercent int
	addPercent int
	subPercent int
}

type randRange struct {
	l int
	r int
}

func (rr *randRange) sample(r *rand.Rand) int {
	return r.Intn(rr.r-rr.l+1) + rr.l
}

type expectation struct {
	target iop.Target
	value  field.Element
}

// randomCircuit builds a deterministic circuit from its seed and records the
// inputs it needs together with the values generation must produce.
type randomCircuit struct {
	conf     *randomCircuitConfig
	rand     *rand.Rand
	inputs   *iop.PartialWitness
	expected []expectation
	// indices are the access index targets of the scalar lookups.
	indices []iop.Target

	scalars []expectation
	exts    []extExpectation
}

type extExpectation struct {
	target iop.ExtensionTarget
	value  field.Extension
}

func newRandomCircuit(conf *randomCircuitConfig) *randomCircuit {
	return &randomCircuit{conf: conf}
}

func (rc *randomCircuit) define(b *builder.CircuitBuilder) error {
	rc.rand = rand.New(rand.NewSource(rc.conf.seed))
	rc.inputs = iop.NewPartialWitness()
	rc.expected, rc.indices, rc.scalars, rc.exts = nil, nil, nil, nil

	for i := rc.conf.nbLookups.sample(rc.rand); i > 0; i-- {
		if rc.rand.Intn(100) < rc.conf.extPercent {
			rc.lookupExtension(b)
		} else {
			rc.lookup(b)
		}
	}
	for len(rc.exts) < 2 {
		rc.exts = append(rc.exts, rc.extInput(b))
	}
	for i := rc.conf.nbArith.sample(rc.rand); i > 0; i-- {
		rc.arithmetic(b)
	}
	for i := rc.conf.nbCopies.sample(rc.rand); i > 0 && len(rc.scalars) > 0; i-- {
		src := rc.scalars[rc.rand.Intn(len(rc.scalars))]
		dst := b.AddVirtualTarget()
		b.Connect(src.target, dst)
		rc.expect(dst, src.value)
	}
	return nil
}

func (rc *randomCircuit) expect(t iop.Target, v field.Element) {
	rc.expected = append(rc.expected, expectation{target: t, value: v})
}

func (rc *randomCircuit) expectExtension(et iop.ExtensionTarget, v field.Extension) {
	rc.expect(et[0], v.A0)
	rc.expect(et[1], v.A1)
	rc.exts = append(rc.exts, extExpectation{target: et, value: v})
}

func (rc *randomCircuit) extInput(b *builder.CircuitBuilder) extExpectation {
	et := b.AddVirtualExtensionTarget()
	v := field.RandExtension(rc.rand)
	rc.inputs.SetExtensionTarget(et, v)
	return extExpectation{target: et, value: v}
}

func (rc *randomCircuit) lookup(b *builder.CircuitBuilder) {
	bits := rc.conf.lookupBits.sample(rc.rand)
	list := b.AddVirtualTargets(1 << bits)
	values := field.RandElements(rc.rand, len(list))
	rc.inputs.SetTargets(list, values)
	index := b.AddVirtualTarget()
	k := rc.rand.Intn(len(list))
	rc.inputs.SetTarget(index, field.NewElement(uint64(k)))
	rc.indices = append(rc.indices, index)

	out := b.RandomAccess(index, list)
	rc.expect(out, values[k])
	rc.scalars = append(rc.scalars, expectation{target: out, value: values[k]})
}

func (rc *randomCircuit) lookupExtension(b *builder.CircuitBuilder) {
	bits := rc.conf.lookupBits.sample(rc.rand)
	list := b.AddVirtualExtensionTargets(1 << bits)
	values := field.RandExtensions(rc.rand, len(list))
	for i := range list {
		rc.inputs.SetExtensionTarget(list[i], values[i])
	}
	index := b.AddVirtualTarget()
	k := rc.rand.Intn(len(list))
	rc.inputs.SetTarget(index, field.NewElement(uint64(k)))

	rc.expectExtension(b.RandomAccessExtension(index, list), values[k])
}

func (rc *randomCircuit) arithmetic(b *builder.CircuitBuilder) {
	x := rc.exts[rc.rand.Intn(len(rc.exts))]
	y := rc.exts[rc.rand.Intn(len(rc.exts))]
	var v field.Extension
	var out iop.ExtensionTarget
	switch op := rc.rand.Intn(100); {
	case op < rc.conf.mulPercent:
		v.Mul(&x.value, &y.value)
		out = b.MulExtension(x.target, y.target)
	case op < rc.conf.addPercent:
		v.Add(&x.value, &y.value)
		out = b.AddExtension(x.target, y.target)
	case op < rc.conf.subPercent:
		v.Sub(&x.value, &y.value)
		out = b.SubExtension(x.target, y.target)
	default:
		k := field.RandElement(rc.rand)
		v.MulByElement(&x.value, &k).Add(&v, &y.value)
		out = b.ScalarMulAddExtension(k, x.target, y.target)
	}
	rc.expectExtension(out, v)
}
