package iop

import (
	"fmt"

	"github.com/gilescope/plonky2/field"
)

// GeneratedValues buffers the outputs of one generator run until they are merged.
type GeneratedValues struct {
	targets []Target
	values  []field.Element
}

func NewGeneratedValues(capacity int) *GeneratedValues {
	return &GeneratedValues{
		targets: make([]Target, 0, capacity),
		values:  make([]field.Element, 0, capacity),
	}
}

func (g *GeneratedValues) SetTarget(t Target, v field.Element) {
	g.targets = append(g.targets, t)
	g.values = append(g.values, v)
}

func (g *GeneratedValues) SetWire(w Wire, v field.Element) {
	g.SetTarget(WireTarget(w.Row, w.Column), v)
}

func (g *GeneratedValues) SetWires(ws []Wire, vs []field.Element) {
	if len(ws) != len(vs) {
		panic("wires and values length mismatch")
	}
	for i := range ws {
		g.SetWire(ws[i], vs[i])
	}
}

func (g *GeneratedValues) SetBoolTarget(b BoolTarget, v bool) {
	g.SetTarget(b.Target, field.FromBool(v))
}

func (g *GeneratedValues) SetExtensionTarget(et ExtensionTarget, v field.Extension) {
	g.SetTarget(et[0], v.A0)
	g.SetTarget(et[1], v.A1)
}

func (g *GeneratedValues) Len() int {
	return len(g.targets)
}

// At returns the i-th buffered assignment.
func (g *GeneratedValues) At(i int) (Target, field.Element) {
	return g.targets[i], g.values[i]
}

func (g *GeneratedValues) Clear() {
	g.targets = g.targets[:0]
	g.values = g.values[:0]
}

// WitnessGenerator derives new witness values from existing ones.
// Run reports whether the generator is done. It is called again only after a
// target of its watch list receives a value. A returned error aborts generation.
type WitnessGenerator interface {
	WatchList() []Target
	Run(w *PartitionWitness, out *GeneratedValues) (bool, error)
}

// SimpleGenerator runs exactly once, when all of its dependencies are known.
type SimpleGenerator interface {
	Dependencies() []Target
	RunOnce(w *PartitionWitness, out *GeneratedValues) error
}

type simpleGeneratorAdapter struct {
	inner SimpleGenerator
	deps  []Target
}

// Adapt turns a one-shot generator into a WitnessGenerator watching its dependencies.
func Adapt(sg SimpleGenerator) WitnessGenerator {
	return &simpleGeneratorAdapter{inner: sg, deps: sg.Dependencies()}
}

func (a *simpleGeneratorAdapter) WatchList() []Target {
	return a.deps
}

func (a *simpleGeneratorAdapter) Run(w *PartitionWitness, out *GeneratedValues) (bool, error) {
	if !w.ContainsAll(a.deps) {
		return false, nil
	}
	if err := a.inner.RunOnce(w, out); err != nil {
		return false, err
	}
	return true, nil
}

func (a *simpleGeneratorAdapter) String() string {
	return fmt.Sprintf("%T", a.inner)
}

// Unwrap returns the adapted generator.
func (a *simpleGeneratorAdapter) Unwrap() SimpleGenerator {
	return a.inner
}

// CopyGenerator sets Dst to the value of Src.
type CopyGenerator struct {
	Src Target
	Dst Target
}

func (g *CopyGenerator) Dependencies() []Target {
	return []Target{g.Src}
}

func (g *CopyGenerator) RunOnce(w *PartitionWitness, out *GeneratedValues) error {
	out.SetTarget(g.Dst, w.GetTarget(g.Src))
	return nil
}

// RandomValueGenerator assigns a fresh uniformly random value to Target.
type RandomValueGenerator struct {
	Target Target
}

func (g *RandomValueGenerator) Dependencies() []Target {
	return nil
}

func (g *RandomValueGenerator) RunOnce(w *PartitionWitness, out *GeneratedValues) error {
	var v field.Element
	if _, err := v.SetRandom(); err != nil {
		return fmt.Errorf("sampling random value: %w", err)
	}
	out.SetTarget(g.Target, v)
	return nil
}

// NonzeroTestGenerator sets Dummy to the inverse of ToTest, or to one when ToTest is zero.
type NonzeroTestGenerator struct {
	ToTest Target
	Dummy  Target
}

func (g *NonzeroTestGenerator) Dependencies() []Target {
	return []Target{g.ToTest}
}

func (g *NonzeroTestGenerator) RunOnce(w *PartitionWitness, out *GeneratedValues) error {
	x := w.GetTarget(g.ToTest)
	dummy := field.One()
	if !x.IsZero() {
		dummy.Inverse(&x)
	}
	out.SetTarget(g.Dummy, dummy)
	return nil
}

// ConstantGenerator sets Target to a fixed value.
type ConstantGenerator struct {
	Target Target
	Value  field.Element
}

func (g *ConstantGenerator) Dependencies() []Target {
	return nil
}

func (g *ConstantGenerator) RunOnce(w *PartitionWitness, out *GeneratedValues) error {
	out.SetTarget(g.Target, g.Value)
	return nil
}
