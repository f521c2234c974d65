// Package builder assembles gates, copy constraints and generators into a circuit.
//
// The builder implements gates.RecursiveBuilder: extension-field arithmetic is
// packed into ArithmeticExtensionGate rows, one open row per constant pair,
// and constants are served by ConstantGate rows. Configuration errors are
// collected while building and reported by Build.
package builder

import (
	"errors"
	"fmt"

	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
)

var (
	ErrUnroutedWire      = errors.New("copy constraint on an unrouted wire")
	ErrGateTooWide       = errors.New("gate does not fit the configured wires")
	ErrTooManyConstants  = errors.New("gate needs more constants than configured")
	ErrListNotPowerOfTwo = errors.New("random access list length is not a power of two")
)

// GateInstance is a gate placed on a row, with the row constants padded to the configured width.
type GateInstance struct {
	Gate      gates.Gate
	Constants []field.Element
}

type copyConstraint struct {
	a, b iop.Target
}

// openSlot is the next free operation of a partially used row.
type openSlot struct {
	row  int
	next int
}

type arithmeticKey [2]field.Element

type CircuitBuilder struct {
	config config.CircuitConfig

	gateInstances   []GateInstance
	numVirtual      int
	copyConstraints []copyConstraint
	generators      []iop.WitnessGenerator

	// configuration errors, reported by Build
	errs []error

	arithmeticGate  *gates.ArithmeticExtensionGate
	arithmeticSlots map[arithmeticKey]*openSlot
	// keys of arithmeticSlots in creation order
	arithmeticOrder []arithmeticKey
	// set once the config is too narrow for an arithmetic operation
	arithmeticTooWide bool

	constantGate  *gates.ConstantGate
	constantSlot  *openSlot
	constantCache map[field.Element]iop.Target

	randomAccessGates map[int]*gates.RandomAccessGate
	randomAccessSlots map[int]*openSlot
}

var _ gates.RecursiveBuilder = (*CircuitBuilder)(nil)

func NewCircuitBuilder(c config.CircuitConfig) *CircuitBuilder {
	b := &CircuitBuilder{
		config:            c,
		arithmeticSlots:   make(map[arithmeticKey]*openSlot),
		constantCache:     make(map[field.Element]iop.Target),
		randomAccessGates: make(map[int]*gates.RandomAccessGate),
		randomAccessSlots: make(map[int]*openSlot),
	}
	if err := c.Validate(); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

func (b *CircuitBuilder) Config() config.CircuitConfig {
	return b.config
}

func (b *CircuitBuilder) NumGates() int {
	return len(b.gateInstances)
}

func (b *CircuitBuilder) AddVirtualTarget() iop.Target {
	t := iop.VirtualTarget(b.numVirtual)
	b.numVirtual++
	return t
}

func (b *CircuitBuilder) AddVirtualTargets(n int) []iop.Target {
	res := make([]iop.Target, n)
	for i := range res {
		res[i] = b.AddVirtualTarget()
	}
	return res
}

func (b *CircuitBuilder) AddVirtualExtensionTarget() iop.ExtensionTarget {
	var et iop.ExtensionTarget
	for i := range et {
		et[i] = b.AddVirtualTarget()
	}
	return et
}

func (b *CircuitBuilder) AddVirtualExtensionTargets(n int) []iop.ExtensionTarget {
	res := make([]iop.ExtensionTarget, n)
	for i := range res {
		res[i] = b.AddVirtualExtensionTarget()
	}
	return res
}

// AddGate places g on a new row and returns the row index.
func (b *CircuitBuilder) AddGate(g gates.Gate, constants []field.Element) int {
	if g.NumWires() > b.config.NumWires {
		b.errs = append(b.errs, fmt.Errorf("%w: %s uses %d wires, %d configured", ErrGateTooWide, g.ID(), g.NumWires(), b.config.NumWires))
	}
	if g.NumConstants() > b.config.NumConstants || len(constants) > b.config.NumConstants {
		b.errs = append(b.errs, fmt.Errorf("%w: %s uses %d constants, %d configured", ErrTooManyConstants, g.ID(), g.NumConstants(), b.config.NumConstants))
	}
	padded := make([]field.Element, max(b.config.NumConstants, len(constants)))
	copy(padded, constants)
	b.gateInstances = append(b.gateInstances, GateInstance{Gate: g, Constants: padded})
	return len(b.gateInstances) - 1
}

func (b *CircuitBuilder) AddGenerator(g iop.WitnessGenerator) {
	b.generators = append(b.generators, g)
}

func (b *CircuitBuilder) AddSimpleGenerator(g iop.SimpleGenerator) {
	b.AddGenerator(iop.Adapt(g))
}

// Connect records a copy constraint between a and b.
func (b *CircuitBuilder) Connect(x, y iop.Target) {
	for _, t := range []iop.Target{x, y} {
		if t.IsWire() && t.Column >= b.config.NumRoutedWires {
			b.errs = append(b.errs, fmt.Errorf("%w: %v (%d routed wires)", ErrUnroutedWire, t, b.config.NumRoutedWires))
			return
		}
	}
	b.copyConstraints = append(b.copyConstraints, copyConstraint{a: x, b: y})
}

func (b *CircuitBuilder) ConnectExtension(x, y iop.ExtensionTarget) {
	for i := range x {
		b.Connect(x[i], y[i])
	}
}
