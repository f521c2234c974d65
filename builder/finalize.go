package builder

import (
	"errors"
	"fmt"
	"sort"

	"github.com/consensys/gnark/logger"

	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
	"github.com/gilescope/plonky2/utils"
)

// CircuitData is a built circuit, ready for witness generation.
type CircuitData struct {
	Config config.CircuitConfig
	// Gates[row] is the gate of that row. Rows past len(Gates) are padding.
	Gates      []GateInstance
	Degree     int
	NumVirtual int
	Partition  *iop.Partition
	Generators *iop.GeneratorSet
}

// fillOpenSlots wires unused operations of partially filled rows to zero so
// that their generators can run.
func (b *CircuitBuilder) fillOpenSlots() {
	if len(b.arithmeticOrder) == 0 && len(b.randomAccessSlots) == 0 {
		return
	}
	zero := b.Zero()
	zeroExt := b.ZeroExtension()
	for _, key := range b.arithmeticOrder {
		slot := b.arithmeticSlots[key]
		for ; slot.next < b.arithmeticGate.NumOps; slot.next++ {
			b.connectArithmeticOperands(slot.row, slot.next, zeroExt, zeroExt, zeroExt)
		}
	}
	nbBits := make([]int, 0, len(b.randomAccessSlots))
	for k := range b.randomAccessSlots {
		nbBits = append(nbBits, k)
	}
	sort.Ints(nbBits)
	for _, k := range nbBits {
		slot := b.randomAccessSlots[k]
		g := b.randomAccessGates[k]
		for ; slot.next < g.NumCopies; slot.next++ {
			b.Connect(zero, iop.WireTarget(slot.row, g.WireAccessIndex(slot.next)))
			for i := 0; i < g.VecSize(); i++ {
				b.Connect(zero, iop.WireTarget(slot.row, g.WireListItem(i, slot.next)))
			}
		}
	}
}

// Build finalizes the circuit. The builder must not be used afterwards.
func (b *CircuitBuilder) Build() (*CircuitData, error) {
	b.fillOpenSlots()
	if len(b.errs) != 0 {
		return nil, fmt.Errorf("building circuit: %w", errors.Join(b.errs...))
	}

	degree := utils.NextPowerOfTwo(len(b.gateInstances))
	forest := iop.NewForest(b.config.NumWires, degree, b.numVirtual)
	for _, cc := range b.copyConstraints {
		forest.Merge(cc.a, cc.b)
	}
	partition := forest.Partition()

	generators := make([]iop.WitnessGenerator, 0, len(b.generators)+len(b.gateInstances))
	for row, gi := range b.gateInstances {
		generators = append(generators, gi.Gate.Generators(row, gi.Constants)...)
	}
	generators = append(generators, b.generators...)

	log := logger.Logger()
	log.Info().
		Int("nbGates", len(b.gateInstances)).
		Int("degree", degree).
		Int("nbVirtual", b.numVirtual).
		Int("nbCopyConstraints", len(b.copyConstraints)).
		Int("nbGenerators", len(generators)).
		Msg("circuit built")

	return &CircuitData{
		Config:     b.config,
		Gates:      b.gateInstances,
		Degree:     degree,
		NumVirtual: b.numVirtual,
		Partition:  partition,
		Generators: iop.NewGeneratorSet(partition, generators),
	}, nil
}

// GenerateWitness completes inputs into a witness of every target of the circuit.
func (d *CircuitData) GenerateWitness(inputs *iop.PartialWitness, opts ...iop.GenerateOption) (*iop.PartitionWitness, error) {
	return d.Generators.Generate(inputs, opts...)
}

// LocalConstants returns the constants of a row. Padding rows have zero constants.
func (d *CircuitData) LocalConstants(row int) []field.Element {
	if row < len(d.Gates) {
		return d.Gates[row].Constants
	}
	return make([]field.Element, d.Config.NumConstants)
}

// GateCounts returns the number of rows per gate ID.
func (d *CircuitData) GateCounts() map[string]int {
	res := make(map[string]int)
	for _, gi := range d.Gates {
		res[gi.Gate.ID()]++
	}
	return res
}
