package gates

import (
	"fmt"

	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
)

// RandomAccessGate checks that claimed = list[index] for a list of 2^Bits items.
// Each copy routes its access index, claimed element and list items. The bits
// of the index follow all routed wires and are not routed.
type RandomAccessGate struct {
	Bits      int
	NumCopies int
}

func NewRandomAccessGate(numCopies, bits int) *RandomAccessGate {
	if numCopies <= 0 || bits < 0 || bits >= 32 {
		panic(fmt.Sprintf("invalid random access gate: %d copies of %d bits", numCopies, bits))
	}
	return &RandomAccessGate{Bits: bits, NumCopies: numCopies}
}

// NewRandomAccessGateFromConfig fits as many copies as the configuration allows.
func NewRandomAccessGateFromConfig(c config.CircuitConfig, bits int) *RandomAccessGate {
	vecSize := 1 << bits
	maxCopies := min(c.NumRoutedWires/(2+vecSize), c.NumWires/(2+vecSize+bits))
	return NewRandomAccessGate(maxCopies, bits)
}

func (g *RandomAccessGate) ID() string {
	return fmt.Sprintf("RandomAccessGate{bits: %d, copies: %d}", g.Bits, g.NumCopies)
}

func (g *RandomAccessGate) VecSize() int {
	return 1 << g.Bits
}

func (g *RandomAccessGate) WireAccessIndex(cp int) int {
	return (2 + g.VecSize()) * cp
}

func (g *RandomAccessGate) WireClaimedElement(cp int) int {
	return (2+g.VecSize())*cp + 1
}

func (g *RandomAccessGate) WireListItem(i, cp int) int {
	return (2+g.VecSize())*cp + 2 + i
}

// NumRoutedWires is the number of leading wires taking part in cp constraints.
func (g *RandomAccessGate) NumRoutedWires() int {
	return (2 + g.VecSize()) * g.NumCopies
}

func (g *RandomAccessGate) WireBit(i, cp int) int {
	return g.NumRoutedWires() + cp*g.Bits + i
}

func (g *RandomAccessGate) NumWires() int {
	return g.NumRoutedWires() + g.NumCopies*g.Bits
}

func (g *RandomAccessGate) NumConstants() int {
	return 0
}

func (g *RandomAccessGate) Degree() int {
	return g.Bits + 1
}

func (g *RandomAccessGate) NumConstraints() int {
	return g.NumCopies * (g.Bits + 2)
}

func (g *RandomAccessGate) EvalUnfiltered(vars EvaluationVars) []field.Extension {
	constraints := make([]field.Extension, 0, g.NumConstraints())
	two := field.Embed(field.NewElement(2))
	for cp := 0; cp < g.NumCopies; cp++ {
		accessIndex := vars.LocalWires[g.WireAccessIndex(cp)]
		claimed := vars.LocalWires[g.WireClaimedElement(cp)]
		list := make([]field.Extension, g.VecSize())
		for i := range list {
			list[i] = vars.LocalWires[g.WireListItem(i, cp)]
		}
		bits := make([]field.Extension, g.Bits)
		for i := range bits {
			bits[i] = vars.LocalWires[g.WireBit(i, cp)]
		}

		for _, b := range bits {
			constraints = append(constraints, extSub(extMul(b, b), b))
		}

		var reconstructed field.Extension
		for i := len(bits) - 1; i >= 0; i-- {
			reconstructed = extAdd(extMul(reconstructed, two), bits[i])
		}
		constraints = append(constraints, extSub(reconstructed, accessIndex))

		for _, b := range bits {
			next := make([]field.Extension, len(list)/2)
			for j := range next {
				x, y := list[2*j], list[2*j+1]
				next[j] = extAdd(x, extMul(b, extSub(y, x)))
			}
			list = next
		}
		constraints = append(constraints, extSub(list[0], claimed))
	}
	return constraints
}

func (g *RandomAccessGate) EvalUnfilteredBaseOne(vars EvaluationVarsBase, yield *StridedConstraintConsumer) error {
	return ErrUsePackedEvaluator
}

func (g *RandomAccessGate) EvalUnfilteredBaseBatch(vars EvaluationVarsBaseBatch) []field.Element {
	return EvalBaseBatchPacked(g, vars)
}

func (g *RandomAccessGate) EvalUnfilteredBasePacked(vars EvaluationVarsBasePacked, yield *StridedConstraintConsumer) {
	width := vars.Width()
	for cp := 0; cp < g.NumCopies; cp++ {
		accessIndex := vars.LocalWires[g.WireAccessIndex(cp)]
		claimed := vars.LocalWires[g.WireClaimedElement(cp)]
		list := make([]field.Packed, g.VecSize())
		for i := range list {
			list[i] = vars.LocalWires[g.WireListItem(i, cp)]
		}
		bits := make([]field.Packed, g.Bits)
		for i := range bits {
			bits[i] = vars.LocalWires[g.WireBit(i, cp)]
		}

		for _, b := range bits {
			yield.One(b.Mul(b).Sub(b))
		}

		reconstructed := field.PackedZero(width)
		for i := len(bits) - 1; i >= 0; i-- {
			reconstructed = reconstructed.Double().Add(bits[i])
		}
		yield.One(reconstructed.Sub(accessIndex))

		for _, b := range bits {
			next := make([]field.Packed, len(list)/2)
			for j := range next {
				x, y := list[2*j], list[2*j+1]
				next[j] = x.Add(b.Mul(y.Sub(x)))
			}
			list = next
		}
		yield.One(list[0].Sub(claimed))
	}
}

func (g *RandomAccessGate) EvalUnfilteredRecursively(b RecursiveBuilder, vars EvaluationTargets) []iop.ExtensionTarget {
	constraints := make([]iop.ExtensionTarget, 0, g.NumConstraints())
	two := b.TwoExtension()
	for cp := 0; cp < g.NumCopies; cp++ {
		accessIndex := vars.LocalWires[g.WireAccessIndex(cp)]
		claimed := vars.LocalWires[g.WireClaimedElement(cp)]
		list := make([]iop.ExtensionTarget, g.VecSize())
		for i := range list {
			list[i] = vars.LocalWires[g.WireListItem(i, cp)]
		}
		bits := make([]iop.ExtensionTarget, g.Bits)
		for i := range bits {
			bits[i] = vars.LocalWires[g.WireBit(i, cp)]
		}

		for _, bit := range bits {
			constraints = append(constraints, b.MulSubExtension(bit, bit, bit))
		}

		reconstructed := b.ZeroExtension()
		for i := len(bits) - 1; i >= 0; i-- {
			reconstructed = b.MulAddExtension(reconstructed, two, bits[i])
		}
		constraints = append(constraints, b.SubExtension(reconstructed, accessIndex))

		for _, bit := range bits {
			next := make([]iop.ExtensionTarget, len(list)/2)
			for j := range next {
				next[j] = b.SelectExtGeneralized(bit, list[2*j+1], list[2*j])
			}
			list = next
		}
		constraints = append(constraints, b.SubExtension(list[0], claimed))
	}
	return constraints
}

func (g *RandomAccessGate) Generators(row int, localConstants []field.Element) []iop.WitnessGenerator {
	res := make([]iop.WitnessGenerator, g.NumCopies)
	for cp := range res {
		res[cp] = iop.Adapt(&RandomAccessGenerator{Row: row, Gate: *g, Copy: cp})
	}
	return res
}

// RandomAccessGenerator fills the claimed element and index bits of one copy.
type RandomAccessGenerator struct {
	Row  int
	Gate RandomAccessGate
	Copy int
}

func (g *RandomAccessGenerator) wire(column int) iop.Target {
	return iop.WireTarget(g.Row, column)
}

func (g *RandomAccessGenerator) Dependencies() []iop.Target {
	deps := make([]iop.Target, 0, 1+g.Gate.VecSize())
	deps = append(deps, g.wire(g.Gate.WireAccessIndex(g.Copy)))
	for i := 0; i < g.Gate.VecSize(); i++ {
		deps = append(deps, g.wire(g.Gate.WireListItem(i, g.Copy)))
	}
	return deps
}

func (g *RandomAccessGenerator) RunOnce(w *iop.PartitionWitness, out *iop.GeneratedValues) error {
	accessIndex := w.GetTarget(g.wire(g.Gate.WireAccessIndex(g.Copy)))
	index := accessIndex.Uint64()
	if index >= uint64(g.Gate.VecSize()) {
		return fmt.Errorf("%w: index %d with %d bits (row %d, copy %d)",
			ErrAccessIndexOutOfRange, index, g.Gate.Bits, g.Row, g.Copy)
	}
	out.SetTarget(g.wire(g.Gate.WireClaimedElement(g.Copy)), w.GetTarget(g.wire(g.Gate.WireListItem(int(index), g.Copy))))
	for i, bit := range field.Bits(accessIndex, g.Gate.Bits) {
		out.SetTarget(g.wire(g.Gate.WireBit(i, g.Copy)), field.FromBool(bit))
	}
	return nil
}
