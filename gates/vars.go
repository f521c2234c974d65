package gates

import (
	"fmt"

	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
)

// EvaluationVars are the local values of one row, lifted to the extension field.
type EvaluationVars struct {
	LocalConstants []field.Extension
	LocalWires     []field.Extension
}

// EvaluationVarsBase are the local values of one row over the base field.
type EvaluationVarsBase struct {
	LocalConstants []field.Element
	LocalWires     []field.Element
}

// EvaluationVarsBaseBatch holds BatchSize rows. Values are stored index-major:
// the value of wire i at row r is LocalWires[i*BatchSize+r].
type EvaluationVarsBaseBatch struct {
	BatchSize      int
	LocalConstants []field.Element
	LocalWires     []field.Element
}

func NewEvaluationVarsBaseBatch(batchSize int, localConstants, localWires []field.Element) EvaluationVarsBaseBatch {
	if batchSize <= 0 || len(localConstants)%batchSize != 0 || len(localWires)%batchSize != 0 {
		panic(fmt.Sprintf("batch of size %d cannot hold %d constants and %d wires", batchSize, len(localConstants), len(localWires)))
	}
	return EvaluationVarsBaseBatch{
		BatchSize:      batchSize,
		LocalConstants: localConstants,
		LocalWires:     localWires,
	}
}

// BatchFromRows lays out the given rows index-major.
func BatchFromRows(rows []EvaluationVarsBase) EvaluationVarsBaseBatch {
	n := len(rows)
	if n == 0 {
		panic("empty batch")
	}
	numConstants, numWires := len(rows[0].LocalConstants), len(rows[0].LocalWires)
	consts := make([]field.Element, numConstants*n)
	wires := make([]field.Element, numWires*n)
	for r, row := range rows {
		for i, c := range row.LocalConstants {
			consts[i*n+r] = c
		}
		for i, w := range row.LocalWires {
			wires[i*n+r] = w
		}
	}
	return NewEvaluationVarsBaseBatch(n, consts, wires)
}

func (b EvaluationVarsBaseBatch) NumWires() int {
	return len(b.LocalWires) / b.BatchSize
}

func (b EvaluationVarsBaseBatch) NumConstants() int {
	return len(b.LocalConstants) / b.BatchSize
}

// View extracts a single row.
func (b EvaluationVarsBaseBatch) View(row int) EvaluationVarsBase {
	res := EvaluationVarsBase{
		LocalConstants: make([]field.Element, b.NumConstants()),
		LocalWires:     make([]field.Element, b.NumWires()),
	}
	for i := range res.LocalConstants {
		res.LocalConstants[i] = b.LocalConstants[i*b.BatchSize+row]
	}
	for i := range res.LocalWires {
		res.LocalWires[i] = b.LocalWires[i*b.BatchSize+row]
	}
	return res
}

// Pack returns rows [start, start+width) with one lane per row. The lanes alias the batch.
func (b EvaluationVarsBaseBatch) Pack(start, width int) EvaluationVarsBasePacked {
	pack := func(values []field.Element, n int) []field.Packed {
		res := make([]field.Packed, n)
		for i := range res {
			off := i*b.BatchSize + start
			res[i] = field.Packed(values[off : off+width : off+width])
		}
		return res
	}
	return EvaluationVarsBasePacked{
		LocalConstants: pack(b.LocalConstants, b.NumConstants()),
		LocalWires:     pack(b.LocalWires, b.NumWires()),
	}
}

// EvaluationVarsBasePacked holds the local values of several rows, one lane per row.
type EvaluationVarsBasePacked struct {
	LocalConstants []field.Packed
	LocalWires     []field.Packed
}

func (v EvaluationVarsBasePacked) Width() int {
	if len(v.LocalWires) > 0 {
		return v.LocalWires[0].Width()
	}
	if len(v.LocalConstants) > 0 {
		return v.LocalConstants[0].Width()
	}
	return 0
}

// EvaluationTargets are the local values of a row inside a circuit.
type EvaluationTargets struct {
	LocalConstants []iop.ExtensionTarget
	LocalWires     []iop.ExtensionTarget
}

// StridedConstraintConsumer writes packed constraint values into a flat
// constraint-major buffer: constraint c of row r lands at c*stride+r.
type StridedConstraintConsumer struct {
	buf    []field.Element
	stride int
	start  int
	width  int
	next   int
}

func NewStridedConstraintConsumer(buf []field.Element, stride, start, width int) *StridedConstraintConsumer {
	return &StridedConstraintConsumer{buf: buf, stride: stride, start: start, width: width}
}

// One emits the next constraint.
func (s *StridedConstraintConsumer) One(p field.Packed) {
	if p.Width() != s.width {
		panic(fmt.Sprintf("constraint has %d lanes, consumer expects %d", p.Width(), s.width))
	}
	off := s.next*s.stride + s.start
	if off+s.width > len(s.buf) {
		panic(fmt.Errorf("%w: more than %d constraints yielded", ErrConstraintCountMismatch, len(s.buf)/s.stride))
	}
	copy(s.buf[off:off+s.width], p)
	s.next++
}

func (s *StridedConstraintConsumer) Many(ps []field.Packed) {
	for _, p := range ps {
		s.One(p)
	}
}

// Count returns the number of constraints emitted so far.
func (s *StridedConstraintConsumer) Count() int {
	return s.next
}
