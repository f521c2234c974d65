package checker

import (
	"errors"
	"fmt"
	"sort"

	"github.com/consensys/gnark/logger"

	"github.com/gilescope/plonky2/builder"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
)

// Violation is a constraint that does not vanish on the witness.
type Violation struct {
	Row        int
	GateID     string
	Constraint int
	Value      field.Element
}

func (v Violation) String() string {
	return fmt.Sprintf("row %d (%s): constraint %d = %s", v.Row, v.GateID, v.Constraint, v.Value.String())
}

type Report struct {
	NumRows        int
	NumConstraints int
	Violations     []Violation
}

func (r *Report) Satisfied() bool {
	return len(r.Violations) == 0
}

// CheckWitness evaluates every gate of the circuit on the full witness.
// Rows sharing a gate are evaluated together through the batched base field path.
func CheckWitness(data *builder.CircuitData, w *iop.PartitionWitness) (*Report, error) {
	if w.Partition() != data.Partition {
		return nil, errors.New("witness was not generated for this circuit")
	}
	matrix := w.FullWitness()

	rowsByGate := make(map[string][]int)
	for row, gi := range data.Gates {
		rowsByGate[gi.Gate.ID()] = append(rowsByGate[gi.Gate.ID()], row)
	}
	ids := make([]string, 0, len(rowsByGate))
	for id := range rowsByGate {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	report := &Report{NumRows: len(data.Gates)}
	for _, id := range ids {
		rows := rowsByGate[id]
		g := data.Gates[rows[0]].Gate
		views := make([]gates.EvaluationVarsBase, len(rows))
		for i, row := range rows {
			views[i] = gates.EvaluationVarsBase{
				LocalConstants: data.LocalConstants(row),
				LocalWires:     matrix.Row(row),
			}
		}
		values, err := evalBatch(g, gates.BatchFromRows(views))
		if err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", id, err)
		}
		report.NumConstraints += len(values)
		for c := 0; c < g.NumConstraints(); c++ {
			for i, row := range rows {
				v := values[c*len(rows)+i]
				if !v.IsZero() {
					report.Violations = append(report.Violations, Violation{Row: row, GateID: id, Constraint: c, Value: v})
				}
			}
		}
	}
	sort.Slice(report.Violations, func(i, j int) bool {
		a, b := report.Violations[i], report.Violations[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Constraint < b.Constraint
	})

	log := logger.Logger()
	log.Debug().
		Int("nbRows", report.NumRows).
		Int("nbConstraints", report.NumConstraints).
		Int("nbViolations", len(report.Violations)).
		Msg("witness checked")
	return report, nil
}

func evalBatch(g gates.Gate, vars gates.EvaluationVarsBaseBatch) (values []field.Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, gates.ErrConstraintCountMismatch) {
				err = e
				return
			}
			panic(r)
		}
	}()
	values = g.EvalUnfilteredBaseBatch(vars)
	if err := gates.CheckConstraintCount(g, len(values)/vars.BatchSize); err != nil {
		return nil, err
	}
	return values, nil
}
