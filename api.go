package plonky2

import (
	"fmt"
	"io"
	"sort"

	"github.com/consensys/gnark/logger"

	"github.com/gilescope/plonky2/builder"
	"github.com/gilescope/plonky2/checker"
	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/iop"
)

type CompileResult struct {
	data *builder.CircuitData
}

// Compile runs define against a fresh builder and finalizes the circuit.
func Compile(cfg config.CircuitConfig, define func(b *builder.CircuitBuilder) error) (*CompileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := builder.NewCircuitBuilder(cfg)
	if err := define(b); err != nil {
		return nil, fmt.Errorf("defining circuit: %w", err)
	}
	data, err := b.Build()
	if err != nil {
		return nil, err
	}

	log := logger.Logger()
	log.Info().
		Int("nbRows", len(data.Gates)).
		Int("degree", data.Degree).
		Int("nbGateKinds", len(data.GateCounts())).
		Msg("compiled circuit")
	return &CompileResult{data: data}, nil
}

func (c *CompileResult) GetCircuitData() *builder.CircuitData {
	return c.data
}

// SolveWitness completes inputs into a full witness of the circuit.
func (c *CompileResult) SolveWitness(inputs *iop.PartialWitness, opts ...iop.GenerateOption) (*iop.PartitionWitness, error) {
	return c.data.GenerateWitness(inputs, opts...)
}

func (c *CompileResult) CheckWitness(w *iop.PartitionWitness) (*checker.Report, error) {
	return checker.CheckWitness(c.data, w)
}

// Print writes the number of rows per gate kind.
func (c *CompileResult) Print(out io.Writer) {
	counts := c.data.GateCounts()
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Fprintf(out, "rows=%d degree=%d virtual=%d\n", len(c.data.Gates), c.data.Degree, c.data.NumVirtual)
	for _, id := range ids {
		fmt.Fprintf(out, "%6d %s\n", counts[id], id)
	}
}
