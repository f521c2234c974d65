package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/gilescope/plonky2"
	"github.com/gilescope/plonky2/builder"
	"github.com/gilescope/plonky2/config"
	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/iop"
)

var (
	configFile string
	nbBits     int
	nbLookups  int
	seed       uint64
	parallel   int
	outOfRange bool
	verbose    bool
)

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML circuit config. The standard recursion config is used when empty.")
	rootCmd.Flags().IntVar(&nbBits, "bits", 4, "Index bits of each lookup; lists hold 2^bits items.")
	rootCmd.Flags().IntVar(&nbLookups, "lookups", 16, "Number of random-access lookups.")
	rootCmd.Flags().Uint64Var(&seed, "seed", 1, "Seed of the list contents and indices.")
	rootCmd.Flags().IntVar(&parallel, "parallel", 1, "Number of generators run concurrently within a pass.")
	rootCmd.Flags().BoolVar(&outOfRange, "out-of-range", false, "Give the first lookup an index past the end of its list.")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log generator passes.")
}

var rootCmd = &cobra.Command{
	Use:   "witnessgen",
	Short: "Build a random-access circuit and generate its witness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		return run(cmd)
	},
}

type lookup struct {
	index  iop.Target
	list   []iop.Target
	values []field.Element
	out    iop.Target
}

// maxLookupBits is the widest lookup one random access gate copy can hold
// under cfg, or -1 when not even a single item fits.
func maxLookupBits(cfg config.CircuitConfig) int {
	fits := func(bits int) bool {
		vecSize := 1 << bits
		return 2+vecSize <= cfg.NumRoutedWires && 2+vecSize+bits <= cfg.NumWires
	}
	bits := -1
	for bits < 30 && fits(bits+1) {
		bits++
	}
	return bits
}

func checkFlags(cfg config.CircuitConfig) error {
	if nbLookups <= 0 {
		return errors.New("--lookups must be positive")
	}
	if nbBits < 0 {
		return errors.New("--bits must not be negative")
	}
	if limit := maxLookupBits(cfg); nbBits > limit {
		return fmt.Errorf("--bits %d does not fit %d routed wires, at most %d", nbBits, cfg.NumRoutedWires, limit)
	}
	return nil
}

func run(cmd *cobra.Command) error {
	cfg := config.StandardRecursionConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
	}
	if err := checkFlags(cfg); err != nil {
		return err
	}

	r := rand.New(rand.NewSource(seed))
	lookups := make([]lookup, nbLookups)
	cr, err := plonky2.Compile(cfg, func(b *builder.CircuitBuilder) error {
		for i := range lookups {
			l := &lookups[i]
			l.index = b.AddVirtualTarget()
			l.list = b.AddVirtualTargets(1 << nbBits)
			l.values = field.RandElements(r, len(l.list))
			l.out = b.RandomAccess(l.index, l.list)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cr.Print(cmd.OutOrStdout())

	inputs := iop.NewPartialWitness()
	indices := make([]uint64, len(lookups))
	for i, l := range lookups {
		indices[i] = uint64(r.Intn(len(l.list)))
		if i == 0 && outOfRange {
			indices[i] = uint64(len(l.list))
		}
		inputs.SetTarget(l.index, field.NewElement(indices[i]))
		inputs.SetTargets(l.list, l.values)
	}

	w, err := cr.SolveWitness(inputs, iop.WithParallelism(parallel))
	if err != nil {
		return err
	}
	for i, l := range lookups {
		got := w.GetTarget(l.out)
		if !got.Equal(&l.values[indices[i]]) {
			return fmt.Errorf("lookup %d: got %s, want %s", i, got.String(), l.values[indices[i]].String())
		}
	}

	report, err := cr.CheckWitness(w)
	if err != nil {
		return err
	}
	if !report.Satisfied() {
		for _, v := range report.Violations {
			fmt.Fprintln(cmd.ErrOrStderr(), v)
		}
		return fmt.Errorf("%d constraints do not vanish", len(report.Violations))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "witness ok: %d lookups, %d constraints checked\n", len(lookups), report.NumConstraints)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
