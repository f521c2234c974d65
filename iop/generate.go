package iop

import (
	"errors"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark/logger"
	"golang.org/x/sync/errgroup"
)

var ErrDeadlock = errors.New("witness generation deadlocked")

// maximum number of stuck generators reported in a deadlock error
const maxReportedStuck = 8

type generateConfig struct {
	parallelism int
}

type GenerateOption func(*generateConfig)

// WithParallelism runs the ready generators of a pass on up to n goroutines.
// Generators of one pass then observe the witness as it was at the start of
// the pass, and their outputs are merged in worklist order. Generators must
// tolerate concurrent Run calls on a shared read-only witness.
func WithParallelism(n int) GenerateOption {
	return func(c *generateConfig) {
		c.parallelism = n
	}
}

// GeneratorSet is the static part of witness generation: the generators of a
// circuit and, for every representative, the generators watching it.
type GeneratorSet struct {
	partition  *Partition
	generators []WitnessGenerator
	watchers   map[int][]int
}

func NewGeneratorSet(p *Partition, generators []WitnessGenerator) *GeneratorSet {
	s := &GeneratorSet{
		partition:  p,
		generators: generators,
		watchers:   make(map[int][]int),
	}
	for gi, g := range generators {
		seen := make(map[int]struct{})
		for _, t := range g.WatchList() {
			rep := p.Representative(t)
			if _, ok := seen[rep]; ok {
				continue
			}
			seen[rep] = struct{}{}
			s.watchers[rep] = append(s.watchers[rep], gi)
		}
	}
	return s
}

func (s *GeneratorSet) Len() int {
	return len(s.generators)
}

func (s *GeneratorSet) Partition() *Partition {
	return s.partition
}

// Watchers returns the indices of the generators watching the class of t.
func (s *GeneratorSet) Watchers(t Target) []int {
	return s.watchers[s.partition.Representative(t)]
}

// GeneratePartialWitness runs generators until no more progress is possible.
func GeneratePartialWitness(inputs *PartialWitness, p *Partition, generators []WitnessGenerator, opts ...GenerateOption) (*PartitionWitness, error) {
	return NewGeneratorSet(p, generators).Generate(inputs, opts...)
}

// Generate seeds a fresh witness with inputs and runs the generators to a
// fixpoint. Every generator must have finished by then, otherwise ErrDeadlock
// is returned.
func (s *GeneratorSet) Generate(inputs *PartialWitness, opts ...GenerateOption) (*PartitionWitness, error) {
	cfg := generateConfig{parallelism: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := logger.Logger()
	start := time.Now()

	w := NewPartitionWitness(s.partition)
	for _, t := range inputs.Targets() {
		v, _ := inputs.TryGetTarget(t)
		if _, _, err := w.SetTargetReturningRep(t, v); err != nil {
			return nil, fmt.Errorf("seeding inputs: %w", err)
		}
	}

	run := &generationRun{
		set:       s,
		witness:   w,
		expired:   bitset.New(uint(len(s.generators))),
		queued:    bitset.New(uint(len(s.generators))),
		remaining: len(s.generators),
	}
	pending := make([]int, len(s.generators))
	for i := range pending {
		pending[i] = i
	}

	for len(pending) > 0 {
		run.passes++
		run.next = nil
		run.queued.ClearAll()
		var err error
		if cfg.parallelism > 1 {
			err = run.passParallel(pending, cfg.parallelism)
		} else {
			err = run.pass(pending)
		}
		if err != nil {
			return nil, err
		}
		log.Debug().Int("pass", run.passes).Int("ran", len(pending)).Int("remaining", run.remaining).Msg("generator pass done")
		pending = run.next
	}

	if run.remaining != 0 {
		stuck := make([]int, 0, maxReportedStuck)
		for gi := range s.generators {
			if !run.expired.Test(uint(gi)) && len(stuck) < maxReportedStuck {
				stuck = append(stuck, gi)
			}
		}
		log.Error().Int("remaining", run.remaining).Ints("stuck", stuck).Msg("witness generation deadlocked")
		return nil, fmt.Errorf("%w: %d generators did not finish, first stuck %v (%s)",
			ErrDeadlock, run.remaining, stuck, describe(s.generators[stuck[0]]))
	}

	log.Debug().
		Int("generators", len(s.generators)).
		Int("passes", run.passes).
		Int("runs", run.runs).
		Int("assigned", w.NumAssigned()).
		Dur("took", time.Since(start)).
		Msg("witness generated")
	return w, nil
}

// generationRun is the mutable state of a single Generate call.
type generationRun struct {
	set       *GeneratorSet
	witness   *PartitionWitness
	expired   *bitset.BitSet
	queued    *bitset.BitSet
	next      []int
	remaining int
	passes    int
	runs      int
}

func (r *generationRun) pass(pending []int) error {
	buf := NewGeneratedValues(16)
	for _, gi := range pending {
		if r.expired.Test(uint(gi)) {
			continue
		}
		buf.Clear()
		finished, runErr := r.set.generators[gi].Run(r.witness, buf)
		if err := r.complete(gi, finished, runErr, buf); err != nil {
			return err
		}
	}
	return nil
}

func (r *generationRun) passParallel(pending []int, parallelism int) error {
	ready := make([]int, 0, len(pending))
	for _, gi := range pending {
		if !r.expired.Test(uint(gi)) {
			ready = append(ready, gi)
		}
	}
	bufs := make([]*GeneratedValues, len(ready))
	finished := make([]bool, len(ready))
	errs := make([]error, len(ready))

	var eg errgroup.Group
	eg.SetLimit(parallelism)
	for i, gi := range ready {
		eg.Go(func() error {
			bufs[i] = NewGeneratedValues(4)
			finished[i], errs[i] = r.set.generators[gi].Run(r.witness, bufs[i])
			return nil
		})
	}
	_ = eg.Wait()

	for i, gi := range ready {
		if err := r.complete(gi, finished[i], errs[i], bufs[i]); err != nil {
			return err
		}
	}
	return nil
}

// complete records the outcome of one generator run and merges its outputs.
func (r *generationRun) complete(gi int, finished bool, runErr error, buf *GeneratedValues) error {
	r.runs++
	g := r.set.generators[gi]
	if runErr != nil {
		return fmt.Errorf("generator %d (%s): %w", gi, describe(g), runErr)
	}
	if finished {
		r.expired.Set(uint(gi))
		r.remaining--
	}
	for i := 0; i < buf.Len(); i++ {
		t, v := buf.At(i)
		rep, newly, err := r.witness.SetTargetReturningRep(t, v)
		if err != nil {
			return fmt.Errorf("generator %d (%s): %w", gi, describe(g), err)
		}
		if newly {
			r.enqueueWatchers(rep)
		}
	}
	return nil
}

func (r *generationRun) enqueueWatchers(rep int) {
	for _, wi := range r.set.watchers[rep] {
		if r.expired.Test(uint(wi)) || r.queued.Test(uint(wi)) {
			continue
		}
		r.queued.Set(uint(wi))
		r.next = append(r.next, wi)
	}
}

func describe(g WitnessGenerator) string {
	if s, ok := g.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", g)
}
