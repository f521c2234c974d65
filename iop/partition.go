package iop

import "fmt"

// Forest is a union-find over all wire and virtual targets of a circuit.
// Wire (r, c) is stored at r*numWires+c and virtual target i at degree*numWires+i.
type Forest struct {
	parents    []int
	sizes      []int
	numWires   int
	degree     int
	numVirtual int
}

func NewForest(numWires, degree, numVirtual int) *Forest {
	n := numWires*degree + numVirtual
	f := &Forest{
		parents:    make([]int, n),
		sizes:      make([]int, n),
		numWires:   numWires,
		degree:     degree,
		numVirtual: numVirtual,
	}
	for i := range f.parents {
		f.parents[i] = i
		f.sizes[i] = 1
	}
	return f
}

func (f *Forest) Index(t Target) int {
	return targetIndex(t, f.numWires, f.degree, f.numVirtual)
}

func (f *Forest) find(i int) int {
	for f.parents[i] != i {
		f.parents[i] = f.parents[f.parents[i]]
		i = f.parents[i]
	}
	return i
}

// Merge records that a and b must hold the same value.
func (f *Forest) Merge(a, b Target) {
	x := f.find(f.Index(a))
	y := f.find(f.Index(b))
	if x == y {
		return
	}
	// larger tree wins, ties keep the lower index as root
	if f.sizes[x] < f.sizes[y] || (f.sizes[x] == f.sizes[y] && y < x) {
		x, y = y, x
	}
	f.parents[y] = x
	f.sizes[x] += f.sizes[y]
}

// Partition freezes the forest. The forest may be discarded afterwards.
func (f *Forest) Partition() *Partition {
	reps := make([]int, len(f.parents))
	for i := range reps {
		reps[i] = f.find(i)
	}
	return &Partition{
		reps:       reps,
		numWires:   f.numWires,
		degree:     f.degree,
		numVirtual: f.numVirtual,
	}
}

// Partition maps every target to the representative of its equivalence class.
// It is immutable once built.
type Partition struct {
	reps       []int
	numWires   int
	degree     int
	numVirtual int
}

func (p *Partition) Len() int {
	return len(p.reps)
}

func (p *Partition) NumWires() int {
	return p.numWires
}

func (p *Partition) Degree() int {
	return p.degree
}

func (p *Partition) NumVirtual() int {
	return p.numVirtual
}

func (p *Partition) Index(t Target) int {
	return targetIndex(t, p.numWires, p.degree, p.numVirtual)
}

// Representative returns the flat index of t's representative.
func (p *Partition) Representative(t Target) int {
	return p.reps[p.Index(t)]
}

func (p *Partition) RepresentativeTarget(t Target) Target {
	return p.TargetAt(p.Representative(t))
}

// TargetAt is the inverse of Index.
func (p *Partition) TargetAt(i int) Target {
	if i < p.numWires*p.degree {
		return WireTarget(i/p.numWires, i%p.numWires)
	}
	return VirtualTarget(i - p.numWires*p.degree)
}

// Members lists the targets sharing rep, in index order.
func (p *Partition) Members(rep int) []Target {
	var res []Target
	for i, r := range p.reps {
		if r == rep {
			res = append(res, p.TargetAt(i))
		}
	}
	return res
}

func targetIndex(t Target, numWires, degree, numVirtual int) int {
	switch t.Kind {
	case KindWire:
		if t.Row < 0 || t.Row >= degree || t.Column < 0 || t.Column >= numWires {
			panic(fmt.Sprintf("%v out of range (degree %d, %d wires)", t, degree, numWires))
		}
		return t.Row*numWires + t.Column
	case KindVirtual:
		if t.Index < 0 || t.Index >= numVirtual {
			panic(fmt.Sprintf("%v out of range (%d virtual targets)", t, numVirtual))
		}
		return degree*numWires + t.Index
	}
	panic(fmt.Sprintf("unknown target kind %d", t.Kind))
}
