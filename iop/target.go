// Package iop holds the witness-side data model: targets, the copy-constraint
// partition, partial witnesses and the generator engine that completes them.
package iop

import (
	"fmt"

	"github.com/gilescope/plonky2/field"
)

// Wire is a cell of the execution trace.
type Wire struct {
	Row    int
	Column int
}

func (w Wire) String() string {
	return fmt.Sprintf("wire(%d,%d)", w.Row, w.Column)
}

type TargetKind uint8

const (
	KindWire TargetKind = iota
	KindVirtual
)

// Target is a wire of the trace or a virtual slot living outside of it.
// Targets are comparable and can be used as map keys.
type Target struct {
	Kind   TargetKind
	Row    int
	Column int
	// Index of a virtual target
	Index int
}

func WireTarget(row, column int) Target {
	return Target{Kind: KindWire, Row: row, Column: column}
}

func VirtualTarget(index int) Target {
	return Target{Kind: KindVirtual, Index: index}
}

func (t Target) IsWire() bool {
	return t.Kind == KindWire
}

func (t Target) Wire() Wire {
	if t.Kind != KindWire {
		panic(fmt.Sprintf("%v is not a wire target", t))
	}
	return Wire{Row: t.Row, Column: t.Column}
}

func (t Target) String() string {
	if t.Kind == KindWire {
		return t.Wire().String()
	}
	return fmt.Sprintf("virtual(%d)", t.Index)
}

// WiresFrom returns the wire targets row[start:end].
func WiresFrom(row, start, end int) []Target {
	res := make([]Target, 0, end-start)
	for c := start; c < end; c++ {
		res = append(res, WireTarget(row, c))
	}
	return res
}

// BoolTarget is a target whose value is known to be 0 or 1.
type BoolTarget struct {
	Target Target
}

func NewBoolTargetUnsafe(t Target) BoolTarget {
	return BoolTarget{Target: t}
}

// ExtensionTarget addresses the D base limbs of an extension element.
type ExtensionTarget [field.D]Target

// ExtensionTargetFromRange returns the extension target stored in row[start:start+D].
func ExtensionTargetFromRange(row, start int) ExtensionTarget {
	var et ExtensionTarget
	for i := range et {
		et[i] = WireTarget(row, start+i)
	}
	return et
}

func (et ExtensionTarget) Targets() []Target {
	return et[:]
}

func FlattenExtensionTargets(ets []ExtensionTarget) []Target {
	res := make([]Target, 0, len(ets)*field.D)
	for _, et := range ets {
		res = append(res, et[:]...)
	}
	return res
}
