// Package testutil supplies the minimal test-only Fibonacci AIR used
// throughout this module's own tests to exercise prover.Prove and
// verifier.Verify end-to-end. It is not exported from pkg/starkcore: trace
// generation and example AIRs are out of scope for the shipped library
// surface.
package testutil

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/starkcore/internal/starkcore/air"
)

// FibonacciAIR is a single-column AIR over a trace of Fibonacci numbers:
// boundary constraints pin t(0)=1 and t(1)=1, and the one transition
// constraint checks t(i+2) = t(i) + t(i+1) for every row reachable without
// running past the end of the trace.
type FibonacciAIR struct {
	traceLength int
}

// NewFibonacciAIR returns a FibonacciAIR sized for a trace of the given
// length (a power of two, at least 4).
func NewFibonacciAIR(traceLength int) *FibonacciAIR {
	return &FibonacciAIR{traceLength: traceLength}
}

// Context implements air.AIR.
func (f *FibonacciAIR) Context() air.Context {
	g := field.PrimitiveRootOfUnity(uint64(f.traceLength))
	last := fieldPow(g, f.traceLength-1)
	secondLast := fieldPow(g, f.traceLength-2)
	return air.Context{
		TraceLength:              f.traceLength,
		NumColumns:               1,
		TransitionOffsets:        []int{0, 1, 2},
		NumTransitionConstraints: 1,
		TransitionDegrees:        []int{1},
		TransitionExemptions:     [][]field.Element{{secondLast, last}},
	}
}

// ComputeTransition implements air.AIR: t(i+2) - t(i+1) - t(i) = 0.
func (f *FibonacciAIR) ComputeTransition(frame air.Frame) ([]field.Element, error) {
	row0, ok0 := frame.Rows[0]
	row1, ok1 := frame.Rows[1]
	row2, ok2 := frame.Rows[2]
	if !ok0 || !ok1 || !ok2 {
		return nil, fmt.Errorf("fibonacci air: frame is missing an offset row")
	}
	value := row2[0].Sub(row1[0]).Sub(row0[0])
	return []field.Element{value}, nil
}

// BoundaryConstraints implements air.AIR: t(0) = 1, t(1) = 1.
func (f *FibonacciAIR) BoundaryConstraints() []air.BoundaryConstraint {
	return []air.BoundaryConstraint{
		{Column: 0, Row: 0, Value: field.One},
		{Column: 0, Row: 1, Value: field.One},
	}
}

// Trace returns the canonical Fibonacci trace column of the given length,
// starting 1, 1, 2, 3, ...
func Trace(length int) [][]field.Element {
	col := make([]field.Element, length)
	col[0] = field.One
	col[1] = field.One
	for i := 2; i < length; i++ {
		col[i] = col[i-1].Add(col[i-2])
	}
	return [][]field.Element{col}
}

func fieldPow(base field.Element, exp int) field.Element {
	result := field.One
	b := base
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(b)
		}
		b = b.Mul(b)
		exp >>= 1
	}
	return result
}
