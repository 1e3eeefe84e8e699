// Command starkcore-prove is a thin wrapper around pkg/starkcore for manual
// smoke-testing: it proves a Fibonacci trace of the requested length and
// prints the number of trace roots, FRI layers and queries, the final FRI
// value, and a checksum.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/pkg/starkcore"
)

func main() {
	length := flag.Int("length", 8, "trace length (power of two, at least 4)")
	blowup := flag.Int("blowup", 2, "LDE blowup factor (2, 4, 8 or 16)")
	queries := flag.Int("queries", 1, "number of FRI queries")
	offset := flag.Uint64("offset", 3, "LDE coset offset")
	flag.Parse()

	trace := starkcore.TraceTable{fibonacciColumn(*length)}
	a := &fibonacciAIR{traceLength: *length}
	opts := starkcore.ProofOptions{
		BlowupFactor: *blowup,
		NumQueries:   *queries,
		CosetOffset:  field.New(*offset),
	}

	proof, err := starkcore.Prove(trace, a, opts)
	if err != nil {
		fatal(fmt.Sprintf("proving failed: %v", err))
	}

	fmt.Printf("trace merkle roots: %d\n", len(proof.LDETraceMerkleRoots))
	fmt.Printf("fri layers: %d\n", len(proof.FRILayerMerkleRoots))
	fmt.Printf("fri final value: %d\n", proof.FRILastValue.Value())
	fmt.Printf("queries: %d\n", len(proof.QueryList))
	fmt.Printf("checksum: %x\n", checksum(proof))
}

// checksum hashes the proof's trace, composition and FRI Merkle roots, its
// final FRI value and its two composition out-of-domain evaluations, purely
// so two proving runs over the same trace can be compared for byte equality
// from the command line without reimplementing a proof codec here.
func checksum(proof *starkcore.Proof) []byte {
	h := sha3.New256()
	write := func(e field.Element) { h.Write(e.Bytes()) }

	for _, root := range proof.LDETraceMerkleRoots {
		for _, e := range root {
			write(e)
		}
	}
	for _, root := range proof.CompositionPolyRoots {
		for _, e := range root {
			write(e)
		}
	}
	for _, root := range proof.FRILayerMerkleRoots {
		for _, e := range root {
			write(e)
		}
	}
	write(proof.FRILastValue)
	write(proof.CompositionPolyOODEvaluations[0])
	write(proof.CompositionPolyOODEvaluations[1])
	return h.Sum(nil)
}

// fibonacciAIR and fibonacciColumn mirror internal/starkcore/testutil's
// fixture; duplicated here in main rather than imported, since that fixture
// is intentionally test-only (see internal/starkcore/testutil's package
// comment) and this CLI is ordinary code, not a _test.go file.
type fibonacciAIR struct {
	traceLength int
}

func (f *fibonacciAIR) Context() air.Context {
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

func (f *fibonacciAIR) ComputeTransition(frame air.Frame) ([]field.Element, error) {
	row0, row1, row2 := frame.Rows[0], frame.Rows[1], frame.Rows[2]
	return []field.Element{row2[0].Sub(row1[0]).Sub(row0[0])}, nil
}

func (f *fibonacciAIR) BoundaryConstraints() []air.BoundaryConstraint {
	return []air.BoundaryConstraint{
		{Column: 0, Row: 0, Value: field.One},
		{Column: 0, Row: 1, Value: field.One},
	}
}

func fibonacciColumn(length int) []field.Element {
	col := make([]field.Element, length)
	col[0] = field.One
	col[1] = field.One
	for i := 2; i < length; i++ {
		col[i] = col[i-1].Add(col[i-2])
	}
	return col
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

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "starkcore-prove: error:", msg)
	os.Exit(1)
}
