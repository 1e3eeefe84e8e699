package prover

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/testutil"
)

func fibonacciOptions() Options {
	return Options{BlowupFactor: 2, NumQueries: 1, CosetOffset: field.New(3)}
}

func TestProveSucceedsOnValidFibonacciTrace(t *testing.T) {
	a := testutil.NewFibonacciAIR(8)
	trace := testutil.Trace(8)

	proof, err := Prove(trace, a, fibonacciOptions())
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if len(proof.LDETraceMerkleRoots) != 1 {
		t.Errorf("len(LDETraceMerkleRoots) = %d, want 1", len(proof.LDETraceMerkleRoots))
	}
	if len(proof.FRILayerMerkleRoots) == 0 {
		t.Error("Prove produced no FRI layer roots")
	}
	if len(proof.QueryList) != 1 {
		t.Errorf("len(QueryList) = %d, want 1", len(proof.QueryList))
	}
}

func TestProveIsDeterministic(t *testing.T) {
	// S3: proving the same trace twice produces byte-for-byte identical
	// commitments and out-of-domain evaluations.
	a := testutil.NewFibonacciAIR(8)
	trace := testutil.Trace(8)
	opts := fibonacciOptions()

	p1, err := Prove(trace, a, opts)
	if err != nil {
		t.Fatalf("Prove (first): %v", err)
	}
	p2, err := Prove(trace, a, opts)
	if err != nil {
		t.Fatalf("Prove (second): %v", err)
	}

	if !digestSliceEqual(p1.LDETraceMerkleRoots, p2.LDETraceMerkleRoots) {
		t.Error("trace Merkle roots differ between identical proving runs")
	}
	if !digestEqual(p1.CompositionPolyRoots[0], p2.CompositionPolyRoots[0]) ||
		!digestEqual(p1.CompositionPolyRoots[1], p2.CompositionPolyRoots[1]) {
		t.Error("composition Merkle roots differ between identical proving runs")
	}
	if !p1.FRILastValue.Equal(p2.FRILastValue) {
		t.Error("FRI final value differs between identical proving runs")
	}
	if !p1.CompositionPolyOODEvaluations[0].Equal(p2.CompositionPolyOODEvaluations[0]) ||
		!p1.CompositionPolyOODEvaluations[1].Equal(p2.CompositionPolyOODEvaluations[1]) {
		t.Error("composition OOD evaluations differ between identical proving runs")
	}
}

func digestEqual(a, b hash.Digest) bool {
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func digestSliceEqual(a, b []hash.Digest) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !digestEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestProveRejectsEmptyTrace(t *testing.T) {
	a := testutil.NewFibonacciAIR(8)
	if _, err := Prove(nil, a, fibonacciOptions()); err == nil {
		t.Fatal("Prove succeeded with an empty trace, want error")
	}
}

func TestProveRejectsTraceLengthMismatch(t *testing.T) {
	a := testutil.NewFibonacciAIR(8)
	trace := testutil.Trace(4) // air is sized for 8 rows
	if _, err := Prove(trace, a, fibonacciOptions()); err == nil {
		t.Fatal("Prove succeeded with a trace length that does not match the air's context, want error")
	}
}

func TestProveRejectsColumnCountMismatch(t *testing.T) {
	a := testutil.NewFibonacciAIR(8)
	trace := testutil.Trace(8)
	trace = append(trace, trace[0]) // air expects 1 column, not 2
	if _, err := Prove(trace, a, fibonacciOptions()); err == nil {
		t.Fatal("Prove succeeded with an extra trace column, want error")
	}
}

func TestTraceInterpolationRoundTrips(t *testing.T) {
	// S5: interpolating a trace column over the trace subgroup and
	// re-evaluating at each subgroup point recovers the original column.
	d, err := domain.New(8, 2, field.New(3))
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}
	trace := testutil.Trace(8)
	traceSubgroup := d.TraceSubgroup()

	for colIdx, col := range trace {
		points := make([][2]field.Element, len(col))
		for i, x := range traceSubgroup {
			points[i] = [2]field.Element{x, col[i]}
		}
		p := polynomial.Interpolate(points)
		for i, x := range traceSubgroup {
			got := p.Evaluate(x)
			if !got.Equal(col[i]) {
				t.Errorf("column %d: interpolated polynomial at row %d = %v, want %v", colIdx, i, got, col[i])
			}
		}
	}
}

func TestSampleOODPointAvoidsBothDomains(t *testing.T) {
	d, err := domain.New(8, 2, field.New(3))
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}
	tr := newTranscript()
	for i := 0; i < 32; i++ {
		z := sampleOODPoint(tr, d)
		if z.IsZero() {
			t.Fatal("sampleOODPoint returned zero")
		}
		if d.InTraceSubgroup(z) {
			t.Fatalf("sampleOODPoint returned a point in the trace subgroup: %v", z)
		}
		if d.InLDECoset(z) {
			t.Fatalf("sampleOODPoint returned a point in the LDE coset: %v", z)
		}
	}
}
