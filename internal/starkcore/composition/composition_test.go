package composition

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/testutil"
)

func digestEqual(a, b hash.Digest) bool {
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func buildFixture(t *testing.T) (air.AIR, []*polynomial.Polynomial, [][]field.Element, *domain.Domain) {
	t.Helper()
	a := testutil.NewFibonacciAIR(8)
	d, err := domain.New(8, 2, field.New(3))
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}
	trace := testutil.Trace(8)
	traceSubgroup := d.TraceSubgroup()

	tracePolys := make([]*polynomial.Polynomial, len(trace))
	ldeTrace := make([][]field.Element, len(trace))
	for j, col := range trace {
		points := make([][2]field.Element, len(col))
		for i, v := range col {
			points[i] = [2]field.Element{traceSubgroup[i], v}
		}
		p := polynomial.Interpolate(points)
		tracePolys[j] = p
		lde := d.LDECoset()
		evals := make([]field.Element, len(lde))
		for i, x := range lde {
			evals[i] = p.Evaluate(x)
		}
		ldeTrace[j] = evals
	}
	return a, tracePolys, ldeTrace, d
}

func sampleChallenges(a air.AIR) Challenges {
	ctx := a.Context()
	mk := func(n int, seed uint64) []field.Element {
		out := make([]field.Element, n)
		for i := range out {
			out[i] = field.New(seed + uint64(i)*13 + 1)
		}
		return out
	}
	return Challenges{
		BoundaryAlpha:   mk(ctx.NumColumns, 101),
		BoundaryBeta:    mk(ctx.NumColumns, 201),
		TransitionAlpha: mk(ctx.NumTransitionConstraints, 301),
		TransitionBeta:  mk(ctx.NumTransitionConstraints, 401),
	}
}

func TestBuildSucceedsForValidTrace(t *testing.T) {
	a, tracePolys, ldeTrace, d := buildFixture(t)
	ch := sampleChallenges(a)

	result, err := Build(a, tracePolys, ldeTrace, d, ch)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.H1 == nil || result.H2 == nil {
		t.Fatal("Build returned nil H1 or H2")
	}
	if digestEqual(result.Roots[0], result.Roots[1]) {
		t.Fatal("H1 and H2 committed to the same root")
	}

	// baseDegree = 7, transition termDeg = 1*7 - (8-2) = 1, boundary
	// termDeg = 7 - 1 = 6, so D_H = 6.
	if result.Degree != 6 {
		t.Errorf("Degree = %d, want 6", result.Degree)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a, tracePolys, ldeTrace, d := buildFixture(t)
	ch := sampleChallenges(a)

	r1, err := Build(a, tracePolys, ldeTrace, d, ch)
	if err != nil {
		t.Fatalf("Build (first): %v", err)
	}
	r2, err := Build(a, tracePolys, ldeTrace, d, ch)
	if err != nil {
		t.Fatalf("Build (second): %v", err)
	}
	if !digestEqual(r1.Roots[0], r2.Roots[0]) || !digestEqual(r1.Roots[1], r2.Roots[1]) {
		t.Fatal("Build on identical inputs produced different roots")
	}
}

func TestBuildRejectsColumnCountMismatch(t *testing.T) {
	a, tracePolys, ldeTrace, d := buildFixture(t)
	ch := sampleChallenges(a)

	if _, err := Build(a, tracePolys, ldeTrace[:0], d, ch); err == nil {
		t.Fatal("Build succeeded with a mismatched LDE trace column count, want error")
	}
}

func TestBuildRejectsChallengeCountMismatch(t *testing.T) {
	a, tracePolys, ldeTrace, d := buildFixture(t)
	ch := sampleChallenges(a)
	ch.TransitionAlpha = ch.TransitionAlpha[:0]

	if _, err := Build(a, tracePolys, ldeTrace, d, ch); err == nil {
		t.Fatal("Build succeeded with too few transition alpha challenges, want error")
	}
}

func TestBuildRejectsBoundaryChallengeCountMismatchedToColumns(t *testing.T) {
	// The Fibonacci fixture has one column but two boundary constraints
	// on that column: the boundary alpha/beta vectors must be sized to
	// the column count, not the boundary-constraint count.
	a, tracePolys, ldeTrace, d := buildFixture(t)
	ch := sampleChallenges(a)
	ch.BoundaryAlpha = append(ch.BoundaryAlpha, field.New(999))

	if _, err := Build(a, tracePolys, ldeTrace, d, ch); err == nil {
		t.Fatal("Build succeeded with a boundary alpha vector sized to the boundary-constraint count rather than the column count, want error")
	}
}

func TestBoundaryConstraintsOnTheSameColumnShareAChallengePair(t *testing.T) {
	// FibonacciAIR has one column (W=1) and two boundary constraints
	// (t(0)=1, t(1)=1) both on column 0: both must be folded with the
	// single challenge pair for column 0, not two independent pairs.
	a, tracePolys, ldeTrace, d := buildFixture(t)
	boundary := a.BoundaryConstraints()
	if len(boundary) != 2 {
		t.Fatalf("fixture has %d boundary constraints, want 2", len(boundary))
	}
	if boundary[0].Column != boundary[1].Column {
		t.Fatalf("fixture boundary constraints are not on the same column: %d, %d", boundary[0].Column, boundary[1].Column)
	}

	ch := sampleChallenges(a)
	if len(ch.BoundaryAlpha) != 1 || len(ch.BoundaryBeta) != 1 {
		t.Fatalf("len(BoundaryAlpha/Beta) = %d/%d, want 1/1 for a single-column AIR", len(ch.BoundaryAlpha), len(ch.BoundaryBeta))
	}

	if _, err := Build(a, tracePolys, ldeTrace, d, ch); err != nil {
		t.Fatalf("Build: %v", err)
	}
}
