// Package prover orchestrates the domain, transcript, commitment,
// composition, DEEP and FRI packages into four fixed-order rounds that
// produce a STARK proof: derive domains, commit the trace, sample
// challenges and commit the composition polynomial, sample the
// out-of-domain point, then run DEEP and FRI and assemble the proof.
package prover

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/commitment"
	"github.com/vybium/starkcore/internal/starkcore/composition"
	"github.com/vybium/starkcore/internal/starkcore/deep"
	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/fri"
	"github.com/vybium/starkcore/internal/starkcore/starkerr"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// Options configures a proving run: the LDE blowup factor, the number of
// FRI queries to open, and the coset offset the LDE domain is shifted by.
type Options struct {
	BlowupFactor int
	NumQueries   int
	CosetOffset  field.Element
}

// Proof is the complete artifact a verifier needs: every Merkle root the
// prover committed to, the out-of-domain evaluations that pin the trace and
// composition polynomials to a random point, and the FRI query transcript
// that binds everything to a low-degree codeword.
type Proof struct {
	LDETraceMerkleRoots           []hash.Digest
	CompositionPolyRoots          [2]hash.Digest
	FRILayerMerkleRoots           []hash.Digest
	FRILastValue                  field.Element
	TraceOODFrameEvaluations      map[int][]field.Element
	CompositionPolyOODEvaluations [2]field.Element
	DeepConsistencyCheck          *fri.DeepConsistencyCheck
	QueryList                     []fri.Query
}

func newTranscript() transcript.Transcript {
	return transcript.New()
}

// Prove runs the four-round STARK proving protocol over trace (one slice of
// field elements per column, every column the same length) against air.
func Prove(trace [][]field.Element, a air.AIR, opts Options) (*Proof, error) {
	ctx := a.Context()
	if len(trace) == 0 {
		return nil, fmt.Errorf("prover: trace has no columns: %w", starkerr.ErrConfiguration)
	}
	if len(trace) != ctx.NumColumns {
		return nil, fmt.Errorf("prover: trace has %d columns, air expects %d: %w", len(trace), ctx.NumColumns, starkerr.ErrAIRContractViolation)
	}
	traceLength := len(trace[0])
	for col, c := range trace {
		if len(c) != traceLength {
			return nil, fmt.Errorf("prover: column %d has length %d, want %d: %w", col, len(c), traceLength, starkerr.ErrAIRContractViolation)
		}
	}
	if traceLength != ctx.TraceLength {
		return nil, fmt.Errorf("prover: trace length %d does not match air context length %d: %w", traceLength, ctx.TraceLength, starkerr.ErrAIRContractViolation)
	}

	d, err := domain.New(traceLength, opts.BlowupFactor, opts.CosetOffset)
	if err != nil {
		return nil, fmt.Errorf("prover: %w", err)
	}

	t := newTranscript()

	// Round 1: interpolate and low-degree-extend every trace column,
	// commit each column independently, absorb the roots in column order.
	tracePolys := make([]*polynomial.Polynomial, ctx.NumColumns)
	ldeTrace := make([][]field.Element, ctx.NumColumns)
	traceSubgroup := d.TraceSubgroup()
	ldeCoset := d.LDECoset()

	for j, col := range trace {
		points := make([][2]field.Element, traceLength)
		for i, x := range traceSubgroup {
			points[i] = [2]field.Element{x, col[i]}
		}
		tracePolys[j] = polynomial.Interpolate(points)

		evals := make([]field.Element, d.LDESize)
		for i, x := range ldeCoset {
			evals[i] = tracePolys[j].Evaluate(x)
		}
		ldeTrace[j] = evals
	}

	traceTrees, traceRoots, err := commitment.BatchCommit(ldeTrace)
	if err != nil {
		return nil, fmt.Errorf("prover: committing trace columns: %w", err)
	}
	for _, root := range traceRoots {
		t.AbsorbDigest(root)
	}

	// Round 2: sample boundary and transition challenges (boundary alpha
	// and beta are each length W, one pair per trace column), build and
	// commit the composition polynomial, absorb its two roots.
	challenges := composition.Challenges{
		BoundaryAlpha:   sampleFieldElements(t, ctx.NumColumns),
		BoundaryBeta:    sampleFieldElements(t, ctx.NumColumns),
		TransitionAlpha: sampleFieldElements(t, ctx.NumTransitionConstraints),
		TransitionBeta:  sampleFieldElements(t, ctx.NumTransitionConstraints),
	}
	comp, err := composition.Build(a, tracePolys, ldeTrace, d, challenges)
	if err != nil {
		return nil, fmt.Errorf("prover: %w", err)
	}
	t.AbsorbDigest(comp.Roots[0])
	t.AbsorbDigest(comp.Roots[1])

	// Round 3: sample the out-of-domain point z, rejecting samples that
	// fall in either the trace subgroup or the LDE coset so the divisions
	// in the composition and DEEP steps never hit a zero denominator.
	z := sampleOODPoint(t, d)

	h1AtZ2 := comp.H1.Evaluate(z.Mul(z))
	h2AtZ2 := comp.H2.Evaluate(z.Mul(z))
	t.AbsorbFieldElements([]field.Element{h1AtZ2, h2AtZ2})

	ood := deep.Evaluate(a, tracePolys, d, z, comp.H1, comp.H2)
	for _, m := range ctx.TransitionOffsets {
		t.AbsorbFieldElements(ood.TraceAt[m])
	}

	// Round 4: sample the DEEP coefficients, build the DEEP composition
	// polynomial, run FRI's commit and query phases, and assemble the
	// final proof.
	lambda := sampleFieldElements(t, ctx.NumColumns*len(ctx.TransitionOffsets))
	gamma1 := t.ChallengeField()
	gamma2 := t.ChallengeField()

	p, err := deep.Compose(a, tracePolys, d, z, ood, comp.H1, comp.H2, lambda, gamma1, gamma2)
	if err != nil {
		return nil, fmt.Errorf("prover: %w", err)
	}

	commitResult, err := fri.Commit(p.Coefficients(), d.CosetOffset, d.LDEGenerator, d.LDESize, t)
	if err != nil {
		return nil, fmt.Errorf("prover: %w", err)
	}

	queries, deepCheck, err := fri.Query(
		commitResult, opts.NumQueries,
		traceTrees, ldeTrace,
		comp.Trees[0], comp.Trees[1], comp.H1Evals, comp.H2Evals,
		t,
	)
	if err != nil {
		return nil, fmt.Errorf("prover: %w", err)
	}

	friRoots := make([]hash.Digest, len(commitResult.Layers))
	for i, l := range commitResult.Layers {
		friRoots[i] = l.Root
	}

	return &Proof{
		LDETraceMerkleRoots:           traceRoots,
		CompositionPolyRoots:          comp.Roots,
		FRILayerMerkleRoots:           friRoots,
		FRILastValue:                  commitResult.FinalValue,
		TraceOODFrameEvaluations:      ood.TraceAt,
		CompositionPolyOODEvaluations: [2]field.Element{h1AtZ2, h2AtZ2},
		DeepConsistencyCheck:          deepCheck,
		QueryList:                     queries,
	}, nil
}

func sampleFieldElements(t transcript.Transcript, n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = t.ChallengeField()
	}
	return out
}

// sampleOODPoint draws z from the transcript, re-drawing whenever it lands
// in the trace subgroup or the LDE coset, where the composition and DEEP
// quotients' denominators would vanish.
func sampleOODPoint(t transcript.Transcript, d *domain.Domain) field.Element {
	for {
		z := t.ChallengeField()
		if z.IsZero() {
			continue
		}
		if d.InTraceSubgroup(z) || d.InLDECoset(z) {
			continue
		}
		return z
	}
}
