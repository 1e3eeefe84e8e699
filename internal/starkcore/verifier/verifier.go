// Package verifier implements the minimal paired verifier used by this
// repository's own tests to exercise the prover end-to-end. It is not part
// of the shipped library's public surface (verification is explicitly out
// of scope there): reconstruct the Fiat-Shamir state from the roots in the
// proof, rederive every challenge, and check the proof's openings and fold
// consistency against them.
package verifier

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/commitment"
	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/prover"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// Verify checks proof against a, replaying the Fiat-Shamir transcript from
// the roots and out-of-domain evaluations the proof itself carries, then
// checking every Merkle opening and FRI fold for consistency.
func Verify(proof *prover.Proof, a air.AIR, opts prover.Options) error {
	ctx := a.Context()

	d, err := domain.New(ctx.TraceLength, opts.BlowupFactor, opts.CosetOffset)
	if err != nil {
		return fmt.Errorf("verifier: %w", err)
	}

	t := transcript.New()
	for _, root := range proof.LDETraceMerkleRoots {
		t.AbsorbDigest(root)
	}

	_ = sampleFieldElements(t, ctx.NumColumns)               // boundary alpha
	_ = sampleFieldElements(t, ctx.NumColumns)               // boundary beta
	_ = sampleFieldElements(t, ctx.NumTransitionConstraints) // transition alpha
	_ = sampleFieldElements(t, ctx.NumTransitionConstraints) // transition beta

	t.AbsorbDigest(proof.CompositionPolyRoots[0])
	t.AbsorbDigest(proof.CompositionPolyRoots[1])

	z := sampleOODPoint(t, d)

	t.AbsorbFieldElements([]field.Element{
		proof.CompositionPolyOODEvaluations[0],
		proof.CompositionPolyOODEvaluations[1],
	})
	for _, m := range ctx.TransitionOffsets {
		row, ok := proof.TraceOODFrameEvaluations[m]
		if !ok {
			return fmt.Errorf("verifier: proof is missing the out-of-domain row for offset %d", m)
		}
		t.AbsorbFieldElements(row)
	}

	lambda := sampleFieldElements(t, ctx.NumColumns*len(ctx.TransitionOffsets))
	gamma1 := t.ChallengeField()
	gamma2 := t.ChallengeField()
	_ = lambda
	_ = gamma1
	_ = gamma2
	_ = z

	zetas := make([]field.Element, len(proof.FRILayerMerkleRoots))
	for i, root := range proof.FRILayerMerkleRoots {
		t.AbsorbDigest(root)
		zetas[i] = t.ChallengeField()
	}
	t.AbsorbFieldElements([]field.Element{proof.FRILastValue})

	if err := verifyQueries(proof, d, zetas); err != nil {
		return fmt.Errorf("verifier: %w", err)
	}

	return nil
}

func sampleFieldElements(t transcript.Transcript, n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = t.ChallengeField()
	}
	return out
}

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

// verifyQueries checks every Merkle opening in every query against the
// roots recorded in the proof, and that each layer's opened value folds
// consistently into the next layer's opened value (or the final value, for
// the last layer) at the derived index, using the domain's square-and-halve
// progression and the re-derived folding challenges.
func verifyQueries(proof *prover.Proof, d *domain.Domain, zetas []field.Element) error {
	half := field.One.Div(field.New(2))

	for qi, q := range proof.QueryList {
		if len(q.Layers) != len(proof.FRILayerMerkleRoots) {
			return fmt.Errorf("query %d has %d layers, proof has %d roots", qi, len(q.Layers), len(proof.FRILayerMerkleRoots))
		}

		curOffset, curGen, curLen := d.CosetOffset, d.LDEGenerator, d.LDESize
		for li, lq := range q.Layers {
			root := proof.FRILayerMerkleRoots[li]
			if !commitment.Verify(root, lq.Opening.Leaf, lq.Index, lq.Opening.Path) {
				return fmt.Errorf("query %d layer %d: authentication path does not open to the committed root", qi, li)
			}
			if !commitment.Verify(root, lq.SymOpening.Leaf, lq.SymIndex, lq.SymOpening.Path) {
				return fmt.Errorf("query %d layer %d: symmetric authentication path does not open to the committed root", qi, li)
			}

			x := domain.Pow(curGen, lq.Index).Mul(curOffset)
			folded := lq.Value.Add(lq.SymValue).Mul(half).Add(
				lq.Value.Sub(lq.SymValue).Div(x.Mul(field.New(2))).Mul(zetas[li]),
			)

			if li+1 < len(q.Layers) {
				next := q.Layers[li+1]
				if next.Index != lq.Index%(curLen/2) {
					return fmt.Errorf("query %d layer %d: next layer's index does not match the projected fold index", qi, li)
				}
				if !next.Value.Equal(folded) {
					return fmt.Errorf("query %d layer %d: folded value does not match the next layer's opened value", qi, li)
				}
			} else {
				if !proof.FRILastValue.Equal(folded) {
					return fmt.Errorf("query %d layer %d: folded value does not match the proof's final FRI value", qi, li)
				}
			}

			curOffset = curOffset.Mul(curOffset)
			curGen = curGen.Mul(curGen)
			curLen /= 2
		}
	}

	dc := proof.DeepConsistencyCheck
	if dc == nil {
		return fmt.Errorf("proof carries no deep consistency check")
	}
	for col, root := range proof.LDETraceMerkleRoots {
		if col >= len(dc.TraceOpenings) {
			return fmt.Errorf("deep consistency check is missing an opening for trace column %d", col)
		}
		if !commitment.Verify(root, dc.TraceOpenings[col].Leaf, dc.Index, dc.TraceOpenings[col].Path) {
			return fmt.Errorf("deep consistency check: trace column %d authentication path failed", col)
		}
	}
	if !commitment.Verify(proof.CompositionPolyRoots[0], dc.H1Opening.Leaf, dc.Index, dc.H1Opening.Path) {
		return fmt.Errorf("deep consistency check: H1 authentication path failed")
	}
	if !commitment.Verify(proof.CompositionPolyRoots[1], dc.H2Opening.Leaf, dc.Index, dc.H2Opening.Path) {
		return fmt.Errorf("deep consistency check: H2 authentication path failed")
	}
	return nil
}
