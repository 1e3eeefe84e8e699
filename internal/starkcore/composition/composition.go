// Package composition builds the composition polynomial H that folds every
// transition and boundary constraint of an AIR into a single low-degree
// check, then splits it into its even/odd halves for commitment. The
// degree-adjusted per-constraint vanishing-polynomial division and the
// even/odd split implement the composition pass that sits between
// constraint evaluation and FRI.
package composition

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/commitment"
	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/poly"
	"github.com/vybium/starkcore/internal/starkcore/starkerr"
)

// Challenges bundles the randomness the orchestrator draws to fold every
// constraint into one polynomial: one (alpha, beta) pair per trace column
// (boundary, indexed by column) and one pair per transition constraint.
type Challenges struct {
	BoundaryAlpha   []field.Element
	BoundaryBeta    []field.Element
	TransitionAlpha []field.Element
	TransitionBeta  []field.Element
}

// Result is the composition polynomial, split into its even and odd halves
// and committed independently.
type Result struct {
	H1, H2           *polynomial.Polynomial
	H1Evals, H2Evals []field.Element
	Trees            [2]*commitment.Tree
	Roots            [2]hash.Digest
	Degree           int // D_H, the target degree every term is adjusted to
}

// Build evaluates H(x) = sum of degree-adjusted transition and boundary
// terms at every point of the LDE coset, interpolates the result, and
// splits it into H1, H2 such that H(X) = H1(X^2) + X*H2(X^2).
func Build(
	a air.AIR,
	tracePolys []*polynomial.Polynomial,
	ldeTrace [][]field.Element,
	d *domain.Domain,
	ch Challenges,
) (*Result, error) {
	ctx := a.Context()
	if len(ldeTrace) != ctx.NumColumns {
		return nil, fmt.Errorf("composition: lde trace has %d columns, want %d: %w", len(ldeTrace), ctx.NumColumns, starkerr.ErrAIRContractViolation)
	}

	boundary := a.BoundaryConstraints()
	if len(ch.BoundaryAlpha) != ctx.NumColumns || len(ch.BoundaryBeta) != ctx.NumColumns {
		return nil, fmt.Errorf("composition: boundary challenge count mismatch: %w", starkerr.ErrInternalInvariant)
	}
	if len(ch.TransitionAlpha) != ctx.NumTransitionConstraints || len(ch.TransitionBeta) != ctx.NumTransitionConstraints {
		return nil, fmt.Errorf("composition: transition challenge count mismatch: %w", starkerr.ErrInternalInvariant)
	}

	baseDegree := ctx.TraceLength - 1
	degreeH := targetDegree(ctx, boundary, baseDegree)

	lde := d.LDECoset()
	hEvals := make([]field.Element, d.LDESize)

	for i, x := range lde {
		transitionTerm, err := evaluateTransitionTerms(a, ldeTrace, d, i, x, ch, baseDegree, degreeH)
		if err != nil {
			return nil, fmt.Errorf("composition: point %d: %w", i, err)
		}
		boundaryTerm := evaluateBoundaryTerms(boundary, ldeTrace, x, i, d, ch, baseDegree, degreeH)
		hEvals[i] = transitionTerm.Add(boundaryTerm)
	}

	points := make([][2]field.Element, len(lde))
	for i, x := range lde {
		points[i] = [2]field.Element{x, hEvals[i]}
	}
	hPoly := polynomial.Interpolate(points)

	evenCoeffs, oddCoeffs := poly.EvenOddSplit(hPoly.Coefficients())
	h1 := polynomial.New(poly.Trim(evenCoeffs))
	h2 := polynomial.New(poly.Trim(oddCoeffs))

	h1Evals := evaluateAt(h1, lde)
	h2Evals := evaluateAt(h2, lde)

	trees, roots, err := commitment.BatchCommit([][]field.Element{h1Evals, h2Evals})
	if err != nil {
		return nil, fmt.Errorf("composition: committing H1/H2: %w", err)
	}

	return &Result{
		H1:      h1,
		H2:      h2,
		H1Evals: h1Evals,
		H2Evals: h2Evals,
		Trees:   [2]*commitment.Tree{trees[0], trees[1]},
		Roots:   [2]hash.Digest{roots[0], roots[1]},
		Degree:  degreeH,
	}, nil
}

func evaluateAt(p *polynomial.Polynomial, points []field.Element) []field.Element {
	out := make([]field.Element, len(points))
	for i, x := range points {
		out[i] = p.Evaluate(x)
	}
	return out
}

// targetDegree picks D_H as the maximum degree any single constraint's
// numerator/vanishing-polynomial quotient can reach, so every term's
// degree-adjustment exponent is non-negative.
func targetDegree(ctx air.Context, boundary []air.BoundaryConstraint, baseDegree int) int {
	degreeH := 0
	for k, mult := range ctx.TransitionDegrees {
		zDeg := ctx.TraceLength - len(ctx.TransitionExemptions[k])
		d := mult*baseDegree - zDeg
		if d > degreeH {
			degreeH = d
		}
	}
	for range boundary {
		d := baseDegree - 1
		if d > degreeH {
			degreeH = d
		}
	}
	return degreeH
}

// evaluateTransitionTerms evaluates sum_k (alpha_k * x^{d_k} + beta_k) *
// C_k(x)/Z_k(x) at LDE point x (index i within the LDE coset), building the
// frame directly from the LDE evaluations via x*g^m = h*ω^(i + m*b).
func evaluateTransitionTerms(
	a air.AIR,
	ldeTrace [][]field.Element,
	d *domain.Domain,
	i int,
	x field.Element,
	ch Challenges,
	baseDegree, degreeH int,
) (field.Element, error) {
	ctx := a.Context()
	rows := make(map[int][]field.Element, len(ctx.TransitionOffsets))
	for _, m := range ctx.TransitionOffsets {
		shifted := (i + m*d.BlowupFactor) % d.LDESize
		row := make([]field.Element, ctx.NumColumns)
		for j := 0; j < ctx.NumColumns; j++ {
			row[j] = ldeTrace[j][shifted]
		}
		rows[m] = row
	}

	values, err := a.ComputeTransition(air.Frame{Rows: rows})
	if err != nil {
		return field.Element{}, fmt.Errorf("air.ComputeTransition: %w: %w", err, starkerr.ErrAIRContractViolation)
	}
	if len(values) != ctx.NumTransitionConstraints {
		return field.Element{}, fmt.Errorf("air returned %d transition values, want %d: %w", len(values), ctx.NumTransitionConstraints, starkerr.ErrAIRContractViolation)
	}

	xL := domain.Pow(x, ctx.TraceLength)
	total := field.Zero
	for k, c := range values {
		zDenominator := field.One
		for _, p := range ctx.TransitionExemptions[k] {
			zDenominator = zDenominator.Mul(x.Sub(p))
		}
		z := xL.Sub(field.One).Div(zDenominator)
		if z.IsZero() {
			return field.Element{}, fmt.Errorf("transition constraint %d vanishes at an LDE point: %w", k, starkerr.ErrArithmetic)
		}
		quotient := c.Div(z)

		zDeg := ctx.TraceLength - len(ctx.TransitionExemptions[k])
		termDeg := ctx.TransitionDegrees[k]*baseDegree - zDeg
		adjustExp := degreeH - termDeg

		adjusted := ch.TransitionAlpha[k].Mul(domain.Pow(x, adjustExp)).Add(ch.TransitionBeta[k])
		total = total.Add(adjusted.Mul(quotient))
	}
	return total, nil
}

// evaluateBoundaryTerms evaluates sum_j (alpha_col * x^{e_j} + beta_col) *
// B_j(x)/(x - p_j) at LDE point x, where B_j(x) = t_col(x) - value,
// p_j = g^row, and alpha_col/beta_col are the challenge pair for the
// constraint's own column (one pair per trace column, not one pair per
// boundary constraint).
func evaluateBoundaryTerms(
	boundary []air.BoundaryConstraint,
	ldeTrace [][]field.Element,
	x field.Element,
	i int,
	d *domain.Domain,
	ch Challenges,
	baseDegree, degreeH int,
) field.Element {
	total := field.Zero
	for _, b := range boundary {
		p := domain.Pow(d.TraceGenerator, b.Row)
		numerator := ldeTrace[b.Column][i].Sub(b.Value)
		quotient := numerator.Div(x.Sub(p))

		termDeg := baseDegree - 1
		adjustExp := degreeH - termDeg
		adjusted := ch.BoundaryAlpha[b.Column].Mul(domain.Pow(x, adjustExp)).Add(ch.BoundaryBeta[b.Column])
		total = total.Add(adjusted.Mul(quotient))
	}
	return total
}
