// Package deep builds the DEEP (Domain Extending for Eliminating Pretenders)
// composition polynomial that ties the trace and composition polynomials'
// out-of-domain evaluations into the codeword FRI will check for low
// degree, via exact quotients divided out at the out-of-domain point z.
package deep

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/domain"
	"github.com/vybium/starkcore/internal/starkcore/poly"
	"github.com/vybium/starkcore/internal/starkcore/starkerr"
)

// OODFrame holds the trace and composition polynomials' evaluations at the
// out-of-domain point z, in the exact nesting order Round 3 of the
// orchestrator absorbs them.
type OODFrame struct {
	// TraceAt[m][j] = t_j(z * g^m), m ranging over the AIR's transition
	// offsets (outer), j over the trace columns (inner).
	TraceAt map[int][]field.Element
	H1AtZ2  field.Element
	H2AtZ2  field.Element
}

// Evaluate computes the out-of-domain frame at point z for every offset the
// AIR's transitions reach.
func Evaluate(a air.AIR, tracePolys []*polynomial.Polynomial, d *domain.Domain, z field.Element, h1, h2 *polynomial.Polynomial) OODFrame {
	ctx := a.Context()
	traceAt := make(map[int][]field.Element, len(ctx.TransitionOffsets))
	for _, m := range ctx.TransitionOffsets {
		point := z.Mul(domain.Pow(d.TraceGenerator, m))
		row := make([]field.Element, ctx.NumColumns)
		for j, p := range tracePolys {
			row[j] = p.Evaluate(point)
		}
		traceAt[m] = row
	}
	z2 := z.Mul(z)
	return OODFrame{
		TraceAt: traceAt,
		H1AtZ2:  h1.Evaluate(z2),
		H2AtZ2:  h2.Evaluate(z2),
	}
}

// Compose builds P(X) = sum_{j,m} lambda_{j,m} * T_{j,m}(X) + gamma1*U1(X) +
// gamma2*U2(X), where:
//
//	T_{j,m}(X) = (t_j(X) - t_j(z*g^m)) / (X - z*g^m)
//	U1(X)      = (H1(X) - H1(z^2)) / (X - z^2)
//	U2(X)      = (H2(X) - H2(z^2)) / (X - z^2)
//
// lambda is indexed flat, j*|offsets| + m_idx, matching the order the
// orchestrator samples lambda in (column outer, offset inner).
func Compose(
	a air.AIR,
	tracePolys []*polynomial.Polynomial,
	d *domain.Domain,
	z field.Element,
	ood OODFrame,
	h1, h2 *polynomial.Polynomial,
	lambda []field.Element,
	gamma1, gamma2 field.Element,
) (*polynomial.Polynomial, error) {
	ctx := a.Context()
	offsets := ctx.TransitionOffsets
	if len(lambda) != ctx.NumColumns*len(offsets) {
		return nil, fmt.Errorf("deep: expected %d lambda challenges, got %d: %w", ctx.NumColumns*len(offsets), len(lambda), starkerr.ErrInternalInvariant)
	}

	var acc []field.Element
	for j, tp := range tracePolys {
		for mi, m := range offsets {
			point := z.Mul(domain.Pow(d.TraceGenerator, m))
			value := ood.TraceAt[m][j]

			numerator := poly.Trim(append([]field.Element(nil), tp.Coefficients()...))
			shifted := make([]field.Element, len(numerator))
			copy(shifted, numerator)
			shifted[0] = shifted[0].Sub(value)

			quotient, err := poly.DivLinear(shifted, point)
			if err != nil {
				return nil, fmt.Errorf("deep: T_{%d,%d}: %w", j, m, err)
			}

			lam := lambda[j*len(offsets)+mi]
			acc = poly.AddScaled(acc, quotient, lam)
		}
	}

	z2 := z.Mul(z)
	u1Num := poly.Trim(append([]field.Element(nil), h1.Coefficients()...))
	u1Num[0] = u1Num[0].Sub(ood.H1AtZ2)
	u1, err := poly.DivLinear(u1Num, z2)
	if err != nil {
		return nil, fmt.Errorf("deep: U1: %w", err)
	}
	acc = poly.AddScaled(acc, u1, gamma1)

	u2Num := poly.Trim(append([]field.Element(nil), h2.Coefficients()...))
	u2Num[0] = u2Num[0].Sub(ood.H2AtZ2)
	u2, err := poly.DivLinear(u2Num, z2)
	if err != nil {
		return nil, fmt.Errorf("deep: U2: %w", err)
	}
	acc = poly.AddScaled(acc, u2, gamma2)

	return polynomial.New(poly.Trim(acc)), nil
}
