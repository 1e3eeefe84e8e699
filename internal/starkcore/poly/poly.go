// Package poly supplies the coefficient-vector manipulation the
// composition and DEEP packages need beyond what vybium-crypto/polynomial
// exposes: accumulation with a scalar multiplier, even/odd degree splitting,
// and exact division by a single linear factor (X - a). None of this
// duplicates FFT or interpolation, which stay in vybium-crypto/polynomial.
package poly

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/starkcore/internal/starkcore/starkerr"
)

// AddScaled returns acc + scale*p, treating both as coefficient vectors
// (index i is the coefficient of X^i). acc is not mutated.
func AddScaled(acc []field.Element, p []field.Element, scale field.Element) []field.Element {
	n := len(acc)
	if len(p) > n {
		n = len(p)
	}
	out := make([]field.Element, n)
	copy(out, acc)
	for i := len(acc); i < n; i++ {
		out[i] = field.Zero
	}
	for i, c := range p {
		out[i] = out[i].Add(c.Mul(scale))
	}
	return out
}

// EvenOddSplit decomposes coefficient vector H into H1, H2 such that
// H(X) = H1(X^2) + X*H2(X^2): H1 collects the even-indexed coefficients,
// H2 the odd-indexed ones.
func EvenOddSplit(coeffs []field.Element) (even, odd []field.Element) {
	even = make([]field.Element, 0, (len(coeffs)+1)/2)
	odd = make([]field.Element, 0, len(coeffs)/2)
	for i, c := range coeffs {
		if i%2 == 0 {
			even = append(even, c)
		} else {
			odd = append(odd, c)
		}
	}
	return even, odd
}

// DivLinear divides coefficient vector p by the linear factor (X - a) via
// synthetic division, returning an error if the division is not exact
// (p(a) != 0). Callers that build the numerator as p(X) - p(a) are
// guaranteed an exact quotient by construction.
func DivLinear(coeffs []field.Element, a field.Element) ([]field.Element, error) {
	n := len(coeffs)
	if n == 0 {
		return nil, fmt.Errorf("poly: cannot divide an empty coefficient vector: %w", starkerr.ErrInternalInvariant)
	}
	quotient := make([]field.Element, n-1)
	remainder := coeffs[n-1]
	for i := n - 2; i >= 0; i-- {
		quotient[i] = remainder
		remainder = coeffs[i].Add(remainder.Mul(a))
	}
	if !remainder.IsZero() {
		return nil, fmt.Errorf("poly: division by (X - a) left a nonzero remainder: %w", starkerr.ErrArithmetic)
	}
	return quotient, nil
}

// Trim drops trailing zero coefficients, leaving the zero vector as a
// single-element slice [0] if every coefficient was zero.
func Trim(coeffs []field.Element) []field.Element {
	n := len(coeffs)
	for n > 1 && coeffs[n-1].IsZero() {
		n--
	}
	return coeffs[:n]
}
