// Package domain builds the trace subgroup and low-degree-extension coset
// the rest of the prover evaluates over.
package domain

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/starkcore/internal/starkcore/starkerr"
)

// Domain holds the trace subgroup <g> of order L and the coset h*<ω> of
// order L*b the trace is low-degree-extended into.
type Domain struct {
	// TraceLength is L, the number of rows in the execution trace.
	TraceLength int

	// BlowupFactor is b, the LDE expansion factor.
	BlowupFactor int

	// LDESize is L*b, the size of the low-degree-extension coset.
	LDESize int

	// TraceGenerator is g, a primitive L-th root of unity.
	TraceGenerator field.Element

	// LDEGenerator is ω, a primitive (L*b)-th root of unity, with
	// g = ω^b.
	LDEGenerator field.Element

	// CosetOffset is h, the multiplicative shift applied to the LDE
	// domain so it is disjoint from the trace subgroup.
	CosetOffset field.Element

	// RootOrder is log2(TraceLength), the order of TraceGenerator as a
	// power of two.
	RootOrder int

	// LDERootOrder is log2(LDESize).
	LDERootOrder int
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func log2(n int) int {
	order := 0
	for n > 1 {
		n >>= 1
		order++
	}
	return order
}

// New constructs the trace subgroup of order traceLength and the LDE coset
// of order traceLength*blowupFactor offset by cosetOffset. Both lengths must
// be powers of two, and cosetOffset must be nonzero and outside the trace
// subgroup (an offset of zero, or one of the subgroup's own elements, would
// collapse the LDE coset onto the trace subgroup).
func New(traceLength, blowupFactor int, cosetOffset field.Element) (*Domain, error) {
	if traceLength <= 0 || !isPowerOfTwo(traceLength) {
		return nil, fmt.Errorf("domain: trace length %d must be a positive power of two: %w", traceLength, starkerr.ErrConfiguration)
	}
	if blowupFactor <= 0 || !isPowerOfTwo(blowupFactor) {
		return nil, fmt.Errorf("domain: blowup factor %d must be a positive power of two: %w", blowupFactor, starkerr.ErrConfiguration)
	}
	if cosetOffset.IsZero() {
		return nil, fmt.Errorf("domain: coset offset must be nonzero: %w", starkerr.ErrConfiguration)
	}

	ldeSize := traceLength * blowupFactor
	g := field.PrimitiveRootOfUnity(uint64(traceLength))
	omega := field.PrimitiveRootOfUnity(uint64(ldeSize))

	d := &Domain{
		TraceLength:    traceLength,
		BlowupFactor:   blowupFactor,
		LDESize:        ldeSize,
		TraceGenerator: g,
		LDEGenerator:   omega,
		CosetOffset:    cosetOffset,
		RootOrder:      log2(traceLength),
		LDERootOrder:   log2(ldeSize),
	}
	if d.InTraceSubgroup(cosetOffset) {
		return nil, fmt.Errorf("domain: coset offset %v lies in the trace subgroup: %w", cosetOffset, starkerr.ErrConfiguration)
	}
	return d, nil
}

// TraceSubgroup returns [g^0, g^1, ..., g^(L-1)].
func (d *Domain) TraceSubgroup() []field.Element {
	elements := make([]field.Element, d.TraceLength)
	cur := field.One
	for i := 0; i < d.TraceLength; i++ {
		elements[i] = cur
		cur = cur.Mul(d.TraceGenerator)
	}
	return elements
}

// LDECoset returns [h*ω^0, h*ω^1, ..., h*ω^(L*b-1)].
func (d *Domain) LDECoset() []field.Element {
	elements := make([]field.Element, d.LDESize)
	cur := d.CosetOffset
	for i := 0; i < d.LDESize; i++ {
		elements[i] = cur
		cur = cur.Mul(d.LDEGenerator)
	}
	return elements
}

// InTraceSubgroup reports whether x equals one of the trace subgroup's own
// elements, tested by brute comparison — used to reject a coset offset inside
// the subgroup and to keep an out-of-domain sample point away from it.
func (d *Domain) InTraceSubgroup(x field.Element) bool {
	for _, e := range d.TraceSubgroup() {
		if e.Equal(x) {
			return true
		}
	}
	return false
}

// InLDECoset reports whether x is one of the LDE coset's own elements.
func (d *Domain) InLDECoset(x field.Element) bool {
	for _, e := range d.LDECoset() {
		if e.Equal(x) {
			return true
		}
	}
	return false
}

// Pow computes base^exp by repeated multiplication; the external field
// package exposes no exponentiation, so callers that need x^L for a fixed,
// modest exponent (vanishing-polynomial evaluation, domain folding) use this
// instead of round-tripping through a bridged field implementation.
func Pow(base field.Element, exp int) field.Element {
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
