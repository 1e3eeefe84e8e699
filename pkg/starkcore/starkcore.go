// Package starkcore is the public entry point for the prover: it exposes
// Prove, the AIR capability interface a caller's algebraic intermediate
// representation must satisfy, and the typed error taxonomy every failure
// mode maps to. Everything else — domain construction, the transcript,
// commitment, composition, DEEP and FRI packages — lives under internal/
// and is reachable only through this package.
package starkcore

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/prover"
)

// AIR is the contract a caller's algebraic intermediate representation must
// satisfy. See internal/starkcore/air for the full documentation of
// Context, Frame and BoundaryConstraint.
type AIR = air.AIR

// Context is the static shape of an AIR.
type Context = air.Context

// Frame carries the trace rows a transition constraint reads at one point.
type Frame = air.Frame

// BoundaryConstraint pins one trace cell to a fixed value.
type BoundaryConstraint = air.BoundaryConstraint

// TraceTable is an execution trace, one slice of field elements per column;
// every column must have the same length (column-major, not row-major).
type TraceTable [][]field.Element

// ProofOptions configures a proving run.
type ProofOptions struct {
	// BlowupFactor is the LDE expansion factor b; must be 2, 4, 8 or 16.
	BlowupFactor int

	// NumQueries is the number of FRI queries to open.
	NumQueries int

	// CosetOffset is the multiplicative shift h applied to the LDE
	// domain so it is disjoint from the trace subgroup.
	CosetOffset field.Element
}

// Proof is the complete proof artifact. See internal/starkcore/prover.Proof
// for field documentation.
type Proof = prover.Proof

// Prove runs the STARK proving pipeline over trace against air, producing a
// Proof or an error drawn from this package's error taxonomy.
func Prove(trace TraceTable, a AIR, opts ProofOptions) (*Proof, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return prover.Prove(trace, a, prover.Options{
		BlowupFactor: opts.BlowupFactor,
		NumQueries:   opts.NumQueries,
		CosetOffset:  opts.CosetOffset,
	})
}
