package starkcore

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/starkerr"
)

// The four error classes a proving run can fail with. Every error Prove
// returns wraps exactly one of these with errors.Is.
var (
	// ErrConfiguration is returned for an invalid ProofOptions value: a
	// blowup factor outside {2, 4, 8, 16}, a query count outside [1, 256],
	// or a coset offset that is zero or collides with the trace subgroup.
	ErrConfiguration = starkerr.ErrConfiguration

	// ErrAIRContractViolation is returned when the supplied trace or AIR
	// implementation does not honor the shape the AIR itself declared.
	ErrAIRContractViolation = starkerr.ErrAIRContractViolation

	// ErrArithmetic is returned when a field operation that should have
	// been well-defined was not, almost always an out-of-domain sample
	// landing somewhere it should have been rejected.
	ErrArithmetic = starkerr.ErrArithmetic

	// ErrInternalInvariant is returned when the prover itself produced a
	// result inconsistent with its own preconditions.
	ErrInternalInvariant = starkerr.ErrInternalInvariant
)

// allowedBlowupFactors is the set of LDE blowup factors the prover accepts:
// {2, 4, 8, 16}, not merely "a power of two".
var allowedBlowupFactors = map[int]bool{2: true, 4: true, 8: true, 16: true}

// maxFRIQueries is the upper bound on NumQueries.
const maxFRIQueries = 256

// validateOptions rejects an invalid ProofOptions value before any domain
// or transcript work begins.
func validateOptions(opts ProofOptions) error {
	if !allowedBlowupFactors[opts.BlowupFactor] {
		return fmt.Errorf("starkcore: blowup factor %d must be one of {2, 4, 8, 16}: %w", opts.BlowupFactor, ErrConfiguration)
	}
	if opts.NumQueries <= 0 || opts.NumQueries > maxFRIQueries {
		return fmt.Errorf("starkcore: number of queries %d must be in [1, %d]: %w", opts.NumQueries, maxFRIQueries, ErrConfiguration)
	}
	if opts.CosetOffset.IsZero() {
		return fmt.Errorf("starkcore: coset offset must be nonzero: %w", ErrConfiguration)
	}
	return nil
}
