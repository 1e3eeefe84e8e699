// Package starkerr defines the sentinel errors the prover's error taxonomy
// is built from. It exists as its own leaf package (rather than living in
// pkg/starkcore) so internal packages can wrap these sentinels directly
// without an import cycle back through the public package that depends on
// them.
package starkerr

import "errors"

var (
	// ErrConfiguration signals a ProofOptions or domain construction input
	// that is out of bounds (bad blowup factor, bad query count, a zero
	// coset offset).
	ErrConfiguration = errors.New("starkcore: configuration error")

	// ErrAIRContractViolation signals the AIR returned something that
	// violates the shape it declared in its own Context (wrong column
	// count, wrong transition-constraint count) or a trace that does not
	// match that shape.
	ErrAIRContractViolation = errors.New("starkcore: AIR contract violation")

	// ErrArithmetic signals a field operation that should have been
	// well-defined (an exact division) was not, most often because an
	// out-of-domain point or a constraint's vanishing polynomial
	// evaluated to zero where it should not have.
	ErrArithmetic = errors.New("starkcore: arithmetic error")

	// ErrInternalInvariant signals a bug in the prover itself: a
	// polynomial that should have folded to a constant but did not, a
	// proof assembly step that produced a mismatched shape.
	ErrInternalInvariant = errors.New("starkcore: internal invariant violation")
)
