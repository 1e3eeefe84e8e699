// Package air defines the capability interface the composition, DEEP and
// orchestrator packages use to evaluate an algebraic intermediate
// representation. The concrete AIR (constraint degrees, transition logic,
// boundary conditions) is supplied by the caller of pkg/starkcore.Prove; this
// package ships no AIR of its own.
package air

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Context describes the static shape of an AIR: how many columns the trace
// has, which relative row offsets its transition constraints reach across,
// and the exemption points that keep boundary rows out of the transition
// vanishing polynomial's domain.
type Context struct {
	// TraceLength is the trace row count L; the prover applies no padding,
	// so the trace it is given must have exactly this many rows.
	TraceLength int

	// NumColumns is the trace width W.
	NumColumns int

	// TransitionOffsets lists the relative row offsets (0, 1, 2, ...) a
	// transition constraint frame reaches. {0, 1} means every constraint
	// reads only the current and next row.
	TransitionOffsets []int

	// NumTransitionConstraints is n_T, the number of values
	// ComputeTransition is expected to return per frame.
	NumTransitionConstraints int

	// TransitionDegrees gives, for each transition constraint, the degree
	// of that constraint as a multiple of the trace interpolant's degree.
	// Used to compute the degree-adjustment exponents of the composition
	// polynomial.
	TransitionDegrees []int

	// TransitionExemptions lists, for each transition constraint, the
	// trace-subgroup points the constraint's vanishing polynomial must
	// additionally divide out (typically the last len(TransitionOffsets)-1
	// rows, where the frame would reach past the end of the trace).
	TransitionExemptions [][]field.Element
}

// Frame carries the trace rows a transition constraint needs at one LDE
// domain point x: Rows[m] is the row [t_0(x*g^m), ..., t_{W-1}(x*g^m)] for
// each offset m in Context.TransitionOffsets.
type Frame struct {
	Rows map[int][]field.Element
}

// BoundaryConstraint pins trace column Column at row Row to Value.
type BoundaryConstraint struct {
	Column int
	Row    int
	Value  field.Element
}

// AIR is the contract an execution trace's algebraic constraints must
// satisfy to be provable. It mirrors the three-method external interface of
// a STARK AIR: static context, per-frame transition evaluation, and the
// fixed set of boundary constraints.
type AIR interface {
	// Context returns the AIR's static shape.
	Context() Context

	// ComputeTransition evaluates every transition constraint at the given
	// frame, returning Context().NumTransitionConstraints values. An error
	// signals the frame did not carry the rows the AIR needed.
	ComputeTransition(frame Frame) ([]field.Element, error)

	// BoundaryConstraints returns the fixed list of (column, row, value)
	// boundary conditions the trace must satisfy.
	BoundaryConstraints() []BoundaryConstraint
}
