// Package starkcore implements the prover half of a STARK: given an
// execution trace and an algebraic intermediate representation (AIR), it
// produces a proof of low-degree compliance via low-degree extension,
// Merkle commitment, the DEEP method, and FRI.
//
// # Quick Start
//
// Proving a trace against a caller-supplied AIR:
//
//	opts := starkcore.ProofOptions{
//		BlowupFactor: 8,
//		NumQueries:   32,
//		CosetOffset:  field.New(7),
//	}
//	proof, err := starkcore.Prove(trace, myAIR, opts)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Scope
//
// This package proves. It does not generate execution traces, does not
// supply example AIRs, and does not verify — the paired verifier lives
// under internal/starkcore/verifier and is used only by this module's own
// tests. Field arithmetic, the sponge hash, and polynomial interpolation are
// supplied by github.com/vybium/vybium-crypto; this package supplies the
// protocol built on top of them.
package starkcore
