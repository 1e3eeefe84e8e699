package starkcore_test

import (
	"errors"
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/starkcore/internal/starkcore/testutil"
	"github.com/vybium/starkcore/pkg/starkcore"
)

func TestProveThroughPublicAPI(t *testing.T) {
	a := testutil.NewFibonacciAIR(8)
	trace := starkcore.TraceTable(testutil.Trace(8))
	opts := starkcore.ProofOptions{BlowupFactor: 2, NumQueries: 1, CosetOffset: field.New(3)}

	proof, err := starkcore.Prove(trace, a, opts)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if len(proof.LDETraceMerkleRoots) != 1 {
		t.Errorf("len(LDETraceMerkleRoots) = %d, want 1", len(proof.LDETraceMerkleRoots))
	}
}

func TestProveRejectsInvalidOptions(t *testing.T) {
	a := testutil.NewFibonacciAIR(8)
	trace := starkcore.TraceTable(testutil.Trace(8))

	cases := []struct {
		name string
		opts starkcore.ProofOptions
	}{
		{"non-power-of-two blowup", starkcore.ProofOptions{BlowupFactor: 3, NumQueries: 1, CosetOffset: field.New(3)}},
		{"power-of-two blowup outside {2,4,8,16}", starkcore.ProofOptions{BlowupFactor: 32, NumQueries: 1, CosetOffset: field.New(3)}},
		{"zero queries", starkcore.ProofOptions{BlowupFactor: 2, NumQueries: 0, CosetOffset: field.New(3)}},
		{"too many queries", starkcore.ProofOptions{BlowupFactor: 2, NumQueries: 257, CosetOffset: field.New(3)}},
		{"zero coset offset", starkcore.ProofOptions{BlowupFactor: 2, NumQueries: 1, CosetOffset: field.Zero}},
		{"coset offset in the trace subgroup", starkcore.ProofOptions{BlowupFactor: 2, NumQueries: 1, CosetOffset: field.PrimitiveRootOfUnity(8)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := starkcore.Prove(trace, a, c.opts)
			if err == nil {
				t.Fatal("Prove succeeded, want error")
			}
			if !errors.Is(err, starkcore.ErrConfiguration) {
				t.Errorf("error %v does not wrap ErrConfiguration", err)
			}
		})
	}
}
