// Package transcript implements the Fiat-Shamir transcript the prover uses
// to turn the interaction with a verifier into a deterministic function of
// the trace and AIR. It generalizes the sponge-chaining that is otherwise
// hand-rolled inline in a prover's sample-challenge/sample-OOD-point steps
// into a reusable capability type, so a test double can be substituted for
// the production sponge.
package transcript

import (
	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// Transcript absorbs prover messages and derives verifier challenges from
// them. Every challenge depends on everything absorbed before it: absorbing
// the same sequence of messages twice yields the same sequence of
// challenges, and changing any absorbed byte changes every challenge drawn
// after it.
type Transcript interface {
	// Absorb mixes raw bytes into the transcript state.
	Absorb(data []byte)

	// AbsorbDigest mixes a Merkle root (or any other hash digest) into the
	// transcript state.
	AbsorbDigest(d hash.Digest)

	// AbsorbFieldElements mixes a sequence of field elements into the
	// transcript state, in order.
	AbsorbFieldElements(elems []field.Element)

	// ChallengeField draws one pseudorandom field element.
	ChallengeField() field.Element

	// ChallengeIndex draws one pseudorandom index in [0, modulus).
	ChallengeIndex(modulus uint64) uint64
}

// fiatShamir is the production Transcript, chaining a Tip5-style sponge
// (hash.Hash10): each step re-hashes the running state together with the
// new input and keeps the first output limb as the new state.
type fiatShamir struct {
	state field.Element
}

// New returns the production transcript, seeded to the field's zero element.
func New() Transcript {
	return &fiatShamir{state: field.Zero}
}

func (t *fiatShamir) mix(in field.Element) {
	var block [10]field.Element
	block[0] = t.state
	block[1] = in
	digest := hash.Hash10(block)
	t.state = digest[0]
}

// Absorb chunks data into 8-byte little-endian field elements, turning a
// Merkle root's raw bytes into sponge input.
func (t *fiatShamir) Absorb(data []byte) {
	for len(data) > 0 {
		var chunk [8]byte
		n := copy(chunk[:], data)
		data = data[n:]
		t.mix(field.FromBytes(chunk))
	}
}

func (t *fiatShamir) AbsorbDigest(d hash.Digest) {
	for _, e := range d {
		t.mix(e)
	}
}

func (t *fiatShamir) AbsorbFieldElements(elems []field.Element) {
	for _, e := range elems {
		t.mix(e)
	}
}

func (t *fiatShamir) ChallengeField() field.Element {
	var block [10]field.Element
	block[0] = t.state
	digest := hash.Hash10(block)
	t.state = digest[0]
	return digest[0]
}

func (t *fiatShamir) ChallengeIndex(modulus uint64) uint64 {
	return t.ChallengeField().Value() % modulus
}

// testStub is a second Transcript implementation used only by tests: it
// draws challenges from a sha3 chain instead of the production sponge,
// letting tests pin down challenge values without depending on the sponge's
// exact behavior.
type testStub struct {
	state [32]byte
}

// NewTestStub returns a deterministic, non-field-native transcript for
// tests that want predictable challenges without depending on the
// production sponge's exact behavior.
func NewTestStub() Transcript {
	return &testStub{}
}

func (t *testStub) absorbBytes(data []byte) {
	h := sha3.New256()
	h.Write(t.state[:])
	h.Write(data)
	copy(t.state[:], h.Sum(nil))
}

func (t *testStub) Absorb(data []byte) {
	t.absorbBytes(data)
}

func (t *testStub) AbsorbDigest(d hash.Digest) {
	for _, e := range d {
		t.absorbBytes(e.Bytes())
	}
}

func (t *testStub) AbsorbFieldElements(elems []field.Element) {
	for _, e := range elems {
		t.absorbBytes(e.Bytes())
	}
}

func (t *testStub) ChallengeField() field.Element {
	t.absorbBytes([]byte("challenge"))
	var chunk [8]byte
	copy(chunk[:], t.state[:8])
	return field.FromBytes(chunk)
}

func (t *testStub) ChallengeIndex(modulus uint64) uint64 {
	return t.ChallengeField().Value() % modulus
}
