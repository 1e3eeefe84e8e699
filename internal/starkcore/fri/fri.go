// Package fri implements the commit and query phases of FRI (Fast
// Reed-Solomon IOP of Proximity) over the DEEP composition polynomial: fold
// by even/odd split each round until the codeword collapses to a constant,
// then open symmetric-partner pairs at every layer for each sampled query
// index.
package fri

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/starkcore/internal/starkcore/commitment"
	"github.com/vybium/starkcore/internal/starkcore/poly"
	"github.com/vybium/starkcore/internal/starkcore/starkerr"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// Layer is one round of FRI's commit phase: the folded polynomial's
// evaluations over its (halved) domain, committed to a Merkle tree.
type Layer struct {
	Length     int
	Offset     field.Element
	Generator  field.Element
	Evaluations []field.Element
	Tree       *commitment.Tree
	Root       hash.Digest
}

// CommitResult is the full commit phase output: one layer per folding round
// plus the final constant value.
type CommitResult struct {
	Layers     []*Layer
	FinalValue field.Element
}

func evaluateOverDomain(coeffs []field.Element, offset, generator field.Element, length int) []field.Element {
	p := polynomial.New(coeffs)
	out := make([]field.Element, length)
	x := offset
	for i := 0; i < length; i++ {
		out[i] = p.Evaluate(x)
		x = x.Mul(generator)
	}
	return out
}

// Commit runs FRI's commit phase: fold the polynomial by half at each
// round, evaluating and Merkle-committing every intermediate codeword and
// absorbing its root before drawing the next folding challenge, until the
// domain collapses to a single point.
func Commit(p []field.Element, offset, generator field.Element, length int, t transcript.Transcript) (*CommitResult, error) {
	if length <= 1 || length&(length-1) != 0 {
		return nil, fmt.Errorf("fri: domain length %d must be a power of two greater than 1: %w", length, starkerr.ErrConfiguration)
	}

	coeffs := poly.Trim(append([]field.Element(nil), p...))
	var layers []*Layer

	curOffset, curGen, curLen := offset, generator, length
	for curLen > 1 {
		evals := evaluateOverDomain(coeffs, curOffset, curGen, curLen)
		tree, err := commitment.Commit(evals)
		if err != nil {
			return nil, fmt.Errorf("fri: committing layer of length %d: %w", curLen, err)
		}
		layer := &Layer{
			Length:      curLen,
			Offset:      curOffset,
			Generator:   curGen,
			Evaluations: evals,
			Tree:        tree,
			Root:        tree.Root(),
		}
		layers = append(layers, layer)
		t.AbsorbDigest(layer.Root)

		zeta := t.ChallengeField()
		even, odd := poly.EvenOddSplit(coeffs)
		coeffs = poly.Trim(poly.AddScaled(even, odd, zeta))

		curOffset = curOffset.Mul(curOffset)
		curGen = curGen.Mul(curGen)
		curLen /= 2
	}

	if len(coeffs) != 1 {
		return nil, fmt.Errorf("fri: folded to a non-constant polynomial of degree %d: %w", len(coeffs)-1, starkerr.ErrInternalInvariant)
	}
	finalValue := coeffs[0]
	t.AbsorbFieldElements([]field.Element{finalValue})

	return &CommitResult{Layers: layers, FinalValue: finalValue}, nil
}

// Opening is a single Merkle-authenticated leaf.
type Opening struct {
	Leaf hash.Digest
	Path commitment.AuthPath
}

// LayerQuery is one FRI layer's contribution to a query: the value and
// opening at the projected index, and the same for its fold-symmetric
// partner.
type LayerQuery struct {
	Index      int
	Value      field.Element
	Opening    Opening
	SymIndex   int
	SymValue   field.Element
	SymOpening Opening
}

// Query is one full query: one LayerQuery per commit-phase layer, letting a
// verifier check fold consistency from layer 0 down to the final value.
type Query struct {
	Layers []LayerQuery
}

// DeepConsistencyCheck binds the first query's layer-0 index back to the
// trace and composition-polynomial commitments, so a verifier can confirm
// the codeword FRI is checking was actually derived from the committed
// trace and composition columns at that index.
type DeepConsistencyCheck struct {
	Index         int
	TraceOpenings []Opening
	TraceValues   []field.Element
	H1Opening     Opening
	H1Value       field.Element
	H2Opening     Opening
	H2Value       field.Element
}

// Query runs FRI's query phase: numQueries independent index samples, each
// opened (with its symmetric partner) at every commit-phase layer. The
// first query's index additionally drives the deep consistency check
// against the trace and composition-polynomial commitments.
func Query(
	result *CommitResult,
	numQueries int,
	traceTrees []*commitment.Tree,
	traceEvals [][]field.Element,
	h1Tree, h2Tree *commitment.Tree,
	h1Evals, h2Evals []field.Element,
	t transcript.Transcript,
) ([]Query, *DeepConsistencyCheck, error) {
	if len(result.Layers) == 0 {
		return nil, nil, fmt.Errorf("fri: cannot query with no commit-phase layers")
	}
	ldeSize := result.Layers[0].Length

	queries := make([]Query, numQueries)
	deepIndex := 0
	for q := 0; q < numQueries; q++ {
		idx := int(t.ChallengeIndex(uint64(ldeSize)))
		if q == 0 {
			deepIndex = idx
		}

		layerQueries := make([]LayerQuery, len(result.Layers))
		for li, layer := range result.Layers {
			curIdx := idx % layer.Length
			symIdx := (curIdx + layer.Length/2) % layer.Length

			leaf, path, err := layer.Tree.Open(curIdx)
			if err != nil {
				return nil, nil, fmt.Errorf("fri: opening layer %d at %d: %w", li, curIdx, err)
			}
			symLeaf, symPath, err := layer.Tree.Open(symIdx)
			if err != nil {
				return nil, nil, fmt.Errorf("fri: opening layer %d at symmetric %d: %w", li, symIdx, err)
			}

			layerQueries[li] = LayerQuery{
				Index:      curIdx,
				Value:      layer.Evaluations[curIdx],
				Opening:    Opening{Leaf: leaf, Path: path},
				SymIndex:   symIdx,
				SymValue:   layer.Evaluations[symIdx],
				SymOpening: Opening{Leaf: symLeaf, Path: symPath},
			}
		}
		queries[q] = Query{Layers: layerQueries}
	}

	dc := &DeepConsistencyCheck{Index: deepIndex}
	for col, tree := range traceTrees {
		leaf, path, err := tree.Open(deepIndex)
		if err != nil {
			return nil, nil, fmt.Errorf("fri: deep consistency opening trace column %d: %w", col, err)
		}
		dc.TraceOpenings = append(dc.TraceOpenings, Opening{Leaf: leaf, Path: path})
		dc.TraceValues = append(dc.TraceValues, traceEvals[col][deepIndex])
	}
	h1Leaf, h1Path, err := h1Tree.Open(deepIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("fri: deep consistency opening H1: %w", err)
	}
	h2Leaf, h2Path, err := h2Tree.Open(deepIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("fri: deep consistency opening H2: %w", err)
	}
	dc.H1Opening = Opening{Leaf: h1Leaf, Path: h1Path}
	dc.H1Value = h1Evals[deepIndex]
	dc.H2Opening = Opening{Leaf: h2Leaf, Path: h2Path}
	dc.H2Value = h2Evals[deepIndex]

	return queries, dc, nil
}
