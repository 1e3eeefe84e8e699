// Package commitment builds Merkle trees over trace and composition columns
// and produces positional authentication paths for FRI's query phase, over
// hash.Digest leaves combined with hash.HashVarlen.
package commitment

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// Tree is a binary Merkle tree over a column of field elements, one leaf
// per domain point.
type Tree struct {
	levels [][]hash.Digest // levels[0] is the leaves, levels[len-1] is {root}
}

// AuthPath is the list of sibling digests from a leaf up to (but not
// including) the root.
type AuthPath []hash.Digest

func digestEqual(a, b hash.Digest) bool {
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func combine(a, b hash.Digest) hash.Digest {
	elems := make([]field.Element, 0, 2*len(a))
	elems = append(elems, a[:]...)
	elems = append(elems, b[:]...)
	return hash.HashVarlen(elems)
}

// Commit builds a Merkle tree whose leaf i is HashVarlen of the single
// field element column[i].
func Commit(column []field.Element) (*Tree, error) {
	if len(column) == 0 {
		return nil, fmt.Errorf("commitment: cannot commit an empty column")
	}
	leaves := make([]hash.Digest, len(column))
	for i, v := range column {
		leaves[i] = hash.HashVarlen([]field.Element{v})
	}
	return build(leaves)
}

func build(leaves []hash.Digest) (*Tree, error) {
	levels := make([][]hash.Digest, 0, 1)
	levels = append(levels, leaves)
	cur := leaves
	for len(cur) > 1 {
		next := make([]hash.Digest, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			if i+1 < len(cur) {
				next = append(next, combine(cur[i], cur[i+1]))
			} else {
				next = append(next, combine(cur[i], cur[i]))
			}
		}
		levels = append(levels, next)
		cur = next
	}
	return &Tree{levels: levels}, nil
}

// BatchCommit commits every column independently, returning one tree and
// root per column, in the same order as columns.
func BatchCommit(columns [][]field.Element) ([]*Tree, []hash.Digest, error) {
	trees := make([]*Tree, len(columns))
	roots := make([]hash.Digest, len(columns))
	for i, col := range columns {
		tree, err := Commit(col)
		if err != nil {
			return nil, nil, fmt.Errorf("commitment: column %d: %w", i, err)
		}
		trees[i] = tree
		roots[i] = tree.Root()
	}
	return trees, roots, nil
}

// Root returns the tree's root digest.
func (t *Tree) Root() hash.Digest {
	return t.levels[len(t.levels)-1][0]
}

// Open returns the leaf digest at index and its authentication path to the
// root.
func (t *Tree) Open(index int) (hash.Digest, AuthPath, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return hash.Digest{}, nil, fmt.Errorf("commitment: index %d out of range [0, %d)", index, len(t.levels[0]))
	}
	leaf := t.levels[0][index]
	path := make(AuthPath, 0, len(t.levels)-1)
	idx := index
	for lvl := 0; lvl < len(t.levels)-1; lvl++ {
		cur := t.levels[lvl]
		var sibIdx int
		if idx%2 == 0 {
			sibIdx = idx + 1
		} else {
			sibIdx = idx - 1
		}
		if sibIdx < len(cur) {
			path = append(path, cur[sibIdx])
		} else {
			path = append(path, cur[idx])
		}
		idx /= 2
	}
	return leaf, path, nil
}

// Verify recomputes the root from leaf, index and path, and reports whether
// it matches root.
func Verify(root hash.Digest, leaf hash.Digest, index int, path AuthPath) bool {
	cur := leaf
	idx := index
	for _, sib := range path {
		if idx%2 == 0 {
			cur = combine(cur, sib)
		} else {
			cur = combine(sib, cur)
		}
		idx /= 2
	}
	return digestEqual(cur, root)
}
