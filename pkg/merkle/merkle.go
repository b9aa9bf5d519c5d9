// Package merkle verifies inclusion proofs against a balanced n-ary
// Merkle tree: leaf hash = H(leafBytes), internal node hash =
// H(concat(children)), and every non-leaf node has exactly n children.
// The package also provides an in-memory tree builder used by the
// reference provers in package prover and by tests; it is not required
// by the verifier itself, which calls only Verify, HashLeaf and
// HashNode.
package merkle

import (
	"errors"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
)

// Proof is one inclusion proof: for each of the ceil(log_n(size))
// levels from the leaf up to the root, the n-1 sibling hashes at that
// level, ordered left to right with the path node itself omitted.
type Proof [][]digest.Digest

// Verify recomputes the path from leafHash at position index up to
// root using an n-ary tree and accepts iff the recomputed root equals
// root. It never panics: a malformed proof (wrong sibling count,
// n < 2) or a mismatching root simply yields false.
func Verify(n int, leafHash digest.Digest, index uint64, root digest.Digest, proof Proof) bool {
	if n < 2 {
		return false
	}

	cur := leafHash
	idx := index
	for _, siblings := range proof {
		if len(siblings) != n-1 {
			return false
		}

		pos := int(idx % uint64(n))
		idx /= uint64(n)

		children := make([]digest.Digest, n)
		s := 0
		for i := 0; i < n; i++ {
			if i == pos {
				children[i] = cur
			} else {
				children[i] = siblings[s]
				s++
			}
		}
		cur = digest.Hash(digest.ConcatDigests(children...))
	}

	return digest.Eq(cur, root)
}

// HashLeaf hashes raw leaf bytes the way the tree does: H(leafBytes).
func HashLeaf(leafBytes []byte) digest.Digest {
	return digest.Hash(leafBytes)
}

// HashNode hashes a node's children the way the tree does:
// H(concat(children)).
func HashNode(children []digest.Digest) digest.Digest {
	return digest.Hash(digest.ConcatDigests(children...))
}

// ErrNotPerfect is returned by NewTree when the leaf count is not an
// exact power of n, so no perfect n-ary tree of that fan-out exists.
var ErrNotPerfect = errors.New("merkle: leaf count is not a power of n")

// Tree is a complete, perfect n-ary Merkle tree built bottom-up from a
// fixed set of leaves. It is a test and reference-prover utility, not
// part of the verifier's trusted computing base.
type Tree struct {
	n      int
	layers [][]digest.Digest // layers[0] = leaves, layers[len-1] = [root]
}

// NewTree builds a perfect n-ary tree over leafHashes (already hashed
// via HashLeaf). len(leafHashes) must be a power of n (1 counts as
// n^0), matching one peak's size in an MMR.
func NewTree(n int, leafHashes []digest.Digest) (*Tree, error) {
	if n < 2 {
		return nil, errors.New("merkle: n must be >= 2")
	}
	if len(leafHashes) == 0 || !isPowerOf(n, len(leafHashes)) {
		return nil, ErrNotPerfect
	}

	layers := [][]digest.Digest{append([]digest.Digest(nil), leafHashes...)}
	for len(layers[len(layers)-1]) > 1 {
		prev := layers[len(layers)-1]
		next := make([]digest.Digest, len(prev)/n)
		for i := range next {
			next[i] = HashNode(prev[i*n : (i+1)*n])
		}
		layers = append(layers, next)
	}
	return &Tree{n: n, layers: layers}, nil
}

// Root returns the tree's root hash.
func (t *Tree) Root() digest.Digest {
	return t.layers[len(t.layers)-1][0]
}

// Size returns the number of leaves in the tree.
func (t *Tree) Size() uint64 {
	return uint64(len(t.layers[0]))
}

// Depth returns the number of levels between a leaf and the root,
// i.e. ceil(log_n(Size())).
func (t *Tree) Depth() int {
	return len(t.layers) - 1
}

// Proof returns the inclusion proof for the leaf at index.
func (t *Tree) Proof(index uint64) (Proof, error) {
	if index >= t.Size() {
		return nil, errors.New("merkle: index out of range")
	}

	proof := make(Proof, 0, t.Depth())
	idx := index
	for level := 0; level < t.Depth(); level++ {
		layer := t.layers[level]
		base := (idx / uint64(t.n)) * uint64(t.n)
		pos := int(idx % uint64(t.n))

		siblings := make([]digest.Digest, 0, t.n-1)
		for i := 0; i < t.n; i++ {
			if i == pos {
				continue
			}
			siblings = append(siblings, layer[int(base)+i])
		}
		proof = append(proof, siblings)
		idx /= uint64(t.n)
	}
	return proof, nil
}

// Children returns the child hashes of the node with the given hash,
// searching every non-leaf layer. This backs the getNode side of the
// prover interface, which indexes nodes by hash rather than position.
func (t *Tree) Children(nodeHash digest.Digest) ([]digest.Digest, bool) {
	for level := 1; level < len(t.layers); level++ {
		layer := t.layers[level]
		prev := t.layers[level-1]
		for i, h := range layer {
			if digest.Eq(h, nodeHash) {
				return append([]digest.Digest(nil), prev[i*t.n:(i+1)*t.n]...), true
			}
		}
	}
	return nil, false
}

func isPowerOf(n, v int) bool {
	if v <= 0 {
		return false
	}
	for v > 1 {
		if v%n != 0 {
			return false
		}
		v /= n
	}
	return true
}
