package merkle

import (
	"testing"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
)

func leaves(n int) []digest.Digest {
	out := make([]digest.Digest, n)
	for i := range out {
		out[i] = HashLeaf([]byte{byte(i)})
	}
	return out
}

func TestVerifyAcceptsHonestProof(t *testing.T) {
	for _, size := range []int{1, 2, 4, 8, 16} {
		tree, err := NewTree(2, leaves(size))
		if err != nil {
			t.Fatalf("NewTree(%d): %v", size, err)
		}
		for i := uint64(0); i < tree.Size(); i++ {
			proof, err := tree.Proof(i)
			if err != nil {
				t.Fatalf("Proof(%d): %v", i, err)
			}
			if !Verify(2, leaves(size)[i], i, tree.Root(), proof) {
				t.Fatalf("Verify rejected honest proof for leaf %d of size %d", i, size)
			}
		}
	}
}

func TestVerifyRejectsFlippedRoot(t *testing.T) {
	tree, _ := NewTree(2, leaves(4))
	proof, _ := tree.Proof(2)
	badRoot := tree.Root()
	badRoot[0] ^= 0xff
	if Verify(2, leaves(4)[2], 2, badRoot, proof) {
		t.Fatal("Verify accepted a flipped root")
	}
}

func TestVerifyRejectsFlippedSibling(t *testing.T) {
	tree, _ := NewTree(2, leaves(8))
	proof, _ := tree.Proof(5)
	proof[0][0][0] ^= 0xff
	if Verify(2, leaves(8)[5], 5, tree.Root(), proof) {
		t.Fatal("Verify accepted a corrupted sibling")
	}
}

func TestVerifyRejectsWrongIndex(t *testing.T) {
	tree, _ := NewTree(2, leaves(8))
	proof, _ := tree.Proof(5)
	if Verify(2, leaves(8)[5], 6, tree.Root(), proof) {
		t.Fatal("Verify accepted a proof for the wrong index")
	}
}

func TestVerifyRejectsMalformedProofLength(t *testing.T) {
	tree, _ := NewTree(2, leaves(8))
	proof, _ := tree.Proof(5)
	truncated := proof[:len(proof)-1]
	if Verify(2, leaves(8)[5], 5, tree.Root(), truncated) {
		t.Fatal("Verify accepted a truncated proof")
	}
}

func TestVerifyRejectsWrongSiblingCount(t *testing.T) {
	tree, _ := NewTree(4, leaves(16))
	proof, _ := tree.Proof(3)
	proof[0] = proof[0][:len(proof[0])-1]
	if Verify(4, leaves(16)[3], 3, tree.Root(), proof) {
		t.Fatal("Verify accepted a proof with wrong sibling count for n=4")
	}
}

func TestVerifyRejectsNLessThanTwo(t *testing.T) {
	if Verify(1, digest.Digest{}, 0, digest.Digest{}, nil) {
		t.Fatal("Verify accepted n < 2")
	}
}

func TestDegenerateSingleLeafTree(t *testing.T) {
	tree, err := NewTree(2, leaves(1))
	if err != nil {
		t.Fatalf("NewTree(1): %v", err)
	}
	if tree.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0 for a single-leaf tree", tree.Depth())
	}
	proof, err := tree.Proof(0)
	if err != nil {
		t.Fatalf("Proof(0): %v", err)
	}
	if len(proof) != 0 {
		t.Fatalf("proof for single-leaf tree should be empty, got %d levels", len(proof))
	}
	if !Verify(2, leaves(1)[0], 0, tree.Root(), proof) {
		t.Fatal("Verify rejected the trivial single-leaf proof")
	}
}

func TestNAryFanout(t *testing.T) {
	tree, err := NewTree(4, leaves(16))
	if err != nil {
		t.Fatalf("NewTree(4, 16): %v", err)
	}
	if tree.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2 for 16 leaves at fan-out 4", tree.Depth())
	}
	proof, _ := tree.Proof(9)
	if len(proof[0]) != 3 {
		t.Fatalf("sibling count = %d, want n-1=3", len(proof[0]))
	}
	if !Verify(4, leaves(16)[9], 9, tree.Root(), proof) {
		t.Fatal("Verify rejected honest n=4 proof")
	}
}

func TestNewTreeRejectsNonPowerLeafCount(t *testing.T) {
	if _, err := NewTree(2, leaves(3)); err != ErrNotPerfect {
		t.Fatalf("NewTree(2, 3 leaves) = %v, want ErrNotPerfect", err)
	}
}

func TestTreeChildrenLookup(t *testing.T) {
	tree, _ := NewTree(2, leaves(4))
	kids, ok := tree.Children(tree.Root())
	if !ok {
		t.Fatal("Children(root) should find the root's children")
	}
	if len(kids) != 2 {
		t.Fatalf("len(kids) = %d, want 2", len(kids))
	}
	if _, ok := tree.Children(digest.Hash([]byte("nonexistent"))); ok {
		t.Fatal("Children should fail for an unknown node hash")
	}
}
