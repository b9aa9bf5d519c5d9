package superlight

import (
	"context"
	"fmt"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
	"github.com/lightclients/poc-superlight-client/pkg/merkle"
)

// bisectionOutcome is the tagged-union result of treeVsTree: either a
// declared winner or a disputed leaf index still to be adjudicated by
// a fraud proof. Using an interface instead of an overloaded
// bool-or-int keeps the two cases from being confused at the call
// site.
type bisectionOutcome interface {
	isBisectionOutcome()
}

// winnerOutcome reports that one side was disqualified by a
// structural check during bisection; true means A is the honest side.
type winnerOutcome bool

func (winnerOutcome) isBisectionOutcome() {}

// disputedLeafOutcome reports the in-tree leaf index bisection
// narrowed the disagreement down to, still requiring a fraud-proof
// check to adjudicate.
type disputedLeafOutcome uint64

func (disputedLeafOutcome) isBisectionOutcome() {}

// treeVsTree binary- (or n-ary-) searches from a disputed peak's root
// down to the first leaf where A and B's trees disagree. On the
// initial call nodeA and nodeB equal treeRootA and treeRootB and index
// is 0; each recursive call lowers depth by one and sets index to
// index*n plus the position of the first differing child.
func (c *Client) treeVsTree(ctx context.Context, a, b ProverRecord, treeRootA, treeRootB digest.Digest, depth int, nodeA, nodeB digest.Digest, index uint64) (bisectionOutcome, error) {
	if depth == 0 {
		return disputedLeafOutcome(index), nil
	}

	respA, errA := a.handle.GetNode(ctx, treeRootA, nodeA)
	respB, errB := b.handle.GetNode(ctx, treeRootB, nodeB)
	if errA != nil {
		c.log.Warn("prover getNode transport failure", "index", a.Index, "err", errA)
		return winnerOutcome(false), nil
	}
	if errB != nil {
		c.log.Warn("prover getNode transport failure", "index", b.Index, "err", errB)
		return winnerOutcome(true), nil
	}

	if len(respA.Children) != c.n || merkle.HashNode(respA.Children) != nodeA {
		c.log.Warn("prover served a malformed node", "index", a.Index)
		return winnerOutcome(false), nil
	}
	if len(respB.Children) != c.n || merkle.HashNode(respB.Children) != nodeB {
		c.log.Warn("prover served a malformed node", "index", b.Index)
		return winnerOutcome(true), nil
	}

	for j := 0; j < c.n; j++ {
		if respA.Children[j] != respB.Children[j] {
			return c.treeVsTree(ctx, a, b, treeRootA, treeRootB, depth-1, respA.Children[j], respB.Children[j], index*uint64(c.n)+uint64(j))
		}
	}

	return nil, fmt.Errorf("%w: disputed node %s (prover %d) and %s (prover %d) have identical children",
		ErrInvariantViolation, nodeA.Hex(), a.Index, nodeB.Hex(), b.Index)
}
