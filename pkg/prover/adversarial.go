package prover

import (
	"context"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

// MalformedNodeProver wraps a Prover and, on every GetNode call
// whose queried nodeHash equals TargetNode, returns children whose
// hash does not reconstruct nodeHash — the structural violation
// scenario S5 exercises. Every other call is forwarded unchanged.
type MalformedNodeProver struct {
	Prover
	TargetNode digest.Digest
}

// GetNode implements Prover, corrupting the response for TargetNode.
func (p *MalformedNodeProver) GetNode(ctx context.Context, treeRoot, nodeHash digest.Digest) (NodeResponse, error) {
	resp, err := p.Prover.GetNode(ctx, treeRoot, nodeHash)
	if err != nil || !digest.Eq(nodeHash, p.TargetNode) {
		return resp, err
	}
	corrupted := append([]digest.Digest(nil), resp.Children...)
	if len(corrupted) > 0 {
		corrupted[0] = digest.Hash(corrupted[0].Bytes(), []byte("corrupt"))
	}
	return NodeResponse{IsLeaf: resp.IsLeaf, Children: corrupted}, nil
}

// BadMMRInfoProver wraps a Prover and replaces its claimed root hash
// with a hash of that root and a fixed tag, producing peaks that no
// longer bag to the reported root — the
// initial-audit rejection scenario.
type BadMMRInfoProver struct {
	Prover
}

// GetMMRInfo implements Prover, corrupting the reported root.
func (p *BadMMRInfoProver) GetMMRInfo(ctx context.Context) (MMRInfo, error) {
	info, err := p.Prover.GetMMRInfo(ctx)
	if err != nil {
		return info, err
	}
	info.RootHash = digest.Hash(info.RootHash.Bytes(), []byte("corrupt"))
	return info, nil
}

// BadFinalProofProver wraps a Prover and corrupts the Merkle proof
// returned for the 'latest' leaf only, modeling a prover that fails
// the final post-tournament audit while otherwise behaving honestly.
type BadFinalProofProver struct {
	Prover
}

// GetLeafWithProof implements Prover, corrupting the proof when query
// selects the latest leaf.
func (p *BadFinalProofProver) GetLeafWithProof(ctx context.Context, query PeriodQuery) (LeafWithProof, error) {
	resp, err := p.Prover.GetLeafWithProof(ctx, query)
	if err != nil || !query.Latest || len(resp.Proof) == 0 {
		return resp, err
	}
	corrupted := make([][]digest.Digest, len(resp.Proof))
	copy(corrupted, resp.Proof)
	level := append([]digest.Digest(nil), corrupted[0]...)
	if len(level) > 0 {
		level[0] = digest.Hash(level[0].Bytes(), []byte("corrupt"))
	}
	corrupted[0] = level
	resp.Proof = corrupted
	return resp, nil
}

// BadUpdateProver wraps a Prover and corrupts the signature on every
// update it serves, modeling a prover whose committee history is
// otherwise well-formed but whose transitions cannot be authenticated.
type BadUpdateProver struct {
	Prover
}

// GetSyncUpdates implements Prover, corrupting every returned
// signature.
func (p *BadUpdateProver) GetSyncUpdates(ctx context.Context, startPeriod syncstore.Period, maxCount uint32) ([]syncstore.Update, error) {
	updates, err := p.Prover.GetSyncUpdates(ctx, startPeriod, maxCount)
	if err != nil {
		return updates, err
	}
	corrupted := make([]syncstore.Update, len(updates))
	for i, u := range updates {
		sig := append([]byte(nil), u.Signature...)
		if len(sig) > 0 {
			sig[0] ^= 0xff
		}
		corrupted[i] = syncstore.Update{NextCommittee: u.NextCommittee, Header: u.Header, Signature: sig}
	}
	return corrupted, nil
}
