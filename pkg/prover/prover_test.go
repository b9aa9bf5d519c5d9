package prover

import (
	"context"
	"testing"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
	"github.com/lightclients/poc-superlight-client/pkg/merkle"
	"github.com/lightclients/poc-superlight-client/pkg/mmr"
	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

func TestMemoryProverMMRInfoVerifies(t *testing.T) {
	committees, updates := GenerateHonestHistory(8, 3, 1)
	p, err := NewMemoryProver(2, committees, updates)
	if err != nil {
		t.Fatalf("NewMemoryProver: %v", err)
	}

	info, err := p.GetMMRInfo(context.Background())
	if err != nil {
		t.Fatalf("GetMMRInfo: %v", err)
	}
	if !mmr.Verify(2, info.RootHash, info.Peaks, p.LeafCount()) {
		t.Fatal("MemoryProver's own MMR info failed mmr.Verify")
	}
	if len(info.Peaks) != 1 || info.Peaks[0].Size != 8 {
		t.Fatalf("expected a single peak of size 8, got %+v", info.Peaks)
	}
}

func TestMemoryProverLeafWithProofVerifies(t *testing.T) {
	committees, updates := GenerateHonestHistory(8, 3, 1)
	p, err := NewMemoryProver(2, committees, updates)
	if err != nil {
		t.Fatalf("NewMemoryProver: %v", err)
	}
	info, _ := p.GetMMRInfo(context.Background())

	for period := uint64(0); period < 8; period++ {
		leaf, err := p.GetLeafWithProof(context.Background(), AtPeriod(syncstore.Period(period)))
		if err != nil {
			t.Fatalf("GetLeafWithProof(%d): %v", period, err)
		}
		peak, localIndex, err := mmr.GetPeakAndIndex(info.Peaks, period)
		if err != nil {
			t.Fatalf("GetPeakAndIndex(%d): %v", period, err)
		}
		leafHash := merkle.HashLeaf(digest.Concat(leaf.SyncCommittee...))
		if !merkle.Verify(2, leafHash, localIndex, peak.RootHash, leaf.Proof) {
			t.Fatalf("leaf %d failed merkle verification", period)
		}
	}
}

func TestMemoryProverLatestMatchesLastPeriod(t *testing.T) {
	committees, updates := GenerateHonestHistory(8, 3, 2)
	p, err := NewMemoryProver(2, committees, updates)
	if err != nil {
		t.Fatalf("NewMemoryProver: %v", err)
	}

	latest, err := p.GetLeafWithProof(context.Background(), Latest)
	if err != nil {
		t.Fatalf("GetLeafWithProof(latest): %v", err)
	}
	last, err := p.GetLeafWithProof(context.Background(), AtPeriod(7))
	if err != nil {
		t.Fatalf("GetLeafWithProof(7): %v", err)
	}
	if digest.Hash(digest.Concat(latest.SyncCommittee...)) != digest.Hash(digest.Concat(last.SyncCommittee...)) {
		t.Fatal("Latest did not match period 7")
	}
}

func TestMemoryProverGetNodeStructurallyValid(t *testing.T) {
	committees, updates := GenerateHonestHistory(8, 3, 3)
	p, err := NewMemoryProver(2, committees, updates)
	if err != nil {
		t.Fatalf("NewMemoryProver: %v", err)
	}
	info, _ := p.GetMMRInfo(context.Background())
	treeRoot := info.Peaks[0].RootHash

	resp, err := p.GetNode(context.Background(), treeRoot, treeRoot)
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if resp.IsLeaf || len(resp.Children) != 2 {
		t.Fatalf("expected 2 children at the root, got %+v", resp)
	}
	if merkle.HashNode(resp.Children) != treeRoot {
		t.Fatal("children did not hash back to the queried node")
	}
}

func TestForkHistoryDivergesAtForkPeriod(t *testing.T) {
	honest, _ := GenerateHonestHistory(8, 3, 10)
	forked, _ := ForkHistory(honest, 5, 3, 900)

	for i := 0; i < 5; i++ {
		if digest.Hash(digest.Concat(honest[i].Pubkeys...)) != digest.Hash(digest.Concat(forked[i].Pubkeys...)) {
			t.Fatalf("committees before the fork point should match at period %d", i)
		}
	}
	if digest.Hash(digest.Concat(honest[5].Pubkeys...)) == digest.Hash(digest.Concat(forked[5].Pubkeys...)) {
		t.Fatal("committees at the fork point should diverge")
	}
}

func TestMalformedNodeProverCorruptsTargetOnly(t *testing.T) {
	committees, updates := GenerateHonestHistory(4, 2, 20)
	base, err := NewMemoryProver(2, committees, updates)
	if err != nil {
		t.Fatalf("NewMemoryProver: %v", err)
	}
	info, _ := base.GetMMRInfo(context.Background())
	root := info.Peaks[0].RootHash

	cheater := &MalformedNodeProver{Prover: base, TargetNode: root}
	resp, err := cheater.GetNode(context.Background(), root, root)
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if merkle.HashNode(resp.Children) == root {
		t.Fatal("MalformedNodeProver should have broken the child-hash invariant at the target node")
	}

	honestResp, err := base.GetNode(context.Background(), root, root)
	if err != nil {
		t.Fatalf("GetNode(base): %v", err)
	}
	other := honestResp.Children[1]
	resp, err = cheater.GetNode(context.Background(), root, other)
	if err != nil {
		t.Fatalf("GetNode(non-target): %v", err)
	}
	if merkle.HashNode(resp.Children) != other {
		t.Fatal("MalformedNodeProver should forward non-target nodes unchanged")
	}
}

func TestBadMMRInfoProverBreaksAudit(t *testing.T) {
	committees, updates := GenerateHonestHistory(4, 2, 30)
	base, err := NewMemoryProver(2, committees, updates)
	if err != nil {
		t.Fatalf("NewMemoryProver: %v", err)
	}
	cheater := &BadMMRInfoProver{Prover: base}
	info, err := cheater.GetMMRInfo(context.Background())
	if err != nil {
		t.Fatalf("GetMMRInfo: %v", err)
	}
	if mmr.Verify(2, info.RootHash, info.Peaks, base.LeafCount()) {
		t.Fatal("BadMMRInfoProver's claimed root should fail mmr.Verify")
	}
}
