package prover

import (
	"context"
	"errors"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
	"github.com/lightclients/poc-superlight-client/pkg/merkle"
	"github.com/lightclients/poc-superlight-client/pkg/mmr"
	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

// MemoryProver is an in-process reference Prover built from a
// straight-line committee history: one committee per period and one
// update transitioning each period to the next. It builds its MMR
// eagerly at construction time and answers every query out of memory,
// with no adversarial behavior of its own — tests layer the
// adversarial wrappers in adversarial.go on top of it to model a
// cheating prover.
type MemoryProver struct {
	n          int
	committees []syncstore.Committee
	updates    []syncstore.Update // updates[p] transitions committees[p] to committees[p+1]

	peaks     []mmr.Peak
	root      digest.Digest
	peakTrees []*merkle.Tree // one tree per peak, same order as peaks
}

// NewMemoryProver builds a MemoryProver over committees, partitioning
// its leaves into peaks per the fan-out n's base-n digit
// decomposition. len(updates) must equal len(committees)-1.
func NewMemoryProver(n int, committees []syncstore.Committee, updates []syncstore.Update) (*MemoryProver, error) {
	if n < 2 {
		return nil, errors.New("prover: n must be >= 2")
	}
	if len(committees) == 0 {
		return nil, errors.New("prover: at least one committee is required")
	}
	if len(updates) != len(committees)-1 {
		return nil, errors.New("prover: len(updates) must equal len(committees)-1")
	}

	leafHashes := make([]digest.Digest, len(committees))
	for i, c := range committees {
		leafHashes[i] = merkle.HashLeaf(digest.Concat(c.Pubkeys...))
	}

	sizes := mmr.ExpectedPeakSizes(n, uint64(len(committees)))
	peaks := make([]mmr.Peak, len(sizes))
	trees := make([]*merkle.Tree, len(sizes))

	var offset uint64
	for i, size := range sizes {
		tree, err := merkle.NewTree(n, leafHashes[offset:offset+size])
		if err != nil {
			return nil, err
		}
		trees[i] = tree
		peaks[i] = mmr.Peak{RootHash: tree.Root(), Size: size}
		offset += size
	}

	return &MemoryProver{
		n:          n,
		committees: append([]syncstore.Committee(nil), committees...),
		updates:    append([]syncstore.Update(nil), updates...),
		peaks:      peaks,
		root:       mmr.BagPeaks(peaks),
		peakTrees:  trees,
	}, nil
}

// GetMMRInfo implements Prover.
func (p *MemoryProver) GetMMRInfo(ctx context.Context) (MMRInfo, error) {
	return MMRInfo{RootHash: p.root, Peaks: append([]mmr.Peak(nil), p.peaks...)}, nil
}

// GetLeafWithProof implements Prover.
func (p *MemoryProver) GetLeafWithProof(ctx context.Context, query PeriodQuery) (LeafWithProof, error) {
	treeIdx, localIndex, globalIndex, err := p.resolve(query)
	if err != nil {
		return LeafWithProof{}, err
	}

	proof, err := p.peakTrees[treeIdx].Proof(localIndex)
	if err != nil {
		return LeafWithProof{}, err
	}

	return LeafWithProof{
		SyncCommittee: p.committees[globalIndex].Pubkeys,
		RootHash:      p.peaks[treeIdx].RootHash,
		Proof:         proof,
	}, nil
}

// GetNode implements Prover by searching every peak tree for a node
// whose current hash is treeRoot, then returning nodeHash's children
// within that tree.
func (p *MemoryProver) GetNode(ctx context.Context, treeRoot, nodeHash digest.Digest) (NodeResponse, error) {
	for _, tree := range p.peakTrees {
		if !digest.Eq(tree.Root(), treeRoot) {
			continue
		}
		children, ok := tree.Children(nodeHash)
		if !ok {
			// Unknown node hash within a known tree: report it as a
			// leaf with no children, which fails the caller's
			// structural check rather than panicking.
			return NodeResponse{IsLeaf: true}, nil
		}
		return NodeResponse{IsLeaf: false, Children: children}, nil
	}
	return NodeResponse{IsLeaf: true}, nil
}

// GetSyncUpdates implements Prover.
func (p *MemoryProver) GetSyncUpdates(ctx context.Context, startPeriod syncstore.Period, maxCount uint32) ([]syncstore.Update, error) {
	start := int(startPeriod)
	if start < 0 || start > len(p.updates) {
		return nil, nil
	}
	end := start + int(maxCount)
	if end > len(p.updates) {
		end = len(p.updates)
	}
	return append([]syncstore.Update(nil), p.updates[start:end]...), nil
}

// LeafCount returns the number of periods (leaves) this prover's
// history covers. Not part of the Prover interface; used by tests and
// fixture builders.
func (p *MemoryProver) LeafCount() uint64 {
	return uint64(len(p.committees))
}

func (p *MemoryProver) resolve(query PeriodQuery) (treeIdx int, localIndex, globalIndex uint64, err error) {
	if query.Latest {
		globalIndex = uint64(len(p.committees)) - 1
		treeIdx = len(p.peaks) - 1
		localIndex = p.peaks[treeIdx].Size - 1
		return treeIdx, localIndex, globalIndex, nil
	}

	globalIndex = uint64(query.Period)
	var offset uint64
	for i, pk := range p.peaks {
		if globalIndex < offset+pk.Size {
			return i, globalIndex - offset, globalIndex, nil
		}
		offset += pk.Size
	}
	return 0, 0, 0, errors.New("prover: period out of range")
}
