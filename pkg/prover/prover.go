// Package prover defines the four-method contract the superlight
// client consumes from every untrusted remote prover, plus in-memory
// reference implementations (both honest and adversarial) used to
// drive tests without a network transport.
//
// The contract intentionally says nothing about how a prover is
// reached: package superlight consumes the Prover interface, never a
// concrete client, so an in-process fake can stand in for a remote one
// in tests.
package prover

import (
	"context"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
	"github.com/lightclients/poc-superlight-client/pkg/merkle"
	"github.com/lightclients/poc-superlight-client/pkg/mmr"
	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

// PeriodQuery selects either a specific period or the prover's latest
// known leaf, mirroring the `Period | 'latest'` argument to
// getLeafWithProof.
type PeriodQuery struct {
	Period syncstore.Period
	Latest bool
}

// AtPeriod builds a PeriodQuery for an exact period.
func AtPeriod(p syncstore.Period) PeriodQuery {
	return PeriodQuery{Period: p}
}

// Latest is the PeriodQuery selecting the rightmost leaf of the
// prover's MMR.
var Latest = PeriodQuery{Latest: true}

// LeafWithProof is a prover's answer to getLeafWithProof: the claimed
// committee at a period, the peak root the inclusion proof is framed
// against, and the proof itself. RootHash is informational only — the
// verifier recomputes which peak and root it should use from its own
// previously audited peak list, never from this field.
type LeafWithProof struct {
	SyncCommittee [][]byte
	RootHash      digest.Digest
	Proof         merkle.Proof
}

// MMRInfo is a prover's answer to getMMRInfo.
type MMRInfo struct {
	RootHash digest.Digest
	Peaks    []mmr.Peak
}

// NodeResponse is a prover's answer to getNode. Children is nil when
// IsLeaf is true; otherwise it MUST have length n and hash to the
// queried node, though a dishonest prover may violate that and must be
// rejected by the caller rather than trusted.
type NodeResponse struct {
	IsLeaf   bool
	Children []digest.Digest
}

// Prover is the contract every external committee-history server must
// satisfy. Implementations are free to be backed by a network client
// or, as here, an in-memory fixture; the client in package superlight
// never distinguishes the two.
type Prover interface {
	// GetLeafWithProof returns the committee claimed at the requested
	// period (or the latest one) along with its inclusion proof.
	GetLeafWithProof(ctx context.Context, query PeriodQuery) (LeafWithProof, error)

	// GetMMRInfo returns the prover's claimed MMR root and peak list.
	GetMMRInfo(ctx context.Context) (MMRInfo, error)

	// GetNode returns the children of nodeHash within the tree rooted
	// at treeRoot. A malformed or unknown node is reported through a
	// response that fails the caller's structural check, not through
	// an error return, mirroring a real prover that simply returns
	// whatever bytes it has.
	GetNode(ctx context.Context, treeRoot, nodeHash digest.Digest) (NodeResponse, error)

	// GetSyncUpdates returns up to maxCount consecutive updates
	// starting at startPeriod, in period order.
	GetSyncUpdates(ctx context.Context, startPeriod syncstore.Period, maxCount uint32) ([]syncstore.Update, error)
}
