package superlight

import (
	"context"
	"fmt"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
	"github.com/lightclients/poc-superlight-client/pkg/merkle"
	"github.com/lightclients/poc-superlight-client/pkg/mmr"
	"github.com/lightclients/poc-superlight-client/pkg/prover"
	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

// checkNodeAndPrevUpdate adjudicates a disagreement bisection has
// narrowed to a single leaf (period). It returns true iff A is the
// honest side.
func (c *Client) checkNodeAndPrevUpdate(ctx context.Context, a, b ProverRecord, period uint64) (bool, error) {
	committeeA, okA, err := c.getVerifiedSyncCommittee(ctx, a, prover.AtPeriod(syncstore.Period(period)), a.Peaks)
	if err != nil {
		return false, err
	}
	committeeB, okB, err := c.getVerifiedSyncCommittee(ctx, b, prover.AtPeriod(syncstore.Period(period)), b.Peaks)
	if err != nil {
		return false, err
	}
	if !okA {
		c.log.Warn("prover failed fraud-proof inclusion check", "index", a.Index, "period", period)
		return false, nil
	}
	if !okB {
		c.log.Warn("prover failed fraud-proof inclusion check", "index", b.Index, "period", period)
		return true, nil
	}

	if period == 0 {
		genesis := c.store.GenesisSyncCommittee()
		aOK := syncstore.Committee{Pubkeys: committeeA}.Equal(genesis)
		bOK := syncstore.Committee{Pubkeys: committeeB}.Equal(genesis)
		return c.resolveFraudCheck(a, b, aOK, bOK)
	}

	prevBytes, ok, err := c.getVerifiedSyncCommittee(ctx, a, prover.AtPeriod(syncstore.Period(period-1)), a.Peaks)
	if err != nil {
		return false, err
	}
	if !ok {
		c.log.Warn("prover failed fraud-proof inclusion check for previous period", "index", a.Index, "period", period-1)
		return false, nil
	}
	prevCommittee := syncstore.Committee{Pubkeys: prevBytes}

	aOK := c.updateVerifies(ctx, a, prevCommittee, committeeA, period-1)
	bOK := c.updateVerifies(ctx, b, prevCommittee, committeeB, period-1)
	return c.resolveFraudCheck(a, b, aOK, bOK)
}

// resolveFraudCheck applies the fraud-proof win/lose rule: the side
// whose committee and update verify correctly wins, the side that
// fails loses, and if neither verifies either is acceptable since
// both are dishonest. Both sides verifying at once is an invariant
// violation the protocol's own precondition should have ruled out.
func (c *Client) resolveFraudCheck(a, b ProverRecord, aOK, bOK bool) (bool, error) {
	switch {
	case aOK && !bOK:
		c.log.Warn("prover failed fraud-proof check", "index", b.Index)
		return true, nil
	case !aOK && bOK:
		c.log.Warn("prover failed fraud-proof check", "index", a.Index)
		return false, nil
	case !aOK && !bOK:
		c.log.Warn("both provers failed fraud-proof check", "a_index", a.Index, "b_index", b.Index)
		return false, nil
	default:
		return false, fmt.Errorf("%w: both prover %d and prover %d verified at the same disputed period",
			ErrInvariantViolation, a.Index, b.Index)
	}
}

// updateVerifies fetches record's claimed update transitioning period
// to period+1 and checks it against prevCommittee and curCommittee.
func (c *Client) updateVerifies(ctx context.Context, record ProverRecord, prevCommittee syncstore.Committee, curCommittee [][]byte, period uint64) bool {
	updates, err := record.handle.GetSyncUpdates(ctx, syncstore.Period(period), 1)
	if err != nil || len(updates) != 1 {
		return false
	}
	return c.store.SyncUpdateVerify(prevCommittee, syncstore.Committee{Pubkeys: curCommittee}, updates[0])
}

// getVerifiedSyncCommittee fetches record's claimed committee at query
// (an exact period or the latest leaf) and checks its Merkle inclusion
// proof against peaks. It returns ok=false, not an error, on any
// verification failure and on a failed prover call; the returned
// error is always nil.
func (c *Client) getVerifiedSyncCommittee(ctx context.Context, record ProverRecord, query prover.PeriodQuery, peaks []mmr.Peak) ([][]byte, bool, error) {
	leaf, err := record.handle.GetLeafWithProof(ctx, query)
	if err != nil {
		c.log.Warn("prover getLeafWithProof transport failure", "index", record.Index, "err", err)
		return nil, false, nil
	}

	var peak mmr.Peak
	var localIndex uint64
	if query.Latest {
		if len(peaks) == 0 {
			return nil, false, nil
		}
		peak = peaks[len(peaks)-1]
		localIndex = peak.Size - 1
	} else {
		var perr error
		peak, localIndex, perr = mmr.GetPeakAndIndex(peaks, uint64(query.Period))
		if perr != nil {
			return nil, false, nil
		}
	}

	leafHash := merkle.HashLeaf(digest.Concat(leaf.SyncCommittee...))
	if !merkle.Verify(c.n, leafHash, localIndex, peak.RootHash, leaf.Proof) {
		return nil, false, nil
	}
	return leaf.SyncCommittee, true, nil
}
