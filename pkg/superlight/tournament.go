package superlight

import (
	"context"
	"fmt"
)

// runTournament pools audited provers that agree on an MMR root and
// plays exactly one bisection game per disagreeing one. All provers
// sharing a root are interchangeable witnesses of the same history,
// so only winners[0] ever needs to play.
func (c *Client) runTournament(ctx context.Context, survivors []ProverRecord) ([]ProverRecord, error) {
	winners := []ProverRecord{survivors[0]}

	for _, candidate := range survivors[1:] {
		if candidate.Root == winners[0].Root {
			winners = append(winners, candidate)
			continue
		}

		aWins, err := c.peaksVsPeaks(ctx, winners[0], candidate)
		if err != nil {
			return nil, err
		}
		if aWins {
			c.log.Info("tournament game resolved", "winner", winners[0].Index, "loser", candidate.Index)
			continue
		}
		c.log.Info("tournament game resolved", "winner", candidate.Index, "loser", winners[0].Index)
		winners = []ProverRecord{candidate}
	}
	return winners, nil
}

// peaksVsPeaks compares two audited peak lists left to right and, at
// the first differing peak, delegates to a bisection game over that
// peak's tree. It returns true iff A is the honest side.
func (c *Client) peaksVsPeaks(ctx context.Context, a, b ProverRecord) (bool, error) {
	if len(a.Peaks) != len(b.Peaks) {
		return false, fmt.Errorf("%w: peak lists of unequal length after a shared audit (prover %d: %d peaks, prover %d: %d peaks)",
			ErrInvariantViolation, a.Index, len(a.Peaks), b.Index, len(b.Peaks))
	}

	var offset uint64
	for i := range a.Peaks {
		if a.Peaks[i].RootHash == b.Peaks[i].RootHash {
			offset += a.Peaks[i].Size
			continue
		}

		depth := logN(c.n, a.Peaks[i].Size)
		outcome, err := c.treeVsTree(ctx, a, b, a.Peaks[i].RootHash, b.Peaks[i].RootHash, depth,
			a.Peaks[i].RootHash, b.Peaks[i].RootHash, 0)
		if err != nil {
			return false, err
		}

		switch o := outcome.(type) {
		case winnerOutcome:
			return bool(o), nil
		case disputedLeafOutcome:
			period := offset + uint64(o)
			return c.checkNodeAndPrevUpdate(ctx, a, b, period)
		default:
			return false, fmt.Errorf("%w: unrecognised bisection outcome", ErrInvariantViolation)
		}
	}

	return false, fmt.Errorf("%w: peaksVsPeaks invoked on provers with equal peak lists (prover %d vs prover %d)",
		ErrInvariantViolation, a.Index, b.Index)
}

// logN returns floor(log_n(size)) — exactly log_n(size) for the
// power-of-n peak sizes the audit admits — the number of bisection
// levels separating a tree's root from its leaves.
func logN(n int, size uint64) int {
	depth := 0
	for size > 1 {
		size /= uint64(n)
		depth++
	}
	return depth
}
