// Package mmr verifies the shape of a Merkle Mountain Range — a forest
// of perfect n-ary trees whose sizes are the base-n digit
// decomposition of the claimed leaf count — and maps global leaf
// indices to the peak that contains them. It never looks inside a
// peak's tree; that is package merkle's job.
package mmr

import (
	"errors"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
)

// Peak is one perfect tree in an MMR, identified by its root hash and
// leaf count. Size is always a power of the MMR's fan-out n.
type Peak struct {
	RootHash digest.Digest
	Size     uint64
}

// ErrEmptyPeaksNonzeroLeaves is the guard from the bagging step: an
// empty peak list can only legitimately correspond to a zero leaf
// count.
var ErrEmptyPeaksNonzeroLeaves = errors.New("mmr: empty peak list for nonzero leaf count")

// ExpectedPeakSizes returns the peak sizes a well-formed MMR of fan-out
// n must have for leafCount leaves: the base-n digit decomposition of
// leafCount, each nonzero digit d at digit-position p contributing d
// peaks of size n^p, ordered largest to smallest (most significant
// digit first).
func ExpectedPeakSizes(n int, leafCount uint64) []uint64 {
	if n < 2 || leafCount == 0 {
		return nil
	}

	// Find the highest power of n not exceeding leafCount.
	powers := []uint64{1}
	for powers[len(powers)-1] <= leafCount/uint64(n) {
		powers = append(powers, powers[len(powers)-1]*uint64(n))
	}

	var sizes []uint64
	remaining := leafCount
	for i := len(powers) - 1; i >= 0; i-- {
		p := powers[i]
		d := remaining / p
		remaining %= p
		for ; d > 0; d-- {
			sizes = append(sizes, p)
		}
	}
	return sizes
}

// BagPeaks folds a peak list into a single root: starting from the
// rightmost (smallest) peak with an accumulator of the zero digest,
// fold leftwards as acc = H(concat(peak.RootHash, acc)). An empty peak
// list bags to the zero digest, matching the leafCount == 0 case.
func BagPeaks(peaks []Peak) digest.Digest {
	var acc digest.Digest
	for i := len(peaks) - 1; i >= 0; i-- {
		acc = digest.Hash(digest.Concat(peaks[i].RootHash.Bytes(), acc.Bytes()))
	}
	return acc
}

// Verify checks that peaks is a well-formed MMR peak list for
// leafCount leaves under fan-out n, and that bagging them reproduces
// root. It never panics on malformed input; every failure mode simply
// returns false.
func Verify(n int, root digest.Digest, peaks []Peak, leafCount uint64) bool {
	if n < 2 {
		return false
	}

	expected := ExpectedPeakSizes(n, leafCount)
	if len(peaks) != len(expected) {
		return false
	}
	if len(peaks) == 0 && leafCount != 0 {
		return false
	}
	for i, p := range peaks {
		if p.Size != expected[i] {
			return false
		}
	}

	return digest.Eq(BagPeaks(peaks), root)
}

// GetPeakAndIndex maps a global leaf index to the peak whose
// prefix-sum range contains it, and the leaf's local index within that
// peak's tree. It performs a linear scan over peaks keeping a running
// offset, per the specification; callers needing this on a hot path
// over many lookups against the same peak list may want to cache the
// prefix sums themselves.
func GetPeakAndIndex(peaks []Peak, globalIndex uint64) (Peak, uint64, error) {
	var offset uint64
	for _, p := range peaks {
		if globalIndex < offset+p.Size {
			return p, globalIndex - offset, nil
		}
		offset += p.Size
	}
	return Peak{}, 0, errors.New("mmr: global index out of range of peaks")
}
