// Package syncstore defines the verifier-side view of sync committee
// history: the genesis committee and period it was seeded with, the
// verifier's own notion of the current period, and the single-update
// fraud-proof predicate the bisection game falls back on once it has
// located a disputed leaf.
//
// The concrete signature scheme behind SyncUpdateVerify is deliberately
// not fixed here — it is out of scope for the core protocol, which only
// ever calls the predicate. Package blsupdate supplies one concrete,
// BLS12-381-backed implementation; callers may supply any other.
package syncstore

import "github.com/lightclients/poc-superlight-client/pkg/digest"

// Period is a non-negative integer indexing sync committee epochs.
type Period uint64

// Committee is an ordered sequence of public keys active during a
// period. Order matters: it is part of what Hash commits to.
type Committee struct {
	Pubkeys [][]byte
}

// Hash computes H(concat(keys)), the committee's commitment.
func (c Committee) Hash() digest.Digest {
	return digest.Hash(digest.Concat(c.Pubkeys...))
}

// Equal reports whether two committees have the same ordered pubkeys.
func (c Committee) Equal(o Committee) bool {
	if len(c.Pubkeys) != len(o.Pubkeys) {
		return false
	}
	for i := range c.Pubkeys {
		if string(c.Pubkeys[i]) != string(o.Pubkeys[i]) {
			return false
		}
	}
	return true
}

// Update attests that the committee transitioned from one period's
// committee to the next, witnessed by an aggregate signature over
// H(Header) made by the previous committee's members. Header and
// Signature are opaque to the core; only a Store's SyncUpdateVerify
// interprets them.
type Update struct {
	NextCommittee Committee
	Header        []byte
	Signature     []byte
}
