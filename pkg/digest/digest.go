// Package digest provides the single hash primitive and byte utilities
// the rest of the verifier builds on: one canonical collision-resistant
// hash, concatenation, and equality. Every other component — the Merkle
// tree verifier, the MMR verifier, the sync store — calls through this
// package rather than reaching for crypto/sha256 or crypto/sha3 directly,
// so the whole protocol agrees on exactly one hash function.
package digest

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Size is the length in bytes of a Digest.
const Size = 32

// Digest is a fixed-width output of Hash. The zero Digest is a valid,
// distinguishable value (IsZero reports it) but is never produced by
// Hash itself, since Keccak-256 never maps to the all-zero output for
// any input of practical size.
type Digest [Size]byte

// Hash computes the canonical hash of the concatenation of its
// arguments. It is the H() referenced throughout the specification:
// leaf hashing, internal node hashing, and peak bagging all call this
// and only this.
func Hash(parts ...[]byte) Digest {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var d Digest
	h.Sum(d[:0])
	return d
}

// Concat concatenates byte slices into a single slice. It never
// aliases its arguments.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ConcatDigests is Concat specialised for a slice of Digests, which is
// the common case when hashing child-node hashes together.
func ConcatDigests(ds ...Digest) []byte {
	out := make([]byte, 0, len(ds)*Size)
	for _, d := range ds {
		out = append(out, d[:]...)
	}
	return out
}

// Eq reports whether two digests are byte-equal. The adversary
// controls both sides of every comparison in this protocol, so there
// is no timing-side-channel concern that would call for a
// constant-time compare.
func Eq(a, b Digest) bool {
	return bytes.Equal(a[:], b[:])
}

// BytesToDigest converts a byte slice to a Digest, left-padding with
// zeros if shorter than Size and truncating from the left if longer.
func BytesToDigest(b []byte) Digest {
	var d Digest
	if len(b) > Size {
		b = b[len(b)-Size:]
	}
	copy(d[Size-len(b):], b)
	return d
}

// Bytes returns the digest's byte representation.
func (d Digest) Bytes() []byte { return d[:] }

// IsZero reports whether the digest is the all-zero value.
func (d Digest) IsZero() bool { return d == Digest{} }

// Hex returns the digest as a "0x"-prefixed hex string.
func (d Digest) Hex() string { return "0x" + hex.EncodeToString(d[:]) }

// String implements fmt.Stringer.
func (d Digest) String() string { return d.Hex() }

// HexToDigest parses a "0x"-prefixed or bare hex string into a Digest.
// Malformed input yields the zero Digest.
func HexToDigest(s string) Digest {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}
	}
	return BytesToDigest(b)
}

// GoString implements fmt.GoStringer so Digests print helpfully in
// test failures and debug logs.
func (d Digest) GoString() string { return fmt.Sprintf("digest.Digest(%s)", d.Hex()) }
