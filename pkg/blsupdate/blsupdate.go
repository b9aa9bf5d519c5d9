// Package blsupdate supplies one concrete implementation of
// syncstore.UpdateVerifierFunc: the signature scheme an Ethereum-style
// sync committee actually uses, BLS12-381 aggregate signatures over
// the MinPk variant (pubkeys in G1, signatures in G2), via the
// supranational/blst bindings.
//
// The core protocol never imports this package directly — it consumes
// Store.SyncUpdateVerify as an opaque predicate — but a verifier
// wiring up a real deployment needs exactly this adapter, and the
// in-memory reference provers in package prover use it to build
// genuinely signed committee histories for tests.
package blsupdate

import (
	blst "github.com/supranational/blst/bindings/go"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

// Key and signature sizes for the MinPk scheme.
const (
	PubkeySize    = 48 // compressed G1
	SignatureSize = 96 // compressed G2
)

// DST is the domain separation tag for BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_,
// the "proof of possession" scheme used for sync committee signatures.
var DST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// Verify implements syncstore.UpdateVerifierFunc: it returns true iff
// update.NextCommittee == cur and update.Signature is a valid
// FastAggregateVerify-style aggregate signature by every member of
// prev over H(update.Header). Any malformed pubkey or signature bytes
// yields false rather than a panic.
func Verify(prev, cur syncstore.Committee, update syncstore.Update) bool {
	if !update.NextCommittee.Equal(cur) {
		return false
	}
	if len(update.Signature) != SignatureSize {
		return false
	}
	if len(prev.Pubkeys) == 0 {
		return false
	}

	sig := new(blst.P2Affine).Uncompress(update.Signature)
	if sig == nil {
		return false
	}

	pks := make([]*blst.P1Affine, len(prev.Pubkeys))
	for i, pk := range prev.Pubkeys {
		if len(pk) != PubkeySize {
			return false
		}
		pks[i] = new(blst.P1Affine).Uncompress(pk)
		if pks[i] == nil {
			return false
		}
	}

	msg := digest.Hash(update.Header)
	return sig.FastAggregateVerify(true, pks, msg.Bytes(), DST)
}

// GenerateKeypair deterministically derives a BLS secret/public keypair
// from a 64-bit seed. It exists for tests and reference provers that
// need reproducible committee keys; production callers should draw key
// material from a real source of entropy.
func GenerateKeypair(seed uint64) (pubkey []byte, sk *blst.SecretKey) {
	var seedBytes [8]byte
	for i := 0; i < 8; i++ {
		seedBytes[i] = byte(seed >> (8 * i))
	}
	// blst.KeyGen requires at least 32 bytes of input key material.
	ikm := digest.Hash(seedBytes[:], []byte("superlight-bls-keygen"))
	sk = blst.KeyGen(ikm.Bytes())
	pk := new(blst.P1Affine).From(sk)
	return pk.Compress(), sk
}

// DeserializeSecretKey parses a raw secret key as produced by
// GenerateKeypair's sk.Serialize(). It exists so callers that only
// store serialized key bytes (as fixtures do) never need to import
// blst themselves.
func DeserializeSecretKey(b []byte) *blst.SecretKey {
	return new(blst.SecretKey).Deserialize(b)
}

// SignHeader signs H(header) with sk, returning a compressed G2
// signature.
func SignHeader(sk *blst.SecretKey, header []byte) []byte {
	msg := digest.Hash(header)
	sig := new(blst.P2Affine).Sign(sk, msg.Bytes(), DST)
	return sig.Compress()
}

// AggregateSignatures combines per-member compressed signatures into a
// single compressed aggregate signature suitable for Update.Signature.
func AggregateSignatures(sigs [][]byte) []byte {
	agg := new(blst.P2Aggregate)
	if !agg.AggregateCompressed(sigs, true) {
		return nil
	}
	return agg.ToAffine().Compress()
}
