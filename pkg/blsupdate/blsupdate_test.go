package blsupdate

import (
	"testing"

	blst "github.com/supranational/blst/bindings/go"

	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

func buildCommittee(seeds ...uint64) (syncstore.Committee, [][]byte) {
	var c syncstore.Committee
	sks := make([][]byte, len(seeds))
	for i, seed := range seeds {
		pk, sk := GenerateKeypair(seed)
		c.Pubkeys = append(c.Pubkeys, pk)
		sks[i] = sk.Serialize()
	}
	return c, sks
}

func signWithAll(skBytes [][]byte, header []byte) []byte {
	sigs := make([][]byte, len(skBytes))
	for i, b := range skBytes {
		sk := new(blst.SecretKey).Deserialize(b)
		sigs[i] = SignHeader(sk, header)
	}
	return AggregateSignatures(sigs)
}

func TestVerifyAcceptsHonestAggregateSignature(t *testing.T) {
	prev, prevSKs := buildCommittee(1, 2, 3)
	cur, _ := buildCommittee(10, 11, 12)
	header := []byte("header-at-period-1")

	update := syncstore.Update{
		NextCommittee: cur,
		Header:        header,
		Signature:     signWithAll(prevSKs, header),
	}

	if !Verify(prev, cur, update) {
		t.Fatal("Verify rejected an honestly aggregated signature")
	}
}

func TestVerifyRejectsWrongNextCommittee(t *testing.T) {
	prev, prevSKs := buildCommittee(1, 2, 3)
	cur, _ := buildCommittee(10, 11, 12)
	wrong, _ := buildCommittee(20, 21, 22)
	header := []byte("header")

	update := syncstore.Update{
		NextCommittee: wrong,
		Header:        header,
		Signature:     signWithAll(prevSKs, header),
	}
	if Verify(prev, cur, update) {
		t.Fatal("Verify accepted a mismatched NextCommittee")
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	prev, prevSKs := buildCommittee(1, 2, 3)
	cur, _ := buildCommittee(10, 11, 12)
	header := []byte("header")

	sig := signWithAll(prevSKs, header)
	sig[0] ^= 0xff

	update := syncstore.Update{NextCommittee: cur, Header: header, Signature: sig}
	if Verify(prev, cur, update) {
		t.Fatal("Verify accepted a tampered signature")
	}
}

func TestVerifyRejectsMalformedSignatureLength(t *testing.T) {
	prev, _ := buildCommittee(1, 2, 3)
	cur, _ := buildCommittee(10, 11, 12)
	update := syncstore.Update{NextCommittee: cur, Header: []byte("h"), Signature: []byte{1, 2, 3}}
	if Verify(prev, cur, update) {
		t.Fatal("Verify accepted a too-short signature")
	}
}

func TestVerifyRejectsEmptyPrevCommittee(t *testing.T) {
	cur, _ := buildCommittee(10)
	update := syncstore.Update{NextCommittee: cur, Header: []byte("h"), Signature: make([]byte, SignatureSize)}
	if Verify(syncstore.Committee{}, cur, update) {
		t.Fatal("Verify accepted an empty prev committee")
	}
}
