package prover

import (
	"github.com/lightclients/poc-superlight-client/pkg/blsupdate"
	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

// GenerateHonestHistory builds length consecutive committees of
// membersPerCommittee keys each, genuinely signed transitions between
// them, using deterministic keys derived from seedBase. It is the
// fixture both this package's and package superlight's tests build
// honest and forked provers from.
func GenerateHonestHistory(length, membersPerCommittee int, seedBase uint64) ([]syncstore.Committee, []syncstore.Update) {
	committees := make([]syncstore.Committee, length)
	secretKeys := make([][][]byte, length)

	for period := 0; period < length; period++ {
		committees[period], secretKeys[period] = generateCommittee(membersPerCommittee, seedBase+uint64(period)*1000)
	}

	updates := make([]syncstore.Update, 0, length-1)
	for period := 1; period < length; period++ {
		header := committees[period].Hash().Bytes()
		sig := signWithCommittee(secretKeys[period-1], header)
		updates = append(updates, syncstore.Update{
			NextCommittee: committees[period],
			Header:        header,
			Signature:     sig,
		})
	}
	return committees, updates
}

// ForkHistory takes an honest history and replaces every committee
// from forkPeriod onward with a freshly keyed one signed by the
// forked members themselves rather than by the true previous
// committee — a forged chain that diverges structurally at
// forkPeriod and whose transition signature will not verify against
// the genuine predecessor. forkPeriod must be >= 1.
func ForkHistory(honest []syncstore.Committee, forkPeriod, membersPerCommittee int, forkSeedBase uint64) ([]syncstore.Committee, []syncstore.Update) {
	committees := append([]syncstore.Committee(nil), honest[:forkPeriod]...)
	secretKeys := make([][][]byte, len(honest))

	for period := forkPeriod; period < len(honest); period++ {
		c, sks := generateCommittee(membersPerCommittee, forkSeedBase+uint64(period)*1000)
		committees = append(committees, c)
		secretKeys[period] = sks
	}

	updates := make([]syncstore.Update, 0, len(honest)-1)
	for period := 1; period < len(honest); period++ {
		header := committees[period].Hash().Bytes()
		if period < forkPeriod {
			// Shared prefix: use an all-zero placeholder of signature
			// length, which does not verify; these periods are never
			// queried on the forked side because bisection stops at
			// the first disagreement.
			updates = append(updates, syncstore.Update{NextCommittee: committees[period], Header: header, Signature: make([]byte, blsupdate.SignatureSize)})
			continue
		}
		// The forger signs with its own new keys for the period being
		// forged, not with the true predecessor's keys, so the
		// signature fails to verify against the genuine prevCommittee.
		signer := secretKeys[period]
		if signer == nil {
			signer = secretKeys[forkPeriod]
		}
		sig := signWithCommittee(signer, header)
		updates = append(updates, syncstore.Update{NextCommittee: committees[period], Header: header, Signature: sig})
	}
	return committees, updates
}

func generateCommittee(members int, seedBase uint64) (syncstore.Committee, [][]byte) {
	pubkeys := make([][]byte, members)
	secretKeys := make([][]byte, members)
	for i := 0; i < members; i++ {
		pk, sk := blsupdate.GenerateKeypair(seedBase + uint64(i))
		pubkeys[i] = pk
		secretKeys[i] = sk.Serialize()
	}
	return syncstore.Committee{Pubkeys: pubkeys}, secretKeys
}

func signWithCommittee(secretKeys [][]byte, header []byte) []byte {
	sigs := make([][]byte, len(secretKeys))
	for i, skBytes := range secretKeys {
		sk := blsupdate.DeserializeSecretKey(skBytes)
		sigs[i] = blsupdate.SignHeader(sk, header)
	}
	return blsupdate.AggregateSignatures(sigs)
}
