// Package superlight implements the client side of the interactive
// accumulator-disagreement protocol: audit every prover's claimed MMR,
// pool provers that agree, run a bisection tournament between provers
// that don't, and adopt the surviving committee. It is the only
// component that talks to more than one prover at a time; packages
// digest, merkle, mmr and syncstore are all pure and single-sided.
package superlight

import (
	"errors"

	"github.com/lightclients/poc-superlight-client/pkg/digest"
	"github.com/lightclients/poc-superlight-client/pkg/log"
	"github.com/lightclients/poc-superlight-client/pkg/mmr"
	"github.com/lightclients/poc-superlight-client/pkg/prover"
	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

// ErrInvariantViolation marks a condition the protocol's own
// precondition proofs should have ruled out — two peak lists of
// unequal length after a shared audit, a treeVsTree call with no
// disagreeing child, or both sides of a fraud check verifying at
// once. It is always fatal: sync aborts rather than guess.
var ErrInvariantViolation = errors.New("superlight: protocol invariant violation")

// ErrAllProversDishonest is returned when no prover survives the
// initial audit, or every surviving prover fails the final
// latest-committee check.
var ErrAllProversDishonest = errors.New("superlight: all provers dishonest")

// ErrNoProvers is returned when Sync is called with an empty prover
// list.
var ErrNoProvers = errors.New("superlight: no provers configured")

// ProverRecord is what the client knows about one prover between the
// initial audit and final commitment: its slot index, claimed MMR
// root and peaks, and — once adopted — its verified committee.
// Records are immutable once constructed; losing a bisection game
// simply drops a record from the pool rather than mutating it.
type ProverRecord struct {
	Index         int
	Root          digest.Digest
	Peaks         []mmr.Peak
	SyncCommittee [][]byte

	handle prover.Prover
}

// Config configures a Client. N must equal the fan-out every prover
// used to build its MMR and Merkle trees; a mismatch is a
// configuration error, not something this package can detect from the
// wire alone.
type Config struct {
	N       int
	Provers []prover.Prover
	Store   syncstore.Store
	Logger  *log.Logger
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default().Module("superlight")
}
