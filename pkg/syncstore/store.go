package syncstore

import "sync"

// Store is the verifier-side sync store interface the superlight
// client consumes. Implementations MUST make SyncUpdateVerify return
// false — never panic or throw — on any parse error or bad signature;
// it is evaluated against attacker-controlled input.
type Store interface {
	// GenesisSyncCommittee returns the committee the verifier trusts a
	// priori.
	GenesisSyncCommittee() Committee

	// GenesisPeriod returns the period of the genesis committee.
	GenesisPeriod() Period

	// CurrentPeriod returns the verifier's own clock/store notion of
	// the latest period, used to size the expected MMR.
	CurrentPeriod() Period

	// SyncUpdateVerify returns true iff update.NextCommittee == cur and
	// the aggregate signature in update verifies under the aggregate of
	// prev's public keys.
	SyncUpdateVerify(prev, cur Committee, update Update) bool
}

// UpdateVerifierFunc is the pluggable signature-scheme predicate a
// MemoryStore delegates SyncUpdateVerify to, keeping the concrete
// cryptography out of this package.
type UpdateVerifierFunc func(prev, cur Committee, update Update) bool

// MemoryStore is a Store backed by an in-memory genesis checkpoint and
// a pluggable update verifier.
type MemoryStore struct {
	mu sync.RWMutex

	genesisCommittee Committee
	genesisPeriod    Period
	currentPeriod    Period
	verify           UpdateVerifierFunc
}

// NewMemoryStore creates a Store seeded with a genesis committee and
// period, reporting currentPeriod as the verifier's clock, and
// delegating fraud-proof checks to verify.
func NewMemoryStore(genesisCommittee Committee, genesisPeriod, currentPeriod Period, verify UpdateVerifierFunc) *MemoryStore {
	return &MemoryStore{
		genesisCommittee: genesisCommittee,
		genesisPeriod:    genesisPeriod,
		currentPeriod:    currentPeriod,
		verify:           verify,
	}
}

// GenesisSyncCommittee implements Store.
func (s *MemoryStore) GenesisSyncCommittee() Committee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genesisCommittee
}

// GenesisPeriod implements Store.
func (s *MemoryStore) GenesisPeriod() Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genesisPeriod
}

// CurrentPeriod implements Store.
func (s *MemoryStore) CurrentPeriod() Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPeriod
}

// SetCurrentPeriod advances the verifier's clock. Not part of the
// Store interface; used by callers (or tests) driving the verifier's
// notion of time forward between sync() calls.
func (s *MemoryStore) SetCurrentPeriod(p Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPeriod = p
}

// SyncUpdateVerify implements Store by delegating to the configured
// UpdateVerifierFunc. A nil verifier always rejects.
func (s *MemoryStore) SyncUpdateVerify(prev, cur Committee, update Update) bool {
	s.mu.RLock()
	verify := s.verify
	s.mu.RUnlock()
	if verify == nil {
		return false
	}
	return verify(prev, cur, update)
}
