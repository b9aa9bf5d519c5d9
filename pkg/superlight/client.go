package superlight

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lightclients/poc-superlight-client/pkg/log"
	"github.com/lightclients/poc-superlight-client/pkg/mmr"
	"github.com/lightclients/poc-superlight-client/pkg/prover"
	"github.com/lightclients/poc-superlight-client/pkg/syncstore"
)

// Client orchestrates the superlight sync protocol over a fixed set
// of provers and a verifier-side sync store. A Client is not re-entrant:
// callers must not invoke Sync concurrently on the same instance.
type Client struct {
	n       int
	provers []prover.Prover
	store   syncstore.Store
	log     *log.Logger
}

// NewClient builds a Client from cfg. It does not contact any prover.
func NewClient(cfg Config) *Client {
	return &Client{
		n:       cfg.N,
		provers: cfg.Provers,
		store:   cfg.Store,
		log:     cfg.logger(),
	}
}

// Sync runs the full audit/tournament/commitment pipeline and returns
// the surviving ProverRecord(s) whose SyncCommittee now holds the
// adopted latest committee. It fails only when every validly-shaped
// prover is proven dishonest.
func (c *Client) Sync(ctx context.Context) ([]ProverRecord, error) {
	if len(c.provers) == 0 {
		return nil, ErrNoProvers
	}

	mmrSize := uint64(c.store.CurrentPeriod()-c.store.GenesisPeriod()) + 1

	survivors, err := c.auditAll(ctx, mmrSize)
	if err != nil {
		return nil, err
	}
	if len(survivors) == 0 {
		return nil, fmt.Errorf("%w: no prover passed the initial MMR audit", ErrAllProversDishonest)
	}

	winners, err := c.runTournament(ctx, survivors)
	if err != nil {
		return nil, err
	}

	return c.commit(ctx, winners)
}

// auditAll requests getMMRInfo from every prover concurrently and
// keeps only those whose reported peaks verify against mmrSize.
// Concurrency here is safe because MMR verification is pure and each
// prover's response is independent of every other's.
func (c *Client) auditAll(ctx context.Context, mmrSize uint64) ([]ProverRecord, error) {
	records := make([]*ProverRecord, len(c.provers))

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for i, p := range c.provers {
		i, p := i, p
		g.Go(func() error {
			info, err := p.GetMMRInfo(gctx)
			if err != nil {
				c.log.Warn("prover audit request failed", "index", i, "err", err)
				return nil
			}
			if !mmr.Verify(c.n, info.RootHash, info.Peaks, mmrSize) {
				c.log.Warn("prover failed initial MMR audit", "index", i)
				return nil
			}
			mu.Lock()
			records[i] = &ProverRecord{Index: i, Root: info.RootHash, Peaks: info.Peaks, handle: p}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	survivors := make([]ProverRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			survivors = append(survivors, *r)
		}
	}
	c.log.Info("initial MMR audit complete", "survivors", len(survivors), "total", len(c.provers))
	return survivors, nil
}

// commit runs the final latest-committee audit over the surviving
// pool and returns the first record that passes it.
func (c *Client) commit(ctx context.Context, winners []ProverRecord) ([]ProverRecord, error) {
	for _, w := range winners {
		committee, ok, err := c.getVerifiedSyncCommittee(ctx, w, prover.Latest, w.Peaks)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.log.Warn("surviving prover failed final latest-committee audit", "index", w.Index)
			continue
		}
		w.SyncCommittee = committee
		c.log.Info("adopted committee", "index", w.Index)
		return []ProverRecord{w}, nil
	}
	return nil, fmt.Errorf("%w: every surviving prover failed the final audit", ErrAllProversDishonest)
}
