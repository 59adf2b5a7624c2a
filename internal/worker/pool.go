// Package worker implements the errgroup-backed matchup dispatcher that runs
// a generation's attacker-vs-defender pairings concurrently.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/internal/logger"
	"github.com/redqueen-labs/aces/internal/orchestrator"
	"github.com/twmb/murmur3"
)

// failureThresholdPercent is the fraction of a generation's matchups that
// may fail before Dispatch aborts the batch instead of returning partial
// results with nil entries for the failed jobs.
const failureThresholdPercent = 25.0

// pool is a core.MatchupDispatcher that evaluates a generation's matchups
// concurrently, bounded to a fixed worker count via an errgroup semaphore.
// Matchup order in the returned slice always matches job order; worker
// scheduling order does not, since each matchup is seeded independently.
type pool struct {
	sim  core.Simulator
	seed int64

	logger *logger.Logger

	mu      sync.Mutex
	workers int
	started bool
}

// NewMatchupDispatcher builds a dispatcher bound to one run's base seed and
// simulator. The base seed and each job's (generation, attacker ID,
// defender ID) are hashed together to produce a deterministic, order-
// independent per-pair substream, so the same generation always reproduces
// the same match results regardless of how workers interleave.
func NewMatchupDispatcher(sim core.Simulator, seed int64, log *logger.Logger) core.MatchupDispatcher {
	return &pool{sim: sim, seed: seed, logger: log}
}

func (p *pool) Start(ctx context.Context, workers int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("matchup dispatcher already started")
	}
	if workers < 1 {
		return fmt.Errorf("matchup dispatcher requires at least one worker")
	}

	p.workers = workers
	p.started = true
	p.logger.Infow("Starting matchup dispatcher", "workers", workers)

	return nil
}

func (p *pool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return fmt.Errorf("matchup dispatcher not started")
	}

	p.logger.Info("Stopping matchup dispatcher")
	p.started = false
	return nil
}

// Dispatch runs every job in the batch against the configured simulator,
// capping in-flight matchups at the worker count, and returns one
// MatchResult per job in input order. Individual matchup failures are
// collected rather than aborting the batch — a nil entry marks a failed
// job — unless the failure rate crosses failureThresholdPercent, in which
// case the whole generation aborts since something is systemically wrong
// rather than one unlucky matchup.
func (p *pool) Dispatch(ctx context.Context, jobs []core.MatchupJob) ([]*core.MatchResult, error) {
	p.mu.Lock()
	workers := p.workers
	started := p.started
	p.mu.Unlock()

	if !started {
		return nil, fmt.Errorf("matchup dispatcher not started")
	}

	results := make([]*core.MatchResult, len(jobs))
	errs := orchestrator.NewErrorAggregator()
	batchStart := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matchSeed := substreamSeed(p.seed, job.Generation, job.AttackerID, job.DefenderID)
			result, err := p.sim.Simulate(ctx, job.Network, job.Attacker, job.Defender, matchSeed)
			if err != nil {
				errs.Add(fmt.Errorf("matchup %s vs %s: %w", job.AttackerID, job.DefenderID, err))
				return nil
			}
			result.AttackerID = job.AttackerID
			result.DefenderID = job.DefenderID
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if errs.HasErrors() {
		p.logger.LogError(ctx, errs, "matchup_batch", "generation_size", len(jobs), "failures", errs.Count())
		if errs.ShouldFail(len(jobs), failureThresholdPercent) {
			return nil, fmt.Errorf("matchup batch aborted: %s", errs.Summary(len(jobs)))
		}
	}

	generation := 0
	if len(jobs) > 0 {
		generation = jobs[0].Generation
	}
	p.logger.LogMatchupBatch(ctx, generation, len(jobs), time.Since(batchStart), "failures", errs.Count())

	return results, nil
}

// substreamSeed derives a deterministic per-matchup seed from the run's base
// seed and the matchup's identity, so that dispatch order — which varies
// across runs and worker counts — never affects which random stream a given
// (generation, attacker, defender) triple draws from.
func substreamSeed(baseSeed int64, generation int, attackerID, defenderID string) int64 {
	h := murmur3.New64()
	fmt.Fprintf(h, "%d|%d|%s|%s", baseSeed, generation, attackerID, defenderID)
	return int64(h.Sum64())
}
