package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/redqueen-labs/aces/internal/config"
	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/internal/logger"
	"github.com/redqueen-labs/aces/pkg/genome"
	"github.com/redqueen-labs/aces/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSimulator struct {
	mu          sync.Mutex
	inFlight    int32
	maxInFlight int32
	seeds       []int64
}

func (s *recordingSimulator) Simulate(ctx context.Context, net *network.Graph, attacker *genome.AttackGenome, defender *genome.DefenseGenome, seed int64) (*core.MatchResult, error) {
	cur := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)

	s.mu.Lock()
	if cur > s.maxInFlight {
		s.maxInFlight = cur
	}
	s.seeds = append(s.seeds, seed)
	s.mu.Unlock()

	return &core.MatchResult{TechniquesAttempted: 1}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(config.LoggerConfig{Level: "error", Format: "json"})
	require.NoError(t, err)
	return log
}

func makeJobs(n int) []core.MatchupJob {
	jobs := make([]core.MatchupJob, n)
	for i := 0; i < n; i++ {
		jobs[i] = core.MatchupJob{
			Generation: 1,
			AttackerID: fmt.Sprintf("attacker-%d", i),
			DefenderID: fmt.Sprintf("defender-%d", i),
			Network:    network.NewGraph(),
		}
	}
	return jobs
}

func TestDispatchReturnsResultsInInputOrder(t *testing.T) {
	sim := &recordingSimulator{}
	d := NewMatchupDispatcher(sim, 42, testLogger(t))
	require.NoError(t, d.Start(context.Background(), 2))
	defer d.Stop()

	jobs := makeJobs(5)
	results, err := d.Dispatch(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.NotNil(t, r)
	}
}

func TestDispatchCapsConcurrencyAtWorkerCount(t *testing.T) {
	sim := &recordingSimulator{}
	d := NewMatchupDispatcher(sim, 42, testLogger(t))
	require.NoError(t, d.Start(context.Background(), 3))
	defer d.Stop()

	_, err := d.Dispatch(context.Background(), makeJobs(20))
	require.NoError(t, err)
	assert.LessOrEqual(t, sim.maxInFlight, int32(3))
}

func TestDispatchSeedsAreDeterministicAcrossRuns(t *testing.T) {
	jobs := makeJobs(4)

	sim1 := &recordingSimulator{}
	d1 := NewMatchupDispatcher(sim1, 99, testLogger(t))
	require.NoError(t, d1.Start(context.Background(), 1))
	_, err := d1.Dispatch(context.Background(), jobs)
	require.NoError(t, err)
	d1.Stop()

	sim2 := &recordingSimulator{}
	d2 := NewMatchupDispatcher(sim2, 99, testLogger(t))
	require.NoError(t, d2.Start(context.Background(), 4))
	_, err = d2.Dispatch(context.Background(), jobs)
	require.NoError(t, err)
	d2.Stop()

	seedSet1 := map[int64]bool{}
	for _, s := range sim1.seeds {
		seedSet1[s] = true
	}
	seedSet2 := map[int64]bool{}
	for _, s := range sim2.seeds {
		seedSet2[s] = true
	}
	assert.Equal(t, seedSet1, seedSet2)
}

func TestDispatchFailsBeforeStart(t *testing.T) {
	sim := &recordingSimulator{}
	d := NewMatchupDispatcher(sim, 1, testLogger(t))
	_, err := d.Dispatch(context.Background(), makeJobs(1))
	assert.Error(t, err)
}

func TestStartTwiceFails(t *testing.T) {
	sim := &recordingSimulator{}
	d := NewMatchupDispatcher(sim, 1, testLogger(t))
	require.NoError(t, d.Start(context.Background(), 1))
	defer d.Stop()
	assert.Error(t, d.Start(context.Background(), 1))
}

type flakySimulator struct {
	failIndices map[int]bool
	mu          sync.Mutex
	calls       int
}

func (s *flakySimulator) Simulate(ctx context.Context, net *network.Graph, attacker *genome.AttackGenome, defender *genome.DefenseGenome, seed int64) (*core.MatchResult, error) {
	s.mu.Lock()
	idx := s.calls
	s.calls++
	s.mu.Unlock()
	if s.failIndices[idx] {
		return nil, fmt.Errorf("simulated failure")
	}
	return &core.MatchResult{TechniquesAttempted: 1}, nil
}

func TestDispatchToleratesPartialFailuresBelowThreshold(t *testing.T) {
	sim := &flakySimulator{failIndices: map[int]bool{0: true}}
	d := NewMatchupDispatcher(sim, 1, testLogger(t))
	require.NoError(t, d.Start(context.Background(), 1))
	defer d.Stop()

	results, err := d.Dispatch(context.Background(), makeJobs(10))
	require.NoError(t, err)
	require.Len(t, results, 10)

	nilCount := 0
	for _, r := range results {
		if r == nil {
			nilCount++
		}
	}
	assert.Equal(t, 1, nilCount)
}

func TestDispatchAbortsWhenFailureRateExceedsThreshold(t *testing.T) {
	sim := &flakySimulator{failIndices: map[int]bool{0: true, 1: true, 2: true, 3: true}}
	d := NewMatchupDispatcher(sim, 1, testLogger(t))
	require.NoError(t, d.Start(context.Background(), 1))
	defer d.Stop()

	_, err := d.Dispatch(context.Background(), makeJobs(10))
	assert.Error(t, err)
}

func TestSubstreamSeedDiffersByGenerationAndIdentity(t *testing.T) {
	base := int64(7)
	a := substreamSeed(base, 1, "x", "y")
	b := substreamSeed(base, 2, "x", "y")
	c := substreamSeed(base, 1, "x", "z")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, substreamSeed(base, 1, "x", "y"))
}
