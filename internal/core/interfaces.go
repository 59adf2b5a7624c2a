// Package core defines the narrow interfaces shared across the simulation,
// scoring, and evolution packages so that callers can depend on behavior
// rather than concrete types.
package core

import (
	"context"

	"github.com/redqueen-labs/aces/pkg/genome"
	"github.com/redqueen-labs/aces/pkg/network"
)

// Simulator runs one attacker-vs-defender matchup against a network and
// returns the resulting match record.
type Simulator interface {
	Simulate(ctx context.Context, net *network.Graph, attacker *genome.AttackGenome, defender *genome.DefenseGenome, seed int64) (*MatchResult, error)
}

// Scorer computes the two-objective fitness for a completed match from each
// side's perspective.
type Scorer interface {
	AttackerFitness(result *MatchResult) Fitness
	DefenderFitness(result *MatchResult) Fitness
}

// Fitness is the two-objective score every genome carries: a primary
// objective and a secondary objective, both to be maximized.
type Fitness struct {
	Primary   float64
	Secondary float64
}

// MatchResult is the outcome of a single simulated matchup, shared across
// scoring, metrics collection, and result persistence.
type MatchResult struct {
	AttackerID           string
	DefenderID           string
	Events               []SimEvent
	HostsCompromised     int
	MaxCriticality       float64
	SumCriticality       float64
	CredentialsObtained  int
	DataExfiltrated      bool
	TechniquesDetected   int
	TechniquesSuccessful int
	TechniquesAttempted  int
	TechniquesPrevented  int
	KillChainLength      int
}

// EventOutcome enumerates the five possible outcomes of attempting one
// attack gene against a target host.
type EventOutcome string

const (
	OutcomeSuccess              EventOutcome = "success"
	OutcomeDetectedAndPrevented EventOutcome = "detected_and_prevented"
	OutcomeDetectedButSucceeded EventOutcome = "detected_but_succeeded"
	OutcomePreconditionFailure  EventOutcome = "precondition_failure"
	OutcomeFailedRoll           EventOutcome = "failed_roll"
)

// SimEvent is one step of a simulated attack chain.
type SimEvent struct {
	Step            int
	TechniqueID     string
	TargetHost      string
	Outcome         EventOutcome
	DetectionRuleID string
	ResponseAction  string
	Effects         []string
}

// MetricsSink receives one generation's aggregate metrics as the
// co-evolution loop advances. Implementations must not block the caller for
// long; the Redis-backed implementation enforces this with a drop-oldest
// channel.
type MetricsSink interface {
	Publish(ctx context.Context, generation int, payload []byte) error
	Close() error
}

// ResultStore persists the final state of a co-evolution run: its config,
// its generation-by-generation log, and its hall of fame.
type ResultStore interface {
	SaveConfig(ctx context.Context, data []byte) error
	SaveGenerationLog(ctx context.Context, data []byte) error
	SaveHallOfFame(ctx context.Context, attackers, defenders []byte) error
}

// MatchupDispatcher runs a batch of (attacker, defender) matchups
// concurrently and returns one MatchResult per pair, in input order.
type MatchupDispatcher interface {
	Start(ctx context.Context, workers int) error
	Stop() error
	Dispatch(ctx context.Context, jobs []MatchupJob) ([]*MatchResult, error)
}

// MatchupJob is a single unit of work handed to a MatchupDispatcher.
type MatchupJob struct {
	Generation int
	Attacker   *genome.AttackGenome
	AttackerID string
	Defender   *genome.DefenseGenome
	DefenderID string
	Network    *network.Graph
}
