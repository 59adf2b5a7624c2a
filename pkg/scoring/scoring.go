// Package scoring turns completed matchups into the two-objective fitness
// values the evolutionary loop optimizes for each side.
package scoring

import (
	"github.com/redqueen-labs/aces/internal/config"
	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/genome"
)

// MatchScorer computes attacker and defender fitness from scoring weights
// fixed for the lifetime of a run.
type MatchScorer struct {
	weights config.ScoringWeights
}

// NewMatchScorer builds a scorer bound to one run's scoring weights.
func NewMatchScorer(weights config.ScoringWeights) *MatchScorer {
	return &MatchScorer{weights: weights}
}

// AttackerFitness computes an attacker's two objectives for a single match:
// effectiveness (sum of compromised-host criticality, credentials, exfil
// bonus, and kill chain length, all weighted) and stealth (the fraction of
// attempted techniques that went undetected).
func (s *MatchScorer) AttackerFitness(result *core.MatchResult) core.Fitness {
	w := s.weights

	effectiveness := result.SumCriticality*w.HostCriticalityMultiplier +
		float64(result.CredentialsObtained)*w.CredentialValue +
		float64(result.KillChainLength)*w.KillChainLengthValue
	if result.DataExfiltrated {
		effectiveness += w.ExfiltrationBonus
	}

	attempted := result.TechniquesAttempted
	if attempted < 1 {
		attempted = 1
	}
	stealth := 1.0 - float64(result.TechniquesDetected)/float64(attempted)

	return core.Fitness{Primary: effectiveness, Secondary: stealth}
}

// DefenderFitness computes a defender's coverage objective from a single
// match: detection rate, a flat credit per prevented attempt, and a clean
// (non-exfiltrated) outcome bonus. Efficiency is not computable from a
// single match result — it
// depends on the defender genome's total deploy cost and false-positive
// load against its budget, neither of which a MatchResult carries — so it
// is left at the neutral midpoint here and recomputed properly by
// GenomeEfficiency once the caller has the genome in hand.
func (s *MatchScorer) DefenderFitness(result *core.MatchResult) core.Fitness {
	w := s.weights

	attempted := result.TechniquesAttempted
	if attempted < 1 {
		attempted = 1
	}
	detectionRate := float64(result.TechniquesDetected) / float64(attempted)

	coverage := detectionRate*w.DetectionValue +
		float64(result.TechniquesPrevented)*w.PreventionValue
	if !result.DataExfiltrated {
		coverage += w.NoExfilBonus
	}

	return core.Fitness{Primary: coverage, Secondary: 0.5}
}

// GenomeEfficiency computes a defender genome's efficiency objective:
// 1/(1 + total_fp_load·W_fp) × (1 - deployed_cost/budget), cost-ratio and
// false-positive weighted rather than the count-ratio-only formula that
// shows up as an unused stub alongside the original match scorer.
func GenomeEfficiency(weights config.ScoringWeights, d *genome.DefenseGenome) float64 {
	fpTerm := 1.0 / (1.0 + d.TotalFalsePositiveLoad()*weights.FalsePositivePenalty)
	costRatio := 1.0
	if d.Budget > 0 {
		costRatio = 1.0 - d.TotalDeployCost()/d.Budget
	}
	if costRatio < 0 {
		costRatio = 0
	}
	return fpTerm * costRatio
}

// AggregateFitness averages a slice of per-match Fitness values — the
// evolutionary loop evaluates each genome against several opponents per
// generation and optimizes the mean across that batch, not any single
// matchup's result.
func AggregateFitness(fitnesses []core.Fitness) core.Fitness {
	if len(fitnesses) == 0 {
		return core.Fitness{}
	}
	var primary, secondary float64
	for _, f := range fitnesses {
		primary += f.Primary
		secondary += f.Secondary
	}
	n := float64(len(fitnesses))
	return core.Fitness{Primary: primary / n, Secondary: secondary / n}
}
