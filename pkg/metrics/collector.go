// Package metrics tracks per-generation statistics for both populations of
// the co-evolution loop and detects stagnation.
package metrics

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/attck"
	"github.com/redqueen-labs/aces/pkg/genome"
	"golang.org/x/exp/maps"
)

// FitnessStats is the (min, mean, max, stdev) summary of one fitness
// objective across a population.
type FitnessStats struct {
	Min   float64
	Mean  float64
	Max   float64
	Stdev float64
}

// GenerationMetrics is the full snapshot recorded for one generation: both
// populations' fitness statistics, population composition, and diversity
// and coverage measures.
type GenerationMetrics struct {
	Generation int

	AttackerEffectiveness FitnessStats
	AttackerStealth       FitnessStats
	DefenderCoverage      FitnessStats
	DefenderEfficiency    FitnessStats

	TechniqueFrequencies       map[string]float64
	DetectionCoverageRatio     float64
	UniqueKillChains           int
	AttackerDiversity          float64
	DefenderDiversity          float64
	DefenderDataSourceCoverage map[string]int

	AttackerHOFTop1 core.Fitness
	DefenderHOFTop1 core.Fitness
}

// Collector accumulates a run's per-generation metrics in order.
type Collector struct {
	registry *attck.Registry
	History  []GenerationMetrics
}

// NewCollector builds a collector bound to the technique catalog used to
// derive the fixed-order presence vectors diversity is measured over.
func NewCollector(registry *attck.Registry) *Collector {
	return &Collector{registry: registry}
}

// RecordGeneration computes and appends one generation's metrics from the
// two populations, their aggregated fitnesses (one core.Fitness per
// individual, same order as its genome slice), and each side's current
// Hall of Fame leader.
func (c *Collector) RecordGeneration(
	gen int,
	attackers []*genome.AttackGenome,
	attackerFitness []core.Fitness,
	defenders []*genome.DefenseGenome,
	defenderFitness []core.Fitness,
	attackerHOFTop1, defenderHOFTop1 core.Fitness,
) GenerationMetrics {
	m := GenerationMetrics{
		Generation:      gen,
		AttackerHOFTop1: attackerHOFTop1,
		DefenderHOFTop1: defenderHOFTop1,
	}

	m.AttackerEffectiveness = stats(primaries(attackerFitness))
	m.AttackerStealth = stats(secondaries(attackerFitness))
	m.DefenderCoverage = stats(primaries(defenderFitness))
	m.DefenderEfficiency = stats(secondaries(defenderFitness))

	techCounts := map[string]int{}
	totalGenes := 0
	chains := map[string]struct{}{}
	for _, atk := range attackers {
		chains[chainKey(atk)] = struct{}{}
		for _, gene := range atk.Genes {
			techCounts[gene.TechniqueID]++
			totalGenes++
		}
	}
	m.TechniqueFrequencies = make(map[string]float64, len(techCounts))
	if totalGenes > 0 {
		for tid, count := range techCounts {
			m.TechniqueFrequencies[tid] = float64(count) / float64(totalGenes)
		}
	}
	m.UniqueKillChains = len(chains)

	attackerTechniques := maps.Keys(techCounts)
	if len(attackerTechniques) > 0 {
		covered := 0
		for _, tid := range attackerTechniques {
			for _, d := range defenders {
				if d.CoversTechnique(tid) {
					covered++
					break
				}
			}
		}
		m.DetectionCoverageRatio = float64(covered) / float64(len(attackerTechniques))
	}

	m.AttackerDiversity = hammingDiversity(attackers, c.registry.AllIDs())

	defConfigs := map[string]struct{}{}
	for _, d := range defenders {
		defConfigs[defenderConfigKey(d)] = struct{}{}
	}
	m.DefenderDiversity = ratio(len(defConfigs), len(defenders))

	m.DefenderDataSourceCoverage = map[string]int{}
	for _, d := range defenders {
		for _, g := range d.Genes {
			if g.DataSource != "" {
				m.DefenderDataSourceCoverage[g.DataSource]++
			}
		}
	}

	c.History = append(c.History, m)
	return m
}

// DetectStagnation reports whether neither population's fitness objectives
// have improved by at least epsilon over the last window generations — per
// spec.md: "max of either fitness objective in either population."
func (c *Collector) DetectStagnation(window int, epsilon float64) bool {
	if len(c.History) < window {
		return false
	}
	recent := c.History[len(c.History)-window:]

	improved := func(get func(GenerationMetrics) float64) bool {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, m := range recent {
			v := get(m)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		return hi-lo >= epsilon
	}

	if improved(func(m GenerationMetrics) float64 { return m.AttackerEffectiveness.Max }) {
		return false
	}
	if improved(func(m GenerationMetrics) float64 { return m.AttackerStealth.Max }) {
		return false
	}
	if improved(func(m GenerationMetrics) float64 { return m.DefenderCoverage.Max }) {
		return false
	}
	if improved(func(m GenerationMetrics) float64 { return m.DefenderEfficiency.Max }) {
		return false
	}
	return true
}

// ToJSON writes the full metrics history to path as a JSON array, the
// evolution_log.json artifact of a run's result directory.
func (c *Collector) ToJSON(path string) error {
	data, err := json.MarshalIndent(c.History, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadJSON reads a metrics history previously written by ToJSON.
func LoadJSON(path string) ([]GenerationMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var history []GenerationMetrics
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func primaries(fitnesses []core.Fitness) []float64 {
	out := make([]float64, len(fitnesses))
	for i, f := range fitnesses {
		out[i] = f.Primary
	}
	return out
}

func secondaries(fitnesses []core.Fitness) []float64 {
	out := make([]float64, len(fitnesses))
	for i, f := range fitnesses {
		out[i] = f.Secondary
	}
	return out
}

func stats(values []float64) FitnessStats {
	if len(values) == 0 {
		return FitnessStats{}
	}
	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	if len(values) > 1 {
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(values) - 1)
	}
	return FitnessStats{Min: min, Mean: mean, Max: max, Stdev: math.Sqrt(variance)}
}

func chainKey(g *genome.AttackGenome) string {
	key := ""
	for i, id := range g.AttackChain() {
		if i > 0 {
			key += ">"
		}
		key += id
	}
	return key
}

func defenderConfigKey(d *genome.DefenseGenome) string {
	ids := make([]string, 0, len(d.Genes))
	for _, g := range d.Genes {
		ids = append(ids, g.TechniqueDetected)
	}
	sort.Strings(ids)
	key := ""
	for i, id := range ids {
		if i > 0 {
			key += ">"
		}
		key += id
	}
	return key
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// hammingDiversity is the mean pairwise Hamming distance between attacker
// genomes' technique-presence vectors, normalized by vector length so the
// result is a diversity ratio in [0,1] rather than a raw bit count.
func hammingDiversity(attackers []*genome.AttackGenome, orderedIDs []string) float64 {
	n := len(attackers)
	if n < 2 || len(orderedIDs) == 0 {
		return 0
	}
	vectors := make([][]bool, n)
	for i, a := range attackers {
		vectors[i] = a.PresenceVector(orderedIDs)
	}

	totalDistance := 0
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := range orderedIDs {
				if vectors[i][k] != vectors[j][k] {
					totalDistance++
				}
			}
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return float64(totalDistance) / float64(pairs) / float64(len(orderedIDs))
}
