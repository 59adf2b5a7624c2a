package operators

import (
	"math/rand"
	"sort"

	"github.com/redqueen-labs/aces/pkg/attck"
	"github.com/redqueen-labs/aces/pkg/genome"
)

var allDetectionLogics = []genome.DetectionLogic{
	genome.LogicSignature,
	genome.LogicBehavioral,
	genome.LogicCorrelation,
	genome.LogicMLAnomaly,
}

var allResponseActions = []genome.ResponseAction{
	genome.ResponseAlertOnly,
	genome.ResponseIsolateHost,
	genome.ResponseKillProcess,
	genome.ResponseRevokeCredential,
	genome.ResponseBlockTraffic,
}

func geneKey(g genome.DetectionGene) [3]string {
	return [3]string{g.TechniqueDetected, g.DataSource, string(g.DetectionLogic)}
}

func randomConfidence(rng *rand.Rand) float64 {
	return roundTo(0.3+rng.Float64()*0.6, 2)
}

func randomFalsePositive(logic genome.DetectionLogic, rng *rand.Rand) float64 {
	low, high := genome.DefaultFalsePositiveRate("", logic)
	return roundTo(low+rng.Float64()*(high-low), 3)
}

// RandomDefender draws detection rules one at a time, each covering a
// randomly sampled catalog technique with a randomly chosen detection
// logic, deduplicated by (technique, data_source, logic), and stops the
// moment the next drawn rule's deploy cost would push the genome's total
// over budget. This is a cost-based stopping rule, not a rule-count cap —
// at budget=1 it yields at most one cost-1 rule; at budget=15 the total
// deploy cost never exceeds 15.
func RandomDefender(registry *attck.Registry, budget float64, rng *rand.Rand) *genome.DefenseGenome {
	allIDs := registry.AllIDs()
	seen := make(map[[3]string]bool)
	var genes []genome.DetectionGene
	total := 0.0

	for attempts := 0; attempts < 40; attempts++ {
		techID := allIDs[rng.Intn(len(allIDs))]
		logic := allDetectionLogics[rng.Intn(len(allDetectionLogics))]

		dataSource := ""
		if tech, ok := registry.Get(techID); ok && len(tech.CommonDataSources) > 0 {
			dataSource = tech.CommonDataSources[rng.Intn(len(tech.CommonDataSources))]
		}

		key := [3]string{techID, dataSource, string(logic)}
		if seen[key] {
			continue
		}

		cost := genome.DeployCosts[logic]
		if total+cost > budget {
			break
		}
		seen[key] = true

		genes = append(genes, genome.DetectionGene{
			TechniqueDetected: techID,
			DataSource:        dataSource,
			DetectionLogic:    logic,
			Confidence:        randomConfidence(rng),
			FalsePositiveRate: randomFalsePositive(logic, rng),
			ResponseAction:    allResponseActions[rng.Intn(len(allResponseActions))],
			DeployCost:        cost,
		})
		total += cost
	}

	return genome.NewDefenseGenome(genes, budget)
}

// CrossoverDefense pools both parents' rules and assigns each independently
// to one of the two children with equal probability, then trims each child
// back under budget.
func CrossoverDefense(a, b *genome.DefenseGenome, rng *rand.Rand) (*genome.DefenseGenome, *genome.DefenseGenome) {
	pool := append(append([]genome.DetectionGene{}, a.Genes...), b.Genes...)

	var genes1, genes2 []genome.DetectionGene
	for _, g := range pool {
		if rng.Float64() < 0.5 {
			genes1 = append(genes1, g)
		} else {
			genes2 = append(genes2, g)
		}
	}

	genes1 = deduplicateAndTrim(genes1, a.Budget)
	genes2 = deduplicateAndTrim(genes2, b.Budget)

	if len(genes1) < 3 {
		genes1 = fallbackDefenseGenes(a.Genes, a.Budget)
	}
	if len(genes2) < 3 {
		genes2 = fallbackDefenseGenes(b.Genes, b.Budget)
	}

	return genome.NewDefenseGenome(genes1, a.Budget), genome.NewDefenseGenome(genes2, b.Budget)
}

func fallbackDefenseGenes(genes []genome.DetectionGene, budget float64) []genome.DetectionGene {
	n := 3
	if len(genes) < n {
		n = len(genes)
	}
	fallback := append([]genome.DetectionGene{}, genes[:n]...)
	return deduplicateAndTrim(fallback, budget)
}

// deduplicateAndTrim removes duplicate (technique, data_source, logic) rules
// and, if the surviving set still exceeds budget, drops rules in ascending
// order of
// utility — confidence per unit deploy cost — rather than sorting by
// confidence alone. A high-confidence rule that is expensive to field is
// trimmed before a cheap rule with modest confidence, so the deduplicated
// set always keeps the detectors that buy the most coverage per point of
// budget spent.
func deduplicateAndTrim(genes []genome.DetectionGene, budget float64) []genome.DetectionGene {
	seen := make(map[[3]string]bool)
	var deduped []genome.DetectionGene
	for _, g := range genes {
		key := geneKey(g)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, g)
	}

	total := 0.0
	for _, g := range deduped {
		total += g.DeployCost
	}
	if total <= budget {
		return deduped
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return utility(deduped[i]) < utility(deduped[j])
	})

	for total > budget && len(deduped) > 0 {
		total -= deduped[0].DeployCost
		deduped = deduped[1:]
	}
	return deduped
}

func utility(g genome.DetectionGene) float64 {
	if g.DeployCost <= 0 {
		return g.Confidence
	}
	return g.Confidence / g.DeployCost
}

// MutateDefense applies one randomly chosen mutation in place to a defense
// genome: add_rule, remove_rule, change_logic, tune_confidence,
// change_response, or retarget.
func MutateDefense(registry *attck.Registry, d *genome.DefenseGenome, rng *rand.Rand) {
	kinds := []string{"add_rule", "remove_rule", "change_logic", "tune_confidence", "change_response", "retarget"}
	kind := kinds[rng.Intn(len(kinds))]

	switch kind {
	case "add_rule":
		allIDs := registry.AllIDs()
		for attempts := 0; attempts < 10; attempts++ {
			techID := allIDs[rng.Intn(len(allIDs))]
			logic := allDetectionLogics[rng.Intn(len(allDetectionLogics))]
			if d.TotalDeployCost()+genome.DeployCosts[logic] > d.Budget {
				continue
			}

			dataSource := ""
			if tech, ok := registry.Get(techID); ok && len(tech.CommonDataSources) > 0 {
				dataSource = tech.CommonDataSources[rng.Intn(len(tech.CommonDataSources))]
			}
			key := [3]string{techID, dataSource, string(logic)}
			if hasGeneKey(d.Genes, key) {
				continue
			}
			d.Genes = append(d.Genes, genome.DetectionGene{
				TechniqueDetected: techID,
				DataSource:        dataSource,
				DetectionLogic:    logic,
				Confidence:        randomConfidence(rng),
				FalsePositiveRate: randomFalsePositive(logic, rng),
				ResponseAction:    allResponseActions[rng.Intn(len(allResponseActions))],
				DeployCost:        genome.DeployCosts[logic],
			})
			return
		}

	case "remove_rule":
		if len(d.Genes) <= 3 {
			return
		}
		idx := rng.Intn(len(d.Genes))
		d.Genes = append(d.Genes[:idx], d.Genes[idx+1:]...)

	case "change_logic":
		if len(d.Genes) == 0 {
			return
		}
		idx := rng.Intn(len(d.Genes))
		for attempts := 0; attempts < 10; attempts++ {
			logic := allDetectionLogics[rng.Intn(len(allDetectionLogics))]
			if d.TotalDeployCost()-d.Genes[idx].DeployCost+genome.DeployCosts[logic] > d.Budget {
				continue
			}
			key := [3]string{d.Genes[idx].TechniqueDetected, d.Genes[idx].DataSource, string(logic)}
			if hasGeneKeyExcept(d.Genes, key, idx) {
				continue
			}
			d.Genes[idx].DetectionLogic = logic
			d.Genes[idx].DeployCost = genome.DeployCosts[logic]
			d.Genes[idx].FalsePositiveRate = randomFalsePositive(logic, rng)
			return
		}

	case "tune_confidence":
		if len(d.Genes) == 0 {
			return
		}
		idx := rng.Intn(len(d.Genes))
		delta := rng.Float64()*0.2 - 0.1
		newVal := clamp(d.Genes[idx].Confidence+delta, 0.1, 1.0)
		d.Genes[idx].Confidence = roundTo(newVal, 2)

	case "change_response":
		if len(d.Genes) == 0 {
			return
		}
		idx := rng.Intn(len(d.Genes))
		d.Genes[idx].ResponseAction = allResponseActions[rng.Intn(len(allResponseActions))]

	case "retarget":
		if len(d.Genes) == 0 {
			return
		}
		idx := rng.Intn(len(d.Genes))
		allIDs := registry.AllIDs()
		for attempts := 0; attempts < 10; attempts++ {
			techID := allIDs[rng.Intn(len(allIDs))]
			dataSource := ""
			if tech, ok := registry.Get(techID); ok && len(tech.CommonDataSources) > 0 {
				dataSource = tech.CommonDataSources[rng.Intn(len(tech.CommonDataSources))]
			}
			key := [3]string{techID, dataSource, string(d.Genes[idx].DetectionLogic)}
			if hasGeneKeyExcept(d.Genes, key, idx) {
				continue
			}
			d.Genes[idx].TechniqueDetected = techID
			d.Genes[idx].DataSource = dataSource
			return
		}
	}
}

func hasGeneKey(genes []genome.DetectionGene, key [3]string) bool {
	for _, g := range genes {
		if geneKey(g) == key {
			return true
		}
	}
	return false
}

func hasGeneKeyExcept(genes []genome.DetectionGene, key [3]string, except int) bool {
	for i, g := range genes {
		if i == except {
			continue
		}
		if geneKey(g) == key {
			return true
		}
	}
	return false
}
