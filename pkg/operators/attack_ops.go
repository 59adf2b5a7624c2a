// Package operators implements random initialization, crossover, and
// mutation for both attacker and defender genomes.
package operators

import (
	"math/rand"

	"github.com/redqueen-labs/aces/pkg/attck"
	"github.com/redqueen-labs/aces/pkg/genome"
	"github.com/redqueen-labs/aces/pkg/network"
)

var allTargetSelectors = []genome.TargetSelector{
	genome.SelectHighestCriticality,
	genome.SelectLeastDefended,
	genome.SelectMostConnected,
	genome.SelectRandomReachable,
	genome.SelectSpecificRole,
}

var allHostRoles = []network.HostRole{
	network.RoleWorkstation,
	network.RoleServer,
	network.RoleDomainController,
	network.RoleFirewall,
	network.RoleDatabase,
	network.RoleDMZ,
}

var postInitialAccessTactics = []attck.Tactic{
	attck.TacticExecution,
	attck.TacticPersistence,
	attck.TacticPrivilegeEscalation,
	attck.TacticDefenseEvasion,
	attck.TacticCredentialAccess,
	attck.TacticDiscovery,
	attck.TacticLateralMovement,
	attck.TacticCollection,
	attck.TacticExfiltration,
}

func randomGeneTargeting(rng *rand.Rand) (genome.TargetSelector, *network.HostRole) {
	selector := allTargetSelectors[rng.Intn(len(allTargetSelectors))]
	var role *network.HostRole
	if rng.Float64() < 0.3 {
		r := allHostRoles[rng.Intn(len(allHostRoles))]
		role = &r
	}
	return selector, role
}

func roundedStealth(rng *rand.Rand) float64 {
	v := rng.Float64() * 0.5
	return roundTo(v, 2)
}

func roundTo(v float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int(v*mult+0.5)) / mult
}

// RandomAttacker generates a random valid attacker genome: an initial
// access technique in gene 0, followed by 2 to min(8, maxLength-1) more
// genes loosely ordered by the post-initial-access tactics, each with a
// randomly assigned targeting strategy and stealth modifier.
func RandomAttacker(registry *attck.Registry, maxChainLength int, rng *rand.Rand) *genome.AttackGenome {
	ia := registry.InitialAccess()
	chosen := ia[rng.Intn(len(ia))]

	selector, role := randomGeneTargeting(rng)
	genes := []genome.AttackGene{
		{TechniqueID: chosen.ID, TargetSelector: selector, TargetRole: role, StealthModifier: roundedStealth(rng)},
	}

	upper := 8
	if maxChainLength-1 < upper {
		upper = maxChainLength - 1
	}
	if upper < 2 {
		upper = 2
	}
	chainLength := 2 + rng.Intn(upper-2+1)

	for i := 0; i < chainLength; i++ {
		tactic := postInitialAccessTactics[rng.Intn(len(postInitialAccessTactics))]
		candidates := registry.ByTactic(tactic)
		if len(candidates) == 0 {
			continue
		}
		tech := candidates[rng.Intn(len(candidates))]
		selector, role := randomGeneTargeting(rng)
		genes = append(genes, genome.AttackGene{
			TechniqueID: tech.ID, TargetSelector: selector, TargetRole: role, StealthModifier: roundedStealth(rng),
		})
	}

	return genome.NewAttackGenome(genes, maxChainLength)
}

// CrossoverAttack performs single-point crossover on two attacker gene
// sequences, preserving at least two genes per child and repairing gene 0
// back to an initial access technique if the crossover violated it.
func CrossoverAttack(registry *attck.Registry, a, b *genome.AttackGenome, rng *rand.Rand) (*genome.AttackGenome, *genome.AttackGenome) {
	pt1 := 1 + rng.Intn(max(1, len(a.Genes)-1))
	pt2 := 1 + rng.Intn(max(1, len(b.Genes)-1))

	newGenes1 := append(append([]genome.AttackGene{}, a.Genes[:pt1]...), b.Genes[pt2:]...)
	newGenes2 := append(append([]genome.AttackGene{}, b.Genes[:pt2]...), a.Genes[pt1:]...)

	if len(newGenes1) > a.MaxLength {
		newGenes1 = newGenes1[:a.MaxLength]
	}
	if len(newGenes2) > b.MaxLength {
		newGenes2 = newGenes2[:b.MaxLength]
	}
	if len(newGenes1) < 2 {
		newGenes1 = fallbackGenes(a.Genes)
	}
	if len(newGenes2) < 2 {
		newGenes2 = fallbackGenes(b.Genes)
	}

	child1 := genome.NewAttackGenome(newGenes1, a.MaxLength)
	child2 := genome.NewAttackGenome(newGenes2, b.MaxLength)

	repairInitialAccess(registry, child1, a)
	repairInitialAccess(registry, child2, b)

	return child1, child2
}

func fallbackGenes(genes []genome.AttackGene) []genome.AttackGene {
	if len(genes) >= 2 {
		return append([]genome.AttackGene{}, genes[:2]...)
	}
	return append([]genome.AttackGene{}, genes...)
}

func repairInitialAccess(registry *attck.Registry, g, template *genome.AttackGenome) {
	if len(g.Genes) == 0 {
		g.Genes = []genome.AttackGene{template.InitialAccessGene()}
		return
	}
	tech, ok := registry.Get(g.Genes[0].TechniqueID)
	if !ok || tech.Tactic != attck.TacticInitialAccess {
		g.Genes[0] = template.InitialAccessGene()
	}
}

// MutateAttack applies one randomly chosen mutation in place to an attacker
// genome: add_gene, remove_gene, swap_genes, modify_technique,
// modify_targeting, or modify_stealth. The stealth delta is drawn from a
// clamped Gaussian N(0, 0.1) rather than a uniform band, giving small
// perturbations far higher density than large ones.
func MutateAttack(registry *attck.Registry, g *genome.AttackGenome, rng *rand.Rand) {
	kinds := []string{"add_gene", "remove_gene", "swap_genes", "modify_technique", "modify_targeting", "modify_stealth"}
	kind := kinds[rng.Intn(len(kinds))]
	genes := g.Genes

	switch kind {
	case "add_gene":
		if len(genes) >= g.MaxLength {
			return
		}
		tactic := attck.TacticOrder[rng.Intn(len(attck.TacticOrder))]
		candidates := registry.ByTactic(tactic)
		if len(candidates) == 0 {
			return
		}
		tech := candidates[rng.Intn(len(candidates))]
		selector, role := randomGeneTargeting(rng)
		newGene := genome.AttackGene{TechniqueID: tech.ID, TargetSelector: selector, TargetRole: role, StealthModifier: roundedStealth(rng)}
		pos := 1 + rng.Intn(len(genes))
		g.Genes = insertGene(genes, pos, newGene)

	case "remove_gene":
		if len(genes) <= 2 {
			return
		}
		idx := 1 + rng.Intn(len(genes)-1)
		g.Genes = append(genes[:idx], genes[idx+1:]...)

	case "swap_genes":
		if len(genes) <= 2 {
			return
		}
		i := 1 + rng.Intn(len(genes)-1)
		j := 1 + rng.Intn(len(genes)-1)
		genes[i], genes[j] = genes[j], genes[i]

	case "modify_technique":
		idx := 0
		if len(genes) > 1 {
			idx = 1 + rng.Intn(len(genes)-1)
		}
		if idx == 0 {
			ia := registry.InitialAccess()
			genes[0].TechniqueID = ia[rng.Intn(len(ia))].ID
			return
		}
		oldTech, ok := registry.Get(genes[idx].TechniqueID)
		if !ok {
			return
		}
		candidates := registry.ByTactic(oldTech.Tactic)
		if len(candidates) == 0 {
			return
		}
		genes[idx].TechniqueID = candidates[rng.Intn(len(candidates))].ID

	case "modify_targeting":
		idx := rng.Intn(len(genes))
		selector := allTargetSelectors[rng.Intn(len(allTargetSelectors))]
		genes[idx].TargetSelector = selector
		if selector == genome.SelectSpecificRole {
			r := allHostRoles[rng.Intn(len(allHostRoles))]
			genes[idx].TargetRole = &r
		}

	case "modify_stealth":
		idx := rng.Intn(len(genes))
		delta := clamp(rng.NormFloat64()*0.1, -0.3, 0.3)
		newVal := clamp(genes[idx].StealthModifier+delta, 0.0, 1.0)
		genes[idx].StealthModifier = roundTo(newVal, 2)
	}
}

func insertGene(genes []genome.AttackGene, pos int, g genome.AttackGene) []genome.AttackGene {
	out := make([]genome.AttackGene, 0, len(genes)+1)
	out = append(out, genes[:pos]...)
	out = append(out, g)
	out = append(out, genes[pos:]...)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
