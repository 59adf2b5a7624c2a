// Package coevolution drives the generational loop that evolves attacker
// and defender populations against each other: opponent sampling, matchup
// evaluation, NSGA-II selection, variation, Hall of Fame elitism, and
// stagnation-triggered immigration.
package coevolution

import (
	"math/rand"

	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/genome"
	"github.com/redqueen-labs/aces/pkg/nsga2"
	"github.com/redqueen-labs/aces/pkg/operators"
)

// InitAttackerPopulation creates size freshly randomized attacker genomes.
func InitAttackerPopulation(ops operators.AttackerOps, size int, rng *rand.Rand) []*genome.AttackGenome {
	pop := make([]*genome.AttackGenome, size)
	for i := range pop {
		pop[i] = ops.Random(rng)
	}
	return pop
}

// InitDefenderPopulation creates size freshly randomized defender genomes.
func InitDefenderPopulation(ops operators.DefenderOps, size int, rng *rand.Rand) []*genome.DefenseGenome {
	pop := make([]*genome.DefenseGenome, size)
	for i := range pop {
		pop[i] = ops.Random(rng)
	}
	return pop
}

// selectParents runs NSGA-II non-dominated sort over the fitness vector and
// returns the flattened rank-then-crowding ordering used for binary
// tournament selection, shared by both populations since the selection
// mechanism is identical.
func selectParents(fitness []core.Fitness, rng *rand.Rand) []nsga2.Individual {
	individuals := make([]nsga2.Individual, len(fitness))
	for i, f := range fitness {
		individuals[i] = nsga2.Individual{Index: i, Primary: f.Primary, Secondary: f.Secondary}
	}
	fronts := nsga2.Sort(individuals)
	return nsga2.Flatten(fronts)
}

// VaryAttackers produces offspring via the standard clone/crossover/mutation
// pipeline, selecting parents by binary tournament first: each offspring
// slot is filled by tournament-selecting a parent, then applying crossover
// (paired slots) and mutation per the configured probabilities. It also
// returns, per offspring slot, the (rank, crowding) of the parent that won
// its tournament — offspring have no fitness of their own yet, so elitism
// injection (spec.md step 6) uses this inherited ordering in place of a
// real evaluation to decide which slots are "worst".
func VaryAttackers(ops operators.AttackerOps, parents []*genome.AttackGenome, fitness []core.Fitness, size int, cxpb, mutpb float64, rng *rand.Rand) ([]*genome.AttackGenome, []nsga2.Individual) {
	ranked := selectParents(fitness, rng)

	offspring := make([]*genome.AttackGenome, size)
	inherited := make([]nsga2.Individual, size)
	for i := 0; i < size; i++ {
		winner := nsga2.BinaryTournament(ranked, rng)
		offspring[i] = parents[winner.Index].Clone()
		inherited[i] = nsga2.Individual{Index: i, Rank: winner.Rank, Crowding: winner.Crowding}
	}

	for i := 1; i < size; i += 2 {
		if rng.Float64() < cxpb {
			c1, c2 := ops.Crossover(offspring[i-1], offspring[i], rng)
			offspring[i-1] = c1
			offspring[i] = c2
		}
	}

	for i := range offspring {
		if rng.Float64() < mutpb {
			ops.Mutate(offspring[i], rng)
		}
	}

	return offspring, inherited
}

// VaryDefenders is VaryAttackers' counterpart for the defender population.
func VaryDefenders(ops operators.DefenderOps, parents []*genome.DefenseGenome, fitness []core.Fitness, size int, cxpb, mutpb float64, rng *rand.Rand) ([]*genome.DefenseGenome, []nsga2.Individual) {
	ranked := selectParents(fitness, rng)

	offspring := make([]*genome.DefenseGenome, size)
	inherited := make([]nsga2.Individual, size)
	for i := 0; i < size; i++ {
		winner := nsga2.BinaryTournament(ranked, rng)
		offspring[i] = parents[winner.Index].Clone()
		inherited[i] = nsga2.Individual{Index: i, Rank: winner.Rank, Crowding: winner.Crowding}
	}

	for i := 1; i < size; i += 2 {
		if rng.Float64() < cxpb {
			c1, c2 := ops.Crossover(offspring[i-1], offspring[i], rng)
			offspring[i-1] = c1
			offspring[i] = c2
		}
	}

	for i := range offspring {
		if rng.Float64() < mutpb {
			ops.Mutate(offspring[i], rng)
		}
	}

	return offspring, inherited
}

// InjectImmigrantsAttackers replaces a uniform-random fraction of the
// population with fresh random genomes, per spec.md's stagnation response
// (a uniform random sample, not the original's worst-by-fitness
// replacement).
func InjectImmigrantsAttackers(ops operators.AttackerOps, population []*genome.AttackGenome, fraction float64, rng *rand.Rand) ([]*genome.AttackGenome, int) {
	n := immigrantCount(len(population), fraction)
	if n == 0 {
		return population, 0
	}
	indices := rng.Perm(len(population))[:n]
	replaced := make(map[int]bool, n)
	for _, idx := range indices {
		replaced[idx] = true
	}
	for idx := range replaced {
		population[idx] = ops.Random(rng)
	}
	return population, n
}

// InjectImmigrantsDefenders is InjectImmigrantsAttackers' counterpart for
// the defender population.
func InjectImmigrantsDefenders(ops operators.DefenderOps, population []*genome.DefenseGenome, fraction float64, rng *rand.Rand) ([]*genome.DefenseGenome, int) {
	n := immigrantCount(len(population), fraction)
	if n == 0 {
		return population, 0
	}
	indices := rng.Perm(len(population))[:n]
	replaced := make(map[int]bool, n)
	for _, idx := range indices {
		replaced[idx] = true
	}
	for idx := range replaced {
		population[idx] = ops.Random(rng)
	}
	return population, n
}

func immigrantCount(populationSize int, fraction float64) int {
	n := int(float64(populationSize) * fraction)
	if n < 1 && fraction > 0 {
		n = 1
	}
	if n > populationSize {
		n = populationSize
	}
	return n
}
