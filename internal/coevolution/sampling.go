package coevolution

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/redqueen-labs/aces/pkg/genome"
)

// sampleIndices returns n distinct indices into [0, populationSize) chosen
// uniformly without replacement, clamped to populationSize if n exceeds it.
func sampleIndices(populationSize, n int, rng *rand.Rand) []int {
	if n > populationSize {
		n = populationSize
	}
	if n <= 0 || populationSize == 0 {
		return nil
	}
	return rng.Perm(populationSize)[:n]
}

// sampleDefenderOpponents implements spec.md §4.7 step 1 for one attacker:
// ceil((1-alpha)*k) opponents drawn uniformly from the live defender
// population, the remainder drawn uniformly from the defender Hall of Fame
// (if any), where alpha is hofOpponentFraction.
func sampleDefenderOpponents(defenders []*genome.DefenseGenome, hof *DefenderHOF, k int, hofFraction float64, rng *rand.Rand) ([]*genome.DefenseGenome, []string) {
	return sampleOpponents(defenders, hof.Genomes(), k, hofFraction, rng, "defender", "defender-hof")
}

// sampleAttackerOpponents is sampleDefenderOpponents' counterpart for
// sampling attacker opponents against a defender.
func sampleAttackerOpponents(attackers []*genome.AttackGenome, hof *AttackerHOF, k int, hofFraction float64, rng *rand.Rand) ([]*genome.AttackGenome, []string) {
	return sampleOpponents(attackers, hof.Genomes(), k, hofFraction, rng, "attacker", "attacker-hof")
}

// sampleOpponents is the generic core of both sampling functions: it splits
// k opponents between the live population and the Hall of Fame per
// hofFraction, then labels each chosen opponent with a synthetic id built
// from its source and position so the caller can hand MatchupJob a stable
// DefenderID/AttackerID without the genome type needing one of its own.
func sampleOpponents[T any](population []T, hof []T, k int, hofFraction float64, rng *rand.Rand, popLabel, hofLabel string) ([]T, []string) {
	nHOF := 0
	if len(hof) > 0 {
		nHOF = k - int(math.Ceil((1-hofFraction)*float64(k)))
		if nHOF < 0 {
			nHOF = 0
		}
		if nHOF > k {
			nHOF = k
		}
	}
	nPop := k - nHOF

	popIdx := sampleIndices(len(population), nPop, rng)
	hofIdx := sampleIndices(len(hof), nHOF, rng)

	opponents := make([]T, 0, len(popIdx)+len(hofIdx))
	ids := make([]string, 0, len(popIdx)+len(hofIdx))
	for _, i := range popIdx {
		opponents = append(opponents, population[i])
		ids = append(ids, idFor(popLabel, i))
	}
	for _, i := range hofIdx {
		opponents = append(opponents, hof[i])
		ids = append(ids, idFor(hofLabel, i))
	}
	return opponents, ids
}

func idFor(label string, index int) string {
	return label + "#" + strconv.Itoa(index)
}
