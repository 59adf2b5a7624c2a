package coevolution

import (
	"math/rand"
	"testing"

	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/genome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleIndicesReturnsDistinctIndicesWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	indices := sampleIndices(10, 4, rng)

	require.Len(t, indices, 4)
	seen := make(map[int]bool)
	for _, i := range indices {
		assert.False(t, seen[i], "index %d sampled twice", i)
		assert.True(t, i >= 0 && i < 10)
		seen[i] = true
	}
}

func TestSampleIndicesClampsToPopulationSize(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	indices := sampleIndices(3, 10, rng)

	assert.Len(t, indices, 3)
}

func TestSampleIndicesReturnsNilForZeroOrNegativeN(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	assert.Nil(t, sampleIndices(10, 0, rng))
	assert.Nil(t, sampleIndices(0, 5, rng))
}

func TestSampleOpponentsSplitsBetweenPopulationAndHOF(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	population := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	hof := []int{100, 101, 102}

	opponents, ids := sampleOpponents(population, hof, 5, 0.2, rng, "pop", "hof")

	require.Len(t, opponents, 5)
	require.Len(t, ids, 5)

	fromHOF := 0
	for _, o := range opponents {
		if o >= 100 {
			fromHOF++
		}
	}
	assert.Equal(t, 1, fromHOF) // 5 - ceil(0.8*5) = 1
}

func TestSampleOpponentsDrawsOnlyFromPopulationWhenHOFEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	population := []int{0, 1, 2, 3, 4}
	var hof []int

	opponents, ids := sampleOpponents(population, hof, 3, 0.2, rng, "pop", "hof")

	require.Len(t, opponents, 3)
	require.Len(t, ids, 3)
	for _, o := range opponents {
		assert.Less(t, o, 5)
	}
}

func TestIdForBuildsStableLabeledID(t *testing.T) {
	assert.Equal(t, "defender#3", idFor("defender", 3))
	assert.Equal(t, "attacker-hof#0", idFor("attacker-hof", 0))
}

func TestSampleDefenderOpponentsReturnsRequestedCount(t *testing.T) {
	hof := NewDefenderHOF(10)
	elite := defenseGenome("T1566")
	hof.Update([]*genome.DefenseGenome{elite}, []core.Fitness{{Primary: 1, Secondary: 1}})

	defenders := []*genome.DefenseGenome{
		defenseGenome("T1021"), defenseGenome("T1078"), defenseGenome("T1059"),
	}
	rng := rand.New(rand.NewSource(6))

	opponents, ids := sampleDefenderOpponents(defenders, hof, 2, 0.5, rng)

	require.Len(t, opponents, 2)
	require.Len(t, ids, 2)
}

func TestSampleAttackerOpponentsReturnsRequestedCount(t *testing.T) {
	hof := NewAttackerHOF(10)
	elite := attackGenome("T1566")
	hof.Update([]*genome.AttackGenome{elite}, []core.Fitness{{Primary: 1, Secondary: 1}})

	attackers := []*genome.AttackGenome{
		attackGenome("T1021"), attackGenome("T1078"), attackGenome("T1059"),
	}
	rng := rand.New(rand.NewSource(7))

	opponents, ids := sampleAttackerOpponents(attackers, hof, 2, 0.5, rng)

	require.Len(t, opponents, 2)
	require.Len(t, ids, 2)
}
