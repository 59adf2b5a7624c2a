package coevolution

import (
	"math/rand"
	"testing"

	"github.com/redqueen-labs/aces/internal/config"
	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/attck"
	"github.com/redqueen-labs/aces/pkg/operators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOps(t *testing.T) (operators.AttackerOps, operators.DefenderOps) {
	t.Helper()
	registry := attck.NewRegistry()
	cfg := config.DefaultConfig()
	return operators.NewAttackerOps(registry, cfg), operators.NewDefenderOps(registry, cfg)
}

func TestInitAttackerPopulationProducesRequestedSize(t *testing.T) {
	attackerOps, _ := testOps(t)
	rng := rand.New(rand.NewSource(1))

	pop := InitAttackerPopulation(attackerOps, 12, rng)

	require.Len(t, pop, 12)
	for _, g := range pop {
		assert.NotEmpty(t, g.Genes)
	}
}

func TestInitDefenderPopulationProducesRequestedSize(t *testing.T) {
	_, defenderOps := testOps(t)
	rng := rand.New(rand.NewSource(2))

	pop := InitDefenderPopulation(defenderOps, 12, rng)

	require.Len(t, pop, 12)
}

func TestVaryAttackersReturnsOffspringAndInheritedRankCrowdingOfEqualSize(t *testing.T) {
	attackerOps, _ := testOps(t)
	rng := rand.New(rand.NewSource(3))

	parents := InitAttackerPopulation(attackerOps, 10, rng)
	fitness := make([]core.Fitness, 10)
	for i := range fitness {
		fitness[i] = core.Fitness{Primary: float64(i), Secondary: float64(10 - i)}
	}

	offspring, inherited := VaryAttackers(attackerOps, parents, fitness, 10, 0.7, 0.2, rng)

	require.Len(t, offspring, 10)
	require.Len(t, inherited, 10)
	for i, ind := range inherited {
		assert.Equal(t, i, ind.Index)
	}
}

func TestVaryDefendersReturnsOffspringAndInheritedRankCrowdingOfEqualSize(t *testing.T) {
	_, defenderOps := testOps(t)
	rng := rand.New(rand.NewSource(4))

	parents := InitDefenderPopulation(defenderOps, 10, rng)
	fitness := make([]core.Fitness, 10)
	for i := range fitness {
		fitness[i] = core.Fitness{Primary: float64(i), Secondary: float64(10 - i)}
	}

	offspring, inherited := VaryDefenders(defenderOps, parents, fitness, 10, 0.7, 0.2, rng)

	require.Len(t, offspring, 10)
	require.Len(t, inherited, 10)
}

func TestInjectImmigrantsAttackersReplacesNonzeroFraction(t *testing.T) {
	attackerOps, _ := testOps(t)
	rng := rand.New(rand.NewSource(5))

	pop := InitAttackerPopulation(attackerOps, 20, rng)
	before := make([]string, len(pop))
	for i, g := range pop {
		before[i] = chainKeyOf(g)
	}

	_, n := InjectImmigrantsAttackers(attackerOps, pop, 0.1, rng)

	assert.Equal(t, 2, n)
}

func TestInjectImmigrantsAttackersNoopAtZeroFraction(t *testing.T) {
	attackerOps, _ := testOps(t)
	rng := rand.New(rand.NewSource(6))

	pop := InitAttackerPopulation(attackerOps, 20, rng)
	_, n := InjectImmigrantsAttackers(attackerOps, pop, 0, rng)

	assert.Equal(t, 0, n)
}

func TestInjectImmigrantsDefendersReplacesNonzeroFraction(t *testing.T) {
	_, defenderOps := testOps(t)
	rng := rand.New(rand.NewSource(7))

	pop := InitDefenderPopulation(defenderOps, 20, rng)
	_, n := InjectImmigrantsDefenders(defenderOps, pop, 0.25, rng)

	assert.Equal(t, 5, n)
}

func TestImmigrantCountRoundsDownAndClampsToAtLeastOneWhenFractionPositive(t *testing.T) {
	assert.Equal(t, 1, immigrantCount(20, 0.01))
	assert.Equal(t, 0, immigrantCount(20, 0))
	assert.Equal(t, 20, immigrantCount(20, 5))
}
