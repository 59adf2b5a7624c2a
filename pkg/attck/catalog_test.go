package attck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasThirtyEightTechniques(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 38, r.Len())
	assert.Len(t, r.AllIDs(), 38)
	assert.Len(t, r.All(), 38)
}

func TestRegistryGetKnownAndUnknown(t *testing.T) {
	r := NewRegistry()

	t1190, ok := r.Get("T1190")
	require.True(t, ok)
	assert.Equal(t, TacticInitialAccess, t1190.Tactic)

	_, ok = r.Get("T9999.999")
	assert.False(t, ok)
	assert.False(t, r.Contains("T9999.999"))
}

func TestRegistryHasNoCommandAndControlTactic(t *testing.T) {
	r := NewRegistry()
	for _, tq := range r.All() {
		assert.NotEqual(t, Tactic("command_and_control"), tq.Tactic)
	}
}

func TestRegistryEveryTacticInOrderIsRepresented(t *testing.T) {
	r := NewRegistry()
	for _, tactic := range TacticOrder {
		assert.NotEmpty(t, r.ByTactic(tactic), "tactic %s has no techniques", tactic)
	}
}

func TestInitialAccessTechniquesOnlyFromInitialAccessTactic(t *testing.T) {
	r := NewRegistry()
	for _, tq := range r.InitialAccess() {
		assert.Equal(t, TacticInitialAccess, tq.Tactic)
	}
	assert.Len(t, r.InitialAccess(), 5)
}

func TestAddedTechniquesArePresent(t *testing.T) {
	r := NewRegistry()

	persistence, ok := r.Get("T1547.001")
	require.True(t, ok)
	assert.Equal(t, TacticPersistence, persistence.Tactic)

	discovery, ok := r.Get("T1087.001")
	require.True(t, ok)
	assert.Equal(t, TacticDiscovery, discovery.Tactic)
}

func TestMustGetPanicsOnUnknownID(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		r.MustGet("not-a-real-id")
	})
}

func TestEveryTechniqueHasValidRates(t *testing.T) {
	r := NewRegistry()
	for _, tq := range r.All() {
		assert.GreaterOrEqual(t, tq.BaseSuccessRate, 0.0, tq.ID)
		assert.LessOrEqual(t, tq.BaseSuccessRate, 1.0, tq.ID)
		assert.GreaterOrEqual(t, tq.StealthBase, 0.0, tq.ID)
		assert.LessOrEqual(t, tq.StealthBase, 1.0, tq.ID)
		assert.NotEmpty(t, tq.Effects, tq.ID)
	}
}
