package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesReferenceDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 80, cfg.PopulationSize)
	assert.Equal(t, 300, cfg.NumGenerations)
	assert.Equal(t, 5, cfg.TournamentSize)
	assert.Equal(t, 0.7, cfg.CrossoverRate)
	assert.Equal(t, 0.2, cfg.MutationRate)
	assert.Equal(t, 12, cfg.MaxAttackChainLength)
	assert.Equal(t, 15.0, cfg.DefenderBudget)
	assert.Equal(t, 25, cfg.NetworkSize)
	assert.Equal(t, 10, cfg.HallOfFameSize)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 10.0, cfg.Scoring.HostCriticalityMultiplier)
}

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsTournamentLargerThanPopulation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TournamentSize = cfg.PopulationSize + 1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tournament_size")
}

func TestValidateRejectsNegativeWeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.HostCriticalityMultiplier = -1

	require.Error(t, cfg.Validate())
}

func TestValidateRejectsTinyBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefenderBudget = 0.5

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defender_budget")
}

func TestValidateAcceptsBudgetOfOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefenderBudget = 1

	require.NoError(t, cfg.Validate())
}

func TestSaveAndLoadYAMLRoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.PopulationSize = 40

	path := filepath.Join(t.TempDir(), "aces.yaml")
	require.NoError(t, cfg.SaveYAML(path))

	loaded, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Seed, loaded.Seed)
	assert.Equal(t, cfg.PopulationSize, loaded.PopulationSize)
	assert.Equal(t, cfg.Scoring, loaded.Scoring)
}

func TestLoadYAMLMissingFile(t *testing.T) {
	_, err := LoadYAML(filepath.Join(os.TempDir(), "does-not-exist-aces.yaml"))
	require.Error(t, err)
}
