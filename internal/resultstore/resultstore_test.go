package resultstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/genome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")
	s, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveConfigWritesFile(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.SaveConfig(context.Background(), []byte(`{"seed":42}`)))

	data, err := os.ReadFile(filepath.Join(s.Dir(), configFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"seed":42}`, string(data))
}

func TestSaveGenerationLogWritesFile(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.SaveGenerationLog(context.Background(), []byte(`[]`)))

	_, err = os.Stat(filepath.Join(s.Dir(), evolutionLogFile))
	assert.NoError(t, err)
}

func TestSaveHallOfFameWritesBothFiles(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.SaveHallOfFame(context.Background(), []byte(`[]`), []byte(`[]`)))

	_, err = os.Stat(filepath.Join(s.Dir(), hallOfFameAttackerFile))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.Dir(), hallOfFameDefenderFile))
	assert.NoError(t, err)
}

func TestNewAttackerHOFEntryCarriesKillChainAndFitness(t *testing.T) {
	g := genome.NewAttackGenome([]genome.AttackGene{
		{TechniqueID: "T1190", TargetSelector: genome.SelectRandomReachable, StealthModifier: 0.3},
	}, 12)
	entry := NewAttackerHOFEntry(g, core.Fitness{Primary: 10, Secondary: 0.8})

	assert.Equal(t, []string{"T1190"}, entry.KillChain)
	assert.Equal(t, [2]float64{10, 0.8}, entry.Fitness)
	require.Len(t, entry.Genes, 1)
	assert.Equal(t, "T1190", entry.Genes[0].TechniqueID)
}

func TestNewDefenderHOFEntryCarriesRulesAndFitness(t *testing.T) {
	d := genome.NewDefenseGenome([]genome.DetectionGene{
		{TechniqueDetected: "T1190", DetectionLogic: genome.LogicSignature, Confidence: 0.9, ResponseAction: genome.ResponseAlertOnly},
	}, 15)
	entry := NewDefenderHOFEntry(d, core.Fitness{Primary: 5, Secondary: 0.4})

	require.Len(t, entry.Rules, 1)
	assert.Equal(t, "T1190", entry.Rules[0].TechniqueDetected)
	assert.Equal(t, [2]float64{5, 0.4}, entry.Fitness)
}

func TestMarshalAttackerHOFProducesValidJSON(t *testing.T) {
	g := genome.NewAttackGenome([]genome.AttackGene{{TechniqueID: "T1190"}}, 12)
	entries := []AttackerHOFEntry{NewAttackerHOFEntry(g, core.Fitness{Primary: 1, Secondary: 1})}

	data, err := MarshalAttackerHOF(entries)
	require.NoError(t, err)

	var roundtrip []AttackerHOFEntry
	require.NoError(t, json.Unmarshal(data, &roundtrip))
	assert.Equal(t, entries, roundtrip)
}
