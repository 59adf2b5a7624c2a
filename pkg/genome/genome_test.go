package genome

import (
	"encoding/json"
	"testing"

	"github.com/redqueen-labs/aces/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttackGenomeChainAndLen(t *testing.T) {
	g := NewAttackGenome([]AttackGene{
		{TechniqueID: "T1566.001", TargetSelector: SelectRandomReachable},
		{TechniqueID: "T1083", TargetSelector: SelectHighestCriticality},
	}, 12)

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"T1566.001", "T1083"}, g.AttackChain())
	assert.Equal(t, "T1566.001", g.InitialAccessGene().TechniqueID)
}

func TestAttackGenomeCloneIsIndependent(t *testing.T) {
	g := NewAttackGenome([]AttackGene{{TechniqueID: "T1078"}}, 12)
	clone := g.Clone()
	clone.Genes[0].TechniqueID = "T1190"

	assert.Equal(t, "T1078", g.Genes[0].TechniqueID)
	assert.Equal(t, "T1190", clone.Genes[0].TechniqueID)
}

func TestPresenceVectorMarksOnlyPresentTechniques(t *testing.T) {
	g := NewAttackGenome([]AttackGene{{TechniqueID: "T1078"}, {TechniqueID: "T1083"}}, 12)
	vec := g.PresenceVector([]string{"T1078", "T1190", "T1083"})

	assert.Equal(t, []bool{true, false, true}, vec)
}

var authLogSources = []string{"auth_logs"}

func TestDetectionProbabilityNoMatchesIsZero(t *testing.T) {
	d := NewDefenseGenome(nil, 15)
	prob, gene := d.DetectionProbability("T1078", authLogSources, 0.0, 0.0)
	assert.Equal(t, 0.0, prob)
	assert.Nil(t, gene)
}

func TestDetectionProbabilityIgnoresRuleWatchingAnUnrelatedDataSource(t *testing.T) {
	d := NewDefenseGenome([]DetectionGene{
		{TechniqueDetected: "T1078", DataSource: "process_creation", Confidence: 0.9, DeployCost: 1.0},
	}, 15)

	prob, gene := d.DetectionProbability("T1078", authLogSources, 0.0, 0.0)
	assert.Equal(t, 0.0, prob)
	assert.Nil(t, gene)
}

func TestDetectionProbabilityIsProbabilisticOR(t *testing.T) {
	d := NewDefenseGenome([]DetectionGene{
		{TechniqueDetected: "T1078", DataSource: "auth_logs", Confidence: 0.5, DeployCost: 3.0},
		{TechniqueDetected: "T1078", DataSource: "auth_logs", Confidence: 0.5, DeployCost: 1.0},
	}, 15)

	prob, attributed := d.DetectionProbability("T1078", authLogSources, 0.0, 0.0)
	// 1 - (1-0.5)*(1-0.5) = 0.75
	assert.InDelta(t, 0.75, prob, 1e-9)
	assert.Equal(t, 1.0, attributed.DeployCost)
}

func TestDetectionProbabilityAttributesLowestDeployCostOnTie(t *testing.T) {
	d := NewDefenseGenome([]DetectionGene{
		{TechniqueDetected: "T1078", DataSource: "auth_logs", Confidence: 0.3, DeployCost: 2.0},
		{TechniqueDetected: "T1078", DataSource: "auth_logs", Confidence: 0.3, DeployCost: 2.0},
	}, 15)

	_, attributed := d.DetectionProbability("T1078", authLogSources, 0.0, 0.0)
	assert.Equal(t, 2.0, attributed.DeployCost)
}

func TestStealthModifierReducesDetectionProbability(t *testing.T) {
	d := NewDefenseGenome([]DetectionGene{
		{TechniqueDetected: "T1078", DataSource: "auth_logs", Confidence: 0.8, DeployCost: 1.0},
	}, 15)

	lowStealth, _ := d.DetectionProbability("T1078", authLogSources, 0.0, 0.0)
	highStealth, _ := d.DetectionProbability("T1078", authLogSources, 0.5, 0.0)
	assert.Greater(t, lowStealth, highStealth)
}

func TestHighStealthBaseDampensAttackerStealthModifier(t *testing.T) {
	d := NewDefenseGenome([]DetectionGene{
		{TechniqueDetected: "T1078", DataSource: "auth_logs", Confidence: 0.8, DeployCost: 1.0},
	}, 15)

	// Same stealth modifier: a high stealth_base scales the modifier by a
	// small (1 - stealth_base), so it buys less evasion.
	// 0.8*(1-0.5*0.1) = 0.76 vs 0.8*(1-0.5*0.9) = 0.44.
	quietTechnique, _ := d.DetectionProbability("T1078", authLogSources, 0.5, 0.9)
	loudTechnique, _ := d.DetectionProbability("T1078", authLogSources, 0.5, 0.1)
	assert.Greater(t, quietTechnique, loudTechnique)
}

func TestTotalsSumAcrossGenes(t *testing.T) {
	d := NewDefenseGenome([]DetectionGene{
		{DeployCost: 1.0, FalsePositiveRate: 0.1},
		{DeployCost: 2.0, FalsePositiveRate: 0.05},
	}, 15)

	assert.Equal(t, 3.0, d.TotalDeployCost())
	assert.InDelta(t, 0.15, d.TotalFalsePositiveLoad(), 1e-9)
}

func TestMLAnomalyDeployCostIsThree(t *testing.T) {
	assert.Equal(t, 3.0, DeployCosts[LogicMLAnomaly])
}

func TestAttackGenomeJSONRoundTrip(t *testing.T) {
	role := network.RoleServer
	original := NewAttackGenome([]AttackGene{
		{TechniqueID: "T1566.001", TargetSelector: SelectRandomReachable, StealthModifier: 0.7},
		{TechniqueID: "T1210", TargetSelector: SelectSpecificRole, TargetRole: &role, FallbackTechnique: "T1021"},
	}, 8)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var roundTripped AttackGenome
	require.NoError(t, json.Unmarshal(data, &roundTripped))

	assert.Equal(t, original, &roundTripped)
}

func TestDefenseGenomeJSONRoundTrip(t *testing.T) {
	original := NewDefenseGenome([]DetectionGene{
		{TechniqueDetected: "T1078", DataSource: "auth_logs", DetectionLogic: LogicSignature, Confidence: 0.6, FalsePositiveRate: 0.1, ResponseAction: ResponseAlertOnly, DeployCost: 1.0},
	}, 10)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var roundTripped DefenseGenome
	require.NoError(t, json.Unmarshal(data, &roundTripped))

	assert.Equal(t, original, &roundTripped)
}
