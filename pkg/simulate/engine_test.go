package simulate

import (
	"context"
	"testing"

	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/attck"
	"github.com/redqueen-labs/aces/pkg/genome"
	"github.com/redqueen-labs/aces/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallNet() *network.Graph {
	g := network.NewGraph()
	g.AddHost(&network.Host{ID: "external", Segment: "external"})
	g.AddHost(&network.Host{
		ID: "ws-01", Segment: "user", Criticality: 0.2,
		Vulnerabilities: []network.Vulnerability{{CVEID: "CVE-X", TechniqueEnables: "T1190"}},
	})
	g.AddHost(&network.Host{ID: "srv-01", Segment: "server", Criticality: 0.9, HasCredentialCache: true})
	g.AddCredential(&network.Credential{ID: "cred-1", Privilege: network.PrivAdmin, ValidOn: []string{"srv-01"}})
	g.AddEdge("external", "ws-01", []string{"http"}, false)
	g.AddEdge("ws-01", "srv-01", []string{"smb"}, false)
	return g
}

func TestSimulateSingleStepCompromisesTarget(t *testing.T) {
	registry := attck.NewRegistry()
	engine := NewEngine(registry)
	net := smallNet()

	attacker := genome.NewAttackGenome([]genome.AttackGene{
		{TechniqueID: "T1190", TargetSelector: genome.SelectRandomReachable},
	}, 12)
	defender := genome.NewDefenseGenome(nil, 15)

	result, err := engine.Simulate(context.Background(), net, attacker, defender, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TechniquesAttempted)
	assert.LessOrEqual(t, result.TechniquesSuccessful, 1)
}

func TestSimulateDetectionPreventsEffectsWhenBlocking(t *testing.T) {
	registry := attck.NewRegistry()
	engine := NewEngine(registry)
	net := smallNet()

	attacker := genome.NewAttackGenome([]genome.AttackGene{
		{TechniqueID: "T1190", TargetSelector: genome.SelectRandomReachable},
	}, 12)
	defender := genome.NewDefenseGenome([]genome.DetectionGene{
		{TechniqueDetected: "T1190", DataSource: "Network Traffic", Confidence: 1.0, ResponseAction: genome.ResponseIsolateHost, DeployCost: 1.0},
	}, 15)

	result, err := engine.Simulate(context.Background(), net, attacker, defender, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TechniquesDetected)
	assert.Equal(t, 1, result.TechniquesPrevented)
	assert.Equal(t, 0, result.HostsCompromised)
	require.Len(t, result.Events, 1)
	assert.Equal(t, core.OutcomeDetectedAndPrevented, result.Events[0].Outcome)
}

func TestSimulateAlertOnlyDoesNotBlockSuccess(t *testing.T) {
	registry := attck.NewRegistry()
	engine := NewEngine(registry)
	net := smallNet()

	attacker := genome.NewAttackGenome([]genome.AttackGene{
		{TechniqueID: "T1190", TargetSelector: genome.SelectRandomReachable},
	}, 12)
	defender := genome.NewDefenseGenome([]genome.DetectionGene{
		{TechniqueDetected: "T1190", DataSource: "Network Traffic", Confidence: 1.0, ResponseAction: genome.ResponseAlertOnly, DeployCost: 1.0},
	}, 15)

	result, err := engine.Simulate(context.Background(), net, attacker, defender, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TechniquesDetected)
	assert.Equal(t, 0, result.TechniquesPrevented)
	if result.TechniquesSuccessful > 0 {
		assert.Equal(t, core.OutcomeDetectedButSucceeded, result.Events[0].Outcome)
	} else {
		assert.Equal(t, core.OutcomeFailedRoll, result.Events[0].Outcome)
	}
}

func TestSimulateNoTargetRecordsPreconditionFailure(t *testing.T) {
	registry := attck.NewRegistry()
	engine := NewEngine(registry)
	net := network.NewGraph()
	net.AddHost(&network.Host{ID: "external"})

	attacker := genome.NewAttackGenome([]genome.AttackGene{
		{TechniqueID: "T1190", TargetSelector: genome.SelectRandomReachable},
	}, 12)
	defender := genome.NewDefenseGenome(nil, 15)

	result, err := engine.Simulate(context.Background(), net, attacker, defender, 1)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, core.OutcomePreconditionFailure, result.Events[0].Outcome)
}

func TestSimulateIsDeterministicForSameSeed(t *testing.T) {
	registry := attck.NewRegistry()
	engine := NewEngine(registry)

	attacker := genome.NewAttackGenome([]genome.AttackGene{
		{TechniqueID: "T1190", TargetSelector: genome.SelectRandomReachable},
		{TechniqueID: "T1083", TargetSelector: genome.SelectRandomReachable},
	}, 12)
	defender := genome.NewDefenseGenome([]genome.DetectionGene{
		{TechniqueDetected: "T1083", Confidence: 0.5, ResponseAction: genome.ResponseAlertOnly, DeployCost: 1.0},
	}, 15)

	r1, err1 := engine.Simulate(context.Background(), smallNet(), attacker, defender, 7)
	r2, err2 := engine.Simulate(context.Background(), smallNet(), attacker, defender, 7)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, r1.TechniquesDetected, r2.TechniquesDetected)
	assert.Equal(t, r1.TechniquesSuccessful, r2.TechniquesSuccessful)
	assert.Equal(t, len(r1.Events), len(r2.Events))
}

func TestSimulateCompromisedHostsAccumulateCriticality(t *testing.T) {
	registry := attck.NewRegistry()
	engine := NewEngine(registry)
	net := smallNet()

	attacker := genome.NewAttackGenome([]genome.AttackGene{
		{TechniqueID: "T1190", TargetSelector: genome.SelectRandomReachable},
		{TechniqueID: "T1021.001", TargetSelector: genome.SelectHighestCriticality},
	}, 12)
	defender := genome.NewDefenseGenome(nil, 15)

	result, err := engine.Simulate(context.Background(), net, attacker, defender, 3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.SumCriticality, 0.0)
	assert.GreaterOrEqual(t, result.MaxCriticality, 0.0)
}

func TestApplyEffectsExfiltrationRequiresACriticalHost(t *testing.T) {
	registry := attck.NewRegistry()
	engine := NewEngine(registry)
	net := network.NewGraph()
	net.AddHost(&network.Host{ID: "low-01", Segment: "user", Criticality: 0.2})
	state := newMatchState(net)
	state.compromisedHosts["low-01"] = struct{}{}

	tech := &attck.Technique{ID: "T-exfil", Effects: []attck.Effect{{Type: attck.EffectExfiltrateData}}}
	engine.applyEffects(tech, "low-01", genome.AttackGene{}, state)

	assert.False(t, state.dataExfiltrated)
}

func TestApplyEffectsExfiltrationSucceedsAboveCriticalityThreshold(t *testing.T) {
	registry := attck.NewRegistry()
	engine := NewEngine(registry)
	net := network.NewGraph()
	net.AddHost(&network.Host{ID: "crit-01", Segment: "server", Criticality: 0.4})
	state := newMatchState(net)
	state.compromisedHosts["crit-01"] = struct{}{}

	tech := &attck.Technique{ID: "T-exfil", Effects: []attck.Effect{{Type: attck.EffectExfiltrateData}}}
	engine.applyEffects(tech, "crit-01", genome.AttackGene{}, state)

	assert.True(t, state.dataExfiltrated)
}
