package simulate

import (
	"context"
	"math/rand"
	"sort"

	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/attck"
	"github.com/redqueen-labs/aces/pkg/genome"
	"github.com/redqueen-labs/aces/pkg/network"
)

var foothold = map[attck.EffectType]struct{}{
	attck.EffectGainFoothold:  {},
	attck.EffectMoveLaterally: {},
}

var blockingResponses = map[genome.ResponseAction]struct{}{
	genome.ResponseIsolateHost:      {},
	genome.ResponseKillProcess:      {},
	genome.ResponseBlockTraffic:     {},
	genome.ResponseRevokeCredential: {},
}

// Engine executes a single attacker-vs-defender matchup against a cloned
// network graph template. It holds no per-matchup state, so one Engine can
// be shared across concurrently running matchups as long as each call
// supplies its own rng.
type Engine struct {
	registry *attck.Registry
}

// NewEngine builds a simulation engine bound to a technique catalog.
func NewEngine(registry *attck.Registry) *Engine {
	return &Engine{registry: registry}
}

// Simulate executes one attacker-vs-defender matchup deterministically for a
// given seed and returns the full step-by-step result.
func (e *Engine) Simulate(ctx context.Context, net *network.Graph, attacker *genome.AttackGenome, defender *genome.DefenseGenome, seed int64) (*core.MatchResult, error) {
	rng := rand.New(rand.NewSource(seed))
	state := newMatchState(net)
	result := &core.MatchResult{}

	consecutive := 0
	maxConsecutive := 0

	for step, gene := range attacker.Genes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.TechniquesAttempted++

		tech, ok := e.registry.Get(gene.TechniqueID)
		if !ok {
			state.recordEvent(core.SimEvent{Step: step, TechniqueID: gene.TechniqueID, TargetHost: "none", Outcome: core.OutcomePreconditionFailure})
			consecutive = 0
			continue
		}

		targetID, activeTech := e.resolveTargetWithFallback(gene, tech, state, rng)
		if targetID == "" {
			state.recordEvent(core.SimEvent{Step: step, TechniqueID: gene.TechniqueID, TargetHost: "none", Outcome: core.OutcomePreconditionFailure})
			consecutive = 0
			continue
		}

		if !e.checkPreconditions(activeTech, targetID, state) {
			state.recordEvent(core.SimEvent{Step: step, TechniqueID: activeTech.ID, TargetHost: targetID, Outcome: core.OutcomePreconditionFailure})
			consecutive = 0
			continue
		}

		effectiveStealth := gene.StealthModifier + state.stealthBonus
		if effectiveStealth > 1.0 {
			effectiveStealth = 1.0
		}
		hostReduction := state.detectionReduction[targetID]

		detected, matchingRule := e.checkDetection(activeTech, effectiveStealth, defender, hostReduction, rng)
		blocked := false
		var ruleID, responseAction string

		if detected && matchingRule != nil {
			result.TechniquesDetected++
			ruleID = matchingRule.TechniqueDetected
			responseAction = string(matchingRule.ResponseAction)
			_, blocked = blockingResponses[matchingRule.ResponseAction]
			e.applyResponse(matchingRule.ResponseAction, targetID, state)

			if blocked {
				result.TechniquesPrevented++
				state.recordEvent(core.SimEvent{
					Step: step, TechniqueID: activeTech.ID, TargetHost: targetID,
					Outcome:         core.OutcomeDetectedAndPrevented,
					DetectionRuleID: ruleID, ResponseAction: responseAction,
				})
				consecutive = 0
				continue
			}
		}

		successRate := activeTech.BaseSuccessRate
		if detected {
			successRate *= 1.0 - 0.3
		}
		if rng.Float64() > successRate {
			state.recordEvent(core.SimEvent{
				Step: step, TechniqueID: activeTech.ID, TargetHost: targetID,
				Outcome: core.OutcomeFailedRoll, DetectionRuleID: ruleID, ResponseAction: responseAction,
			})
			consecutive = 0
			continue
		}

		effects := e.applyEffects(activeTech, targetID, gene, state)
		result.TechniquesSuccessful++
		consecutive++
		if consecutive > maxConsecutive {
			maxConsecutive = consecutive
		}

		outcome := core.OutcomeSuccess
		if detected {
			outcome = core.OutcomeDetectedButSucceeded
		}
		state.recordEvent(core.SimEvent{
			Step: step, TechniqueID: activeTech.ID, TargetHost: targetID,
			Outcome: outcome, DetectionRuleID: ruleID, ResponseAction: responseAction, Effects: effects,
		})
	}

	result.HostsCompromised = len(state.compromisedHosts)
	result.CredentialsObtained = len(state.obtainedCredentials)
	result.DataExfiltrated = state.dataExfiltrated
	result.KillChainLength = maxConsecutive
	result.Events = state.events

	sum := 0.0
	maxCrit := 0.0
	for id := range state.compromisedHosts {
		if h, ok := state.net.Host(id); ok {
			sum += h.Criticality
			if h.Criticality > maxCrit {
				maxCrit = h.Criticality
			}
		}
	}
	result.SumCriticality = sum
	result.MaxCriticality = maxCrit

	return result, nil
}

func (e *Engine) resolveTargetWithFallback(gene genome.AttackGene, tech *attck.Technique, state *matchState, rng *rand.Rand) (string, *attck.Technique) {
	if target := e.resolveTarget(gene, tech, state, rng); target != "" {
		return target, tech
	}
	if gene.FallbackTechnique == "" {
		return "", tech
	}
	fallback, ok := e.registry.Get(gene.FallbackTechnique)
	if !ok {
		return "", tech
	}
	if target := e.resolveTarget(gene, fallback, state, rng); target != "" {
		return target, fallback
	}
	return "", tech
}

func (e *Engine) resolveTarget(gene genome.AttackGene, tech *attck.Technique, state *matchState, rng *rand.Rand) string {
	needsExternal := false
	for _, p := range tech.Preconditions {
		if p.Type == attck.PreconditionPositionExternal {
			needsExternal = true
			break
		}
	}
	if needsExternal && state.attackerPosition != "" {
		return ""
	}

	reachable := state.reachableHosts()
	if len(reachable) == 0 {
		return ""
	}

	isFoothold := false
	for _, eff := range tech.Effects {
		if _, ok := foothold[eff.Type]; ok {
			isFoothold = true
			break
		}
	}

	var candidates []string
	if isFoothold {
		for _, h := range reachable {
			if h != "external" && !state.isCompromised(h) {
				candidates = append(candidates, h)
			}
		}
	} else {
		hasOnHost := false
		for _, p := range tech.Preconditions {
			if p.Type == attck.PreconditionPositionOnHost {
				hasOnHost = true
				break
			}
		}
		if hasOnHost && len(state.compromisedHosts) > 0 {
			for id := range state.compromisedHosts {
				if !state.isIsolated(id) {
					candidates = append(candidates, id)
				}
			}
		} else {
			for _, h := range reachable {
				if h != "external" {
					candidates = append(candidates, h)
				}
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)

	switch gene.TargetSelector {
	case genome.SelectHighestCriticality:
		best := candidates[0]
		bestCrit := -1.0
		for _, id := range candidates {
			if h, ok := state.net.Host(id); ok && h.Criticality > bestCrit {
				bestCrit = h.Criticality
				best = id
			}
		}
		return best

	case genome.SelectMostConnected:
		best := candidates[0]
		bestCount := -1
		for _, id := range candidates {
			n := len(state.net.Reachable(id, nil))
			if n > bestCount {
				bestCount = n
				best = id
			}
		}
		return best

	case genome.SelectSpecificRole:
		if gene.TargetRole != nil {
			for _, id := range candidates {
				if h, ok := state.net.Host(id); ok && h.Role == *gene.TargetRole {
					return id
				}
			}
		}
		return candidates[rng.Intn(len(candidates))]

	case genome.SelectLeastDefended:
		return leastDefended(candidates, state)

	default: // SelectRandomReachable and unrecognized values
		return candidates[rng.Intn(len(candidates))]
	}
}

// leastDefended picks the reachable candidate with the fewest applicable
// ATT&CK techniques it knows it has a vulnerability or open service for,
// ties broken by lowest host ID. It has no reference implementation to
// ground a formula on — the source material left the selector an
// unimplemented random stub — so this approximates "least defended" as
// "fewest exploitable footholds" using only information already modeled.
func leastDefended(candidates []string, state *matchState) string {
	best := candidates[0]
	bestScore := -1
	for _, id := range candidates {
		h, ok := state.net.Host(id)
		if !ok {
			continue
		}
		score := len(h.Vulnerabilities) + len(h.Services)
		if bestScore == -1 || score < bestScore {
			bestScore = score
			best = id
		}
	}
	return best
}

func (e *Engine) checkPreconditions(tech *attck.Technique, targetID string, state *matchState) bool {
	host, ok := state.net.Host(targetID)
	if !ok {
		return false
	}

	for _, p := range tech.Preconditions {
		switch p.Type {
		case attck.PreconditionPositionExternal:
			if state.attackerPosition != "" {
				return false
			}
		case attck.PreconditionPositionInternal:
			if state.attackerPosition == "" && len(state.compromisedHosts) == 0 {
				return false
			}
		case attck.PreconditionPositionOnHost:
			if !state.isCompromised(targetID) {
				return false
			}
		case attck.PreconditionPrivilegeUser:
			if state.privilegeOn(targetID) < network.PrivUser && !state.isCompromised(targetID) {
				return false
			}
		case attck.PreconditionPrivilegeAdmin:
			if state.privilegeOn(targetID) < network.PrivAdmin {
				return false
			}
		case attck.PreconditionServiceRunning:
			if p.ServiceName != "" && !host.HasService(p.ServiceName) {
				return false
			}
		case attck.PreconditionVulnerabilityExists:
			if host.VulnerabilityFor(tech.ID) == nil {
				return false
			}
		case attck.PreconditionCredentialAvailable:
			if !state.hasUsableCredentialFor(targetID) {
				return false
			}
		case attck.PreconditionHostNotIsolated:
			if state.isIsolated(targetID) {
				return false
			}
		case attck.PreconditionOSWindows:
			if !host.IsWindows() {
				return false
			}
		case attck.PreconditionOSLinux:
			if !host.IsLinux() {
				return false
			}
		case attck.PreconditionHostIsDC:
			if host.Role != network.RoleDomainController {
				return false
			}
		case attck.PreconditionHasCredentialCache:
			if !host.HasCredentialCache {
				return false
			}
		case attck.PreconditionDataStaged:
			if !host.DataStaged {
				return false
			}
		case attck.PreconditionHasInternetAccess:
			// No modeled internet-access flag exists on Host; treated as
			// always satisfied until a concrete scenario needs otherwise.
		}
	}
	return true
}

func (e *Engine) checkDetection(tech *attck.Technique, stealth float64, defender *genome.DefenseGenome, hostReduction float64, rng *rand.Rand) (bool, *genome.DetectionGene) {
	prob, matching := defender.DetectionProbability(tech.ID, tech.CommonDataSources, stealth, tech.StealthBase)
	prob -= hostReduction
	if prob < 0 {
		prob = 0
	}
	if prob <= 0 || matching == nil {
		return false, nil
	}
	return rng.Float64() < prob, matching
}

func (e *Engine) applyResponse(response genome.ResponseAction, targetHost string, state *matchState) {
	switch response {
	case genome.ResponseIsolateHost:
		state.isolatedHosts[targetHost] = struct{}{}
	case genome.ResponseRevokeCredential:
		for credID := range state.obtainedCredentials {
			cred, ok := state.net.Credential(credID)
			if !ok {
				continue
			}
			for _, valid := range cred.ValidOn {
				if valid == targetHost {
					state.revokedCredentials[credID] = struct{}{}
					break
				}
			}
		}
	case genome.ResponseKillProcess, genome.ResponseBlockTraffic, genome.ResponseAlertOnly:
		// No additional state change: the technique's own effects are
		// simply never applied for a blocking response, and alert_only
		// carries no side effect beyond the recorded detection.
	}
}

func (e *Engine) applyEffects(tech *attck.Technique, targetID string, gene genome.AttackGene, state *matchState) []string {
	var applied []string
	host, ok := state.net.Host(targetID)
	if !ok {
		return applied
	}

	for _, effect := range tech.Effects {
		switch effect.Type {
		case attck.EffectGainFoothold:
			priv := privilegeFromLevel(effect.PrivilegeLevel, network.PrivUser)
			if requiresCredential(tech) {
				if cred := state.bestUsableCredential(targetID); cred != nil && cred.Privilege >= priv {
					priv = cred.Privilege
				}
			}
			state.net.CompromiseHost(targetID, priv)
			state.compromisedHosts[targetID] = struct{}{}
			state.attackerPosition = targetID
			applied = append(applied, "compromised:"+targetID)

		case attck.EffectElevatePrivilege:
			priv := privilegeFromLevel(effect.PrivilegeLevel, network.PrivAdmin)
			state.net.CompromiseHost(targetID, priv)
			applied = append(applied, "elevated:"+priv.String())

		case attck.EffectHarvestCredentials:
			harvested := state.net.HarvestCredentials(targetID)
			for _, cred := range harvested {
				if _, revoked := state.revokedCredentials[cred.ID]; !revoked {
					state.obtainedCredentials[cred.ID] = struct{}{}
					cred.Compromised = true
				}
			}
			applied = append(applied, "credentials_harvested")

		case attck.EffectEstablishPersistence:
			state.persistenceHosts[targetID] = struct{}{}
			applied = append(applied, "persistence:"+targetID)

		case attck.EffectMoveLaterally:
			priv := network.PrivUser
			if cred := state.bestUsableCredential(targetID); cred != nil && cred.Privilege >= priv {
				priv = cred.Privilege
			}
			state.net.CompromiseHost(targetID, priv)
			state.compromisedHosts[targetID] = struct{}{}
			state.attackerPosition = targetID
			applied = append(applied, "moved_to:"+targetID)

		case attck.EffectExfiltrateData:
			if state.hasCompromisedHostAboveCriticality(0.4) {
				state.dataExfiltrated = true
				applied = append(applied, "exfiltrated")
			}

		case attck.EffectExecuteCommand:
			applied = append(applied, "command_executed")

		case attck.EffectDiscoverHosts:
			if host.Segment != "" {
				applied = append(applied, "discovered:"+host.Segment)
			}

		case attck.EffectReduceDetection:
			state.detectionReduction[targetID] += effect.Value
			applied = append(applied, "detection_reduced")

		case attck.EffectIncreaseStealth:
			state.stealthBonus += effect.Value
			applied = append(applied, "stealth_bonus")

		case attck.EffectStageData:
			host.DataStaged = true
			applied = append(applied, "data_staged")

		case attck.EffectEncryptHost:
			applied = append(applied, "encrypted")

		case attck.EffectStopServices:
			applied = append(applied, "services_stopped")
		}
	}
	return applied
}

func privilegeFromLevel(level string, fallback network.PrivLevel) network.PrivLevel {
	switch level {
	case "user":
		return network.PrivUser
	case "admin":
		return network.PrivAdmin
	case "system":
		return network.PrivSystem
	default:
		return fallback
	}
}

func requiresCredential(tech *attck.Technique) bool {
	for _, p := range tech.Preconditions {
		if p.Type == attck.PreconditionCredentialAvailable {
			return true
		}
	}
	return false
}
