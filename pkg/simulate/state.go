// Package simulate executes a single attacker-vs-defender matchup against a
// cloned network graph and records the resulting events and outcomes.
package simulate

import (
	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/network"
)

// matchState is the mutable, per-matchup simulation state: a private clone
// of the network template plus the attacker's progress through it. Nothing
// here is shared across goroutines — each matchup gets its own state built
// from its own network clone.
type matchState struct {
	net *network.Graph

	attackerPosition   string // "" means external
	compromisedHosts   map[string]struct{}
	obtainedCredentials map[string]struct{}
	persistenceHosts   map[string]struct{}
	isolatedHosts      map[string]struct{}
	revokedCredentials map[string]struct{}
	dataExfiltrated    bool
	stealthBonus       float64
	detectionReduction map[string]float64
	events             []core.SimEvent
}

func newMatchState(net *network.Graph) *matchState {
	return &matchState{
		net:                 net.Clone(),
		compromisedHosts:    make(map[string]struct{}),
		obtainedCredentials: make(map[string]struct{}),
		persistenceHosts:    make(map[string]struct{}),
		isolatedHosts:       make(map[string]struct{}),
		revokedCredentials:  make(map[string]struct{}),
		detectionReduction:  make(map[string]float64),
	}
}

func (s *matchState) isIsolated(id string) bool {
	_, ok := s.isolatedHosts[id]
	return ok
}

func (s *matchState) isCompromised(id string) bool {
	_, ok := s.compromisedHosts[id]
	return ok
}

// hasCompromisedHostAboveCriticality reports whether any currently
// compromised host's criticality meets or exceeds the given threshold.
func (s *matchState) hasCompromisedHostAboveCriticality(threshold float64) bool {
	for id := range s.compromisedHosts {
		if h, ok := s.net.Host(id); ok && h.Criticality >= threshold {
			return true
		}
	}
	return false
}

// reachableHosts returns the deduplicated set of hosts reachable from the
// attacker's current position, plus every non-isolated compromised host,
// minus anything now isolated.
func (s *matchState) reachableHosts() []string {
	set := make(map[string]struct{})

	if s.attackerPosition == "" {
		for _, h := range s.net.Reachable("external", nil) {
			set[h] = struct{}{}
		}
	} else {
		for _, h := range s.net.Reachable(s.attackerPosition, nil) {
			set[h] = struct{}{}
		}
	}

	for id := range s.compromisedHosts {
		if s.isIsolated(id) {
			continue
		}
		for _, h := range s.net.Reachable(id, nil) {
			set[h] = struct{}{}
		}
	}

	for id := range s.isolatedHosts {
		delete(set, id)
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// isReachable reports whether a target is currently reachable from the
// attacker's position or any non-isolated compromised host.
func (s *matchState) isReachable(targetID string) bool {
	if s.isIsolated(targetID) {
		return false
	}
	for _, h := range s.reachableHosts() {
		if h == targetID {
			return true
		}
	}
	return false
}

// privilegeOn returns the attacker's current privilege level on a host,
// PrivNone if the host has never been compromised.
func (s *matchState) privilegeOn(id string) network.PrivLevel {
	if !s.isCompromised(id) {
		return network.PrivNone
	}
	h, ok := s.net.Host(id)
	if !ok {
		return network.PrivNone
	}
	return h.PrivilegeLevel
}

func (s *matchState) recordEvent(e core.SimEvent) {
	s.events = append(s.events, e)
}

func (s *matchState) hasUsableCredentialFor(hostID string) bool {
	for credID := range s.obtainedCredentials {
		if _, revoked := s.revokedCredentials[credID]; revoked {
			continue
		}
		if cred, ok := s.net.Credential(credID); ok {
			for _, valid := range cred.ValidOn {
				if valid == hostID {
					return true
				}
			}
		}
	}
	return false
}

// bestUsableCredential returns the highest-privilege non-revoked credential
// the attacker holds that is valid on the given host, if any.
func (s *matchState) bestUsableCredential(hostID string) *network.Credential {
	var best *network.Credential
	for credID := range s.obtainedCredentials {
		if _, revoked := s.revokedCredentials[credID]; revoked {
			continue
		}
		cred, ok := s.net.Credential(credID)
		if !ok {
			continue
		}
		valid := false
		for _, v := range cred.ValidOn {
			if v == hostID {
				valid = true
				break
			}
		}
		if !valid {
			continue
		}
		if best == nil || cred.Privilege > best.Privilege {
			best = cred
		}
	}
	return best
}
