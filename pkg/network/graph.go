package network

// Edge is a directed reachability relationship between two hosts: the
// protocols usable over it, whether using it requires a credential, and
// whether it crosses a network segment boundary.
type Edge struct {
	Target           string
	Protocols        []string
	RequiresCredential bool
	CrossesSegment   bool
}

// ReachRequirement is a predicate attack genes use when asking the graph
// whether a hop to a given target is currently usable.
type ReachRequirement struct {
	Protocol          string
	RequireCredential bool
}

// Graph is the directed reachability model of the enterprise network: hosts
// as nodes, protocol-tagged credential-gated edges as reachability, plus the
// credential inventory and segment membership index used throughout
// simulation.
type Graph struct {
	hosts       map[string]*Host
	edges       map[string][]Edge
	credentials map[string]*Credential
	segments    map[string][]string
}

// NewGraph returns an empty network graph.
func NewGraph() *Graph {
	return &Graph{
		hosts:       make(map[string]*Host),
		edges:       make(map[string][]Edge),
		credentials: make(map[string]*Credential),
		segments:    make(map[string][]string),
	}
}

// AddHost registers a host and indexes it by segment.
func (g *Graph) AddHost(h *Host) {
	g.hosts[h.ID] = h
	if h.Segment == "" {
		return
	}
	for _, id := range g.segments[h.Segment] {
		if id == h.ID {
			return
		}
	}
	g.segments[h.Segment] = append(g.segments[h.Segment], h.ID)
}

// AddEdge adds a directed reachability edge, computing whether it crosses a
// segment boundary from the endpoints' recorded segments.
func (g *Graph) AddEdge(src, dst string, protocols []string, requiresCredential bool) {
	crosses := false
	if s, ok := g.hosts[src]; ok {
		if d, ok := g.hosts[dst]; ok {
			crosses = s.Segment != d.Segment
		}
	}
	g.edges[src] = append(g.edges[src], Edge{
		Target:             dst,
		Protocols:          protocols,
		RequiresCredential: requiresCredential,
		CrossesSegment:     crosses,
	})
}

// AddCredential registers a credential in the network's inventory.
func (g *Graph) AddCredential(c *Credential) {
	g.credentials[c.ID] = c
}

// Host returns a host by ID. The second return value is false if no such
// host exists.
func (g *Graph) Host(id string) (*Host, bool) {
	h, ok := g.hosts[id]
	return h, ok
}

// Reachable returns the IDs of hosts reachable in one hop from host_id,
// optionally filtered to edges carrying a given protocol.
func (g *Graph) Reachable(hostID string, req *ReachRequirement) []string {
	var out []string
	for _, e := range g.edges[hostID] {
		if req == nil || req.Protocol == "" {
			out = append(out, e.Target)
			continue
		}
		for _, p := range e.Protocols {
			if p == req.Protocol {
				out = append(out, e.Target)
				break
			}
		}
	}
	return out
}

// AttackSurface returns every edge leaving a host, unfiltered.
func (g *Graph) AttackSurface(hostID string) []Edge {
	return g.edges[hostID]
}

// CompromiseHost marks a host compromised, raising its recorded privilege
// level only if the new level is at least as high as the current one.
func (g *Graph) CompromiseHost(hostID string, level PrivLevel) {
	h, ok := g.hosts[hostID]
	if !ok {
		return
	}
	h.IsCompromised = true
	if level >= h.PrivilegeLevel {
		h.PrivilegeLevel = level
	}
}

// HostsByRole returns every host with the given role.
func (g *Graph) HostsByRole(role HostRole) []*Host {
	var out []*Host
	for _, h := range g.hosts {
		if h.Role == role {
			out = append(out, h)
		}
	}
	return out
}

// CompromisedHosts returns every host currently marked compromised.
func (g *Graph) CompromisedHosts() []*Host {
	var out []*Host
	for _, h := range g.hosts {
		if h.IsCompromised {
			out = append(out, h)
		}
	}
	return out
}

// HarvestCredentials returns the credentials cached on a host, or an empty
// slice if the host has no credential cache.
func (g *Graph) HarvestCredentials(hostID string) []*Credential {
	h, ok := g.hosts[hostID]
	if !ok || !h.HasCredentialCache {
		return nil
	}
	var out []*Credential
	for _, c := range g.credentials {
		if validOn(c, hostID) {
			out = append(out, c)
		}
	}
	return out
}

// Credential returns a credential by ID.
func (g *Graph) Credential(id string) (*Credential, bool) {
	c, ok := g.credentials[id]
	return c, ok
}

// CredentialsForHost returns every credential valid on a target host,
// regardless of that host's credential cache.
func (g *Graph) CredentialsForHost(hostID string) []*Credential {
	var out []*Credential
	for _, c := range g.credentials {
		if validOn(c, hostID) {
			out = append(out, c)
		}
	}
	return out
}

func validOn(c *Credential, hostID string) bool {
	for _, id := range c.ValidOn {
		if id == hostID {
			return true
		}
	}
	return false
}

// SegmentHosts returns the IDs of every host sharing a segment.
func (g *Graph) SegmentHosts(segment string) []string {
	return g.segments[segment]
}

// Hosts returns the full host map. Callers must not mutate it directly;
// use CompromiseHost and friends.
func (g *Graph) Hosts() map[string]*Host {
	return g.hosts
}

// HostCount reports the number of hosts in the graph.
func (g *Graph) HostCount() int {
	return len(g.hosts)
}

// EdgeCount reports the number of directed edges in the graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, es := range g.edges {
		n += len(es)
	}
	return n
}

// Clone deep-copies the graph so simulation state never mutates the shared
// topology template.
func (g *Graph) Clone() *Graph {
	clone := NewGraph()
	for id, h := range g.hosts {
		clone.hosts[id] = h.Clone()
	}
	for src, edges := range g.edges {
		cp := make([]Edge, len(edges))
		for i, e := range edges {
			cp[i] = Edge{
				Target:             e.Target,
				Protocols:          append([]string(nil), e.Protocols...),
				RequiresCredential: e.RequiresCredential,
				CrossesSegment:     e.CrossesSegment,
			}
		}
		clone.edges[src] = cp
	}
	for id, c := range g.credentials {
		cc := *c
		cc.ValidOn = append([]string(nil), c.ValidOn...)
		clone.credentials[id] = &cc
	}
	for seg, ids := range g.segments {
		clone.segments[seg] = append([]string(nil), ids...)
	}
	return clone
}
