package network

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorporateMediumHasTwentyFiveHostsPlusExternal(t *testing.T) {
	g := CorporateMedium()
	assert.Equal(t, 26, g.HostCount())

	_, ok := g.Host("external")
	assert.True(t, ok)
	_, ok = g.Host("srv-dc-01")
	assert.True(t, ok)
}

func TestAddEdgeComputesSegmentBoundary(t *testing.T) {
	g := NewGraph()
	g.AddHost(&Host{ID: "a", Segment: "dmz"})
	g.AddHost(&Host{ID: "b", Segment: "user"})
	g.AddHost(&Host{ID: "c", Segment: "dmz"})
	g.AddEdge("a", "b", []string{"http"}, false)
	g.AddEdge("a", "c", []string{"http"}, false)

	surface := g.AttackSurface("a")
	require.Len(t, surface, 2)
	for _, e := range surface {
		if e.Target == "b" {
			assert.True(t, e.CrossesSegment)
		}
		if e.Target == "c" {
			assert.False(t, e.CrossesSegment)
		}
	}
}

func TestCompromiseHostNeverLowersPrivilege(t *testing.T) {
	g := NewGraph()
	g.AddHost(&Host{ID: "h"})
	g.CompromiseHost("h", PrivAdmin)
	g.CompromiseHost("h", PrivUser)

	h, _ := g.Host("h")
	assert.True(t, h.IsCompromised)
	assert.Equal(t, PrivAdmin, h.PrivilegeLevel)
}

func TestHarvestCredentialsRequiresCache(t *testing.T) {
	g := NewGraph()
	g.AddHost(&Host{ID: "cached", HasCredentialCache: true})
	g.AddHost(&Host{ID: "uncached", HasCredentialCache: false})
	g.AddCredential(&Credential{ID: "c1", ValidOn: []string{"cached", "uncached"}})

	assert.Len(t, g.HarvestCredentials("cached"), 1)
	assert.Empty(t, g.HarvestCredentials("uncached"))
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	g := CorporateMedium()
	clone := g.Clone()

	clone.CompromiseHost("srv-dc-01", PrivAdmin)

	original, _ := g.Host("srv-dc-01")
	cloned, _ := clone.Host("srv-dc-01")
	assert.False(t, original.IsCompromised)
	assert.True(t, cloned.IsCompromised)
}

func TestSaveLoadJSONRoundTrips(t *testing.T) {
	g := CorporateMedium()
	path := filepath.Join(t.TempDir(), "topology.json")

	require.NoError(t, SaveJSON(g, path))
	loaded, err := LoadJSON(path)
	require.NoError(t, err)

	assert.Equal(t, g.HostCount(), loaded.HostCount())
	assert.Equal(t, g.EdgeCount(), loaded.EdgeCount())

	dc, ok := loaded.Host("srv-dc-01")
	require.True(t, ok)
	assert.Equal(t, RoleDomainController, dc.Role)
}

func TestReachableFiltersByProtocol(t *testing.T) {
	g := CorporateMedium()
	rdpOnly := g.Reachable("it-ws-01", &ReachRequirement{Protocol: "rdp"})
	assert.NotEmpty(t, rdpOnly)

	unfiltered := g.Reachable("it-ws-01", nil)
	assert.GreaterOrEqual(t, len(unfiltered), len(rdpOnly))
}
