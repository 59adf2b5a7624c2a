// Package genome defines the attacker and defender chromosomes the
// evolutionary loop mutates, crosses, and scores.
package genome

import (
	"fmt"

	"github.com/redqueen-labs/aces/pkg/network"
)

// TargetSelector is the strategy an attack gene uses to pick its target
// host among the attacker's currently reachable set.
type TargetSelector string

const (
	SelectHighestCriticality TargetSelector = "highest_criticality"
	SelectLeastDefended      TargetSelector = "least_defended"
	SelectMostConnected      TargetSelector = "most_connected"
	SelectRandomReachable    TargetSelector = "random_reachable"
	SelectSpecificRole       TargetSelector = "specific_role"
)

// AttackGene is one step of a kill chain: a technique to attempt, how to
// pick its target, an optional fallback if the primary technique's
// preconditions fail, and a stealth modifier the mutation operator tunes.
type AttackGene struct {
	TechniqueID        string
	TargetSelector     TargetSelector
	TargetRole         *network.HostRole
	FallbackTechnique  string
	StealthModifier    float64
}

// AttackGenome is a variable-length ordered sequence of AttackGenes
// representing one candidate kill chain. gene 0 must always be an initial
// access technique; callers that construct genomes outside the operators
// package are responsible for preserving that invariant.
type AttackGenome struct {
	Genes     []AttackGene
	MaxLength int
}

// NewAttackGenome wraps a gene sequence, defaulting MaxLength if unset.
func NewAttackGenome(genes []AttackGene, maxLength int) *AttackGenome {
	if maxLength <= 0 {
		maxLength = 12
	}
	return &AttackGenome{Genes: genes, MaxLength: maxLength}
}

// InitialAccessGene returns the first gene, which must be an initial access
// technique.
func (g *AttackGenome) InitialAccessGene() AttackGene {
	return g.Genes[0]
}

// AttackChain returns the readable technique ID sequence.
func (g *AttackGenome) AttackChain() []string {
	ids := make([]string, len(g.Genes))
	for i, gene := range g.Genes {
		ids[i] = gene.TechniqueID
	}
	return ids
}

// Len reports the number of genes in the chain.
func (g *AttackGenome) Len() int {
	return len(g.Genes)
}

// Clone returns a deep copy suitable for mutation without aliasing the
// parent genome.
func (g *AttackGenome) Clone() *AttackGenome {
	genes := make([]AttackGene, len(g.Genes))
	copy(genes, g.Genes)
	for i := range genes {
		if g.Genes[i].TargetRole != nil {
			role := *g.Genes[i].TargetRole
			genes[i].TargetRole = &role
		}
	}
	return &AttackGenome{Genes: genes, MaxLength: g.MaxLength}
}

func (g *AttackGenome) String() string {
	out := ""
	for i, gene := range g.Genes {
		if i > 0 {
			out += " -> "
		}
		out += gene.TechniqueID
	}
	return fmt.Sprintf("AttackGenome(%s)", out)
}

// PresenceVector returns a fixed-order bitmap of which catalog technique IDs
// appear anywhere in the chain. It is the input to Hamming-distance
// diversity measurement, so every genome must be compared against the same
// ordered ID list.
func (g *AttackGenome) PresenceVector(orderedIDs []string) []bool {
	present := make(map[string]bool, len(g.Genes))
	for _, gene := range g.Genes {
		present[gene.TechniqueID] = true
	}
	vec := make([]bool, len(orderedIDs))
	for i, id := range orderedIDs {
		vec[i] = present[id]
	}
	return vec
}
