package operators

import (
	"math/rand"

	"github.com/redqueen-labs/aces/internal/config"
	"github.com/redqueen-labs/aces/pkg/attck"
	"github.com/redqueen-labs/aces/pkg/genome"
)

// AttackerOps groups the three operations the co-evolution loop needs to
// manage an attacker population, closed over a catalog and a run config.
// Passing this value around in place of a package-level toolbox keeps every
// operator call explicit about which registry and config it runs against,
// which matters once more than one run shares a process.
type AttackerOps struct {
	registry *attck.Registry
	cfg      *config.Config
}

// NewAttackerOps builds an AttackerOps bundle.
func NewAttackerOps(registry *attck.Registry, cfg *config.Config) AttackerOps {
	return AttackerOps{registry: registry, cfg: cfg}
}

func (o AttackerOps) Random(rng *rand.Rand) *genome.AttackGenome {
	return RandomAttacker(o.registry, o.cfg.MaxAttackChainLength, rng)
}

func (o AttackerOps) Crossover(a, b *genome.AttackGenome, rng *rand.Rand) (*genome.AttackGenome, *genome.AttackGenome) {
	return CrossoverAttack(o.registry, a, b, rng)
}

func (o AttackerOps) Mutate(g *genome.AttackGenome, rng *rand.Rand) {
	MutateAttack(o.registry, g, rng)
}

// DefenderOps is AttackerOps' counterpart for the defender population.
type DefenderOps struct {
	registry *attck.Registry
	cfg      *config.Config
}

// NewDefenderOps builds a DefenderOps bundle.
func NewDefenderOps(registry *attck.Registry, cfg *config.Config) DefenderOps {
	return DefenderOps{registry: registry, cfg: cfg}
}

func (o DefenderOps) Random(rng *rand.Rand) *genome.DefenseGenome {
	return RandomDefender(o.registry, o.cfg.DefenderBudget, rng)
}

func (o DefenderOps) Crossover(a, b *genome.DefenseGenome, rng *rand.Rand) (*genome.DefenseGenome, *genome.DefenseGenome) {
	return CrossoverDefense(a, b, rng)
}

func (o DefenderOps) Mutate(g *genome.DefenseGenome, rng *rand.Rand) {
	MutateDefense(o.registry, g, rng)
}
