package coevolution

import (
	"math"
	"sort"

	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/pkg/genome"
	"github.com/redqueen-labs/aces/pkg/nsga2"
)

// attackerEntry pairs a Hall of Fame candidate with the fitness it earned.
type attackerEntry struct {
	genome  *genome.AttackGenome
	fitness core.Fitness
}

// defenderEntry is attackerEntry's counterpart for the defender population.
type defenderEntry struct {
	genome  *genome.DefenseGenome
	fitness core.Fitness
}

// AttackerHOF retains the best-ranked, most distinct attacker kill chains
// seen across the run, deduplicated by ordered technique-id chain.
type AttackerHOF struct {
	maxSize int
	entries []attackerEntry
}

// NewAttackerHOF builds an empty Hall of Fame bounded to maxSize entries.
func NewAttackerHOF(maxSize int) *AttackerHOF {
	return &AttackerHOF{maxSize: maxSize}
}

// Update merges a generation's population into the Hall of Fame candidate
// set, keeping the top maxSize by NSGA-II rank then crowding distance,
// deduplicated by kill chain — a genome whose chain already has a Hall of
// Fame entry never admits a second, weaker copy.
func (h *AttackerHOF) Update(population []*genome.AttackGenome, fitness []core.Fitness) int {
	seenChains := make(map[string]bool, len(h.entries))
	for _, e := range h.entries {
		seenChains[chainKeyOf(e.genome)] = true
	}

	admitted := 0
	for i, g := range population {
		key := chainKeyOf(g)
		if seenChains[key] {
			continue
		}
		seenChains[key] = true
		h.entries = append(h.entries, attackerEntry{genome: g.Clone(), fitness: fitness[i]})
		admitted++
	}

	h.trim()
	return admitted
}

// trim reduces the candidate set to maxSize via NSGA-II rank then crowding
// distance, ties broken by ascending index for determinism.
func (h *AttackerHOF) trim() {
	if len(h.entries) <= h.maxSize {
		return
	}
	individuals := make([]nsga2.Individual, len(h.entries))
	for i, e := range h.entries {
		individuals[i] = nsga2.Individual{Index: i, Primary: e.fitness.Primary, Secondary: e.fitness.Secondary}
	}
	ranked := nsga2.Flatten(nsga2.Sort(individuals))

	kept := make([]attackerEntry, 0, h.maxSize)
	for i := 0; i < h.maxSize && i < len(ranked); i++ {
		kept = append(kept, h.entries[ranked[i].Index])
	}
	h.entries = kept
}

// Top1 returns the current leader's fitness, or the zero value if the Hall
// of Fame is empty.
func (h *AttackerHOF) Top1() core.Fitness {
	if len(h.entries) == 0 {
		return core.Fitness{}
	}
	best := h.entries[0].fitness
	for _, e := range h.entries[1:] {
		if e.fitness.Primary > best.Primary {
			best = e.fitness
		}
	}
	return best
}

// Genomes returns the current Hall of Fame members: in admission order until
// the first trim, after which trim leaves them in nsga2.Flatten order (rank,
// then crowding distance).
func (h *AttackerHOF) Genomes() []*genome.AttackGenome {
	out := make([]*genome.AttackGenome, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.genome
	}
	return out
}

// Fitnesses returns the fitness paired with each Genomes() entry, same
// order.
func (h *AttackerHOF) Fitnesses() []core.Fitness {
	out := make([]core.Fitness, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.fitness
	}
	return out
}

// Len reports the Hall of Fame's current size.
func (h *AttackerHOF) Len() int { return len(h.entries) }

func chainKeyOf(g *genome.AttackGenome) string {
	ids := g.AttackChain()
	key := ""
	for i, id := range ids {
		if i > 0 {
			key += ">"
		}
		key += id
	}
	return key
}

// DefenderHOF is AttackerHOF's counterpart, deduplicated by the unordered
// set of covered technique ids rather than an ordered chain.
type DefenderHOF struct {
	maxSize int
	entries []defenderEntry
}

// NewDefenderHOF builds an empty Hall of Fame bounded to maxSize entries.
func NewDefenderHOF(maxSize int) *DefenderHOF {
	return &DefenderHOF{maxSize: maxSize}
}

func (h *DefenderHOF) Update(population []*genome.DefenseGenome, fitness []core.Fitness) int {
	seenConfigs := make(map[string]bool, len(h.entries))
	for _, e := range h.entries {
		seenConfigs[configKeyOf(e.genome)] = true
	}

	admitted := 0
	for i, d := range population {
		key := configKeyOf(d)
		if seenConfigs[key] {
			continue
		}
		seenConfigs[key] = true
		h.entries = append(h.entries, defenderEntry{genome: d.Clone(), fitness: fitness[i]})
		admitted++
	}

	h.trim()
	return admitted
}

func (h *DefenderHOF) trim() {
	if len(h.entries) <= h.maxSize {
		return
	}
	individuals := make([]nsga2.Individual, len(h.entries))
	for i, e := range h.entries {
		individuals[i] = nsga2.Individual{Index: i, Primary: e.fitness.Primary, Secondary: e.fitness.Secondary}
	}
	ranked := nsga2.Flatten(nsga2.Sort(individuals))

	kept := make([]defenderEntry, 0, h.maxSize)
	for i := 0; i < h.maxSize && i < len(ranked); i++ {
		kept = append(kept, h.entries[ranked[i].Index])
	}
	h.entries = kept
}

func (h *DefenderHOF) Top1() core.Fitness {
	if len(h.entries) == 0 {
		return core.Fitness{}
	}
	best := h.entries[0].fitness
	for _, e := range h.entries[1:] {
		if e.fitness.Primary > best.Primary {
			best = e.fitness
		}
	}
	return best
}

func (h *DefenderHOF) Genomes() []*genome.DefenseGenome {
	out := make([]*genome.DefenseGenome, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.genome
	}
	return out
}

func (h *DefenderHOF) Fitnesses() []core.Fitness {
	out := make([]core.Fitness, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.fitness
	}
	return out
}

func (h *DefenderHOF) Len() int { return len(h.entries) }

func configKeyOf(d *genome.DefenseGenome) string {
	ids := make([]string, 0, len(d.Genes))
	for _, g := range d.Genes {
		ids = append(ids, g.TechniqueDetected)
	}
	sort.Strings(ids)
	key := ""
	for i, id := range ids {
		if i > 0 {
			key += ">"
		}
		key += id
	}
	return key
}

// worstFirst orders individuals highest-rank-first, lowest-crowding-first
// within a rank, ties broken by ascending index for determinism — the
// reverse of nsga2.Flatten's best-first ordering.
func worstFirst(individuals []nsga2.Individual) []nsga2.Individual {
	out := make([]nsga2.Individual, len(individuals))
	copy(out, individuals)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Rank != out[b].Rank {
			return out[a].Rank > out[b].Rank
		}
		if out[a].Crowding != out[b].Crowding {
			return out[a].Crowding < out[b].Crowding
		}
		return out[a].Index < out[b].Index
	})
	return out
}

// injectAttackerElites replaces the next generation's worst-ranked, lowest-
// crowding attacker slots with Hall of Fame members until the population
// contains at least hInject HOF genomes, per spec.md step 6:
// H_inject = min(H, floor(0.05*N)). inherited carries the (rank, crowding)
// each offspring slot inherited from its tournament-winning parent, used in
// place of a real evaluation since the offspring have not been scored yet.
func injectAttackerElites(population []*genome.AttackGenome, inherited []nsga2.Individual, hof *AttackerHOF) []*genome.AttackGenome {
	hInject := hInjectCount(len(population), hof.Len())
	if hInject == 0 {
		return population
	}

	worst := worstFirst(inherited)
	elites := hof.Genomes()
	for i := 0; i < hInject; i++ {
		population[worst[i].Index] = elites[i%len(elites)].Clone()
	}
	return population
}

// injectDefenderElites is injectAttackerElites' counterpart for the
// defender population.
func injectDefenderElites(population []*genome.DefenseGenome, inherited []nsga2.Individual, hof *DefenderHOF) []*genome.DefenseGenome {
	hInject := hInjectCount(len(population), hof.Len())
	if hInject == 0 {
		return population
	}

	worst := worstFirst(inherited)
	elites := hof.Genomes()
	for i := 0; i < hInject; i++ {
		population[worst[i].Index] = elites[i%len(elites)].Clone()
	}
	return population
}

func hInjectCount(populationSize, hofSize int) int {
	target := int(math.Floor(0.05 * float64(populationSize)))
	if target > hofSize {
		target = hofSize
	}
	if target > populationSize {
		target = populationSize
	}
	return target
}
