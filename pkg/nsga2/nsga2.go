// Package nsga2 implements the non-dominated sort, crowding distance, and
// binary tournament selection that drive both populations of the
// co-evolution loop. There is no off-the-shelf Go equivalent of the
// reference material's DEAP toolbox, so this is a direct, generic
// reimplementation of the textbook algorithm rather than a ported library.
package nsga2

import (
	"math"
	"math/rand"
	"sort"
)

// Individual is anything NSGA-II can rank: something with an index into the
// caller's population slice and a two-objective fitness vector, both to be
// maximized.
type Individual struct {
	Index     int
	Primary   float64
	Secondary float64

	Rank     int
	Crowding float64
}

// dominates reports whether a strictly dominates b: at least as good in
// both objectives and strictly better in at least one.
func dominates(a, b Individual) bool {
	if a.Primary < b.Primary || a.Secondary < b.Secondary {
		return false
	}
	return a.Primary > b.Primary || a.Secondary > b.Secondary
}

// Sort performs a full non-dominated sort, assigning Rank (0 = Pareto
// front) and Crowding (within-front crowding distance) to every
// individual, then returns the individuals grouped front by front in rank
// order. Ties within a front (equal crowding) are broken by ascending
// Index for determinism.
func Sort(individuals []Individual) [][]Individual {
	n := len(individuals)
	dominatedBy := make([][]int, n)
	dominationCount := make([]int, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if dominates(individuals[i], individuals[j]) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if dominates(individuals[j], individuals[i]) {
				dominationCount[i]++
			}
		}
	}

	var fronts [][]int
	current := []int{}
	for i := 0; i < n; i++ {
		if dominationCount[i] == 0 {
			individuals[i].Rank = 0
			current = append(current, i)
		}
	}

	rank := 0
	for len(current) > 0 {
		fronts = append(fronts, current)
		var next []int
		for _, i := range current {
			for _, j := range dominatedBy[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					individuals[j].Rank = rank + 1
					next = append(next, j)
				}
			}
		}
		rank++
		current = next
	}

	result := make([][]Individual, len(fronts))
	for fi, front := range fronts {
		members := make([]Individual, len(front))
		for k, idx := range front {
			members[k] = individuals[idx]
		}
		assignCrowdingDistance(members)
		sort.SliceStable(members, func(a, b int) bool {
			if members[a].Crowding != members[b].Crowding {
				return members[a].Crowding > members[b].Crowding
			}
			return members[a].Index < members[b].Index
		})
		result[fi] = members
	}
	return result
}

// assignCrowdingDistance computes the crowding distance of every individual
// within a single front in place, per objective, summing boundary-infinite
// contributions as the textbook algorithm specifies.
func assignCrowdingDistance(front []Individual) {
	n := len(front)
	if n == 0 {
		return
	}
	if n <= 2 {
		for i := range front {
			front[i].Crowding = math.Inf(1)
		}
		return
	}
	for i := range front {
		front[i].Crowding = 0
	}

	assignForObjective(front, func(ind Individual) float64 { return ind.Primary },
		func(ind *Individual, v float64) { ind.Crowding += v })
	assignForObjective(front, func(ind Individual) float64 { return ind.Secondary },
		func(ind *Individual, v float64) { ind.Crowding += v })
}

func assignForObjective(front []Individual, get func(Individual) float64, add func(*Individual, float64)) {
	n := len(front)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return get(front[order[a]]) < get(front[order[b]]) })

	lo := get(front[order[0]])
	hi := get(front[order[n-1]])
	add(&front[order[0]], math.Inf(1))
	add(&front[order[n-1]], math.Inf(1))

	if hi == lo {
		return
	}
	for k := 1; k < n-1; k++ {
		prev := get(front[order[k-1]])
		next := get(front[order[k+1]])
		add(&front[order[k]], (next-prev)/(hi-lo))
	}
}

// BinaryTournament selects one winner from a uniformly random pair, per the
// ranked-then-crowding comparison spec.md calls for: lower rank wins, ties
// broken by higher crowding distance.
func BinaryTournament(ranked []Individual, rng *rand.Rand) Individual {
	a := ranked[rng.Intn(len(ranked))]
	b := ranked[rng.Intn(len(ranked))]
	if a.Rank != b.Rank {
		if a.Rank < b.Rank {
			return a
		}
		return b
	}
	if a.Crowding >= b.Crowding {
		return a
	}
	return b
}

// Flatten concatenates ranked fronts back into a single rank-then-crowding
// ordered slice, e.g. for taking the top-H individuals for Hall of Fame
// admission.
func Flatten(fronts [][]Individual) []Individual {
	var out []Individual
	for _, f := range fronts {
		out = append(out, f...)
	}
	return out
}
