package nsga2

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSortRankOrderingHoldsForRandomFitness is the random-input counterpart
// to TestSortNoIndividualInLaterFrontDominatesEarlierFront: for any fitness
// vector, no individual in rank r dominates any individual in a strictly
// lower rank.
func TestSortRankOrderingHoldsForRandomFitness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("no individual in rank r dominates any individual in rank < r", prop.ForAll(
		func(primaries, secondaries []float64) bool {
			n := len(primaries)
			if n == 0 {
				return true
			}
			individuals := make([]Individual, n)
			for i := range individuals {
				individuals[i] = Individual{Index: i, Primary: primaries[i], Secondary: secondaries[i%len(secondaries)]}
			}
			fronts := Sort(individuals)

			rankOf := make(map[int]int, n)
			for r, front := range fronts {
				for _, ind := range front {
					rankOf[ind.Index] = r
				}
			}

			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					if rankOf[i] < rankOf[j] && dominates(individuals[j], individuals[i]) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.Float64Range(-100, 100)),
		gen.SliceOfN(12, gen.Float64Range(-100, 100)),
	))

	properties.Property("crowding distance is never negative", prop.ForAll(
		func(primaries, secondaries []float64) bool {
			n := len(primaries)
			individuals := make([]Individual, n)
			for i := range individuals {
				individuals[i] = Individual{Index: i, Primary: primaries[i], Secondary: secondaries[i%len(secondaries)]}
			}
			for _, front := range Sort(individuals) {
				for _, ind := range front {
					if ind.Crowding < 0 {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(10, gen.Float64Range(-50, 50)),
		gen.SliceOfN(10, gen.Float64Range(-50, 50)),
	))

	properties.TestingRun(t)
}
