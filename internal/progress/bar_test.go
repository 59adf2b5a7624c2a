package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderIncludesGenerationAndFitness(t *testing.T) {
	r := NewRenderer(100)
	out := r.Render(25, 12.5, 8.25, 3*time.Second, false)
	assert.Contains(t, out, "gen 25/100")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "8.25")
}

func TestRenderFlagsStagnation(t *testing.T) {
	r := NewRenderer(100)
	out := r.Render(50, 1, 1, time.Minute, true)
	assert.Contains(t, out, "[stagnant]")
}

func TestRenderClampsFractionAtOneWhenGenerationExceedsTotal(t *testing.T) {
	r := NewRenderer(10)
	out := r.Render(50, 0, 0, 0, false)
	assert.Contains(t, out, "gen 50/10")
}

func TestRenderHandlesZeroTotalGenerations(t *testing.T) {
	r := NewRenderer(0)
	out := r.Render(0, 0, 0, 0, false)
	assert.Contains(t, out, "gen 0/0")
}
