package orchestrator

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorAggregatorCollectsAndCounts(t *testing.T) {
	ea := NewErrorAggregator()
	assert.False(t, ea.HasErrors())

	ea.Add(nil)
	assert.Equal(t, 0, ea.Count())

	ea.Add(errors.New("matchup 1 failed"))
	ea.Add(errors.New("matchup 2 failed"))
	assert.True(t, ea.HasErrors())
	assert.Equal(t, 2, ea.Count())
	assert.Len(t, ea.GetErrors(), 2)
}

func TestErrorAggregatorErrorMessage(t *testing.T) {
	ea := NewErrorAggregator()
	assert.Equal(t, "", ea.Error())

	ea.Add(errors.New("only one"))
	assert.Equal(t, "only one", ea.Error())

	ea.Add(errors.New("a second one"))
	assert.Contains(t, ea.Error(), "2 errors occurred")
}

func TestErrorAggregatorShouldFail(t *testing.T) {
	ea := NewErrorAggregator()
	for i := 0; i < 3; i++ {
		ea.Add(errors.New("failed"))
	}
	assert.False(t, ea.ShouldFail(100, 50))
	assert.True(t, ea.ShouldFail(4, 50))
	assert.False(t, ea.ShouldFail(0, 50))
}

func TestErrorAggregatorSummary(t *testing.T) {
	ea := NewErrorAggregator()
	assert.Equal(t, "All 10 operations succeeded", ea.Summary(10))

	ea.Add(errors.New("failed"))
	assert.Contains(t, ea.Summary(10), "1/10 operations failed")
}

func TestErrorAggregatorConcurrentAdd(t *testing.T) {
	ea := NewErrorAggregator()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ea.Add(errors.New("concurrent failure"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, ea.Count())
}
