// Package progress renders a one-line generation progress summary with
// bubbles/lipgloss, called directly from the co-evolution loop rather than
// driven by a running bubbletea program — there is no interactive input to
// handle, just a status line to print after each generation.
package progress

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	stagnantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

// Renderer produces the run's per-generation progress line. It holds no
// bubbletea model loop state — just the bar component used as a pure
// string-rendering helper via ViewAs.
type Renderer struct {
	bar              progress.Model
	totalGenerations int
}

// NewRenderer builds a renderer for a run of the given total generation
// count, used to compute the completion fraction.
func NewRenderer(totalGenerations int) *Renderer {
	return &Renderer{
		bar:              progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		totalGenerations: totalGenerations,
	}
}

// Render returns the status line for one generation: a gradient bar,
// current generation count, the best fitness passed in for each population, and
// elapsed wall time. If stagnant is true the line is flagged in red.
func (r *Renderer) Render(generation int, attackerBest, defenderBest float64, elapsed time.Duration, stagnant bool) string {
	fraction := 0.0
	if r.totalGenerations > 0 {
		fraction = float64(generation) / float64(r.totalGenerations)
	}
	if fraction > 1 {
		fraction = 1
	}
	if fraction < 0 {
		fraction = 0
	}

	bar := r.bar.ViewAs(fraction)
	stats := fmt.Sprintf("gen %d/%d  attacker=%.2f  defender=%.2f  elapsed=%s",
		generation, r.totalGenerations, attackerBest, defenderBest, elapsed.Round(time.Second))

	if stagnant {
		stats = stagnantStyle.Render(stats + "  [stagnant]")
	} else {
		stats = statStyle.Render(stats)
	}

	return labelStyle.Render("aces") + " " + bar + "\n" + stats
}
