package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds scanner statistics for display.
type Stats struct {
	Cycles        uint64
	Opportunities uint64
	Executed      uint64
	Interval      time.Duration
	LastCycleMs   int64
}

// StatsComponent renders scanner statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)

	hitRate := float64(0)
	if s.stats.Cycles > 0 {
		hitRate = float64(s.stats.Opportunities) / float64(s.stats.Cycles)
	}

	return style.Render("SCANNER") + "\n" +
		fmt.Sprintf("Cycles: %s  │  Opportunities: %s (%.2f/cycle)  │  Executed: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Cycles)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Opportunities)),
			hitRate,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Executed)),
		) +
		fmt.Sprintf("Interval: %s  │  Last cycle: %s",
			valueStyle.Render(s.stats.Interval.String()),
			valueStyle.Render(fmt.Sprintf("%dms", s.stats.LastCycleMs)),
		)
}
