// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// QuoteRow represents one venue's latest quote for the displayed pair.
type QuoteRow struct {
	Venue string
	Price decimal.Decimal
	Size  string
	AgeMs int64
}

// QuotesComponent renders the per-venue quote comparison table.
type QuotesComponent struct {
	pair    string
	gasGwei float64
	rows    map[string]QuoteRow // keyed by venue
}

// NewQuotesComponent creates a new quotes component.
func NewQuotesComponent() *QuotesComponent {
	return &QuotesComponent{
		rows: make(map[string]QuoteRow),
	}
}

// SetPair sets the displayed pair name.
func (q *QuotesComponent) SetPair(pair string) {
	q.pair = pair
}

// SetGas sets the gas price in gwei.
func (q *QuotesComponent) SetGas(gwei float64) {
	q.gasGwei = gwei
}

// Update merges the latest quote per venue.
func (q *QuotesComponent) Update(rows []QuoteRow) {
	for _, row := range rows {
		q.rows[row.Venue] = row
	}
}

// View renders the quotes component.
func (q *QuotesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	bestStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	if len(q.rows) == 0 {
		return headerStyle.Render("VENUE QUOTES") + "\n\n" +
			dimStyle.Render("  Waiting for quotes...")
	}

	venues := make([]string, 0, len(q.rows))
	best := decimal.Zero
	for venue, row := range q.rows {
		venues = append(venues, venue)
		if row.Price.GreaterThan(best) {
			best = row.Price
		}
	}
	sort.Strings(venues)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("VENUE QUOTES (%s)", q.pair)))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  %-12s  %14s  %10s  %8s\n", "Venue", "Price", "Size", "Age"))
	sb.WriteString(dimStyle.Render("  "+strings.Repeat("─", 50)) + "\n")

	for _, venue := range venues {
		row := q.rows[venue]
		priceStr := row.Price.StringFixed(6)
		if row.Price.Equal(best) {
			priceStr = bestStyle.Render(priceStr)
		}
		sb.WriteString(fmt.Sprintf("  %-12s  %14s  %10s  %6dms\n",
			venue, priceStr, row.Size, row.AgeMs))
	}

	if q.gasGwei > 0 {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  Gas: %.1f gwei", q.gasGwei)))
		sb.WriteString("\n")
	}

	return sb.String()
}
