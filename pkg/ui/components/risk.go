package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RiskPanel holds the risk engine state for display.
type RiskPanel struct {
	TradingPaused       bool
	PauseReason         string
	CircuitOpen         bool
	ConsecutiveFailures int
	DailyVolumeUSD      decimal.Decimal
	DailyVolumeLimitUSD decimal.Decimal
	TradesToday         int
	LastTradeAt         time.Time
}

// RiskComponent renders the risk engine panel.
type RiskComponent struct {
	panel *RiskPanel
}

// NewRiskComponent creates a new risk component.
func NewRiskComponent() *RiskComponent {
	return &RiskComponent{}
}

// Update replaces the displayed state.
func (r *RiskComponent) Update(panel RiskPanel) {
	r.panel = &panel
}

// View renders the risk component.
func (r *RiskComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	dangerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("RISK"))
	sb.WriteString("\n\n")

	if r.panel == nil {
		sb.WriteString(dimStyle.Render("  Waiting for risk state..."))
		return sb.String()
	}

	p := r.panel

	switch {
	case p.TradingPaused:
		sb.WriteString(dangerStyle.Render("  ⛔ TRADING PAUSED"))
		if p.PauseReason != "" {
			sb.WriteString(dimStyle.Render(" (" + p.PauseReason + ")"))
		}
	case p.CircuitOpen:
		sb.WriteString(dangerStyle.Render("  ⚡ CIRCUIT BREAKER OPEN"))
	default:
		sb.WriteString(okStyle.Render("  ● Trading enabled"))
	}
	sb.WriteString("\n\n")

	volumeStr := fmt.Sprintf("  Daily volume: $%s / $%s",
		p.DailyVolumeUSD.StringFixed(0), p.DailyVolumeLimitUSD.StringFixed(0))
	if p.DailyVolumeLimitUSD.IsPositive() &&
		p.DailyVolumeUSD.GreaterThanOrEqual(p.DailyVolumeLimitUSD.Mul(decimal.RequireFromString("0.8"))) {
		sb.WriteString(warnStyle.Render(volumeStr))
	} else {
		sb.WriteString(dimStyle.Render(volumeStr))
	}
	sb.WriteString("\n")

	sb.WriteString(dimStyle.Render(fmt.Sprintf("  Trades today: %d", p.TradesToday)))
	if p.ConsecutiveFailures > 0 {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("  (%d consecutive failures)", p.ConsecutiveFailures)))
	}
	sb.WriteString("\n")

	if !p.LastTradeAt.IsZero() {
		ago := time.Since(p.LastTradeAt).Round(time.Second)
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  Last trade: %s ago", ago)))
		sb.WriteString("\n")
	}

	return sb.String()
}
