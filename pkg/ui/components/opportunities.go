package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// OpportunityRow represents an opportunity in the list.
type OpportunityRow struct {
	Timestamp   string
	BlockNumber uint64
	Pair        string
	Size        string
	SellVenue   string
	BuyVenue    string
	SpreadPct   decimal.Decimal
	NetProfit   decimal.Decimal
	Profitable  bool
	Status      string
}

// OpportunitiesComponent renders the opportunities list.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	maxRows int
	offset  int
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0),
		maxRows: maxRows,
	}
}

// Add adds a new opportunity to the top of the list.
func (o *OpportunitiesComponent) Add(row OpportunityRow) {
	o.rows = append([]OpportunityRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}
}

// Clear clears all opportunities.
func (o *OpportunitiesComponent) Clear() {
	o.rows = make([]OpportunityRow, 0)
	o.offset = 0
}

// ScrollUp moves the view window up.
func (o *OpportunitiesComponent) ScrollUp() {
	if o.offset > 0 {
		o.offset--
	}
}

// ScrollDown moves the view window down.
func (o *OpportunitiesComponent) ScrollDown() {
	if o.offset < len(o.rows)-1 {
		o.offset++
	}
}

// View renders the opportunities component.
func (o *OpportunitiesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	profitableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	unprofitableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	if len(o.rows) == 0 {
		return headerStyle.Render("OPPORTUNITIES") + "\n\nNo opportunities detected yet..."
	}

	result := headerStyle.Render("OPPORTUNITIES\n")
	result += "┌──────────┬─────────┬─────────────┬────────────────────────┬─────────┬──────────┬────────────┐\n"
	result += "│   Time   │  Block  │    Pair     │         Route          │ Spread  │   Net    │   Status   │\n"
	result += "├──────────┼─────────┼─────────────┼────────────────────────┼─────────┼──────────┼────────────┤\n"

	visible := o.rows[o.offset:]
	if len(visible) > 10 {
		visible = visible[:10]
	}

	for _, row := range visible {
		statusStyle := profitableStyle
		if !row.Profitable {
			statusStyle = unprofitableStyle
		}

		route := fmt.Sprintf("%s -> %s", row.SellVenue, row.BuyVenue)

		result += fmt.Sprintf("│ %-8s │%8d │ %-11s │ %-22s │%7s%% │%9s │ %s│\n",
			row.Timestamp,
			row.BlockNumber,
			row.Pair,
			route,
			row.SpreadPct.StringFixed(3),
			"$"+row.NetProfit.StringFixed(2),
			statusStyle.Render(fmt.Sprintf("%-11s", row.Status)),
		)
	}

	result += "└──────────┴─────────┴─────────────┴────────────────────────┴─────────┴──────────┴────────────┘"

	return result
}
