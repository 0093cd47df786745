package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/flashloan-scanner/pkg/ui/components"
)

// ConnectionInfo holds connection state.
type ConnectionInfo struct {
	Connected bool
	LastSeen  time.Time
}

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Loading/connecting
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	keys          KeyMap
	quotes        *components.QuotesComponent
	opportunities *components.OpportunitiesComponent
	stats         *components.StatsComponent
	risk          *components.RiskComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready           bool
	quitting        bool
	paused          bool // Pause display updates
	width           int
	height          int
	currentBlock    uint64
	gasPrice        float64
	connectionState map[string]*ConnectionInfo
	lastUpdate      time.Time
	errors          []ErrorEntry // Persistent error panel (last 3)
	logs            []string     // Recent log messages
	activityFeed    []string     // Recent activity messages

	// Startup state
	startupComplete bool
	startupSteps    map[string]*StartupStep
	startupTime     time.Time
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		keys:          DefaultKeyMap(),
		quotes:        components.NewQuotesComponent(),
		opportunities: components.NewOpportunitiesComponent(50),
		stats:         components.NewStatsComponent(),
		risk:          components.NewRiskComponent(),
		phase:         PhaseWelcome,
		welcomeStart:  now,
		connectionState: map[string]*ConnectionInfo{
			"chain": {Connected: false},
		},
		logs:         make([]string, 0, 10),
		errors:       make([]ErrorEntry, 0, 3),
		activityFeed: make([]string, 0, 8),
		startupSteps: map[string]*StartupStep{
			"config": {Name: "Loading configuration", Status: "pending"},
			"chain":  {Name: "Connecting to Polygon", Status: "pending"},
			"venues": {Name: "Initializing venues", Status: "pending"},
			"risk":   {Name: "Arming risk engine", Status: "pending"},
		},
		startupTime: now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to startup
		if m.phase == PhaseWelcome {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
			return m, tickCmd()
		}
		// Normal key handling
		switch {
		case key.Matches(msg, m.keys.Clear):
			m.opportunities.Clear()
			return m, nil
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		case key.Matches(msg, m.keys.ScrollUp):
			m.opportunities.ScrollUp()
			return m, nil
		case key.Matches(msg, m.keys.ScrollDown):
			m.opportunities.ScrollDown()
			return m, nil
		case key.Matches(msg, m.keys.ClearErrors):
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		// Check if welcome timeout has elapsed
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			if OnStartModules != nil {
				go OnStartModules()
			}
		}
		return m, tickCmd()

	case OpportunityMsg:
		if msg.Opportunity != nil && !m.paused {
			opp := msg.Opportunity

			status := "detected"
			if opp.IsProfitable() {
				status = "PROFITABLE"
			}

			m.opportunities.Add(components.OpportunityRow{
				Timestamp:   opp.DetectedAt.Format("15:04:05"),
				BlockNumber: opp.BlockNumber,
				Pair:        opp.Pair.String(),
				Size:        opp.AmountIn.StringFixed(2),
				SellVenue:   opp.SellVenue,
				BuyVenue:    opp.BuyVenue,
				SpreadPct:   opp.Spread.Percent,
				NetProfit:   opp.Profit.NetProfit,
				Profitable:  opp.IsProfitable(),
				Status:      status,
			})
			m.lastUpdate = time.Now()

			activity := fmt.Sprintf("%s: sell %s, buy %s, net $%s",
				opp.Pair.String(), opp.SellVenue, opp.BuyVenue,
				opp.Profit.NetProfit.StringFixed(2))
			m.activityFeed = addActivity(m.activityFeed, activity)
		}

	case QuotesMsg:
		if len(msg.Quotes) > 0 && !m.paused {
			first := msg.Quotes[0]
			m.quotes.SetPair(first.TokenIn.Symbol() + "-" + first.TokenOut.Symbol())

			rows := make([]components.QuoteRow, 0, len(msg.Quotes))
			for _, q := range msg.Quotes {
				rows = append(rows, components.QuoteRow{
					Venue: q.Venue,
					Price: q.Rate(),
					Size:  q.AmountIn.ToDecimal().StringFixed(0),
					AgeMs: q.Age().Milliseconds(),
				})
			}
			m.quotes.Update(rows)
			m.lastUpdate = time.Now()

			// First quotes mean venues and chain are live.
			for _, key := range []string{"config", "chain", "venues"} {
				if step, ok := m.startupSteps[key]; ok {
					step.Status = "done"
				}
			}
		}

	case StatusMsg:
		m.stats.Update(components.Stats{
			Cycles:        msg.Status.Cycles,
			Opportunities: msg.Status.Opportunities,
			Executed:      msg.Status.Executed,
			Interval:      msg.Status.Interval,
			LastCycleMs:   msg.Status.LastCycleDuration.Milliseconds(),
		})
		m.lastUpdate = time.Now()

	case RiskStatusMsg:
		m.risk.Update(components.RiskPanel{
			TradingPaused:       msg.Status.TradingPaused,
			PauseReason:         msg.Status.PauseReason,
			CircuitOpen:         msg.Status.CircuitOpen,
			ConsecutiveFailures: msg.Status.ConsecutiveFailures,
			DailyVolumeUSD:      msg.Status.DailyVolumeUSD,
			DailyVolumeLimitUSD: msg.Status.DailyVolumeLimitUSD,
			TradesToday:         msg.Status.TradesToday,
			LastTradeAt:         msg.Status.LastTradeAt,
		})
		if step, ok := m.startupSteps["risk"]; ok {
			step.Status = "done"
		}
		m.lastUpdate = time.Now()

	case ConnectionStatusMsg:
		m.connectionState[msg.Name] = &ConnectionInfo{
			Connected: msg.Connected,
			LastSeen:  time.Now(),
		}
		if step, ok := m.startupSteps[msg.Name]; ok {
			if msg.Connected {
				step.Status = "connected"
			} else {
				step.Status = "connecting"
			}
		}
		m.lastUpdate = time.Now()

	case BlockMsg:
		m.currentBlock = msg.Number
		m.lastUpdate = time.Now()
		m.activityFeed = addActivity(m.activityFeed, fmt.Sprintf("Block #%d", msg.Number))

	case GasPriceMsg:
		m.gasPrice = msg.GweiPrice
		m.quotes.SetGas(msg.GweiPrice)
		m.lastUpdate = time.Now()

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		allDone := true
		for _, step := range m.startupSteps {
			if step.Status != "connected" && step.Status != "done" {
				allDone = false
				break
			}
		}
		if allDone {
			m.startupComplete = true
		}
	}

	return m, nil
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// addActivity adds an activity message and returns the updated slice (keeps last 6).
func addActivity(feed []string, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	line := fmt.Sprintf("[%s] %s", timestamp, message)
	feed = append(feed, line)
	if len(feed) > 6 {
		feed = feed[len(feed)-6:]
	}
	return feed
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		// Show startup until the scanner produces data
		if m.currentBlock == 0 && !m.startupComplete {
			return m.renderStartupScreen()
		}
		m.phase = PhaseDashboard
		fallthrough
	case PhaseDashboard:
		// Continue to main dashboard
	}

	var b strings.Builder

	title := TitleStyle.Render(" ⚡ Flashloan Arbitrage Scanner ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	// Main content: quotes + risk on left, activity + opportunities on right
	var leftContent strings.Builder
	leftContent.WriteString(m.quotes.View())
	leftContent.WriteString("\n\n")
	leftContent.WriteString(m.risk.View())
	leftCol := leftContent.String()

	var rightContent strings.Builder
	rightContent.WriteString(m.renderActivityFeed())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.opportunities.View())
	rightCol := rightContent.String()

	if m.width > 100 {
		left := BoxStyle.Width(m.width/2 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n\n")

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "q: quit • c: clear • p: pause • ↑↓: scroll"
	if m.paused {
		pauseStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
		b.WriteString(pauseStyle.Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderActivityFeed renders the recent activity feed.
func (m Model) renderActivityFeed() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	blockStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("LIVE ACTIVITY"))
	sb.WriteString("\n\n")

	if len(m.activityFeed) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for the first scan cycle..."))
	} else {
		for _, activity := range m.activityFeed {
			if strings.Contains(activity, "Block #") {
				sb.WriteString(blockStyle.Render("  " + activity))
			} else {
				sb.WriteString(mutedStyle.Render("  " + activity))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))

	goldStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F59E0B"))

	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	greenStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	// Animated dots based on time
	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder

	sb.WriteString("\n\n\n\n")

	logo := `
   ███████╗██╗      █████╗ ███████╗██╗  ██╗
   ██╔════╝██║     ██╔══██╗██╔════╝██║  ██║
   █████╗  ██║     ███████║███████╗███████║
   ██╔══╝  ██║     ██╔══██║╚════██║██╔══██║
   ██║     ███████╗██║  ██║███████║██║  ██║
   ╚═╝     ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	subtitle := "        A R B I T R A G E   S C A N N E R"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	tagline := "       ⚡  Borrow, swap, repay, profit  ⚡"
	sb.WriteString(goldStyle.Render(tagline))
	sb.WriteString("\n\n\n")

	loading := fmt.Sprintf("            Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	hint := "      Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF"))

	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	connectingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  ⚡ Flashloan Arbitrage Scanner"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	stepOrder := []string{"config", "chain", "venues", "risk"}
	for _, key := range stepOrder {
		step, ok := m.startupSteps[key]
		if !ok {
			continue
		}

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "connected", "done":
			icon = "✓"
			statusText = "Ready"
			style = successStyle
		case "connecting":
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon = spinners[idx]
			statusText = "Connecting..."
			style = connectingStyle
		case "failed":
			icon = "✗"
			statusText = "Failed"
			style = failedStyle
		default:
			icon = "○"
			statusText = "Pending"
			style = mutedStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			mutedStyle.Render(step.Name),
			style.Render(statusText),
		))
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n\n")

	sb.WriteString(mutedStyle.Render("  Waiting for the first scan cycle..."))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	// Scanning indicator (animated when recently updated)
	if time.Since(m.lastUpdate) < 500*time.Millisecond {
		spinners := []string{"⟳", "◐", "◓", "◑", "◒"}
		idx := int(time.Now().UnixMilli()/100) % len(spinners)
		scanningStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
		parts = append(parts, scanningStyle.Render(spinners[idx]+" Scanning"))
	}

	parts = append(parts, fmt.Sprintf("Block: #%d", m.currentBlock))

	if m.gasPrice > 0 {
		parts = append(parts, fmt.Sprintf("Gas: %.1f gwei", m.gasPrice))
	}

	for name, info := range m.connectionState {
		var statusStyle lipgloss.Style
		var icon string
		status := name
		if info != nil && info.Connected {
			statusStyle = StatusConnected
			icon = "●"
		} else {
			statusStyle = StatusDisconnected
			icon = "○"
			status = name + " (disconnected)"
		}
		parts = append(parts, statusStyle.Render(icon+" "+status))
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		indicator := ""
		if ago < 2*time.Second {
			indicator = "▪"
		}
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago %s", ago, indicator)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules
// should start. Set by main before running the program.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
