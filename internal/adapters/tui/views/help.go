package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"sentinel/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, func() tea.Msg { return SwitchToReviewMsg{} }
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("sentinel review"))
	b.WriteString("\n\n")
	b.WriteString(styles.Subtitle.Render("Energy collisions, strongest first"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("/", "Filter by node name"))
	b.WriteString(helpLine("Enter", "Show or hide details"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Actions"))
	b.WriteString("\n")
	b.WriteString(helpLine("a", "Acknowledge the trigger"))
	b.WriteString(helpLine("i", "Acknowledge the impacted activity"))
	b.WriteString(helpLine("s", "Show or hide acknowledged collisions"))
	b.WriteString(helpLine("r", "Re-run detection"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Confidence"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  HIGH   : 0.80 and above"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  MEDIUM : 0.50 to 0.79"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  LOW    : below 0.50"))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
