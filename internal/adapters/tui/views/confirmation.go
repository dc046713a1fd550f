package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"sentinel/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmAckModel asks before acknowledging every collision involving a node
type ConfirmAckModel struct {
	ViewState
	Label string
	Path  string
	Keys  ConfirmKeyMap
}

// NewConfirmAckModel creates a new confirmation model with default keys
func NewConfirmAckModel() *ConfirmAckModel {
	return &ConfirmAckModel{Keys: DefaultConfirmKeys}
}

// SetTarget sets the node label and the collision it came from
func (m *ConfirmAckModel) SetTarget(label, path string) {
	m.Label = label
	m.Path = path
}

func (m *ConfirmAckModel) Init() tea.Cmd {
	return nil
}

// Update handles y and n
func (m *ConfirmAckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Cancel):
		return m, func() tea.Msg { return SwitchToReviewMsg{} }
	case key.Matches(keyMsg, m.Keys.Confirm):
		label, path := m.Label, m.Path
		return m, func() tea.Msg { return AckConfirmedMsg{Label: label, Path: path} }
	}
	return m, nil
}

// View renders the prompt
func (m *ConfirmAckModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Acknowledge"))
	b.WriteString("\n")
	b.WriteString(styles.InputLabel.Render("Node: "))
	b.WriteString(m.Label)
	b.WriteString("\n")
	if m.Path != "" {
		b.WriteString(styles.MutedText.Render(m.Path))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderConfirmPrompt("Hide every collision involving " + m.Label + "?"))
	return styles.App.Render(b.String())
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
