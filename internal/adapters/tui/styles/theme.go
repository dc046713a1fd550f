package styles

import (
	"github.com/charmbracelet/lipgloss"

	"sentinel/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Node kind colors
	KindPerson   = lipgloss.Color("#EC4899") // Pink
	KindActivity = lipgloss.Color("#60A5FA") // Blue
	KindState    = lipgloss.Color("#F97316") // Orange
	KindTime     = lipgloss.Color("#6366F1") // Indigo

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Collision cards
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	CardSelected = Card.
			BorderForeground(Primary)

	Relation = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	NodeName = lipgloss.NewStyle().
			Bold(true)

	Acknowledged = lipgloss.NewStyle().
			Foreground(Muted).
			Strikethrough(true)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Padding(0, 1).
			MarginRight(1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(Warning)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// LevelColor returns the color for a confidence level
func LevelColor(level domain.ConfidenceLevel) lipgloss.Color {
	switch level {
	case domain.LevelHigh:
		return Error
	case domain.LevelMedium:
		return Warning
	default:
		return Muted
	}
}

// Level renders a confidence level badge such as [HIGH]
func Level(level domain.ConfidenceLevel) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(LevelColor(level)).
		Render("[" + string(level) + "]")
}

// KindColor returns the color used for nodes of a kind
func KindColor(kind domain.Kind) lipgloss.Color {
	switch kind {
	case domain.KindPerson:
		return KindPerson
	case domain.KindActivity:
		return KindActivity
	case domain.KindEnergyState:
		return KindState
	case domain.KindTimeSlot:
		return KindTime
	default:
		return White
	}
}

// Node renders a node name in its kind color
func Node(n domain.Node) string {
	return NodeName.Foreground(KindColor(n.Kind)).Render(n.Name)
}
