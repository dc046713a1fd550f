package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"sentinel/internal/adapters/tui/views"
)

// ViewState represents the current view
type ViewState int

const (
	ViewReview ViewState = iota
	ViewConfirm
	ViewHelp
)

// AckFunc records an acknowledgment and returns the message to show
type AckFunc func(label, path string) (string, error)

// App is the main TUI application model
type App struct {
	ack AckFunc

	state   ViewState
	review  *views.ReviewModel
	confirm *views.ConfirmAckModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(load views.LoadFunc, ack AckFunc) *App {
	return &App{
		ack:     ack,
		state:   ViewReview,
		review:  views.NewReviewModel(load),
		confirm: views.NewConfirmAckModel(),
		help:    views.NewHelpModel(),
	}
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.review.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.review.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToReviewMsg:
		a.state = ViewReview
		return a, nil

	case views.AckRequestMsg:
		a.state = ViewConfirm
		a.confirm.SetTarget(msg.Label, msg.Path)
		return a, nil

	case views.AckConfirmedMsg:
		a.state = ViewReview
		return a, a.acknowledge(msg.Label, msg.Path)

	case views.AckDoneMsg:
		if msg.Err != nil {
			a.review.SetMessage(msg.Err.Error(), true)
			return a, nil
		}
		a.review.SetMessage(msg.Message, false)
		return a, a.review.Reload()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewReview:
		_, cmd = a.review.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func (a *App) acknowledge(label, path string) tea.Cmd {
	ack := a.ack
	return func() tea.Msg {
		message, err := ack(label, path)
		return views.AckDoneMsg{Message: message, Err: err}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewConfirm:
		return a.confirm.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.review.View()
	}
}
