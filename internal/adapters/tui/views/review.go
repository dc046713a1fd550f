package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"sentinel/internal/adapters/tui/styles"
	"sentinel/internal/domain"
)

// ReviewKeyMap defines key bindings for the review view
type ReviewKeyMap struct {
	Details   key.Binding
	AckSource key.Binding
	AckImpact key.Binding
	ShowAcked key.Binding
	Reload    key.Binding
	Help      key.Binding
}

var ReviewKeys = ReviewKeyMap{
	Details: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	AckSource: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "ack trigger"),
	),
	AckImpact: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "ack impact"),
	),
	ShowAcked: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "show acked"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// collisionItem adapts a collision to the list
type collisionItem struct {
	c domain.ScoredCollision
}

func (i collisionItem) Title() string {
	title := fmt.Sprintf("%s %.2f  %s -> %s", styles.Level(i.c.Level()), i.c.Confidence, i.c.Trigger().Name, i.c.Impact().Name)
	if i.c.Acknowledged {
		title += " " + styles.MutedText.Render("(acknowledged)")
	}
	return title
}

func (i collisionItem) Description() string {
	return i.c.Summary()
}

func (i collisionItem) FilterValue() string {
	return i.c.Trigger().Name + " " + i.c.Impact().Name
}

// LoadFunc runs detection; includeAcked keeps acknowledged collisions
type LoadFunc func(includeAcked bool) ([]domain.ScoredCollision, error)

// ReviewModel lists collisions and lets the user acknowledge them
type ReviewModel struct {
	ViewState
	load      LoadFunc
	list      list.Model
	showAcked bool
	detail    bool
	loaded    bool
}

// NewReviewModel creates a new review model
func NewReviewModel(load LoadFunc) *ReviewModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Energy collisions"
	l.Styles.Title = styles.Title
	l.SetStatusBarItemName("collision", "collisions")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{ReviewKeys.Details, ReviewKeys.AckSource, ReviewKeys.AckImpact}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{ReviewKeys.ShowAcked, ReviewKeys.Reload, ReviewKeys.Help}
	}
	return &ReviewModel{load: load, list: l}
}

// Init loads the collisions
func (m *ReviewModel) Init() tea.Cmd {
	return m.Reload()
}

// Reload re-runs detection
func (m *ReviewModel) Reload() tea.Cmd {
	load, includeAcked := m.load, m.showAcked
	return func() tea.Msg {
		collisions, err := load(includeAcked)
		return CollisionsLoadedMsg{Collisions: collisions, Err: err}
	}
}

// SetSize updates the list dimensions
func (m *ReviewModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.list.SetSize(width, max(height-2, 0))
}

// Selected returns the highlighted collision
func (m *ReviewModel) Selected() (domain.ScoredCollision, bool) {
	item, ok := m.list.SelectedItem().(collisionItem)
	if !ok {
		return domain.ScoredCollision{}, false
	}
	return item.c, true
}

// Len returns the number of listed collisions
func (m *ReviewModel) Len() int {
	return len(m.list.Items())
}

// Update handles messages for the review view
func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CollisionsLoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			m.SetMessage(msg.Err.Error(), true)
			return m, nil
		}
		items := make([]list.Item, len(msg.Collisions))
		for i, c := range msg.Collisions {
			items[i] = collisionItem{c: c}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.list.SettingFilter() {
			break
		}
		switch {
		case key.Matches(msg, ReviewKeys.Details):
			m.detail = !m.detail
			return m, nil
		case key.Matches(msg, ReviewKeys.AckSource), key.Matches(msg, ReviewKeys.AckImpact):
			c, ok := m.Selected()
			if !ok {
				return m, nil
			}
			label := c.Trigger().Name
			if key.Matches(msg, ReviewKeys.AckImpact) {
				label = c.Impact().Name
			}
			summary := c.Summary()
			return m, func() tea.Msg { return AckRequestMsg{Label: label, Path: summary} }
		case key.Matches(msg, ReviewKeys.ShowAcked):
			m.showAcked = !m.showAcked
			return m, m.Reload()
		case key.Matches(msg, ReviewKeys.Reload):
			return m, m.Reload()
		case key.Matches(msg, ReviewKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the review view
func (m *ReviewModel) View() string {
	if !m.loaded {
		return styles.App.Render(styles.MutedText.Render("Detecting collisions..."))
	}

	var b strings.Builder
	if m.Len() == 0 && m.list.FilterState() == list.Unfiltered {
		b.WriteString(styles.Title.Render("Energy collisions"))
		b.WriteString("\n")
		b.WriteString(styles.Success.Render("No energy collisions detected."))
		b.WriteString("\n\n")
		b.WriteString(RenderHelpLine(ReviewKeys.ShowAcked, ReviewKeys.Reload, ReviewKeys.Help))
	} else if c, ok := m.Selected(); ok && m.detail {
		b.WriteString(RenderDetail(c, m.Width))
		b.WriteString("\n\n")
		b.WriteString(RenderHelpLine(ReviewKeys.Details, ReviewKeys.AckSource, ReviewKeys.AckImpact))
	} else {
		b.WriteString(m.list.View())
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}
	return b.String()
}
