package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"sentinel/internal/adapters/render"
	"sentinel/internal/adapters/tui/styles"
	"sentinel/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders key bindings separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a status message, red for errors
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderDetail renders the full card of a collision, every edge listed,
// wrapped to fit width
func RenderDetail(c domain.ScoredCollision, width int) string {
	var b strings.Builder
	b.WriteString(styles.Level(c.Level()))
	b.WriteString(fmt.Sprintf(" %.2f\n", c.Confidence))
	b.WriteString(render.Path(c))
	if when := render.Temporal(c); when != "" {
		b.WriteString("\n" + styles.InputLabel.Render("When: ") + when)
	}
	b.WriteString("\n" + styles.InputLabel.Render("Why: ") + render.Why(c))
	for _, step := range c.Path[1:] {
		e := step.Via
		b.WriteString("\n" + styles.MutedText.Render(fmt.Sprintf("  %s %s %s  %.2f %s", e.SourceID, e.Relation, e.TargetID, e.Confidence, e.Origin)))
	}

	style := styles.CardSelected
	if width > 8 {
		style = style.Width(min(width-6, 100))
	}
	return style.Render(b.String())
}
