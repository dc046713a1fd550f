package render

import (
	"fmt"
	"io"
	"strings"

	"sentinel/internal/adapters/tui/styles"
	"sentinel/internal/domain"
)

// WriteText renders r as lipgloss collision cards
func WriteText(w io.Writer, r Report, verbose bool) error {
	if len(r.Collisions) == 0 {
		_, err := fmt.Fprintln(w, styles.Success.Render(EmptyState(r)))
		return err
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(fmt.Sprintf("%d energy collision(s)", len(r.Collisions))))
	b.WriteString("\n")
	for i, c := range r.Collisions {
		b.WriteString(Card(i+1, c, verbose))
		b.WriteString("\n")
	}

	var hidden []string
	if r.HiddenLowConfidence > 0 {
		hidden = append(hidden, fmt.Sprintf("%d below %.2f", r.HiddenLowConfidence, r.MinConfidence))
	}
	if r.HiddenAcknowledged > 0 {
		hidden = append(hidden, fmt.Sprintf("%d acknowledged", r.HiddenAcknowledged))
	}
	footer := fmt.Sprintf("Analyzed %d relationship(s) from %d trigger(s).", r.RelationshipsAnalyzed, r.Triggers)
	if len(hidden) > 0 {
		footer += " Hidden: " + strings.Join(hidden, ", ") + "."
	}
	b.WriteString(styles.MutedText.Render(footer))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Card renders one collision. Verbose cards list every edge with its confidence.
func Card(n int, c domain.ScoredCollision, verbose bool) string {
	var b strings.Builder
	header := fmt.Sprintf("#%d %s %.2f", n, styles.Level(c.Level()), c.Confidence)
	if c.Acknowledged {
		header += " " + styles.MutedText.Render("(acknowledged)")
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(Path(c))
	if when := Temporal(c); when != "" {
		b.WriteString("\n")
		b.WriteString(styles.InputLabel.Render("When: "))
		b.WriteString(when)
	}
	b.WriteString("\n")
	b.WriteString(styles.InputLabel.Render("Why: "))
	b.WriteString(Why(c))

	if verbose {
		for _, step := range c.Path[1:] {
			e := step.Via
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("  %s %s %s  %.2f %s (%s, raw %q)",
				e.SourceID, e.Relation, e.TargetID, e.Confidence, e.Origin, e.Tier, e.RawRelation)))
		}
	}

	style := styles.Card.BorderForeground(styles.LevelColor(c.Level()))
	if c.Acknowledged {
		style = style.BorderForeground(styles.Muted)
	}
	return style.Render(b.String())
}

// Path renders the collision chain with styled node names
func Path(c domain.ScoredCollision) string {
	var parts []string
	for i, step := range c.Path {
		if i > 0 {
			arrow := "->"
			if step.Reversed {
				arrow = "<-"
			}
			parts = append(parts, arrow, styles.Relation.Render(step.Via.Relation.Display()), arrow)
		}
		parts = append(parts, styles.Node(step.Node))
	}
	return strings.Join(parts, " ")
}

// WriteGraphText lists nodes and edges. focus, when set, is highlighted.
func WriteGraphText(w io.Writer, g *domain.Graph, focus *domain.Node, depth int) error {
	var b strings.Builder
	title := fmt.Sprintf("Graph: %d node(s), %d relationship(s)", g.NodeCount(), g.EdgeCount())
	if focus != nil {
		title = fmt.Sprintf("Neighborhood of %s (depth %d): %d node(s), %d relationship(s)",
			focus.Name, depth, g.NodeCount(), g.EdgeCount())
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Nodes"))
	b.WriteString("\n")
	for _, n := range g.Nodes() {
		marker := "  "
		if focus != nil && n.ID == focus.ID {
			marker = "* "
		}
		line := marker + styles.Node(*n)
		var tags []string
		if n.Kind != domain.KindUnknown {
			tags = append(tags, string(n.Kind))
		}
		if n.Category != "" {
			tags = append(tags, n.Category)
		}
		tags = append(tags, string(n.Origin))
		line += " " + styles.MutedText.Render("("+strings.Join(tags, ", ")+")")
		if len(n.Aliases) > 0 {
			line += " " + styles.MutedText.Render("aka "+strings.Join(n.Aliases, ", "))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if g.EdgeCount() > 0 {
		b.WriteString("\n")
		b.WriteString(styles.InputLabel.Render("Relationships"))
		b.WriteString("\n")
	}
	for _, e := range g.Edges() {
		src, _ := g.Node(e.SourceID)
		dst, _ := g.Node(e.TargetID)
		b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			styles.Node(*src),
			styles.Relation.Render(e.Relation.Display()),
			styles.Node(*dst),
			styles.MutedText.Render(fmt.Sprintf("%.2f %s", e.Confidence, e.Origin))))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Correction renders one ledger entry on a line. missing lists node ids the
// entry refers to that are no longer in the graph.
func Correction(rec domain.CorrectionRecord, missing []string) string {
	line := fmt.Sprintf("%s  %s  %s", rec.Timestamp.Format("2006-01-02 15:04"), rec.Action, rec.Target)
	if rec.Prior.NewRelation != "" && len(rec.Prior.Edges) > 0 {
		line += fmt.Sprintf(" (%s -> %s)", rec.Prior.Edges[0].Relation, rec.Prior.NewRelation)
	}
	if rec.Reason != "" {
		line += fmt.Sprintf("  %q", rec.Reason)
	}
	for _, id := range missing {
		line += fmt.Sprintf("  [%s: node no longer exists]", id)
	}
	return line
}
