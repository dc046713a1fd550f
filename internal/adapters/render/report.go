// Package render writes collision reports and graphs as styled text, JSON or HTML
package render

import (
	"fmt"
	"io"
	"time"

	"sentinel/internal/collision"
	"sentinel/internal/domain"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Report is everything a collision report shows
type Report struct {
	Collisions            []domain.ScoredCollision
	MinConfidence         float64
	Triggers              int
	RelationshipsAnalyzed int
	HiddenLowConfidence   int
	HiddenAcknowledged    int
	GeneratedAt           time.Time
}

// NewReport collects a detection result for rendering
func NewReport(res *collision.Result, minConfidence float64) Report {
	return Report{
		Collisions:            res.Collisions(),
		MinConfidence:         minConfidence,
		Triggers:              res.Triggers,
		RelationshipsAnalyzed: res.RelationshipsAnalyzed,
		HiddenLowConfidence:   res.HiddenLowConfidence,
		HiddenAcknowledged:    res.HiddenAcknowledged,
		GeneratedAt:           time.Now(),
	}
}

// Write renders r in the given format
func Write(w io.Writer, format string, r Report, verbose bool) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r, verbose)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatHTML:
		return WriteHTML(w, r)
	default:
		return fmt.Errorf("unknown format %q (expected text, json or html)", format)
	}
}

// Temporal describes when trigger and impact happen, from their "day" metadata.
// It is empty when neither node carries a day.
func Temporal(c domain.ScoredCollision) string {
	from := c.Trigger().Metadata["day"]
	to := c.Impact().Metadata["day"]
	switch {
	case from != "" && to != "" && from != to:
		return fmt.Sprintf("%s -> %s", from, to)
	case from != "":
		return from
	default:
		return to
	}
}

// Why summarises the rationale in one line
func Why(c domain.ScoredCollision) string {
	r := c.Rationale
	s := fmt.Sprintf("%d hop(s), %d stated and %d inferred relationship(s)", r.Hops, r.UserStatedEdges, r.InferredEdges)
	if r.TriggerDomain != "" && r.ImpactDomain != "" {
		s += fmt.Sprintf(", %s -> %s", r.TriggerDomain, r.ImpactDomain)
		if r.CrossDomain {
			s += " (cross-domain)"
		}
	}
	return s
}

// EmptyState is the message shown when no collision is reported
func EmptyState(r Report) string {
	msg := fmt.Sprintf("No energy collisions detected. Analyzed %d relationship(s).", r.RelationshipsAnalyzed)
	if r.HiddenLowConfidence > 0 {
		msg += fmt.Sprintf(" %d below confidence %.2f hidden (use -v to show).", r.HiddenLowConfidence, r.MinConfidence)
	}
	if r.HiddenAcknowledged > 0 {
		msg += fmt.Sprintf(" %d acknowledged hidden (use --show-acked).", r.HiddenAcknowledged)
	}
	return msg
}
