// Package mockengine is a deterministic extractor that reads sentences such as
// "Aunt Susan drains emotional energy" without calling a language model.
package mockengine

import (
	"context"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"sentinel/internal/domain"
	"sentinel/internal/ports"
)

// verbs are matched case-insensitively on word boundaries. Longer phrases come
// first so "is scheduled at" wins over "scheduled at".
var verbs = []string{
	"is scheduled at", "is scheduled for", "scheduled at", "scheduled for",
	"conflicts with", "clashes with", "interferes with",
	"belongs to", "is part of", "leads to", "comes before",
	"drains", "exhausts", "depletes", "tires",
	"energizes", "recharges", "restores",
	"requires", "needs", "demands",
	"precedes", "involves", "includes", "occurs at", "happens at",
}

var (
	verbRe       = buildVerbRe()
	dayRe        = regexp.MustCompile(`(?i)^(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\s*:\s*`)
	confidenceRe = regexp.MustCompile(`\s*@\s*([01](?:\.\d+)?)\s*$`)
	kindRe       = regexp.MustCompile(`\s*\[([a-zA-Z _-]+)\]\s*$`)
	clauseSplit  = regexp.MustCompile(`;|\.(?:\s|$)`)
)

func buildVerbRe() *regexp.Regexp {
	quoted := make([]string, len(verbs))
	for i, v := range verbs {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

var stateWords = []string{"energy", "focus", "focused", "drained", "tired", "exhausted", "alert", "rested", "stressed", "energized", "calm", "sharp"}

var slotWords = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "morning", "afternoon", "evening", "night"}

// Engine implements ports.Extractor with fixed sentence rules
type Engine struct{}

var _ ports.Extractor = (*Engine)(nil)

// New returns a mock engine
func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return "mock" }

// Extract reads one relationship per clause. A clause may start with a weekday
// ("Sunday: ..."), name a kind after a node ("Aunt Susan [person]") and end with
// a confidence ("@0.8"). Clauses without a known verb are skipped.
func (e *Engine) Extract(ctx context.Context, text string) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &domain.Extraction{}
	seen := make(map[string]int)
	addNode := func(raw, day string) string {
		name, kind := splitKind(raw)
		if name == "" {
			return ""
		}
		key := strings.ToLower(name)
		if i, ok := seen[key]; ok {
			if out.Nodes[i].Kind == "" {
				out.Nodes[i].Kind = kind
			}
			return name
		}
		if kind == "" {
			kind = guessKind(name)
		}
		n := domain.ExtractedNode{Name: name, Kind: kind}
		if day != "" && kind != string(domain.KindEnergyState) && kind != string(domain.KindTimeSlot) {
			n.Metadata = map[string]string{"day": day}
		}
		seen[key] = len(out.Nodes)
		out.Nodes = append(out.Nodes, n)
		return name
	}

	for _, line := range strings.Split(text, "\n") {
		day := ""
		if m := dayRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			day = strings.ToLower(m[1])
			line = strings.TrimSpace(line)[len(m[0]):]
		}
		for _, clause := range clauseSplit.Split(line, -1) {
			clause = strings.TrimSpace(clause)
			loc := verbRe.FindStringSubmatchIndex(clause)
			if loc == nil {
				continue
			}
			source := strings.TrimSpace(clause[:loc[0]])
			verb := strings.ToLower(clause[loc[2]:loc[3]])
			target := strings.TrimSpace(clause[loc[1]:])

			var conf *float64
			if m := confidenceRe.FindStringSubmatchIndex(target); m != nil {
				if v, err := strconv.ParseFloat(target[m[2]:m[3]], 64); err == nil {
					conf = &v
				}
				target = strings.TrimSpace(target[:m[0]])
			}

			src := addNode(source, day)
			dst := addNode(target, day)
			if src == "" || dst == "" {
				continue
			}
			out.Edges = append(out.Edges, domain.ExtractedEdge{
				Source:     src,
				Target:     dst,
				Relation:   verb,
				Confidence: conf,
			})
		}
	}
	return out, nil
}

func splitKind(raw string) (name, kind string) {
	raw = strings.Trim(strings.TrimSpace(raw), ",:")
	if m := kindRe.FindStringSubmatchIndex(raw); m != nil {
		kind = string(domain.ParseKind(raw[m[2]:m[3]]))
		raw = strings.TrimSpace(raw[:m[0]])
	}
	return raw, kind
}

func guessKind(name string) string {
	words := strings.Fields(strings.ToLower(name))
	switch {
	case len(words) == 0:
		return ""
	case slices.ContainsFunc(words, func(w string) bool { return slices.Contains(slotWords, w) }):
		return string(domain.KindTimeSlot)
	case slices.ContainsFunc(words, func(w string) bool { return slices.Contains(stateWords, w) }):
		return string(domain.KindEnergyState)
	default:
		return ""
	}
}
