package matching

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

const (
	DefaultMinScore        = 0.70
	DefaultAmbiguityWindow = 0.10
	DefaultSuggestionLimit = 5
)

// Candidate is something a query may resolve to
type Candidate struct {
	ID     string
	Labels []string // display name first
	Seq    int      // insertion order, breaks ties
}

// Match is a scored candidate
type Match struct {
	ID    string
	Label string // label that scored best
	Score float64
	Seq   int
}

// Status is the outcome of a lookup
type Status int

const (
	StatusNotFound Status = iota
	StatusResolved
	StatusAmbiguous
)

// Resolution is the result of resolving a query against candidates
type Resolution struct {
	Status     Status
	Match      Match   // set when resolved
	Candidates []Match // every plausible match, best first
}

// Resolver resolves free-text references
type Resolver struct {
	Scorer          Scorer
	MinScore        float64
	AmbiguityWindow float64
}

// NewResolver returns a Resolver with the default thresholds
func NewResolver(scorer Scorer) Resolver {
	return Resolver{
		Scorer:          scorer,
		MinScore:        DefaultMinScore,
		AmbiguityWindow: DefaultAmbiguityWindow,
	}
}

// Resolve matches query against the candidates. An exact, case-insensitive hit on an id,
// name or alias wins outright. Otherwise the best candidate at or above MinScore is
// chosen, unless another candidate scores within AmbiguityWindow of it.
func (r Resolver) Resolve(query string, candidates []Candidate) Resolution {
	q := strings.TrimSpace(query)
	var exact []Match
	for _, c := range candidates {
		if strings.EqualFold(c.ID, q) {
			exact = append(exact, Match{ID: c.ID, Label: c.ID, Score: 1, Seq: c.Seq})
			continue
		}
		for _, label := range c.Labels {
			if strings.EqualFold(label, q) {
				exact = append(exact, Match{ID: c.ID, Label: label, Score: 1, Seq: c.Seq})
				break
			}
		}
	}
	switch len(exact) {
	case 0:
	case 1:
		return Resolution{Status: StatusResolved, Match: exact[0], Candidates: exact}
	default:
		sortMatches(exact)
		return Resolution{Status: StatusAmbiguous, Candidates: exact}
	}

	var scored []Match
	for _, c := range candidates {
		best := Match{ID: c.ID, Seq: c.Seq, Score: -1}
		for _, label := range c.Labels {
			if s := r.Scorer.Similarity(q, label); s > best.Score {
				best.Score, best.Label = s, label
			}
		}
		if best.Score >= r.MinScore {
			scored = append(scored, best)
		}
	}
	if len(scored) == 0 {
		return Resolution{Status: StatusNotFound}
	}
	sortMatches(scored)

	top := scored[0].Score
	var near []Match
	for _, m := range scored {
		if top-m.Score <= r.AmbiguityWindow {
			near = append(near, m)
		}
	}
	if len(near) > 1 {
		return Resolution{Status: StatusAmbiguous, Candidates: near}
	}
	return Resolution{Status: StatusResolved, Match: scored[0], Candidates: scored}
}

// Suggest proposes up to limit labels resembling query for "did you mean" hints.
// Subsequence matches come first, then the closest labels by similarity.
func (r Resolver) Suggest(query string, labels []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] && len(out) < limit {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, m := range fuzzy.Find(strings.ToLower(query), lowered(labels)) {
		add(labels[m.Index])
	}

	type scoredLabel struct {
		label string
		score float64
	}
	var rest []scoredLabel
	for _, l := range labels {
		if s := r.Scorer.Similarity(query, l); s >= r.MinScore/2 {
			rest = append(rest, scoredLabel{label: l, score: s})
		}
	}
	slices.SortStableFunc(rest, func(a, b scoredLabel) int {
		return cmp.Compare(b.score, a.score)
	})
	for _, s := range rest {
		add(s.label)
	}
	return out
}

func lowered(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ToLower(l)
	}
	return out
}

func sortMatches(m []Match) {
	slices.SortStableFunc(m, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
}
