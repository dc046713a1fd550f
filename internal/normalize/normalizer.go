// Package normalize maps raw relation labels onto the canonical relation vocabulary
// through three tiers: exact, keyword and fuzzy.
package normalize

import (
	"errors"
	"strings"

	"sentinel/internal/domain"
	"sentinel/internal/logging"
	"sentinel/internal/matching"
)

// errExhausted is returned by classify when no tier matched. It never leaves the package.
var errExhausted = errors.New("normalization exhausted")

// Result is a classified relation
type Result struct {
	Relation   domain.Relation
	Confidence float64
	Tier       domain.MatchTier
	Score      float64 // fuzzy similarity, 1 for exact and keyword hits
}

// Normalizer classifies raw relation labels
type Normalizer struct {
	exact     map[string]domain.Relation
	keywords  []Keyword
	phrases   map[domain.Relation][]string
	threshold float64
	scorer    matching.Scorer
	logger    *logging.Logger
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithLogger sets the logger used for tier diagnostics
func WithLogger(l *logging.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logging.OrNop(l)
	}
}

// New builds a Normalizer from t. Zero-valued parts of t fall back to the defaults.
func New(t Tables, opts ...Option) *Normalizer {
	def := DefaultTables()
	if t.Exact == nil {
		t.Exact = def.Exact
	}
	if t.Keywords == nil {
		t.Keywords = def.Keywords
	}
	if t.Phrases == nil {
		t.Phrases = def.Phrases
	}
	if t.FuzzyThreshold <= 0 {
		t.FuzzyThreshold = def.FuzzyThreshold
	}

	n := &Normalizer{
		exact:     make(map[string]domain.Relation, len(t.Exact)),
		keywords:  t.Keywords,
		phrases:   t.Phrases,
		threshold: t.FuzzyThreshold,
		logger:    logging.Nop(),
	}
	for label, rel := range t.Exact {
		n.exact[matching.Normalize(label)] = rel
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize classifies raw. Labels no tier recognises come back as UNKNOWN with the
// hint unchanged; normalization itself never fails.
func (n *Normalizer) Normalize(raw string, confidenceHint float64) Result {
	res, err := n.classify(raw)
	if err != nil {
		n.logger.Debug("relation left unclassified", "raw", raw)
		return Result{Relation: domain.RelUnknown, Confidence: confidenceHint, Tier: domain.TierNone}
	}

	res.Confidence = confidenceHint
	if res.Tier == domain.TierFuzzy {
		res.Confidence = confidenceHint * res.Score
	}
	n.logger.Debug("relation classified", "raw", raw, "relation", res.Relation, "tier", res.Tier, "score", res.Score)
	return res
}

func (n *Normalizer) classify(raw string) (Result, error) {
	label := matching.Normalize(raw)
	if label == "" {
		return Result{}, errExhausted
	}

	if rel, ok := domain.ParseRelation(label); ok {
		return Result{Relation: rel, Tier: domain.TierExact, Score: 1}, nil
	}
	if rel, ok := n.exact[label]; ok {
		return Result{Relation: rel, Tier: domain.TierExact, Score: 1}, nil
	}

	if rel, ok := n.matchKeyword(label); ok {
		return Result{Relation: rel, Tier: domain.TierKeyword, Score: 1}, nil
	}

	if rel, score, ok := n.matchFuzzy(label); ok {
		return Result{Relation: rel, Tier: domain.TierFuzzy, Score: score}, nil
	}
	return Result{}, errExhausted
}

// matchKeyword finds the first stem, in table order, that starts a word of label.
// Multi-word stems must start at a word boundary too.
func (n *Normalizer) matchKeyword(label string) (domain.Relation, bool) {
	padded := " " + label
	for _, kw := range n.keywords {
		stem := matching.Normalize(kw.Stem)
		if stem != "" && strings.Contains(padded, " "+stem) {
			return kw.Relation, true
		}
	}
	return "", false
}

// matchFuzzy scores label against every canonical name and phrase.
// Relations are visited in vocabulary order so the earlier one wins a tie.
func (n *Normalizer) matchFuzzy(label string) (domain.Relation, float64, bool) {
	var best domain.Relation
	bestScore := 0.0
	for _, rel := range domain.Vocabulary {
		candidates := append([]string{rel.Display()}, n.phrases[rel]...)
		for _, c := range candidates {
			if s := n.scorer.Similarity(label, c); s > bestScore {
				best, bestScore = rel, s
			}
		}
	}
	if bestScore < n.threshold {
		return "", bestScore, false
	}
	return best, bestScore, true
}
