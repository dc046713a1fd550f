// Package consolidate merges graph nodes that name the same thing
package consolidate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"sentinel/internal/domain"
	"sentinel/internal/logging"
	"sentinel/internal/matching"
)

const (
	DefaultThreshold   = 0.85
	DefaultEnergyBoost = 0.10
	DefaultBoostFloor  = 0.40
)

// Options tunes consolidation
type Options struct {
	Threshold float64 `yaml:"threshold"`
	// Synonyms canonicalise tokens before comparison, e.g. exhausted -> drained.
	Synonyms map[string]string `yaml:"synonyms"`
	// EnergyKeywords are stems; when both labels contain one and their similarity
	// is at least BoostFloor, EnergyBoost is added.
	EnergyKeywords []string `yaml:"energy_keywords"`
	EnergyBoost    float64  `yaml:"energy_boost"`
	BoostFloor     float64  `yaml:"boost_floor"`
}

// DefaultOptions returns the built-in consolidation settings
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Synonyms: map[string]string{
			"exhausted":    "drained",
			"exhaustion":   "drained",
			"depleted":     "drained",
			"fatigued":     "drained",
			"fatigue":      "drained",
			"tired":        "drained",
			"wiped":        "drained",
			"concentrated": "focused",
			"focus":        "focused",
			"energised":    "energized",
			"energetic":    "energized",
		},
		EnergyKeywords: []string{"drain", "exhaust", "tire", "fatigu", "deplet", "energ", "sleep", "rest", "burn"},
		EnergyBoost:    DefaultEnergyBoost,
		BoostFloor:     DefaultBoostFloor,
	}
}

// Merge records one node folded into another
type Merge struct {
	SurvivorID string
	AbsorbedID string
	Absorbed   string // name of the absorbed node
	Score      float64
}

// Report summarises a consolidation run
type Report struct {
	PassID string
	Passes int
	Merges []Merge
}

// Consolidator merges near-duplicate nodes
type Consolidator struct {
	opts   Options
	scorer matching.Scorer
	logger *logging.Logger
}

// New returns a Consolidator. Zero fields in opts take their defaults.
func New(opts Options, logger *logging.Logger) *Consolidator {
	def := DefaultOptions()
	if opts.Threshold <= 0 {
		opts.Threshold = def.Threshold
	}
	if opts.Synonyms == nil {
		opts.Synonyms = def.Synonyms
	}
	if opts.EnergyKeywords == nil {
		opts.EnergyKeywords = def.EnergyKeywords
	}
	if opts.EnergyBoost < 0 {
		opts.EnergyBoost = 0
	}
	if opts.BoostFloor <= 0 {
		opts.BoostFloor = def.BoostFloor
	}
	return &Consolidator{
		opts:   opts,
		scorer: matching.Scorer{Synonyms: opts.Synonyms},
		logger: logging.OrNop(logger),
	}
}

type pair struct {
	a, b  *domain.Node // a.Seq < b.Seq
	score float64
}

// Consolidate merges nodes in g until no pair clears the threshold.
// Running it again on its own output changes nothing.
func (c *Consolidator) Consolidate(g *domain.Graph) Report {
	report := Report{PassID: uuid.NewString()}
	for {
		merges := c.pass(g)
		report.Passes++
		if len(merges) == 0 {
			break
		}
		report.Merges = append(report.Merges, merges...)
	}
	if len(report.Merges) > 0 {
		g.Meta.ConsolidationPass = report.PassID
	}
	return report
}

// pass merges greedily, highest similarity first. A node touched by a merge
// sits out the rest of the pass.
func (c *Consolidator) pass(g *domain.Graph) []Merge {
	nodes := g.Nodes()
	var pairs []pair
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			if !a.Kind.Compatible(b.Kind) {
				continue
			}
			if s := c.Score(a, b); s >= c.opts.Threshold {
				pairs = append(pairs, pair{a: a, b: b, score: s})
			}
		}
	}

	slices.SortStableFunc(pairs, func(x, y pair) int {
		if r := cmp.Compare(y.score, x.score); r != 0 {
			return r
		}
		if r := cmp.Compare(x.a.Seq, y.a.Seq); r != 0 {
			return r
		}
		return cmp.Compare(x.b.Seq, y.b.Seq)
	})

	touched := make(map[string]bool)
	var merges []Merge
	for _, p := range pairs {
		if touched[p.a.ID] || touched[p.b.ID] {
			continue
		}
		survivor, absorbed := chooseSurvivor(p.a, p.b)
		touched[p.a.ID], touched[p.b.ID] = true, true

		m := Merge{SurvivorID: survivor.ID, AbsorbedID: absorbed.ID, Absorbed: absorbed.Name, Score: p.score}
		if err := g.MergeNodes(survivor.ID, absorbed.ID); err != nil {
			c.logger.Warn("merge skipped", "survivor", survivor.ID, "absorbed", absorbed.ID, "error", err)
			continue
		}
		c.logger.Debug("nodes merged", "survivor", m.SurvivorID, "absorbed", m.AbsorbedID, "score", m.Score)
		merges = append(merges, m)
	}
	return merges
}

// Score is the best similarity between any label of a and any label of b
func (c *Consolidator) Score(a, b *domain.Node) float64 {
	best := 0.0
	for _, la := range a.Labels() {
		for _, lb := range b.Labels() {
			best = max(best, c.labelScore(la, lb))
		}
	}
	return best
}

func (c *Consolidator) labelScore(a, b string) float64 {
	s := c.scorer.Similarity(a, b)
	if s < 1 && s >= c.opts.BoostFloor && c.hasEnergyKeyword(a) && c.hasEnergyKeyword(b) {
		s = min(1, s+c.opts.EnergyBoost)
	}
	return s
}

func (c *Consolidator) hasEnergyKeyword(label string) bool {
	l := strings.ToLower(label)
	for _, kw := range c.opts.EnergyKeywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

// chooseSurvivor keeps the single user-stated node, otherwise the earlier one
func chooseSurvivor(a, b *domain.Node) (survivor, absorbed *domain.Node) {
	aUser, bUser := a.Origin == domain.OriginUserStated, b.Origin == domain.OriginUserStated
	if bUser && !aUser {
		return b, a
	}
	if aUser && !bUser {
		return a, b
	}
	if b.Seq < a.Seq {
		return b, a
	}
	return a, b
}
