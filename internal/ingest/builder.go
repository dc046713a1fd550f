// Package ingest turns extractor output into graph nodes and edges
package ingest

import (
	"regexp"
	"strings"

	"sentinel/internal/consolidate"
	"sentinel/internal/domain"
	"sentinel/internal/logging"
	"sentinel/internal/normalize"
)

// DefaultEdgeConfidence applies when the extractor gives no confidence
const DefaultEdgeConfidence = 1.0

// Dropped describes an extracted edge that could not be added
type Dropped struct {
	Source   string
	Target   string
	Relation string
	Reason   string
}

// Report summarises one ingestion
type Report struct {
	NodesAdded    int
	NodesMerged   int // extracted nodes that matched an existing id
	EdgesAdded    int
	EdgesMerged   int // edges that raised the confidence of an existing edge
	Unknown       int // edges whose relation could not be classified
	Tiers         map[domain.MatchTier]int
	Dropped       []Dropped
	Consolidation consolidate.Report
}

// Builder applies extractions to a graph
type Builder struct {
	normalizer   *normalize.Normalizer
	consolidator *consolidate.Consolidator
	logger       *logging.Logger
}

// NewBuilder returns a Builder
func NewBuilder(n *normalize.Normalizer, c *consolidate.Consolidator, logger *logging.Logger) *Builder {
	return &Builder{normalizer: n, consolidator: c, logger: logging.OrNop(logger)}
}

// Apply adds ext to g and consolidates the result. text is the schedule the
// extraction came from: a node whose name appears in it is user-stated.
func (b *Builder) Apply(g *domain.Graph, ext *domain.Extraction, text string) Report {
	report := Report{Tiers: make(map[domain.MatchTier]int)}
	stated := statedIn(text)

	for _, en := range ext.Nodes {
		name := strings.TrimSpace(en.Name)
		if name == "" {
			continue
		}
		origin := domain.OriginAIInferred
		if stated(name) {
			origin = domain.OriginUserStated
		}
		_, created := g.AddNode(domain.Node{
			Name:     name,
			Origin:   origin,
			Kind:     domain.ParseKind(en.Kind),
			Category: strings.ToLower(strings.TrimSpace(en.Category)),
			Metadata: en.Metadata,
		})
		if created {
			report.NodesAdded++
		} else {
			report.NodesMerged++
		}
	}

	labels := labelIndex(g)
	for _, ee := range ext.Edges {
		src, okSrc := labels[strings.ToLower(strings.TrimSpace(ee.Source))]
		dst, okDst := labels[strings.ToLower(strings.TrimSpace(ee.Target))]
		if !okSrc || !okDst {
			b.drop(&report, ee, "references an unknown node")
			continue
		}
		if src.ID == dst.ID {
			b.drop(&report, ee, "source and target are the same node")
			continue
		}

		hint := DefaultEdgeConfidence
		if ee.Confidence != nil {
			hint = domain.ClampConfidence(*ee.Confidence)
		}
		res := b.normalizer.Normalize(ee.Relation, hint)
		report.Tiers[res.Tier]++
		if res.Relation == domain.RelUnknown {
			report.Unknown++
		}

		origin := domain.OriginAIInferred
		if src.IsProtected() && dst.IsProtected() {
			origin = domain.OriginUserStated
		}
		_, created, err := g.AddEdge(domain.Edge{
			SourceID:    src.ID,
			TargetID:    dst.ID,
			Relation:    res.Relation,
			RawRelation: ee.Relation,
			Confidence:  res.Confidence,
			Origin:      origin,
			Tier:        res.Tier,
		})
		switch {
		case err != nil:
			b.drop(&report, ee, err.Error())
		case created:
			report.EdgesAdded++
		default:
			report.EdgesMerged++
		}
	}

	report.Consolidation = b.consolidator.Consolidate(g)
	b.logger.Debug("extraction applied",
		"nodes_added", report.NodesAdded,
		"edges_added", report.EdgesAdded,
		"dropped", len(report.Dropped),
		"merges", len(report.Consolidation.Merges))
	return report
}

func (b *Builder) drop(r *Report, e domain.ExtractedEdge, reason string) {
	b.logger.Warn("dropping extracted edge", "source", e.Source, "target", e.Target, "relation", e.Relation, "reason", reason)
	r.Dropped = append(r.Dropped, Dropped{Source: e.Source, Target: e.Target, Relation: e.Relation, Reason: reason})
}

// labelIndex maps every lower-cased id, name and alias to its node
func labelIndex(g *domain.Graph) map[string]*domain.Node {
	idx := make(map[string]*domain.Node)
	for _, n := range g.Nodes() {
		idx[strings.ToLower(n.ID)] = n
		for _, l := range n.Labels() {
			key := strings.ToLower(l)
			if _, taken := idx[key]; !taken {
				idx[key] = n
			}
		}
	}
	return idx
}

// statedIn returns a predicate reporting whether a name occurs in text as whole words
func statedIn(text string) func(name string) bool {
	return func(name string) bool {
		words := strings.Fields(name)
		if len(words) == 0 || text == "" {
			return false
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		re, err := regexp.Compile(`(?i)(^|[^\pL\pN])` + strings.Join(words, `\s+`) + `($|[^\pL\pN])`)
		if err != nil {
			return false
		}
		return re.MatchString(text)
	}
}
