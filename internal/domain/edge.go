package domain

import "strings"

// Relation is a canonical relationship type
type Relation string

const (
	RelScheduledAt   Relation = "SCHEDULED_AT"
	RelDrains        Relation = "DRAINS"
	RelEnergizes     Relation = "ENERGIZES"
	RelConflictsWith Relation = "CONFLICTS_WITH"
	RelRequires      Relation = "REQUIRES"
	RelPrecedes      Relation = "PRECEDES"
	RelInvolves      Relation = "INVOLVES"
	RelBelongsTo     Relation = "BELONGS_TO"
	RelUnknown       Relation = "UNKNOWN"
)

// Vocabulary lists the classified relations in their canonical order.
// The order breaks ties wherever two relations score equally.
var Vocabulary = []Relation{
	RelScheduledAt,
	RelDrains,
	RelEnergizes,
	RelConflictsWith,
	RelRequires,
	RelPrecedes,
	RelInvolves,
	RelBelongsTo,
}

// ParseRelation accepts a canonical name in any case, with spaces, hyphens or underscores
func ParseRelation(s string) (Relation, bool) {
	key := Relation(strings.ToUpper(strings.Join(strings.FieldsFunc(s, isRelationSeparator), "_")))
	if key == RelUnknown {
		return RelUnknown, true
	}
	for _, r := range Vocabulary {
		if r == key {
			return r, true
		}
	}
	return RelUnknown, false
}

func isRelationSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '\t'
}

// Display renders the relation as lowercase words, e.g. "conflicts with"
func (r Relation) Display() string {
	return strings.ToLower(strings.ReplaceAll(string(r), "_", " "))
}

// MatchTier records which normalization tier classified an edge
type MatchTier string

const (
	TierExact   MatchTier = "exact"
	TierKeyword MatchTier = "keyword"
	TierFuzzy   MatchTier = "fuzzy"
	TierNone    MatchTier = "none"
)

// Edge is a directed, typed relationship between two nodes
type Edge struct {
	SourceID    string
	TargetID    string
	Relation    Relation
	RawRelation string // label as extracted, kept for audit
	Confidence  float64
	Origin      Origin
	Tier        MatchTier
}

// EdgeKey identifies an edge; the graph holds at most one edge per key
type EdgeKey struct {
	SourceID string
	TargetID string
	Relation Relation
}

// Key returns the uniqueness key of the edge
func (e Edge) Key() EdgeKey {
	return EdgeKey{SourceID: e.SourceID, TargetID: e.TargetID, Relation: e.Relation}
}

// ClampConfidence bounds a confidence to [0,1]
func ClampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
