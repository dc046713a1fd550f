package domain

import "strings"

// LifeDomain groups nodes into broad areas of a person's life
type LifeDomain string

const (
	DomainSocial       LifeDomain = "social"
	DomainProfessional LifeDomain = "professional"
	DomainHealth       LifeDomain = "health"
	DomainPersonal     LifeDomain = "personal"
)

// ConfidenceLevel buckets a collision confidence for display
type ConfidenceLevel string

const (
	LevelHigh   ConfidenceLevel = "HIGH"
	LevelMedium ConfidenceLevel = "MEDIUM"
	LevelLow    ConfidenceLevel = "LOW"
)

// LevelFor returns the display bucket of a confidence
func LevelFor(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.8:
		return LevelHigh
	case confidence >= 0.5:
		return LevelMedium
	default:
		return LevelLow
	}
}

// PathStep is one node of a collision path together with the edge that reached it.
// Via is nil for the trigger. Reversed marks the closing REQUIRES edge, which
// points from the step's node back to the previous node.
type PathStep struct {
	Node     Node
	Via      *Edge
	Reversed bool
}

// Rationale explains a collision without natural language
type Rationale struct {
	Relations       []Relation
	Kinds           []Kind
	Categories      []string
	EdgeConfidences []float64
	Hops            int // propagation edges, excluding the closing REQUIRES
	UserStatedEdges int
	InferredEdges   int
	TriggerDomain   LifeDomain
	ImpactDomain    LifeDomain
	CrossDomain     bool
}

// ScoredCollision is a causal chain from a trigger to an impacted node
type ScoredCollision struct {
	Path         []PathStep
	Confidence   float64
	Rationale    Rationale
	Acknowledged bool // derived from the acknowledgment ledger at query time
}

// Trigger returns the first node of the path
func (c ScoredCollision) Trigger() Node {
	return c.Path[0].Node
}

// Impact returns the last node of the path
func (c ScoredCollision) Impact() Node {
	return c.Path[len(c.Path)-1].Node
}

// Level returns the confidence bucket of the collision
func (c ScoredCollision) Level() ConfidenceLevel {
	return LevelFor(c.Confidence)
}

// Summary renders the path as "A -> drains -> B -> ..."
func (c ScoredCollision) Summary() string {
	var b strings.Builder
	for i, step := range c.Path {
		if i > 0 {
			arrow := " -> "
			if step.Reversed {
				arrow = " <- "
			}
			b.WriteString(arrow)
			b.WriteString(step.Via.Relation.Display())
			b.WriteString(arrow)
		}
		b.WriteString(step.Node.Name)
	}
	return b.String()
}
