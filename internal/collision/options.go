package collision

import "sentinel/internal/domain"

const (
	DefaultMaxHops       = 4
	DefaultDecay         = 0.9
	DefaultMinConfidence = 0.5
	DefaultAckSimilarity = 0.9
)

// Options configures traversal and scoring. They are fixed per Detector.
type Options struct {
	MaxHops int     `yaml:"max_hops"`
	Decay   float64 `yaml:"decay"` // applied once per hop beyond the first
	// NegativeCategories mark a node as a trigger regardless of its edges.
	NegativeCategories []string `yaml:"negative_categories"`
	// Propagating relations are followed from a trigger towards an impact.
	Propagating     []domain.Relation `yaml:"propagating"`
	TraverseUnknown bool              `yaml:"traverse_unknown"`
	// AIInferredPenalty multiplies the score once per ai-inferred node on the path. 1 disables it.
	AIInferredPenalty float64 `yaml:"ai_inferred_penalty"`
	// CrossDomainBoost multiplies the score when trigger and impact sit in
	// life domains listed in CrossDomainPairs. 1 disables it.
	CrossDomainBoost float64                        `yaml:"cross_domain_boost"`
	CrossDomainPairs [][2]domain.LifeDomain         `yaml:"-"`
	DomainKeywords   map[domain.LifeDomain][]string `yaml:"domain_keywords"`
	// AckSimilarity is the minimum similarity between an acknowledgment key and a node label.
	AckSimilarity float64 `yaml:"ack_similarity"`
	// ConflictingStates pairs a drained state with a state it rules out, by slug.
	// A path draining the first closes at any activity requiring the second.
	ConflictingStates [][2]string `yaml:"conflicting_states"`
}

// DefaultOptions returns the built-in detector settings
func DefaultOptions() Options {
	return Options{
		MaxHops:            DefaultMaxHops,
		Decay:              DefaultDecay,
		NegativeCategories: []string{"stressor", "draining", "negative"},
		Propagating:        []domain.Relation{domain.RelDrains, domain.RelConflictsWith, domain.RelPrecedes},
		AIInferredPenalty:  1,
		CrossDomainBoost:   1,
		CrossDomainPairs: [][2]domain.LifeDomain{
			{domain.DomainSocial, domain.DomainProfessional},
			{domain.DomainPersonal, domain.DomainProfessional},
			{domain.DomainSocial, domain.DomainHealth},
			{domain.DomainPersonal, domain.DomainHealth},
			{domain.DomainHealth, domain.DomainProfessional},
		},
		DomainKeywords: defaultDomainKeywords(),
		AckSimilarity:  DefaultAckSimilarity,
	}
}

// withDefaults fills zero fields from DefaultOptions
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxHops <= 0 {
		o.MaxHops = def.MaxHops
	}
	if o.Decay <= 0 || o.Decay > 1 {
		o.Decay = def.Decay
	}
	if o.NegativeCategories == nil {
		o.NegativeCategories = def.NegativeCategories
	}
	if o.Propagating == nil {
		o.Propagating = def.Propagating
	}
	if o.AIInferredPenalty <= 0 {
		o.AIInferredPenalty = def.AIInferredPenalty
	}
	if o.CrossDomainBoost <= 0 {
		o.CrossDomainBoost = def.CrossDomainBoost
	}
	if o.CrossDomainPairs == nil {
		o.CrossDomainPairs = def.CrossDomainPairs
	}
	if o.DomainKeywords == nil {
		o.DomainKeywords = def.DomainKeywords
	}
	if o.AckSimilarity <= 0 {
		o.AckSimilarity = def.AckSimilarity
	}
	return o
}

// Query selects which collisions a detection run returns
type Query struct {
	MinConfidence        float64
	IncludeLowConfidence bool // verbose output keeps everything below MinConfidence
	IncludeAcknowledged  bool
	Acks                 []domain.Acknowledgment
}

// ThresholdFor maps an energy threshold setting onto a minimum confidence
func ThresholdFor(level string) (float64, bool) {
	switch level {
	case "low":
		return 0.3, true
	case "medium", "":
		return DefaultMinConfidence, true
	case "high":
		return 0.7, true
	default:
		return 0, false
	}
}
