package normalize

import "sentinel/internal/domain"

// Keyword maps a word stem to a relation
type Keyword struct {
	Stem     string          `yaml:"stem"`
	Relation domain.Relation `yaml:"relation"`
}

// Tables holds every heuristic the normalizer uses. All of it can be replaced from configuration.
type Tables struct {
	// Exact maps whole labels (any case, spaces or underscores) to relations,
	// on top of the canonical relation names themselves.
	Exact map[string]domain.Relation `yaml:"exact"`
	// Keywords are scanned in order; the first stem found in the label wins.
	Keywords []Keyword `yaml:"keywords"`
	// Phrases are compared by similarity in the fuzzy tier.
	Phrases        map[domain.Relation][]string `yaml:"phrases"`
	FuzzyThreshold float64                      `yaml:"fuzzy_threshold"`
}

const DefaultFuzzyThreshold = 0.75

// DefaultTables returns the built-in heuristics
func DefaultTables() Tables {
	return Tables{
		Exact:          defaultExact(),
		Keywords:       defaultKeywords(),
		Phrases:        defaultPhrases(),
		FuzzyThreshold: DefaultFuzzyThreshold,
	}
}

func defaultExact() map[string]domain.Relation {
	m := map[string]domain.Relation{}
	add := func(r domain.Relation, labels ...string) {
		for _, l := range labels {
			m[l] = r
		}
	}
	add(domain.RelInvolves,
		"involves", "participant", "with", "has participant", "includes", "contains", "has",
		"attended by", "organized by", "has note", "about", "involves person", "attends",
		"presented to", "has characteristic", "characterized by")
	add(domain.RelScheduledAt,
		"at time", "when", "occurs at", "on date", "scheduled on", "takes place", "happens on",
		"at", "on", "occurs on", "happens at")
	add(domain.RelDrains,
		"depletes", "exhausts", "tires", "fatigues", "causes fatigue", "energy drain", "drains energy",
		"is emotionally draining", "emotionally draining", "causes exhaustion", "energy draining",
		"causes", "negatively impacts", "negatively affects", "leads to exhaustion",
		"results in fatigue", "impacts energy")
	add(domain.RelRequires,
		"needs", "demands", "depends on", "prerequisite", "requires high focus",
		"needs to be well rested for", "requires focus", "needs energy", "requires energy")
	add(domain.RelConflictsWith,
		"conflicts", "contradicts", "opposes", "clashes", "clashes with", "overlaps")
	add(domain.RelBelongsTo,
		"category", "domain", "part of", "is a", "type of", "instance of")
	add(domain.RelEnergizes,
		"energizes", "energises", "recharges", "restores", "boosts energy", "refreshes")
	add(domain.RelPrecedes,
		"precedes", "before", "leads to", "followed by", "comes before")
	return m
}

// Order matters: stems for narrower relations come before broad ones such as "with".
func defaultKeywords() []Keyword {
	var kws []Keyword
	add := func(r domain.Relation, stems ...string) {
		for _, s := range stems {
			kws = append(kws, Keyword{Stem: s, Relation: r})
		}
	}
	add(domain.RelEnergizes, "energiz", "energis", "recharg", "restor", "rejuvenat", "refresh", "reviv")
	add(domain.RelDrains, "drain", "exhaust", "deplet", "fatigu", "tire", "sap", "wear", "stress",
		"burden", "overwhelm", "tax")
	add(domain.RelConflictsWith, "conflict", "clash", "contradict", "interfer", "oppos", "threaten",
		"impair", "hinder", "block", "prevent", "incompatible")
	add(domain.RelRequires, "requir", "need", "demand", "depend", "necessitat", "essential", "must",
		"prerequisite")
	add(domain.RelPrecedes, "preced", "before", "leads to", "follow")
	add(domain.RelScheduledAt, "schedul", "occur", "happen", "during", "time")
	add(domain.RelBelongsTo, "belong", "part of", "member")
	add(domain.RelInvolves, "involv", "includ", "contain", "feature", "characteriz", "present",
		"has", "with", "about", "relat", "associat", "contribut", "affect", "impact")
	return kws
}

func defaultPhrases() map[domain.Relation][]string {
	return map[domain.Relation][]string{
		domain.RelDrains: {
			"drains", "drains energy", "emotionally draining", "causes drain", "energy drain",
			"depletes", "exhausts", "tires out", "fatigues", "wears out", "stresses",
			"causes exhaustion", "leads to fatigue", "reduces energy", "saps energy",
		},
		domain.RelEnergizes: {
			"energizes", "gives energy", "recharges", "restores energy", "boosts", "uplifts",
		},
		domain.RelRequires: {
			"requires", "needs", "demands", "depends on", "necessitates", "needed by",
			"required by", "prerequisite for", "essential for", "must have",
		},
		domain.RelConflictsWith: {
			"conflicts with", "clashes with", "contradicts", "interferes with", "opposes",
			"threatens", "impairs", "hinders", "blocks", "prevents", "incompatible with",
			"at odds with", "undermines",
		},
		domain.RelScheduledAt: {
			"scheduled at", "occurs on", "happens at", "takes place", "during", "at time", "on date",
		},
		domain.RelPrecedes: {
			"precedes", "comes before", "happens before", "leads to", "followed by",
		},
		domain.RelInvolves: {
			"involves", "includes", "contains", "features", "with", "attended by",
		},
		domain.RelBelongsTo: {
			"belongs to", "part of", "member of", "category of",
		},
	}
}
