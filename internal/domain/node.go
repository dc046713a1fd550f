package domain

import (
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Origin records who asserted a node or edge
type Origin string

const (
	OriginUserStated Origin = "user-stated"
	OriginAIInferred Origin = "ai-inferred"
)

// ParseOrigin accepts both the hyphenated form and the legacy USER_STATED/AI_INFERRED spelling.
// Anything unrecognised is treated as inferred.
func ParseOrigin(s string) Origin {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-")) {
	case "user-stated", "user":
		return OriginUserStated
	default:
		return OriginAIInferred
	}
}

// Kind classifies a node for display and traversal heuristics
type Kind string

const (
	KindUnknown     Kind = ""
	KindPerson      Kind = "person"
	KindActivity    Kind = "activity"
	KindEnergyState Kind = "energy-state"
	KindTimeSlot    Kind = "time-slot"
	KindContext     Kind = "context"
)

// ParseKind maps extractor labels such as "EnergyState" or "time_slot" onto a Kind
func ParseKind(s string) Kind {
	key := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)

	switch key {
	case "person":
		return KindPerson
	case "activity", "event":
		return KindActivity
	case "energystate", "state":
		return KindEnergyState
	case "timeslot", "time":
		return KindTimeSlot
	case "context":
		return KindContext
	default:
		return KindUnknown
	}
}

// Compatible reports whether two nodes of these kinds may be merged
func (k Kind) Compatible(other Kind) bool {
	return k == KindUnknown || other == KindUnknown || k == other
}

// IsState reports whether nodes of this kind describe a state rather than an event
func (k Kind) IsState() bool {
	return k == KindEnergyState || k == KindTimeSlot
}

// Node is an entity in the schedule graph
type Node struct {
	ID       string
	Name     string
	Aliases  []string // sorted, deduplicated
	Origin   Origin   // set once at creation
	Kind     Kind
	Category string // free-form tag, e.g. "social" or "stressor"
	Seq      int    // insertion order within the graph
	Metadata map[string]string
}

// Labels returns the name followed by every alias
func (n *Node) Labels() []string {
	labels := make([]string, 0, len(n.Aliases)+1)
	labels = append(labels, n.Name)
	for _, a := range n.Aliases {
		if a != n.Name {
			labels = append(labels, a)
		}
	}
	return labels
}

// IsProtected reports whether corrections may not delete the node
func (n *Node) IsProtected() bool {
	return n.Origin == OriginUserStated
}

// AddAliases merges names into the alias set
func (n *Node) AddAliases(names ...string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(n.Aliases, name) {
			continue
		}
		n.Aliases = append(n.Aliases, name)
	}
	slices.Sort(n.Aliases)
}

func (n *Node) clone() *Node {
	c := *n
	c.Aliases = slices.Clone(n.Aliases)
	if n.Metadata != nil {
		c.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

var nodeNamespace = uuid.MustParse("4d1c3a52-8f0e-4b7a-9c2d-5e6f7a8b9c0d")

// Slugify folds a name to lowercase ASCII words joined by hyphens.
// Accented letters lose their marks, everything else becomes a separator.
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range norm.NFKD.String(name) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// NodeID derives the stable identifier for a node name.
// Names with no ASCII letters or digits get a name-based UUID instead of a slug.
func NodeID(name string) string {
	if slug := Slugify(name); slug != "" {
		return slug
	}
	key := strings.ToLower(strings.TrimSpace(name))
	return "node-" + uuid.NewSHA1(nodeNamespace, []byte(key)).String()
}
