package collision

import (
	"strings"

	"sentinel/internal/domain"
)

// Keyword order matters: health is checked before professional so "workout" is not work.
var domainOrder = []domain.LifeDomain{domain.DomainSocial, domain.DomainHealth, domain.DomainProfessional}

func defaultDomainKeywords() map[domain.LifeDomain][]string {
	return map[domain.LifeDomain][]string{
		domain.DomainSocial: {
			"aunt", "uncle", "mom", "dad", "mother", "father", "sister", "brother", "cousin",
			"grandma", "grandpa", "family", "friend", "dinner", "party", "wedding", "birthday",
			"date night", "reunion", "visit",
		},
		domain.DomainHealth: {
			"gym", "workout", "running", "yoga", "doctor", "dentist", "therapy", "sleep", "exercise",
			"meditat", "health",
		},
		domain.DomainProfessional: {
			"meeting", "presentation", "work", "boss", "client", "deadline", "interview",
			"review", "project", "standup", "pitch", "office", "conference", "demo",
		},
	}
}

// classifyDomain places a node in a life domain, preferring an explicit "domain"
// metadata value, then keywords in its metadata and label, then personal.
func classifyDomain(n domain.Node, keywords map[domain.LifeDomain][]string) domain.LifeDomain {
	if d, ok := n.Metadata["domain"]; ok {
		switch ld := domain.LifeDomain(strings.ToLower(d)); ld {
		case domain.DomainSocial, domain.DomainProfessional, domain.DomainHealth, domain.DomainPersonal:
			return ld
		}
	}
	if n.Kind.IsState() {
		return domain.DomainPersonal
	}

	var meta strings.Builder
	for _, v := range n.Metadata {
		meta.WriteString(strings.ToLower(v))
		meta.WriteByte(' ')
	}
	for _, text := range []string{meta.String(), strings.ToLower(n.Name + " " + n.Category)} {
		for _, d := range domainOrder {
			for _, kw := range keywords[d] {
				if strings.Contains(text, kw) {
					return d
				}
			}
		}
	}
	return domain.DomainPersonal
}
