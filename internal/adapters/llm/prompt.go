// Package llm holds the prompt and response format shared by the language-model extractors.
package llm

import (
	"fmt"
	"strings"

	"sentinel/internal/domain"
)

const instructions = `You build a personal energy graph from a weekly schedule so that energy collisions can be detected.

Nodes are people, activities, energy states, time slots and contexts.
Edges use only these relation names:
- DRAINS: an activity or person depletes an energy state ("dinner with complainers" DRAINS "emotional energy")
- ENERGIZES: an activity or person restores an energy state ("morning run" ENERGIZES "alertness")
- CONFLICTS_WITH: an energy state undermines an activity that needs it ("low energy" CONFLICTS_WITH "board meeting")
- REQUIRES: an activity needs an energy state or resource ("presentation" REQUIRES "sharp focus")
- SCHEDULED_AT: an activity happens at a time slot ("dinner" SCHEDULED_AT "sunday evening")
- PRECEDES: one activity happens directly before another
- INVOLVES: an activity includes a person ("dinner" INVOLVES "aunt susan")
- BELONGS_TO: an activity is part of a wider context ("standup" BELONGS_TO "work")

When something drains an energy state that a later activity requires, connect the
energy state to that activity with CONFLICTS_WITH. That chain is what we look for.

Example. Input: "Sunday: draining dinner with Aunt Susan. Monday: strategy presentation, need to be sharp."
Edges:
- Aunt Susan DRAINS emotional energy
- Dinner INVOLVES Aunt Susan
- emotional energy CONFLICTS_WITH Strategy Presentation
- Strategy Presentation REQUIRES sharp focus
- Dinner SCHEDULED_AT Sunday
- Strategy Presentation SCHEDULED_AT Monday

Example. Input: "Monday standup. Tuesday documentation work."
Edges:
- Standup SCHEDULED_AT Monday
- Documentation Work SCHEDULED_AT Tuesday
No DRAINS or CONFLICTS_WITH edges: nothing here drains energy.

Use the names as the user wrote them. Give each edge a confidence between 0 and 1
reflecting how directly the text states it. Set a node's "day" metadata when the
text places it on a weekday.`

// Prompt returns the extraction prompt for text, asking for the JSON document Parse reads
func Prompt(text string) string {
	var rels []string
	for _, r := range domain.Vocabulary {
		rels = append(rels, string(r))
	}
	return fmt.Sprintf(`%s

Return ONLY a JSON object (no markdown, no code blocks) of this shape:
{"nodes": [{"name": "Aunt Susan", "kind": "person", "category": "", "metadata": {"day": "sunday"}}],
 "edges": [{"source": "Aunt Susan", "target": "emotional energy", "relation": "DRAINS", "confidence": 0.9}]}
Valid kinds: person, activity, energy-state, time-slot, context.
Valid relations: %s.

Schedule:
%s`, instructions, strings.Join(rels, ", "), text)
}
