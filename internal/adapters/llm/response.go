package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"sentinel/internal/domain"
)

// Response is the JSON document extractors ask the model for
type Response struct {
	Nodes []NodeJSON `json:"nodes" jsonschema:"required,description=Every person or activity or energy state or time slot or context mentioned"`
	Edges []EdgeJSON `json:"edges" jsonschema:"required,description=Typed relationships between the nodes by node name"`
}

// NodeJSON is one node as the model reports it
type NodeJSON struct {
	Name     string            `json:"name" jsonschema:"required,description=Name as written in the schedule"`
	Kind     string            `json:"kind,omitempty" jsonschema:"enum=person;activity;energy-state;time-slot;context,description=Node kind"`
	Category string            `json:"category,omitempty" jsonschema:"description=Optional category such as stressor"`
	Metadata map[string]string `json:"metadata,omitempty" jsonschema:"description=Extra facts such as day"`
}

// EdgeJSON is one edge as the model reports it
type EdgeJSON struct {
	Source     string   `json:"source" jsonschema:"required,description=Source node name"`
	Target     string   `json:"target" jsonschema:"required,description=Target node name"`
	Relation   string   `json:"relation" jsonschema:"required,description=Relation name"`
	Confidence *float64 `json:"confidence,omitempty" jsonschema:"description=How directly the text states this edge from 0 to 1"`
}

var codeBlockRe = regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")

// Parse extracts the Response object from model output, tolerating code fences and surrounding prose
func Parse(result string) (*domain.Extraction, error) {
	result = strings.TrimSpace(result)

	if matches := codeBlockRe.FindStringSubmatch(result); len(matches) > 1 {
		result = strings.TrimSpace(matches[1])
	}

	start := strings.Index(result, "{")
	end := strings.LastIndex(result, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	jsonStr := result[start : end+1]

	var resp Response
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w (json: %s)", err, jsonStr)
	}
	return resp.ToExtraction(), nil
}

// ToExtraction converts the response, skipping nodes without a name and edges without endpoints
func (r Response) ToExtraction() *domain.Extraction {
	out := &domain.Extraction{}
	for _, n := range r.Nodes {
		if strings.TrimSpace(n.Name) == "" {
			continue
		}
		out.Nodes = append(out.Nodes, domain.ExtractedNode{
			Name:     strings.TrimSpace(n.Name),
			Kind:     n.Kind,
			Category: n.Category,
			Metadata: n.Metadata,
		})
	}
	for _, e := range r.Edges {
		if strings.TrimSpace(e.Source) == "" || strings.TrimSpace(e.Target) == "" {
			continue
		}
		out.Edges = append(out.Edges, domain.ExtractedEdge{
			Source:     strings.TrimSpace(e.Source),
			Target:     strings.TrimSpace(e.Target),
			Relation:   e.Relation,
			Confidence: e.Confidence,
		})
	}
	return out
}
