package application

import (
	"sentinel/internal/domain"
	"sentinel/internal/matching"
)

// ResolveNode finds the node query refers to. It returns a *NodeNotFoundError
// with suggestions or an *AmbiguousNodeError listing every close candidate.
func ResolveNode(g *domain.Graph, query string, r matching.Resolver) (*domain.Node, error) {
	nodes := g.Nodes()
	candidates := make([]matching.Candidate, 0, len(nodes))
	var labels []string
	for _, n := range nodes {
		candidates = append(candidates, matching.Candidate{ID: n.ID, Labels: n.Labels(), Seq: n.Seq})
		labels = append(labels, n.Name)
	}

	res := r.Resolve(query, candidates)
	switch res.Status {
	case matching.StatusResolved:
		n, _ := g.Node(res.Match.ID)
		return n, nil
	case matching.StatusAmbiguous:
		names := make([]string, 0, len(res.Candidates))
		for _, c := range res.Candidates {
			if n, ok := g.Node(c.ID); ok {
				names = append(names, n.Name)
			}
		}
		return nil, &AmbiguousNodeError{Query: query, Candidates: names}
	default:
		return nil, &NodeNotFoundError{
			Query:       query,
			Suggestions: r.Suggest(query, labels, matching.DefaultSuggestionLimit),
		}
	}
}
