// Package collision finds energy collisions: causal chains from a draining trigger
// to an activity that needs the state the chain destroys.
package collision

import (
	"cmp"
	"iter"
	"math"
	"slices"
	"strings"

	"sentinel/internal/domain"
	"sentinel/internal/logging"
	"sentinel/internal/matching"
)

// Detector runs collision detection over a graph
type Detector struct {
	opts   Options
	scorer matching.Scorer
	logger *logging.Logger
}

// NewDetector returns a Detector. Zero fields in opts take their defaults.
func NewDetector(opts Options, logger *logging.Logger) *Detector {
	return &Detector{
		opts:   opts.withDefaults(),
		logger: logging.OrNop(logger),
	}
}

// Options returns the effective settings
func (d *Detector) Options() Options {
	return d.opts
}

// Result is the ordered output of one detection run
type Result struct {
	collisions []domain.ScoredCollision

	Triggers              int
	RelationshipsAnalyzed int
	HiddenLowConfidence   int
	HiddenAcknowledged    int
}

// All yields the collisions in order. Each call starts from the beginning.
func (r *Result) All() iter.Seq[domain.ScoredCollision] {
	return func(yield func(domain.ScoredCollision) bool) {
		for _, c := range r.collisions {
			if !yield(c) {
				return
			}
		}
	}
}

// Len returns the number of collisions in the result
func (r *Result) Len() int {
	return len(r.collisions)
}

// Collisions returns a copy of the ordered collisions
func (r *Result) Collisions() []domain.ScoredCollision {
	return slices.Clone(r.collisions)
}

// partial is a path under construction during the breadth-first search
type partial struct {
	steps   []domain.PathStep
	product float64
	hops    int
	drained bool
}

func (p partial) contains(id string) bool {
	for _, s := range p.steps {
		if s.Node.ID == id {
			return true
		}
	}
	return false
}

func (p partial) extend(n *domain.Node, e domain.Edge, reversed bool) partial {
	steps := make([]domain.PathStep, len(p.steps), len(p.steps)+1)
	copy(steps, p.steps)
	via := e
	steps = append(steps, domain.PathStep{Node: *n, Via: &via, Reversed: reversed})
	return partial{
		steps:   steps,
		product: p.product * e.Confidence,
		hops:    p.hops,
		drained: p.drained || e.Relation == domain.RelDrains,
	}
}

type pairKey struct{ trigger, impact string }

// Detect finds every collision in g, keeps the best path per trigger and impact
// pair, then filters by confidence and acknowledgment.
func (d *Detector) Detect(g *domain.Graph, q Query) *Result {
	res := &Result{RelationshipsAnalyzed: g.EdgeCount()}
	best := make(map[pairKey]domain.ScoredCollision)

	for _, trigger := range g.Nodes() {
		if !d.isTrigger(g, trigger) {
			continue
		}
		res.Triggers++
		d.walk(g, trigger, best)
	}

	all := make([]domain.ScoredCollision, 0, len(best))
	for _, c := range best {
		all = append(all, c)
	}
	slices.SortFunc(all, compareCollisions)

	for _, c := range all {
		c.Acknowledged = d.acknowledged(c, q.Acks)
		if c.Confidence < q.MinConfidence && !q.IncludeLowConfidence {
			res.HiddenLowConfidence++
			continue
		}
		if c.Acknowledged && !q.IncludeAcknowledged {
			res.HiddenAcknowledged++
			continue
		}
		res.collisions = append(res.collisions, c)
	}

	d.logger.Debug("collision detection finished",
		"triggers", res.Triggers,
		"found", len(all),
		"returned", len(res.collisions),
		"hidden_low", res.HiddenLowConfidence,
		"hidden_acked", res.HiddenAcknowledged)
	return res
}

// isTrigger: an event or person that is tagged negative or drains or
// conflicts with something. Being drained by another node does not disqualify it.
func (d *Detector) isTrigger(g *domain.Graph, n *domain.Node) bool {
	if n.Kind.IsState() {
		return false
	}
	for _, c := range d.opts.NegativeCategories {
		if strings.EqualFold(c, n.Category) {
			return true
		}
	}
	for _, e := range g.Outgoing(n.ID) {
		if e.Relation == domain.RelDrains || e.Relation == domain.RelConflictsWith {
			return true
		}
	}
	return false
}

func (d *Detector) propagates(r domain.Relation) bool {
	if r == domain.RelUnknown {
		return d.opts.TraverseUnknown
	}
	return slices.Contains(d.opts.Propagating, r)
}

// walk runs a bounded breadth-first search from trigger. A node is never
// visited twice on one path but may appear on many paths.
func (d *Detector) walk(g *domain.Graph, trigger *domain.Node, best map[pairKey]domain.ScoredCollision) {
	queue := []partial{{steps: []domain.PathStep{{Node: *trigger}}, product: 1}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if p.hops > 0 && p.drained {
			d.closePaths(g, p, best)
		}
		if p.hops >= d.opts.MaxHops {
			continue
		}

		last := p.steps[len(p.steps)-1].Node.ID
		for _, e := range g.Outgoing(last) {
			if !d.propagates(e.Relation) || p.contains(e.TargetID) {
				continue
			}
			next, ok := g.Node(e.TargetID)
			if !ok {
				continue
			}
			np := p.extend(next, e, false)
			np.hops = p.hops + 1
			queue = append(queue, np)
		}
	}
}

// closePaths records the collisions that end at the last node of p.
// Either an activity requires the state p arrives at, reached through the
// REQUIRES edge in reverse, or p conflicts directly with an activity that
// itself requires something.
func (d *Detector) closePaths(g *domain.Graph, p partial, best map[pairKey]domain.ScoredCollision) {
	lastStep := p.steps[len(p.steps)-1]
	state := lastStep.Node
	arrivedBy := lastStep.Via.Relation

	if arrivedBy == domain.RelConflictsWith || arrivedBy == domain.RelDrains {
		for _, e := range g.Incoming(state.ID) {
			if e.Relation != domain.RelRequires || p.contains(e.SourceID) {
				continue
			}
			impact, ok := g.Node(e.SourceID)
			if !ok || impact.Kind.IsState() {
				continue
			}
			d.record(p.extend(impact, e, true), best)
		}
	}

	if arrivedBy == domain.RelConflictsWith && !state.Kind.IsState() {
		for _, e := range g.Outgoing(state.ID) {
			if e.Relation == domain.RelRequires {
				d.record(p, best)
				break
			}
		}
	}

	if arrivedBy == domain.RelDrains {
		d.closeConflictingStates(g, p, best)
	}
}

// closeConflictingStates bridges a drained state to the states configured as
// its opposites. The bridge edge scores 1 and is not a hop.
func (d *Detector) closeConflictingStates(g *domain.Graph, p partial, best map[pairKey]domain.ScoredCollision) {
	if len(d.opts.ConflictingStates) == 0 {
		return
	}
	drained := p.steps[len(p.steps)-1].Node
	for _, pair := range d.opts.ConflictingStates {
		if !hasSlug(&drained, pair[0]) {
			continue
		}
		for _, opposite := range g.Nodes() {
			if opposite.ID == drained.ID || !hasSlug(opposite, pair[1]) || p.contains(opposite.ID) {
				continue
			}
			bridge := domain.Edge{
				SourceID:    drained.ID,
				TargetID:    opposite.ID,
				Relation:    domain.RelConflictsWith,
				RawRelation: "conflicting states",
				Confidence:  1,
				Origin:      domain.OriginAIInferred,
			}
			bridged := p.extend(opposite, bridge, false)
			for _, e := range g.Incoming(opposite.ID) {
				if e.Relation != domain.RelRequires || bridged.contains(e.SourceID) {
					continue
				}
				impact, ok := g.Node(e.SourceID)
				if !ok || impact.Kind.IsState() {
					continue
				}
				d.record(bridged.extend(impact, e, true), best)
			}
		}
	}
}

func hasSlug(n *domain.Node, slug string) bool {
	for _, label := range n.Labels() {
		if domain.Slugify(label) == slug {
			return true
		}
	}
	return false
}

func (d *Detector) record(p partial, best map[pairKey]domain.ScoredCollision) {
	c := d.score(p)
	key := pairKey{trigger: c.Trigger().ID, impact: c.Impact().ID}
	if cur, ok := best[key]; ok && compareCollisions(cur, c) <= 0 {
		return
	}
	best[key] = c
}

// score multiplies every edge confidence on the path, decays once per hop after
// the first, applies the origin penalty and cross-domain boost, then clamps.
// The closing REQUIRES edge is scored but does not count as a hop.
func (d *Detector) score(p partial) domain.ScoredCollision {
	r := domain.Rationale{Hops: p.hops}
	inferredNodes := 0
	for i, s := range p.steps {
		r.Kinds = append(r.Kinds, s.Node.Kind)
		r.Categories = append(r.Categories, s.Node.Category)
		if s.Node.Origin == domain.OriginAIInferred {
			inferredNodes++
		}
		if i == 0 {
			continue
		}
		r.Relations = append(r.Relations, s.Via.Relation)
		r.EdgeConfidences = append(r.EdgeConfidences, s.Via.Confidence)
		if s.Via.Origin == domain.OriginUserStated {
			r.UserStatedEdges++
		} else {
			r.InferredEdges++
		}
	}

	conf := p.product * math.Pow(d.opts.Decay, float64(max(p.hops-1, 0)))
	if d.opts.AIInferredPenalty != 1 {
		conf *= math.Pow(d.opts.AIInferredPenalty, float64(inferredNodes))
	}

	trigger, impact := p.steps[0].Node, p.steps[len(p.steps)-1].Node
	r.TriggerDomain = classifyDomain(trigger, d.opts.DomainKeywords)
	r.ImpactDomain = classifyDomain(impact, d.opts.DomainKeywords)
	for _, pair := range d.opts.CrossDomainPairs {
		if pair[0] == r.TriggerDomain && pair[1] == r.ImpactDomain {
			r.CrossDomain = true
			conf *= d.opts.CrossDomainBoost
			break
		}
	}

	return domain.ScoredCollision{
		Path:       p.steps,
		Confidence: domain.ClampConfidence(conf),
		Rationale:  r,
	}
}

// acknowledged reports whether the trigger or impact matches an acknowledgment,
// by slug or by label similarity so regenerated ids stay suppressed.
func (d *Detector) acknowledged(c domain.ScoredCollision, acks []domain.Acknowledgment) bool {
	if len(acks) == 0 {
		return false
	}
	for _, n := range []domain.Node{c.Trigger(), c.Impact()} {
		for _, label := range n.Labels() {
			slug := domain.Slugify(label)
			for _, a := range acks {
				if a.Key == slug || a.Key == n.ID {
					return true
				}
				if d.scorer.Similarity(strings.ReplaceAll(a.Key, "-", " "), label) >= d.opts.AckSimilarity {
					return true
				}
			}
		}
	}
	return false
}

// compareCollisions orders by confidence descending, then path length,
// trigger name and impact name ascending
func compareCollisions(a, b domain.ScoredCollision) int {
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.Path), len(b.Path)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Trigger().Name, b.Trigger().Name); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Impact().Name, b.Impact().Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Summary(), b.Summary())
}
