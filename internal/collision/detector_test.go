package collision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/domain"
)

type edgeSpec struct {
	src, dst string
	rel      domain.Relation
	conf     float64
}

func newGraph(t *testing.T, nodes []domain.Node, edges []edgeSpec) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		_, _, err := g.AddEdge(domain.Edge{SourceID: e.src, TargetID: e.dst, Relation: e.rel, Confidence: e.conf})
		require.NoError(t, err)
	}
	return g
}

// scenarioGraph is the Aunt Susan example: a draining visit leaves the user
// drained, which conflicts with the focus a presentation requires.
func scenarioGraph(t *testing.T) *domain.Graph {
	return newGraph(t,
		[]domain.Node{
			{Name: "Aunt Susan", Origin: domain.OriginUserStated, Kind: domain.KindPerson},
			{Name: "drained", Kind: domain.KindEnergyState},
			{Name: "focused", Kind: domain.KindEnergyState},
			{Name: "Strategy Presentation", Origin: domain.OriginUserStated, Kind: domain.KindActivity},
		},
		[]edgeSpec{
			{"aunt-susan", "drained", domain.RelDrains, 0.9},
			{"drained", "focused", domain.RelConflictsWith, 0.9},
			{"strategy-presentation", "focused", domain.RelRequires, 0.9},
		})
}

func TestDetect_Scenario(t *testing.T) {
	d := NewDetector(DefaultOptions(), nil)

	res := d.Detect(scenarioGraph(t), Query{MinConfidence: DefaultMinConfidence})

	require.Equal(t, 1, res.Len())
	c := res.Collisions()[0]
	assert.Equal(t, "Aunt Susan", c.Trigger().Name)
	assert.Equal(t, "Strategy Presentation", c.Impact().Name)
	assert.InDelta(t, 0.9*0.9*0.9*0.9, c.Confidence, 1e-9)
	assert.Equal(t, 2, c.Rationale.Hops)
	assert.Equal(t, []domain.Relation{domain.RelDrains, domain.RelConflictsWith, domain.RelRequires}, c.Rationale.Relations)
	assert.True(t, c.Path[3].Reversed, "closing REQUIRES edge is traversed backwards")
	assert.Equal(t, "Aunt Susan -> drains -> drained -> conflicts with -> focused <- requires <- Strategy Presentation", c.Summary())
	assert.Equal(t, domain.DomainSocial, c.Rationale.TriggerDomain)
	assert.Equal(t, domain.DomainProfessional, c.Rationale.ImpactDomain)
	assert.False(t, c.Acknowledged)
}

func TestDetect_DeterministicAndRestartable(t *testing.T) {
	g := scenarioGraph(t)
	_, _, err := g.AddEdge(domain.Edge{SourceID: "aunt-susan", TargetID: "focused", Relation: domain.RelConflictsWith, Confidence: 0.6})
	require.NoError(t, err)
	d := NewDetector(DefaultOptions(), nil)

	first := d.Detect(g, Query{IncludeLowConfidence: true})
	second := d.Detect(g, Query{IncludeLowConfidence: true})
	assert.Equal(t, first.Collisions(), second.Collisions())

	var pass1, pass2 []string
	for c := range first.All() {
		pass1 = append(pass1, c.Summary())
	}
	for c := range first.All() {
		pass2 = append(pass2, c.Summary())
	}
	assert.Equal(t, pass1, pass2)
	assert.Len(t, pass1, first.Len())
}

func TestDetect_NoTriggers(t *testing.T) {
	g := newGraph(t,
		[]domain.Node{{Name: "Gym"}, {Name: "energized", Kind: domain.KindEnergyState}},
		[]edgeSpec{{"gym", "energized", domain.RelEnergizes, 1}})

	res := NewDetector(DefaultOptions(), nil).Detect(g, Query{})

	assert.Equal(t, 0, res.Len())
	assert.Equal(t, 0, res.Triggers)
}

func TestDetect_DeletedStateBreaksPath(t *testing.T) {
	g := scenarioGraph(t)
	removed, err := g.RemoveNode("drained")
	require.NoError(t, err)
	require.Len(t, removed, 2)

	res := NewDetector(DefaultOptions(), nil).Detect(g, Query{IncludeLowConfidence: true})
	assert.Equal(t, 0, res.Len())
}

func TestDetect_Acknowledgment(t *testing.T) {
	g := scenarioGraph(t)
	d := NewDetector(DefaultOptions(), nil)
	acks := []domain.Acknowledgment{{Key: "aunt-susan", Label: "Aunt Susan", CreatedAt: time.Now()}}

	hidden := d.Detect(g, Query{Acks: acks})
	assert.Equal(t, 0, hidden.Len())
	assert.Equal(t, 1, hidden.HiddenAcknowledged)

	shown := d.Detect(g, Query{Acks: acks, IncludeAcknowledged: true})
	require.Equal(t, 1, shown.Len())
	assert.True(t, shown.Collisions()[0].Acknowledged)
}

func TestDetect_DrainedTriggerStillTriggers(t *testing.T) {
	g := scenarioGraph(t)
	g.AddNode(domain.Node{Name: "Holiday Rush", Kind: domain.KindActivity})
	_, _, err := g.AddEdge(domain.Edge{SourceID: "holiday-rush", TargetID: "aunt-susan", Relation: domain.RelDrains, Confidence: 0.9})
	require.NoError(t, err)
	d := NewDetector(DefaultOptions(), nil)

	res := d.Detect(g, Query{IncludeLowConfidence: true})
	assert.Equal(t, 2, res.Triggers)

	var pairs [][2]string
	for _, c := range res.Collisions() {
		pairs = append(pairs, [2]string{c.Trigger().Name, c.Impact().Name})
	}
	assert.Equal(t, [][2]string{
		{"Aunt Susan", "Strategy Presentation"},
		{"Holiday Rush", "Strategy Presentation"},
	}, pairs)
	assert.InDelta(t, 0.6561, res.Collisions()[0].Confidence, 1e-9)

	acked := d.Detect(g, Query{
		IncludeLowConfidence: true,
		Acks:                 []domain.Acknowledgment{{Key: "aunt-susan", Label: "Aunt Susan"}},
	})
	require.Equal(t, 1, acked.Len())
	assert.Equal(t, "Holiday Rush", acked.Collisions()[0].Trigger().Name)
	assert.Equal(t, 1, acked.HiddenAcknowledged)
}

func TestDetect_AcknowledgmentMatchesLoosely(t *testing.T) {
	g := scenarioGraph(t)
	d := NewDetector(DefaultOptions(), nil)

	tests := []struct {
		name  string
		key   string
		hides bool
	}{
		{name: "impact slug", key: "strategy-presentation", hides: true},
		{name: "near miss spelling", key: "aunt-suzan", hides: true},
		{name: "different person", key: "uncle-bob", hides: false},
		{name: "word order", key: "presentation-strategy", hides: true},
		{name: "unrelated", key: "gym", hides: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Detect(g, Query{Acks: []domain.Acknowledgment{{Key: tt.key}}})
			assert.Equal(t, tt.hides, res.Len() == 0)
		})
	}
}

func TestDetect_MinConfidence(t *testing.T) {
	g := scenarioGraph(t)
	d := NewDetector(DefaultOptions(), nil)

	strict := d.Detect(g, Query{MinConfidence: 0.7})
	assert.Equal(t, 0, strict.Len())
	assert.Equal(t, 1, strict.HiddenLowConfidence)

	verbose := d.Detect(g, Query{MinConfidence: 0.7, IncludeLowConfidence: true})
	assert.Equal(t, 1, verbose.Len())
}

func TestDetect_ConfidenceDecaysWithHops(t *testing.T) {
	short := scenarioGraph(t)
	long := newGraph(t,
		[]domain.Node{
			{Name: "Aunt Susan", Kind: domain.KindPerson},
			{Name: "late night", Kind: domain.KindTimeSlot},
			{Name: "drained", Kind: domain.KindEnergyState},
			{Name: "focused", Kind: domain.KindEnergyState},
			{Name: "Strategy Presentation", Kind: domain.KindActivity},
		},
		[]edgeSpec{
			{"aunt-susan", "late-night", domain.RelDrains, 0.9},
			{"late-night", "drained", domain.RelPrecedes, 0.9},
			{"drained", "focused", domain.RelConflictsWith, 0.9},
			{"strategy-presentation", "focused", domain.RelRequires, 0.9},
		})
	d := NewDetector(DefaultOptions(), nil)

	s := d.Detect(short, Query{IncludeLowConfidence: true}).Collisions()
	l := d.Detect(long, Query{IncludeLowConfidence: true}).Collisions()
	require.Len(t, s, 1)
	require.Len(t, l, 1)
	assert.Less(t, l[0].Confidence, s[0].Confidence)
	assert.InDelta(t, 0.9*0.9*0.9*0.9*0.9*0.9, l[0].Confidence, 1e-9)
	for _, c := range append(s, l...) {
		assert.GreaterOrEqual(t, c.Confidence, 0.0)
		assert.LessOrEqual(t, c.Confidence, 1.0)
	}
}

func TestDetect_HopLimitAndCycles(t *testing.T) {
	nodes := []domain.Node{
		{Name: "Trigger", Kind: domain.KindActivity},
		{Name: "s1", Kind: domain.KindEnergyState},
		{Name: "s2", Kind: domain.KindEnergyState},
		{Name: "s3", Kind: domain.KindEnergyState},
		{Name: "focused", Kind: domain.KindEnergyState},
		{Name: "Exam", Kind: domain.KindActivity},
	}
	edges := []edgeSpec{
		{"trigger", "s1", domain.RelDrains, 1},
		{"s1", "s2", domain.RelPrecedes, 1},
		{"s2", "s1", domain.RelPrecedes, 1},
		{"s2", "s3", domain.RelPrecedes, 1},
		{"s3", "focused", domain.RelConflictsWith, 1},
		{"exam", "focused", domain.RelRequires, 1},
	}

	within := NewDetector(Options{MaxHops: 4}, nil).Detect(newGraph(t, nodes, edges), Query{IncludeLowConfidence: true})
	require.Equal(t, 1, within.Len())
	assert.Equal(t, 4, within.Collisions()[0].Rationale.Hops)

	beyond := NewDetector(Options{MaxHops: 3}, nil).Detect(newGraph(t, nodes, edges), Query{IncludeLowConfidence: true})
	assert.Equal(t, 0, beyond.Len())
}

func TestDetect_KeepsBestPathPerPair(t *testing.T) {
	g := scenarioGraph(t)
	g.AddNode(domain.Node{Name: "tired", Kind: domain.KindEnergyState})
	for _, e := range []edgeSpec{
		{"aunt-susan", "tired", domain.RelDrains, 0.5},
		{"tired", "focused", domain.RelConflictsWith, 0.5},
	} {
		_, _, err := g.AddEdge(domain.Edge{SourceID: e.src, TargetID: e.dst, Relation: e.rel, Confidence: e.conf})
		require.NoError(t, err)
	}

	res := NewDetector(DefaultOptions(), nil).Detect(g, Query{IncludeLowConfidence: true})

	require.Equal(t, 1, res.Len())
	assert.Equal(t, "drained", res.Collisions()[0].Path[1].Node.ID)
}

func TestDetect_DirectConflictWithActivity(t *testing.T) {
	g := newGraph(t,
		[]domain.Node{
			{Name: "Late Party", Kind: domain.KindActivity},
			{Name: "low energy", Kind: domain.KindEnergyState},
			{Name: "Morning Run", Kind: domain.KindActivity},
			{Name: "rested", Kind: domain.KindEnergyState},
		},
		[]edgeSpec{
			{"late-party", "low-energy", domain.RelDrains, 1},
			{"low-energy", "morning-run", domain.RelConflictsWith, 1},
			{"morning-run", "rested", domain.RelRequires, 1},
		})

	res := NewDetector(DefaultOptions(), nil).Detect(g, Query{})

	require.Equal(t, 1, res.Len())
	c := res.Collisions()[0]
	assert.Equal(t, "Morning Run", c.Impact().Name)
	assert.InDelta(t, 0.9, c.Confidence, 1e-9)
}

func TestDetect_UnknownRelationsNeedOptIn(t *testing.T) {
	nodes := []domain.Node{
		{Name: "Commute", Kind: domain.KindActivity},
		{Name: "drained", Kind: domain.KindEnergyState},
		{Name: "stressed", Kind: domain.KindEnergyState},
		{Name: "focused", Kind: domain.KindEnergyState},
		{Name: "Exam", Kind: domain.KindActivity},
	}
	edges := []edgeSpec{
		{"commute", "drained", domain.RelDrains, 1},
		{"drained", "stressed", domain.RelUnknown, 1},
		{"stressed", "focused", domain.RelConflictsWith, 1},
		{"exam", "focused", domain.RelRequires, 1},
	}

	off := NewDetector(DefaultOptions(), nil).Detect(newGraph(t, nodes, edges), Query{IncludeLowConfidence: true})
	assert.Equal(t, 0, off.Len())

	opts := DefaultOptions()
	opts.TraverseUnknown = true
	on := NewDetector(opts, nil).Detect(newGraph(t, nodes, edges), Query{IncludeLowConfidence: true})
	assert.Equal(t, 1, on.Len())
}

func TestDetect_OrderingAndCrossDomainBoost(t *testing.T) {
	g := scenarioGraph(t)
	g.AddNode(domain.Node{Name: "Gym Session", Kind: domain.KindActivity})
	_, _, err := g.AddEdge(domain.Edge{SourceID: "gym-session", TargetID: "focused", Relation: domain.RelRequires, Confidence: 0.5})
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.CrossDomainBoost = 1.1
	res := NewDetector(opts, nil).Detect(g, Query{IncludeLowConfidence: true})

	cs := res.Collisions()
	require.Len(t, cs, 2)
	assert.Equal(t, "Strategy Presentation", cs[0].Impact().Name)
	assert.True(t, cs[0].Rationale.CrossDomain)
	assert.InDelta(t, 0.6561*1.1, cs[0].Confidence, 1e-9)
	assert.Equal(t, "Gym Session", cs[1].Impact().Name)
	assert.GreaterOrEqual(t, cs[0].Confidence, cs[1].Confidence)
}

func TestThresholdFor(t *testing.T) {
	v, ok := ThresholdFor("high")
	assert.True(t, ok)
	assert.Equal(t, 0.7, v)
	_, ok = ThresholdFor("extreme")
	assert.False(t, ok)
}

func TestDetect_ConflictingStatesBridge(t *testing.T) {
	g := newGraph(t,
		[]domain.Node{
			{Name: "Late Party", Kind: domain.KindActivity},
			{Name: "drained", Kind: domain.KindEnergyState},
			{Name: "focused", Kind: domain.KindEnergyState},
			{Name: "Exam", Kind: domain.KindActivity},
		},
		[]edgeSpec{
			{"late-party", "drained", domain.RelDrains, 0.8},
			{"exam", "focused", domain.RelRequires, 0.9},
		})

	off := NewDetector(DefaultOptions(), nil).Detect(g, Query{IncludeLowConfidence: true})
	assert.Equal(t, 0, off.Len(), "no bridge without configured pairs")

	opts := DefaultOptions()
	opts.ConflictingStates = [][2]string{{"drained", "focused"}}
	res := NewDetector(opts, nil).Detect(g, Query{IncludeLowConfidence: true})
	require.Equal(t, 1, res.Len())

	c := res.Collisions()[0]
	assert.Equal(t, "Late Party", c.Trigger().Name)
	assert.Equal(t, "Exam", c.Impact().Name)
	assert.Equal(t, 1, c.Rationale.Hops)
	assert.InDelta(t, 0.8*0.9, c.Confidence, 1e-9)
	assert.Equal(t, "Late Party -> drains -> drained -> conflicts with -> focused <- requires <- Exam", c.Summary())
}
