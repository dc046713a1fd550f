package domain

import "time"

// CorrectionAction is the kind of change a correction applied
type CorrectionAction string

const (
	ActionDelete         CorrectionAction = "delete"
	ActionModifyRelation CorrectionAction = "modify-relation"
	ActionRemoveEdge     CorrectionAction = "remove-edge"
)

// Snapshot captures the state a correction replaced
type Snapshot struct {
	Node        *Node  // set for deletions
	Edges       []Edge // edges removed or relabelled, as they were
	NewRelation Relation
}

// CorrectionRecord is an append-only ledger entry describing one applied correction.
// NodeIDs are weak references and may name nodes that no longer exist.
type CorrectionRecord struct {
	ID        string
	Action    CorrectionAction
	Target    string // human-readable description, e.g. "Aunt Susan -> drained"
	NodeIDs   []string
	Timestamp time.Time
	Prior     Snapshot
	Reason    string
}

// Acknowledgment suppresses collisions whose trigger or impact matches Key
type Acknowledgment struct {
	Key       string // slug of the acknowledged label
	Label     string
	Path      string // collision summary at the time of acknowledgment, if any
	CreatedAt time.Time
}

// ExtractedNode is a node candidate produced by an extraction engine
type ExtractedNode struct {
	Name     string
	Kind     string
	Category string
	Metadata map[string]string
}

// ExtractedEdge is an edge candidate produced by an extraction engine.
// A nil Confidence means the extractor did not score the edge.
type ExtractedEdge struct {
	Source     string
	Target     string
	Relation   string
	Confidence *float64
}

// Extraction is the untrusted output of an extraction engine
type Extraction struct {
	Nodes []ExtractedNode
	Edges []ExtractedEdge
}
