package application

import (
	"errors"
	"fmt"
	"strings"

	"sentinel/internal/ports"
)

// Sentinel errors for common conditions
var (
	ErrGraphNotFound         = ports.ErrGraphNotFound
	ErrPersistenceCorruption = ports.ErrPersistenceCorruption
	ErrProtectedNode         = errors.New("node is protected")
	ErrNodeNotFound          = errors.New("node not found")
	ErrAmbiguousNode         = errors.New("ambiguous node reference")
	ErrEdgeNotFound          = errors.New("edge not found")
	ErrEmptyInput            = errors.New("no schedule text provided")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ProtectedNodeError is returned when deleting a user-stated node
type ProtectedNodeError struct {
	Name string
}

func (e *ProtectedNodeError) Error() string {
	return fmt.Sprintf("cannot delete %q: it was stated by you, not inferred", e.Name)
}

func (e *ProtectedNodeError) Is(target error) bool {
	return target == ErrProtectedNode
}

// NodeNotFoundError carries "did you mean" suggestions
type NodeNotFoundError struct {
	Query       string
	Suggestions []string
}

func (e *NodeNotFoundError) Error() string {
	msg := fmt.Sprintf("node %q not found", e.Query)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *NodeNotFoundError) Is(target error) bool {
	return target == ErrNodeNotFound
}

// AmbiguousNodeError lists every candidate that matched about equally well
type AmbiguousNodeError struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousNodeError) Error() string {
	return fmt.Sprintf("%q matches several nodes: %s", e.Query, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousNodeError) Is(target error) bool {
	return target == ErrAmbiguousNode
}

// EdgeNotFoundError means both nodes exist but are not connected as requested
type EdgeNotFoundError struct {
	Source   string
	Target   string
	Relation string
}

func (e *EdgeNotFoundError) Error() string {
	if e.Relation != "" {
		return fmt.Sprintf("no %s relationship from %q to %q", e.Relation, e.Source, e.Target)
	}
	return fmt.Sprintf("no relationship from %q to %q", e.Source, e.Target)
}

func (e *EdgeNotFoundError) Is(target error) bool {
	return target == ErrEdgeNotFound
}
