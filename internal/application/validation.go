package application

import (
	"fmt"
	"strings"

	"sentinel/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "newRelation" -> "new relation")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"source":        "source node",
		"target":        "target node",
		"node":          "node",
		"newRelation":   "new relation",
		"fromRelation":  "current relation",
		"minConfidence": "minimum confidence",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateRelation parses a canonical relation name. UNKNOWN is rejected:
// a correction always names a real relation.
func ValidateRelation(fieldName, value string) (domain.Relation, error) {
	if err := ValidateRequired(fieldName, value); err != nil {
		return "", err
	}
	rel, ok := domain.ParseRelation(value)
	if !ok || rel == domain.RelUnknown {
		names := make([]string, len(domain.Vocabulary))
		for i, r := range domain.Vocabulary {
			names[i] = string(r)
		}
		return "", &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unknown relation %q (expected one of %s)", value, strings.Join(names, ", ")),
		}
	}
	return rel, nil
}

// ValidateConfidence checks that v lies in [0,1]
func ValidateConfidence(fieldName string, v float64) error {
	if v < 0 || v > 1 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be between 0 and 1, got %g", formatFieldName(fieldName), v),
		}
	}
	return nil
}
