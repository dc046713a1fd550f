package application

import (
	"errors"
	"strings"
	"testing"

	"sentinel/internal/domain"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
		errMsg    string
	}{
		{"valid value", "source", "Aunt Susan", false, ""},
		{"empty value", "source", "", true, "source node is required"},
		{"whitespace only", "newRelation", "   ", true, "new relation is required"},
		{"unknown field name", "label", "", true, "label is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("expected *ValidationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRelation(t *testing.T) {
	tests := []struct {
		value   string
		want    domain.Relation
		wantErr bool
	}{
		{"DRAINS", domain.RelDrains, false},
		{"conflicts with", domain.RelConflictsWith, false},
		{"scheduled-at", domain.RelScheduledAt, false},
		{"UNKNOWN", "", true},
		{"exhausts", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ValidateRelation("newRelation", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRelation(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateRelation(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateConfidence(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1} {
		if err := ValidateConfidence("minConfidence", v); err != nil {
			t.Errorf("ValidateConfidence(%g) unexpected error: %v", v, err)
		}
	}
	for _, v := range []float64{-0.1, 1.01} {
		if err := ValidateConfidence("minConfidence", v); err == nil {
			t.Errorf("ValidateConfidence(%g) expected error", v)
		}
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		err    error
		target error
	}{
		{&ProtectedNodeError{Name: "Aunt Susan"}, ErrProtectedNode},
		{&NodeNotFoundError{Query: "x"}, ErrNodeNotFound},
		{&AmbiguousNodeError{Query: "x"}, ErrAmbiguousNode},
		{&EdgeNotFoundError{Source: "a", Target: "b"}, ErrEdgeNotFound},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.target) {
			t.Errorf("errors.Is(%T, %v) = false", tt.err, tt.target)
		}
	}

	nf := &NodeNotFoundError{Query: "Aunt Suzan", Suggestions: []string{"Aunt Susan"}}
	if !strings.Contains(nf.Error(), "did you mean: Aunt Susan") {
		t.Errorf("suggestions missing from %q", nf.Error())
	}
}
