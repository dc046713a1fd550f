package domain

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "Aunt Susan", want: "aunt-susan"},
		{name: "punctuation", input: "Strategy Presentation!", want: "strategy-presentation"},
		{name: "accents", input: "Café Meeting", want: "cafe-meeting"},
		{name: "underscores", input: "low_focus", want: "low-focus"},
		{name: "collapses separators", input: "  dinner -- party  ", want: "dinner-party"},
		{name: "digits", input: "Q3 Review", want: "q3-review"},
		{name: "no ascii", input: "東京", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNodeID_FallsBackToUUID(t *testing.T) {
	a := NodeID("東京")
	b := NodeID(" 東京 ")
	if !strings.HasPrefix(a, "node-") {
		t.Errorf("expected node- prefix, got %s", a)
	}
	if a != b {
		t.Errorf("expected deterministic id, got %s and %s", a, b)
	}
	if NodeID("大阪") == a {
		t.Error("different names produced the same id")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"Person", KindPerson},
		{"EnergyState", KindEnergyState},
		{"energy_state", KindEnergyState},
		{"TimeSlot", KindTimeSlot},
		{"Activity", KindActivity},
		{"gadget", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseKind(tt.input); got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOrigin(t *testing.T) {
	if ParseOrigin("USER_STATED") != OriginUserStated {
		t.Error("expected legacy spelling to parse as user-stated")
	}
	if ParseOrigin("") != OriginAIInferred {
		t.Error("expected empty origin to default to ai-inferred")
	}
}

func TestParseRelation(t *testing.T) {
	tests := []struct {
		input  string
		want   Relation
		wantOK bool
	}{
		{"DRAINS", RelDrains, true},
		{"conflicts with", RelConflictsWith, true},
		{"Scheduled-At", RelScheduledAt, true},
		{"unknown", RelUnknown, true},
		{"saps", RelUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRelation(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseRelation(%q) = %s,%v want %s,%v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLevelFor(t *testing.T) {
	if LevelFor(0.85) != LevelHigh || LevelFor(0.6) != LevelMedium || LevelFor(0.2) != LevelLow {
		t.Error("unexpected confidence level bucketing")
	}
}
