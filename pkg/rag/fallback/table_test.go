package fallback

import (
	"strings"
	"testing"
)

func TestEscalationMessageLocales(t *testing.T) {
	tests := []struct {
		locale string
		want   string // substring that identifies the language
	}{
		{"en", "crisis line"},
		{"en-US", "crisis line"},
		{"id", "layanan krisis"},
		{"id_ID", "layanan krisis"},
		{"fr", "crisis line"}, // unknown falls back to default
		{"", "crisis line"},
		{"  EN  ", "crisis line"},
	}
	for _, tt := range tests {
		got := EscalationMessage(tt.locale)
		if got == "" {
			t.Fatalf("EscalationMessage(%q) empty", tt.locale)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("EscalationMessage(%q) = %q, want substring %q", tt.locale, got, tt.want)
		}
	}
}

func TestExerciseShape(t *testing.T) {
	ex := Exercise()
	if ex.ExerciseId != "SR_box_breath_2min" {
		t.Errorf("ExerciseId = %q", ex.ExerciseId)
	}
	if len(ex.Steps) == 0 || len(ex.Steps) > 6 {
		t.Errorf("steps out of bounds: %d", len(ex.Steps))
	}
	if !strings.HasSuffix(ex.FollowupQuestion, "?") {
		t.Errorf("followup %q should end with ?", ex.FollowupQuestion)
	}
	if ex.SourceDocId == "" {
		t.Error("fallback must still carry a source id")
	}
}

func TestExerciseReturnsFreshCopy(t *testing.T) {
	a := Exercise()
	a.Steps[0] = "mutated"
	b := Exercise()
	if b.Steps[0] == "mutated" {
		t.Error("Exercise() shares state between calls")
	}
}
