package query

import (
	"strings"
	"testing"

	"ei-coach-be/pkg/rag"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name       string
		target     rag.FacetTag
		topEmotion string
		topics     []string
		duration   rag.DurationTag
		want       string
	}{
		{
			name:       "full inputs",
			target:     rag.FacetSelfRegulation,
			topEmotion: "anger",
			topics:     []string{"work", "conflict"},
			duration:   rag.DurationTwoMin,
			want:       "self_regulation anger work conflict 2min exercise",
		},
		{
			name:     "no emotion no topics",
			target:   rag.FacetMotivation,
			duration: rag.DurationFiveMin,
			want:     "motivation 5min exercise",
		},
		{
			name:       "topics capped at two",
			target:     rag.FacetEmpathy,
			topEmotion: "sadness",
			topics:     []string{"family", "friends", "school", "work"},
			duration:   rag.DurationTwoMin,
			want:       "empathy sadness family friends 2min exercise",
		},
		{
			name:       "empty duration defaults to 2min",
			target:     rag.FacetSelfAwareness,
			topEmotion: "joy",
			want:       "self_awareness joy 2min exercise",
		},
		{
			name:       "punctuation stripped, case folded",
			target:     rag.FacetSocialSkills,
			topEmotion: "Anxiety!",
			topics:     []string{"Team-Meetings?", ""},
			duration:   rag.DurationTenMin,
			want:       "social_skills anxiety team meetings 10min exercise",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.target, tt.topEmotion, tt.topics, tt.duration)
			if got != tt.want {
				t.Errorf("Compose() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposeKeepsFacetUnderscores(t *testing.T) {
	got := Compose(rag.FacetSelfRegulation, "anger", nil, rag.DurationTwoMin)
	if !strings.Contains(got, "self_regulation") {
		t.Errorf("Compose() = %q, want the facet tag intact", got)
	}
}

func TestComposeDeterministic(t *testing.T) {
	first := Compose(rag.FacetEmpathy, "sadness", []string{"family", "work"}, rag.DurationFiveMin)
	for i := 0; i < 50; i++ {
		if got := Compose(rag.FacetEmpathy, "sadness", []string{"family", "work"}, rag.DurationFiveMin); got != first {
			t.Fatalf("Compose not deterministic: %q then %q", first, got)
		}
	}
}
