package analyze

import "testing"

func TestApplyDistortionRules(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		text     string
		want     []string
	}{
		{
			name: "cue adds distortion",
			text: "This always happens to me, it's all over.",
			want: []string{"catastrophizing", "all_or_nothing_thinking", "overgeneralization"},
		},
		{
			name:     "existing preserved and deduplicated",
			existing: []string{"Catastrophizing", "catastrophizing"},
			text:     "everything is ruined",
			want:     []string{"catastrophizing"},
		},
		{
			name:     "model entries kept even without cues",
			existing: []string{"emotional_reasoning"},
			text:     "a calm neutral entry",
			want:     []string{"emotional_reasoning"},
		},
		{
			name: "no cues no distortions",
			text: "I had lunch and finished the report.",
			want: []string{},
		},
		{
			name: "self blame cue",
			text: "it's my fault the launch slipped",
			want: []string{"self_blame"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDistortionRules(tt.existing, tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("ApplyDistortionRules() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("result[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
