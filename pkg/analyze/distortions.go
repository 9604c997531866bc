package analyze

import "strings"

// Keyword cues for common cognitive distortions. The model catches most of
// these itself; the rules backstop entries it misses.
var distortionCues = []struct {
	label string
	cues  []string
}{
	{"catastrophizing", []string{"everything is ruined", "disaster", "worst thing", "it's all over"}},
	{"all_or_nothing_thinking", []string{"always", "never", "everyone", "no one", "completely"}},
	{"mind_reading", []string{"they think i", "they must think", "she thinks i", "he thinks i"}},
	{"overgeneralization", []string{"this always happens", "typical me", "story of my life"}},
	{"self_blame", []string{"my fault", "i ruined", "i'm to blame", "because of me"}},
}

// ApplyDistortionRules scans the text for distortion cues and merges hits
// with the given list, de-duplicated, order preserved.
func ApplyDistortionRules(existing []string, text string) []string {
	t := strings.ToLower(text)

	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing))
	for _, d := range existing {
		norm := strings.ToLower(strings.TrimSpace(d))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}

	for _, rule := range distortionCues {
		if seen[rule.label] {
			continue
		}
		for _, cue := range rule.cues {
			if strings.Contains(t, cue) {
				seen[rule.label] = true
				out = append(out, rule.label)
				break
			}
		}
	}
	return out
}

func mergeDistortions(fromModel []string, journal string) []string {
	return ApplyDistortionRules(fromModel, journal)
}
