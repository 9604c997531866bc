// Package fallback holds the canned responses served when generation cannot
// run: the escalation message and the safe default exercise.
package fallback

import (
	"strings"

	"ei-coach-be/pkg/rag"
)

const defaultLocale = "en"

// Locale-keyed escalation copy. Unknown locales resolve to the language
// prefix first, then to the default locale.
var escalationMessages = map[string]string{
	"en": "It sounds like you're going through something really heavy right now. " +
		"You don't have to face this alone. Please reach out to someone you trust, " +
		"or contact a local crisis line. If you are in immediate danger, contact " +
		"your local emergency services.",
	"id": "Sepertinya kamu sedang melewati masa yang sangat berat. Kamu tidak harus " +
		"menghadapinya sendirian. Hubungi orang yang kamu percaya, atau layanan " +
		"krisis terdekat. Jika kamu dalam bahaya, segera hubungi layanan darurat.",
}

// EscalationMessage returns supportive copy for the given locale.
func EscalationMessage(locale string) string {
	norm := strings.ToLower(strings.TrimSpace(locale))
	if msg, ok := escalationMessages[norm]; ok {
		return msg
	}
	if i := strings.IndexAny(norm, "-_"); i > 0 {
		if msg, ok := escalationMessages[norm[:i]]; ok {
			return msg
		}
	}
	return escalationMessages[defaultLocale]
}

// Exercise returns the canned regulation exercise served when synthesis
// fails. Callers must not mutate the result; a fresh copy is returned on
// each call.
func Exercise() *rag.Recommendation {
	return &rag.Recommendation{
		ExerciseId: "SR_box_breath_2min",
		Title:      "Box Breathing (2 minutes)",
		Steps: []string{
			"Inhale through your nose for a count of 4.",
			"Hold your breath for a count of 4.",
			"Exhale slowly for a count of 4.",
			"Hold empty for a count of 4.",
			"Repeat for 6-8 cycles.",
		},
		ExpectedOutcome:  "Lower physiological arousal and regain a sense of control.",
		SourceDocId:      "fallback_ei_coach",
		FollowupQuestion: "What changed in your body after two rounds?",
	}
}
