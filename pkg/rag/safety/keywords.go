package safety

import "regexp"

// Keyword/phrase heuristics acting as a guard-rail alongside the classifier.
// A keyword hit always escalates, even when the classifier says SAFE.

var strongIntent = []*regexp.Regexp{
	regexp.MustCompile(`\bi (?:want|wish|plan|am going|gonna)\s+to\s+(?:die|kill myself|end my life)\b`),
	regexp.MustCompile(`\bi (?:will|might)\s+(?:kill myself|end my life)\b`),
	regexp.MustCompile(`\bi can(?:not|'t)\s+go on\b`),
	regexp.MustCompile(`\bi (?:want|need)\s+to\s+(?:disappear|end it all)\b`),
	regexp.MustCompile(`\bsuicide\b`),
	regexp.MustCompile(`\bself-?harm\b`),
}

var methodMention = regexp.MustCompile(`\b(overdose|take pills|poison|jump|hang|cut|cutting|slit|shoot|knife|train|bridge)\b`)

var desireCue = regexp.MustCompile(`\bi (?:want|plan|intend|need)\b`)

var imminence = []*regexp.Regexp{
	regexp.MustCompile(`\bright now\b`),
	regexp.MustCompile(`\btoday\b`),
	regexp.MustCompile(`\btonight\b`),
	regexp.MustCompile(`\bthis (?:morning|evening|afternoon)\b`),
}

var despair = regexp.MustCompile(`\b(hopeless|no point|worthless|nothing matters)\b`)
