package rag

import "strings"

// ExtractJSON cleans an LLM text response down to the JSON object it should
// contain. Models routinely wrap JSON in markdown fences or surround it with
// prose; strict decoding happens after this salvage pass, not instead of it.
func ExtractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	// Salvage the outermost object when prose surrounds it.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end != -1 && end > start {
		return cleaned[start : end+1]
	}
	return cleaned
}
