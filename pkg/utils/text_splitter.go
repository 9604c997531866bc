package utils

import "unicode"

// SplitText splits a long string into chunks of approximately 'chunkSize'
// characters with 'overlap' characters carried over at each boundary so
// context survives the cut. Rune-based, so multi-byte text is never split
// mid-rune.
func SplitText(text string, chunkSize int, overlap int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // overlap >= chunkSize would never advance
	}

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		// Prefer breaking at whitespace near the cut so words stay intact.
		cut := end
		if end < len(runes) {
			for j := end; j > i+step && j > i; j-- {
				if unicode.IsSpace(runes[j-1]) {
					cut = j
					break
				}
			}
		}

		chunks = append(chunks, string(runes[i:cut]))

		if end == len(runes) {
			break
		}
	}

	return chunks
}
