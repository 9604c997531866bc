package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	got := SplitText("short", 100, 10)
	if len(got) != 1 || got[0] != "short" {
		t.Errorf("SplitText(short) = %v", got)
	}
}

func TestSplitTextChunksAndOverlap(t *testing.T) {
	text := strings.Repeat("word ", 100) // 500 runes
	chunks := SplitText(text, 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 100 {
			t.Errorf("chunk %d exceeds size: %d runes", i, len([]rune(c)))
		}
	}
}

func TestSplitTextZeroChunkSize(t *testing.T) {
	got := SplitText("anything", 0, 0)
	if len(got) != 1 || got[0] != "anything" {
		t.Errorf("SplitText with chunkSize 0 = %v", got)
	}
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("x", 50)
	chunks := SplitText(text, 10, 20)
	// Must still terminate and cover the text.
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, "xxxxxxxxxx") {
		t.Error("content lost")
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("日本語テキスト ", 40)
	chunks := SplitText(text, 30, 5)
	for i, c := range chunks {
		if !strings.ContainsAny(c, "日本語テキスト ") && c != "" {
			t.Errorf("chunk %d corrupted: %q", i, c)
		}
		for _, r := range c {
			if r == '�' {
				t.Fatalf("chunk %d contains replacement rune, split mid-character", i)
			}
		}
	}
}
