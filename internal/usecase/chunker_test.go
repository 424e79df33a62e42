package usecase

import (
	"strings"
	"testing"
)

func TestChunkTextReconstructsInput(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("abcdefghij", 1234)
	chunks := chunkText(text, 5000)

	if got := strings.Join(chunks, ""); got != text {
		t.Fatalf("concatenated chunks do not reproduce the input")
	}

	for i, chunk := range chunks[:len(chunks)-1] {
		if len([]rune(chunk)) != 5000 {
			t.Fatalf("chunk %d has length %d, want 5000", i, len([]rune(chunk)))
		}
	}

	last := chunks[len(chunks)-1]
	if len([]rune(last)) == 0 || len([]rune(last)) > 5000 {
		t.Fatalf("last chunk has length %d", len([]rune(last)))
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	t.Parallel()

	if chunks := chunkText("", 5000); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty input, got %d", len(chunks))
	}
}

func TestChunkTextShortInput(t *testing.T) {
	t.Parallel()

	chunks := chunkText("short", 5000)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Fatalf("unexpected chunks: %#v", chunks)
	}
}

func TestChunkTextMultiByteRunes(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("日本語ニュース", 3)
	chunks := chunkText(text, 4)

	if got := strings.Join(chunks, ""); got != text {
		t.Fatalf("multi-byte input not reproduced: %q", got)
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if n := len([]rune(chunk)); n != 4 {
			t.Fatalf("chunk %d has %d runes, want 4", i, n)
		}
	}
}
