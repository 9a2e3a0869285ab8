package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	text := "Stripe lets you create a Checkout Session via the API."
	chunks := Split(text, 50, 10)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("chunk text = %q, want full text", chunks[0].Text)
	}
	if chunks[0].Start != 0 || chunks[0].End != len([]rune(text)) {
		t.Errorf("offsets = [%d,%d), want [0,%d)", chunks[0].Start, chunks[0].End, len([]rune(text)))
	}
}

func TestSplitEmptyAndWhitespace(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t  \n"} {
		if chunks := Split(text, 10, 2); chunks != nil {
			t.Errorf("Split(%q) = %v, want nil", text, chunks)
		}
	}
}

func TestSplitInvalidWindow(t *testing.T) {
	if chunks := Split("some text here", 0, 0); chunks != nil {
		t.Errorf("window=0 should return nil, got %v", chunks)
	}
	if chunks := Split("some text here", 5, 5); chunks != nil {
		t.Errorf("overlap=window should return nil, got %v", chunks)
	}
}

func TestSplitCoverageAndOverlap(t *testing.T) {
	words := make([]string, 137)
	for i := range words {
		words[i] = "w" + strings.Repeat("x", i%7)
	}
	text := strings.Join(words, " ")
	window, overlap := 20, 5
	chunks := Split(text, window, overlap)

	if chunks[0].Start != 0 {
		t.Errorf("first chunk starts at %d, want 0", chunks[0].Start)
	}
	if last := chunks[len(chunks)-1]; last.End != len([]rune(text)) {
		t.Errorf("last chunk ends at %d, want %d", last.End, len([]rune(text)))
	}

	runes := []rune(text)
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.Text != string(runes[c.Start:c.End]) {
			t.Errorf("chunk %d text does not match its offsets", i)
		}
		if got := len(strings.Fields(c.Text)); got > window {
			t.Errorf("chunk %d holds %d words, window is %d", i, got, window)
		}
	}

	// Consecutive chunks share exactly `overlap` words.
	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Text)
		cur := strings.Fields(chunks[i].Text)
		shared := prev[len(prev)-overlap:]
		for j, w := range shared {
			if cur[j] != w {
				t.Fatalf("chunks %d/%d overlap mismatch at word %d: %q vs %q", i-1, i, j, w, cur[j])
			}
		}
		// No word gap between consecutive chunks.
		if chunks[i].Start > chunks[i-1].End {
			t.Errorf("gap between chunk %d and %d", i-1, i)
		}
	}
}

func TestSplitNoOverlap(t *testing.T) {
	text := "a b c d e f g"
	chunks := Split(text, 3, 0)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	want := []string{"a b c", "d e f", "g"}
	for i, c := range chunks {
		if c.Text != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, c.Text, want[i])
		}
	}
}

func TestSplitUnicodeOffsets(t *testing.T) {
	text := "héllo wörld ünicode tëxt"
	chunks := Split(text, 2, 1)
	runes := []rune(text)
	for i, c := range chunks {
		if c.Text != string(runes[c.Start:c.End]) {
			t.Errorf("chunk %d offsets broken on multibyte text", i)
		}
	}
	if len(chunks) != 3 {
		t.Errorf("expected 3 chunks, got %d", len(chunks))
	}
}
