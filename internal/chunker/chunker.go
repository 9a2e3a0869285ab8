package chunker

import "unicode"

// Chunk is a windowed piece of a source document. Start and End are rune
// offsets into the original text, so Text is always a verbatim substring.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

type word struct {
	start int // rune offset of the first rune
	end   int // rune offset one past the last rune
}

// Split cuts text into overlapping windows of `window` words, advancing by
// `window - overlap` words per chunk. The last window is clipped to the end of
// the text. Returns nil for empty or whitespace-only input and for invalid
// window/overlap combinations (overlap must be smaller than window).
func Split(text string, window, overlap int) []Chunk {
	if window <= 0 || overlap < 0 || overlap >= window {
		return nil
	}

	runes := []rune(text)
	words := scanWords(runes)
	if len(words) == 0 {
		return nil
	}

	step := window - overlap
	var chunks []Chunk
	for start := 0; start < len(words); start += step {
		end := start + window
		if end > len(words) {
			end = len(words)
		}
		from, to := words[start].start, words[end-1].end
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: from,
			End:   to,
			Text:  string(runes[from:to]),
		})
		if end == len(words) {
			break
		}
	}
	return chunks
}

func scanWords(runes []rune) []word {
	var words []word
	inWord := false
	for i, r := range runes {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			words = append(words, word{start: i, end: i + 1})
			inWord = true
		} else {
			words[len(words)-1].end = i + 1
		}
	}
	return words
}
