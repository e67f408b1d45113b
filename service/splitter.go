package service

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators orders split points from coarse to fine. The final
// empty entry means "split anywhere" and triggers character slicing.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

const minSliceWidth = 200

// Splitter recursively breaks raw text into segments that each fit a
// token budget, trying coarse separators before finer ones.
type Splitter struct {
	tokenizer  Tokenizer
	maxTokens  int
	separators []string
}

// NewSplitter creates a splitter with the default separator ladder.
func NewSplitter(tokenizer Tokenizer, maxTokens int) *Splitter {
	return &Splitter{
		tokenizer:  tokenizer,
		maxTokens:  maxTokens,
		separators: DefaultSeparators,
	}
}

// Split returns trimmed, non-empty segments in source order. Every segment
// fits the token budget except for the character-slicing fallback, whose
// average-ratio estimate can land marginally off.
func (s *Splitter) Split(text string) []string {
	return s.split(text, 0)
}

func (s *Splitter) split(text string, depth int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if s.tokenizer.CountTokens(text) <= s.maxTokens {
		return []string{text}
	}
	if depth >= len(s.separators) || s.separators[depth] == "" {
		return s.sliceByChars(text)
	}

	var segments []string
	// SplitAfter keeps the separator attached, so no characters are lost;
	// trimming only ever removes whitespace.
	for _, part := range strings.SplitAfter(text, s.separators[depth]) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if s.tokenizer.CountTokens(part) <= s.maxTokens {
			segments = append(segments, part)
			continue
		}
		segments = append(segments, s.split(part, depth+1)...)
	}
	return segments
}

// sliceByChars cuts text into contiguous fixed-width slices using an
// average characters-per-token ratio. The ratio is an estimate, not a
// per-character measure; re-encoding every slice would be exact but far
// slower.
func (s *Splitter) sliceByChars(text string) []string {
	tokens := s.tokenizer.CountTokens(text)
	if tokens <= 0 {
		tokens = 1
	}
	ratio := len(text) / tokens
	if ratio < 1 {
		ratio = 1
	}
	width := s.maxTokens * ratio
	if width < minSliceWidth {
		width = minSliceWidth
	}

	var slices []string
	for start := 0; start < len(text); {
		end := cutAtRune(text, start+width)
		slice := strings.TrimSpace(text[start:end])
		if slice != "" {
			slices = append(slices, slice)
		}
		start = end
	}
	return slices
}

// cutAtRune moves a byte offset back to the nearest rune start so a
// fixed-width cut cannot split a multi-byte character.
func cutAtRune(text string, end int) int {
	if end >= len(text) {
		return len(text)
	}
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}
