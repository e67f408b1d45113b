package service

import (
	"strings"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// chunkSeparator joins segments inside one chunk.
const chunkSeparator = "\n\n"

// ChunkAssembler merges budget-fitting segments into chunks close to the
// target token size, seeding each new chunk with the token tail of the
// previous one for retrieval continuity across boundaries.
type ChunkAssembler struct {
	tokenizer Tokenizer
	chunkSize int
	overlap   int
}

// NewChunkAssembler creates an assembler. An overlap at or above the chunk
// size is clamped to a quarter of it.
func NewChunkAssembler(tokenizer Tokenizer, chunkSizeTokens, overlapTokens int) *ChunkAssembler {
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	if overlapTokens >= chunkSizeTokens {
		overlapTokens = chunkSizeTokens / 4
	}
	return &ChunkAssembler{
		tokenizer: tokenizer,
		chunkSize: chunkSizeTokens,
		overlap:   overlapTokens,
	}
}

// Assemble runs a single pass over the ordered segments and returns the
// ordered chunks. Chunk order follows source order; token counts stay at
// or under the budget except where character-ratio estimates are involved.
func (a *ChunkAssembler) Assemble(segments []string) []types.Chunk {
	var chunks []types.Chunk
	var currentText string
	var currentTokens int
	fresh := false // buffer holds content beyond a bare overlap seed

	flush := func() {
		text := strings.TrimSpace(currentText)
		if text == "" {
			currentText, currentTokens, fresh = "", 0, false
			return
		}
		count := a.tokenizer.CountTokens(text)
		chunks = append(chunks, types.Chunk{Text: text, TokenCount: count})
		if a.overlap > 0 && count > 0 {
			ratio := len(text) / count
			if ratio < 1 {
				ratio = 1
			}
			keep := a.overlap * ratio
			if keep > len(text) {
				keep = len(text)
			}
			tail := strings.TrimSpace(text[len(text)-keep:])
			currentText = tail
			currentTokens = a.tokenizer.CountTokens(tail)
		} else {
			currentText, currentTokens = "", 0
		}
		fresh = false
	}

	// add folds one budget-fitting piece into the buffer, flushing first
	// when the joined buffer would overflow.
	add := func(piece string, pieceTokens int) {
		if currentText == "" {
			currentText, currentTokens = piece, pieceTokens
			fresh = true
			return
		}
		if currentTokens+pieceTokens+1 <= a.chunkSize {
			currentText += chunkSeparator + piece
			currentTokens += pieceTokens + 1
			fresh = true
			return
		}
		flush()
		// The overlap seed survives the flush only while the fresh chunk
		// still fits the budget with it; the budget wins over overlap.
		if currentText != "" && currentTokens+pieceTokens+1 > a.chunkSize {
			currentText, currentTokens = "", 0
		}
		if currentText == "" {
			currentText, currentTokens = piece, pieceTokens
		} else {
			currentText += chunkSeparator + piece
			currentTokens += pieceTokens + 1
		}
		fresh = true
	}

	for _, segment := range segments {
		segTokens := a.tokenizer.CountTokens(segment)
		if segTokens >= a.chunkSize {
			for _, piece := range a.forceSplit(segment, segTokens) {
				add(piece, a.tokenizer.CountTokens(piece))
			}
			continue
		}
		add(segment, segTokens)
	}
	if fresh {
		flush()
	}
	return chunks
}

// forceSplit cuts a segment that alone meets or exceeds the chunk size
// into fixed-width pieces, using the same characters-per-token estimate as
// the splitter's slicing fallback.
func (a *ChunkAssembler) forceSplit(segment string, segTokens int) []string {
	if segTokens <= 0 {
		segTokens = 1
	}
	ratio := len(segment) / segTokens
	if ratio < 1 {
		ratio = 1
	}
	width := a.chunkSize * ratio
	if width < minSliceWidth {
		width = minSliceWidth
	}

	var pieces []string
	for start := 0; start < len(segment); {
		end := cutAtRune(segment, start+width)
		piece := strings.TrimSpace(segment[start:end])
		if piece != "" {
			pieces = append(pieces, piece)
		}
		start = end
	}
	return pieces
}
