package service

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Tokenizer counts and encodes text into model-specific tokens. Tokens are
// used only for sizing decisions and never stored. A tokenizer is owned by
// a single ingestion call; the owner must Close it on every exit path.
type Tokenizer interface {
	CountTokens(text string) int
	Encode(text string) []int
	Close() error
}

type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTokenizer returns a tokenizer for the given model identifier. Models
// unknown to tiktoken fall back to the cl100k_base encoding so counts stay
// deterministic per identifier.
func NewTokenizer(model string) (Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("failed to init tokenizer for model %s: %w", model, err)
		}
	}
	return &tiktokenTokenizer{enc: enc}, nil
}

func (t *tiktokenTokenizer) CountTokens(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

func (t *tiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *tiktokenTokenizer) Close() error {
	t.enc = nil
	return nil
}
