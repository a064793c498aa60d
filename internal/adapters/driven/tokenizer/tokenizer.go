// Package tokenizer counts model tokens for the token budgets.
//
// OpenAI models are counted with their tiktoken encoding. Models without a
// known encoding use cl100k_base. When no encoding can be loaded (the BPE
// ranks are downloaded on first use) counting falls back to a heuristic
// that slightly overestimates English text.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"

	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// FallbackEncoding is used for models tiktoken does not know.
const FallbackEncoding = "cl100k_base"

var (
	_ driven.TokenCounter = (*Tiktoken)(nil)
	_ driven.TokenCounter = Heuristic{}
)

// Tiktoken counts tokens with a BPE encoding.
type Tiktoken struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktoken loads the encoding for model.
func NewTiktoken(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(FallbackEncoding)
		if err != nil {
			return nil, err
		}
	}
	return &Tiktoken{encoding: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// New returns a tiktoken counter for model, or the heuristic counter when
// the encoding cannot be loaded.
func New(model string) driven.TokenCounter {
	counter, err := NewTiktoken(model)
	if err != nil {
		logger.Warn("token encoding for %s unavailable, estimating token counts: %v", model, err)
		return Heuristic{}
	}
	logger.Debug("counting tokens for %s with tiktoken", model)
	return counter
}

// Heuristic estimates token counts without an encoding. It returns the
// larger of the word and punctuation count and 1.3 tokens per word.
type Heuristic struct{}

// Count returns the estimated number of tokens in text.
func (Heuristic) Count(text string) int {
	if text == "" {
		return 0
	}

	tokens := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if inWord {
				tokens++
				inWord = false
			}
		case unicode.IsPunct(r):
			if inWord {
				tokens++
			}
			tokens++
			inWord = false
		default:
			inWord = true
		}
	}
	if inWord {
		tokens++
	}

	estimated := int(float64(len(strings.Fields(text))) * 1.3)
	if estimated > tokens {
		return estimated
	}
	return tokens
}
