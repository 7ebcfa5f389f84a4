// Package tokenizer estimates token counts for exported file content.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is the tokenizer model used when none is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model along with the name of
// the model or encoding that was actually resolved. Unknown models fall back
// to the default encoding.
func NewCounter(model string) (Counter, string, error) {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultModel
	}
	lowerModel := strings.ToLower(trimmedModel)

	encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
	if encodingError == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: lowerModel}, trimmedModel, nil
	}

	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, fmt.Errorf("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
