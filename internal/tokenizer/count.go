package tokenizer

import (
	"errors"
	"unicode/utf8"

	"github.com/tyemirov/pj/internal/classify"
	"github.com/tyemirov/pj/internal/types"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting a byte slice.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for data, skipping content that is not text.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if classify.IsBinary(data) || !utf8.Valid(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, err := counter.CountString(string(data))
	if err != nil {
		return CountResult{}, err
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

// CountSections sums the tokens of every text section of a dump.
func CountSections(counter Counter, sections []types.DumpSection) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	total := 0
	for _, section := range sections {
		if !section.IsText() {
			continue
		}
		result, err := CountBytes(counter, []byte(section.Classification.Content))
		if err != nil {
			return 0, err
		}
		total += result.Tokens
	}
	return total, nil
}
