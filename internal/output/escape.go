package output

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const quoteCharacter = `"`

// displayText returns text unchanged unless it would break the one-line
// layout: names with control characters or invalid UTF-8 are Go-quoted, and so
// are names that already start with a quote, which keeps the form reversible.
func displayText(text string) string {
	if strings.HasPrefix(text, quoteCharacter) || !utf8.ValidString(text) || strings.IndexFunc(text, unicode.IsControl) >= 0 {
		return strconv.Quote(text)
	}
	return text
}

// parseDisplayText reverses displayText.
func parseDisplayText(text string) string {
	if !strings.HasPrefix(text, quoteCharacter) {
		return text
	}
	unquoted, unquoteError := strconv.Unquote(text)
	if unquoteError != nil {
		return text
	}
	return unquoted
}
