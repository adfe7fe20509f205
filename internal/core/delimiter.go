package core

import (
	"strconv"
	"unicode/utf8"
)

// TabToken is the two-character escape accepted in place of a literal tab.
const TabToken = `\t`

// DefaultDelimiter separates fields when none is configured.
const DefaultDelimiter Delimiter = '\t'

// Delimiter is a single ASCII field separator.
type Delimiter byte

// ParseDelimiter resolves a user token to a Delimiter.
// The token must be exactly one ASCII character, or TabToken.
func ParseDelimiter(token string) (Delimiter, error) {
	if token == TabToken {
		return '\t', nil
	}
	if len(token) != 1 {
		return 0, &DelimiterError{Token: token}
	}
	if token[0] >= utf8.RuneSelf {
		return 0, &DelimiterError{Token: token}
	}
	return Delimiter(token[0]), nil
}

// Byte returns the separator byte.
func (d Delimiter) Byte() byte { return byte(d) }

// String returns the separator as a one-character string.
func (d Delimiter) String() string { return string([]byte{byte(d)}) }

// Token returns the form ParseDelimiter accepts for d, using TabToken for tab.
func (d Delimiter) Token() string {
	if d == '\t' {
		return TabToken
	}
	return d.String()
}

// ParseColumn parses a 1-based column index.
func ParseColumn(text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 0, &ColumnIndexError{Text: text}
	}
	return n, nil
}
