package core

import "strconv"

// Extract separates record into the value held in the 1-based column and
// the group key formed by the remaining fields joined with d.
// line is the 1-based data line number used in error reports.
func Extract(record []string, column int, d Delimiter, line int) (uint64, string, error) {
	idx := column - 1
	if idx < 0 || idx >= len(record) {
		return 0, "", &RecordError{Kind: ErrMissingColumn, Column: column, Line: line}
	}

	value, ok := parseValue(record[idx])
	if !ok {
		return 0, "", &RecordError{Kind: ErrInvalidValue, Column: column, Line: line, Text: record[idx]}
	}

	return value, Join(dropField(record, idx), d), nil
}

// parseValue parses a non-negative decimal integer. A single leading '+'
// is accepted; whitespace and '-' are not.
func parseValue(text string) (uint64, bool) {
	digits := text
	if len(digits) > 1 && digits[0] == '+' {
		digits = digits[1:]
	}
	if digits == "" || digits[0] < '0' || digits[0] > '9' {
		return 0, false
	}
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
