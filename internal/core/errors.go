package core

import (
	"errors"
	"fmt"
)

// Error kinds reported by the engine. Match them with errors.Is; the typed
// errors below carry the details.
var (
	ErrInvalidDelimiter   = errors.New("invalid delimiter")
	ErrInvalidColumnIndex = errors.New("invalid column index")
	ErrMissingColumn      = errors.New("missing column")
	ErrInvalidValue       = errors.New("invalid value")
	ErrStreamOpen         = errors.New("cannot open input")
	ErrSumOverflow        = errors.New("sum overflow")
)

// DelimiterError reports a delimiter token that is not a single ASCII byte.
type DelimiterError struct {
	Token string
}

func (e *DelimiterError) Error() string {
	if len(e.Token) == 1 {
		return fmt.Sprintf("could not convert %q to ASCII delimiter", e.Token)
	}
	return fmt.Sprintf("could not convert %q to a single ASCII character", e.Token)
}

func (e *DelimiterError) Unwrap() error { return ErrInvalidDelimiter }

// ColumnIndexError reports a column argument that is not a positive integer.
type ColumnIndexError struct {
	Text string
}

func (e *ColumnIndexError) Error() string {
	return fmt.Sprintf("invalid column index %q: must be a positive integer", e.Text)
}

func (e *ColumnIndexError) Unwrap() error { return ErrInvalidColumnIndex }

// RecordError reports a data line that cannot be aggregated.
// Kind is ErrMissingColumn, ErrInvalidValue or ErrSumOverflow.
type RecordError struct {
	Kind   error
	Column int    // 1-based target column
	Line   int    // 1-based data line number
	Text   string // offending field text, empty for ErrMissingColumn
}

func (e *RecordError) Error() string {
	switch e.Kind {
	case ErrMissingColumn:
		return fmt.Sprintf("could not get value of column %d on line %d", e.Column, e.Line)
	case ErrInvalidValue:
		return fmt.Sprintf("invalid value %q in column %d on line %d: must be a non-negative integer",
			e.Text, e.Column, e.Line)
	case ErrSumOverflow:
		return fmt.Sprintf("sum overflow adding %s on line %d", e.Text, e.Line)
	default:
		return fmt.Sprintf("line %d: %v", e.Line, e.Kind)
	}
}

func (e *RecordError) Unwrap() error { return e.Kind }
