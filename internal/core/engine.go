package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/JonMunkholm/dropandsum/internal/logging"
)

// ContextCheckInterval is how often (in records) Aggregate checks for
// context cancellation.
var ContextCheckInterval = 100

// Options is the resolved configuration for one run.
type Options struct {
	Column     int       // 1-based column holding the value to sum
	Delimiter  Delimiter // field separator
	Sorted     bool      // order rows by descending sum
	SumFirst   bool      // print the sum as the first field
	HasHeaders bool      // pass the first line through unaggregated
}

// Validate checks that the options can drive a run.
func (o Options) Validate() error {
	if o.Column < 1 {
		return &ColumnIndexError{Text: strconv.Itoa(o.Column)}
	}
	if o.Delimiter.Byte() >= 0x80 {
		return &DelimiterError{Token: o.Delimiter.String()}
	}
	return nil
}

// Result is the aggregated state of a consumed input, ready to emit.
type Result struct {
	// HeaderRecord is the full first record when HasHeaders is set and the
	// input was not empty.
	HeaderRecord []string

	// Entries are in emission order: descending sum when Sorted, first-seen
	// order otherwise.
	Entries []Entry

	Records   int   // data records aggregated
	BytesRead int64 // bytes consumed from the input
}

// HasHeader reports whether a header line will be emitted.
func (r *Result) HasHeader() bool {
	return r.HeaderRecord != nil
}

// Header returns the header line with the value column removed.
func (r *Result) Header(opts Options) string {
	return Join(dropField(r.HeaderRecord, opts.Column-1), opts.Delimiter)
}

// Aggregate consumes r and groups its records per opts. It fails on the
// first malformed data line; nothing is returned for partial input.
func Aggregate(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	lines := NewLineReader(r)
	res := &Result{}

	if opts.HasHeaders {
		line, err := lines.Next()
		switch {
		case errors.Is(err, io.EOF):
			res.BytesRead = lines.BytesRead()
			return res, nil
		case err != nil:
			return nil, fmt.Errorf("read header: %w", err)
		}
		res.HeaderRecord = Split(line, opts.Delimiter)
	}

	agg := NewAggregator()
	for lineNo := 1; ; lineNo++ {
		if lineNo%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("aggregation cancelled at line %d: %w", lineNo, err)
			}
		}

		line, err := lines.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", lineNo, err)
		}

		value, key, err := Extract(Split(line, opts.Delimiter), opts.Column, opts.Delimiter, lineNo)
		if err != nil {
			return nil, err
		}
		if err := agg.Accumulate(key, value); err != nil {
			return nil, &RecordError{Kind: err, Column: opts.Column, Line: lineNo, Text: strconv.FormatUint(value, 10)}
		}
		res.Records++
	}

	if opts.Sorted {
		res.Entries = agg.Sorted()
	} else {
		res.Entries = agg.Entries()
	}
	res.BytesRead = lines.BytesRead()

	logging.FromContext(ctx).Debug("input aggregated",
		"records", res.Records,
		"groups", len(res.Entries),
		"bytes", res.BytesRead,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return res, nil
}

// Run aggregates r and writes the result to w.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts Options) (EmitStats, error) {
	res, err := Aggregate(ctx, r, opts)
	if err != nil {
		return EmitStats{}, err
	}
	return Emit(w, res, opts)
}
