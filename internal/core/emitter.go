package core

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// EmitStats describes what Emit wrote.
type EmitStats struct {
	Rows      int  // aggregated rows written, header excluded
	Truncated bool // the writer failed and emission stopped early
}

// Emit writes the header (if any) and one row per entry to w.
//
// A write failure stops emission and is not reported as an error: the
// reader went away, which is a normal way for a pipeline to end.
// Truncated is set instead.
func Emit(w io.Writer, res *Result, opts Options) (EmitStats, error) {
	var stats EmitStats
	bw := bufio.NewWriter(w)

	if res.HasHeader() {
		if !writeLine(bw, res.Header(opts)) {
			stats.Truncated = true
			return stats, nil
		}
	}

	for _, e := range res.Entries {
		if !writeLine(bw, FormatRow(e, opts)) {
			stats.Truncated = true
			return stats, nil
		}
		stats.Rows++
	}

	if err := bw.Flush(); err != nil {
		stats.Truncated = true
	}
	return stats, nil
}

func writeLine(bw *bufio.Writer, line string) bool {
	if _, err := bw.WriteString(line); err != nil {
		return false
	}
	return bw.WriteByte('\n') == nil
}

// FormatRow renders one aggregated row as text.
func FormatRow(e Entry, opts Options) string {
	sum := strconv.FormatUint(e.Sum, 10)
	if opts.SumFirst {
		var b strings.Builder
		b.Grow(len(sum) + 1 + len(e.Key))
		b.WriteString(sum)
		b.WriteByte(opts.Delimiter.Byte())
		b.WriteString(e.Key)
		return b.String()
	}
	return Join(insertField(Split(e.Key, opts.Delimiter), opts.Column-1, sum), opts.Delimiter)
}

// RowFields returns the fields of one aggregated row: the same layout
// FormatRow prints, with the sum as a number.
func RowFields(e Entry, opts Options) (fields []string, sumIndex int) {
	keyFields := Split(e.Key, opts.Delimiter)
	if opts.SumFirst {
		return insertField(keyFields, 0, ""), 0
	}
	idx := min(opts.Column-1, len(keyFields))
	return insertField(keyFields, idx, ""), idx
}
