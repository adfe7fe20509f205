// Package core is the aggregation engine behind dropandsum.
//
// It reads delimited text, groups records by every field except one value
// column, and writes one row per group with the value column replaced by
// the sum of its values. It has no knowledge of flags, files or HTTP; the
// CLI and the web transport hand it resolved [Options], an io.Reader and
// an io.Writer.
//
// # Pipeline
//
//  1. [NewLineReader] frames the input into lines (BOM dropped, CRLF
//     accepted, empty lines skipped)
//  2. [Split] cuts each line on the [Delimiter]; no quoting is interpreted
//  3. [Extract] pulls the value out of the target column and joins the
//     remaining fields into the group key
//  4. [Aggregator.Accumulate] adds the value to the key's running sum
//  5. [Emit] writes the header, then one row per key, sum first or spliced
//     back into its original column
//
// [Aggregate] runs steps 1-4 and returns a [Result]; [Run] also emits it.
//
// # Group keys
//
// A group key is the text of the remaining fields joined with the
// delimiter. Two records whose remaining fields differ only in where a
// delimiter falls inside a field produce the same key and are merged.
//
// # Errors
//
// The first malformed data line aborts the run. Error kinds are sentinel
// values ([ErrMissingColumn], [ErrInvalidValue], ...) wrapped by typed
// errors carrying the line and column; [MapError] turns them into
// user-facing messages with support codes.
//
// A failing output writer is not an error: [Emit] stops and reports
// Truncated, so a closed pipe ends the run cleanly.
package core
