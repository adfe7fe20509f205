// Package sink writes aggregated rows to external stores.
package sink

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/JonMunkholm/dropandsum/internal/core"
	"github.com/JonMunkholm/dropandsum/internal/logging"
	"github.com/jackc/pgx/v5"
)

// SumColumn names the sum column when it is emitted first.
const SumColumn = "sum"

var (
	ErrNoTable   = errors.New("sink: table name is required")
	ErrNoColumns = errors.New("sink: column names are required without a header")
)

// Beginner starts transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres copies aggregated rows into an existing table.
type Postgres struct {
	DB    Beginner
	Table string // optionally schema-qualified, e.g. "reports.totals"

	// Columns overrides the column names derived from the header record.
	Columns []string

	// Replace truncates the table inside the same transaction before copying.
	Replace bool
}

// Write copies every row of res in emission order and returns the number
// of rows copied. Either all rows land or none do.
func (p *Postgres) Write(ctx context.Context, res *core.Result, opts core.Options) (int64, error) {
	if strings.TrimSpace(p.Table) == "" {
		return 0, ErrNoTable
	}

	columns, err := p.columnNames(res, opts)
	if err != nil {
		return 0, err
	}
	rows, err := buildRows(res.Entries, opts, len(columns))
	if err != nil {
		return 0, err
	}

	table := pgx.Identifier(strings.Split(p.Table, "."))
	logger := logging.WithFields(ctx, "table", p.Table, "rows", len(rows))

	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if p.Replace {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+table.Sanitize()); err != nil {
			return 0, fmt.Errorf("truncate %s: %w", p.Table, err)
		}
	}

	var copied int64
	if len(rows) > 0 {
		copied, err = tx.CopyFrom(ctx, table, columns, pgx.CopyFromRows(rows))
		if err != nil {
			return 0, fmt.Errorf("copy into %s: %w", p.Table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	logger.Info("rows copied", "copied", copied, "replace", p.Replace)
	return copied, nil
}

// columnNames resolves the target columns in output field order.
func (p *Postgres) columnNames(res *core.Result, opts core.Options) ([]string, error) {
	if len(p.Columns) > 0 {
		return p.Columns, nil
	}
	if !res.HasHeader() {
		return nil, ErrNoColumns
	}

	header := res.HeaderRecord
	sumName := SumColumn
	if !opts.SumFirst && opts.Column <= len(header) {
		sumName = header[opts.Column-1]
	}

	// Same layout the emitter uses for data rows, applied to the header.
	fields, idx := core.RowFields(core.Entry{Key: res.Header(opts)}, opts)
	fields[idx] = sumName
	return fields, nil
}

// buildRows converts entries to COPY rows with the sum as bigint.
func buildRows(entries []core.Entry, opts core.Options, width int) ([][]any, error) {
	rows := make([][]any, 0, len(entries))
	for i, e := range entries {
		if e.Sum > math.MaxInt64 {
			return nil, fmt.Errorf("row %d: sum %d exceeds bigint range", i+1, e.Sum)
		}

		fields, idx := core.RowFields(e, opts)
		if len(fields) != width {
			return nil, fmt.Errorf("row %d has %d fields, table has %d columns", i+1, len(fields), width)
		}

		row := make([]any, len(fields))
		for j, f := range fields {
			row[j] = f
		}
		row[idx] = int64(e.Sum)
		rows = append(rows, row)
	}
	return rows, nil
}
