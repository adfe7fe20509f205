package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/JonMunkholm/dropandsum/internal/config"
	"github.com/JonMunkholm/dropandsum/internal/core"
	"github.com/JonMunkholm/dropandsum/internal/logging"
	"github.com/JonMunkholm/dropandsum/internal/sink"
	"github.com/JonMunkholm/dropandsum/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// aggregateFlags holds the engine flags shared by the root and load commands.
type aggregateFlags struct {
	index      string
	delimiter  string
	sorted     bool
	sumFirst   bool
	hasHeaders bool
}

func (f *aggregateFlags) bind(cmd *cobra.Command, defaults config.AggregateConfig) {
	fs := cmd.Flags()
	fs.StringVarP(&f.index, "index", "i", "", "1-based index of the column to sum (required)")
	fs.StringVarP(&f.delimiter, "delimiter", "d", defaults.Delimiter, `field delimiter, a single ASCII character or \t for tab`)
	fs.BoolVarP(&f.sorted, "sorted", "s", defaults.Sorted, "sort output by descending sum")
	fs.BoolVarP(&f.sumFirst, "sum-first", "f", defaults.SumFirst, "print the sum as the first field")
	fs.BoolVarP(&f.hasHeaders, "has-headers", "H", defaults.HasHeaders, "treat the first line as a header and pass it through")
	_ = cmd.MarkFlagRequired("index")
}

func (f *aggregateFlags) options() (core.Options, error) {
	column, err := core.ParseColumn(f.index)
	if err != nil {
		return core.Options{}, err
	}
	delim, err := core.ParseDelimiter(f.delimiter)
	if err != nil {
		return core.Options{}, err
	}
	return core.Options{
		Column:     column,
		Delimiter:  delim,
		Sorted:     f.sorted,
		SumFirst:   f.sumFirst,
		HasHeaders: f.hasHeaders,
	}, nil
}

// openInput opens the named file, or returns stdin for no argument or "-".
func openInput(args []string, stdin io.Reader) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(stdin), "stdin", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, args[0], fmt.Errorf("%w: %s: %v", core.ErrStreamOpen, args[0], err)
	}
	return f, args[0], nil
}

func newRootCmd(cfg *config.Config, stdin io.Reader, stdout io.Writer) *cobra.Command {
	var flags aggregateFlags

	cmd := &cobra.Command{
		Use:   "dropandsum [file]",
		Short: "Sum one column of a delimited table, grouping by all other columns",
		Long: `dropandsum groups the records of a delimited table by every field except
the value column, sums the value column per group and prints one row per
group with the sum back in place. Reads stdin when no file (or "-") is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			in, name, err := openInput(args, stdin)
			if err != nil {
				return err
			}
			defer in.Close()

			ctx, _ := logging.WithRunID(cmd.Context())
			logger := logging.WithFields(ctx, "input", name, "column", opts.Column)

			stats, err := core.Run(ctx, in, stdout, opts)
			if err != nil {
				return err
			}
			if stats.Truncated {
				logger.Debug("output closed early", "rows_written", stats.Rows)
			}
			return nil
		},
	}
	flags.bind(cmd, cfg.Aggregate)

	cmd.AddCommand(newServeCmd(cfg), newLoadCmd(cfg, stdin))
	return cmd
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the aggregation engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := web.NewServer(cfg)

			slog.Info("configuration loaded",
				"addr", cfg.Server.Addr(),
				"run_max_concurrent", cfg.Run.MaxConcurrent,
				"rate_limit_enabled", cfg.Rate.Enabled,
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				slog.Info("server starting", "addr", cfg.Server.Addr())
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				slog.Info("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			err := g.Wait()
			slog.Info("server stopped", "error", err)
			return err
		},
	}
}

func newLoadCmd(cfg *config.Config, stdin io.Reader) *cobra.Command {
	var (
		flags   aggregateFlags
		table   string
		columns []string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Aggregate a table and copy the rows into PostgreSQL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Database.URL == "" {
				return errors.New("DATABASE_URL is required for load")
			}

			opts, err := flags.options()
			if err != nil {
				return err
			}

			in, name, err := openInput(args, stdin)
			if err != nil {
				return err
			}
			defer in.Close()

			ctx, _ := logging.WithRunID(cmd.Context())

			// Aggregate before connecting so bad input never touches the pool.
			res, err := core.Aggregate(ctx, in, opts)
			if err != nil {
				return err
			}

			pool, err := connect(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			dst := &sink.Postgres{DB: pool, Table: table, Columns: columns, Replace: replace}
			n, err := dst.Write(ctx, res, opts)
			if err != nil {
				return err
			}

			logging.FromContext(ctx).Info("load complete",
				"input", name,
				"table", table,
				"records", res.Records,
				"rows", n,
			)
			fmt.Fprintf(cmd.ErrOrStderr(), "copied %d rows into %s\n", n, table)
			return nil
		},
	}
	flags.bind(cmd, cfg.Aggregate)
	cmd.Flags().StringVar(&table, "table", "", "destination table, optionally schema-qualified (required)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "destination column names in output order (default: from the header)")
	cmd.Flags().BoolVar(&replace, "replace", false, "truncate the table before copying")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

// connect opens and verifies a pool sized from the database config.
func connect(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MinConns = int32(db.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
