package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/dropandsum/internal/core"
	"github.com/JonMunkholm/dropandsum/internal/logging"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleStatus reports run limiter occupancy.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.limiter.Status())
}

// handleAggregate runs the engine over the request body.
//
// Query parameters: column (required), delimiter, sorted, sum_first,
// has_headers. Unset parameters take the configured defaults. The response
// body is exactly what the CLI would print.
func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	opts, err := s.optionsFromQuery(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.limiter.Acquire(r.Context()); err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	defer s.limiter.Release()

	ctx, runID := logging.WithRunID(r.Context())
	logger := logging.WithFields(ctx,
		"column", opts.Column,
		"delimiter", opts.Delimiter.Token(),
		"sorted", opts.Sorted,
		"sum_first", opts.SumFirst,
		"has_headers", opts.HasHeaders,
	)
	logger.Info("run started")

	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodySize)
	res, err := core.Aggregate(ctx, body, opts)
	if err != nil {
		respondError(w, r.WithContext(ctx), err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Run-ID", runID)
	w.Header().Set("X-Record-Count", strconv.Itoa(res.Records))
	w.Header().Set("X-Group-Count", strconv.Itoa(len(res.Entries)))

	stats, _ := core.Emit(w, res, opts)
	logger.Info("run completed",
		"records", res.Records,
		"groups", len(res.Entries),
		"rows_written", stats.Rows,
		"truncated", stats.Truncated,
	)
}

// optionsFromQuery resolves engine options from query parameters, falling
// back to the configured defaults.
func (s *Server) optionsFromQuery(r *http.Request) (core.Options, error) {
	q := r.URL.Query()
	defaults := s.cfg.Aggregate

	column, err := core.ParseColumn(q.Get("column"))
	if err != nil {
		return core.Options{}, err
	}

	token := defaults.Delimiter
	if q.Has("delimiter") {
		token = q.Get("delimiter")
	}
	delim, err := core.ParseDelimiter(token)
	if err != nil {
		return core.Options{}, err
	}

	opts := core.Options{Column: column, Delimiter: delim}
	flags := []struct {
		name string
		def  bool
		dst  *bool
	}{
		{"sorted", defaults.Sorted, &opts.Sorted},
		{"sum_first", defaults.SumFirst, &opts.SumFirst},
		{"has_headers", defaults.HasHeaders, &opts.HasHeaders},
	}
	for _, f := range flags {
		*f.dst = f.def
		if !q.Has(f.name) {
			continue
		}
		v := q.Get(f.name)
		if v == "" {
			*f.dst = true
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return core.Options{}, &queryError{param: f.name, value: v}
		}
		*f.dst = b
	}

	return opts, nil
}

// queryError reports an unparseable boolean query parameter.
type queryError struct {
	param string
	value string
}

func (e *queryError) Error() string {
	return "invalid boolean for " + e.param + ": " + strconv.Quote(e.value)
}
