package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/dropandsum/internal/config"
	"github.com/JonMunkholm/dropandsum/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		Aggregate: config.AggregateConfig{Delimiter: `\t`},
		Logging:   config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func execute(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(cfg, strings.NewReader(stdin), &out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "no duplicates",
			stdin: "a\t1\tx\na\t2\ty\nb\t5\tz\n",
			args:  []string{"-i", "2"},
			want:  "a\t1\tx\na\t2\ty\nb\t5\tz\n",
		},
		{
			name:  "duplicates merged",
			stdin: "a\t1\tx\na\t2\tx\nb\t5\tz\n",
			args:  []string{"-i", "2"},
			want:  "a\t3\tx\nb\t5\tz\n",
		},
		{
			name:  "sum first",
			stdin: "a\t1\tx\na\t2\tx\nb\t5\tz\n",
			args:  []string{"--index", "2", "--sum-first"},
			want:  "3\ta\tx\n5\tb\tz\n",
		},
		{
			name:  "sorted with headers and dash",
			stdin: "name,n\na,1\nb,7\na,2\n",
			args:  []string{"-", "-i", "2", "-d", ",", "-s", "-H"},
			want:  "name\nb,7\na,3\n",
		},
		{
			name:  "explicit tab token",
			stdin: "k\t4\nk\t6\n",
			args:  []string{"-i", "2", "-d", `\t`},
			want:  "k\t10\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, testConfig(), tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRootCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte("x;2\nx;3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := execute(t, testConfig(), "", path, "-i", "2", "-d", ";")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "x;5\n" {
		t.Errorf("output = %q, want %q", got, "x;5\n")
	}
}

func TestRootCommand_ConfigDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.Aggregate = config.AggregateConfig{Delimiter: "|", SumFirst: true}

	got, err := execute(t, cfg, "a|1\na|1\n", "-i", "2")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "2|a\n" {
		t.Errorf("output = %q, want %q", got, "2|a\n")
	}

	got, err = execute(t, cfg, "a|1\na|1\n", "-i", "2", "--sum-first=false")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "a|2\n" {
		t.Errorf("flag override output = %q, want %q", got, "a|2\n")
	}
}

func TestRootCommand_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.tsv")

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr error
		wantMsg string
	}{
		{"missing index", "a\t1\n", nil, nil, `required flag(s) "index" not set`},
		{"zero index", "a\t1\n", []string{"-i", "0"}, core.ErrInvalidColumnIndex, ""},
		{"bad delimiter", "a\t1\n", []string{"-i", "1", "-d", "::"}, core.ErrInvalidDelimiter, ""},
		{"missing file", "", []string{missing, "-i", "1"}, core.ErrStreamOpen, "missing.tsv"},
		{"invalid value", "a\tXYZ\tz\n", []string{"-i", "2"}, core.ErrInvalidValue, `"XYZ"`},
		{"short line", "a\t1\nb\n", []string{"-i", "2"}, core.ErrMissingColumn, "line 2"},
		{"too many args", "", []string{"a", "b", "-i", "1"}, nil, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, testConfig(), tt.stdin, tt.args...)
			if err == nil {
				t.Fatal("Execute() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Execute() error = %q, want it to contain %q", err, tt.wantMsg)
			}
			if out != "" {
				t.Errorf("output = %q, want none on error", out)
			}
		})
	}
}

type closedWriter struct{}

func (closedWriter) Write(p []byte) (int, error) { return 0, os.ErrClosed }

func TestRootCommand_ClosedOutputIsClean(t *testing.T) {
	cmd := newRootCmd(testConfig(), strings.NewReader("a\t1\nb\t2\n"), closedWriter{})
	cmd.SetArgs([]string{"-i", "2"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("Execute() error = %v, want nil", err)
	}
}

func TestLoadCommand_RequiresDatabaseURL(t *testing.T) {
	_, err := execute(t, testConfig(), "a\t1\n", "load", "-i", "2", "--table", "totals")
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("Execute() error = %v, want DATABASE_URL error", err)
	}
}

func TestLoadCommand_BadInputSkipsDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.Database.URL = "postgres://nobody@127.0.0.1:1/none"

	_, err := execute(t, cfg, "a\tbad\n", "load", "-i", "2", "--table", "totals")
	if !errors.Is(err, core.ErrInvalidValue) {
		t.Errorf("Execute() error = %v, want ErrInvalidValue", err)
	}
}

func TestLoadCommand_RequiresTable(t *testing.T) {
	_, err := execute(t, testConfig(), "", "load", "-i", "2")
	if err == nil || !strings.Contains(err.Error(), `"table"`) {
		t.Errorf("Execute() error = %v, want required table error", err)
	}
}
