// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of external tool invocations so that
// conversion runs can be audited after the fact.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/gribtools/internal/toolrun"
)

const (
	defaultLimit = 50
	// stderrLimit caps the diagnostic text kept per run.
	stderrLimit = 4096
)

// Entry is one recorded tool invocation.
type Entry struct {
	ID         int64         `json:"id" yaml:"id"`
	Tool       string        `json:"tool" yaml:"tool"`
	Args       []string      `json:"args" yaml:"args"`
	Input      string        `json:"input" yaml:"input"`
	Output     string        `json:"output" yaml:"output"`
	ExitCode   int           `json:"exit_code" yaml:"exit_code"`
	Stderr     string        `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Filter narrows List results.
type Filter struct {
	// Tool keeps only runs of the named binary.
	Tool string
	// FailedOnly keeps only runs with a non-zero exit code.
	FailedOnly bool
	// Limit caps the number of entries. Zero uses the default; negative
	// means no limit.
	Limit int
}

// Ledger manages the history database.
type Ledger struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the history database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db, path: path, now: time.Now}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file location.
func (l *Ledger) Path() string { return l.path }

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool TEXT NOT NULL,
			args TEXT NOT NULL,
			input TEXT,
			output TEXT,
			exit_code INTEGER NOT NULL,
			stderr TEXT,
			finished_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_tool ON runs(tool)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_output ON runs(output)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores one invocation. It satisfies convert.Recorder.
func (l *Ledger) RecordRun(ctx context.Context, input, output string, res toolrun.Result) error {
	argsJSON, err := json.Marshal(res.Args)
	if err != nil {
		return fmt.Errorf("encoding args: %w", err)
	}

	stderr := truncateUTF8(res.Stderr, stderrLimit)

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO runs (tool, args, input, output, exit_code, stderr, finished_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		filepath.Base(res.Name), string(argsJSON), input, output, res.ExitCode, stderr,
		l.now().UTC().Format(time.RFC3339Nano), res.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting run for %s: %w", input, err)
	}
	return nil
}

// List returns recorded runs, newest first.
func (l *Ledger) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, tool, args, input, output, exit_code, stderr, finished_at, duration_ms
		FROM runs WHERE 1=1`)
	if f.Tool != "" {
		qb.WriteString(` AND tool = ?`)
		args = append(args, filepath.Base(f.Tool))
	}
	if f.FailedOnly {
		qb.WriteString(` AND exit_code != 0`)
	}
	qb.WriteString(` ORDER BY id DESC`)

	limit := f.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			argsJSON   string
			input      sql.NullString
			output     sql.NullString
			stderr     sql.NullString
			finishedAt string
			durationMS int64
		)
		if err := rows.Scan(&e.ID, &e.Tool, &argsJSON, &input, &output,
			&e.ExitCode, &stderr, &finishedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if err := json.Unmarshal([]byte(argsJSON), &e.Args); err != nil {
			return nil, fmt.Errorf("decoding args of run %d: %w", e.ID, err)
		}
		e.Input, e.Output, e.Stderr = input.String, output.String, stderr.String
		if e.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("decoding finish time of run %d: %w", e.ID, err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
