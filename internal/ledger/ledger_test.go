// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gribtools/internal/toolrun"
)

// --- test helpers ---

func testLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	tmpDir := t.TempDir()
	l, err := Open(filepath.Join(tmpDir, "state", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return l, tmpDir
}

func record(t *testing.T, l *Ledger, in, out string, res toolrun.Result) {
	t.Helper()
	if err := l.RecordRun(context.Background(), in, out, res); err != nil {
		t.Fatal(err)
	}
}

func seed(t *testing.T, l *Ledger) {
	t.Helper()
	record(t, l, "a.grib", "a.nc", toolrun.Result{
		Name: "/opt/eccodes/bin/grib_to_netcdf", Args: []string{"-o", "a.nc", "a.grib"},
		Duration: 1500 * time.Millisecond,
	})
	record(t, l, "b.grib", "b_2t.grib", toolrun.Result{
		Name: "grib_copy", Args: []string{"-w", "shortName=2t", "b.grib", "b_2t.grib"},
		ExitCode: 1, Stderr: "ECCODES ERROR: no messages found",
	})
	record(t, l, "c.grib", "c.nc", toolrun.Result{
		Name: "grib_to_netcdf", Args: []string{"-o", "c.nc", "c.grib"},
	})
}

// --- tests ---

func TestOpenCreatesDatabase(t *testing.T) {
	l, tmpDir := testLedger(t)
	if _, err := os.Stat(filepath.Join(tmpDir, "state", "history.db")); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
	if l.Path() != filepath.Join(tmpDir, "state", "history.db") {
		t.Errorf("Path() = %q", l.Path())
	}

	var n int
	if err := l.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='runs'`,
	).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("runs table count = %d, want 1", n)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 2; i++ {
		l, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		l.Close()
	}
}

func TestRecordAndList(t *testing.T) {
	l, _ := testLedger(t)
	seed(t, l)

	entries, err := l.List(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Newest first.
	if entries[0].Input != "c.grib" || entries[2].Input != "a.grib" {
		t.Errorf("unexpected order: %q, %q", entries[0].Input, entries[2].Input)
	}

	oldest := entries[2]
	if oldest.Tool != "grib_to_netcdf" {
		t.Errorf("tool = %q, want base name grib_to_netcdf", oldest.Tool)
	}
	if len(oldest.Args) != 3 || oldest.Args[1] != "a.nc" {
		t.Errorf("args = %v", oldest.Args)
	}
	if oldest.Duration != 1500*time.Millisecond {
		t.Errorf("duration = %v, want 1.5s", oldest.Duration)
	}
	if oldest.FinishedAt.IsZero() {
		t.Error("finished_at should be set")
	}
}

func TestListFilters(t *testing.T) {
	l, _ := testLedger(t)
	seed(t, l)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "by tool", filter: Filter{Tool: "grib_to_netcdf"}, want: []string{"c.grib", "a.grib"}},
		{name: "by tool path", filter: Filter{Tool: "/usr/bin/grib_copy"}, want: []string{"b.grib"}},
		{name: "failed only", filter: Filter{FailedOnly: true}, want: []string{"b.grib"}},
		{name: "limit", filter: Filter{Limit: 1}, want: []string{"c.grib"}},
		{name: "unlimited", filter: Filter{Limit: -1}, want: []string{"c.grib", "b.grib", "a.grib"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := l.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Input)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestRecordTruncatesStderr(t *testing.T) {
	l, _ := testLedger(t)
	long := make([]byte, stderrLimit*2)
	for i := range long {
		long[i] = 'x'
	}
	record(t, l, "a.grib", "a.nc", toolrun.Result{Name: "grib_to_netcdf", ExitCode: 2, Stderr: string(long)})

	entries, err := l.List(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries[0].Stderr) != stderrLimit {
		t.Errorf("stderr length = %d, want %d", len(entries[0].Stderr), stderrLimit)
	}
}

func TestRecordTruncatesStderrOnRuneBoundary(t *testing.T) {
	l, _ := testLedger(t)
	// "ab" shifts the three-byte runes so the byte limit lands mid-rune.
	msg := "ab" + strings.Repeat("你", 2000)
	record(t, l, "a.grib", "a.nc", toolrun.Result{Name: "grib_to_netcdf", ExitCode: 1, Stderr: msg})

	entries, err := l.List(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	got := entries[0].Stderr
	if !utf8.ValidString(got) {
		t.Error("stored stderr is not valid UTF-8")
	}
	if len(got) > stderrLimit || len(got) < stderrLimit-utf8.UTFMax {
		t.Errorf("stderr length = %d, want just under %d", len(got), stderrLimit)
	}
	if !strings.HasPrefix(msg, got) {
		t.Error("stored stderr should be a prefix of the original")
	}
}

func TestListRejectsCorruptRows(t *testing.T) {
	tests := []struct {
		name       string
		args       string
		finishedAt string
		wantErr    string
	}{
		{name: "bad args", args: "not json", finishedAt: "2024-03-01T12:00:00Z", wantErr: "decoding args"},
		{name: "bad finish time", args: `["-o","a.nc"]`, finishedAt: "yesterday", wantErr: "decoding finish time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := testLedger(t)
			if _, err := l.db.Exec(
				`INSERT INTO runs (tool, args, input, output, exit_code, stderr, finished_at, duration_ms)
				 VALUES ('grib_to_netcdf', ?, 'a.grib', 'a.nc', 0, '', ?, 0)`,
				tt.args, tt.finishedAt,
			); err != nil {
				t.Fatal(err)
			}

			_, err := l.List(context.Background(), Filter{})
			if err == nil {
				t.Fatal("expected error for corrupt row, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestExportYAML(t *testing.T) {
	l, tmpDir := testLedger(t)
	seed(t, l)

	path := filepath.Join(tmpDir, "history.yaml")
	if err := l.ExportYAML(context.Background(), path, Filter{FailedOnly: true}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatalf("parsing export.yaml: %v", err)
	}
	if len(entries) != 1 || entries[0].Tool != "grib_copy" || entries[0].ExitCode != 1 {
		t.Errorf("unexpected export: %+v", entries)
	}
}

func TestExportJSONEmpty(t *testing.T) {
	l, tmpDir := testLedger(t)

	path := filepath.Join(tmpDir, "history.json")
	if err := l.ExportJSON(context.Background(), path, Filter{}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty JSON array, got %s", data)
	}
}
