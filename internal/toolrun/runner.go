// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolrun launches external tools with a prepared environment and
// captures what they print.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is used when no output encoding is configured.
const DefaultEncoding = "utf-8"

// Result is the captured outcome of one process run.
type Result struct {
	Name     string
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Failed reports whether the process exited non-zero.
func (r Result) Failed() bool { return r.ExitCode != 0 }

// CommandLine renders the invocation for display.
func (r Result) CommandLine() string {
	parts := make([]string, 0, len(r.Args)+1)
	parts = append(parts, r.Name)
	for _, a := range r.Args {
		if a == "" || strings.ContainsAny(a, " \t\"") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Runner runs one external command to completion.
type Runner interface {
	// Run executes name with args. A process that starts and exits non-zero
	// yields a Result with ExitCode set and a nil error; the error is
	// reserved for processes that could not be launched or were cancelled.
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// executor abstracts process execution for testing.
type executor interface {
	Exec(ctx context.Context, env []string, name string, args []string, stdout, stderr *bytes.Buffer) (exitCode int, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) Exec(ctx context.Context, env []string, name string, args []string, stdout, stderr *bytes.Buffer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	env    []string
	enc    encoding.Encoding
	isUTF8 bool
	exec   executor
}

// NewExecRunner returns a runner that starts every process with env and
// decodes its output from the named encoding (an HTML encoding label such
// as "utf-8" or "gbk"). An empty label selects DefaultEncoding.
func NewExecRunner(env []string, encodingLabel string) (*ExecRunner, error) {
	enc, err := LookupEncoding(encodingLabel)
	if err != nil {
		return nil, err
	}
	name, _ := htmlindex.Name(enc)
	return &ExecRunner{env: env, enc: enc, isUTF8: name == "utf-8", exec: osExecutor{}}, nil
}

// LookupEncoding resolves an encoding label.
func LookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown output encoding %q: %w", label, err)
	}
	return enc, nil
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer
	start := time.Now()
	code, err := r.exec.Exec(ctx, r.env, name, args, &stdout, &stderr)
	res := Result{
		Name:     name,
		Args:     args,
		Stdout:   r.decode(stdout.Bytes()),
		Stderr:   r.decode(stderr.Bytes()),
		ExitCode: code,
		Duration: time.Since(start),
	}
	if err != nil {
		return res, fmt.Errorf("running %s: %w", name, err)
	}
	return res, nil
}

// decode converts raw tool output to UTF-8. Undecodable input is returned
// unchanged so diagnostics are never lost.
func (r *ExecRunner) decode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if r.enc == nil || r.isUTF8 && utf8.Valid(b) {
		return string(b)
	}
	out, err := r.enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
