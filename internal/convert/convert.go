// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives the eccodes and NetCDF-Java command-line tools to
// turn GRIB files into NetCDF and to extract or split GRIB records. Every
// operation walks its inputs in order, derives the output path, optionally
// skips inputs whose output already exists, and runs one tool per step.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/gribtools/internal/toolrun"
)

// Tools names the binaries invoked by a Converter.
type Tools struct {
	GribToNetCDF string
	GribCopy     string
	Java         string
}

// DefaultTools returns the conventional binary names, resolved through PATH.
func DefaultTools() Tools {
	return Tools{
		GribToNetCDF: "grib_to_netcdf",
		GribCopy:     "grib_copy",
		Java:         "java",
	}
}

// withDefaults fills empty names from DefaultTools.
func (t Tools) withDefaults() Tools {
	d := DefaultTools()
	if t.GribToNetCDF == "" {
		t.GribToNetCDF = d.GribToNetCDF
	}
	if t.GribCopy == "" {
		t.GribCopy = d.GribCopy
	}
	if t.Java == "" {
		t.Java = d.Java
	}
	return t
}

// Recorder receives every tool invocation. The ledger implements it.
type Recorder interface {
	RecordRun(ctx context.Context, input, output string, res toolrun.Result) error
}

// Options controls a batch.
type Options struct {
	// OutDir relocates outputs; empty keeps them next to their inputs.
	OutDir string
	// Verbose echoes the captured stdout of each tool run.
	Verbose bool
	// CheckExist skips inputs whose target output already exists.
	CheckExist bool
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	// Outputs lists one target path per input, in input order. Skipped
	// inputs contribute their pre-existing target.
	Outputs   []string
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the number of inputs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any input failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ErrOutputIsInput marks an input whose derived output would overwrite it.
var ErrOutputIsInput = errors.New("output path is the input file")

// ErrNoShortName is returned by ExtractToNetCDF when no field is named.
var ErrNoShortName = errors.New("short name is required for extraction")

// Converter runs conversions through a toolrun.Runner, writing one status
// line per input to w.
type Converter struct {
	runner   toolrun.Runner
	tools    Tools
	w        io.Writer
	recorder Recorder
}

// Option configures a Converter.
type Option func(*Converter)

// WithTools overrides the tool binary names.
func WithTools(t Tools) Option {
	return func(c *Converter) { c.tools = t.withDefaults() }
}

// WithRecorder sends every invocation to rec.
func WithRecorder(rec Recorder) Option {
	return func(c *Converter) { c.recorder = rec }
}

// New returns a Converter that runs tools with r and reports to w.
func New(r toolrun.Runner, w io.Writer, opts ...Option) *Converter {
	c := &Converter{runner: r, tools: DefaultTools(), w: w}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GribToNetCDF converts each GRIB file with grib_to_netcdf.
func (c *Converter) GribToNetCDF(ctx context.Context, files []string, opts Options) (BatchResult, error) {
	var result BatchResult
	for _, in := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		out := NetCDFPath(in, opts.OutDir)
		result.Outputs = append(result.Outputs, out)
		if samePath(in, out) {
			c.failed(&result, in, ErrOutputIsInput)
			continue
		}
		if opts.CheckExist && fileExists(out) {
			c.skipped(&result, in)
			continue
		}
		if err := ensureParent(out); err != nil {
			c.failed(&result, in, err)
			continue
		}

		ok, err := c.invoke(ctx, opts, in, out, c.tools.GribToNetCDF, "-o", out, in)
		if err != nil {
			return result, err
		}
		if ok {
			fmt.Fprintf(c.w, "converted: %s -> %s\n", in, out)
			result.Converted++
		} else {
			result.Failed++
		}
	}
	c.summary(result)
	return result, nil
}

// invoke runs one tool and reports whether it succeeded. Tool failures are
// written to the status stream; only context cancellation is returned.
func (c *Converter) invoke(ctx context.Context, opts Options, input, output, name string, args ...string) (bool, error) {
	res, err := c.runner.Run(ctx, name, args...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	if c.recorder != nil {
		if recErr := c.recorder.RecordRun(ctx, input, output, res); recErr != nil {
			fmt.Fprintf(c.w, "warning: recording %s: %v\n", input, recErr)
		}
	}

	if opts.Verbose && res.Stdout != "" {
		fmt.Fprint(c.w, res.Stdout)
		if !strings.HasSuffix(res.Stdout, "\n") {
			fmt.Fprintln(c.w)
		}
	}

	switch {
	case err != nil:
		fmt.Fprintf(c.w, "failed:    %s (%v)\n", input, err)
		return false, nil
	case res.Failed():
		fmt.Fprintf(c.w, "failed:    %s (%s exited %d: %s)\n",
			input, name, res.ExitCode, firstLine(res.Stderr))
		return false, nil
	}
	return true, nil
}

func (c *Converter) skipped(result *BatchResult, in string) {
	fmt.Fprintf(c.w, "skipped:   %s (already exists)\n", in)
	result.Skipped++
}

func (c *Converter) failed(result *BatchResult, in string, err error) {
	fmt.Fprintf(c.w, "failed:    %s (%v)\n", in, err)
	result.Failed++
}

func (c *Converter) summary(result BatchResult) {
	fmt.Fprintf(c.w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
}

// firstLine returns the first non-empty line of s, or a placeholder.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "no diagnostic output"
}
