// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ExtractOptions selects the field pulled out of each GRIB file.
type ExtractOptions struct {
	// ShortName is the eccodes shortName key, e.g. "2t" or "tp".
	ShortName string
	// Level restricts extraction to one vertical level when non-empty.
	Level string
	// DeleteIntermediate removes the grib_copy output after each input,
	// whether or not the tools succeeded. A file left at the intermediate
	// path by an earlier run is removed even when grib_copy fails first.
	DeleteIntermediate bool
}

// ExtractToNetCDF copies the records matching ex into an intermediate GRIB
// with grib_copy, then converts that file with grib_to_netcdf. The skip
// check applies to the NetCDF output.
func (c *Converter) ExtractToNetCDF(ctx context.Context, files []string, ex ExtractOptions, opts Options) (BatchResult, error) {
	if ex.ShortName == "" {
		return BatchResult{}, ErrNoShortName
	}

	where := WhereClause(ex.ShortName, ex.Level)

	var result BatchResult
	for _, in := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		intermediate, out := ExtractPaths(in, ex.ShortName, opts.OutDir)
		result.Outputs = append(result.Outputs, out)
		if opts.CheckExist && fileExists(out) {
			c.skipped(&result, in)
			continue
		}
		if err := ensureParent(out); err != nil {
			c.failed(&result, in, err)
			continue
		}

		ok, err := c.extractOne(ctx, opts, in, intermediate, out, where)
		if ex.DeleteIntermediate {
			c.removeIntermediate(intermediate)
		}
		if err != nil {
			return result, err
		}
		if ok {
			fmt.Fprintf(c.w, "extracted: %s [%s] -> %s\n", in, where, out)
			result.Converted++
		} else {
			result.Failed++
		}
	}
	c.summary(result)
	return result, nil
}

func (c *Converter) extractOne(ctx context.Context, opts Options, in, intermediate, out, where string) (bool, error) {
	ok, err := c.invoke(ctx, opts, in, intermediate, c.tools.GribCopy, "-w", where, in, intermediate)
	if err != nil || !ok {
		return false, err
	}
	return c.invoke(ctx, opts, intermediate, out, c.tools.GribToNetCDF, "-o", out, intermediate)
}

// removeIntermediate deletes p, tolerating a file the copy never wrote.
func (c *Converter) removeIntermediate(p string) {
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(c.w, "warning: removing %s: %v\n", p, err)
	}
}
