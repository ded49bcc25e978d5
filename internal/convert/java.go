// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
)

const (
	// javaConverterClass is the NetCDF-Java entry point that rewrites any
	// readable dataset as NetCDF.
	javaConverterClass = "ucar.nc2.dataset.NetcdfDataset"

	// DefaultJavaHeap is the JVM heap limit used when none is configured.
	DefaultJavaHeap = "512m"
)

// ErrJavaJarUnset is returned when no NetCDF-Java jar is configured.
var ErrJavaJarUnset = errors.New("NETCDF_JAVA is not set")

// JavaOptions configures the NetCDF-Java converter.
type JavaOptions struct {
	// Jar is the netcdfAll jar placed on the classpath.
	Jar string
	// Heap is the -Xmx value; empty selects DefaultJavaHeap.
	Heap string
	// LargeFile enables 64-bit offsets for outputs over 2 GiB.
	LargeFile bool
}

func (j JavaOptions) args(in, out string) []string {
	heap := j.Heap
	if heap == "" {
		heap = DefaultJavaHeap
	}
	args := []string{
		"-Xmx" + heap,
		"-classpath", j.Jar,
		javaConverterClass,
		"-in", in,
		"-out", out,
	}
	if j.LargeFile {
		args = append(args, "-isLargeFile")
	}
	return args
}

// GribToNetCDFWithJava converts each GRIB file with NetCDF-Java. Without a
// configured jar it reports the problem and returns ErrJavaJarUnset before
// touching the filesystem.
func (c *Converter) GribToNetCDFWithJava(ctx context.Context, files []string, opts Options, java JavaOptions) (BatchResult, error) {
	if java.Jar == "" {
		fmt.Fprintln(c.w, "The environment variable NETCDF_JAVA should be set to the netcdfAll jar.")
		return BatchResult{}, ErrJavaJarUnset
	}

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

		ok, err := c.invoke(ctx, opts, in, out, c.tools.Java, java.args(in, out)...)
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
