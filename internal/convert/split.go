// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
)

// SplitOptions controls how an ensemble file is partitioned.
type SplitOptions struct {
	// Template is the output filename with [key] placeholders expanded by
	// grib_copy per record. Empty selects DefaultSplitTemplate.
	Template string
	// OrderBy is the grib_copy -B ordering. Empty selects DefaultSplitOrder.
	OrderBy string
}

// SplitEnsemble partitions each GRIB file into per-record-group files with
// grib_copy. Outputs lists the unexpanded template path for each input, since
// the concrete names depend on the records the tool finds. CheckExist is not
// consulted: a template cannot be tested for existence.
func (c *Converter) SplitEnsemble(ctx context.Context, files []string, sp SplitOptions, opts Options) (BatchResult, error) {
	order := sp.OrderBy
	if order == "" {
		order = DefaultSplitOrder
	}

	var result BatchResult
	for _, in := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		out := SplitTemplate(in, opts.OutDir, sp.Template)
		result.Outputs = append(result.Outputs, out)
		if err := ensureParent(out); err != nil {
			c.failed(&result, in, err)
			continue
		}

		ok, err := c.invoke(ctx, opts, in, out, c.tools.GribCopy, "-B", order, in, out)
		if err != nil {
			return result, err
		}
		if ok {
			fmt.Fprintf(c.w, "split:     %s -> %s\n", in, out)
			result.Converted++
		} else {
			result.Failed++
		}
	}
	c.summary(result)
	return result, nil
}
