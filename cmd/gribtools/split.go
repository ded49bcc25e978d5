// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/gribtools/internal/convert"
)

var splitCmd = &cobra.Command{
	Use:   "split [grib files...]",
	Short: "Split ensemble GRIB files into per-record-group files",
	Long: `Split runs grib_copy over each file with an output template whose
[key] placeholders are expanded from every record's metadata. The default
template is

  [dataType]_[levelType]_[dataDate][dataTime]_[endStep].grib

written next to each input or in --out-dir, with records ordered by level.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSplit,
}

func init() {
	addConvertFlags(splitCmd)
	splitCmd.Flags().String("template", convert.DefaultSplitTemplate, "output filename template")
	splitCmd.Flags().String("order-by", convert.DefaultSplitOrder, "grib_copy -B ordering")
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var sp convert.SplitOptions
	sp.Template, _ = cmd.Flags().GetString("template")
	sp.OrderBy, _ = cmd.Flags().GetString("order-by")

	conv, closeFn, err := newConverter(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := conv.SplitEnsemble(cmd.Context(), args, sp, convertOptions(cfg))
	if err != nil {
		return err
	}
	return batchError(result)
}
