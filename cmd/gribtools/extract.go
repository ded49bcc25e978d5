// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/gribtools/internal/convert"
)

var extractCmd = &cobra.Command{
	Use:   "extract --short-name NAME [grib files...]",
	Short: "Extract one field from GRIB files and convert it to NetCDF",
	Long: `Extract copies the records matching --short-name (and optionally
--level) into an intermediate GRIB file named <stem>_<shortName><ext> with
grib_copy, then converts that file to <stem>_<shortName>.nc with
grib_to_netcdf. The intermediate file is kept unless --delete-intermediate
is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	addConvertFlags(extractCmd)
	extractCmd.Flags().StringP("short-name", "s", "", "eccodes shortName of the field, e.g. 2t or tp")
	extractCmd.Flags().String("level", "", "vertical level to select")
	extractCmd.Flags().Bool("delete-intermediate", false, "remove the grib_copy output after conversion")
	_ = extractCmd.MarkFlagRequired("short-name")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var ex convert.ExtractOptions
	ex.ShortName, _ = cmd.Flags().GetString("short-name")
	ex.Level, _ = cmd.Flags().GetString("level")
	ex.DeleteIntermediate, _ = cmd.Flags().GetBool("delete-intermediate")

	conv, closeFn, err := newConverter(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := conv.ExtractToNetCDF(cmd.Context(), args, ex, convertOptions(cfg))
	if err != nil {
		return err
	}
	return batchError(result)
}
