// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var netcdfCmd = &cobra.Command{
	Use:   "netcdf [grib files...]",
	Short: "Convert GRIB files to NetCDF with grib_to_netcdf",
	Long: `Netcdf converts each GRIB file with the eccodes grib_to_netcdf tool.
The output keeps the input's base name with a .nc extension, next to the
input or in --out-dir. Inputs whose output already exists are skipped
unless --check-exist=false.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNetCDF,
}

func init() {
	addConvertFlags(netcdfCmd)
	rootCmd.AddCommand(netcdfCmd)
}

func runNetCDF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	conv, closeFn, err := newConverter(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := conv.GribToNetCDF(cmd.Context(), args, convertOptions(cfg))
	if err != nil {
		return fmt.Errorf("grib_to_netcdf: %w", err)
	}
	return batchError(result)
}
