// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/gribtools/internal/convert"
)

var javaCmd = &cobra.Command{
	Use:   "java [grib files...]",
	Short: "Convert GRIB1/2 files to NetCDF with NetCDF-Java",
	Long: `Java converts each GRIB file by running the NetCDF-Java dataset writer:

  java -Xmx512m -classpath <netcdfAll.jar> ucar.nc2.dataset.NetcdfDataset \
       -in <file> -out <file.nc> [-isLargeFile]

The jar is taken from NETCDF_JAVA (or tools.netcdf_java in the config file)
and java must be on PATH. Output paths follow the same rules as netcdf.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJava,
}

func init() {
	addConvertFlags(javaCmd)
	javaCmd.Flags().String("jar", "", "netcdfAll jar (default: $NETCDF_JAVA)")
	javaCmd.Flags().String("heap", "", "JVM maximum heap, e.g. 512m or 2g")
	javaCmd.Flags().Bool("large-file", false, "write 64-bit offset NetCDF for outputs over 2 GiB")
	rootCmd.AddCommand(javaCmd)
}

func runJava(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	java := convert.JavaOptions{
		Jar:  cfg.Tools.NetCDFJava,
		Heap: cfg.Tools.JavaHeap,
	}
	if jar, _ := cmd.Flags().GetString("jar"); jar != "" {
		java.Jar = jar
	}
	if heap, _ := cmd.Flags().GetString("heap"); heap != "" {
		java.Heap = heap
	}
	java.LargeFile, _ = cmd.Flags().GetBool("large-file")

	conv, closeFn, err := newConverter(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := conv.GribToNetCDFWithJava(cmd.Context(), args, convertOptions(cfg), java)
	if err != nil {
		return err
	}
	return batchError(result)
}
