// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gribtools CLI, which drives the
// eccodes and NetCDF-Java command-line tools to convert, extract, and split
// GRIB files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gribtools/internal/envfile"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the gribtools CLI.
var rootCmd = &cobra.Command{
	Use:   "gribtools",
	Short: "Convert, extract, and split GRIB files with the eccodes tools",
	Long: `gribtools wraps the eccodes command-line utilities (grib_to_netcdf,
grib_copy) and the NetCDF-Java converter. It derives the tool environment
from GRIB_HOME, builds output paths from input paths, skips outputs that
already exist, and records every invocation in a local history database.

Settings come from gribtools.yaml, GRIBTOOLS_* environment variables, the
conventional GRIB_HOME and NETCDF_JAVA variables, and a .env file in the
working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envPath, _ := cmd.Flags().GetString("env-file")
		vars, err := envfile.Load(envPath)
		if err != nil {
			return err
		}
		applied, err := envfile.Apply(vars)
		if err != nil {
			return err
		}
		if len(applied) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded %s: %v\n", envPath, applied)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gribtools.yaml or ~/.config/gribtools/gribtools.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with tool settings")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gribtools")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gribtools"))
		}
	}

	configureViper(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
