// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gribtools/internal/convert"
	"github.com/pdiddy/gribtools/internal/gribenv"
	"github.com/pdiddy/gribtools/internal/ledger"
	"github.com/pdiddy/gribtools/internal/toolrun"
	"github.com/pdiddy/gribtools/pkg/types"
)

const (
	envNetCDFJava     = "NETCDF_JAVA"
	defaultLedgerPath = ".gribtools/history.db"
)

// configureViper wires environment lookup and defaults into v.
func configureViper(v *viper.Viper) {
	v.SetEnvPrefix("GRIBTOOLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// GRIB_HOME and NETCDF_JAVA are the names the tools' own docs use.
	_ = v.BindEnv("tools.grib_home", "GRIBTOOLS_TOOLS_GRIB_HOME", gribenv.EnvGribHome)
	_ = v.BindEnv("tools.netcdf_java", "GRIBTOOLS_TOOLS_NETCDF_JAVA", envNetCDFJava)

	setDefaults(v)
}

// setDefaults registers every configuration key so that environment
// overrides are visible to Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("tools.grib_home", "")
	v.SetDefault("tools.definition_style", string(types.StyleNative))
	v.SetDefault("tools.netcdf_java", "")
	v.SetDefault("tools.java_heap", convert.DefaultJavaHeap)
	v.SetDefault("tools.output_encoding", toolrun.DefaultEncoding)
	v.SetDefault("tools.grib_to_netcdf", "")
	v.SetDefault("tools.grib_copy", "")
	v.SetDefault("tools.java", "")

	v.SetDefault("convert.out_dir", "")
	v.SetDefault("convert.verbose", false)
	v.SetDefault("convert.check_exist", true)

	v.SetDefault("ledger.path", defaultLedgerPath)
}

// loadConfig decodes the viper settings and applies any flags the user set
// explicitly on cmd.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	return loadConfigFrom(viper.GetViper(), cmd)
}

func loadConfigFrom(v *viper.Viper, cmd *cobra.Command) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("out-dir") {
		cfg.Convert.OutDir, _ = flags.GetString("out-dir")
	}
	if flags.Changed("verbose") {
		cfg.Convert.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("check-exist") {
		cfg.Convert.CheckExist, _ = flags.GetBool("check-exist")
	}
	if flags.Changed("no-ledger") {
		if off, _ := flags.GetBool("no-ledger"); off {
			cfg.Ledger.Path = ""
		}
	}

	switch cfg.Tools.DefinitionStyle {
	case types.StyleNative, types.StyleCygwin:
	case "":
		cfg.Tools.DefinitionStyle = types.StyleNative
	default:
		return cfg, fmt.Errorf("unsupported definition_style %q: use native or cygwin", cfg.Tools.DefinitionStyle)
	}
	return cfg, nil
}

// addConvertFlags registers the flags shared by every conversion command.
func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().String("out-dir", "", "output directory (default: next to each input)")
	cmd.Flags().BoolP("verbose", "v", false, "print captured tool output")
	cmd.Flags().Bool("check-exist", true, "skip inputs whose output already exists")
	cmd.Flags().Bool("no-ledger", false, "do not record invocations in the history database")
}

func convertOptions(cfg types.Config) convert.Options {
	return convert.Options{
		OutDir:     cfg.Convert.OutDir,
		Verbose:    cfg.Convert.Verbose,
		CheckExist: cfg.Convert.CheckExist,
	}
}

func toolEnviron(cfg types.ToolsConfig) []string {
	return gribenv.Environ(gribenv.Settings{
		GribHome: cfg.GribHome,
		Style:    cfg.DefinitionStyle,
	})
}

// newConverter wires the runner, tool names, and optional ledger from cfg.
// The returned function closes the ledger.
func newConverter(cfg types.Config) (*convert.Converter, func(), error) {
	runner, err := toolrun.NewExecRunner(toolEnviron(cfg.Tools), cfg.Tools.OutputEncoding)
	if err != nil {
		return nil, nil, err
	}

	opts := []convert.Option{
		convert.WithTools(convert.Tools{
			GribToNetCDF: cfg.Tools.GribToNetCDF,
			GribCopy:     cfg.Tools.GribCopy,
			Java:         cfg.Tools.Java,
		}),
	}

	closeFn := func() {}
	if cfg.Ledger.Path != "" {
		l, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
		} else {
			opts = append(opts, convert.WithRecorder(l))
			closeFn = func() { l.Close() }
		}
	}

	return convert.New(runner, os.Stdout, opts...), closeFn, nil
}

// batchError turns failed inputs into a non-zero exit.
func batchError(result convert.BatchResult) error {
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}
