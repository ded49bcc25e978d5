// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gribtools/internal/convert"
	"github.com/pdiddy/gribtools/internal/gribenv"
	"github.com/pdiddy/gribtools/pkg/types"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the tool environment derived from the configuration",
	Long: `Env prints the variables handed to the eccodes tools (PATH,
GRIB_DEFINITION_PATH) as derived from GRIB_HOME, the NetCDF-Java jar, and
where each tool binary resolves. Use --yaml to print the effective
configuration instead.`,
	Args: cobra.NoArgs,
	RunE: runEnv,
}

func init() {
	envCmd.Flags().Bool("yaml", false, "print the effective configuration as YAML")
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	}

	printEnv(cfg.Tools)
	return nil
}

func printEnv(tools types.ToolsConfig) {
	home := tools.GribHome
	if home == "" {
		fmt.Println("GRIB_HOME            (unset; tools resolved from PATH)")
	} else {
		fmt.Printf("GRIB_HOME            %s\n", home)
		fmt.Printf("PATH (prepended)     %s\n", gribenv.BinDir(home))
		fmt.Printf("GRIB_DEFINITION_PATH %s\n", gribenv.DefinitionPath(home, tools.DefinitionStyle))
	}
	jar := tools.NetCDFJava
	if jar == "" {
		jar = "(unset; java conversion disabled)"
	}
	fmt.Printf("NETCDF_JAVA          %s\n", jar)
	fmt.Printf("Output encoding      %s\n", tools.OutputEncoding)

	fmt.Println()
	names := convert.DefaultTools()
	for _, name := range []string{
		firstNonEmpty(tools.GribToNetCDF, names.GribToNetCDF),
		firstNonEmpty(tools.GribCopy, names.GribCopy),
		firstNonEmpty(tools.Java, names.Java),
	} {
		fmt.Printf("%-20s %s\n", filepath.Base(name), resolveTool(name, home))
	}
}

// resolveTool reports where name would be found, preferring the GRIB_HOME
// bin directory.
func resolveTool(name, home string) string {
	if home != "" && !strings.ContainsRune(name, filepath.Separator) {
		candidate := filepath.Join(gribenv.BinDir(home), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	return "(not found)"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
