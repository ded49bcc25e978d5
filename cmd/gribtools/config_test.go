// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gribtools/internal/convert"
	"github.com/pdiddy/gribtools/internal/ledger"
	"github.com/pdiddy/gribtools/pkg/types"
)

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addConvertFlags(cmd)
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GRIB_HOME", "")
	t.Setenv("NETCDF_JAVA", "")
	v := viper.New()
	configureViper(v)

	cfg, err := loadConfigFrom(v, testCommand())
	require.NoError(t, err)

	assert.Equal(t, types.StyleNative, cfg.Tools.DefinitionStyle)
	assert.Equal(t, "512m", cfg.Tools.JavaHeap)
	assert.Equal(t, "utf-8", cfg.Tools.OutputEncoding)
	assert.True(t, cfg.Convert.CheckExist)
	assert.Equal(t, defaultLedgerPath, cfg.Ledger.Path)
}

func TestLoadConfigConventionalEnv(t *testing.T) {
	t.Setenv("GRIB_HOME", "/opt/eccodes")
	t.Setenv("NETCDF_JAVA", "/opt/netcdfAll-4.6.jar")
	t.Setenv("GRIBTOOLS_TOOLS_DEFINITION_STYLE", "cygwin")
	v := viper.New()
	configureViper(v)

	cfg, err := loadConfigFrom(v, testCommand())
	require.NoError(t, err)

	assert.Equal(t, "/opt/eccodes", cfg.Tools.GribHome)
	assert.Equal(t, "/opt/netcdfAll-4.6.jar", cfg.Tools.NetCDFJava)
	assert.Equal(t, types.StyleCygwin, cfg.Tools.DefinitionStyle)
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	v := viper.New()
	configureViper(v)

	cmd := testCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--out-dir", "nc", "--check-exist=false", "-v", "--no-ledger"}))

	cfg, err := loadConfigFrom(v, cmd)
	require.NoError(t, err)

	assert.Equal(t, convert.Options{OutDir: "nc", Verbose: true, CheckExist: false}, convertOptions(cfg))
	assert.Empty(t, cfg.Ledger.Path)
}

func TestLoadConfigRejectsUnknownStyle(t *testing.T) {
	t.Setenv("GRIBTOOLS_TOOLS_DEFINITION_STYLE", "msys")
	v := viper.New()
	configureViper(v)

	_, err := loadConfigFrom(v, testCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "msys")
}

func TestBatchError(t *testing.T) {
	assert.NoError(t, batchError(convert.BatchResult{Converted: 2, Skipped: 1}))
	err := batchError(convert.BatchResult{Converted: 1, Failed: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 file(s) failed")
}

func TestFormatHistory(t *testing.T) {
	var empty bytes.Buffer
	require.NoError(t, formatHistory(&empty, nil))
	assert.Equal(t, "No runs recorded.\n", empty.String())

	var out bytes.Buffer
	require.NoError(t, formatHistory(&out, []ledger.Entry{{
		ID: 7, Tool: "grib_to_netcdf", Output: "a.nc",
		FinishedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), Duration: 2 * time.Second,
	}}))
	assert.Contains(t, out.String(), "grib_to_netcdf")
	assert.Contains(t, out.String(), "a.nc")
	assert.Contains(t, out.String(), "1 runs")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "grib_copy", firstNonEmpty("", "grib_copy"))
	assert.Equal(t, "/opt/bin/grib_copy", firstNonEmpty("/opt/bin/grib_copy", "grib_copy"))
	assert.Equal(t, "", firstNonEmpty())
}
