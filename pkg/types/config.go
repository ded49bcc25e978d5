// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration records shared by the gribtools
// packages and the CLI.
package types

// DefinitionStyle selects how GRIB_DEFINITION_PATH is spelled for the tools.
type DefinitionStyle string

const (
	// StyleNative uses the host path as-is.
	StyleNative DefinitionStyle = "native"

	// StyleCygwin rewrites a Windows path into /cygdrive/<drive>/... form, as
	// required by Cygwin builds of eccodes.
	StyleCygwin DefinitionStyle = "cygwin"
)

// ToolsConfig locates the external tools and describes how to talk to them.
type ToolsConfig struct {
	// GribHome is the eccodes installation directory (GRIB_HOME). Empty means
	// the tools are resolved from the caller's PATH.
	GribHome string `json:"grib_home" yaml:"grib_home" mapstructure:"grib_home"`

	// DefinitionStyle controls the GRIB_DEFINITION_PATH spelling.
	DefinitionStyle DefinitionStyle `json:"definition_style" yaml:"definition_style" mapstructure:"definition_style"`

	// NetCDFJava is the path to the netcdfAll jar (NETCDF_JAVA).
	NetCDFJava string `json:"netcdf_java" yaml:"netcdf_java" mapstructure:"netcdf_java"`

	// JavaHeap is the -Xmx value passed to the JVM (default "512m").
	JavaHeap string `json:"java_heap" yaml:"java_heap" mapstructure:"java_heap"`

	// OutputEncoding is the encoding label used to decode tool output
	// (default "utf-8"; Chinese Windows installs typically need "gbk").
	OutputEncoding string `json:"output_encoding" yaml:"output_encoding" mapstructure:"output_encoding"`

	// GribToNetCDF, GribCopy and Java override the tool binary names.
	GribToNetCDF string `json:"grib_to_netcdf" yaml:"grib_to_netcdf" mapstructure:"grib_to_netcdf"`
	GribCopy     string `json:"grib_copy" yaml:"grib_copy" mapstructure:"grib_copy"`
	Java         string `json:"java" yaml:"java" mapstructure:"java"`
}

// ConvertConfig holds the per-run options shared by every conversion.
type ConvertConfig struct {
	// OutDir relocates outputs; empty keeps them next to their inputs.
	OutDir string `json:"out_dir" yaml:"out_dir" mapstructure:"out_dir"`

	// Verbose echoes captured tool output.
	Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`

	// CheckExist skips inputs whose target output already exists.
	CheckExist bool `json:"check_exist" yaml:"check_exist" mapstructure:"check_exist"`
}

// LedgerConfig holds settings for the conversion history database.
type LedgerConfig struct {
	// Path is the SQLite file. Empty disables recording.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups all gribtools settings.
type Config struct {
	Tools   ToolsConfig   `json:"tools" yaml:"tools" mapstructure:"tools"`
	Convert ConvertConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}
