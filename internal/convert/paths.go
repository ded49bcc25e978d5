// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	netcdfExt = ".nc"

	// DefaultSplitTemplate is expanded by grib_copy from each record's keys.
	DefaultSplitTemplate = "[dataType]_[levelType]_[dataDate][dataTime]_[endStep].grib"

	// DefaultSplitOrder is the grib_copy -B ordering used when splitting.
	DefaultSplitOrder = "level:l"
)

// stem returns the base name of p without its final extension. A dotfile
// such as ".grib" has no extension and is its own stem.
func stem(p string) string {
	base := filepath.Base(p)
	ext := filepath.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// extension returns the final extension of p, treating a dotfile name as
// having none.
func extension(p string) string {
	base := filepath.Base(p)
	if ext := filepath.Ext(base); ext != base {
		return ext
	}
	return ""
}

// targetDir returns outDir, or the directory of in when outDir is empty.
func targetDir(in, outDir string) string {
	if outDir != "" {
		return outDir
	}
	return filepath.Dir(in)
}

// NetCDFPath derives the NetCDF output for a GRIB input: the input's base
// name with a .nc extension, next to the input or inside outDir.
func NetCDFPath(in, outDir string) string {
	return filepath.Join(targetDir(in, outDir), stem(in)+netcdfExt)
}

// ExtractPaths derives the files written when extracting shortName from in.
// The intermediate GRIB is <stem>_<shortName><ext>; the NetCDF output takes
// the intermediate's stem with a .nc extension.
func ExtractPaths(in, shortName, outDir string) (intermediate, netcdf string) {
	dir := targetDir(in, outDir)
	name := stem(in) + "_" + shortName
	intermediate = filepath.Join(dir, name+extension(in))
	netcdf = filepath.Join(dir, name+netcdfExt)
	return intermediate, netcdf
}

// SplitTemplate returns the grib_copy output template for splitting in. An
// empty template selects DefaultSplitTemplate.
func SplitTemplate(in, outDir, template string) string {
	if template == "" {
		template = DefaultSplitTemplate
	}
	return filepath.Join(targetDir(in, outDir), template)
}

// WhereClause builds the grib_copy -w condition selecting shortName and,
// when set, level.
func WhereClause(shortName, level string) string {
	cond := "shortName=" + shortName
	if level != "" {
		cond += ",level=" + level
	}
	return cond
}

// fileExists reports whether p names an existing regular file.
func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// samePath reports whether a and b name the same file lexically.
func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// ensureParent creates the directory that will hold p.
func ensureParent(p string) error {
	return os.MkdirAll(filepath.Dir(p), 0o755)
}
