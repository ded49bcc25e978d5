// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gribenv builds the process environment handed to the eccodes tools.
// The tools locate their binaries through PATH and their GRIB tables through
// GRIB_DEFINITION_PATH, both derived from the installation directory.
package gribenv

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/gribtools/pkg/types"
)

const (
	// EnvGribHome names the variable holding the eccodes installation directory.
	EnvGribHome = "GRIB_HOME"
	// EnvDefinitionPath names the variable the tools read their tables from.
	EnvDefinitionPath = "GRIB_DEFINITION_PATH"

	definitionsSubdir = "share/eccodes/definitions"
	cygdrivePrefix    = "/cygdrive/"
)

// Settings describes the environment to derive.
type Settings struct {
	// GribHome is the eccodes installation directory.
	GribHome string
	// Style selects the GRIB_DEFINITION_PATH spelling.
	Style types.DefinitionStyle
	// Base is the environment to start from; nil means os.Environ().
	Base []string
}

// BinDir returns the tool binary directory under home.
func BinDir(home string) string {
	return filepath.Join(home, "bin")
}

// DefinitionPath returns the definitions directory under home, spelled for
// the given style.
func DefinitionPath(home string, style types.DefinitionStyle) string {
	if style == types.StyleCygwin {
		return CygwinPath(home) + "/" + definitionsSubdir
	}
	return filepath.Join(home, filepath.FromSlash(definitionsSubdir))
}

// CygwinPath rewrites a Windows path such as `C:\eccodes` into
// `/cygdrive/C/eccodes`.
func CygwinPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.ReplaceAll(p, ":", "")
	return path.Clean(cygdrivePrefix + strings.TrimPrefix(p, "/"))
}

// Environ returns a copy of the base environment with PATH and
// GRIB_DEFINITION_PATH derived from s.GribHome. When GribHome is empty the
// copy is returned unchanged.
func Environ(s Settings) []string {
	base := s.Base
	if base == nil {
		base = os.Environ()
	}
	env := make([]string, len(base))
	copy(env, base)

	if s.GribHome == "" {
		return env
	}

	binDir := BinDir(s.GribHome)
	if cur, ok := lookup(env, "PATH"); ok && cur != "" {
		binDir = binDir + string(os.PathListSeparator) + cur
	}
	env = set(env, "PATH", binDir)
	env = set(env, EnvGribHome, s.GribHome)
	env = set(env, EnvDefinitionPath, DefinitionPath(s.GribHome, s.Style))
	return env
}

// lookup returns the value of key in env.
func lookup(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

// set replaces every entry for key with a single key=value entry.
func set(env []string, key, value string) []string {
	prefix := key + "="
	out := env[:0]
	for _, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return append(out, prefix+value)
}
