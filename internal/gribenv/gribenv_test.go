// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gribenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gribtools/pkg/types"
)

func TestCygwinPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:\eccodes`, "/cygdrive/C/eccodes"},
		{`D:\tools\eccodes\`, "/cygdrive/D/tools/eccodes"},
		{"C:/eccodes", "/cygdrive/C/eccodes"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CygwinPath(tt.in))
		})
	}
}

func TestDefinitionPath(t *testing.T) {
	home := filepath.Join("opt", "eccodes")
	assert.Equal(t,
		filepath.Join(home, "share", "eccodes", "definitions"),
		DefinitionPath(home, types.StyleNative))
	assert.Equal(t,
		"/cygdrive/C/eccodes/share/eccodes/definitions",
		DefinitionPath(`C:\eccodes`, types.StyleCygwin))
}

func TestEnviron(t *testing.T) {
	home := filepath.Join("opt", "eccodes")
	base := []string{"HOME=/root", "PATH=/usr/bin", "GRIB_DEFINITION_PATH=/old"}

	env := Environ(Settings{GribHome: home, Style: types.StyleNative, Base: base})

	path, ok := lookup(env, "PATH")
	require.True(t, ok)
	assert.Equal(t, BinDir(home)+string(os.PathListSeparator)+"/usr/bin", path)

	defs, ok := lookup(env, EnvDefinitionPath)
	require.True(t, ok)
	assert.Equal(t, DefinitionPath(home, types.StyleNative), defs)

	got, _ := lookup(env, EnvGribHome)
	assert.Equal(t, home, got)

	var defCount int
	for _, kv := range env {
		if strings.HasPrefix(kv, EnvDefinitionPath+"=") {
			defCount++
		}
	}
	assert.Equal(t, 1, defCount, "definition path must appear once")

	assert.Equal(t, []string{"HOME=/root", "PATH=/usr/bin", "GRIB_DEFINITION_PATH=/old"}, base,
		"base environment must not be mutated")
}

func TestEnvironWithoutHome(t *testing.T) {
	base := []string{"PATH=/usr/bin"}
	env := Environ(Settings{Base: base})
	assert.Equal(t, base, env)
}

func TestEnvironEmptyPath(t *testing.T) {
	env := Environ(Settings{GribHome: "/opt/eccodes", Base: []string{}})
	path, ok := lookup(env, "PATH")
	require.True(t, ok)
	assert.Equal(t, BinDir("/opt/eccodes"), path)
}
