// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package envfile loads tool settings such as GRIB_HOME and NETCDF_JAVA
// from a dotenv file so they need not be exported in every shell.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// Load reads the dotenv file at path. A missing file is not an error; Load
// returns an empty map. Keys with empty values are dropped.
func Load(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	for k, v := range vars {
		if v == "" {
			delete(vars, k)
		}
	}
	return vars, nil
}

// Apply exports vars into the process environment without overriding
// variables that are already set, and returns the keys it applied in
// sorted order.
func Apply(vars map[string]string) ([]string, error) {
	var applied []string
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return applied, fmt.Errorf("setting %s: %w", k, err)
		}
		applied = append(applied, k)
	}
	sort.Strings(applied)
	return applied, nil
}
