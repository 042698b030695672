// Package config provides environment-aware path helpers for plat-textsnap.
package config

import (
	"os"
	"path/filepath"
)

// GetDataPath returns the data directory path.
// It checks for DATA_PATH environment variable, otherwise uses a default.
func GetDataPath() string {
	if path := os.Getenv("DATA_PATH"); path != "" {
		return path
	}

	// Default to current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Join(cwd, ".data")
}

// GetFontPath returns the font library root, one subdirectory per family.
// It checks for FONT_PATH environment variable, otherwise uses a default.
func GetFontPath() string {
	if path := os.Getenv("FONT_PATH"); path != "" {
		return path
	}

	return filepath.Join(GetDataPath(), "fonts")
}

// GetFontPathForFamily returns the path for a specific font family.
func GetFontPathForFamily(family string) string {
	return filepath.Join(GetFontPath(), family)
}

// GetFontCachePath returns the directory holding woff/woff2 conversions.
func GetFontCachePath() string {
	if path := os.Getenv("FONT_CACHE_PATH"); path != "" {
		return path
	}

	return filepath.Join(GetDataPath(), "font-cache")
}

// GetOutputPath returns the directory generated images are written to.
func GetOutputPath() string {
	if path := os.Getenv("OUTPUT_PATH"); path != "" {
		return path
	}

	return filepath.Join(GetDataPath(), "output")
}

// GetDatabasePath returns the SQLite database file path.
func GetDatabasePath() string {
	return filepath.Join(GetDataPath(), "textsnap.db")
}

// Or returns value when set, otherwise the fallback.
func Or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
