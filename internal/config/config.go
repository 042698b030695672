package config

import (
	"time"

	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"
)

// Config holds the server configuration.
type Config struct {
	mcp.McpConf

	UI          UIConfig          `json:",optional"`
	API         APIConfig         `json:",optional"`
	Fonts       FontsConfig       `json:",optional"`
	Output      OutputConfig      `json:",optional"`
	Fetch       FetchConfig       `json:",optional"`
	Database    DatabaseConfig    `json:",optional"`
	Maintenance MaintenanceConfig `json:",optional"`
}

// UIConfig holds the Web UI server settings.
type UIConfig struct {
	rest.RestConf
}

// APIConfig holds the REST API server settings.
type APIConfig struct {
	rest.RestConf
}

// FontsConfig holds the font library settings.
type FontsConfig struct {
	Dir            string        `json:",default=./data/fonts"`
	CacheDir       string        `json:",default=./data/font-cache"`
	Default        string        `json:",optional"` // system font name or path
	CacheLimit     int           `json:",default=100"`
	CacheTTL       time.Duration `json:",default=1h"`
	VariantTags    []string      `json:",optional"`
	MaxUploadBytes int64         `json:",default=20971520"`
}

// OutputConfig holds rendered output settings.
type OutputConfig struct {
	Dir           string        `json:",default=./data/output"`
	Retention     time.Duration `json:",default=24h"`
	SweepInterval time.Duration `json:",default=1h"` // 0 disables the sweeper
	JPEGQuality   int           `json:",default=90,range=[1:100]"`
}

// FetchConfig holds remote download limits.
type FetchConfig struct {
	Timeout   time.Duration `json:",default=15s"`
	MaxBytes  int64         `json:",default=20971520"`
	MaxPixels int64         `json:",default=40000000"`
	RateLimit float64       `json:",default=20"`
	Burst     int           `json:",default=10"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Path string `json:",default=./data/textsnap.db"`
}

// MaintenanceConfig holds background job settings.
type MaintenanceConfig struct {
	Queue        string        `json:",default=maintenance"`
	Workers      int           `json:",default=1"`
	RetryBackoff time.Duration `json:",default=10s"`
	MaxBackoff   time.Duration `json:",default=10m"`
	JobTimeout   time.Duration `json:",default=1m"`
}
