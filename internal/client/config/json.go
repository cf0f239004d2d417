package config

import (
	"encoding/json"
	"os"

	"github.com/cgea-sas/console/internal/flagx"
	"github.com/cgea-sas/console/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	DatabasePath   string         `json:"database_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	PageSize       int            `json:"page_size"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// Read and decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
