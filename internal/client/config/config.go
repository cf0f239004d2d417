package config

import (
	"os"
	"strings"
	"time"
)

// Config holds runtime settings for the console.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	RequestTimeout time.Duration
	PageSize       int
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://cgea-sas-backend.onrender.com/api/"
	c.DatabasePath = "console.db"
	c.RequestTimeout = 30 * time.Second
	c.PageSize = 10
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the optional JSON file and the
// process command line, in that order.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	cfg.normalize()
	return cfg
}

func (c *Config) normalize() {
	if c.APIBaseURL != "" && !strings.HasSuffix(c.APIBaseURL, "/") {
		c.APIBaseURL += "/"
	}
	if c.PageSize <= 0 {
		c.PageSize = 10
	}
}
