// Package config loads runtime configuration for the SAS console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config (see parseJson).
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API (trailing slash optional)
//	-d string   path of the local SQLite database holding the session tokens
//	-t int      HTTP request timeout (seconds)
//	-p int      rows per page in list views
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "https://cgea-sas-backend.onrender.com/api/",
//	  "database_path": "console.db",
//	  "request_timeout": "30s",
//	  "page_size": 10,
//	  "log_level": "info"
//	}
//
// Empty or zero JSON values leave the previous value untouched.
package config
