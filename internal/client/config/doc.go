// Package config loads runtime configuration for the DocVault client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or --config. Files ending in
//     .yaml or .yml are YAML; anything else is JSON with comments allowed.
//  3. Environment: a .env file in the working directory (if present) is
//     loaded first, then DOCVAULT_* variables are read.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a, --api-base-url string   base URL of the DocVault API
//	-d, --db string             path of the local SQLite database
//	-l, --log-level string      debug, info, warn or error
//	    --log-backend string    slog or zap
//	    --log-format string     text or json
//	    --log-file string       log destination (stderr when empty)
//	    --logout-policy string  unauthorized or any
//
// Unknown flags are ignored.
//
// # File schema
//
//	{
//	  // trailing comments are fine
//	  "api_base_url": "http://localhost:8000",
//	  "db_path": "docvault.db",
//	  "log_level": "info",
//	  "logout_policy": "unauthorized"
//	}
package config
