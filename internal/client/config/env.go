package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAPIBaseURL   = "DOCVAULT_API_BASE_URL"
	EnvDB           = "DOCVAULT_DB"
	EnvLogLevel     = "DOCVAULT_LOG_LEVEL"
	EnvLogBackend   = "DOCVAULT_LOG_BACKEND"
	EnvLogFormat    = "DOCVAULT_LOG_FORMAT"
	EnvLogFile      = "DOCVAULT_LOG_FILE"
	EnvLogoutPolicy = "DOCVAULT_LOGOUT_POLICY"
)

// parseEnv loads dotenv (when it exists) into the process environment
// without overriding variables already set, then overlays cfg.
func parseEnv(cfg *Config, dotenv string, lookup func(string) (string, bool)) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	for key, dst := range map[string]*string{
		EnvAPIBaseURL:   &cfg.APIBaseURL,
		EnvDB:           &cfg.DBPath,
		EnvLogLevel:     &cfg.LogLevel,
		EnvLogBackend:   &cfg.LogBackend,
		EnvLogFormat:    &cfg.LogFormat,
		EnvLogFile:      &cfg.LogFile,
		EnvLogoutPolicy: &cfg.LogoutPolicy,
	} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	return nil
}
