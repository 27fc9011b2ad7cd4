package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	return fs
}

// configPath returns the value of -c/--config, or "".
func configPath(args []string) string {
	var path string
	fs := newFlagSet("config")
	fs.StringVarP(&path, "config", "c", "", "path to config file")
	_ = fs.Parse(args)
	return path
}

// parseFlags overlays cfg with the flags present in args.
func parseFlags(cfg *Config, args []string) error {
	fs := newFlagSet("docvault")
	fs.StringP("config", "c", "", "path to config file")
	fs.StringVarP(&cfg.APIBaseURL, "api-base-url", "a", cfg.APIBaseURL, "base URL of the DocVault API")
	fs.StringVarP(&cfg.DBPath, "db", "d", cfg.DBPath, "path of the local database")
	fs.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogBackend, "log-backend", cfg.LogBackend, "log backend (slog or zap)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text or json)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file (stderr when empty)")
	fs.StringVar(&cfg.LogoutPolicy, "logout-policy", cfg.LogoutPolicy, "unauthorized or any")
	err := fs.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "Usage of docvault:")
		fs.SetOutput(os.Stderr)
		fs.PrintDefaults()
	}
	return err
}
