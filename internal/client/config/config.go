package config

import (
	"fmt"
	"os"
)

// Config holds runtime settings for the DocVault client.
type Config struct {
	APIBaseURL   string `json:"api_base_url" yaml:"api_base_url"`
	DBPath       string `json:"db_path" yaml:"db_path"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
	LogBackend   string `json:"log_backend" yaml:"log_backend"`
	LogFormat    string `json:"log_format" yaml:"log_format"`
	LogFile      string `json:"log_file" yaml:"log_file"`
	LogoutPolicy string `json:"logout_policy" yaml:"logout_policy"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.DBPath = "docvault.db"
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.LogFormat = "text"
	c.LogFile = ""
	c.LogoutPolicy = "unauthorized"
}

// Load builds a Config from defaults, the optional file, the environment and
// args, in that order. args excludes the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := configPath(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg, ".env", os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("config: api_base_url is empty")
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
