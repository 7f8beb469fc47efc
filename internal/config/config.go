package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the taskboard CLI.
//
// CredentialMode selects how account secrets are stored: "plaintext" keeps
// them verbatim, "argon2" stores a salted argon2id verifier. Accounts created
// under one mode cannot sign in under the other.
type Config struct {
	DataSource          string
	LogLevel            string
	CredentialMode      string
	SessionSecret       string
	DueSoonWindow       time.Duration
	RecentWindow        time.Duration
	RecentActivityLimit int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataSource = "taskboard.db"
	c.LogLevel = "warn"
	c.CredentialMode = "plaintext"
	c.SessionSecret = "taskboard-local-session"
	c.DueSoonWindow = 3 * 24 * time.Hour
	c.RecentWindow = 7 * 24 * time.Hour
	c.RecentActivityLimit = 5
}

// LoadConfig builds a Config from defaults, environment, config file and
// args (usually os.Args[1:]). Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	loadDotEnv(".env")
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataSource == "" {
		return fmt.Errorf("config: data source is empty")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("config: session secret is empty")
	}
	if c.DueSoonWindow <= 0 || c.RecentWindow <= 0 {
		return fmt.Errorf("config: windows must be positive")
	}
	if c.RecentActivityLimit <= 0 {
		return fmt.Errorf("config: recent activity limit must be positive")
	}
	return nil
}
