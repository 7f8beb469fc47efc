package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "TASKBOARD_"

// loadDotEnv copies variables from path into the process environment.
// A missing file is not an error.
func loadDotEnv(path string) {
	_ = godotenv.Load(path)
}

// parseEnv overlays cfg with TASKBOARD_* variables found through lookup.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("DATA_SOURCE", &cfg.DataSource)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("CREDENTIAL_MODE", &cfg.CredentialMode)
	str("SESSION_SECRET", &cfg.SessionSecret)

	if err := dur("DUE_SOON_WINDOW", &cfg.DueSoonWindow); err != nil {
		return err
	}
	if err := dur("RECENT_WINDOW", &cfg.RecentWindow); err != nil {
		return err
	}
	if v, ok := lookup(envPrefix + "RECENT_ACTIVITY_LIMIT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sRECENT_ACTIVITY_LIMIT: %w", envPrefix, err)
		}
		cfg.RecentActivityLimit = n
	}
	return nil
}
