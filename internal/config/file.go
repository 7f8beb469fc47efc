package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/taskboard/internal/flagx"
	"github.com/dmitrijs2005/taskboard/internal/timex"
)

// FileConfig is a DTO used only for decoding config files. Zero fields leave
// the current value alone.
type FileConfig struct {
	DataSource          string         `json:"data_source" yaml:"data_source"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	CredentialMode      string         `json:"credential_mode" yaml:"credential_mode"`
	SessionSecret       string         `json:"session_secret" yaml:"session_secret"`
	DueSoonWindow       timex.Duration `json:"due_soon_window" yaml:"due_soon_window"`
	RecentWindow        timex.Duration `json:"recent_window" yaml:"recent_window"`
	RecentActivityLimit int            `json:"recent_activity_limit" yaml:"recent_activity_limit"`
}

// parseFile overlays cfg with the file named by -c/-config in args, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.DataSource != "" {
		cfg.DataSource = fc.DataSource
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.CredentialMode != "" {
		cfg.CredentialMode = fc.CredentialMode
	}
	if fc.SessionSecret != "" {
		cfg.SessionSecret = fc.SessionSecret
	}
	if fc.DueSoonWindow.Duration != 0 {
		cfg.DueSoonWindow = fc.DueSoonWindow.Duration
	}
	if fc.RecentWindow.Duration != 0 {
		cfg.RecentWindow = fc.RecentWindow.Duration
	}
	if fc.RecentActivityLimit != 0 {
		cfg.RecentActivityLimit = fc.RecentActivityLimit
	}
}
