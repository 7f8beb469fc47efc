package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/flagx"
)

// parseFlags populates cfg from the -d and -l flags in args. Other
// arguments are filtered out first so they cannot break parsing.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)

	fs.StringVar(&cfg.DataSource, "d", cfg.DataSource, "data source (SQLite DSN or file path)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-d", "-l"})); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
