// Package config loads runtime configuration for the taskboard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then TASKBOARD_* environment
//     variables. Variables already set in the environment win over .env.
//  3. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d string   data source (SQLite DSN or file path, ":memory:" for a throwaway store)
//	-l string   log level: debug, info, warn, error
//
// Environment variables
//
//	TASKBOARD_DATA_SOURCE, TASKBOARD_LOG_LEVEL, TASKBOARD_CREDENTIAL_MODE,
//	TASKBOARD_SESSION_SECRET, TASKBOARD_DUE_SOON_WINDOW,
//	TASKBOARD_RECENT_WINDOW, TASKBOARD_RECENT_ACTIVITY_LIMIT
//
// # File schema
//
// Durations are strings like "72h" or integer nanoseconds:
//
//	data_source: taskboard.db
//	log_level: info
//	credential_mode: plaintext
//	session_secret: change-me
//	due_soon_window: 72h
//	recent_window: 168h
//	recent_activity_limit: 5
package config
