package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseFile_SourcesAndFormats(t *testing.T) {
	dir := t.TempDir()

	t.Run("json with string and integer durations", func(t *testing.T) {
		path := writeTempJSON(t, dir, "cfg.json", map[string]any{
			"data_source":     "tasks.db",
			"due_soon_window": "24h",
			"recent_window":   int64(time.Hour),
		})

		cfg := defaults()
		require.NoError(t, parseFile(&cfg, []string{"-config", path}))

		assert.Equal(t, "tasks.db", cfg.DataSource)
		assert.Equal(t, 24*time.Hour, cfg.DueSoonWindow)
		assert.Equal(t, time.Hour, cfg.RecentWindow)
		assert.Equal(t, "plaintext", cfg.CredentialMode, "absent fields keep their value")
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "cfg.yml")
		require.NoError(t, os.WriteFile(path, []byte("credential_mode: argon2\nrecent_activity_limit: 3\n"), 0o600))

		cfg := defaults()
		require.NoError(t, parseFile(&cfg, []string{"-c", path}))

		assert.Equal(t, "argon2", cfg.CredentialMode)
		assert.Equal(t, 3, cfg.RecentActivityLimit)
	})

	t.Run("no flag leaves config alone", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseFile(&cfg, []string{"-d", "x.db"}))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := defaults()
		assert.Error(t, parseFile(&cfg, []string{"-config", bad}))
	})
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantDS  string
		wantLvl string
		wantErr bool
	}{
		{name: "both flags", args: []string{"-d", "x.db", "-l", "debug"}, wantDS: "x.db", wantLvl: "debug"},
		{name: "foreign flags ignored", args: []string{"-c", "cfg.yaml", "-l=error"}, wantDS: "taskboard.db", wantLvl: "error"},
		{name: "missing value", args: []string{"-l"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(&cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDS, cfg.DataSource)
			assert.Equal(t, tt.wantLvl, cfg.LogLevel)
		})
	}
}
