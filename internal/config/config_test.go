package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the default config location at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("USER", "tester")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "tester", cfg.Owner)
	assert.Equal(t, 1.3, cfg.Scheduler.EasyBonus)
	assert.Equal(t, 1.0, cfg.Scheduler.IntervalModifier)
	assert.Equal(t, 3, cfg.Review.MaxAttempts)
	assert.True(t, cfg.Index.Enabled)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, strings.HasSuffix(cfg.Import.ReposDir, filepath.Join("drill", "repos")))
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
owner: alice
scheduler:
  interval_modifier: 0.8
review:
  max_attempts: 5
index:
  enabled: false
log:
  level: debug
  format: json
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.Owner)
	assert.Equal(t, 0.8, cfg.Scheduler.IntervalModifier)
	assert.Equal(t, 1.3, cfg.Scheduler.EasyBonus, "unset keys keep their defaults")
	assert.Equal(t, 5, cfg.Review.MaxAttempts)
	assert.False(t, cfg.Index.Enabled)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadDefaultPathIsOptional(t *testing.T) {
	isolate(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "drill"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drill", "config.yaml"), []byte("owner: fromfile\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Owner)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "owner: file\ndb: /from/file.db\nreview:\n  max_attempts: 4\n")

	t.Setenv("DRILL_OWNER", "env")
	t.Setenv("DRILL_REVIEW__MAX_ATTEMPTS", "7")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("owner", "", "")
	flags.String("db", "", "")
	require.NoError(t, flags.Parse([]string{"--owner", "flag"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "flag", cfg.Owner, "flags beat env")
	assert.Equal(t, 7, cfg.Review.MaxAttempts, "env beats file")
	assert.Equal(t, "/from/file.db", cfg.DB, "unset flags do not clobber")
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DRILL_DB", "/from/env.db")
	t.Setenv("DRILL_SCHEDULER__EASY_BONUS", "1.5")
	t.Setenv("DRILL_INDEX__ENABLED", "false")
	t.Setenv("DRILL_IMPORT__REPOS_DIR", "/srv/decks")
	t.Setenv("DRILL_LOG__FORMAT", "json")
	t.Setenv("OTHER_OWNER", "ignored")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "/from/env.db", cfg.DB)
	assert.InDelta(t, 1.5, cfg.Scheduler.EasyBonus, 1e-9)
	assert.False(t, cfg.Index.Enabled)
	assert.Equal(t, "/srv/decks", cfg.Import.ReposDir, "single underscores stay inside the key")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "tester", cfg.Owner)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero attempts", "review:\n  max_attempts: 0\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"negative modifier", "scheduler:\n  interval_modifier: -1\n"},
		{"empty owner", "owner: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.content), nil)
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(LogConfig{Level: "info", Format: "json"}, &buf)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
