package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, defaultKind, cfg.Kind)
	assert.Equal(t, defaultFormat, cfg.Format)
	assert.False(t, cfg.Debug.CheckOwner)
	assert.False(t, cfg.Debug.TrackLeaks)
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kind: rc\nformat: yaml\nlog_level: warn\ndebug: leaks\n"), 0o644))

	t.Setenv("SHAREDPTR_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("kind", "all", "")
	flags.String("format", defaultFormat, "")
	require.NoError(t, flags.Parse([]string{"--kind", "arct"}))

	cfg, err := loadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "arct", cfg.Kind, "flag beats config")
	assert.Equal(t, "json", cfg.Format, "env beats config")
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel, "config beats default")
	assert.True(t, cfg.Debug.TrackLeaks)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad level", map[string]string{"SHAREDPTR_LOG_LEVEL": "loud"}},
		{"bad kind", map[string]string{"SHAREDPTR_KIND": "weak"}},
		{"bad format", map[string]string{"SHAREDPTR_FORMAT": "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig("", nil)
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rc", "RcK"},
		{"ARC", "ArcK"},
		{"arctk", "ArcTK"},
		{"all", ""},
	}
	for _, tt := range tests {
		got, err := parseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseKind("")
	assert.Error(t, err)
}
