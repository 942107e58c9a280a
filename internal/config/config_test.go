package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromEnvironment(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, Config{
		Addr:          "127.0.0.1:7778",
		Clipboard:     ClipboardRegister,
		OpenBrowser:   true,
		DisposeGrace:  3 * time.Second,
		AttachTimeout: time.Minute,
		LogLevel:      "info",
	}, cfg)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFromEnvironment(map[string]string{
		"GIT_CHEATSHEET_ADDR":           "127.0.0.1:0",
		"GIT_CHEATSHEET_CLIPBOARD":      "system",
		"GIT_CHEATSHEET_OPEN_BROWSER":   "false",
		"GIT_CHEATSHEET_DISPOSE_GRACE":  "250ms",
		"GIT_CHEATSHEET_ATTACH_TIMEOUT": "0s",
		"GIT_CHEATSHEET_LOG_LEVEL":      "debug",
		"GIT_CHEATSHEET_LOG_FILE":       "/tmp/git-cheatsheet.log",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:0", cfg.Addr)
	assert.Equal(t, ClipboardSystem, cfg.Clipboard)
	assert.False(t, cfg.OpenBrowser)
	assert.Equal(t, 250*time.Millisecond, cfg.DisposeGrace)
	assert.Zero(t, cfg.AttachTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/git-cheatsheet.log", cfg.LogFile)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"unknown clipboard", map[string]string{"GIT_CHEATSHEET_CLIPBOARD": "osc52"}},
		{"bad duration", map[string]string{"GIT_CHEATSHEET_DISPOSE_GRACE": "soon"}},
		{"negative grace", map[string]string{"GIT_CHEATSHEET_DISPOSE_GRACE": "-1s"}},
		{"negative attach timeout", map[string]string{"GIT_CHEATSHEET_ATTACH_TIMEOUT": "-1s"}},
		{"bad bool", map[string]string{"GIT_CHEATSHEET_OPEN_BROWSER": "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromEnvironment(tt.environ)
			require.Error(t, err)
		})
	}
}
