package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "tinybasic.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_Config_load(t *testing.T) {
	path := writeConfig(t, `
arena_size = 4096
max_tokens = 32
timeout = "10s"
library = "programs"
stats = true
`)

	cfg := Config{ArenaSize: 8192, MaxTokens: 16}
	require.NoError(t, cfg.load(path, map[string]bool{"tokens": true}))
	assert.Equal(t, Config{
		ArenaSize: 4096,
		MaxTokens: 16,
		Timeout:   10 * time.Second,
		Library:   "programs",
		Stats:     true,
	}, cfg, "expected explicit flags to win over the file")
	assert.NoError(t, cfg.check())
}

func Test_Config_unknownKey(t *testing.T) {
	path := writeConfig(t, "arena = 4096\nmax_tokens = 8\n")
	var cfg Config
	err := cfg.load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys: arena")
}

func Test_Config_malformed(t *testing.T) {
	path := writeConfig(t, "arena_size = \n")
	var cfg Config
	assert.Error(t, cfg.load(path, nil))
}

func Test_Config_check(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"defaults", Config{ArenaSize: 8192, MaxTokens: 64}, true},
		{"zero arena", Config{ArenaSize: 0, MaxTokens: 64}, false},
		{"huge arena", Config{ArenaSize: 1 << 21, MaxTokens: 64}, false},
		{"zero tokens", Config{ArenaSize: 8192}, false},
		{"two libraries", Config{ArenaSize: 8192, MaxTokens: 64, Library: "a", SQLite: "b.db"}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.check(); tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
