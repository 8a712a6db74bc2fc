package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds command line settings, which may also be loaded from a TOML
// file like:
//
//	arena_size = 4096
//	max_tokens = 32
//	timeout = "10s"
//	library = "programs"
type Config struct {
	ArenaSize   int           `toml:"arena_size"`
	MaxTokens   int           `toml:"max_tokens"`
	Trace       bool          `toml:"trace"`
	TraceTokens bool          `toml:"trace_tokens"`
	Timeout     time.Duration `toml:"timeout"`
	Library     string        `toml:"library"`
	SQLite      string        `toml:"sqlite"`
	History     string        `toml:"history"`
	Stats       bool          `toml:"stats"`
	Dump        bool          `toml:"dump"`
}

// configFields pairs each flag with its config file key.
var configFields = []struct {
	flag, key string
	copy      func(dst, src *Config)
}{
	{"arena", "arena_size", func(dst, src *Config) { dst.ArenaSize = src.ArenaSize }},
	{"tokens", "max_tokens", func(dst, src *Config) { dst.MaxTokens = src.MaxTokens }},
	{"trace", "trace", func(dst, src *Config) { dst.Trace = src.Trace }},
	{"trace-tokens", "trace_tokens", func(dst, src *Config) { dst.TraceTokens = src.TraceTokens }},
	{"timeout", "timeout", func(dst, src *Config) { dst.Timeout = src.Timeout }},
	{"library", "library", func(dst, src *Config) { dst.Library = src.Library }},
	{"sqlite", "sqlite", func(dst, src *Config) { dst.SQLite = src.SQLite }},
	{"history", "history", func(dst, src *Config) { dst.History = src.History }},
	{"stats", "stats", func(dst, src *Config) { dst.Stats = src.Stats }},
	{"dump", "dump", func(dst, src *Config) { dst.Dump = src.Dump }},
}

// load reads settings from a TOML file, keeping any whose flag was set
// explicitly.
func (cfg *Config) load(path string, flagSet map[string]bool) error {
	var file Config
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return fmt.Errorf("config %v: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("config %v: unknown keys: %v", path, strings.Join(keys, ", "))
	}
	for _, field := range configFields {
		if !flagSet[field.flag] && md.IsDefined(field.key) {
			field.copy(cfg, &file)
		}
	}
	return nil
}

// check validates settings.
func (cfg Config) check() error {
	if cfg.ArenaSize <= 0 || cfg.ArenaSize > 1<<20 {
		return fmt.Errorf("invalid arena size %v", cfg.ArenaSize)
	}
	if cfg.MaxTokens <= 0 || cfg.MaxTokens > 1<<12 {
		return fmt.Errorf("invalid token limit %v", cfg.MaxTokens)
	}
	if cfg.Library != "" && cfg.SQLite != "" {
		return fmt.Errorf("only one of library or sqlite may be given")
	}
	return nil
}
