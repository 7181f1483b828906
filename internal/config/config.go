// Package config reads the lgr settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvFile         = "LEDGER_FILE"
	EnvMainCurrency = "LEDGER_MAIN_CURRENCY"
	EnvHistoryLimit = "LEDGER_HISTORY_LIMIT"
	EnvLogLevel     = "LEDGER_LOG_LEVEL"
)

type Config struct {
	File         string // File is the workspace file holding the ledger session.
	MainCurrency string // MainCurrency is used when a new workspace is created.
	HistoryLimit int
	LogLevel     string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		File:         "ledger.json",
		MainCurrency: "USD",
		HistoryLimit: 100,
		LogLevel:     "warn",
	}
}

// Load reads the optional env files (".env" when none is given) into the
// process environment, without overriding variables already set, then
// returns the configuration read from the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %q: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv, falling back to Default.
func FromEnv(getenv func(string) string) (*Config, error) {
	c := Default()
	if v := getenv(EnvFile); v != "" {
		c.File = v
	}
	if v := getenv(EnvMainCurrency); v != "" {
		c.MainCurrency = strings.ToUpper(v)
	}
	if v := getenv(EnvHistoryLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid %s %q: want a positive number", EnvHistoryLimit, v)
		}
		c.HistoryLimit = n
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return &c, nil
}
