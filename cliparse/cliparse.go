// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/proposal-vote/logging"
	"github.com/danielhkuo/proposal-vote/voting"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	LogFormat    string
	LogLevel     slog.Level
	EventBuffer  int
	EnvFile      string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var logLevel string

	fs := flag.NewFlagSet("proposal-vote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or memory)")

	// Logging and streaming
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (auto, text or json)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn or error)")
	fs.IntVar(&cfg.EventBuffer, "event-buffer", 0, "Channel size of each event subscriber")

	fs.StringVar(&cfg.EnvFile, "env", ".env", "Dotenv file loaded before reading the environment")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Existing environment variables win over the dotenv file
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType != "memory" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = os.Getenv("LOG_FORMAT")
		if cfg.LogFormat == "" {
			cfg.LogFormat = logging.FormatAuto
		}
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if cfg.EventBuffer == 0 {
		if bufStr := os.Getenv("EVENT_BUFFER"); bufStr != "" {
			n, err := strconv.Atoi(bufStr)
			if err != nil || n <= 0 {
				return Config{}, errors.New("invalid EVENT_BUFFER env variable")
			}
			cfg.EventBuffer = n
		} else {
			cfg.EventBuffer = voting.DefaultEventBuffer
		}
	}
	if cfg.EventBuffer < 0 {
		return Config{}, errors.New("event buffer must be positive")
	}

	return cfg, nil
}
