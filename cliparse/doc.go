// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite file path or PostgreSQL connection string (required
    unless DatabaseType is memory)
  - DatabaseType: sqlite (default), postgres or memory
  - LogFormat: auto (default), text or json
  - LogLevel: debug, info (default), warn or error
  - EventBuffer: channel size of each event subscriber (default: 16)
  - EnvFile: dotenv file read at startup (default: .env)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-log-format     Log format
	-log-level      Log level
	-event-buffer   Subscriber channel size
	-env            Dotenv file ("" disables it)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	LOG_FORMAT    → -log-format
	LOG_LEVEL     → -log-level
	EVENT_BUFFER  → -event-buffer

CLI flags take precedence over environment variables. The dotenv file is
loaded with github.com/joho/godotenv before the fallback and never overrides
a variable that is already set. A missing dotenv file is not an error.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing for sqlite or postgres
  - PORT or EVENT_BUFFER is not a positive integer
  - LOG_LEVEL is not a known level

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(manager, cfg)
*/
package cliparse
