// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the proposal-vote API server.

proposal-vote runs organizational votes: an administrator whitelists voters,
voters submit proposals and cast one vote each, and the proposal with the
most votes wins. Each session follows a fixed six-phase workflow and every
change is written to a hash-chained journal before it takes effect.

# Starting the Server

With an embedded sqlite database:

	DATABASE_URL=votes.db go run .

Or with flags against PostgreSQL:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Settings are read from flags, then the environment, then a .env file:

  - DATABASE_URL (-d): sqlite file or PostgreSQL connection string
  - DATABASE_TYPE (-t): sqlite (default), postgres or memory
  - PORT (-p): Server port (default: 3318)
  - LOG_FORMAT (-log-format): auto, text or json
  - LOG_LEVEL (-log-level): debug, info, warn or error
  - EVENT_BUFFER (-event-buffer): per-subscriber event queue size

# Startup

The server opens the journal, replays every recorded session through the
same checks live requests use, and only then starts listening. A journal
that fails verification stops startup.

# Architecture

  - voting: workflow state machine, voter registry, proposal ledger, tally engine, events
  - journal: hash-chained event journal (memory and SQL)
  - sessions: session manager and journal replay
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Caller address parsing and ID generation
  - db: Driver selection and schema creation
  - logging: slog handler setup
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
