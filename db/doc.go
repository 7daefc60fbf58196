// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Opening

Open selects the driver from the configured database type, pings the
server and creates the schema:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

Supported types:

  - sqlite: modernc.org/sqlite (pure Go, default). The pool is limited to one
    connection.
  - postgres: github.com/lib/pq

# Schema Creation

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes. The SQL avoids dialect-specific features so the same
statements run on both drivers.

# Tables

  - voting_session: administrator, workflow status and winning proposal
  - voter: whitelist entries and vote records
  - proposal: proposals in submission order with their vote counts
  - event_log: hash-chained journal, the source of truth

# Relationships

	voting_session 1──* voter
	voting_session 1──* proposal
	voting_session 1──* event_log (by session_id, no foreign key)

voting_session, voter and proposal are projections of event_log written in
the same transaction as each event.
*/
package db
