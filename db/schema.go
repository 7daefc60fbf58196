// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The statements stay within the subset sqlite and postgres share.
const schema = `
-- Voting sessions
CREATE TABLE IF NOT EXISTS voting_session (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN (
        'voter_registration',
        'proposals_registration',
        'proposals_registration_ended',
        'voting_session',
        'voting_session_ended',
        'votes_tallied'
    )),
    winning_proposal_id BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voting_session_status ON voting_session(status);

-- Whitelisted voters
CREATE TABLE IF NOT EXISTS voter (
    session_id TEXT NOT NULL REFERENCES voting_session(id) ON DELETE CASCADE,
    address TEXT NOT NULL,
    is_registered BOOLEAN NOT NULL,
    has_voted BOOLEAN NOT NULL,
    voted_proposal_id BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (session_id, address)
);

-- Proposals
CREATE TABLE IF NOT EXISTS proposal (
    session_id TEXT NOT NULL REFERENCES voting_session(id) ON DELETE CASCADE,
    proposal_id BIGINT NOT NULL,
    description TEXT NOT NULL,
    vote_count BIGINT NOT NULL DEFAULT 0,
    submitted_by TEXT NOT NULL,
    PRIMARY KEY (session_id, proposal_id)
);

-- Hash-chained event journal
CREATE TABLE IF NOT EXISTS event_log (
    session_id TEXT NOT NULL,
    seq BIGINT NOT NULL,
    event_id TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    payload TEXT NOT NULL,
    prev_hash TEXT NOT NULL,
    hash TEXT NOT NULL,
    occurred_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_event_log_kind ON event_log(kind);
`
