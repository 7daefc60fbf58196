// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/proposal-vote/voting"
)

// SQLStore appends events to event_log and keeps the projection tables
// current. The schema comes from db.CreateSchema.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Append(ctx context.Context, ev voting.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lastSeq int64
	prevHash := GenesisHash
	err = tx.QueryRowContext(ctx, `
		SELECT seq, hash FROM event_log
		WHERE session_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`, ev.SessionID).Scan(&lastSeq, &prevHash)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read chain head: %w", err)
	}
	if err := checkAppend(ev, uint64(lastSeq)); err != nil {
		return err
	}

	rec, err := NewRecord(ev, prevHash)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_log (session_id, seq, event_id, kind, payload, prev_hash, hash, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, ev.SessionID, int64(ev.Seq), ev.ID.String(), string(ev.Kind), string(rec.Payload),
		rec.PrevHash, rec.Hash, ev.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := project(ctx, tx, ev); err != nil {
		return fmt.Errorf("failed to update %s projection: %w", ev.Kind, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}
	return nil
}

// project mirrors ev into the voting_session, voter and proposal tables.
func project(ctx context.Context, tx *sql.Tx, ev voting.Event) error {
	var err error
	switch ev.Kind {
	case voting.EventSessionCreated:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO voting_session (id, owner, status, winning_proposal_id, created_at)
			VALUES ($1, $2, $3, 0, $4)
		`, ev.SessionID, ev.Caller.Hex(), voting.StatusVoterRegistration.String(), ev.OccurredAt)

	case voting.EventVoterRegistered:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO voter (session_id, address, is_registered, has_voted, voted_proposal_id)
			VALUES ($1, $2, $3, $4, 0)
		`, ev.SessionID, ev.Voter.Hex(), true, false)

	case voting.EventProposalRegistered:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO proposal (session_id, proposal_id, description, vote_count, submitted_by)
			VALUES ($1, $2, $3, 0, $4)
		`, ev.SessionID, int64(ev.ProposalID), ev.Description, ev.Caller.Hex())

	case voting.EventVoteCast:
		if _, err = tx.ExecContext(ctx, `
			UPDATE voter SET has_voted = $1, voted_proposal_id = $2
			WHERE session_id = $3 AND address = $4
		`, true, int64(ev.ProposalID), ev.SessionID, ev.Voter.Hex()); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `
			UPDATE proposal SET vote_count = vote_count + 1
			WHERE session_id = $1 AND proposal_id = $2
		`, ev.SessionID, int64(ev.ProposalID)); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE voting_session SET winning_proposal_id = $1 WHERE id = $2
		`, int64(ev.WinningProposalID), ev.SessionID)

	case voting.EventWorkflowChanged:
		if ev.NewStatus == voting.StatusVotesTallied {
			_, err = tx.ExecContext(ctx, `
				UPDATE voting_session SET status = $1, winning_proposal_id = $2 WHERE id = $3
			`, ev.NewStatus.String(), int64(ev.WinningProposalID), ev.SessionID)
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE voting_session SET status = $1 WHERE id = $2
			`, ev.NewStatus.String(), ev.SessionID)
		}

	default:
		return fmt.Errorf("%w: %q", voting.ErrUnknownEvent, ev.Kind)
	}
	return err
}

// Load returns every record ordered by session and sequence after
// verifying each chain.
func (s *SQLStore) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, payload, prev_hash, hash
		FROM event_log
		ORDER BY session_id, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			sessionID string
			seq       int64
			payload   string
			rec       Record
		)
		if err := rows.Scan(&sessionID, &seq, &payload, &rec.PrevHash, &rec.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		rec.Payload = []byte(payload)
		if err := json.Unmarshal(rec.Payload, &rec.Event); err != nil {
			return nil, fmt.Errorf("%w: session %s seq %d: %w", ErrBrokenChain, sessionID, seq, err)
		}
		if rec.Event.SessionID != sessionID || rec.Event.Seq != uint64(seq) {
			return nil, fmt.Errorf("%w: session %s seq %d payload belongs to %s seq %d",
				ErrBrokenChain, sessionID, seq, rec.Event.SessionID, rec.Event.Seq)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	if err := verifyAll(records); err != nil {
		return nil, err
	}
	return records, nil
}
