// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/proposal-vote/db"
	"github.com/danielhkuo/proposal-vote/voting"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSQLStoreRoundTrip(t *testing.T) {
	conn := openSQLite(t)
	store := NewSQLStore(conn)
	ctx := context.Background()

	live := runElection(t, store, "s1")
	runElection(t, store, "s0")

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2*electionEvents)

	streams := Streams(records)
	require.Len(t, streams, 2)
	assert.Equal(t, "s0", streams[0].SessionID)
	assert.Equal(t, "s1", streams[1].SessionID)

	restored, err := voting.Restore("s1", streams[1].Events)
	require.NoError(t, err)
	assert.Equal(t, live.Status(), restored.Status())
	assert.Equal(t, live.Proposals(), restored.Proposals())
	assert.Equal(t, live.Addresses(), restored.Addresses())
	assert.Equal(t, live.Seq(), restored.Seq())
	assert.Equal(t, live.WinningProposalID(), restored.WinningProposalID())
}

func TestSQLStoreProjections(t *testing.T) {
	conn := openSQLite(t)
	runElection(t, NewSQLStore(conn), "s1")

	var (
		status string
		winner int64
		owned  string
	)
	err := conn.QueryRow("SELECT status, winning_proposal_id, owner FROM voting_session WHERE id = $1", "s1").
		Scan(&status, &winner, &owned)
	require.NoError(t, err)
	assert.Equal(t, "votes_tallied", status)
	assert.Equal(t, int64(1), winner)
	assert.Equal(t, owner.Hex(), owned)

	var votes int64
	err = conn.QueryRow("SELECT vote_count FROM proposal WHERE session_id = $1 AND proposal_id = $2", "s1", 1).Scan(&votes)
	require.NoError(t, err)
	assert.Equal(t, int64(2), votes)

	var voted int
	err = conn.QueryRow("SELECT COUNT(*) FROM voter WHERE session_id = $1 AND has_voted = $2", "s1", true).Scan(&voted)
	require.NoError(t, err)
	assert.Equal(t, 2, voted)

	var submittedBy string
	err = conn.QueryRow("SELECT submitted_by FROM proposal WHERE session_id = $1 AND proposal_id = $2", "s1", 0).Scan(&submittedBy)
	require.NoError(t, err)
	assert.Equal(t, alice.Hex(), submittedBy)
}

func TestSQLStoreDetectsTampering(t *testing.T) {
	conn := openSQLite(t)
	store := NewSQLStore(conn)
	runElection(t, store, "s1")

	_, err := conn.Exec("UPDATE event_log SET hash = $1 WHERE session_id = $2 AND seq = $3", "forged", "s1", 5)
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrBrokenChain)
}

func TestSQLStoreRejectedAppendWritesNothing(t *testing.T) {
	conn := openSQLite(t)
	store := NewSQLStore(conn)
	ctx := context.Background()

	s, err := voting.New(ctx, "s1", owner, voting.WithJournal(store))
	require.NoError(t, err)

	err = store.Append(ctx, voting.Event{SessionID: "s1", Seq: 5, Kind: voting.EventVoterRegistered, Voter: alice})
	assert.ErrorIs(t, err, ErrOutOfSequence)

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM voter").Scan(&n))
	assert.Equal(t, 0, n)

	require.NoError(t, s.AddVoter(ctx, owner, alice))
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM event_log WHERE session_id = $1", "s1").Scan(&n))
	assert.Equal(t, 2, n)
}
