// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package journal durably stores voting events.

Both stores implement voting.Journal, so a session calls Append before it
changes any state and a failed Append rejects the operation.

# Stores

  - MemoryStore: process-local slice, used by tests and DATABASE_TYPE=memory
  - SQLStore: database/sql over sqlite (modernc.org/sqlite) or postgres (lib/pq)

SQLStore writes each event in one transaction: the event_log row plus the
projection rows in voting_session, voter and proposal. The projections are
for operators and reporting; sessions are always rebuilt from event_log.

# Hash Chain

Records are chained per session:

	hash = hex(sha256(prev_hash || payload))

The first record of a session uses GenesisHash ("0") as prev_hash. Load
verifies every chain and fails with ErrBrokenChain when a payload or link
was altered.

# Replay

	records, err := store.Load(ctx)
	for _, stream := range journal.Streams(records) {
		s, err := voting.Restore(stream.SessionID, stream.Events, voting.WithJournal(store))
		// ...
	}
*/
package journal
