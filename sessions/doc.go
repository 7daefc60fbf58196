// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sessions hosts many voting sessions in one process.

A Manager maps session IDs to live *voting.Session values and wires each
one to the shared journal:

	store := journal.NewSQLStore(conn)
	m := sessions.NewManager(store, logger, voting.WithEventBuffer(cfg.EventBuffer))
	if _, err := m.Restore(ctx); err != nil {
		// journal is corrupt or unreadable
	}

	s, err := m.Create(ctx, caller) // caller becomes the administrator
	s, err = m.Get(id)              // ErrSessionNotFound if unknown

Restore replays every journaled session through voting.Restore, which runs
the same checks as live calls, so a restored session is identical to the
one that wrote the journal.
*/
package sessions
