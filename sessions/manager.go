// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/proposal-vote/auth"
	"github.com/danielhkuo/proposal-vote/journal"
	"github.com/danielhkuo/proposal-vote/voting"
)

var ErrSessionNotFound = errors.New("session not found")

// Store is a journal that can be replayed.
type Store interface {
	voting.Journal
	Load(ctx context.Context) ([]journal.Record, error)
}

// Manager owns every live session of the process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*voting.Session

	store  Store
	logger *slog.Logger
	opts   []voting.Option
}

// ResolveLogger falls back to the default logger.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// NewManager creates a manager whose sessions journal to store. opts are
// applied to every session it creates or restores.
func NewManager(store Store, logger *slog.Logger, opts ...voting.Option) *Manager {
	return &Manager{
		sessions: make(map[string]*voting.Session),
		store:    store,
		logger:   ResolveLogger(logger),
		opts:     append(opts, voting.WithJournal(store)),
	}
}

// Create starts a new session administered by owner.
func (m *Manager) Create(ctx context.Context, owner common.Address) (*voting.Session, error) {
	id, err := auth.GenerateID(8)
	if err != nil {
		return nil, err
	}

	s, err := voting.New(ctx, id, owner, m.opts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", id, "owner", owner.Hex())
	return s, nil
}

func (m *Manager) Get(id string) (*voting.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// List returns every session, oldest first.
func (m *Manager) List() []*voting.Session {
	m.mu.RLock()
	out := make([]*voting.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Summary(), out[j].Summary()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Restore loads the journal and rebuilds every session in it. It returns
// the number of sessions restored. A session that fails to replay aborts
// the restore; nothing is registered in that case.
func (m *Manager) Restore(ctx context.Context) (int, error) {
	records, err := m.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load journal: %w", err)
	}

	restored := make(map[string]*voting.Session)
	for _, stream := range journal.Streams(records) {
		s, err := voting.Restore(stream.SessionID, stream.Events, m.opts...)
		if err != nil {
			return 0, err
		}
		restored[stream.SessionID] = s
		m.logger.Debug("session restored",
			"session_id", stream.SessionID,
			"events", len(stream.Events),
			"status", s.Status().String())
	}

	m.mu.Lock()
	for id, s := range restored {
		m.sessions[id] = s
	}
	m.mu.Unlock()

	m.logger.Info("journal replayed", "sessions", len(restored), "events", len(records))
	return len(restored), nil
}
