// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package journal

import (
	"context"
	"sync"

	"github.com/danielhkuo/proposal-vote/voting"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	heads   map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{heads: make(map[string]Record)}
}

func (m *MemoryStore) Append(ctx context.Context, ev voting.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.heads[ev.SessionID]
	prevHash := GenesisHash
	if ok {
		prevHash = prev.Hash
	}
	if err := checkAppend(ev, prev.Event.Seq); err != nil {
		return err
	}

	rec, err := NewRecord(ev, prevHash)
	if err != nil {
		return err
	}
	m.records = append(m.records, rec)
	m.heads[ev.SessionID] = rec
	return nil
}

// Load returns every record in append order after verifying each chain.
func (m *MemoryStore) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	m.mu.Unlock()

	if err := verifyAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
