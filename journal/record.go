// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/proposal-vote/voting"
)

// GenesisHash is the prev_hash of the first record of every session.
const GenesisHash = "0"

var (
	ErrBrokenChain   = errors.New("journal hash chain is broken")
	ErrOutOfSequence = errors.New("event out of sequence")
	ErrNotJournaled  = errors.New("event kind is not journaled")
)

// Record is one stored event with its chain links.
type Record struct {
	Event    voting.Event
	Payload  []byte
	PrevHash string
	Hash     string
}

// NewRecord encodes ev and links it to prevHash.
func NewRecord(ev voting.Event, prevHash string) (Record, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode event %d: %w", ev.Seq, err)
	}
	return Record{
		Event:    ev,
		Payload:  payload,
		PrevHash: prevHash,
		Hash:     chainHash(prevHash, payload),
	}, nil
}

func chainHash(prevHash string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(prevHash))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks the records of a single session, oldest first.
func Verify(records []Record) error {
	prev := GenesisHash
	for i, r := range records {
		if r.PrevHash != prev {
			return fmt.Errorf("%w: session %s seq %d links to %.12s, expected %.12s",
				ErrBrokenChain, r.Event.SessionID, r.Event.Seq, r.PrevHash, prev)
		}
		if chainHash(r.PrevHash, r.Payload) != r.Hash {
			return fmt.Errorf("%w: session %s seq %d payload does not match its hash",
				ErrBrokenChain, r.Event.SessionID, r.Event.Seq)
		}
		if r.Event.Seq != uint64(i+1) {
			return fmt.Errorf("%w: session %s record %d has seq %d",
				ErrOutOfSequence, r.Event.SessionID, i, r.Event.Seq)
		}
		prev = r.Hash
	}
	return nil
}

// Stream is the ordered event history of one session.
type Stream struct {
	SessionID string
	Events    []voting.Event
}

// Streams groups records by session, keeping the order in which each
// session first appears.
func Streams(records []Record) []Stream {
	index := make(map[string]int)
	var out []Stream
	for _, r := range records {
		i, ok := index[r.Event.SessionID]
		if !ok {
			i = len(out)
			index[r.Event.SessionID] = i
			out = append(out, Stream{SessionID: r.Event.SessionID})
		}
		out[i].Events = append(out[i].Events, r.Event)
	}
	return out
}

// verifyAll runs Verify over every session in records.
func verifyAll(records []Record) error {
	bySession := make(map[string][]Record)
	var order []string
	for _, r := range records {
		id := r.Event.SessionID
		if _, ok := bySession[id]; !ok {
			order = append(order, id)
		}
		bySession[id] = append(bySession[id], r)
	}
	for _, id := range order {
		if err := Verify(bySession[id]); err != nil {
			return err
		}
	}
	return nil
}

func checkAppend(ev voting.Event, lastSeq uint64) error {
	if !ev.Journaled() {
		return fmt.Errorf("%w: %s", ErrNotJournaled, ev.Kind)
	}
	if ev.SessionID == "" {
		return voting.ErrSessionRequired
	}
	if ev.Seq != lastSeq+1 {
		return fmt.Errorf("%w: session %s got seq %d after %d", ErrOutOfSequence, ev.SessionID, ev.Seq, lastSeq)
	}
	return nil
}
