// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "fmt"

type Proposal struct {
	Description string `json:"description"`
	VoteCount   uint64 `json:"vote_count"`
}

// Ledger is the append-only list of proposals. A proposal's ID is its index.
type Ledger struct {
	proposals []Proposal
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Submit appends a proposal and returns its ID.
func (l *Ledger) Submit(description string) uint64 {
	l.proposals = append(l.proposals, Proposal{Description: description})
	return uint64(len(l.proposals) - 1)
}

func (l *Ledger) Get(id uint64) (Proposal, error) {
	if id >= uint64(len(l.proposals)) {
		return Proposal{}, fmt.Errorf("%w: %d (have %d)", ErrUnknownProposal, id, len(l.proposals))
	}
	return l.proposals[id], nil
}

// IncrementVote adds one vote to proposal id and returns its new count.
func (l *Ledger) IncrementVote(id uint64) (uint64, error) {
	if _, err := l.Get(id); err != nil {
		return 0, err
	}
	l.proposals[id].VoteCount++
	return l.proposals[id].VoteCount, nil
}

// List returns a copy of every proposal in submission order.
func (l *Ledger) List() []Proposal {
	out := make([]Proposal, len(l.proposals))
	copy(out, l.proposals)
	return out
}

func (l *Ledger) Len() int { return len(l.proposals) }

// TotalVotes sums the vote counts of every proposal.
func (l *Ledger) TotalVotes() uint64 {
	var total uint64
	for _, p := range l.proposals {
		total += p.VoteCount
	}
	return total
}
