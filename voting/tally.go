// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "fmt"

// Tally tracks the leading proposal as votes arrive.
type Tally struct {
	leader      uint64
	leaderVotes uint64
}

func NewTally() *Tally {
	return &Tally{}
}

// Leader returns the current leading proposal. It is 0 before any vote.
func (t *Tally) Leader() uint64 { return t.leader }

// LeaderVotes returns the vote count the leader had when it last moved.
func (t *Tally) LeaderVotes() uint64 { return t.leaderVotes }

// Observe records that proposal id now has count votes. Counts only grow by
// one per vote, so a vote for the leader always refreshes leaderVotes and a
// tie never moves the lead.
func (t *Tally) Observe(id, count uint64) {
	if count > t.leaderVotes {
		t.leader = id
		t.leaderVotes = count
	}
}

// peek returns the leader Observe(id, count) would produce without applying it.
func (t *Tally) peek(id, count uint64) uint64 {
	if count > t.leaderVotes {
		return id
	}
	return t.leader
}

// Final rescans proposals and returns the lowest ID holding the maximum vote
// count. It fails when that maximum is not the count of the tracked leader.
func (t *Tally) Final(proposals []Proposal) (uint64, error) {
	id, max := Rescan(proposals)
	if max != t.leaderVotes {
		return 0, fmt.Errorf("%w: rescan found %d votes on proposal %d, tracked leader %d has %d",
			ErrTallyMismatch, max, id, t.leader, t.leaderVotes)
	}
	return id, nil
}

// Rescan returns the lowest proposal ID holding the maximum vote count and
// that count. An empty or vote-less ledger yields proposal 0.
func Rescan(proposals []Proposal) (id uint64, votes uint64) {
	for i, p := range proposals {
		if p.VoteCount > votes {
			id = uint64(i)
			votes = p.VoteCount
		}
	}
	return id, votes
}
