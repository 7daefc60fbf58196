// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Voter is the whitelist record of one address. The zero value is what an
// address that was never whitelisted looks like.
type Voter struct {
	IsRegistered    bool   `json:"is_registered"`
	HasVoted        bool   `json:"has_voted"`
	VotedProposalID uint64 `json:"voted_proposal_id"`
}

// Registry tracks whitelisted addresses in registration order.
type Registry struct {
	voters    map[common.Address]Voter
	addresses []common.Address
	voted     int
}

func NewRegistry() *Registry {
	return &Registry{voters: make(map[common.Address]Voter)}
}

// Register whitelists addr.
func (r *Registry) Register(addr common.Address) error {
	if r.voters[addr].IsRegistered {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, addr.Hex())
	}
	r.voters[addr] = Voter{IsRegistered: true}
	r.addresses = append(r.addresses, addr)
	return nil
}

// Get returns the record for addr, or the zero Voter when addr was never
// whitelisted. It never fails.
func (r *Registry) Get(addr common.Address) Voter {
	return r.voters[addr]
}

// canVote reports why addr may not vote, if anything.
func (r *Registry) canVote(addr common.Address) error {
	v := r.voters[addr]
	if !v.IsRegistered {
		return fmt.Errorf("%w: %s", ErrNotRegistered, addr.Hex())
	}
	if v.HasVoted {
		return fmt.Errorf("%w: %s voted for proposal %d", ErrAlreadyVoted, addr.Hex(), v.VotedProposalID)
	}
	return nil
}

// RecordVote marks addr as having voted for proposalID.
func (r *Registry) RecordVote(addr common.Address, proposalID uint64) error {
	if err := r.canVote(addr); err != nil {
		return err
	}
	r.voters[addr] = Voter{IsRegistered: true, HasVoted: true, VotedProposalID: proposalID}
	r.voted++
	return nil
}

// Addresses returns every whitelisted address in registration order.
func (r *Registry) Addresses() []common.Address {
	out := make([]common.Address, len(r.addresses))
	copy(out, r.addresses)
	return out
}

func (r *Registry) Len() int { return len(r.addresses) }

// Voted returns how many whitelisted addresses have cast their vote.
func (r *Registry) Voted() int { return r.voted }
