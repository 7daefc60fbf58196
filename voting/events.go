// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

type EventKind string

const (
	EventSessionCreated     EventKind = "session_created"
	EventVoterRegistered    EventKind = "voter_registered"
	EventProposalRegistered EventKind = "proposal_registered"
	EventVoteCast           EventKind = "vote_cast"
	EventWorkflowChanged    EventKind = "workflow_changed"

	// EventVotesTallied is published after the workflow change into
	// StatusVotesTallied. It is derived from that change, shares its Seq and
	// is never journaled.
	EventVotesTallied EventKind = "votes_tallied"
)

// Event is one state change of a session. Which fields are meaningful
// depends on Kind:
//
//	session_created      Caller (administrator)
//	voter_registered     Caller, Voter
//	proposal_registered  Caller, ProposalID, Description
//	vote_cast            Caller, Voter, ProposalID, WinningProposalID
//	workflow_changed     Caller, PreviousStatus, NewStatus (+ WinningProposalID on tally)
//	votes_tallied        Caller, WinningProposalID
type Event struct {
	ID                uuid.UUID      `json:"id"`
	SessionID         string         `json:"session_id"`
	Seq               uint64         `json:"seq"`
	Kind              EventKind      `json:"kind"`
	Caller            common.Address `json:"caller"`
	Voter             common.Address `json:"voter"`
	ProposalID        uint64         `json:"proposal_id"`
	Description       string         `json:"description,omitempty"`
	PreviousStatus    WorkflowStatus `json:"previous_status"`
	NewStatus         WorkflowStatus `json:"new_status"`
	WinningProposalID uint64         `json:"winning_proposal_id"`
	OccurredAt        time.Time      `json:"occurred_at"`
}

// Journaled reports whether the event kind is written to the journal.
func (e Event) Journaled() bool {
	return e.Kind != EventVotesTallied
}
