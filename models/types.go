// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Error codes returned in ErrorResponse.Code
const (
	CodeUnauthorized      = "unauthorized"
	CodeWorkflowViolation = "workflow_violation"
	CodeAlreadyRegistered = "already_registered"
	CodeNotRegistered     = "not_registered"
	CodeAlreadyVoted      = "already_voted"
	CodeUnknownProposal   = "unknown_proposal"
	CodeMissingCaller     = "missing_caller"
	CodeInvalidAddress    = "invalid_address"
	CodeSessionNotFound   = "session_not_found"
	CodeBadRequest        = "bad_request"
	CodeInternal          = "internal"
)

// Request types

type AddVoterRequest struct {
	Address string `json:"address"`
}

type SubmitProposalRequest struct {
	Description string `json:"description"`
}

// ProposalID is a pointer so a missing field is distinguishable from 0.
type CastVoteRequest struct {
	ProposalID *uint64 `json:"proposal_id"`
}

// Response types

type Session struct {
	ID                string     `json:"id"`
	Owner             string     `json:"owner"`
	Status            string     `json:"status"`
	WinningProposalID uint64     `json:"winning_proposal_id"`
	Final             bool       `json:"final"`
	Voters            int        `json:"voters"`
	VotesCast         int        `json:"votes_cast"`
	Proposals         int        `json:"proposals"`
	Seq               uint64     `json:"seq"`
	CreatedAt         time.Time  `json:"created_at"`
	TalliedAt         *time.Time `json:"tallied_at,omitempty"`
}

type SessionList struct {
	Sessions []Session `json:"sessions"`
}

type Voter struct {
	Address         string `json:"address"`
	IsRegistered    bool   `json:"is_registered"`
	HasVoted        bool   `json:"has_voted"`
	VotedProposalID uint64 `json:"voted_proposal_id"`
}

type VoterList struct {
	Addresses []string `json:"addresses"`
}

type Proposal struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	VoteCount   uint64 `json:"vote_count"`
}

type ProposalList struct {
	Proposals []Proposal `json:"proposals"`
}

type SubmitProposalResponse struct {
	ProposalID uint64 `json:"proposal_id"`
}

type CastVoteResponse struct {
	ProposalID        uint64 `json:"proposal_id"`
	WinningProposalID uint64 `json:"winning_proposal_id"`
}

type WorkflowResponse struct {
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
}

// Winner describes the leading proposal. Final is false while votes can
// still change the result.
type Winner struct {
	SessionID         string `json:"session_id"`
	Status            string `json:"status"`
	WinningProposalID uint64 `json:"winning_proposal_id"`
	Description       string `json:"description,omitempty"`
	VoteCount         uint64 `json:"vote_count"`
	TotalVotes        uint64 `json:"total_votes"`
	Final             bool   `json:"final"`
	Summary           string `json:"summary"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
