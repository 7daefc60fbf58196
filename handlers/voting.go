// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/proposal-vote/auth"
	"github.com/danielhkuo/proposal-vote/middleware"
	"github.com/danielhkuo/proposal-vote/models"
	"github.com/danielhkuo/proposal-vote/sessions"
)

type VotingHandler struct {
	manager *sessions.Manager
}

func NewVotingHandler(manager *sessions.Manager) *VotingHandler {
	return &VotingHandler{manager: manager}
}

// AddVoter handles POST /sessions/{id}/voters
func (h *VotingHandler) AddVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}

	var req models.AddVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}
	voter, err := auth.ParseAddress(req.Address)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := s.AddVoter(r.Context(), caller, voter); err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.Info("voter registered", "session_id", s.ID(), "address", voter.Hex())

	rec := s.Voter(voter)
	middleware.JSONResponse(w, http.StatusCreated, models.Voter{
		Address:         voter.Hex(),
		IsRegistered:    rec.IsRegistered,
		HasVoted:        rec.HasVoted,
		VotedProposalID: rec.VotedProposalID,
	})
}

// ListVoters handles GET /sessions/{id}/voters
func (h *VotingHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}

	addrs := s.Addresses()
	resp := models.VoterList{Addresses: make([]string, len(addrs))}
	for i, a := range addrs {
		resp.Addresses[i] = a.Hex()
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetVoter handles GET /sessions/{id}/voters/{address}. Unknown addresses
// return the zero record, not 404.
func (h *VotingHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}
	addr, err := auth.ParseAddress(r.PathValue("address"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	rec := s.Voter(addr)
	middleware.JSONResponse(w, http.StatusOK, models.Voter{
		Address:         addr.Hex(),
		IsRegistered:    rec.IsRegistered,
		HasVoted:        rec.HasVoted,
		VotedProposalID: rec.VotedProposalID,
	})
}

// SubmitProposal handles POST /sessions/{id}/proposals
func (h *VotingHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}

	var req models.SubmitProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		badRequest(w, "description is required")
		return
	}

	id, err := s.RegisterProposal(r.Context(), caller, req.Description)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.Info("proposal registered", "session_id", s.ID(), "proposal_id", id, "submitter", caller.Hex())

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitProposalResponse{ProposalID: id})
}

// ListProposals handles GET /sessions/{id}/proposals
func (h *VotingHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ProposalList{Proposals: proposalModels(s.Proposals())})
}

// GetProposal handles GET /sessions/{id}/proposals/{proposal}
func (h *VotingHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(r.PathValue("proposal"), 10, 64)
	if err != nil {
		badRequest(w, "proposal must be a non-negative integer")
		return
	}

	p, err := s.Proposal(id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.Proposal{
		ID:          id,
		Description: p.Description,
		VoteCount:   p.VoteCount,
	})
}

// CastVote handles POST /sessions/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}
	if req.ProposalID == nil {
		badRequest(w, "proposal_id is required")
		return
	}

	if err := s.CastVote(r.Context(), caller, *req.ProposalID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	leader := s.WinningProposalID()
	slog.Info("vote cast", "session_id", s.ID(), "voter", caller.Hex(), "proposal_id", *req.ProposalID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		ProposalID:        *req.ProposalID,
		WinningProposalID: leader,
	})
}
