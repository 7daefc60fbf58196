// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/proposal-vote/middleware"
	"github.com/danielhkuo/proposal-vote/models"
	"github.com/danielhkuo/proposal-vote/sessions"
	"github.com/danielhkuo/proposal-vote/voting"
)

type SessionHandler struct {
	manager *sessions.Manager
}

func NewSessionHandler(manager *sessions.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// CreateSession handles POST /sessions. The caller becomes the administrator.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	s, err := h.manager.Create(r.Context(), caller)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, sessionModel(s.Summary()))
}

// ListSessions handles GET /sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	list := h.manager.List()
	resp := models.SessionList{Sessions: make([]models.Session, 0, len(list))}
	for _, s := range list {
		resp.Sessions = append(resp.Sessions, sessionModel(s.Summary()))
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sessionModel(s.Summary()))
}

// StartProposalsRegistration handles POST /sessions/{id}/proposals-registration/start
func (h *SessionHandler) StartProposalsRegistration(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*voting.Session).StartProposalsRegistration)
}

// EndProposalsRegistration handles POST /sessions/{id}/proposals-registration/end
func (h *SessionHandler) EndProposalsRegistration(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*voting.Session).EndProposalsRegistration)
}

// StartVotingSession handles POST /sessions/{id}/voting-session/start
func (h *SessionHandler) StartVotingSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*voting.Session).StartVotingSession)
}

// EndVotingSession handles POST /sessions/{id}/voting-session/end
func (h *SessionHandler) EndVotingSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*voting.Session).EndVotingSession)
}

func (h *SessionHandler) transition(w http.ResponseWriter, r *http.Request,
	step func(*voting.Session, context.Context, common.Address) error) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}

	prev := s.Status()
	if err := step(s, r.Context(), caller); err != nil {
		writeDomainError(w, r, err)
		return
	}
	next := s.Status()

	slog.Info("workflow changed", "session_id", s.ID(), "from", prev.String(), "to", next.String())

	middleware.JSONResponse(w, http.StatusOK, models.WorkflowResponse{
		PreviousStatus: prev.String(),
		Status:         next.String(),
	})
}

// TallyVotes handles POST /sessions/{id}/tally
func (h *SessionHandler) TallyVotes(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}

	winner, err := s.TallyVotes(r.Context(), caller)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.Info("votes tallied", "session_id", s.ID(), "winning_proposal_id", winner)

	middleware.JSONResponse(w, http.StatusOK, winnerModel(s))
}
