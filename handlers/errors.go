// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/proposal-vote/auth"
	"github.com/danielhkuo/proposal-vote/middleware"
	"github.com/danielhkuo/proposal-vote/models"
	"github.com/danielhkuo/proposal-vote/sessions"
	"github.com/danielhkuo/proposal-vote/voting"
)

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, voting.ErrUnauthorized):
		return http.StatusForbidden, models.CodeUnauthorized
	case errors.Is(err, voting.ErrWorkflowViolation):
		return http.StatusConflict, models.CodeWorkflowViolation
	case errors.Is(err, voting.ErrAlreadyRegistered):
		return http.StatusConflict, models.CodeAlreadyRegistered
	case errors.Is(err, voting.ErrAlreadyVoted):
		return http.StatusConflict, models.CodeAlreadyVoted
	case errors.Is(err, voting.ErrNotRegistered):
		return http.StatusForbidden, models.CodeNotRegistered
	case errors.Is(err, voting.ErrUnknownProposal):
		return http.StatusNotFound, models.CodeUnknownProposal
	case errors.Is(err, sessions.ErrSessionNotFound):
		return http.StatusNotFound, models.CodeSessionNotFound
	case errors.Is(err, auth.ErrMissingCaller):
		return http.StatusUnauthorized, models.CodeMissingCaller
	case errors.Is(err, auth.ErrInvalidAddress), errors.Is(err, voting.ErrInvalidOwner):
		return http.StatusBadRequest, models.CodeInvalidAddress
	default:
		return http.StatusInternalServerError, models.CodeInternal
	}
}

// writeDomainError reports err to the client. Domain errors are returned
// verbatim; anything else is logged and hidden behind a generic message.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		message = "Failed to record event"
	}
	middleware.CodedErrorResponse(w, status, code, message)
}

// requireCaller reads the caller address or answers 401.
func requireCaller(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	caller, err := middleware.CallerAddress(r)
	if err != nil {
		status, code := classify(err)
		if errors.Is(err, auth.ErrInvalidAddress) {
			status = http.StatusUnauthorized
		}
		middleware.CodedErrorResponse(w, status, code, err.Error())
		return common.Address{}, false
	}
	return caller, true
}

// lookupSession resolves the {id} path value or answers 404.
func lookupSession(w http.ResponseWriter, r *http.Request, m *sessions.Manager) (*voting.Session, bool) {
	s, err := m.Get(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}
	return s, true
}

func badRequest(w http.ResponseWriter, message string) {
	middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeBadRequest, message)
}
