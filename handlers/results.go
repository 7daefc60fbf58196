// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/proposal-vote/middleware"
	"github.com/danielhkuo/proposal-vote/sessions"
)

// keepAliveInterval spaces SSE comments sent on idle streams.
const keepAliveInterval = 15 * time.Second

type ResultsHandler struct {
	manager   *sessions.Manager
	keepAlive time.Duration
}

func NewResultsHandler(manager *sessions.Manager) *ResultsHandler {
	return &ResultsHandler{manager: manager, keepAlive: keepAliveInterval}
}

// GetWinner handles GET /sessions/{id}/winner. Before tallying it reports
// the running leader; afterwards the final result.
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, winnerModel(s))
}

// StreamEvents handles GET /sessions/{id}/events as Server-Sent Events.
// Only events published after the request arrives are sent.
func (h *ResultsHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.manager)
	if !ok {
		return
	}

	sub := s.Subscribe(r.Context())
	defer sub.Close()

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		slog.Error("event stream not supported", "session_id", s.ID(), "error", err)
		return
	}

	slog.Debug("event stream opened", "session_id", s.ID(), "remote", middleware.GetClientIP(r))

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				slog.Error("failed to encode event", "session_id", s.ID(), "seq", ev.Seq, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.Seq, ev.Kind, data); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
