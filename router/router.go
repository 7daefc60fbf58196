// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/proposal-vote/handlers"
	"github.com/danielhkuo/proposal-vote/middleware"
	"github.com/danielhkuo/proposal-vote/sessions"
)

func NewRouter(manager *sessions.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(manager)
	votingHandler := handlers.NewVotingHandler(manager)
	resultsHandler := handlers.NewResultsHandler(manager)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session lifecycle (administrator operations)
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions", middleware.WithLogging(sessionHandler.ListSessions))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("POST /sessions/{id}/proposals-registration/start", middleware.WithLogging(sessionHandler.StartProposalsRegistration))
	mux.HandleFunc("POST /sessions/{id}/proposals-registration/end", middleware.WithLogging(sessionHandler.EndProposalsRegistration))
	mux.HandleFunc("POST /sessions/{id}/voting-session/start", middleware.WithLogging(sessionHandler.StartVotingSession))
	mux.HandleFunc("POST /sessions/{id}/voting-session/end", middleware.WithLogging(sessionHandler.EndVotingSession))
	mux.HandleFunc("POST /sessions/{id}/tally", middleware.WithLogging(sessionHandler.TallyVotes))

	// Whitelist, proposals and votes
	mux.HandleFunc("POST /sessions/{id}/voters", middleware.WithLogging(votingHandler.AddVoter))
	mux.HandleFunc("GET /sessions/{id}/voters", middleware.WithLogging(votingHandler.ListVoters))
	mux.HandleFunc("GET /sessions/{id}/voters/{address}", middleware.WithLogging(votingHandler.GetVoter))
	mux.HandleFunc("POST /sessions/{id}/proposals", middleware.WithLogging(votingHandler.SubmitProposal))
	mux.HandleFunc("GET /sessions/{id}/proposals", middleware.WithLogging(votingHandler.ListProposals))
	mux.HandleFunc("GET /sessions/{id}/proposals/{proposal}", middleware.WithLogging(votingHandler.GetProposal))
	mux.HandleFunc("POST /sessions/{id}/votes", middleware.WithLogging(votingHandler.CastVote))

	// Results and event stream
	mux.HandleFunc("GET /sessions/{id}/winner", middleware.WithLogging(resultsHandler.GetWinner))
	mux.HandleFunc("GET /sessions/{id}/events", middleware.WithLogging(resultsHandler.StreamEvents))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("proposal-vote API v1"))
	})

	return mux
}
