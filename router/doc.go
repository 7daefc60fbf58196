// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the proposal-vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(manager)

# Endpoints

Health:

	GET /health

Sessions (the creating caller is the administrator):

	POST /sessions      - Create session
	GET  /sessions      - List sessions
	GET  /sessions/{id} - Session summary

Workflow (administrator only, one step at a time):

	POST /sessions/{id}/proposals-registration/start
	POST /sessions/{id}/proposals-registration/end
	POST /sessions/{id}/voting-session/start
	POST /sessions/{id}/voting-session/end
	POST /sessions/{id}/tally

Voters, proposals and votes:

	POST /sessions/{id}/voters                 - Whitelist a voter (administrator)
	GET  /sessions/{id}/voters                 - Whitelisted addresses
	GET  /sessions/{id}/voters/{address}       - Voter record
	POST /sessions/{id}/proposals              - Submit proposal (whitelisted voter)
	GET  /sessions/{id}/proposals              - All proposals
	GET  /sessions/{id}/proposals/{proposal}   - One proposal
	POST /sessions/{id}/votes                  - Cast vote (whitelisted voter)

Results:

	GET /sessions/{id}/winner - Running leader or final result
	GET /sessions/{id}/events - Server-Sent Events stream

Mutating routes identify the caller with the X-Caller-Address header.

# Handler Initialization

The router creates handler instances that share one session manager:

	sessionHandler := handlers.NewSessionHandler(manager)
	votingHandler := handlers.NewVotingHandler(manager)
	resultsHandler := handlers.NewResultsHandler(manager)
*/
package router
