// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the proposal-vote API.

# Handler Types

Each handler is a struct holding the session manager:

  - SessionHandler: session creation, listing and workflow transitions
  - VotingHandler: voter whitelisting, proposal submission and vote casting
  - ResultsHandler: winner reporting and the event stream

Handlers are created via constructor functions:

	sessionHandler := handlers.NewSessionHandler(manager)

# Caller Identity

Mutating requests name the caller in the X-Caller-Address header as a hex
address. A missing or malformed header is answered with 401 before the
session is consulted. Whether the caller may perform the operation is
decided by the session itself.

# Workflow

Sessions move through six phases, one step at a time:

	voter_registration → proposals_registration → proposals_registration_ended
	→ voting_session → voting_session_ended → votes_tallied

Only the administrator may advance the phase or whitelist voters. Proposals
and votes come from whitelisted voters in their phase.

# Errors

Domain errors are mapped to statuses in one place (errors.go) and returned
as ErrorResponse with a stable code:

	unauthorized        403
	not_registered      403
	workflow_violation  409
	already_registered  409
	already_voted       409
	unknown_proposal    404
	session_not_found   404
	missing_caller      401
	invalid_address     400 (401 when it is the caller header)

Journal failures are logged and reported as 500 without detail.

# Event Stream

GET /sessions/{id}/events streams session events as Server-Sent Events.
Each frame carries the event sequence number as its id and the event kind
as its name. Only events published after the request arrives are sent.
*/
package handlers
