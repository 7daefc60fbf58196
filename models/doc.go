// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - AddVoterRequest: address
  - SubmitProposalRequest: description
  - CastVoteRequest: proposal_id (required, may be 0)

# Response Types

Types for JSON responses:

  - Session: administrator, status, counts and current winner
  - SessionList: sessions, oldest first
  - Voter: whitelist record (zero value for unknown addresses)
  - VoterList: addresses in registration order
  - Proposal / ProposalList: proposals in ID order
  - SubmitProposalResponse: proposal_id
  - CastVoteResponse: proposal_id, winning_proposal_id
  - WorkflowResponse: previous_status, status
  - Winner: leading or final proposal with a human-readable summary
  - ErrorResponse: error, message, code

Addresses are EIP-55 checksummed hex strings. Statuses use the workflow
names (voter_registration ... votes_tallied).

# Error Codes

ErrorResponse.Code is stable for clients:

	unauthorized        caller is not the administrator
	workflow_violation  operation not allowed in the current status
	already_registered  address already whitelisted
	not_registered      address not whitelisted
	already_voted       address has already voted
	unknown_proposal    proposal ID out of range
	missing_caller      X-Caller-Address header absent
	invalid_address     malformed address
	session_not_found   unknown session ID
	bad_request         malformed body
	internal            journal or server failure
*/
package models
