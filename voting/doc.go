// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the workflow state machine and the vote tally
engine for a single voting session.

# Workflow

A session moves through six statuses, strictly forward and one step at a time:

	StatusVoterRegistration          (initial)
	StatusProposalsRegistration
	StatusProposalsRegistrationEnded
	StatusVotingSession
	StatusVotingSessionEnded
	StatusVotesTallied               (terminal)

Only the administrator fixed at creation may move the session forward or
whitelist voters. Every other mutation declares the status it needs:

	AddVoter          StatusVoterRegistration
	RegisterProposal  StatusProposalsRegistration
	CastVote          StatusVotingSession

# Components

A Session owns a Registry (whitelisted voters keyed by address), a Ledger
(append-only proposals, ID = position), a Tally (incremental leader) and an
Emitter (event fan-out). None of them are safe for concurrent use on their
own; the Session serializes every call.

# Commit path

Each mutation is expressed as an Event. The session checks it against the
current state, appends it to the Journal, applies it and publishes it:

	check -> Journal.Append -> apply -> Emitter.Publish

A failed check or a failed append leaves the session untouched. Restore
replays journaled events through the same check and apply steps.

# Leader tracking

The tally keeps the leading proposal as votes arrive. The leader changes only
when a proposal's count strictly exceeds the leader's count, so on a tie the
proposal that reached the count first keeps the lead. TallyVotes rescans the
whole ledger (lowest ID among the maximum count) and fails with
ErrTallyMismatch if the rescanned maximum disagrees with the tracked leader.

# Errors

All failures are sentinel errors wrapped with context; match with errors.Is:

	ErrUnauthorized, ErrWorkflowViolation, ErrAlreadyRegistered,
	ErrNotRegistered, ErrAlreadyVoted, ErrUnknownProposal
*/
package voting
