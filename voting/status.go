// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "fmt"

// WorkflowStatus is the current phase of a session. The numeric values are
// part of the public contract and match the order of the phases.
type WorkflowStatus uint8

const (
	StatusVoterRegistration WorkflowStatus = iota
	StatusProposalsRegistration
	StatusProposalsRegistrationEnded
	StatusVotingSession
	StatusVotingSessionEnded
	StatusVotesTallied
)

var statusNames = [...]string{
	StatusVoterRegistration:          "voter_registration",
	StatusProposalsRegistration:      "proposals_registration",
	StatusProposalsRegistrationEnded: "proposals_registration_ended",
	StatusVotingSession:              "voting_session",
	StatusVotingSessionEnded:         "voting_session_ended",
	StatusVotesTallied:               "votes_tallied",
}

func (s WorkflowStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	return statusNames[s]
}

// Valid reports whether s is one of the six known statuses.
func (s WorkflowStatus) Valid() bool {
	return s <= StatusVotesTallied
}

// Terminal reports whether no transition can leave s.
func (s WorkflowStatus) Terminal() bool {
	return s == StatusVotesTallied
}

// Next returns the status that follows s. ok is false for the terminal status.
func (s WorkflowStatus) Next() (next WorkflowStatus, ok bool) {
	if !s.Valid() || s.Terminal() {
		return s, false
	}
	return s + 1, true
}

// ParseStatus converts a status name back into a WorkflowStatus.
func ParseStatus(name string) (WorkflowStatus, error) {
	for i, n := range statusNames {
		if n == name {
			return WorkflowStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown workflow status %q", name)
}

// MarshalText encodes the status by name so journal payloads and API
// responses stay readable.
func (s WorkflowStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid workflow status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *WorkflowStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
