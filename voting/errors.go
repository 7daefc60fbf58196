// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "errors"

var (
	ErrUnauthorized      = errors.New("caller is not the administrator")
	ErrWorkflowViolation = errors.New("workflow not respected")
	ErrAlreadyRegistered = errors.New("address already whitelisted")
	ErrNotRegistered     = errors.New("address not whitelisted")
	ErrAlreadyVoted      = errors.New("address has already voted")
	ErrUnknownProposal   = errors.New("unknown proposal")
)

// Errors raised while building or restoring a session rather than by a caller.
var (
	ErrInvalidOwner    = errors.New("administrator address must not be zero")
	ErrTallyMismatch   = errors.New("tracked leader disagrees with full tally")
	ErrCorruptJournal  = errors.New("journal does not replay cleanly")
	ErrUnknownEvent    = errors.New("unknown event kind")
	ErrSessionRequired = errors.New("session id is required")
)
