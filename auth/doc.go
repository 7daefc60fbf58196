// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth identifies callers and generates identifiers.

# Caller Identity

Every request names its caller in the X-Caller-Address header. The service
does not verify signatures; identity is supplied by the surrounding account
system and only checked for shape:

	caller, err := auth.ParseCaller(r.Header.Get(auth.CallerHeader))

ParseCaller returns ErrMissingCaller for an empty header and
ErrInvalidAddress for anything that is not a non-zero 20-byte hex address.
Mixed-case addresses must carry a valid EIP-55 checksum.

# Session IDs

Session IDs are random hex strings:

	id, err := auth.GenerateID(8) // 16 hex characters
*/
package auth
