// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// CallerHeader carries the caller's address on every request.
const CallerHeader = "X-Caller-Address"

var (
	ErrMissingCaller  = errors.New("missing caller address")
	ErrInvalidAddress = errors.New("invalid address")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ParseAddress validates a 20-byte hex address. Mixed-case input must carry
// a valid EIP-55 checksum; all-lower and all-upper input is accepted as is.
// The zero address is rejected because it never identifies an account.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: zero address", ErrInvalidAddress)
	}

	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits != strings.ToLower(digits) && digits != strings.ToUpper(digits) {
		if addr.Hex()[2:] != digits {
			return common.Address{}, fmt.Errorf("%w: bad checksum %q", ErrInvalidAddress, s)
		}
	}
	return addr, nil
}

// ParseCaller reads the caller identity from a header value.
func ParseCaller(value string) (common.Address, error) {
	if strings.TrimSpace(value) == "" {
		return common.Address{}, ErrMissingCaller
	}
	return ParseAddress(value)
}
