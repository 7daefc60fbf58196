// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"checksummed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"lower case", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"no prefix", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"surrounding space", "  0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed ", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"bad checksum", "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "", true},
		{"zero", "0x0000000000000000000000000000000000000000", "", true},
		{"too short", "0x1234", "", true},
		{"not hex", "0xzzzeb6053f3e94c9b9a09f33669435e7ef1beaed", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAddress) {
					t.Errorf("ParseAddress(%q) error = %v, want ErrInvalidAddress", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAddress(%q) error = %v", tt.input, err)
			}
			if got.Hex() != tt.want {
				t.Errorf("ParseAddress(%q) = %s, want %s", tt.input, got.Hex(), tt.want)
			}
		})
	}
}

func TestParseCaller(t *testing.T) {
	if _, err := ParseCaller(""); !errors.Is(err, ErrMissingCaller) {
		t.Errorf("expected ErrMissingCaller, got %v", err)
	}
	if _, err := ParseCaller("   "); !errors.Is(err, ErrMissingCaller) {
		t.Errorf("expected ErrMissingCaller for blank header, got %v", err)
	}
	if _, err := ParseCaller("alice"); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
	addr, err := ParseCaller("0x0000000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("ParseCaller error = %v", err)
	}
	if addr.Hex() != "0x0000000000000000000000000000000000000001" {
		t.Errorf("unexpected address %s", addr.Hex())
	}
}
