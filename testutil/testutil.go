// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/proposal-vote/auth"
	"github.com/danielhkuo/proposal-vote/cliparse"
	"github.com/danielhkuo/proposal-vote/db"
	"github.com/danielhkuo/proposal-vote/journal"
	"github.com/danielhkuo/proposal-vote/sessions"
	"github.com/danielhkuo/proposal-vote/voting"
)

// SetupTestDB creates a fresh sqlite database with the full schema in a
// temporary directory. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "test.db",
		DatabaseType: "sqlite",
		LogFormat:    "text",
		LogLevel:     slog.LevelInfo,
		EventBuffer:  voting.DefaultEventBuffer,
	}
}

// NewTestManager returns a session manager journaling to conn
func NewTestManager(t *testing.T, conn *sql.DB) *sessions.Manager {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return sessions.NewManager(journal.NewSQLStore(conn), logger)
}

// Address returns a deterministic non-zero address for n > 0
func Address(n int64) common.Address {
	return common.BigToAddress(big.NewInt(n))
}

// CallerHeaders returns request headers identifying caller
func CallerHeaders(caller common.Address) map[string]string {
	return map[string]string{auth.CallerHeader: caller.Hex()}
}

// CreateTestSession creates a session owned by owner, whitelists voters,
// and advances it to status. proposals are submitted by the first voter when
// the session moves past proposals registration.
func CreateTestSession(t *testing.T, m *sessions.Manager, owner common.Address, status voting.WorkflowStatus,
	voters []common.Address, proposals []string) *voting.Session {
	t.Helper()
	ctx := context.Background()

	s, err := m.Create(ctx, owner)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	for _, v := range voters {
		if err := s.AddVoter(ctx, owner, v); err != nil {
			t.Fatalf("Failed to add test voter: %v", err)
		}
	}

	steps := []func() error{
		func() error { return s.StartProposalsRegistration(ctx, owner) },
		func() error {
			for _, desc := range proposals {
				if _, err := s.RegisterProposal(ctx, voters[0], desc); err != nil {
					return err
				}
			}
			return s.EndProposalsRegistration(ctx, owner)
		},
		func() error { return s.StartVotingSession(ctx, owner) },
		func() error { return s.EndVotingSession(ctx, owner) },
		func() error {
			_, err := s.TallyVotes(ctx, owner)
			return err
		},
	}
	for s.Status() < status {
		if err := steps[s.Status()](); err != nil {
			t.Fatalf("Failed to advance test session from %s: %v", s.Status(), err)
		}
	}

	return s
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
