// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package journal

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/proposal-vote/voting"
)

var (
	owner = common.BigToAddress(big.NewInt(1))
	alice = common.BigToAddress(big.NewInt(2))
	bob   = common.BigToAddress(big.NewInt(3))
)

// runElection drives a full session against j: two voters, two proposals,
// both votes for proposal 1, tallied.
func runElection(t *testing.T, j voting.Journal, id string) *voting.Session {
	t.Helper()
	ctx := context.Background()

	s, err := voting.New(ctx, id, owner, voting.WithJournal(j))
	require.NoError(t, err)
	require.NoError(t, s.AddVoter(ctx, owner, alice))
	require.NoError(t, s.AddVoter(ctx, owner, bob))
	require.NoError(t, s.StartProposalsRegistration(ctx, owner))
	_, err = s.RegisterProposal(ctx, alice, "more coffee breaks")
	require.NoError(t, err)
	_, err = s.RegisterProposal(ctx, bob, "longer nap times")
	require.NoError(t, err)
	require.NoError(t, s.EndProposalsRegistration(ctx, owner))
	require.NoError(t, s.StartVotingSession(ctx, owner))
	require.NoError(t, s.CastVote(ctx, alice, 1))
	require.NoError(t, s.CastVote(ctx, bob, 1))
	require.NoError(t, s.EndVotingSession(ctx, owner))
	_, err = s.TallyVotes(ctx, owner)
	require.NoError(t, err)
	return s
}

// electionEvents is the number of journaled events runElection produces.
const electionEvents = 12
