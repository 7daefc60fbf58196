// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

var (
	owner = addr(1)
	alice = addr(2)
	bob   = addr(3)
	carol = addr(4)
	eve   = addr(99)
)

type testSession struct {
	suite.Suite
	ctx     context.Context
	journal *recordingJournal
	s       *Session
}

func TestSession(t *testing.T) {
	suite.Run(t, new(testSession))
}

func (t *testSession) SetupTest() {
	t.ctx = context.Background()
	t.journal = &recordingJournal{}
	s, err := New(t.ctx, "sess-1", owner, WithJournal(t.journal), WithClock(fixedClock()))
	t.Require().NoError(err)
	t.s = s
}

// advance moves the session forward to status using the owner.
func (t *testSession) advance(to WorkflowStatus) {
	steps := []func(context.Context, common.Address) error{
		t.s.StartProposalsRegistration,
		t.s.EndProposalsRegistration,
		t.s.StartVotingSession,
		t.s.EndVotingSession,
		func(ctx context.Context, caller common.Address) error {
			_, err := t.s.TallyVotes(ctx, caller)
			return err
		},
	}
	for t.s.Status() < to {
		t.Require().NoError(steps[t.s.Status()](t.ctx, owner))
	}
}

// prepare registers alice, bob and carol and submits two proposals.
func (t *testSession) prepare() {
	for _, v := range []common.Address{alice, bob, carol} {
		t.Require().NoError(t.s.AddVoter(t.ctx, owner, v))
	}
	t.advance(StatusProposalsRegistration)
	for _, desc := range []string{"more coffee breaks", "longer nap times"} {
		_, err := t.s.RegisterProposal(t.ctx, alice, desc)
		t.Require().NoError(err)
	}
}

func (t *testSession) TestNewRejectsZeroOwner() {
	_, err := New(t.ctx, "x", common.Address{})
	t.ErrorIs(err, ErrInvalidOwner)

	_, err = New(t.ctx, "", owner)
	t.ErrorIs(err, ErrSessionRequired)
}

func (t *testSession) TestInitialState() {
	t.Equal(StatusVoterRegistration, t.s.Status())
	t.Equal(owner, t.s.Owner())
	t.Equal(uint64(0), t.s.WinningProposalID())
	t.Empty(t.s.Proposals())
	t.Empty(t.s.Addresses())
	t.Equal(uint64(1), t.s.Seq())

	events := t.journal.Events()
	t.Require().Len(events, 1)
	t.Equal(EventSessionCreated, events[0].Kind)
	t.Equal(owner, events[0].Caller)
}

func (t *testSession) TestTransitionsAreMonotonic() {
	for n := 1; n <= 5; n++ {
		t.advance(WorkflowStatus(n))
		t.Equal(WorkflowStatus(n), t.s.Status())
	}

	// Nothing moves out of the terminal state.
	t.ErrorIs(t.s.StartProposalsRegistration(t.ctx, owner), ErrWorkflowViolation)
	t.ErrorIs(t.s.EndVotingSession(t.ctx, owner), ErrWorkflowViolation)
	_, err := t.s.TallyVotes(t.ctx, owner)
	t.ErrorIs(err, ErrWorkflowViolation)
	t.Equal(StatusVotesTallied, t.s.Status())
}

func (t *testSession) TestTransitionsCannotSkip() {
	t.ErrorIs(t.s.EndProposalsRegistration(t.ctx, owner), ErrWorkflowViolation)
	t.ErrorIs(t.s.StartVotingSession(t.ctx, owner), ErrWorkflowViolation)
	t.ErrorIs(t.s.EndVotingSession(t.ctx, owner), ErrWorkflowViolation)
	t.Equal(StatusVoterRegistration, t.s.Status())
}

func (t *testSession) TestOperationsOutsideTheirPhase() {
	t.Require().NoError(t.s.AddVoter(t.ctx, owner, alice))

	ops := []struct {
		name    string
		allowed WorkflowStatus
		call    func() error
	}{
		{"add voter", StatusVoterRegistration, func() error {
			return t.s.AddVoter(t.ctx, owner, addr(1000+int64(t.s.Seq())))
		}},
		{"register proposal", StatusProposalsRegistration, func() error {
			_, err := t.s.RegisterProposal(t.ctx, alice, "x")
			return err
		}},
		{"cast vote", StatusVotingSession, func() error {
			return t.s.CastVote(t.ctx, alice, 0)
		}},
		{"start proposals registration", StatusVoterRegistration, func() error {
			return t.s.StartProposalsRegistration(t.ctx, owner)
		}},
		{"end proposals registration", StatusProposalsRegistration, func() error {
			return t.s.EndProposalsRegistration(t.ctx, owner)
		}},
		{"start voting session", StatusProposalsRegistrationEnded, func() error {
			return t.s.StartVotingSession(t.ctx, owner)
		}},
		{"end voting session", StatusVotingSession, func() error {
			return t.s.EndVotingSession(t.ctx, owner)
		}},
		{"tally votes", StatusVotesTallied - 1, func() error {
			_, err := t.s.TallyVotes(t.ctx, owner)
			return err
		}},
	}

	for phase := StatusVoterRegistration; ; phase++ {
		t.advance(phase)
		for _, op := range ops {
			if op.allowed == phase {
				continue
			}
			seq := t.s.Seq()
			err := op.call()
			t.ErrorIs(err, ErrWorkflowViolation, fmt.Sprintf("%s during %s", op.name, phase))
			t.Equal(seq, t.s.Seq(), "%s during %s changed state", op.name, phase)
			t.Equal(phase, t.s.Status())
		}
		if phase == StatusProposalsRegistration {
			_, err := t.s.RegisterProposal(t.ctx, alice, "needed for voting")
			t.Require().NoError(err)
		}
		if phase.Terminal() {
			break
		}
	}
}

func (t *testSession) TestNonOwnerIsUnauthorized() {
	t.ErrorIs(t.s.StartProposalsRegistration(t.ctx, alice), ErrUnauthorized)
	t.ErrorIs(t.s.AddVoter(t.ctx, alice, bob), ErrUnauthorized)
	t.Equal(StatusVoterRegistration, t.s.Status())
	t.False(t.s.Voter(bob).IsRegistered)

	// Owner check comes before the phase check.
	t.ErrorIs(t.s.EndVotingSession(t.ctx, eve), ErrUnauthorized)
	_, err := t.s.TallyVotes(t.ctx, eve)
	t.ErrorIs(err, ErrUnauthorized)
}

func (t *testSession) TestAddVoterTwice() {
	t.Require().NoError(t.s.AddVoter(t.ctx, owner, alice))
	err := t.s.AddVoter(t.ctx, owner, alice)
	t.ErrorIs(err, ErrAlreadyRegistered)
	t.Equal([]common.Address{alice}, t.s.Addresses())
}

func (t *testSession) TestUnregisteredSubmitter() {
	t.Require().NoError(t.s.AddVoter(t.ctx, owner, alice))
	t.advance(StatusProposalsRegistration)

	_, err := t.s.RegisterProposal(t.ctx, eve, "free lunch")
	t.ErrorIs(err, ErrNotRegistered)
	t.Empty(t.s.Proposals())

	// The owner is not implicitly whitelisted.
	_, err = t.s.RegisterProposal(t.ctx, owner, "free lunch")
	t.ErrorIs(err, ErrNotRegistered)
}

func (t *testSession) TestCoffeeBreakScenario() {
	t.Require().NoError(t.s.AddVoter(t.ctx, owner, alice))
	t.Require().NoError(t.s.AddVoter(t.ctx, owner, bob))
	t.advance(StatusProposalsRegistration)

	id, err := t.s.RegisterProposal(t.ctx, alice, "more coffee breaks")
	t.Require().NoError(err)
	t.Equal(uint64(0), id)
	id, err = t.s.RegisterProposal(t.ctx, alice, "longer nap times")
	t.Require().NoError(err)
	t.Equal(uint64(1), id)

	t.advance(StatusVotingSession)
	t.Require().NoError(t.s.CastVote(t.ctx, bob, 1))

	v := t.s.Voter(bob)
	t.True(v.HasVoted)
	t.Equal(uint64(1), v.VotedProposalID)

	p, err := t.s.Proposal(1)
	t.Require().NoError(err)
	t.Equal(uint64(1), p.VoteCount)
	t.Equal(uint64(1), t.s.WinningProposalID())
}

func (t *testSession) TestVoteOnlyOnce() {
	t.prepare()
	t.advance(StatusVotingSession)

	t.Require().NoError(t.s.CastVote(t.ctx, alice, 0))
	for _, id := range []uint64{0, 1, 7} {
		t.ErrorIs(t.s.CastVote(t.ctx, alice, id), ErrAlreadyVoted)
	}
	p, _ := t.s.Proposal(0)
	t.Equal(uint64(1), p.VoteCount)
	t.Equal(uint64(0), t.s.Voter(alice).VotedProposalID)
}

func (t *testSession) TestVoteRejectedAtomically() {
	t.prepare()
	t.advance(StatusVotingSession)

	t.ErrorIs(t.s.CastVote(t.ctx, eve, 0), ErrNotRegistered)
	t.ErrorIs(t.s.CastVote(t.ctx, alice, 2), ErrUnknownProposal)

	t.False(t.s.Voter(alice).HasVoted)
	t.Equal(uint64(len(t.journal.Events())), t.s.Seq())
	t.Require().NoError(t.s.CastVote(t.ctx, alice, 1))
}

func (t *testSession) TestVoteCountsMatchVoters() {
	voters := make([]common.Address, 0, 12)
	for i := int64(0); i < 12; i++ {
		v := addr(500 + i)
		voters = append(voters, v)
		t.Require().NoError(t.s.AddVoter(t.ctx, owner, v))
	}
	t.advance(StatusProposalsRegistration)
	for i := 0; i < 4; i++ {
		_, err := t.s.RegisterProposal(t.ctx, voters[0], fmt.Sprintf("proposal %d", i))
		t.Require().NoError(err)
	}
	t.advance(StatusVotingSession)

	choices := []uint64{3, 1, 3, 1, 3, 1, 3, 0, 2, 1, 0, 2}
	for i, v := range voters {
		t.Require().NoError(t.s.CastVote(t.ctx, v, choices[i]))

		var sum uint64
		for _, p := range t.s.Proposals() {
			sum += p.VoteCount
		}
		voted := 0
		perProposal := map[uint64]uint64{}
		for _, a := range t.s.Addresses() {
			if rec := t.s.Voter(a); rec.HasVoted {
				voted++
				perProposal[rec.VotedProposalID]++
			}
		}
		t.Equal(uint64(voted), sum)
		for id, p := range t.s.Proposals() {
			t.Equal(perProposal[uint64(id)], p.VoteCount)
		}
	}

	// 3 reaches 4 votes first; 1 also ends with 4 and the incumbent keeps the lead.
	t.Equal(uint64(3), t.s.WinningProposalID())

	t.advance(StatusVotingSessionEnded)
	winner, err := t.s.TallyVotes(t.ctx, owner)
	t.Require().NoError(err)
	t.Equal(uint64(1), winner, "final tally resolves ties to the lowest id")
	t.Equal(uint64(1), t.s.WinningProposalID())
}

func (t *testSession) TestTallyDuringVotingSession() {
	t.prepare()
	t.advance(StatusVotingSession)

	_, err := t.s.TallyVotes(t.ctx, owner)
	t.ErrorIs(err, ErrWorkflowViolation)
	t.Equal(StatusVotingSession, t.s.Status())
}

func (t *testSession) TestTallyPublishesEvents() {
	t.prepare()
	t.advance(StatusVotingSession)
	t.Require().NoError(t.s.CastVote(t.ctx, bob, 1))
	t.advance(StatusVotingSessionEnded)

	sub := t.s.Subscribe(t.ctx)
	defer sub.Close()

	winner, err := t.s.TallyVotes(t.ctx, owner)
	t.Require().NoError(err)
	t.Equal(uint64(1), winner)

	changed := receive(t.T(), sub)
	t.Equal(EventWorkflowChanged, changed.Kind)
	t.Equal(StatusVotingSessionEnded, changed.PreviousStatus)
	t.Equal(StatusVotesTallied, changed.NewStatus)
	t.Equal(uint64(1), changed.WinningProposalID)

	tallied := receive(t.T(), sub)
	t.Equal(EventVotesTallied, tallied.Kind)
	t.Equal(changed.Seq, tallied.Seq)
	t.False(tallied.Journaled())

	sum := t.s.Summary()
	t.True(sum.Final)
	t.NotNil(sum.TalliedAt)
	t.Equal(1, sum.VotesCast)
}

func (t *testSession) TestEventsMatchOperations() {
	sub := t.s.Subscribe(t.ctx)
	defer sub.Close()

	t.prepare()
	t.advance(StatusVotingSession)
	t.Require().NoError(t.s.CastVote(t.ctx, carol, 0))

	want := []EventKind{
		EventVoterRegistered, EventVoterRegistered, EventVoterRegistered,
		EventWorkflowChanged,
		EventProposalRegistered, EventProposalRegistered,
		EventWorkflowChanged, EventWorkflowChanged,
		EventVoteCast,
	}
	var got []Event
	for range want {
		got = append(got, receive(t.T(), sub))
	}
	for i, ev := range got {
		t.Equal(want[i], ev.Kind, "event %d", i)
		t.Equal(uint64(i+2), ev.Seq)
		t.Equal("sess-1", ev.SessionID)
	}
	t.Equal(bob, got[1].Voter)
	t.Equal(uint64(1), got[5].ProposalID)
	t.Equal("longer nap times", got[5].Description)
	t.Equal(StatusProposalsRegistrationEnded, got[7].PreviousStatus)
	t.Equal(carol, got[8].Voter)
	t.Equal(uint64(0), got[8].WinningProposalID)

	t.Equal(t.journal.Events()[1:], got)
}

func (t *testSession) TestJournalFailureLeavesStateUntouched() {
	t.Require().NoError(t.s.AddVoter(t.ctx, owner, alice))
	seq := t.s.Seq()

	t.journal.fail = errDiskFull
	err := t.s.AddVoter(t.ctx, owner, bob)
	t.ErrorIs(err, errDiskFull)
	t.False(t.s.Voter(bob).IsRegistered)
	t.Equal(seq, t.s.Seq())

	err = t.s.StartProposalsRegistration(t.ctx, owner)
	t.ErrorIs(err, errDiskFull)
	t.Equal(StatusVoterRegistration, t.s.Status())

	t.journal.fail = nil
	t.Require().NoError(t.s.AddVoter(t.ctx, owner, bob))
	t.Equal(seq+1, t.s.Seq())
}

func (t *testSession) TestRestoreMatchesLiveSession() {
	t.prepare()
	t.advance(StatusVotingSession)
	t.Require().NoError(t.s.CastVote(t.ctx, alice, 1))
	t.Require().NoError(t.s.CastVote(t.ctx, bob, 0))
	t.Require().NoError(t.s.CastVote(t.ctx, carol, 1))
	t.advance(StatusVotesTallied)

	restored, err := Restore("sess-1", t.journal.Events())
	t.Require().NoError(err)
	t.Equal(t.s.Summary(), restored.Summary())
	t.Equal(t.s.Proposals(), restored.Proposals())
	t.Equal(t.s.Addresses(), restored.Addresses())
	for _, a := range t.s.Addresses() {
		t.Equal(t.s.Voter(a), restored.Voter(a))
	}
}

func (t *testSession) TestRestoreContinuesJournal() {
	t.prepare()
	events := t.journal.Events()

	j := &recordingJournal{events: events}
	restored, err := Restore("sess-1", events, WithJournal(j))
	t.Require().NoError(err)
	t.Require().NoError(restored.EndProposalsRegistration(t.ctx, owner))

	all := j.Events()
	t.Len(all, len(events)+1)
	t.Equal(uint64(len(all)), all[len(all)-1].Seq)
}

func (t *testSession) TestRestoreRejectsCorruptJournal() {
	t.prepare()
	events := t.journal.Events()

	cases := map[string][]Event{
		"empty":         nil,
		"missing first": events[1:],
		"gap":           append(append([]Event{}, events[:2]...), events[3:]...),
	}

	forged := append([]Event{}, events...)
	forged[1].Caller = eve
	cases["forged owner"] = forged

	renumbered := append([]Event{}, events...)
	last := renumbered[len(renumbered)-1]
	last.ProposalID = 7
	renumbered[len(renumbered)-1] = last
	cases["wrong proposal id"] = renumbered

	for name, evs := range cases {
		_, err := Restore("sess-1", evs)
		t.ErrorIs(err, ErrCorruptJournal, name)
	}

	_, err := Restore("other", events)
	t.ErrorIs(err, ErrCorruptJournal)
}

func (t *testSession) TestConcurrentVotes() {
	voters := make([]common.Address, 50)
	for i := range voters {
		voters[i] = addr(int64(2000 + i))
		t.Require().NoError(t.s.AddVoter(t.ctx, owner, voters[i]))
	}
	t.advance(StatusProposalsRegistration)
	for i := 0; i < 3; i++ {
		_, err := t.s.RegisterProposal(t.ctx, voters[0], fmt.Sprint(i))
		t.Require().NoError(err)
	}
	t.advance(StatusVotingSession)

	var wg sync.WaitGroup
	for i, v := range voters {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = t.s.CastVote(t.ctx, v, uint64(i%3))
		}()
		go func() {
			defer wg.Done()
			_ = t.s.CastVote(t.ctx, v, uint64((i+1)%3))
		}()
	}
	wg.Wait()

	var total uint64
	for _, p := range t.s.Proposals() {
		total += p.VoteCount
	}
	t.Equal(uint64(len(voters)), total)
	t.Equal(len(voters), t.s.Summary().VotesCast)
}
