// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Journal durably records events before a session applies them.
type Journal interface {
	Append(ctx context.Context, ev Event) error
}

type Option func(*Session)

// WithJournal makes every mutation append its event to j first. A session
// without a journal keeps its state in memory only.
func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithEventBuffer sets the channel capacity of new subscriptions.
func WithEventBuffer(n int) Option {
	return func(s *Session) { s.buffer = n }
}

// Session is one voting process: an administrator, a whitelist, a proposal
// ledger and the workflow status that gates them. All methods are safe for
// concurrent use; mutations are applied one at a time.
type Session struct {
	mu sync.RWMutex

	id        string
	owner     common.Address
	status    WorkflowStatus
	winner    uint64
	seq       uint64
	createdAt time.Time
	talliedAt time.Time

	registry *Registry
	ledger   *Ledger
	tally    *Tally
	emitter  *Emitter

	journal Journal
	now     func() time.Time
	buffer  int
}

// Summary is a point-in-time view of a session.
type Summary struct {
	ID                string         `json:"id"`
	Owner             common.Address `json:"owner"`
	Status            WorkflowStatus `json:"status"`
	WinningProposalID uint64         `json:"winning_proposal_id"`
	Final             bool           `json:"final"`
	Voters            int            `json:"voters"`
	VotesCast         int            `json:"votes_cast"`
	Proposals         int            `json:"proposals"`
	Seq               uint64         `json:"seq"`
	CreatedAt         time.Time      `json:"created_at"`
	TalliedAt         *time.Time     `json:"tallied_at,omitempty"`
}

func newSession(id string, opts []Option) *Session {
	s := &Session{
		id:       id,
		registry: NewRegistry(),
		ledger:   NewLedger(),
		tally:    NewTally(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.emitter = NewEmitter(s.buffer)
	return s
}

// New creates a session administered by owner and journals its creation.
func New(ctx context.Context, id string, owner common.Address, opts ...Option) (*Session, error) {
	if id == "" {
		return nil, ErrSessionRequired
	}
	if owner == (common.Address{}) {
		return nil, ErrInvalidOwner
	}

	s := newSession(id, opts)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.commit(ctx, Event{Kind: EventSessionCreated, Caller: owner}); err != nil {
		return nil, err
	}
	return s, nil
}

// Restore rebuilds a session from its journaled events, oldest first. Each
// event goes through the same checks as a live call. The restored session
// appends new events to the journal passed with WithJournal, if any.
func Restore(id string, events []Event, opts ...Option) (*Session, error) {
	if id == "" {
		return nil, ErrSessionRequired
	}
	s := newSession(id, opts)
	for _, ev := range events {
		if err := s.replay(ev); err != nil {
			return nil, fmt.Errorf("%w: session %s event %d (%s): %w", ErrCorruptJournal, id, ev.Seq, ev.Kind, err)
		}
	}
	if s.seq == 0 {
		return nil, fmt.Errorf("%w: session %s has no events", ErrCorruptJournal, id)
	}
	return s, nil
}

// AddVoter whitelists voter. Only the administrator may call it, and only
// while voters are being registered.
func (s *Session) AddVoter(ctx context.Context, caller, voter common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.commit(ctx, Event{Kind: EventVoterRegistered, Caller: caller, Voter: voter})
	return err
}

// RegisterProposal appends a proposal submitted by a whitelisted caller and
// returns its ID.
func (s *Session) RegisterProposal(ctx context.Context, caller common.Address, description string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, err := s.commit(ctx, Event{Kind: EventProposalRegistered, Caller: caller, Description: description})
	if err != nil {
		return 0, err
	}
	return ev.ProposalID, nil
}

// CastVote records the caller's single vote for proposalID.
func (s *Session) CastVote(ctx context.Context, caller common.Address, proposalID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.commit(ctx, Event{Kind: EventVoteCast, Caller: caller, Voter: caller, ProposalID: proposalID})
	return err
}

func (s *Session) StartProposalsRegistration(ctx context.Context, caller common.Address) error {
	return s.transition(ctx, caller, StatusVoterRegistration)
}

func (s *Session) EndProposalsRegistration(ctx context.Context, caller common.Address) error {
	return s.transition(ctx, caller, StatusProposalsRegistration)
}

func (s *Session) StartVotingSession(ctx context.Context, caller common.Address) error {
	return s.transition(ctx, caller, StatusProposalsRegistrationEnded)
}

func (s *Session) EndVotingSession(ctx context.Context, caller common.Address) error {
	return s.transition(ctx, caller, StatusVotingSession)
}

// TallyVotes closes the session and returns the winning proposal. It
// publishes the workflow change followed by a votes_tallied event.
func (s *Session) TallyVotes(ctx context.Context, caller common.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, err := s.commit(ctx, Event{
		Kind:           EventWorkflowChanged,
		Caller:         caller,
		PreviousStatus: StatusVotingSessionEnded,
		NewStatus:      StatusVotesTallied,
	})
	if err != nil {
		return 0, err
	}
	s.emitter.Publish(Event{
		ID:                uuid.New(),
		SessionID:         s.id,
		Seq:               ev.Seq,
		Kind:              EventVotesTallied,
		Caller:            caller,
		WinningProposalID: ev.WinningProposalID,
		OccurredAt:        ev.OccurredAt,
	})
	return ev.WinningProposalID, nil
}

func (s *Session) transition(ctx context.Context, caller common.Address, from WorkflowStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	to, _ := from.Next()
	_, err := s.commit(ctx, Event{
		Kind:           EventWorkflowChanged,
		Caller:         caller,
		PreviousStatus: from,
		NewStatus:      to,
	})
	return err
}

// commit runs check, journal, apply and publish for a live call. s.mu must
// be held.
func (s *Session) commit(ctx context.Context, ev Event) (Event, error) {
	ev.ID = uuid.New()
	ev.SessionID = s.id
	ev.Seq = s.seq + 1
	ev.OccurredAt = s.now().UTC()

	ev, err := s.check(ev)
	if err != nil {
		return Event{}, err
	}
	if s.journal != nil {
		if err := s.journal.Append(ctx, ev); err != nil {
			return Event{}, fmt.Errorf("journal %s: %w", ev.Kind, err)
		}
	}
	if err := s.apply(ev); err != nil {
		return Event{}, err
	}
	s.emitter.Publish(ev)
	return ev, nil
}

func (s *Session) replay(ev Event) error {
	if ev.SessionID != s.id {
		return fmt.Errorf("belongs to session %q", ev.SessionID)
	}
	if ev.Seq != s.seq+1 {
		return fmt.Errorf("expected seq %d", s.seq+1)
	}
	want, err := s.check(ev)
	if err != nil {
		return err
	}
	if want.ProposalID != ev.ProposalID || want.WinningProposalID != ev.WinningProposalID {
		return fmt.Errorf("recorded proposal %d / winner %d, recomputed %d / %d",
			ev.ProposalID, ev.WinningProposalID, want.ProposalID, want.WinningProposalID)
	}
	return s.apply(ev)
}

// check validates ev against the current state without changing it and
// returns ev with its derived fields filled in.
func (s *Session) check(ev Event) (Event, error) {
	if ev.Kind == EventSessionCreated {
		if s.seq != 0 {
			return Event{}, fmt.Errorf("%w: session %s already created", ErrCorruptJournal, s.id)
		}
		if ev.Caller == (common.Address{}) {
			return Event{}, ErrInvalidOwner
		}
		return ev, nil
	}
	if s.seq == 0 {
		return Event{}, fmt.Errorf("%w: session %s not created", ErrCorruptJournal, s.id)
	}

	switch ev.Kind {
	case EventVoterRegistered:
		const op = "add voter"
		if err := s.requireOwner(op, ev.Caller); err != nil {
			return Event{}, err
		}
		if err := s.requireStatus(op, StatusVoterRegistration); err != nil {
			return Event{}, err
		}
		if s.registry.Get(ev.Voter).IsRegistered {
			return Event{}, fmt.Errorf("%w: %s", ErrAlreadyRegistered, ev.Voter.Hex())
		}

	case EventProposalRegistered:
		if err := s.requireStatus("register proposal", StatusProposalsRegistration); err != nil {
			return Event{}, err
		}
		if !s.registry.Get(ev.Caller).IsRegistered {
			return Event{}, fmt.Errorf("%w: %s", ErrNotRegistered, ev.Caller.Hex())
		}
		ev.ProposalID = uint64(s.ledger.Len())

	case EventVoteCast:
		if err := s.requireStatus("cast vote", StatusVotingSession); err != nil {
			return Event{}, err
		}
		if ev.Voter != ev.Caller {
			return Event{}, fmt.Errorf("%w: %s cannot vote for %s", ErrUnauthorized, ev.Caller.Hex(), ev.Voter.Hex())
		}
		if err := s.registry.canVote(ev.Caller); err != nil {
			return Event{}, err
		}
		p, err := s.ledger.Get(ev.ProposalID)
		if err != nil {
			return Event{}, err
		}
		ev.WinningProposalID = s.tally.peek(ev.ProposalID, p.VoteCount+1)

	case EventWorkflowChanged:
		op := transitionName(ev.NewStatus)
		if err := s.requireOwner(op, ev.Caller); err != nil {
			return Event{}, err
		}
		if next, ok := ev.PreviousStatus.Next(); !ok || next != ev.NewStatus {
			return Event{}, fmt.Errorf("%w: cannot move from %s to %s", ErrWorkflowViolation, ev.PreviousStatus, ev.NewStatus)
		}
		if err := s.requireStatus(op, ev.PreviousStatus); err != nil {
			return Event{}, err
		}
		ev.WinningProposalID = 0
		if ev.NewStatus == StatusVotesTallied {
			winner, err := s.tally.Final(s.ledger.proposals)
			if err != nil {
				return Event{}, err
			}
			ev.WinningProposalID = winner
		}

	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	return ev, nil
}

// apply mutates the session for an event that passed check.
func (s *Session) apply(ev Event) error {
	switch ev.Kind {
	case EventSessionCreated:
		s.owner = ev.Caller
		s.status = StatusVoterRegistration
		s.createdAt = ev.OccurredAt
	case EventVoterRegistered:
		if err := s.registry.Register(ev.Voter); err != nil {
			return err
		}
	case EventProposalRegistered:
		s.ledger.Submit(ev.Description)
	case EventVoteCast:
		if err := s.registry.RecordVote(ev.Voter, ev.ProposalID); err != nil {
			return err
		}
		count, err := s.ledger.IncrementVote(ev.ProposalID)
		if err != nil {
			return err
		}
		s.tally.Observe(ev.ProposalID, count)
	case EventWorkflowChanged:
		s.status = ev.NewStatus
		if ev.NewStatus == StatusVotesTallied {
			s.winner = ev.WinningProposalID
			s.talliedAt = ev.OccurredAt
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	s.seq = ev.Seq
	return nil
}

func (s *Session) requireOwner(op string, caller common.Address) error {
	if caller != s.owner {
		return fmt.Errorf("%w: %s is reserved to %s", ErrUnauthorized, op, s.owner.Hex())
	}
	return nil
}

func (s *Session) requireStatus(op string, want WorkflowStatus) error {
	if s.status != want {
		return fmt.Errorf("%w: %s requires %s, session is in %s", ErrWorkflowViolation, op, want, s.status)
	}
	return nil
}

func transitionName(to WorkflowStatus) string {
	switch to {
	case StatusProposalsRegistration:
		return "start proposals registration"
	case StatusProposalsRegistrationEnded:
		return "end proposals registration"
	case StatusVotingSession:
		return "start voting session"
	case StatusVotingSessionEnded:
		return "end voting session"
	case StatusVotesTallied:
		return "tally votes"
	default:
		return "transition to " + to.String()
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Owner() common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

func (s *Session) Status() WorkflowStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Voter returns the whitelist record of addr; see Registry.Get.
func (s *Session) Voter(addr common.Address) Voter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Get(addr)
}

// Addresses lists whitelisted addresses in registration order.
func (s *Session) Addresses() []common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Addresses()
}

func (s *Session) Proposal(id uint64) (Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Get(id)
}

func (s *Session) Proposals() []Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.List()
}

// WinningProposalID returns the tracked leader while voting is open and the
// final result once votes are tallied. It is 0 before any vote.
func (s *Session) WinningProposalID() uint64 {
	id, _ := s.Winner()
	return id
}

// Winner is WinningProposalID plus whether the result is final.
func (s *Session) Winner() (id uint64, final bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status == StatusVotesTallied {
		return s.winner, true
	}
	return s.tally.Leader(), false
}

// Seq returns the sequence number of the last applied event.
func (s *Session) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

func (s *Session) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := Summary{
		ID:                s.id,
		Owner:             s.owner,
		Status:            s.status,
		WinningProposalID: s.tally.Leader(),
		Voters:            s.registry.Len(),
		VotesCast:         s.registry.Voted(),
		Proposals:         s.ledger.Len(),
		Seq:               s.seq,
		CreatedAt:         s.createdAt,
	}
	if s.status == StatusVotesTallied {
		talliedAt := s.talliedAt
		sum.WinningProposalID = s.winner
		sum.Final = true
		sum.TalliedAt = &talliedAt
	}
	return sum
}

// Subscribe returns a subscription to every event published after the call.
func (s *Session) Subscribe(ctx context.Context) *Subscription {
	return s.emitter.Subscribe(ctx)
}
