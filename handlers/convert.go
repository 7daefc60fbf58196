// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/proposal-vote/models"
	"github.com/danielhkuo/proposal-vote/voting"
)

func sessionModel(sum voting.Summary) models.Session {
	return models.Session{
		ID:                sum.ID,
		Owner:             sum.Owner.Hex(),
		Status:            sum.Status.String(),
		WinningProposalID: sum.WinningProposalID,
		Final:             sum.Final,
		Voters:            sum.Voters,
		VotesCast:         sum.VotesCast,
		Proposals:         sum.Proposals,
		Seq:               sum.Seq,
		CreatedAt:         sum.CreatedAt,
		TalliedAt:         sum.TalliedAt,
	}
}

func proposalModels(proposals []voting.Proposal) []models.Proposal {
	out := make([]models.Proposal, len(proposals))
	for i, p := range proposals {
		out[i] = models.Proposal{ID: uint64(i), Description: p.Description, VoteCount: p.VoteCount}
	}
	return out
}

// winnerModel describes the current or final winner of s.
func winnerModel(s *voting.Session) models.Winner {
	sum := s.Summary()
	proposals := s.Proposals()

	w := models.Winner{
		SessionID:         sum.ID,
		Status:            sum.Status.String(),
		WinningProposalID: sum.WinningProposalID,
		Final:             sum.Final,
	}
	for _, p := range proposals {
		w.TotalVotes += p.VoteCount
	}
	if int(sum.WinningProposalID) < len(proposals) {
		p := proposals[sum.WinningProposalID]
		w.Description = p.Description
		w.VoteCount = p.VoteCount
	}
	w.Summary = winnerSummary(w, len(proposals))
	return w
}

func winnerSummary(w models.Winner, proposals int) string {
	switch {
	case proposals == 0:
		return "no proposals submitted"
	case w.TotalVotes == 0 && w.Final:
		return fmt.Sprintf("no votes cast; proposal %d wins by default", w.WinningProposalID)
	case w.TotalVotes == 0:
		return "no votes cast yet"
	}

	verb := "leads"
	if w.Final {
		verb = "won"
	}
	return fmt.Sprintf("proposal %d %s with %s %s of %s cast",
		w.WinningProposalID, verb,
		humanize.Comma(int64(w.VoteCount)),
		english.PluralWord(int(w.VoteCount), "vote", ""),
		humanize.Comma(int64(w.TotalVotes)),
	)
}
