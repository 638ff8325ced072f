package cmds

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	pollKey      = "changeorstay"
	pollDuration = 60 * time.Second
)

// ChangeOrStayVote records a single vote per user in a time-boxed chat poll.
// The first vote opens the poll and starts its countdown.
func (s *Skills) ChangeOrStayVote(ctx context.Context, req *Request) (string, error) {
	vote := strings.ToLower(strings.TrimSpace(req.Args))
	if vote != "change" && vote != "stay" {
		return fmt.Sprintf("@%s vote `change` or `stay`, there is no third option", req.User), nil
	}

	votes, err := s.cache.Fields(ctx, pollKey)
	if err != nil {
		return "", fmt.Errorf("read poll votes: %w", err)
	}
	if _, voted := votes[req.User]; voted {
		remaining, _ := s.cache.TTL(ctx, pollKey)
		return fmt.Sprintf("⚠️ <b>pls @%s u already voted</b> ⚠️\n⏳ Voting ends in <i>%d seconds</i>.",
			req.User, int(remaining.Seconds())), nil
	}

	opening := len(votes) == 0
	if err := s.cache.SetField(ctx, pollKey, req.User, vote); err != nil {
		return "", fmt.Errorf("save poll vote: %w", err)
	}
	if opening {
		if err := s.cache.Expire(ctx, pollKey, pollDuration); err != nil {
			return "", fmt.Errorf("start poll countdown: %w", err)
		}
		return fmt.Sprintf("🗳️ @%s opened a poll and voted to <b>%s</b>!\nVoting closes in %d seconds: !changeorstay change|stay",
			req.User, vote, int(pollDuration.Seconds())), nil
	}
	return fmt.Sprintf("🗳️ @%s voted to <b>%s</b>!", req.User, vote), nil
}

// ChangeOrStayResults summarizes the live poll, if one is running.
func (s *Skills) ChangeOrStayResults(ctx context.Context, req *Request) (string, error) {
	votes, err := s.cache.Fields(ctx, pollKey)
	if err != nil {
		return "", fmt.Errorf("read poll votes: %w", err)
	}
	if len(votes) == 0 {
		return fmt.Sprintf("@%s no poll is running; cast the first vote to start one", req.User), nil
	}

	var change, stay int
	for _, v := range votes {
		if v == "change" {
			change++
		} else {
			stay++
		}
	}
	remaining, _ := s.cache.TTL(ctx, pollKey)
	return fmt.Sprintf("\n\n<b>🗳️ CHANGE OR STAY</b>\nCHANGE: %d votes\nSTAY: %d votes\n⏳ <i>%d seconds remaining</i>",
		change, stay, int(remaining.Seconds())), nil
}
