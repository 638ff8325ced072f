package cmds

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"
)

const tovalaWindow = 60 * time.Second

// TovalaCounter tracks consecutive sightings reported within a rolling
// one-minute window. The streak lives in the cache; the best-ever total is
// persisted so it survives restarts.
func (s *Skills) TovalaCounter(ctx context.Context, req *Request) (string, error) {
	if _, err := s.cache.IncrField(ctx, "tovala", req.User, 1); err != nil {
		return "", fmt.Errorf("increment tovala streak: %w", err)
	}
	if err := s.cache.Expire(ctx, "tovala", tovalaWindow); err != nil {
		return "", fmt.Errorf("refresh tovala window: %w", err)
	}
	sightings, err := s.cache.Fields(ctx, "tovala")
	if err != nil {
		return "", fmt.Errorf("read tovala streak: %w", err)
	}

	total := 0
	for _, count := range sightings {
		n, _ := strconv.Atoi(count)
		total += n
	}

	best, err := s.db.GetPollTotal("tovala")
	if err != nil {
		log.Printf("failed to fetch tovala standing total: %v", err)
	}
	if total > best {
		best = total
		if err := s.db.SetPollTotal("tovala", total); err != nil {
			log.Printf("failed to persist tovala standing total: %v", err)
		}
	}

	return fmt.Sprintf("\n\n<b>🍳 %d CONSECUTIVE TOVALAS!</b>\n%s\n#️⃣ Highest streak: %d",
		total, contributorSummary(sightings), best), nil
}

// BachCounter tallies per-user counts toward a named running total.
func (s *Skills) BachCounter(ctx context.Context, req *Request) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(req.Args))
	if err != nil || n < 1 {
		n = 1
	}
	if _, err := s.cache.IncrField(ctx, "bach", req.User, int64(n)); err != nil {
		return "", fmt.Errorf("increment bach count: %w", err)
	}
	counts, err := s.cache.Fields(ctx, "bach")
	if err != nil {
		return "", fmt.Errorf("read bach counts: %w", err)
	}

	total := 0
	for _, count := range counts {
		c, _ := strconv.Atoi(count)
		total += c
	}
	return fmt.Sprintf("\n\n<b>🌹 BACH GANG COUNT: %d</b>\n%s", total, contributorSummary(counts)), nil
}

// contributorSummary renders per-user tallies in a stable order.
func contributorSummary(counts map[string]string) string {
	users := make([]string, 0, len(counts))
	for user := range counts {
		users = append(users, user)
	}
	sort.Strings(users)

	parts := make([]string, 0, len(users))
	for _, user := range users {
		parts = append(parts, fmt.Sprintf("%s: %s", user, counts[user]))
	}
	return "👤 Contributors: " + strings.Join(parts, ", ")
}
