package cmds

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Basic echoes the stored response verbatim.
func (s *Skills) Basic(ctx context.Context, req *Request) (string, error) {
	return req.Content, nil
}

// RandomResponse picks one option uniformly from a `;`-delimited template.
func (s *Skills) RandomResponse(ctx context.Context, req *Request) (string, error) {
	options := strings.Split(req.Content, ";")
	picks := options[:0]
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			picks = append(picks, opt)
		}
	}
	if len(picks) == 0 {
		return "", fmt.Errorf("random command %q has no options", req.Command)
	}
	return picks[rand.Intn(len(picks))], nil
}

// BlazeCountdown reports time remaining until the next 4:20, US Eastern.
func (s *Skills) BlazeCountdown(ctx context.Context, req *Request) (string, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return "", err
	}
	now := time.Now().In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), 4, 20, 0, 0, loc)
	if now.After(next) {
		next = time.Date(now.Year(), now.Month(), now.Day(), 16, 20, 0, 0, loc)
	}
	if now.After(next) {
		next = next.Add(12 * time.Hour)
	}

	remaining := next.Sub(now).Round(time.Second)
	if remaining < time.Minute {
		return "\U0001F32C️ HAPPY 420 SMOKE EM IF U GOT EM \U0001F32C️", nil
	}
	h := int(remaining.Hours())
	m := int(remaining.Minutes()) % 60
	sec := int(remaining.Seconds()) % 60
	return fmt.Sprintf("⏰ %dh %dm %ds until 4:20", h, m, sec), nil
}
