package cmds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/google/shlex"
)

type channelList struct {
	Result struct {
		Channels []struct {
			Channel   string `json:"channel"`
			ChannelID int    `json:"channelid"`
		} `json:"channels"`
	} `json:"result"`
}

// Tune switches the shared stream to a named channel. Only special users may
// tune; everyone else gets told off. Channel names may be quoted to include
// spaces.
func (s *Skills) Tune(ctx context.Context, req *Request) (string, error) {
	if !slices.Contains(s.cfg.Moderation.SpecialUsers, req.User) {
		return fmt.Sprintf("lol nice try @%s, u don't have the remote", req.User), nil
	}
	if s.cfg.Tuner.Host == "" || s.cfg.Tuner.ChannelFile == "" {
		return "", fmt.Errorf("tuner is not configured")
	}

	tokens, err := shlex.Split(req.Args)
	if err != nil || len(tokens) == 0 {
		return fmt.Sprintf("@%s gimme a channel name to tune to", req.User), nil
	}
	name := strings.ToLower(strings.Join(tokens, " "))

	channels, err := s.loadChannels()
	if err != nil {
		return "", err
	}

	for _, ch := range channels.Result.Channels {
		if strings.ToLower(ch.Channel) != name {
			continue
		}
		if err := s.tuneTo(ctx, ch.ChannelID); err != nil {
			return "", err
		}
		return fmt.Sprintf("📺 tuned to <b>%s</b>, hope ur happy @%s", ch.Channel, req.User), nil
	}

	// partial matches help with fat-fingered names
	var suggestions []string
	for _, ch := range channels.Result.Channels {
		if strings.Contains(strings.ToLower(ch.Channel), name) {
			suggestions = append(suggestions, ch.Channel)
		}
	}
	if len(suggestions) > 0 {
		return fmt.Sprintf("%s wasn't found, but I found the following channels:\n%s",
			name, strings.Join(suggestions, "\n")), nil
	}
	return fmt.Sprintf("no channel called `%s`, did u dream it up?", name), nil
}

func (s *Skills) loadChannels() (*channelList, error) {
	data, err := os.ReadFile(s.cfg.Tuner.ChannelFile)
	if err != nil {
		return nil, fmt.Errorf("read channel file: %w", err)
	}
	var channels channelList
	if err := json.Unmarshal(data, &channels); err != nil {
		return nil, fmt.Errorf("parse channel file: %w", err)
	}
	return &channels, nil
}

func (s *Skills) tuneTo(ctx context.Context, channelID int) error {
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "Player.Open",
		"params":  map[string]any{"item": map[string]int{"channelid": channelID}},
		"id":      1,
	})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Tuner.Host, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range s.cfg.Tuner.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("tune request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tuner returned %d", resp.StatusCode)
	}
	return nil
}
