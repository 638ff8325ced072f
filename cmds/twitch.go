package cmds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	twitchTokenEndpoint   = "https://id.twitch.tv/oauth2/token"
	twitchStreamsEndpoint = "https://api.twitch.tv/helix/streams"
)

type twitchToken struct {
	AccessToken string `json:"access_token"`
}

type twitchStreams struct {
	Data []struct {
		UserName    string `json:"user_name"`
		GameName    string `json:"game_name"`
		Title       string `json:"title"`
		ViewerCount int    `json:"viewer_count"`
	} `json:"data"`
}

// TwitchStreams lists live streams for the broadcasters named in the stored
// template (comma-separated user logins).
func (s *Skills) TwitchStreams(ctx context.Context, req *Request) (string, error) {
	token, err := s.twitchAppToken(ctx)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	for _, login := range strings.Split(req.Content, ",") {
		if login = strings.TrimSpace(login); login != "" {
			params.Add("user_login", login)
		}
	}
	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Client-Id":     s.cfg.ApiKeys.TwitchClientID,
	}

	var streams twitchStreams
	if err := s.getJSON(ctx, twitchStreamsEndpoint, params, headers, &streams); err != nil {
		return "", err
	}
	if len(streams.Data) == 0 {
		return "☹️ no memers streaming twitch rn ☹️", nil
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	for _, stream := range streams.Data {
		fmt.Fprintf(&b, "<b>%s</b> is live: %s\n🎮 %s · 👀 %d viewers\nhttps://www.twitch.tv/%s\n\n",
			stream.UserName, stream.Title, stream.GameName, stream.ViewerCount, strings.ToLower(stream.UserName))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// twitchAppToken fetches a client-credentials token per call; streams are
// requested rarely enough that caching is not worth the state.
func (s *Skills) twitchAppToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {s.cfg.ApiKeys.TwitchClientID},
		"client_secret": {s.cfg.ApiKeys.TwitchSecret},
		"grant_type":    {"client_credentials"},
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, twitchTokenEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("twitch token request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitch token request returned %d", resp.StatusCode)
	}

	var token twitchToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode twitch token: %w", err)
	}
	return token.AccessToken, nil
}
