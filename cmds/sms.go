package cmds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/shlex"
)

// SendSMS texts a configured recipient on behalf of a chatter. Args are
// "<recipient> <message...>"; the recipient must be named in the stored
// template (a `;`-delimited allowlist of name=number pairs).
func (s *Skills) SendSMS(ctx context.Context, req *Request) (string, error) {
	if !slices.Contains(s.cfg.Moderation.SpecialUsers, req.User) {
		return fmt.Sprintf("@%s u don't get texting privileges", req.User), nil
	}

	tokens, err := shlex.Split(req.Args)
	if err != nil || len(tokens) < 2 {
		return fmt.Sprintf("@%s usage: !sms <recipient> <message>", req.User), nil
	}
	recipient := strings.ToLower(tokens[0])
	body := strings.Join(tokens[1:], " ")

	number := ""
	for _, pair := range strings.Split(req.Content, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok && strings.EqualFold(name, recipient) {
			number = value
			break
		}
	}
	if number == "" {
		return fmt.Sprintf("idk anybody called `%s`", recipient), nil
	}

	form := url.Values{
		"From": {s.cfg.ApiKeys.SMSSender},
		"To":   {number},
		"Body": {fmt.Sprintf("%s (via %s)", body, req.User)},
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ApiKeys.SMSGateway,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	return fmt.Sprintf("📲 texted %s for u @%s", recipient, req.User), nil
}
