package cmds

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const geniusSearchEndpoint = "https://api.genius.com/search"

type geniusSearch struct {
	Response struct {
		Hits []struct {
			Result struct {
				FullTitle string `json:"full_title"`
				URL       string `json:"url"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// Lyrics links the best lyrics match for a song query.
func (s *Skills) Lyrics(ctx context.Context, req *Request) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + s.cfg.ApiKeys.LyricsGenius}

	var result geniusSearch
	err := s.getJSON(ctx, geniusSearchEndpoint, url.Values{"q": {req.Args}}, headers, &result)
	if err != nil {
		return "", err
	}
	if len(result.Response.Hits) == 0 {
		return fmt.Sprintf("no lyrics found for `%s`, try an actual song next time", req.Args), nil
	}
	hit := result.Response.Hits[0].Result
	return fmt.Sprintf("\n\n🎵 <b>%s</b>\n%s", strings.TrimSpace(hit.FullTitle), hit.URL), nil
}
