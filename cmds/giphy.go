package cmds

import (
	"context"
	"net/url"
)

const giphySearchEndpoint = "https://api.giphy.com/v1/gifs/search"

type giphyResponse struct {
	Data []struct {
		Images struct {
			Original struct {
				URL string `json:"url"`
			} `json:"original"`
		} `json:"images"`
	} `json:"data"`
}

// Giphy runs an image search using the stored template as the query.
func (s *Skills) Giphy(ctx context.Context, req *Request) (string, error) {
	return s.SearchGif(ctx, req.Content)
}

// SearchGif returns the first gif matching query, or "" when nothing matched.
// Also serves the dispatcher's fallback-search path.
func (s *Skills) SearchGif(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"api_key": {s.cfg.ApiKeys.Giphy},
		"q":       {query},
		"limit":   {"1"},
		"rating":  {"r"},
	}
	var resp giphyResponse
	if err := s.getJSON(ctx, giphySearchEndpoint, params, nil, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].Images.Original.URL, nil
}
