package cmds

import (
	"context"
	"fmt"
	"net/url"
)

const youtubeOembedEndpoint = "https://www.youtube.com/oembed"

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// VideoPreview builds a rich preview for a pasted video link. Not a command
// type: invoked by the link-preview trigger path.
func (s *Skills) VideoPreview(ctx context.Context, link string) (string, error) {
	params := url.Values{
		"url":    {link},
		"format": {"json"},
	}
	var meta oembedResponse
	if err := s.getJSON(ctx, youtubeOembedEndpoint, params, nil, &meta); err != nil {
		return "", err
	}
	if meta.Title == "" {
		return "", nil
	}
	return fmt.Sprintf("\n\n<b>▶️ %s</b>\n%s\n%s", meta.Title, meta.AuthorName, meta.ThumbnailURL), nil
}
