package cmds

import (
	"context"
	"fmt"
	"strings"
)

// RandomBucketImage posts one random image from the bucket directory named by
// the stored template.
func (s *Skills) RandomBucketImage(ctx context.Context, req *Request) (string, error) {
	return s.bucket.RandomImage(ctx, req.Content)
}

// SpamBucketImages posts three random images at once.
func (s *Skills) SpamBucketImages(ctx context.Context, req *Request) (string, error) {
	urls, err := s.bucket.RandomImages(ctx, req.Content, 3)
	if err != nil {
		return "", err
	}
	return strings.Join(urls, " "), nil
}

// CountBucketImages reports how many images live under the directory.
func (s *Skills) CountBucketImages(ctx context.Context, req *Request) (string, error) {
	count, err := s.bucket.CountImages(ctx, req.Content)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return fmt.Sprintf("⚠️ uhhh I couldnt find any images for %s ⚠️", strings.ToUpper(req.Content)), nil
	}
	return fmt.Sprintf("\n\n\n<b>%s image count:</b>\n#️⃣ %d", strings.ToUpper(req.Content), count), nil
}

// LatestBucketImage posts the most recently uploaded image in the directory.
func (s *Skills) LatestBucketImage(ctx context.Context, req *Request) (string, error) {
	return s.bucket.LatestImage(ctx, req.Content)
}
