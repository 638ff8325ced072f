// Package storage exposes the image bucket behind the random-image command
// family as a narrow listing interface.
package storage

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	botconfig "github.com/tangobot/go-tangobot/config"
)

// Bucket lists meme images stored under per-command prefixes.
type Bucket struct {
	client  *s3.Client
	name    string
	baseURL string
}

func New(ctx context.Context, cfg *botconfig.Config) (*Bucket, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Bucket.Region),
	}
	if cfg.Bucket.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Bucket.AccessKey, cfg.Bucket.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Bucket{
		client:  s3.NewFromConfig(awsCfg),
		name:    cfg.Bucket.Name,
		baseURL: strings.TrimSuffix(cfg.Bucket.BaseURL, "/"),
	}, nil
}

// listKeys returns object keys under prefix that look like files (contain a
// dot), skipping directory placeholders.
func (b *Bucket) listKeys(ctx context.Context, prefix string) ([]imageObject, error) {
	var objects []imageObject
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: awsv2.String(b.name),
		Prefix: awsv2.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bucket %s/%s: %w", b.name, prefix, err)
		}
		for _, obj := range page.Contents {
			key := awsv2.ToString(obj.Key)
			if !strings.Contains(key, ".") {
				continue
			}
			objects = append(objects, imageObject{
				key:      key,
				modified: awsv2.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

type imageObject struct {
	key      string
	modified time.Time
}

func (b *Bucket) url(key string) string {
	return fmt.Sprintf("%s/%s/%s", b.baseURL, b.name, key)
}

// RandomImage returns the public URL of one randomly chosen image under prefix.
func (b *Bucket) RandomImage(ctx context.Context, prefix string) (string, error) {
	objects, err := b.listKeys(ctx, prefix)
	if err != nil {
		return "", err
	}
	if len(objects) == 0 {
		return "", fmt.Errorf("no images under %q", prefix)
	}
	return b.url(objects[rand.Intn(len(objects))].key), nil
}

// RandomImages returns n randomly chosen image URLs (repeats allowed).
func (b *Bucket) RandomImages(ctx context.Context, prefix string, n int) ([]string, error) {
	objects, err := b.listKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no images under %q", prefix)
	}
	urls := make([]string, n)
	for i := range urls {
		urls[i] = b.url(objects[rand.Intn(len(objects))].key)
	}
	return urls, nil
}

// CountImages returns the number of images stored under prefix.
func (b *Bucket) CountImages(ctx context.Context, prefix string) (int, error) {
	objects, err := b.listKeys(ctx, prefix)
	if err != nil {
		return 0, err
	}
	return len(objects), nil
}

// LatestImage returns the most recently uploaded image under prefix.
func (b *Bucket) LatestImage(ctx context.Context, prefix string) (string, error) {
	objects, err := b.listKeys(ctx, prefix)
	if err != nil {
		return "", err
	}
	if len(objects) == 0 {
		return "", fmt.Errorf("no images under %q", prefix)
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].modified.After(objects[j].modified)
	})
	return b.url(objects[0].key), nil
}
