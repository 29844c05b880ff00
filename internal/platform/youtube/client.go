// Package youtube implements the channel-metadata fetcher capability against
// the YouTube Data API v3.
package youtube

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

// Client fetches channel metadata with a mandatory minimum interval between
// successive calls. The interval is a correctness requirement imposed by the
// provider's usage policy, not a tunable optimization.
type Client struct {
	svc         *youtubeapi.Service
	minInterval time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// New creates a Data API client authenticated by API key.
func New(ctx context.Context, apiKey string, minInterval time.Duration) (*Client, error) {
	svc, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &Client{svc: svc, minInterval: minInterval}, nil
}

// FetchChannelMetadata retrieves one channel's snippet and statistics.
// Returns nil, nil when the channel does not exist.
func (c *Client) FetchChannelMetadata(ctx context.Context, channelID string) (*model.ChannelMetadata, error) {
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	resp, err := c.svc.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channels.list %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	item := resp.Items[0]
	meta := &model.ChannelMetadata{
		ChannelID: channelID,
		FetchedAt: time.Now().UTC(),
	}
	if item.Snippet != nil {
		meta.Title = item.Snippet.Title
		meta.Description = item.Snippet.Description
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			meta.PublishedAt = &t
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			meta.ThumbnailURL = item.Snippet.Thumbnails.Default.Url
		}
	}
	if item.Statistics != nil {
		meta.SubscriberCount = int64(item.Statistics.SubscriberCount)
		meta.VideoCount = int64(item.Statistics.VideoCount)
		meta.ViewCount = int64(item.Statistics.ViewCount)
	}
	return meta, nil
}

// pace blocks until at least minInterval has passed since the previous call.
func (c *Client) pace(ctx context.Context) error {
	c.mu.Lock()
	wait := c.minInterval - time.Since(c.lastCall)
	c.lastCall = time.Now().Add(max(wait, 0))
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
