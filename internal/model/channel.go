package model

import "time"

// ChannelProfile is the derived reputation profile for one channel, rebuilt by
// full aggregation each analysis run. A profile only exists for channels with
// at least one watched video, so VideosWatched > 0 always holds and
// MadeForKidsRatio stays in [0,1].
type ChannelProfile struct {
	ChannelID         string           `json:"channelId"`
	ChannelTitle      string           `json:"channelTitle,omitempty"`
	VideosWatched     int              `json:"videosWatched"`
	TotalViews        int64            `json:"totalViews"`
	AvgViews          float64          `json:"avgViews"`
	TotalLikes        int64            `json:"totalLikes"`
	AvgLikes          float64          `json:"avgLikes"`
	CategoryCounts    map[string]int   `json:"categoryCounts,omitempty"`
	TagCounts         map[string]int   `json:"tagCounts,omitempty"`
	TopCategories     []string         `json:"topCategories"`
	TopTags           []string         `json:"topTags"`
	MadeForKidsCount  int              `json:"madeForKidsCount"`
	MadeForKidsRatio  float64          `json:"madeForKidsRatio"`
	HasAgeRestriction bool             `json:"hasAgeRestriction"`
	FirstWatched      *time.Time       `json:"firstWatched,omitempty"`
	LastWatched       *time.Time       `json:"lastWatched,omitempty"`
	Metadata          *ChannelMetadata `json:"metadata,omitempty"`
}

// ChannelMetadata is the provider-fetched enrichment block for a channel,
// fetched at most once per channel and cached indefinitely until the cache
// is cleared.
type ChannelMetadata struct {
	ChannelID       string     `json:"channelId"`
	Title           string     `json:"title,omitempty"`
	SubscriberCount int64      `json:"subscriberCount"`
	VideoCount      int64      `json:"videoCount"`
	ViewCount       int64      `json:"viewCount"`
	Description     string     `json:"description,omitempty"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	ThumbnailURL    string     `json:"thumbnailUrl,omitempty"`
	FetchedAt       time.Time  `json:"fetchedAt"`
}

// ChannelProfileResponse is the API response for channel lookups.
type ChannelProfileResponse struct {
	Profile     ChannelProfile `json:"profile"`
	GeneratedAt string         `json:"generatedAt"`
}

// ChannelSummary is the compact per-channel entry used in report exports.
type ChannelSummary struct {
	ChannelID        string   `json:"channelId"`
	ChannelTitle     string   `json:"channelTitle,omitempty"`
	VideosWatched    int      `json:"videosWatched"`
	MadeForKidsRatio float64  `json:"madeForKidsRatio"`
	TopCategories    []string `json:"topCategories"`
}
