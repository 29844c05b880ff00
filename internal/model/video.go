package model

import (
	"strings"
	"time"
)

// VideoRecord is one fetched video. Records are treated as a cache: written
// once when first fetched and never re-fetched while present, so all fields
// are immutable after creation. VideoID is the join key to every other entity.
type VideoRecord struct {
	VideoID                 string            `json:"videoId"`
	Title                   string            `json:"title"`
	Description             *string           `json:"description,omitempty"`
	ChannelID               string            `json:"channelId"`
	ChannelTitle            string            `json:"channelTitle,omitempty"`
	PublishedAt             time.Time         `json:"publishedAt"`
	CategoryID              *string           `json:"categoryId,omitempty"`
	Tags                    []string          `json:"tags,omitempty"`
	Duration                string            `json:"duration,omitempty"`
	CaptionsAvailable       bool              `json:"captionsAvailable"`
	ContentRating           map[string]string `json:"contentRating,omitempty"`
	ViewCount               int64             `json:"viewCount"`
	LikeCount               int64             `json:"likeCount"`
	CommentCount            int64             `json:"commentCount"`
	PrivacyStatus           string            `json:"privacyStatus,omitempty"`
	MadeForKids             *bool             `json:"madeForKids,omitempty"`
	SelfDeclaredMadeForKids *bool             `json:"selfDeclaredMadeForKids,omitempty"`
	Embeddable              bool              `json:"embeddable"`
	FetchedAt               time.Time         `json:"fetchedAt,omitempty"`
}

// AgeRestricted reports whether YouTube marked the video age-restricted
// (contentRating scheme "yt" with code "ytAgeRestricted").
func (v *VideoRecord) AgeRestricted() bool {
	return strings.EqualFold(v.ContentRating["yt"], "ytAgeRestricted")
}

// WatchEvent is one entry from the user's exported watch history. The video id
// is not required to resolve; many events may reference the same video (repeat
// views). WatchedAt is kept as source-provided free text and parsed only when
// correlating timestamps. Position preserves the export's insertion order.
type WatchEvent struct {
	ID              int64   `json:"id,omitempty"`
	VideoID         *string `json:"videoId,omitempty"`
	WatchedAt       string  `json:"watchedAt,omitempty"`
	TitleSnapshot   string  `json:"title,omitempty"`
	ChannelSnapshot string  `json:"channelName,omitempty"`
	Position        int     `json:"-"`
}

// WatchEventRequest is one entry of the POST /api/history body, shaped like a
// Takeout watch-history item. Either videoId or a watch URL in titleUrl may
// identify the video; entries with neither are stored unresolved.
type WatchEventRequest struct {
	VideoID     string `json:"videoId,omitempty"`
	TitleURL    string `json:"titleUrl,omitempty"`
	Time        string `json:"time,omitempty"`
	Title       string `json:"title,omitempty"`
	ChannelName string `json:"channelName,omitempty"`
}

// IngestResponse is the API response after a history or video ingest.
type IngestResponse struct {
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Unresolved int `json:"unresolved,omitempty"`
}

// VideoDetailResponse is the API response for a single-video lookup: the
// cached record plus its latest rule-based classification and, when the
// transcript oracle has run, the AI verdict. The two verdicts coexist and
// never overwrite each other.
type VideoDetailResponse struct {
	Video          VideoRecord           `json:"video"`
	Classification *ClassificationResult `json:"classification,omitempty"`
	AIVerdict      *AIVerdict            `json:"aiVerdict,omitempty"`
}
