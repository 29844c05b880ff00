package service

import (
	"sort"
	"time"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

// Top-N sizes for the per-channel frequency extracts.
const (
	topCategoryCount = 3
	topTagCount      = 10
)

// watchTimeLayouts are tried in order when parsing the free-text watched-at
// field of an export entry.
var watchTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"Jan 2, 2006, 3:04:05 PM MST",
	"2 Jan 2006, 15:04:05 MST",
}

// BuildStats counts the records the builder skipped as a data-quality
// statistic; skips are never an error.
type BuildStats struct {
	EventsWithoutVideoID  int
	EventsUnknownVideo    int
	UnparseableTimestamps int
}

// ProfileService builds channel reputation profiles by full aggregation over
// the in-memory video and watch-history snapshot. Derived ratios are computed
// after the full scan, never incrementally, so input order cannot change
// rounding.
type ProfileService struct{}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// accumulator carries the per-channel running sums plus the key insertion
// orders needed for stable top-N tie-breaks.
type accumulator struct {
	profile       model.ChannelProfile
	categoryOrder []string
	tagOrder      []string
}

// BuildProfiles groups videos by channel and aggregates counts, frequency
// maps, and watch timestamps. Output is ordered by videosWatched descending,
// stable on ties (first-seen channel order preserved).
func (s *ProfileService) BuildProfiles(videos []model.VideoRecord, events []model.WatchEvent) ([]model.ChannelProfile, BuildStats) {
	var stats BuildStats

	accs := make(map[string]*accumulator)
	var order []string
	videoChannel := make(map[string]string, len(videos))

	for i := range videos {
		v := &videos[i]
		if v.ChannelID == "" {
			continue
		}
		videoChannel[v.VideoID] = v.ChannelID

		acc, ok := accs[v.ChannelID]
		if !ok {
			acc = &accumulator{profile: model.ChannelProfile{
				ChannelID:      v.ChannelID,
				ChannelTitle:   v.ChannelTitle,
				CategoryCounts: make(map[string]int),
				TagCounts:      make(map[string]int),
			}}
			accs[v.ChannelID] = acc
			order = append(order, v.ChannelID)
		}

		p := &acc.profile
		p.VideosWatched++
		p.TotalViews += v.ViewCount
		p.TotalLikes += v.LikeCount
		if p.ChannelTitle == "" {
			p.ChannelTitle = v.ChannelTitle
		}

		if v.CategoryID != nil && *v.CategoryID != "" {
			if _, seen := p.CategoryCounts[*v.CategoryID]; !seen {
				acc.categoryOrder = append(acc.categoryOrder, *v.CategoryID)
			}
			p.CategoryCounts[*v.CategoryID]++
		}
		// Tags count once per occurrence per video, not deduplicated
		// across videos.
		for _, tag := range v.Tags {
			if _, seen := p.TagCounts[tag]; !seen {
				acc.tagOrder = append(acc.tagOrder, tag)
			}
			p.TagCounts[tag]++
		}

		if v.MadeForKids != nil && *v.MadeForKids {
			p.MadeForKidsCount++
		}
		if v.AgeRestricted() {
			p.HasAgeRestriction = true
		}
	}

	s.correlateWatchTimes(accs, videoChannel, events, &stats)

	// Ratios and top-N extraction after the full scan.
	profiles := make([]model.ChannelProfile, 0, len(order))
	for _, channelID := range order {
		acc := accs[channelID]
		p := &acc.profile
		n := float64(p.VideosWatched)
		p.AvgViews = float64(p.TotalViews) / n
		p.AvgLikes = float64(p.TotalLikes) / n
		p.MadeForKidsRatio = float64(p.MadeForKidsCount) / n
		p.TopCategories = topN(p.CategoryCounts, acc.categoryOrder, topCategoryCount)
		p.TopTags = topN(p.TagCounts, acc.tagOrder, topTagCount)
		profiles = append(profiles, *p)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].VideosWatched > profiles[j].VideosWatched
	})
	return profiles, stats
}

// correlateWatchTimes walks the watch events and records first/last watched
// timestamps per channel. Events without a resolvable video id, referencing
// an unknown video, or with an unparseable timestamp are skipped and counted.
func (s *ProfileService) correlateWatchTimes(accs map[string]*accumulator, videoChannel map[string]string, events []model.WatchEvent, stats *BuildStats) {
	for i := range events {
		ev := &events[i]
		if ev.VideoID == nil || *ev.VideoID == "" {
			stats.EventsWithoutVideoID++
			continue
		}
		channelID, ok := videoChannel[*ev.VideoID]
		if !ok {
			stats.EventsUnknownVideo++
			continue
		}
		ts := parseWatchTime(ev.WatchedAt)
		if ts == nil {
			stats.UnparseableTimestamps++
			continue
		}

		p := &accs[channelID].profile
		if p.FirstWatched == nil || ts.Before(*p.FirstWatched) {
			p.FirstWatched = ts
		}
		if p.LastWatched == nil || ts.After(*p.LastWatched) {
			p.LastWatched = ts
		}
	}
}

func parseWatchTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range watchTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// topN returns the n keys with the highest counts, descending; ties keep the
// original insertion order of the key (stable sort over the order slice).
func topN(counts map[string]int, order []string, n int) []string {
	keys := make([]string, len(order))
	copy(keys, order)
	sort.SliceStable(keys, func(i, j int) bool {
		return counts[keys[i]] > counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	if keys == nil {
		keys = []string{}
	}
	return keys
}
