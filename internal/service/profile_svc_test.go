package service

import (
	"math"
	"testing"
	"time"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func channelVideo(videoID, channelID string) model.VideoRecord {
	return model.VideoRecord{
		VideoID:     videoID,
		Title:       "video " + videoID,
		ChannelID:   channelID,
		PublishedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildProfiles_CountsAndAverages(t *testing.T) {
	svc := NewProfileService()

	v1 := channelVideo("vid00000001", "UCchan1")
	v1.ViewCount = 100
	v1.LikeCount = 10
	v1.MadeForKids = boolPtr(true)
	v2 := channelVideo("vid00000002", "UCchan1")
	v2.ViewCount = 300
	v2.LikeCount = 30
	v2.MadeForKids = boolPtr(false)

	profiles, _ := svc.BuildProfiles([]model.VideoRecord{v1, v2}, nil)

	if len(profiles) != 1 {
		t.Fatalf("profiles = %d, want 1", len(profiles))
	}
	p := profiles[0]
	if p.VideosWatched != 2 {
		t.Errorf("videosWatched = %d, want 2", p.VideosWatched)
	}
	if !almostEqual(p.AvgViews, 200) {
		t.Errorf("avgViews = %.2f, want 200", p.AvgViews)
	}
	if !almostEqual(p.AvgLikes, 20) {
		t.Errorf("avgLikes = %.2f, want 20", p.AvgLikes)
	}
	if !almostEqual(p.MadeForKidsRatio, 0.5) {
		t.Errorf("madeForKidsRatio = %.2f, want 0.5", p.MadeForKidsRatio)
	}
}

func TestBuildProfiles_KidsRatioBounds(t *testing.T) {
	svc := NewProfileService()

	// No made-for-kids flags at all: ratio must be exactly 0, not NaN.
	videos := []model.VideoRecord{
		channelVideo("vid00000001", "UCchan1"),
		channelVideo("vid00000002", "UCchan1"),
	}
	profiles, _ := svc.BuildProfiles(videos, nil)
	if r := profiles[0].MadeForKidsRatio; r != 0 {
		t.Errorf("ratio with no kids flags = %v, want 0", r)
	}

	// All flagged: ratio must be exactly 1.
	for i := range videos {
		videos[i].MadeForKids = boolPtr(true)
	}
	profiles, _ = svc.BuildProfiles(videos, nil)
	if r := profiles[0].MadeForKidsRatio; r != 1 {
		t.Errorf("ratio with all kids flags = %v, want 1", r)
	}
}

func TestBuildProfiles_AgeRestrictionSticky(t *testing.T) {
	svc := NewProfileService()

	v1 := channelVideo("vid00000001", "UCchan1")
	v1.ContentRating = map[string]string{"yt": "ytAgeRestricted"}
	v2 := channelVideo("vid00000002", "UCchan1")

	profiles, _ := svc.BuildProfiles([]model.VideoRecord{v1, v2}, nil)

	if !profiles[0].HasAgeRestriction {
		t.Error("hasAgeRestriction = false, want true (one restricted video suffices)")
	}
}

func TestBuildProfiles_OrderedByVideosWatchedStable(t *testing.T) {
	svc := NewProfileService()

	// UCsmall appears first in the corpus but has fewer videos; UCa and UCb
	// tie and must keep first-seen order.
	videos := []model.VideoRecord{
		channelVideo("vid00000001", "UCsmall"),
		channelVideo("vid00000002", "UCa"),
		channelVideo("vid00000003", "UCa"),
		channelVideo("vid00000004", "UCb"),
		channelVideo("vid00000005", "UCb"),
	}

	profiles, _ := svc.BuildProfiles(videos, nil)

	want := []string{"UCa", "UCb", "UCsmall"}
	for i, id := range want {
		if profiles[i].ChannelID != id {
			t.Errorf("profile %d = %s, want %s", i, profiles[i].ChannelID, id)
		}
	}
}

func TestBuildProfiles_TopCategoriesTieStable(t *testing.T) {
	svc := NewProfileService()

	// Four categories: "10" twice, then "20", "24", "25" once each. Only
	// three slots; ties resolve by first appearance, so "25" is cut.
	mk := func(videoID, cat string) model.VideoRecord {
		v := channelVideo(videoID, "UCchan1")
		v.CategoryID = strPtr(cat)
		return v
	}
	videos := []model.VideoRecord{
		mk("vid00000001", "10"),
		mk("vid00000002", "20"),
		mk("vid00000003", "24"),
		mk("vid00000004", "25"),
		mk("vid00000005", "10"),
	}

	profiles, _ := svc.BuildProfiles(videos, nil)

	want := []string{"10", "20", "24"}
	got := profiles[0].TopCategories
	if len(got) != len(want) {
		t.Fatalf("topCategories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("topCategories[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBuildProfiles_TagCountsPerOccurrence(t *testing.T) {
	svc := NewProfileService()

	v1 := channelVideo("vid00000001", "UCchan1")
	v1.Tags = []string{"minecraft", "gaming"}
	v2 := channelVideo("vid00000002", "UCchan1")
	v2.Tags = []string{"minecraft"}

	profiles, _ := svc.BuildProfiles([]model.VideoRecord{v1, v2}, nil)

	p := profiles[0]
	if p.TagCounts["minecraft"] != 2 {
		t.Errorf("minecraft count = %d, want 2", p.TagCounts["minecraft"])
	}
	if len(p.TopTags) == 0 || p.TopTags[0] != "minecraft" {
		t.Errorf("topTags = %v, want minecraft first", p.TopTags)
	}
}

func TestBuildProfiles_WatchTimeCorrelation(t *testing.T) {
	svc := NewProfileService()

	videos := []model.VideoRecord{channelVideo("vid00000001", "UCchan1")}
	id := "vid00000001"
	unknown := "vid99999999"
	events := []model.WatchEvent{
		{VideoID: &id, WatchedAt: "2024-03-02T10:00:00Z", Position: 0},
		{VideoID: &id, WatchedAt: "2024-03-01T09:00:00Z", Position: 1},
		{VideoID: &id, WatchedAt: "Mar 3, 2024, 8:00:00 AM UTC", Position: 2},
		{VideoID: nil, WatchedAt: "2024-03-04T10:00:00Z", Position: 3},
		{VideoID: &unknown, WatchedAt: "2024-03-05T10:00:00Z", Position: 4},
		{VideoID: &id, WatchedAt: "not a timestamp", Position: 5},
	}

	profiles, stats := svc.BuildProfiles(videos, events)

	p := profiles[0]
	if p.FirstWatched == nil || !p.FirstWatched.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("firstWatched = %v, want 2024-03-01T09:00:00Z", p.FirstWatched)
	}
	if p.LastWatched == nil || !p.LastWatched.Equal(time.Date(2024, 3, 3, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("lastWatched = %v, want 2024-03-03T08:00:00Z", p.LastWatched)
	}
	if stats.EventsWithoutVideoID != 1 {
		t.Errorf("eventsWithoutVideoID = %d, want 1", stats.EventsWithoutVideoID)
	}
	if stats.EventsUnknownVideo != 1 {
		t.Errorf("eventsUnknownVideo = %d, want 1", stats.EventsUnknownVideo)
	}
	if stats.UnparseableTimestamps != 1 {
		t.Errorf("unparseableTimestamps = %d, want 1", stats.UnparseableTimestamps)
	}
}

func TestBuildProfiles_SkipsVideosWithoutChannel(t *testing.T) {
	svc := NewProfileService()

	videos := []model.VideoRecord{
		channelVideo("vid00000001", ""),
		channelVideo("vid00000002", "UCchan1"),
	}

	profiles, _ := svc.BuildProfiles(videos, nil)

	if len(profiles) != 1 || profiles[0].ChannelID != "UCchan1" {
		t.Fatalf("profiles = %+v, want only UCchan1", profiles)
	}
}
