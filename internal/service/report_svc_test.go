package service

import (
	"testing"
	"time"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

func TestAggregate_OrderingAndSummary(t *testing.T) {
	svc := NewReportService(NewClassifier(testRules()))

	low := baseVideo("vid00000001")

	medium := baseVideo("vid00000002")
	medium.ContentRating = map[string]string{"mpaa": "PG-13"}

	// One flag.
	high1 := baseVideo("vid00000003")
	high1.Title = "graphic footage"

	// Two flags, must rank above high1.
	high2 := baseVideo("vid00000004")
	high2.Title = "graphic gore"

	videos := []model.VideoRecord{low, medium, high1, high2}
	results, summary := svc.Aggregate(videos, nil)

	wantOrder := []string{"vid00000004", "vid00000003", "vid00000002", "vid00000001"}
	for i, id := range wantOrder {
		if results[i].VideoID != id {
			t.Errorf("rank %d = %s, want %s", i, results[i].VideoID, id)
		}
	}

	if summary.Total != 4 || summary.High != 2 || summary.Medium != 1 || summary.Low != 1 {
		t.Errorf("summary = %+v, want total=4 high=2 medium=1 low=1", summary)
	}
}

func TestAggregate_StableOnExactTies(t *testing.T) {
	svc := NewReportService(NewClassifier(testRules()))

	// Three identical LOW videos: ranked order must be corpus order.
	videos := []model.VideoRecord{
		baseVideo("vid00000001"),
		baseVideo("vid00000002"),
		baseVideo("vid00000003"),
	}

	results, _ := svc.Aggregate(videos, nil)

	for i, id := range []string{"vid00000001", "vid00000002", "vid00000003"} {
		if results[i].VideoID != id {
			t.Errorf("rank %d = %s, want %s", i, results[i].VideoID, id)
		}
	}
}

func TestAggregate_UsesChannelProfile(t *testing.T) {
	svc := NewReportService(NewClassifier(testRules()))

	v := baseVideo("vid00000001")
	profiles := []model.ChannelProfile{{
		ChannelID:         v.ChannelID,
		VideosWatched:     5,
		MadeForKidsRatio:  1.0,
		HasAgeRestriction: true,
	}}

	results, _ := svc.Aggregate([]model.VideoRecord{v}, profiles)

	if results[0].RiskLevel != model.RiskMedium {
		t.Fatalf("risk = %s, want medium (channel age restriction warning)", results[0].RiskLevel)
	}
}

func TestAggregate_PresentationFieldsJoined(t *testing.T) {
	svc := NewReportService(NewClassifier(testRules()))

	v := baseVideo("vid00000001")
	results, _ := svc.Aggregate([]model.VideoRecord{v}, nil)

	r := results[0]
	if r.Title != v.Title || r.ChannelID != v.ChannelID || r.ChannelTitle != v.ChannelTitle {
		t.Errorf("presentation fields = %q/%q/%q, want %q/%q/%q",
			r.Title, r.ChannelID, r.ChannelTitle, v.Title, v.ChannelID, v.ChannelTitle)
	}
}

func TestBuildExport_ConcerningAndTopChannels(t *testing.T) {
	svc := NewReportService(NewClassifier(testRules()))

	low := baseVideo("vid00000001")
	medium := baseVideo("vid00000002")
	medium.ContentRating = map[string]string{"mpaa": "PG-13"}
	high := baseVideo("vid00000003")
	high.Title = "graphic footage"

	videos := []model.VideoRecord{low, medium, high}
	results, summary := svc.Aggregate(videos, nil)

	profiles := make([]model.ChannelProfile, 12)
	for i := range profiles {
		profiles[i] = model.ChannelProfile{
			ChannelID:     "UCchan" + string(rune('a'+i)),
			VideosWatched: 12 - i,
		}
	}

	generatedAt := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	export := svc.BuildExport(generatedAt, results, profiles, summary)

	if export.GeneratedAt != "2024-07-01T12:00:00Z" {
		t.Errorf("generatedAt = %s", export.GeneratedAt)
	}
	if len(export.ConcerningVideos) != 2 {
		t.Fatalf("concerning = %d, want 2 (high + medium)", len(export.ConcerningVideos))
	}
	if export.ConcerningVideos[0].VideoID != "vid00000003" {
		t.Errorf("first concerning = %s, want the HIGH video", export.ConcerningVideos[0].VideoID)
	}
	if len(export.TopChannels) != 10 {
		t.Errorf("topChannels = %d, want capped at 10", len(export.TopChannels))
	}
	if len(export.AllResults) != 3 {
		t.Errorf("allResults = %d, want 3", len(export.AllResults))
	}
}

func TestBuildExport_EmptyCorpus(t *testing.T) {
	svc := NewReportService(NewClassifier(testRules()))

	results, summary := svc.Aggregate(nil, nil)
	export := svc.BuildExport(time.Now(), results, nil, summary)

	if export.Summary.Total != 0 {
		t.Errorf("total = %d, want 0", export.Summary.Total)
	}
	if export.ConcerningVideos == nil || export.TopChannels == nil || export.AllResults == nil {
		t.Error("export slices must be empty, not nil, for stable JSON output")
	}
}
