package service

import (
	"testing"
	"time"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
	"github.com/ashleyrevlett/youtube-guardian/internal/rules"
)

func testRules() *rules.RuleSet {
	return rules.New(
		[]string{"graphic", "gore"},
		[]string{"UCbadbadbadbadbadbadbad1"},
		[]string{"25"},
	)
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func baseVideo(videoID string) model.VideoRecord {
	return model.VideoRecord{
		VideoID:      videoID,
		Title:        "Nature documentary",
		ChannelID:    "UCgoodgoodgoodgoodgoodg1",
		ChannelTitle: "Nature Channel",
		PublishedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestClassify_TitleKeywordIsHigh(t *testing.T) {
	c := NewClassifier(testRules())
	v := baseVideo("vid00000001")
	v.Title = "GRAPHIC footage of storm damage"

	res := c.Classify(&v, nil)

	if res.RiskLevel != model.RiskHigh {
		t.Fatalf("risk = %s, want high", res.RiskLevel)
	}
	if res.FlagCount != 1 {
		t.Fatalf("flag count = %d, want 1", res.FlagCount)
	}
	if res.Signals[0].Type != model.SignalBlocklistTitle {
		t.Errorf("signal type = %s, want BLOCKLIST_TITLE", res.Signals[0].Type)
	}
	if res.Signals[0].Severity != "high" {
		t.Errorf("severity = %q, want high", res.Signals[0].Severity)
	}
}

func TestClassify_BodyKeywordIsFlagWithMediumLabel(t *testing.T) {
	c := NewClassifier(testRules())
	v := baseVideo("vid00000002")
	v.Description = strPtr("contains gore in later scenes")

	res := c.Classify(&v, nil)

	// A body hit carries a "medium" severity label but stays flag tier, so
	// the video is still HIGH.
	if res.RiskLevel != model.RiskHigh {
		t.Fatalf("risk = %s, want high", res.RiskLevel)
	}
	if res.Signals[0].Type != model.SignalBlocklistBody {
		t.Fatalf("signal type = %s, want BLOCKLIST_BODY", res.Signals[0].Type)
	}
	if res.Signals[0].Severity != "medium" {
		t.Errorf("severity = %q, want medium", res.Signals[0].Severity)
	}
	if res.Signals[0].Tier != model.TierFlag {
		t.Errorf("tier = %s, want flag", res.Signals[0].Tier)
	}
}

func TestClassify_TagKeywordScanned(t *testing.T) {
	c := NewClassifier(testRules())
	v := baseVideo("vid00000003")
	v.Tags = []string{"weather", "graphic"}

	res := c.Classify(&v, nil)

	if res.RiskLevel != model.RiskHigh {
		t.Fatalf("risk = %s, want high", res.RiskLevel)
	}
	if res.Signals[0].Type != model.SignalBlocklistBody {
		t.Errorf("signal type = %s, want BLOCKLIST_BODY", res.Signals[0].Type)
	}
}

func TestClassify_BlockedChannelAndCategory(t *testing.T) {
	c := NewClassifier(testRules())
	v := baseVideo("vid00000004")
	v.ChannelID = "UCbadbadbadbadbadbadbad1"
	v.CategoryID = strPtr("25")

	res := c.Classify(&v, nil)

	if res.RiskLevel != model.RiskHigh {
		t.Fatalf("risk = %s, want high", res.RiskLevel)
	}
	if res.FlagCount != 2 {
		t.Fatalf("flag count = %d, want 2", res.FlagCount)
	}
	if res.Signals[0].Type != model.SignalBlocklistChannel {
		t.Errorf("first signal = %s, want BLOCKLIST_CHANNEL", res.Signals[0].Type)
	}
	if res.Signals[1].Type != model.SignalBlocklistCategory {
		t.Errorf("second signal = %s, want BLOCKLIST_CATEGORY", res.Signals[1].Type)
	}
}

func TestClassify_ContentRatingTiers(t *testing.T) {
	tests := []struct {
		name     string
		rating   map[string]string
		wantRisk model.RiskLevel
		wantTier model.SignalTier
	}{
		{"PG-13 is warning", map[string]string{"mpaa": "PG-13"}, model.RiskMedium, model.TierWarning},
		{"R is flag", map[string]string{"mpaa": "R"}, model.RiskHigh, model.TierFlag},
		{"BBFC 18 is flag", map[string]string{"bbfc": "18"}, model.RiskHigh, model.TierFlag},
		{"G is info", map[string]string{"mpaa": "G"}, model.RiskLow, model.TierInfo},
		{"unknown scheme ignored", map[string]string{"fsk": "18"}, model.RiskLow, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(testRules())
			v := baseVideo("vid00000005")
			v.ContentRating = tt.rating

			res := c.Classify(&v, nil)

			if res.RiskLevel != tt.wantRisk {
				t.Errorf("risk = %s, want %s", res.RiskLevel, tt.wantRisk)
			}
			if tt.wantTier == "" {
				if len(res.Signals) != 0 {
					t.Errorf("signals = %d, want none", len(res.Signals))
				}
				return
			}
			if len(res.Signals) != 1 || res.Signals[0].Type != model.SignalContentRating {
				t.Fatalf("expected one CONTENT_RATING signal, got %v", res.Signals)
			}
			if res.Signals[0].Tier != tt.wantTier {
				t.Errorf("tier = %s, want %s", res.Signals[0].Tier, tt.wantTier)
			}
		})
	}
}

func TestClassify_KidsMismatchBothDirections(t *testing.T) {
	tests := []struct {
		name       string
		determined *bool
		declared   *bool
		wantTypes  []model.SignalType
	}{
		{
			"declared kids, determined not",
			boolPtr(false), boolPtr(true),
			[]model.SignalType{model.SignalKidsMismatch, model.SignalNotForKids},
		},
		{
			"determined kids, declared not",
			boolPtr(true), boolPtr(false),
			[]model.SignalType{model.SignalKidsMismatch},
		},
		{
			"agreement produces no mismatch",
			boolPtr(true), boolPtr(true),
			nil,
		},
		{
			"one-sided presence is silent",
			boolPtr(true), nil,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(testRules())
			v := baseVideo("vid00000006")
			v.MadeForKids = tt.determined
			v.SelfDeclaredMadeForKids = tt.declared

			res := c.Classify(&v, nil)

			var types []model.SignalType
			for _, s := range res.Signals {
				types = append(types, s.Type)
			}
			if len(types) != len(tt.wantTypes) {
				t.Fatalf("signal types = %v, want %v", types, tt.wantTypes)
			}
			for i := range types {
				if types[i] != tt.wantTypes[i] {
					t.Errorf("signal %d = %s, want %s", i, types[i], tt.wantTypes[i])
				}
			}
		})
	}
}

func TestClassify_NotForKidsOnlyIsLow(t *testing.T) {
	c := NewClassifier(testRules())
	v := baseVideo("vid00000007")
	v.MadeForKids = boolPtr(false)

	res := c.Classify(&v, nil)

	if res.RiskLevel != model.RiskLow {
		t.Fatalf("risk = %s, want low", res.RiskLevel)
	}
	if res.InfoCount != 1 || res.FlagCount != 0 || res.WarningCount != 0 {
		t.Errorf("counts = %d/%d/%d, want 0 flags, 0 warnings, 1 info",
			res.FlagCount, res.WarningCount, res.InfoCount)
	}
}

func TestClassify_ChannelRarelyKidsNeedsEnoughVideos(t *testing.T) {
	tests := []struct {
		name          string
		videosWatched int
		kidsRatio     float64
		wantSignal    bool
	}{
		{"10 videos, low ratio", 10, 0.0, true},
		{"2 videos, low ratio", 2, 0.0, false},
		{"exactly threshold videos", 3, 0.0, false},
		{"4 videos, low ratio", 4, 0.05, true},
		{"4 videos, ratio at cutoff", 4, 0.1, false},
		{"10 videos, high ratio", 10, 0.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(testRules())
			v := baseVideo("vid00000008")
			profile := &model.ChannelProfile{
				ChannelID:        v.ChannelID,
				VideosWatched:    tt.videosWatched,
				MadeForKidsRatio: tt.kidsRatio,
			}

			res := c.Classify(&v, profile)

			got := false
			for _, s := range res.Signals {
				if s.Type == model.SignalChannelRarelyKids {
					got = true
				}
			}
			if got != tt.wantSignal {
				t.Errorf("rarely-kids signal = %v, want %v", got, tt.wantSignal)
			}
		})
	}
}

func TestClassify_ChannelAgeRestrictionIsWarning(t *testing.T) {
	c := NewClassifier(testRules())
	v := baseVideo("vid00000009")
	profile := &model.ChannelProfile{
		ChannelID:         v.ChannelID,
		VideosWatched:     2,
		MadeForKidsRatio:  1.0,
		HasAgeRestriction: true,
	}

	res := c.Classify(&v, profile)

	if res.RiskLevel != model.RiskMedium {
		t.Fatalf("risk = %s, want medium", res.RiskLevel)
	}
	if res.WarningCount != 1 {
		t.Errorf("warning count = %d, want 1", res.WarningCount)
	}
}

func TestClassify_RiskMatchesTierInvariant(t *testing.T) {
	// Across a spread of inputs the derived risk must always agree with the
	// tier counts: HIGH iff any flag, MEDIUM iff warnings without flags.
	c := NewClassifier(testRules())
	videos := []model.VideoRecord{
		baseVideo("vid00000010"),
		func() model.VideoRecord {
			v := baseVideo("vid00000011")
			v.Title = "gore compilation"
			v.ContentRating = map[string]string{"mpaa": "PG-13"}
			return v
		}(),
		func() model.VideoRecord {
			v := baseVideo("vid00000012")
			v.ContentRating = map[string]string{"bbfc": "12"}
			v.MadeForKids = boolPtr(false)
			return v
		}(),
	}

	for i := range videos {
		res := c.Classify(&videos[i], nil)
		want := model.RiskLow
		if res.WarningCount > 0 {
			want = model.RiskMedium
		}
		if res.FlagCount > 0 {
			want = model.RiskHigh
		}
		if res.RiskLevel != want {
			t.Errorf("video %s: risk = %s, want %s (flags=%d warnings=%d)",
				videos[i].VideoID, res.RiskLevel, want, res.FlagCount, res.WarningCount)
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := NewClassifier(testRules())
	v := baseVideo("vid00000013")
	v.Title = "graphic content"
	v.ContentRating = map[string]string{"mpaa": "R"}
	v.MadeForKids = boolPtr(false)

	first := c.Classify(&v, nil)
	second := c.Classify(&v, nil)

	if first.RiskLevel != second.RiskLevel || len(first.Signals) != len(second.Signals) {
		t.Fatalf("classification not stable: %+v vs %+v", first, second)
	}
	for i := range first.Signals {
		if first.Signals[i] != second.Signals[i] {
			t.Errorf("signal %d differs: %+v vs %+v", i, first.Signals[i], second.Signals[i])
		}
	}
}

func TestClassify_EmptyRuleSetStillRates(t *testing.T) {
	c := NewClassifier(rules.New(nil, nil, nil))
	v := baseVideo("vid00000014")
	v.Title = "graphic gore"
	v.ContentRating = map[string]string{"mpaa": "NC-17"}

	res := c.Classify(&v, nil)

	// No keyword rules, but the rating taxonomy still applies.
	if res.RiskLevel != model.RiskHigh {
		t.Fatalf("risk = %s, want high", res.RiskLevel)
	}
	if len(res.Signals) != 1 || res.Signals[0].Type != model.SignalContentRating {
		t.Errorf("signals = %+v, want single CONTENT_RATING", res.Signals)
	}
}
