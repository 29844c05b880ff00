package service

import (
	"fmt"
	"strings"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
	"github.com/ashleyrevlett/youtube-guardian/internal/rating"
	"github.com/ashleyrevlett/youtube-guardian/internal/rules"
)

const (
	// A channel profile only produces the rarely-posts-kid-content signal
	// once more than this many of its videos were watched.
	minVideosForChannelSignal = 3

	// Made-for-kids ratio below which a channel counts as rarely posting
	// kid content.
	kidsRatioThreshold = 0.1
)

// Classifier is the per-video risk decision engine. It is pure: no I/O, no
// state beyond the rule set, so classifying the same inputs twice yields an
// identical result.
type Classifier struct {
	rules *rules.RuleSet
}

func NewClassifier(rs *rules.RuleSet) *Classifier {
	return &Classifier{rules: rs}
}

// Classify evaluates one video against the rule set and its channel profile.
// profile may be nil (channel below the minimum video count, or missing
// channel id), which just means no contextual signals. Check order fixes the
// message ordering; the risk level depends only on the signal tiers:
// HIGH with any flag, MEDIUM with warnings but no flags, LOW otherwise.
func (c *Classifier) Classify(video *model.VideoRecord, profile *model.ChannelProfile) model.ClassificationResult {
	var signals []model.Signal

	// 1. Keyword scan. A keyword hit anywhere is flag tier; hits outside the
	// title carry a "medium" severity label but are still flags, so they
	// drive the risk level exactly like title hits.
	for _, kw := range c.rules.MatchKeywords(video.Title) {
		signals = append(signals, model.Signal{
			Type:     model.SignalBlocklistTitle,
			Tier:     model.TierFlag,
			Severity: "high",
			Message:  fmt.Sprintf("Blocked keyword %q found in title", kw),
		})
	}
	for _, kw := range c.rules.MatchKeywords(bodyText(video)) {
		signals = append(signals, model.Signal{
			Type:     model.SignalBlocklistBody,
			Tier:     model.TierFlag,
			Severity: "medium",
			Message:  fmt.Sprintf("Blocked keyword %q found in description or tags", kw),
		})
	}

	// 2. Exact-match blocklists.
	if c.rules.ChannelBlocked(video.ChannelID) {
		signals = append(signals, model.Signal{
			Type:     model.SignalBlocklistChannel,
			Tier:     model.TierFlag,
			Severity: "high",
			Message:  fmt.Sprintf("Channel %s is on the blocklist", channelLabel(video)),
		})
	}
	if video.CategoryID != nil && c.rules.CategoryBlocked(*video.CategoryID) {
		signals = append(signals, model.Signal{
			Type:     model.SignalBlocklistCategory,
			Tier:     model.TierFlag,
			Severity: "high",
			Message:  fmt.Sprintf("Category %q is on the blocklist", rules.CategoryName(*video.CategoryID)),
		})
	}

	// 3. Content rating. No rating at all produces no signal.
	if entry := rating.MostRestrictive(rating.Resolve(video.ContentRating)); entry != nil {
		tier := rating.TierFor(entry.Severity)
		signals = append(signals, model.Signal{
			Type:     model.SignalContentRating,
			Tier:     tier,
			Severity: entry.Severity.String(),
			Message:  fmt.Sprintf("Rated %s (%s): %s", entry.Code, entry.Scheme, entry.Description),
		})
	}

	// 4. Declared-vs-determined made-for-kids mismatch. Only fires when both
	// fields are present and differ; one-sided presence is intentional silence.
	if video.MadeForKids != nil && video.SelfDeclaredMadeForKids != nil &&
		*video.MadeForKids != *video.SelfDeclaredMadeForKids {
		msg := "Creator declared made-for-kids but YouTube determined otherwise"
		if *video.MadeForKids {
			msg = "YouTube determined made-for-kids but the creator declared otherwise"
		}
		signals = append(signals, model.Signal{
			Type:     model.SignalKidsMismatch,
			Tier:     model.TierInfo,
			Severity: "low",
			Message:  msg,
		})
	}

	// 5. Explicitly not made for kids.
	if video.MadeForKids != nil && !*video.MadeForKids {
		signals = append(signals, model.Signal{
			Type:     model.SignalNotForKids,
			Tier:     model.TierInfo,
			Severity: "low",
			Message:  "Video is not marked for kids",
		})
	}

	// 6. Channel contextual signals.
	if profile != nil {
		if profile.HasAgeRestriction {
			signals = append(signals, model.Signal{
				Type:     model.SignalChannelRestricted,
				Tier:     model.TierWarning,
				Severity: "medium",
				Message:  fmt.Sprintf("Channel %s has at least one age-restricted video", channelLabel(video)),
			})
		}
		if profile.MadeForKidsRatio < kidsRatioThreshold && profile.VideosWatched > minVideosForChannelSignal {
			signals = append(signals, model.Signal{
				Type:     model.SignalChannelRarelyKids,
				Tier:     model.TierInfo,
				Severity: "low",
				Message: fmt.Sprintf("Channel rarely posts kid content (%d of %d watched videos made for kids)",
					profile.MadeForKidsCount, profile.VideosWatched),
			})
		}
	}

	result := model.ClassificationResult{
		VideoID:   video.VideoID,
		RiskLevel: model.DeriveRiskLevel(signals),
		Signals:   signals,
	}
	for _, s := range signals {
		switch s.Tier {
		case model.TierFlag:
			result.FlagCount++
		case model.TierWarning:
			result.WarningCount++
		case model.TierInfo:
			result.InfoCount++
		}
	}
	return result
}

// bodyText joins the description and tag text for the keyword scan.
func bodyText(video *model.VideoRecord) string {
	var parts []string
	if video.Description != nil && *video.Description != "" {
		parts = append(parts, *video.Description)
	}
	if len(video.Tags) > 0 {
		parts = append(parts, strings.Join(video.Tags, " "))
	}
	return strings.Join(parts, "\n")
}

func channelLabel(video *model.VideoRecord) string {
	if video.ChannelTitle != "" {
		return fmt.Sprintf("%q", video.ChannelTitle)
	}
	return video.ChannelID
}
