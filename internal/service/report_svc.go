package service

import (
	"sort"
	"time"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

// How many channels the export's topChannels section carries.
const topChannelCount = 10

// ReportService runs the classifier over the full corpus and produces the
// canonical ordering and summary consumed by every report.
type ReportService struct {
	classifier *Classifier
}

func NewReportService(classifier *Classifier) *ReportService {
	return &ReportService{classifier: classifier}
}

// Aggregate classifies every video exactly once against the profiles (keyed
// by channel id) and returns the ranked results plus summary counts. Ordering
// is risk severity first, then flag count descending, stable on exact ties so
// the original corpus order is preserved.
func (s *ReportService) Aggregate(videos []model.VideoRecord, profiles []model.ChannelProfile) ([]model.RankedResult, model.Summary) {
	byChannel := make(map[string]*model.ChannelProfile, len(profiles))
	for i := range profiles {
		byChannel[profiles[i].ChannelID] = &profiles[i]
	}

	results := make([]model.RankedResult, 0, len(videos))
	var summary model.Summary
	for i := range videos {
		v := &videos[i]
		res := s.classifier.Classify(v, byChannel[v.ChannelID])
		results = append(results, model.RankedResult{
			ClassificationResult: res,
			Title:                v.Title,
			ChannelID:            v.ChannelID,
			ChannelTitle:         v.ChannelTitle,
		})

		summary.Total++
		switch res.RiskLevel {
		case model.RiskHigh:
			summary.High++
		case model.RiskMedium:
			summary.Medium++
		case model.RiskLow:
			summary.Low++
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i].RiskLevel.Rank(), results[j].RiskLevel.Rank()
		if ri != rj {
			return ri < rj
		}
		return results[i].FlagCount > results[j].FlagCount
	})
	return results, summary
}

// BuildExport assembles the flat export shape from a finished aggregation.
// Concerning videos are the HIGH and MEDIUM results, in ranked order.
func (s *ReportService) BuildExport(generatedAt time.Time, results []model.RankedResult, profiles []model.ChannelProfile, summary model.Summary) model.Export {
	concerning := make([]model.RankedResult, 0)
	for _, r := range results {
		if r.RiskLevel == model.RiskHigh || r.RiskLevel == model.RiskMedium {
			concerning = append(concerning, r)
		}
	}

	top := make([]model.ChannelSummary, 0, topChannelCount)
	for i := range profiles {
		if i >= topChannelCount {
			break
		}
		p := &profiles[i]
		top = append(top, model.ChannelSummary{
			ChannelID:        p.ChannelID,
			ChannelTitle:     p.ChannelTitle,
			VideosWatched:    p.VideosWatched,
			MadeForKidsRatio: p.MadeForKidsRatio,
			TopCategories:    p.TopCategories,
		})
	}

	return model.Export{
		GeneratedAt:      generatedAt.UTC().Format(time.RFC3339),
		Summary:          summary,
		ConcerningVideos: concerning,
		TopChannels:      top,
		AllResults:       results,
	}
}
