package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
	"github.com/ashleyrevlett/youtube-guardian/internal/repository"
)

// AnalysisService drives one full pipeline run: load the corpus snapshot,
// build channel profiles, classify every video, and persist the ranked
// results as the new (and only) result corpus. Sequential by design; the
// classifier and profile builder are pure functions over the snapshot.
type AnalysisService struct {
	videoRepo   *repository.VideoRepo
	historyRepo *repository.HistoryRepo
	channelRepo *repository.ChannelRepo
	resultRepo  *repository.ResultRepo
	profileSvc  *ProfileService
	reportSvc   *ReportService
	cache       *CacheService
}

func NewAnalysisService(
	videoRepo *repository.VideoRepo,
	historyRepo *repository.HistoryRepo,
	channelRepo *repository.ChannelRepo,
	resultRepo *repository.ResultRepo,
	profileSvc *ProfileService,
	reportSvc *ReportService,
	cache *CacheService,
) *AnalysisService {
	return &AnalysisService{
		videoRepo:   videoRepo,
		historyRepo: historyRepo,
		channelRepo: channelRepo,
		resultRepo:  resultRepo,
		profileSvc:  profileSvc,
		reportSvc:   reportSvc,
		cache:       cache,
	}
}

// Run executes one analysis over the current snapshot. The persisted result
// corpus is replaced wholesale so it reflects exactly the current rule set
// and video/channel snapshot.
func (s *AnalysisService) Run(ctx context.Context) (*model.Report, error) {
	start := time.Now()

	videos, err := s.videoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.historyRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	metas, err := s.channelRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	profiles, stats := s.profileSvc.BuildProfiles(videos, events)
	attachMetadata(profiles, metas)

	results, summary := s.reportSvc.Aggregate(videos, profiles)

	runID := uuid.New()
	generatedAt := time.Now().UTC()
	export := s.reportSvc.BuildExport(generatedAt, results, profiles, summary)

	if err := s.resultRepo.ReplaceResults(ctx, runID, generatedAt, results, summary, export); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateReport(ctx); err != nil {
		log.Warn().Err(err).Msg("analysis: report cache invalidate failed")
	}

	log.Info().
		Str("run_id", runID.String()).
		Int("videos", summary.Total).
		Int("high", summary.High).
		Int("medium", summary.Medium).
		Int("low", summary.Low).
		Int("channels", len(profiles)).
		Int("events_without_video_id", stats.EventsWithoutVideoID).
		Int("events_unknown_video", stats.EventsUnknownVideo).
		Int("unparseable_timestamps", stats.UnparseableTimestamps).
		Dur("elapsed", time.Since(start)).
		Msg("analysis: run complete")

	return &model.Report{
		RunID:       runID.String(),
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Summary:     summary,
		Results:     results,
	}, nil
}

// attachMetadata joins cached enrichment blocks onto the freshly built
// profiles. Channels without enrichment just stay unenriched.
func attachMetadata(profiles []model.ChannelProfile, metas []model.ChannelMetadata) {
	if len(metas) == 0 {
		return
	}
	byID := make(map[string]*model.ChannelMetadata, len(metas))
	for i := range metas {
		byID[metas[i].ChannelID] = &metas[i]
	}
	for i := range profiles {
		if meta, ok := byID[profiles[i].ChannelID]; ok {
			profiles[i].Metadata = meta
		}
	}
}
