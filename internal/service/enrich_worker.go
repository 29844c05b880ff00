package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
	"github.com/ashleyrevlett/youtube-guardian/internal/repository"
)

// ChannelMetadataFetcher is the injected provider capability. Implementations
// own the per-call pacing that keeps us inside the provider's rate limits.
// A nil, nil return means the channel does not exist at the provider.
type ChannelMetadataFetcher interface {
	FetchChannelMetadata(ctx context.Context, channelID string) (*model.ChannelMetadata, error)
}

// EnrichWorker is a periodic background job that fetches provider metadata
// for channels seen in the video cache but not yet enriched. Calls are made
// one at a time and each result is persisted before the next call, so a crash
// mid-run loses at most one in-flight fetch; failures are retried next tick.
type EnrichWorker struct {
	videoRepo   *repository.VideoRepo
	channelRepo *repository.ChannelRepo
	fetcher     ChannelMetadataFetcher
	cache       *CacheService
	interval    time.Duration
	stopCh      chan struct{}
}

// NewEnrichWorker creates a worker that ticks every interval.
func NewEnrichWorker(videoRepo *repository.VideoRepo, channelRepo *repository.ChannelRepo, fetcher ChannelMetadataFetcher, cache *CacheService, interval time.Duration) *EnrichWorker {
	return &EnrichWorker{
		videoRepo:   videoRepo,
		channelRepo: channelRepo,
		fetcher:     fetcher,
		cache:       cache,
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the periodic enrichment loop. It runs one tick immediately,
// then every interval.
func (w *EnrichWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("enrich-worker: starting")

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Info().Msg("enrich-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Info().Msg("enrich-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *EnrichWorker) Stop() {
	close(w.stopCh)
}

// tick enriches every channel currently missing metadata. A failed fetch for
// one channel never aborts the batch.
func (w *EnrichWorker) tick(ctx context.Context) {
	start := time.Now()

	ids, err := w.videoRepo.ListChannelIDsMissingMetadata(ctx)
	if err != nil {
		log.Error().Err(err).Msg("enrich-worker: listing channels failed")
		return
	}
	if len(ids) == 0 {
		return
	}

	fetched, missing, failed := 0, 0, 0
	for _, channelID := range ids {
		if ctx.Err() != nil {
			return
		}

		meta, err := w.fetcher.FetchChannelMetadata(ctx, channelID)
		if err != nil {
			log.Warn().Err(err).Str("channel_id", channelID).Msg("enrich-worker: fetch failed")
			failed++
			continue
		}
		if meta == nil {
			log.Debug().Str("channel_id", channelID).Msg("enrich-worker: channel not found at provider")
			missing++
			continue
		}

		// Persist before moving to the next call.
		if err := w.channelRepo.UpsertMetadata(ctx, meta); err != nil {
			log.Error().Err(err).Str("channel_id", channelID).Msg("enrich-worker: persist failed")
			failed++
			continue
		}
		if err := w.cache.SetChannelMeta(ctx, channelID, meta); err != nil {
			log.Warn().Err(err).Str("channel_id", channelID).Msg("enrich-worker: cache set failed")
		}
		fetched++
	}

	log.Info().
		Int("fetched", fetched).
		Int("missing", missing).
		Int("failed", failed).
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).
		Msg("enrich-worker: tick complete")
}
