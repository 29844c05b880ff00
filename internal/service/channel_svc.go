package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
	"github.com/ashleyrevlett/youtube-guardian/internal/repository"
)

// ChannelService answers single-channel lookups with a freshly derived
// profile plus the cached enrichment block.
type ChannelService struct {
	videoRepo   *repository.VideoRepo
	historyRepo *repository.HistoryRepo
	channelRepo *repository.ChannelRepo
	profileSvc  *ProfileService
	cache       *CacheService
}

func NewChannelService(videoRepo *repository.VideoRepo, historyRepo *repository.HistoryRepo, channelRepo *repository.ChannelRepo, profileSvc *ProfileService, cache *CacheService) *ChannelService {
	return &ChannelService{
		videoRepo:   videoRepo,
		historyRepo: historyRepo,
		channelRepo: channelRepo,
		profileSvc:  profileSvc,
		cache:       cache,
	}
}

// Lookup builds the profile for one channel from its cached videos. Uses
// cache-aside on the metadata block only; the profile itself is derived and
// cheap for a single channel. Returns pgx.ErrNoRows for unknown channels.
func (s *ChannelService) Lookup(ctx context.Context, channelID string) (*model.ChannelProfileResponse, error) {
	videos, err := s.videoRepo.ListByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, pgx.ErrNoRows
	}

	events, err := s.historyRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	profiles, _ := s.profileSvc.BuildProfiles(videos, events)
	profile := profiles[0]

	profile.Metadata = s.lookupMetadata(ctx, channelID)

	return &model.ChannelProfileResponse{
		Profile:     profile,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// lookupMetadata reads the enrichment block, Redis first then Postgres.
// Missing metadata is not an error; the profile is simply unenriched.
func (s *ChannelService) lookupMetadata(ctx context.Context, channelID string) *model.ChannelMetadata {
	if cached, err := s.cache.GetChannelMeta(ctx, channelID); err != nil {
		log.Warn().Err(err).Str("channel_id", channelID).Msg("cache: channel metadata get failed")
	} else if cached != nil {
		var meta model.ChannelMetadata
		if err := json.Unmarshal(cached, &meta); err == nil {
			return &meta
		}
	}

	meta, err := s.channelRepo.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil
	}

	if err := s.cache.SetChannelMeta(ctx, channelID, meta); err != nil {
		log.Warn().Err(err).Str("channel_id", channelID).Msg("cache: channel metadata set failed")
	}
	return meta
}
