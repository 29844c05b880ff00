package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ashleyrevlett/youtube-guardian/internal/middleware"
	"github.com/ashleyrevlett/youtube-guardian/internal/model"
	"github.com/ashleyrevlett/youtube-guardian/internal/repository"
)

const maxVideoBatch = 10000

type VideoHandler struct {
	videoRepo  *repository.VideoRepo
	resultRepo *repository.ResultRepo
}

func NewVideoHandler(videoRepo *repository.VideoRepo, resultRepo *repository.ResultRepo) *VideoHandler {
	return &VideoHandler{videoRepo: videoRepo, resultRepo: resultRepo}
}

// Ingest handles POST /api/videos
// Bulk-loads fetched video records. Records are first-write-wins: a video id
// already present is skipped, never overwritten.
func (h *VideoHandler) Ingest(c fiber.Ctx) error {
	var videos []model.VideoRecord
	if err := c.Bind().Body(&videos); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY",
			"Request body must be a JSON array of video records")
	}
	if len(videos) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "EMPTY_BATCH",
			"Video batch must contain at least one record")
	}
	if len(videos) > maxVideoBatch {
		return middleware.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "BATCH_TOO_LARGE",
			"Video batch exceeds the maximum record count")
	}

	for _, v := range videos {
		if id, errMsg := middleware.ValidateVideoID(v.VideoID); errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
		} else if id != v.VideoID {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID",
				"videoId must not contain surrounding whitespace")
		}
	}

	inserted, err := h.videoRepo.UpsertVideos(c.Context(), videos)
	if err != nil {
		log.Error().Err(err).Msg("video ingest failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to store video records")
	}

	log.Info().Int("received", len(videos)).Int("inserted", inserted).Msg("video batch ingested")

	return c.JSON(model.IngestResponse{
		Imported: inserted,
		Skipped:  len(videos) - inserted,
	})
}

// GetByVideoID handles GET /api/videos?videoId=X
// Returns the cached record with its latest classification and AI verdict,
// when either exists.
func (h *VideoHandler) GetByVideoID(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(fiber.Query[string](c, "videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}

	video, err := h.videoRepo.FindByVideoID(c.Context(), videoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Video not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to lookup video")
	}

	resp := model.VideoDetailResponse{Video: *video}

	if result, err := h.resultRepo.FindResult(c.Context(), videoID); err == nil {
		resp.Classification = result
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Warn().Err(err).Str("video_id", videoID).Msg("classification lookup failed")
	}

	if verdict, err := h.resultRepo.FindVerdict(c.Context(), videoID); err == nil {
		resp.AIVerdict = verdict
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Warn().Err(err).Str("video_id", videoID).Msg("verdict lookup failed")
	}

	return c.JSON(resp)
}
