package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ashleyrevlett/youtube-guardian/internal/middleware"
	"github.com/ashleyrevlett/youtube-guardian/internal/model"
	"github.com/ashleyrevlett/youtube-guardian/internal/service"
)

type AnalyzeHandler struct {
	analysisSvc *service.AnalysisService
	verdictSvc  *service.VerdictService
}

func NewAnalyzeHandler(analysisSvc *service.AnalysisService, verdictSvc *service.VerdictService) *AnalyzeHandler {
	return &AnalyzeHandler{analysisSvc: analysisSvc, verdictSvc: verdictSvc}
}

// Run handles POST /api/analyze
// Runs the full classification pipeline over the stored corpus and returns
// the fresh report. Each run replaces the previous run's results.
func (h *AnalyzeHandler) Run(c fiber.Ctx) error {
	start := time.Now()
	report, err := h.analysisSvc.Run(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("analysis run failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR",
			"Analysis run failed")
	}

	Metrics.AnalysisRunsTotal.Inc()
	Metrics.AnalysisRunDuration.Observe(time.Since(start).Seconds())
	Metrics.VideosClassified.WithLabelValues("high").Add(float64(report.Summary.High))
	Metrics.VideosClassified.WithLabelValues("medium").Add(float64(report.Summary.Medium))
	Metrics.VideosClassified.WithLabelValues("low").Add(float64(report.Summary.Low))

	return c.JSON(report)
}

// AnalyzeTranscript handles POST /api/videos/:videoId/analyze
// Sends the posted transcript to the AI oracle and stores the verdict
// alongside (never merged into) the rule-based classification.
func (h *AnalyzeHandler) AnalyzeTranscript(c fiber.Ctx) error {
	if !h.verdictSvc.Enabled() {
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "AI_DISABLED",
			"Transcript analysis is not configured")
	}

	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}

	var req model.TranscriptRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY",
			"Request body must be JSON with a transcript field")
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "EMPTY_TRANSCRIPT",
			"transcript must not be empty")
	}

	verdict, err := h.verdictSvc.Analyze(c.Context(), videoID, req.Transcript)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Video not found")
		}
		Metrics.OracleCallsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("video_id", videoID).Msg("transcript analysis failed")
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "ORACLE_ERROR",
			"Transcript analysis failed")
	}

	Metrics.OracleCallsTotal.WithLabelValues("ok").Inc()
	return c.JSON(verdict)
}
