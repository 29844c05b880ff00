package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ashleyrevlett/youtube-guardian/internal/middleware"
	"github.com/ashleyrevlett/youtube-guardian/internal/repository"
	"github.com/ashleyrevlett/youtube-guardian/internal/service"
)

type ReportHandler struct {
	resultRepo *repository.ResultRepo
	cache      *service.CacheService
}

func NewReportHandler(resultRepo *repository.ResultRepo, cache *service.CacheService) *ReportHandler {
	return &ReportHandler{resultRepo: resultRepo, cache: cache}
}

// Get handles GET /api/report
// Serves the latest analysis run's report, cache-aside via Redis.
func (h *ReportHandler) Get(c fiber.Ctx) error {
	if cached, err := h.cache.GetReport(c.Context()); err != nil {
		log.Warn().Err(err).Msg("cache: report get failed")
	} else if cached != nil {
		Metrics.CacheHits.Inc()
		c.Set("Content-Type", "application/json")
		return c.Send(cached)
	}
	Metrics.CacheMisses.Inc()

	report, err := h.resultRepo.LatestReport(c.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NO_RUN",
				"No analysis run yet")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to load report")
	}

	if err := h.cache.SetReport(c.Context(), report); err != nil {
		log.Warn().Err(err).Msg("cache: report set failed")
	}

	return c.JSON(report)
}

// Export handles GET /api/report/export
// Serves the latest run's flat export payload as a JSON download.
func (h *ReportHandler) Export(c fiber.Ctx) error {
	export, err := h.resultRepo.LatestExport(c.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NO_RUN",
				"No analysis run yet")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to load export")
	}

	c.Set("Content-Disposition", "attachment; filename=guardian-report.json")
	return c.JSON(export)
}
