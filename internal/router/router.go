package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/ashleyrevlett/youtube-guardian/internal/handler"
	"github.com/ashleyrevlett/youtube-guardian/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	History *handler.HistoryHandler
	Video   *handler.VideoHandler
	Channel *handler.ChannelHandler
	Analyze *handler.AnalyzeHandler
	Report  *handler.ReportHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics (before API group, no rate limits)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// Rate limiters, one per route group
	ingestRL := middleware.NewIngestRateLimiter()
	lookupRL := middleware.NewLookupRateLimiter()
	analyzeRL := middleware.NewAnalyzeRateLimiter()
	transcriptRL := middleware.NewTranscriptRateLimiter()
	reportRL := middleware.NewReportRateLimiter()

	// API routes
	api := app.Group("/api")

	// Ingest routes
	api.Post("/history", h.History.Ingest, ingestRL.Handler())
	api.Post("/videos", h.Video.Ingest, ingestRL.Handler())

	// Analysis routes
	api.Post("/analyze", h.Analyze.Run, analyzeRL.Handler())
	api.Post("/videos/:videoId/analyze", h.Analyze.AnalyzeTranscript, transcriptRL.Handler())

	// Lookup routes
	api.Get("/videos", h.Video.GetByVideoID, lookupRL.Handler())
	api.Get("/channels/:channelId", h.Channel.GetByChannelID, lookupRL.Handler())

	// Report routes
	api.Get("/report", h.Report.Get, reportRL.Handler())
	api.Get("/report/export", h.Report.Export, reportRL.Handler())
}
