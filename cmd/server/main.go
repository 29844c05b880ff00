package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/ashleyrevlett/youtube-guardian/internal/config"
	"github.com/ashleyrevlett/youtube-guardian/internal/db"
	"github.com/ashleyrevlett/youtube-guardian/internal/handler"
	"github.com/ashleyrevlett/youtube-guardian/internal/middleware"
	"github.com/ashleyrevlett/youtube-guardian/internal/platform/openai"
	"github.com/ashleyrevlett/youtube-guardian/internal/platform/youtube"
	"github.com/ashleyrevlett/youtube-guardian/internal/repository"
	"github.com/ashleyrevlett/youtube-guardian/internal/router"
	"github.com/ashleyrevlett/youtube-guardian/internal/rules"
	"github.com/ashleyrevlett/youtube-guardian/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "youtube-guardian")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	ruleSet, err := rules.Load(cfg.RuleSetPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.RuleSetPath).Msg("rule set load failed")
	}
	if ruleSet.Empty() {
		log.Info().Str("path", cfg.RuleSetPath).Msg("rule set empty or missing, blocklist checks disabled")
	} else {
		kw, ch, cat := ruleSet.Counts()
		log.Info().Int("keywords", kw).Int("channels", ch).Int("categories", cat).Msg("rule set loaded")
	}

	// Repositories
	videoRepo := repository.NewVideoRepo(pool)
	historyRepo := repository.NewHistoryRepo(pool)
	channelRepo := repository.NewChannelRepo(pool)
	resultRepo := repository.NewResultRepo(pool)

	// Services
	profileSvc := service.NewProfileService()
	classifier := service.NewClassifier(ruleSet)
	reportSvc := service.NewReportService(classifier)
	analysisSvc := service.NewAnalysisService(videoRepo, historyRepo, channelRepo, resultRepo, profileSvc, reportSvc, cache)
	channelSvc := service.NewChannelService(videoRepo, historyRepo, channelRepo, profileSvc, cache)

	// Transcript oracle is optional; without a key the endpoint reports 503.
	var analyzer service.TranscriptAnalyzer
	if cfg.OpenAIAPIKey != "" {
		analyzer = openai.New(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			MinInterval: cfg.FetchInterval,
		})
		log.Info().Str("model", cfg.OpenAIModel).Msg("transcript oracle enabled")
	} else {
		log.Info().Msg("transcript oracle disabled (no OPENAI_API_KEY)")
	}
	verdictSvc := service.NewVerdictService(analyzer, videoRepo, resultRepo, cfg.TranscriptMaxChars)

	// Channel enrichment is optional; without a key profiles stay unenriched.
	var worker *service.EnrichWorker
	if cfg.YouTubeAPIKey != "" {
		ytClient, err := youtube.New(ctx, cfg.YouTubeAPIKey, cfg.FetchInterval)
		if err != nil {
			log.Fatal().Err(err).Msg("youtube client init failed")
		}
		worker = service.NewEnrichWorker(videoRepo, channelRepo, ytClient, cache, cfg.EnrichInterval)
		go worker.Start(ctx)
	} else {
		log.Info().Msg("channel enrichment disabled (no YOUTUBE_API_KEY)")
	}

	app := fiber.New(fiber.Config{
		AppName:      "YouTube Guardian API",
		ServerHeader: "Guardian",
		BodyLimit:    50 * 1024 * 1024,
	})

	h := &router.Handlers{
		History: handler.NewHistoryHandler(historyRepo),
		Video:   handler.NewVideoHandler(videoRepo, resultRepo),
		Channel: handler.NewChannelHandler(channelSvc),
		Analyze: handler.NewAnalyzeHandler(analysisSvc, verdictSvc),
		Report:  handler.NewReportHandler(resultRepo, cache),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, h, cfg.CORSOrigins)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("guardian backend starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if worker != nil {
		worker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		os.Exit(1)
	}
}
