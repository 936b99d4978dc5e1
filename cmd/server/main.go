package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"reelscope/internal/analysis"
	"reelscope/internal/analyzer"
	"reelscope/internal/asr"
	"reelscope/internal/config"
	"reelscope/internal/handlers"
	"reelscope/internal/logging"
	"reelscope/internal/media"
	"reelscope/internal/storage"
	"reelscope/internal/translate"
	"reelscope/internal/version"
	"reelscope/internal/webfetch"
	"reelscope/internal/worker"
	"reelscope/internal/youtube"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)
	logger.Info("starting reelscope", "version", version.Version, "port", cfg.Port)

	db, err := storage.Open(cfg.DBPath())
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath(), "error", err)
		os.Exit(1)
	}
	defer db.Close()

	analyses := storage.NewAnalysisRepository(db)
	chats := storage.NewChatRepository(db)

	ctx := context.Background()

	ai, err := analyzer.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logging.WithComponent(logger, "analyzer"))
	if err != nil {
		logger.Error("failed to initialize AI analyzer", "error", err)
		os.Exit(1)
	}

	// The headless browser is optional; without it the embed-page
	// download strategy degrades to a descriptive failure.
	var pages media.PageFetcher
	if fetcher, err := webfetch.NewClient(nil); err != nil {
		logger.Warn("headless browser unavailable, embed-page strategy disabled", "error", err)
	} else {
		pages = fetcher
		defer fetcher.Close()
	}

	downloader := media.NewDownloader(youtube.NewClient(), pages, cfg.InstagramCookieFile,
		logging.WithComponent(logger, "downloader"))
	extractor := media.NewExtractor(logging.WithComponent(logger, "extractor"))
	transcriber := asr.NewTranscriber(cfg.ASRModelDir, logging.WithComponent(logger, "transcriber"))
	defer transcriber.Close()

	translator := translate.NewTranslator(logging.WithComponent(logger, "translator"))

	pipeline := analysis.NewService(analyses, chats, downloader, extractor, transcriber, ai,
		cfg.InstagramCookieFile, logging.WithComponent(logger, "pipeline"))

	sweeper := worker.NewSweeper(analyses, cfg.SweepInterval, cfg.SweepMaxAge,
		logging.WithComponent(logger, "sweeper"))
	sweeper.Start(ctx)
	defer sweeper.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	analysisHandler := handlers.NewAnalysisHandler(pipeline, analyses, translator)
	chatHandler := handlers.NewChatHandler(ai, analyses, chats)

	e.GET("/health", handlers.Health)
	api := e.Group("/api/v1")
	api.POST("/analyze", analysisHandler.Create)
	api.GET("/analyze", analysisHandler.List)
	api.GET("/analyze/:id", analysisHandler.Get)
	api.POST("/analyze/:id/translate", analysisHandler.Translate)
	api.GET("/analyze/:id/chat", chatHandler.History)
	api.GET("/languages", analysisHandler.Languages)
	api.POST("/chat", chatHandler.Chat)

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Info("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
