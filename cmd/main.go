package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/courtline/tennis-ladder/config"
	"github.com/courtline/tennis-ladder/db"
	"github.com/courtline/tennis-ladder/handlers"
	"github.com/courtline/tennis-ladder/live"
	"github.com/courtline/tennis-ladder/repositories"
	api "github.com/courtline/tennis-ladder/routes"
	"github.com/courtline/tennis-ladder/services"
	"github.com/courtline/tennis-ladder/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Standings exports are optional: without R2 credentials the endpoint
	// reports the feature as unavailable.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, standings exports disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	seasonRepo := repositories.NewPostgresSeasonRepository(dbConn)
	seasonPlayerRepo := repositories.NewPostgresSeasonPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	fixtureRepo := repositories.NewPostgresFixtureRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	conflictRepo := repositories.NewPostgresConflictRepository(dbConn)
	challengeRepo := repositories.NewPostgresChallengeRepository(dbConn)
	historyRepo := repositories.NewPostgresEloHistoryRepository(dbConn)
	logger.Info("repositories initialized")

	ratingService := services.NewRatingService(
		dbConn,
		seasonRepo,
		matchRepo,
		fixtureRepo,
		seasonPlayerRepo,
		playerRepo,
		resultRepo,
		historyRepo,
		hub,
		logger,
	)
	scoreService := services.NewScoreService(
		dbConn,
		seasonRepo,
		matchRepo,
		fixtureRepo,
		seasonPlayerRepo,
		resultRepo,
		conflictRepo,
		challengeRepo,
		ratingService,
		hub,
		logger,
	)
	scheduleService := services.NewScheduleService(dbConn, seasonRepo, matchRepo, fixtureRepo, hub, logger)
	seasonService := services.NewSeasonService(dbConn, seasonRepo, matchRepo, playerRepo, seasonPlayerRepo, historyRepo, logger)
	exportService := services.NewExportService(seasonService, uploader, logger)
	logger.Info("services initialized")

	seasonHandler := handlers.NewSeasonHandler(seasonService, exportService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, seasonService, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		seasonHandler,
		scheduleHandler,
		scoreHandler,
		ratingHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
