package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/ideahub/backend/internal/metrics"
	"github.com/anonto42/ideahub/backend/internal/router"
	"github.com/anonto42/ideahub/backend/pkg/config"
	"github.com/anonto42/ideahub/backend/pkg/firebase"
	"github.com/anonto42/ideahub/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.NewSugar(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("Invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, metricsHandler, err := metrics.Setup("ideahub-api")
	if err != nil {
		log.Fatalw("Failed to initialize metrics", "error", err)
	}
	metricsServer := router.MetricsServer(cfg.MetricsPort, metricsHandler)
	go func() {
		log.Infow("Metrics server listening", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("Metrics server failed", "error", err)
		}
	}()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		log.Fatalw("Failed to initialize databases", "error", err)
	}
	defer db.CloseDB()

	// Initialize Firebase
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, log)
	if err != nil {
		log.Fatalw("Failed to initialize Firebase", "error", err)
	}
	var authClient *auth.Client
	if firebaseApp != nil {
		authClient = firebaseApp.AuthClient
	}

	e := echo.New()
	e.HideBanner = true
	config.SetupMiddleware(e, log, m)

	relay, err := router.SetupRoutes(e, router.Deps{
		Config:       cfg,
		DB:           db,
		FirebaseAuth: authClient,
		Metrics:      m,
		Logger:       log,
	})
	if err != nil {
		log.Fatalw("Failed to set up routes", "error", err)
	}

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relay.Run(ctx)
	}()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Metrics server shutdown failed", "error", err)
	}
	<-relayDone
}
