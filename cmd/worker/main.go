package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	appServices "github.com/jkarani/campusgate/internal/app/services"
	"github.com/jkarani/campusgate/internal/bootstrap"
	"github.com/jkarani/campusgate/internal/pkg/faceclient"
	"github.com/jkarani/campusgate/internal/pkg/helpers"
	"github.com/jkarani/campusgate/internal/pkg/logger"
)

// The worker consumes queued review jobs, compares evidence photos against
// enrolled reference photos and attaches cheating flags on mismatches.
func main() {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		lgr.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to setup database")
		os.Exit(1)
	}
	defer dbPool.Close()

	reviewQueue := bootstrap.SetupReviewQueue(cfg, lgr)

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, reviewQueue, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to setup dependencies")
		os.Exit(1)
	}

	face := faceclient.New(
		cfg.FaceService.URL,
		helpers.ParseDuration(cfg.FaceService.Timeout, 30*time.Second),
		cfg.FaceService.Skip,
	)

	// Check face service health on startup; jobs retry as they arrive
	if !cfg.FaceService.Skip {
		if err := face.Health(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Face service not available, reviews will fail until it recovers")
		} else {
			lgr.Info().Msg("Face service connected")
		}
	}

	review := appServices.NewReviewService(
		deps.Repos.AttendanceRepository,
		deps.Repos.UserRepository,
		face,
		deps.FileStorage,
		cfg.FaceService.Threshold,
	)

	lgr.Info().Msg("Review worker started, waiting for messages...")
	if err := review.Run(ctx, reviewQueue); err != nil && err != context.Canceled {
		lgr.Error().Err(err).Msg("Review worker stopped with error")
		os.Exit(1)
	}

	lgr.Info().Msg("Review worker stopped.")
}
