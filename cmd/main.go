package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/nutriplan/internal/adapters/http/api"
	"github.com/okian/nutriplan/internal/adapters/http/swagger"
	"github.com/okian/nutriplan/internal/adapters/recommender"
	app "github.com/okian/nutriplan/internal/app"
	"github.com/okian/nutriplan/internal/config"
	"github.com/okian/nutriplan/pkg/logger"
	"github.com/okian/nutriplan/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
	// Plans wait on one upstream call per meal slot, at most maxMealSlots.
	writeTimeoutSlack = 10 * time.Second
	maxMealSlots      = 5
)

func main() {
	// Optional .env file; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		return
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.InitWithFormat(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("recommender_url", cfg.RecommenderURL),
			logger.String("mode", cfg.RecommendationMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService builds the planner and its recommendation client from cfg.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	client := recommender.New(cfg.RecommenderURL,
		recommender.WithAPIKey(cfg.RecommenderAPIKey),
		recommender.WithTimeout(time.Duration(cfg.RecommenderTimeoutMS)*time.Millisecond),
		recommender.WithLogger(log.Named("recommender")),
	)
	return app.New(
		app.WithLogger(log.Named("planner")),
		app.WithRecommender(client),
		app.WithMode(cfg.RecommendationMode),
		app.WithConcurrency(cfg.RecommendationConcurrency),
		app.WithSeed(cfg.NutritionSeed),
	)
}

// newHandler registers every route and wraps the mux with CORS.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return api.WithCORS(mux, cfg.CORSAllowedOrigins)
}

// writeTimeout leaves room for a full sequential plan when the recommender
// has a timeout; with no upstream timeout the server does not cut writes.
func writeTimeout(cfg *config.Config) time.Duration {
	if cfg.RecommenderTimeoutMS == 0 {
		return 0
	}
	perSlot := time.Duration(cfg.RecommenderTimeoutMS) * time.Millisecond
	return perSlot*maxMealSlots + writeTimeoutSlack
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
