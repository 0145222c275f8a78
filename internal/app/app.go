package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/matchpulse/matchpulse/external/apifootball"
	"github.com/matchpulse/matchpulse/external/footballdata"
	"github.com/matchpulse/matchpulse/internal/config"
	"github.com/matchpulse/matchpulse/internal/domain/football"
	"github.com/matchpulse/matchpulse/internal/interfaces/httpapi"
	"github.com/matchpulse/matchpulse/internal/platform/cache"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/usecase"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

// Run wires configuration, caches, provider clients and the HTTP server, then
// serves until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(slogger)

	storeOpts := []cache.Option{}
	if cfg.CacheMaxEntries > 0 {
		storeOpts = append(storeOpts, cache.WithMaxEntries(cfg.CacheMaxEntries))
	}
	store := cache.NewStore(cfg.CacheTTL, storeOpts...)
	liveStore := cache.NewStore(cfg.LiveCacheTTL, storeOpts...)

	standingsClient := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:           cfg.FootballDataBaseURL,
		APIKey:            cfg.FootballDataKey,
		Timeout:           cfg.FootballDataTimeout,
		MaxRetries:        cfg.FootballDataMaxRetries,
		RequestsPerMinute: cfg.FootballDataRateLimit,
		Logger:            logger.With("provider", "football-data"),
		CircuitBreaker:    cfg.FootballDataCircuit,
	})
	liveClient := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:           cfg.APIFootballBaseURL,
		APIKey:            cfg.APIFootballKey,
		Timeout:           cfg.APIFootballTimeout,
		MaxRetries:        cfg.APIFootballMaxRetries,
		RequestsPerMinute: cfg.APIFootballRateLimit,
		Logger:            logger.With("provider", "api-football"),
		CircuitBreaker:    cfg.APIFootballCircuit,
	})

	footballService := usecase.NewFootballService(
		standingsClient,
		liveClient,
		football.NewLeagueCodeMap(),
		store,
		liveStore,
		cfg.APIFootballSeason,
	)

	handler := httpapi.NewHandler(footballService, slogger)
	router := httpapi.NewRouter(handler, slogger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}

func slogLevel(level logging.Level) slog.Level {
	switch level {
	case zapcore.DebugLevel:
		return slog.LevelDebug
	case zapcore.WarnLevel:
		return slog.LevelWarn
	case zapcore.ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
