// Package server wires configuration, sources, the aggregator and the
// HTTP surface into a runnable service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"esports-matches-service/internal/aggregator"
	"esports-matches-service/internal/app/matches"
	"esports-matches-service/internal/breaker"
	"esports-matches-service/internal/cache"
	"esports-matches-service/internal/config"
	httpserver "esports-matches-service/internal/http"
	"esports-matches-service/internal/http/handlers"
	"esports-matches-service/internal/http/middleware"
	"esports-matches-service/internal/logging"
	"esports-matches-service/internal/metrics"
	"esports-matches-service/internal/poller"
	"esports-matches-service/internal/ratelimit"
	"esports-matches-service/internal/snapshots"
	"esports-matches-service/internal/sources"
	"esports-matches-service/internal/store"
)

var metricsSetup = metrics.Setup

// Server owns every long-lived component of the service.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	aggregator    *aggregator.Aggregator
	store         store.Store
	matchesSvc    *matches.Service
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
}

// New constructs a server with default source and poller wiring.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithSources(cfg, logger, buildSources(cfg, logger), nil)
}

func newServerWithSources(cfg config.Config, logger *slog.Logger, srcs []sources.Source, recorder *metrics.Recorder) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	registry, err := sources.NewRegistry(srcs...)
	if err != nil {
		return nil, fmt.Errorf("server: build source registry: %w", err)
	}

	agg := buildAggregator(cfg, registry, srcs, logger, recorder)

	st, err := store.Open(store.Config{
		Backend: cfg.Store.Backend,
		Path:    cfg.Store.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("server: open store: %w", err)
	}
	matchesSvc := matches.NewService(st)

	var writer *snapshots.Writer
	var snapStore snapshots.Store
	if cfg.Snapshots.Enabled {
		writer = snapshots.NewWriter(cfg.Snapshots.Dir)
		snapStore = snapshots.NewFSStore(cfg.Snapshots.Dir)
	}

	plr := poller.New(agg, st, snapshotWriter(writer), cfg.Games, logger, recorder, cfg.PollInterval)
	httpSrv := buildHTTPServer(cfg, agg, matchesSvc, snapStore, logger, recorder, plr)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		aggregator:    agg,
		store:         st,
		matchesSvc:    matchesSvc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildAggregator(cfg config.Config, registry *sources.Registry, srcs []sources.Source, logger *slog.Logger, recorder *metrics.Recorder) *aggregator.Aggregator {
	breakers := breaker.NewRegistry(breaker.Config{
		Failures: uint32(cfg.Breaker.Failures),
		Cooldown: cfg.Breaker.Cooldown,
	}, registry.Names(), logger)

	intervals := make([]ratelimit.Interval, 0, len(srcs))
	for _, src := range srcs {
		intervals = append(intervals, ratelimit.Interval{
			Source:      src.Name,
			MinInterval: src.MinInterval,
		})
	}
	limits := ratelimit.NewRegistry(intervals)

	feedCache := cache.New(cache.TTLBands{
		Live:     cfg.Cache.TTLLive,
		Upcoming: cfg.Cache.TTLUpcoming,
		Finished: cfg.Cache.TTLFinished,
	})

	return aggregator.New(registry, breakers, limits, feedCache, logger, recorder, aggregator.Config{
		SourceTimeout: cfg.SourceTimeout,
		MergeWindow:   cfg.MergeWindow,
	})
}

// snapshotWriter keeps a nil *snapshots.Writer from becoming a non-nil
// interface inside the poller.
func snapshotWriter(w *snapshots.Writer) poller.SnapshotWriter {
	if w == nil {
		return nil
	}
	return w
}

func buildHTTPServer(cfg config.Config, agg *aggregator.Aggregator, matchesSvc *matches.Service, snapStore snapshots.Store, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	handler := handlers.NewHandler(agg, matchesSvc, snapStore, logger, statusFn)
	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" {
		admin = handlers.NewAdminHandler(agg, cfg.AdminToken, logger)
	}
	router := httpserver.NewRouter(handler, admin)

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.Logging(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop poller", "error", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil && s.logger != nil {
			s.logger.Warn("store close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
