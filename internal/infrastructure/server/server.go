package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/markscan/internal/api/http"
	"github.com/GriffinCanCode/markscan/internal/api/middleware"
	"github.com/GriffinCanCode/markscan/internal/fetch"
	"github.com/GriffinCanCode/markscan/internal/infrastructure/config"
	"github.com/GriffinCanCode/markscan/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/markscan/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/GriffinCanCode/markscan/internal/providers/scraper"
	"github.com/GriffinCanCode/markscan/internal/service"
	"github.com/GriffinCanCode/markscan/internal/storage"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, logger)
}

// New assembles the server around an existing logger.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Initializing markscan server",
		zap.String("addr", cfg.Address()),
		zap.Int64("max_input_bytes", cfg.Limits.MaxInputBytes),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("markscan", logger)

	fetchCfg := fetch.DefaultConfig()
	fetchCfg.Timeout = cfg.Fetch.Timeout
	fetchCfg.Retries = cfg.Fetch.Retries
	fetchCfg.UserAgent = cfg.Fetch.UserAgent
	fetchCfg.MaxBytes = cfg.Limits.MaxInputBytes
	fetcher := fetch.NewClient(fetchCfg, logger)

	provider := scraper.NewProvider(scraper.Options{
		MaxInputBytes: cfg.Limits.MaxInputBytes,
		Fetcher:       fetcher,
		Observer:      metrics,
		Logger:        logger,
	})

	registry := service.NewRegistry()
	if err := registry.Register(provider); err != nil {
		tracer.Close()
		return nil, fmt.Errorf("register scraper provider: %w", err)
	}

	store, err := openStore(cfg.Store, logger)
	if err != nil {
		tracer.Close()
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.String("scope", cfg.RateLimit.Scope),
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(rateLimiter(cfg.RateLimit))
	}

	handlers := apihttp.NewHandlers(apihttp.Options{
		Registry: registry,
		Scraper:  provider,
		Store:    store,
		Metrics:  metrics,
		Tracer:   tracer,
		Logger:   logger,
	})
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	stats := registry.Stats()
	logger.Info("Server initialized successfully",
		zap.Any("services", stats["total_services"]),
		zap.Any("tools", stats["total_tools"]),
		zap.Bool("store", store != nil),
	)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Address(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  tracer,
	}, nil
}

func openStore(cfg config.StoreConfig, logger *logging.Logger) (*storage.ResultStore, error) {
	if cfg.Dir == "" {
		return nil, nil
	}
	codec, err := storage.ParseCodec(cfg.Format)
	if err != nil {
		return nil, err
	}
	compression, err := storage.ParseFormat(cfg.Compression)
	if err != nil {
		return nil, err
	}
	store, err := storage.NewResultStore(cfg.Dir, codec, compression, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Result store enabled",
		zap.String("dir", cfg.Dir),
		zap.String("format", codec.Name),
		zap.String("compression", string(compression)),
	)
	return store, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's metrics collector.
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run serves until the listener fails or Shutdown is called. A clean
// shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections, waits for in-flight requests until
// ctx expires and flushes spans and logs.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	s.tracer.Close()
	s.logger.Sync()
	return err
}

func rateLimiter(cfg config.RateLimitConfig) gin.HandlerFunc {
	limits := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}
	if cfg.Scope == config.ScopeGlobal {
		return middleware.GlobalRateLimit(limits)
	}
	return middleware.RateLimit(limits)
}
