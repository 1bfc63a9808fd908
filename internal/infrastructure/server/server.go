package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/codejudge/internal/api/http"
	"github.com/GriffinCanCode/codejudge/internal/api/middleware"
	"github.com/GriffinCanCode/codejudge/internal/catalog"
	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/config"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/codejudge/internal/sandbox"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	engine  *evaluator.Engine
	catalog *catalog.Catalog
	pool    *sandbox.Pool
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing codejudge server",
		zap.String("port", cfg.Server.Port),
		zap.String("catalog_dir", cfg.Catalog.Dir),
		zap.Int("pool_size", cfg.Evaluation.PoolSize),
	)

	// Initialize metrics first (the engine reports to them)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("judge-server", logger.Named("trace").Logger)

	// A missing or broken catalog degrades to an empty one; /evaluate still works
	problems, err := catalog.Load(ctx, cfg.Catalog.Dir, cfg.Catalog.Pattern)
	if err != nil {
		logger.Warn("Failed to load problem catalog", zap.String("dir", cfg.Catalog.Dir), zap.Error(err))
		problems, _ = catalog.New()
	} else {
		logger.Info("Loaded problem catalog", zap.Int("problems", problems.Len()))
	}

	engineCfg := cfg.Evaluation.EngineConfig()
	opts := []evaluator.Option{
		evaluator.WithLogger(logger.Named("evaluator").Logger),
		evaluator.WithObserver(metrics),
	}

	var pool *sandbox.Pool
	if cfg.Evaluation.PoolSize > 0 {
		pool, err = sandbox.NewPool(engineCfg.Sandbox, cfg.Evaluation.PoolSize)
		if err != nil {
			tracer.Close()
			return nil, fmt.Errorf("failed to create sandbox pool: %w", err)
		}
		opts = append(opts, evaluator.WithPool(pool.WithAcquireTimeout(engineCfg.Deadline)))
		logger.Info("Sandbox pool ready", zap.Int("size", cfg.Evaluation.PoolSize))
	}
	engine := evaluator.New(engineCfg, opts...)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.BodyLimit(middleware.MaxBodySize))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limit.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limit))
	}

	// Register routes
	handlers := apihttp.NewHandlers(engine, problems,
		apihttp.WithPool(pool),
		apihttp.WithMetrics(metrics),
		apihttp.WithLogger(logger.Named("http").Logger),
	)
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine:  engine,
		catalog: problems,
		pool:    pool,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  tracer,
	}, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Engine returns the evaluation engine.
func (s *Server) Engine() *evaluator.Engine {
	return s.engine
}

// Run serves HTTP until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight evaluations.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Close releases the sandbox pool and flushes logs.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.pool != nil {
		if err := s.pool.Close(); err != nil {
			s.logger.Error("Failed to close sandbox pool", zap.Error(err))
			return fmt.Errorf("failed to close sandbox pool: %w", err)
		}
		s.logger.Info("Closed sandbox pool")
	}

	s.tracer.Close()

	// Sync logger before exit
	_ = s.logger.Sync()

	return nil
}
