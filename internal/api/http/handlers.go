package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/codejudge/internal/catalog"
	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/codejudge/internal/sandbox"
)

// Version is reported by the root endpoint.
const Version = "0.1.0"

// Evaluator runs a submission against test cases.
type Evaluator interface {
	Evaluate(ctx context.Context, source string, tests []evaluator.TestCase, functionName string) *evaluator.Report
}

// Handlers contains all HTTP handlers
type Handlers struct {
	engine  Evaluator
	catalog *catalog.Catalog
	pool    *sandbox.Pool
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// Option configures optional handler dependencies.
type Option func(*Handlers)

// WithPool reports sandbox pool stats on /health.
func WithPool(pool *sandbox.Pool) Option {
	return func(h *Handlers) { h.pool = pool }
}

// WithMetrics reports running totals on /health.
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(h *Handlers) { h.metrics = metrics }
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handlers) { h.logger = logger }
}

// NewHandlers creates a new handler set. A nil catalog serves no problems.
func NewHandlers(engine Evaluator, problems *catalog.Catalog, opts ...Option) *Handlers {
	if problems == nil {
		problems, _ = catalog.New()
	}
	h := &Handlers{
		engine:  engine,
		catalog: problems,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the API routes.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.POST("/evaluate", h.Evaluate)

	r.GET("/problems", h.ListProblems)
	r.GET("/problems/:id", h.GetProblem)
	r.POST("/problems/:id/evaluate", h.EvaluateProblem)
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "codejudge",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":   "healthy",
		"problems": h.catalog.Len(),
	}
	if h.pool != nil {
		body["sandbox_pool"] = h.pool.Stats()
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}
