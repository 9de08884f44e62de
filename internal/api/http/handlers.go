package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/markscan/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/markscan/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/GriffinCanCode/markscan/internal/markup"
	"github.com/GriffinCanCode/markscan/internal/providers/scraper"
	"github.com/GriffinCanCode/markscan/internal/service"
	"github.com/GriffinCanCode/markscan/internal/storage"
	"github.com/GriffinCanCode/markscan/internal/types"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Options wires the handlers to their collaborators. Store, Metrics and
// Tracer are optional.
type Options struct {
	Registry *service.Registry
	Scraper  *scraper.Provider
	Store    *storage.ResultStore
	Metrics  *monitoring.Metrics
	Tracer   *tracing.Tracer
	Logger   *logging.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	scraper  *scraper.Provider
	store    *storage.ResultStore
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	logger   *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		registry: opts.Registry,
		scraper:  opts.Scraper,
		store:    opts.Store,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		logger:   logger.Named("api"),
	}
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "markscan",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":          "healthy",
		"max_input_bytes": h.scraper.Ops().MaxBytes(),
		"store":           gin.H{"enabled": h.store != nil},
	}
	if h.registry != nil {
		body["services"] = h.registry.Stats()
	}
	if h.store != nil {
		body["store"] = gin.H{"enabled": true, "dir": h.store.Dir()}
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// MetricsJSON returns the metrics snapshot
func (h *Handlers) MetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// ListTools lists registered services. "q" ranks them against a query and
// "category" filters by category.
func (h *Handlers) ListTools(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		c.JSON(http.StatusOK, gin.H{
			"query":    q,
			"services": h.registry.Discover(q, 5),
		})
		return
	}

	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteRequest is the body of POST /tools/execute
type ExecuteRequest struct {
	ToolID string         `json:"tool_id" binding:"required"`
	Params map[string]any `json:"params"`
}

// ExecuteTool runs a tool through the registry
func (h *Handlers) ExecuteTool(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidToolID) || errors.Is(err, service.ErrServiceNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// statusFor maps parsing and input errors to response codes.
func statusFor(err error) int {
	var failure *markup.ParseFailure
	switch {
	case errors.Is(err, errBodyTooLarge), errors.Is(err, scraper.ErrContentTooLarge), errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &failure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, scraper.ErrEmptyContent), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	ctx := c.Request.Context()
	fields := []zap.Field{
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.String("trace", tracing.FormatTrace(tracing.GetTraceID(ctx), tracing.GetSpanID(ctx))),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields...)
	} else {
		h.logger.Debug("Request rejected", fields...)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
