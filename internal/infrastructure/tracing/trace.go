package tracing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/GriffinCanCode/markscan/internal/shared/id"
	"go.uber.org/zap"
)

// Header names used for trace propagation
const (
	HeaderTraceID = "X-Trace-ID"
	HeaderSpanID  = "X-Span-ID"
)

const spanBuffer = 1000

// Span represents a single operation in a trace
type Span struct {
	TraceID    id.TraceID
	SpanID     id.SpanID
	ParentID   id.SpanID
	Name       string
	Service    string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Tags       map[string]string
	Logs       []LogEntry
	Error      error
	StatusCode int
}

// LogEntry represents a log within a span
type LogEntry struct {
	Timestamp time.Time
	Message   string
	Fields    map[string]any
}

// Tracer collects finished spans and writes them to the log
type Tracer struct {
	service string
	logger  *logging.Logger
	spans   chan *Span

	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// New creates a tracer and starts its collector
func New(service string, logger *logging.Logger) *Tracer {
	if logger == nil {
		logger = logging.NewNop()
	}
	t := &Tracer{
		service: service,
		logger:  logger.Named("tracing"),
		spans:   make(chan *Span, spanBuffer),
		done:    make(chan struct{}),
	}

	go t.collectSpans()

	return t
}

// StartSpan creates a span that continues the trace carried by ctx, or
// starts a new trace when there is none.
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		traceID = id.NewTraceID()
	}

	span := &Span{
		TraceID:   traceID,
		SpanID:    id.NewSpanID(),
		ParentID:  GetSpanID(ctx),
		Name:      name,
		Service:   t.service,
		StartTime: time.Now(),
		Tags:      make(map[string]string),
	}

	newCtx := context.WithValue(ctx, traceIDKey, traceID)
	newCtx = context.WithValue(newCtx, spanIDKey, span.SpanID)

	return span, newCtx
}

// Trace runs fn inside a span named name and submits it afterwards
func (t *Tracer) Trace(ctx context.Context, name string, fn func(ctx context.Context, span *Span) error) error {
	span, ctx := t.StartSpan(ctx, name)
	err := fn(ctx, span)
	if err != nil {
		span.SetError(err)
	}
	span.Finish()
	t.Submit(span)
	return err
}

// Finish marks the span as complete
func (s *Span) Finish() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// SetTag adds a tag to the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// SetError records an error in the span
func (s *Span) SetError(err error) {
	s.Error = err
	if s.StatusCode == 0 {
		s.StatusCode = 500
	}
}

// SetStatus sets the HTTP status code
func (s *Span) SetStatus(code int) {
	s.StatusCode = code
}

// Log adds a log entry to the span
func (s *Span) Log(message string, fields map[string]any) {
	s.Logs = append(s.Logs, LogEntry{
		Timestamp: time.Now(),
		Message:   message,
		Fields:    fields,
	})
}

func (t *Tracer) collectSpans() {
	defer close(t.done)
	for span := range t.spans {
		t.processSpan(span)
	}
}

func (t *Tracer) processSpan(span *Span) {
	fields := []zap.Field{
		zap.String("trace_id", span.TraceID.String()),
		zap.String("span_id", span.SpanID.String()),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
		zap.String("service", span.Service),
	}

	if span.ParentID != "" {
		fields = append(fields, zap.String("parent_id", span.ParentID.String()))
	}
	if span.StatusCode != 0 {
		fields = append(fields, zap.Int("status", span.StatusCode))
	}
	if len(span.Tags) > 0 {
		fields = append(fields, zap.Any("tags", span.Tags))
	}
	if len(span.Logs) > 0 {
		fields = append(fields, zap.Int("logs", len(span.Logs)), zap.Any("events", span.Logs))
	}

	if span.Error != nil {
		fields = append(fields, zap.Error(span.Error))
		t.logger.Error("span completed with error", fields...)
	} else {
		t.logger.Debug("span completed", fields...)
	}
}

// Submit sends a span to the collector. Spans submitted after Close, or
// while the buffer is full, are dropped.
func (t *Tracer) Submit(span *Span) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span",
			zap.String("trace_id", span.TraceID.String()),
			zap.String("span_id", span.SpanID.String()),
		)
	}
}

// Close stops accepting spans and waits until buffered ones are logged
func (t *Tracer) Close() {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		close(t.spans)
		t.mu.Unlock()
	})
	<-t.done
}

// ExtractTraceContext reads trace context from headers
func ExtractTraceContext(headers map[string]string) (id.TraceID, id.SpanID) {
	return id.TraceID(headers[HeaderTraceID]), id.SpanID(headers[HeaderSpanID])
}

// InjectTraceContext writes the trace context carried by ctx into headers
func InjectTraceContext(ctx context.Context, headers map[string]string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		headers[HeaderTraceID] = traceID.String()
	}
	if spanID := GetSpanID(ctx); spanID != "" {
		headers[HeaderSpanID] = spanID.String()
	}
}

// WithTraceContext returns ctx carrying the given trace and parent span
func WithTraceContext(ctx context.Context, traceID id.TraceID, spanID id.SpanID) context.Context {
	if traceID != "" {
		ctx = context.WithValue(ctx, traceIDKey, traceID)
	}
	if spanID != "" {
		ctx = context.WithValue(ctx, spanIDKey, spanID)
	}
	return ctx
}

type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	spanIDKey  contextKey = "span_id"
)

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) id.TraceID {
	if traceID, ok := ctx.Value(traceIDKey).(id.TraceID); ok {
		return traceID
	}
	return ""
}

// GetSpanID retrieves the span ID from context
func GetSpanID(ctx context.Context) id.SpanID {
	if spanID, ok := ctx.Value(spanIDKey).(id.SpanID); ok {
		return spanID
	}
	return ""
}

// FormatTrace returns a formatted trace string for logging
func FormatTrace(traceID id.TraceID, spanID id.SpanID) string {
	return fmt.Sprintf("[trace:%s span:%s]", traceID, spanID)
}
