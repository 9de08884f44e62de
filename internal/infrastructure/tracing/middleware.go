package tracing

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// HTTPMiddleware wraps each request in a span named after its method and
// route. Incoming X-Trace-ID and X-Span-ID join the caller's trace and the
// span's own IDs are echoed in the response headers.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		traceID, parentID := ExtractTraceContext(map[string]string{
			HeaderTraceID: req.Header.Get(HeaderTraceID),
			HeaderSpanID:  req.Header.Get(HeaderSpanID),
		})

		route := c.FullPath()
		if route == "" {
			route = req.URL.Path
		}
		span, ctx := tracer.StartSpan(WithTraceContext(req.Context(), traceID, parentID), req.Method+" "+route)
		span.SetTag("http.method", req.Method)
		span.SetTag("http.route", route)
		span.SetTag("http.client_ip", c.ClientIP())
		c.Request = req.WithContext(ctx)

		headers := make(map[string]string, 2)
		InjectTraceContext(ctx, headers)
		for k, v := range headers {
			c.Header(k, v)
		}

		c.Next()

		status := c.Writer.Status()
		span.SetStatus(status)
		span.SetTag("http.status", strconv.Itoa(status))
		if err := c.Errors.Last(); err != nil {
			span.SetError(err)
		}
		span.Finish()
		tracer.Submit(span)
	}
}
