package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

// Middleware records every request against its route template.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			max(c.Request.ContentLength, 0),
			int64(max(c.Writer.Size(), 0)),
		)
	}
}

// Timer measures one parse run.
type Timer struct {
	metrics *Metrics
	source  string
	start   time.Time
}

// NewTimer starts timing a parse of source.
func NewTimer(metrics *Metrics, source string) *Timer {
	return &Timer{metrics: metrics, source: source, start: time.Now()}
}

// Stop reports the outcome and returns the elapsed time.
func (t *Timer) Stop(err error, items int) time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.ObserveParse(t.source, err, elapsed, items)
	return elapsed
}
