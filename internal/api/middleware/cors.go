package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var traceHeaders = []string{"X-Trace-ID", "X-Span-ID"}

// DefaultCORSConfig lets browser tools on any origin post documents and read
// back the correlation headers. Credentials are never needed.
func DefaultCORSConfig() cors.Config {
	return cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: append([]string{
			"Origin",
			"Accept",
			"Accept-Encoding",
			"Content-Type",
			"Content-Length",
			"Content-Encoding",
			HeaderRequestID,
		}, traceHeaders...),
		ExposeHeaders: append([]string{HeaderRequestID, HeaderDeclaredEncoding}, traceHeaders...),
		MaxAge:        12 * time.Hour,
	}
}

// CORS wraps gin-contrib/cors.
func CORS(cfg cors.Config) gin.HandlerFunc {
	return cors.New(cfg)
}
