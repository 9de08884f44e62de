// Package middleware holds the gin middleware in front of the markscan API.
//
// RequestID assigns or propagates X-Request-ID and Logger writes one zap
// entry per request, leveled by status. CORS opens the API to browser
// callers. RateLimit keeps a token bucket (golang.org/x/time/rate) per
// client IP and forgets clients idle for ten minutes; GlobalRateLimit shares
// one bucket across all clients.
//
//	router.Use(middleware.RequestID(), middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
package middleware
