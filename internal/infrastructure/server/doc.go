// Package server assembles the markscan HTTP server: logging, metrics,
// tracing, the scraper provider and its registry, the optional result store
// and the gin middleware stack.
//
// Middleware order: recovery, request ID, request log, tracing, metrics,
// CORS, then per-IP rate limiting when enabled.
package server
