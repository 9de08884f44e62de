// Package main is the entry point for the markscan HTTP server.
//
// The server exposes the HTML extractor and the generic markup tokenizer
// over REST, together with the scraper tool registry, Prometheus metrics and
// an optional on-disk result store.
//
// Configuration:
//   - Environment variables (see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./server -port 8000 -host 0.0.0.0
//
//	# Development mode (console logs, debug gin)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
