// Package config provides 12-factor configuration for the markscan service.
//
// Configuration is loaded from environment variables with defaults.
// CLI flags can override environment variables.
//
// Configuration Sections:
//   - Server: HTTP listener (port, host)
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting
//   - Limits: maximum document size accepted for parsing
//   - Fetch: timeout, retries and user agent of the remote fetcher
//   - Store: directory, format and compression of persisted results
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("listening on %s\n", cfg.Address())
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - MAX_INPUT_BYTES
//   - FETCH_TIMEOUT, FETCH_RETRIES, FETCH_USER_AGENT
//   - STORE_DIR, STORE_FORMAT, STORE_COMPRESSION
package config
