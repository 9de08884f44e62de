/*
Package monitoring provides Prometheus metrics for the markscan service.

# Overview

Metrics are registered on a private registry rather than the global default,
so tests and embedded users can create as many collectors as they need.

# Features

- HTTP request metrics (latency, throughput, size)
- Parse metrics per source ("html" or "markup"): runs, failures, duration, items
- Result store write counter
- Go runtime, process and uptime gauges
- A JSON snapshot for the health endpoint

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Metrics satisfies scraper.ParseObserver
	provider := scraper.NewProvider(scraper.Options{Observer: metrics})

	timer := monitoring.NewTimer(metrics, "markup")
	doc, err := markup.Tokenize(input)
	timer.Stop(err, doc.Len())
*/
package monitoring
