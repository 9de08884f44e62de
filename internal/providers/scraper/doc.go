// Package scraper exposes the markup parsers as tools.
//
// This package is organized into modules:
//   - extract: visible text, links, meta pairs and title (scraper.extract,
//     scraper.text, scraper.title, scraper.links, scraper.meta) plus HTML
//     sanitizing (scraper.clean)
//   - tokenize: flat token streams and declared encodings (scraper.tokenize,
//     scraper.encoding)
//   - query: CSS selector and XPath queries over a parsed DOM (scraper.select,
//     scraper.xpath)
//   - fetch: download and parse a remote page (scraper.fetch)
//
// Built on:
//   - internal/extractor and internal/markup: the scanning parsers
//   - goquery: CSS selectors
//   - htmlquery: XPath support for HTML
//   - bluemonday: HTML sanitization
//   - chardet and x/net/html/charset: charset detection and transcoding
//
// Example Usage:
//
//	p := scraper.NewProvider(scraper.Options{})
//	result, err := p.Execute(ctx, "scraper.links", map[string]any{"html": page})
package scraper
