package scraper

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/markscan/internal/fetch"
	"github.com/GriffinCanCode/markscan/internal/report"
	"github.com/GriffinCanCode/markscan/internal/types"
	"go.uber.org/zap"
)

// Fetcher downloads a remote document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Document, error)
}

// FetchOps downloads a page and runs one of the parsers over it.
type FetchOps struct {
	*ScraperOps
	fetcher  Fetcher
	extract  *ExtractOps
	tokenize *MarkupOps
}

// GetTools returns fetch tool definitions
func (f *FetchOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "scraper.fetch",
			Name:        "Fetch and Parse",
			Description: "Download an http(s) URL, decode its charset and extract or tokenize it",
			Parameters: []types.Parameter{
				{Name: "url", Type: "string", Description: "Absolute http(s) URL", Required: true},
				{Name: "mode", Type: "string", Description: "html or markup (default: html)", Required: false},
			},
			Returns: "object",
		},
	}
}

// FetchAndParse downloads params["url"] and parses it.
func (f *FetchOps) FetchAndParse(ctx context.Context, params map[string]any) (*types.Result, error) {
	if f.fetcher == nil {
		return Failure("fetching is not configured")
	}
	url, ok := GetString(params, "url")
	if !ok || url == "" {
		return Failure("url parameter required")
	}
	mode, _ := GetString(params, "mode")
	if mode == "" {
		mode = "html"
	}
	if mode != "html" && mode != "markup" {
		return Failure(fmt.Sprintf("unknown mode %q: expected html or markup", mode))
	}

	doc, err := f.fetcher.Fetch(ctx, url)
	if err != nil {
		f.logger.Warn("Fetch failed", zap.String("url", url), zap.Error(err))
		return Failure(err.Error())
	}

	text, used, err := DecodeBytes(doc.Body, doc.Charset)
	if err != nil {
		return Failure(err.Error())
	}
	if err := f.ValidateContent(text); err != nil {
		return Failure(err.Error())
	}

	data := map[string]any{
		"url":     doc.URL,
		"status":  doc.StatusCode,
		"charset": used,
		"mode":    mode,
	}

	if mode == "markup" {
		parsed, err := f.tokenize.Tokenize(text)
		if err != nil {
			return Failure(err.Error())
		}
		data["markup"] = report.FromDocument(parsed)
		return Success(data)
	}

	res, err := f.extract.Extract(text)
	if err != nil {
		return Failure(err.Error())
	}
	data["html"] = res
	return Success(data)
}
