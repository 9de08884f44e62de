package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/GriffinCanCode/markscan/internal/extractor"
	"github.com/GriffinCanCode/markscan/internal/types"
	"go.uber.org/zap"
)

// ExtractOps runs the HTML extractor.
type ExtractOps struct {
	*ScraperOps
}

// GetTools returns extraction tool definitions
func (e *ExtractOps) GetTools() []types.Tool {
	htmlParam := types.Parameter{Name: "html", Type: "string", Description: "HTML content", Required: true}
	return []types.Tool{
		{
			ID:          "scraper.extract",
			Name:        "Extract Page",
			Description: "Extract visible text, links, meta pairs and title in one pass",
			Parameters: []types.Parameter{
				htmlParam,
				{Name: "sanitize", Type: "boolean", Description: "Sanitize HTML before extraction (default: false)", Required: false},
				{Name: "unique", Type: "boolean", Description: "Deduplicate links (default: false)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "scraper.text",
			Name:        "Extract Text",
			Description: "Visible text with script and style bodies removed",
			Parameters: []types.Parameter{
				htmlParam,
				{Name: "normalize", Type: "boolean", Description: "Collapse whitespace (default: true)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "scraper.title",
			Name:        "Extract Title",
			Description: "Text of the first title element",
			Parameters:  []types.Parameter{htmlParam},
			Returns:     "object",
		},
		{
			ID:          "scraper.links",
			Name:        "Extract Links",
			Description: "Raw href of anchors and src of frames, in document order",
			Parameters: []types.Parameter{
				htmlParam,
				{Name: "unique", Type: "boolean", Description: "Deduplicate links (default: false)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "scraper.meta",
			Name:        "Extract Meta",
			Description: "name/value pairs of meta elements, last one wins",
			Parameters:  []types.Parameter{htmlParam},
			Returns:     "object",
		},
		{
			ID:          "scraper.clean",
			Name:        "Clean HTML",
			Description: "Sanitize HTML with a user-generated-content policy",
			Parameters:  []types.Parameter{htmlParam},
			Returns:     "object",
		},
	}
}

// Extract parses content and reports the run to the observer. Callers get
// the extractor's ParseFailure unchanged.
func (e *ExtractOps) Extract(content string) (*extractor.Result, error) {
	start := time.Now()
	res, err := extractor.Extract(content)

	items := 0
	if res != nil {
		items = len(res.Links)
	}
	e.observer.ObserveParse("html", err, time.Since(start), items)
	if err != nil {
		e.logger.Debug("HTML extraction failed", zap.Int("bytes", len(content)), zap.Error(err))
	}
	return res, err
}

func (e *ExtractOps) run(params map[string]any) (*extractor.Result, error) {
	content, err := e.requireContent(params, "html")
	if err != nil {
		return nil, err
	}
	return e.Extract(content)
}

// ExtractAll returns every part of the extraction result.
func (e *ExtractOps) ExtractAll(ctx context.Context, params map[string]any) (*types.Result, error) {
	content, err := e.requireContent(params, "html")
	if err != nil {
		return Failure(err.Error())
	}
	if GetBool(params, "sanitize", false) {
		content = e.Sanitize(content)
	}

	res, err := e.Extract(content)
	if err != nil {
		return Failure(err.Error())
	}
	links := res.Links
	if GetBool(params, "unique", false) {
		links = Deduplicate(links)
	}

	data := map[string]any{
		"text":  res.Text,
		"links": links,
		"meta":  res.Meta,
	}
	if res.Title != nil {
		data["title"] = *res.Title
	}
	return Success(data)
}

// ExtractText returns the visible text.
func (e *ExtractOps) ExtractText(ctx context.Context, params map[string]any) (*types.Result, error) {
	res, err := e.run(params)
	if err != nil {
		return Failure(err.Error())
	}

	text := res.Text
	if GetBool(params, "normalize", true) {
		text = NormalizeWhitespace(text)
	}
	return Success(map[string]any{
		"text":       text,
		"length":     len(text),
		"word_count": len(strings.Fields(text)),
	})
}

// ExtractTitle returns the first title.
func (e *ExtractOps) ExtractTitle(ctx context.Context, params map[string]any) (*types.Result, error) {
	res, err := e.run(params)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]any{
		"title": res.TitleOr(""),
		"empty": res.Title == nil,
	})
}

// ExtractLinks returns collected links.
func (e *ExtractOps) ExtractLinks(ctx context.Context, params map[string]any) (*types.Result, error) {
	res, err := e.run(params)
	if err != nil {
		return Failure(err.Error())
	}
	links := res.Links
	if GetBool(params, "unique", false) {
		links = Deduplicate(links)
	}
	return Success(map[string]any{
		"links": links,
		"count": len(links),
	})
}

// ExtractMeta returns meta name/value pairs.
func (e *ExtractOps) ExtractMeta(ctx context.Context, params map[string]any) (*types.Result, error) {
	res, err := e.run(params)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]any{
		"meta":  res.Meta,
		"count": len(res.Meta),
	})
}

// CleanHTML sanitizes HTML.
func (e *ExtractOps) CleanHTML(ctx context.Context, params map[string]any) (*types.Result, error) {
	content, err := e.requireContent(params, "html")
	if err != nil {
		return Failure(err.Error())
	}
	cleaned := e.Sanitize(content)
	return Success(map[string]any{
		"html":          cleaned,
		"original_size": len(content),
		"cleaned_size":  len(cleaned),
	})
}
