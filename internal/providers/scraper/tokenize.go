package scraper

import (
	"context"
	"time"

	"github.com/GriffinCanCode/markscan/internal/markup"
	"github.com/GriffinCanCode/markscan/internal/report"
	"github.com/GriffinCanCode/markscan/internal/types"
	"go.uber.org/zap"
)

// MarkupOps runs the generic markup tokenizer.
type MarkupOps struct {
	*ScraperOps
}

// GetTools returns tokenizer tool definitions
func (m *MarkupOps) GetTools() []types.Tool {
	contentParam := types.Parameter{Name: "content", Type: "string", Description: "HTML or XML-like markup", Required: true}
	return []types.Tool{
		{
			ID:          "scraper.tokenize",
			Name:        "Tokenize Markup",
			Description: "Flat tag and text token stream with attributes and declared encoding",
			Parameters:  []types.Parameter{contentParam},
			Returns:     "object",
		},
		{
			ID:          "scraper.encoding",
			Name:        "Declared Encoding",
			Description: "Encoding declared by a leading <?xml ...?> processing instruction",
			Parameters:  []types.Parameter{contentParam},
			Returns:     "object",
		},
	}
}

// Tokenize tokenizes content and reports the run to the observer.
func (m *MarkupOps) Tokenize(content string) (*markup.Document, error) {
	start := time.Now()
	doc, err := markup.Tokenize(content)

	items := 0
	if doc != nil {
		items = doc.Len()
	}
	m.observer.ObserveParse("markup", err, time.Since(start), items)
	if err != nil {
		m.logger.Debug("Tokenization failed", zap.Int("bytes", len(content)), zap.Error(err))
	}
	return doc, err
}

func (m *MarkupOps) run(params map[string]any) (*markup.Document, error) {
	content, err := m.requireContent(params, "content")
	if err != nil {
		return nil, err
	}
	return m.Tokenize(content)
}

// TokenizeContent returns the token stream.
func (m *MarkupOps) TokenizeContent(ctx context.Context, params map[string]any) (*types.Result, error) {
	doc, err := m.run(params)
	if err != nil {
		return Failure(err.Error())
	}

	view := report.FromDocument(doc)
	data := map[string]any{
		"tokens":  view.Tokens,
		"count":   len(view.Tokens),
		"content": view.Content,
	}
	if view.Encoding != nil {
		data["encoding"] = *view.Encoding
	}
	return Success(data)
}

// DeclaredEncoding returns the declared encoding, if any.
func (m *MarkupOps) DeclaredEncoding(ctx context.Context, params map[string]any) (*types.Result, error) {
	doc, err := m.run(params)
	if err != nil {
		return Failure(err.Error())
	}

	data := map[string]any{"declared": doc.Encoding != nil}
	if doc.Encoding != nil {
		data["encoding"] = *doc.Encoding
	}
	return Success(data)
}
