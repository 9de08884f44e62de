package scraper

import (
	"context"

	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/GriffinCanCode/markscan/internal/types"
)

// Options configures a Provider. Zero values are usable: no fetcher, the
// default size limit, no observer and a no-op logger.
type Options struct {
	MaxInputBytes int64
	Fetcher       Fetcher
	Observer      ParseObserver
	Logger        *logging.Logger
}

// Provider exposes the parsers as tools.
type Provider struct {
	ops      *ScraperOps
	extract  *ExtractOps
	markup   *MarkupOps
	query    *QueryOps
	fetching *FetchOps
}

// NewProvider creates the provider and its modules.
func NewProvider(opts Options) *Provider {
	ops := NewScraperOps(opts.MaxInputBytes, opts.Observer, opts.Logger)
	extract := &ExtractOps{ScraperOps: ops}
	markupOps := &MarkupOps{ScraperOps: ops}

	return &Provider{
		ops:     ops,
		extract: extract,
		markup:  markupOps,
		query:   &QueryOps{ScraperOps: ops},
		fetching: &FetchOps{
			ScraperOps: ops,
			fetcher:    opts.Fetcher,
			extract:    extract,
			tokenize:   markupOps,
		},
	}
}

// Definition returns service metadata with all module tools
func (p *Provider) Definition() types.Service {
	tools := []types.Tool{}
	tools = append(tools, p.extract.GetTools()...)
	tools = append(tools, p.markup.GetTools()...)
	tools = append(tools, p.query.GetTools()...)
	if p.fetching.fetcher != nil {
		tools = append(tools, p.fetching.GetTools()...)
	}

	capabilities := []string{
		"html_extraction",
		"markup_tokenization",
		"encoding_declaration",
		"css_selectors",
		"xpath_queries",
		"html_sanitization",
		"charset_detection",
	}
	if p.fetching.fetcher != nil {
		capabilities = append(capabilities, "remote_fetch")
	}

	return types.Service{
		ID:           "scraper",
		Name:         "Markup Scanner Service",
		Description:  "HTML extraction and generic markup tokenization with DOM queries",
		Category:     types.CategoryScraper,
		Capabilities: capabilities,
		Tools:        tools,
	}
}

// Ops returns the shared helpers.
func (p *Provider) Ops() *ScraperOps {
	return p.ops
}

// Extractor returns the extraction module.
func (p *Provider) Extractor() *ExtractOps {
	return p.extract
}

// Tokenizer returns the tokenizer module.
func (p *Provider) Tokenizer() *MarkupOps {
	return p.markup
}

// Execute routes to appropriate module
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]any) (*types.Result, error) {
	if params == nil {
		params = map[string]any{}
	}

	switch toolID {
	// Extraction
	case "scraper.extract":
		return p.extract.ExtractAll(ctx, params)
	case "scraper.text":
		return p.extract.ExtractText(ctx, params)
	case "scraper.title":
		return p.extract.ExtractTitle(ctx, params)
	case "scraper.links":
		return p.extract.ExtractLinks(ctx, params)
	case "scraper.meta":
		return p.extract.ExtractMeta(ctx, params)
	case "scraper.clean":
		return p.extract.CleanHTML(ctx, params)

	// Tokenization
	case "scraper.tokenize":
		return p.markup.TokenizeContent(ctx, params)
	case "scraper.encoding":
		return p.markup.DeclaredEncoding(ctx, params)

	// DOM queries
	case "scraper.select":
		return p.query.Select(ctx, params)
	case "scraper.xpath":
		return p.query.XPath(ctx, params)

	// Remote documents
	case "scraper.fetch":
		return p.fetching.FetchAndParse(ctx, params)

	default:
		return UnknownToolFailure(toolID)
	}
}
