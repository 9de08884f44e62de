package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/markscan/internal/types"
	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

const defaultQueryLimit = 100

// QueryOps answers CSS selector and XPath queries against a parsed DOM.
type QueryOps struct {
	*ScraperOps
}

// match is one element found by a query.
type match struct {
	text string
	html string
}

// finder runs expr against content and returns at most limit matches.
type finder func(content, expr string, limit int) ([]match, error)

func queryTool(id, name, param, desc string) types.Tool {
	return types.Tool{
		ID:          id,
		Name:        name,
		Description: "Find elements by " + desc,
		Parameters: []types.Parameter{
			{Name: "html", Type: "string", Description: "HTML content", Required: true},
			{Name: param, Type: "string", Description: desc, Required: true},
			{Name: "limit", Type: "number", Description: fmt.Sprintf("Max results (default: %d)", defaultQueryLimit)},
		},
		Returns: "object",
	}
}

// GetTools returns query tool definitions
func (q *QueryOps) GetTools() []types.Tool {
	return []types.Tool{
		queryTool("scraper.select", "CSS Select", "selector", "CSS selector"),
		queryTool("scraper.xpath", "XPath Query", "xpath", "XPath expression"),
	}
}

// Select finds elements by CSS selector
func (q *QueryOps) Select(ctx context.Context, params map[string]any) (*types.Result, error) {
	return q.run(params, "selector", selectCSS)
}

// XPath finds elements by XPath expression
func (q *QueryOps) XPath(ctx context.Context, params map[string]any) (*types.Result, error) {
	return q.run(params, "xpath", selectXPath)
}

func (q *QueryOps) run(params map[string]any, param string, find finder) (*types.Result, error) {
	content, err := q.requireContent(params, "html")
	if err != nil {
		return Failure(err.Error())
	}
	expr, ok := GetString(params, param)
	if !ok || expr == "" {
		return Failure(param + " parameter required")
	}

	limit, ok := GetInt(params, "limit")
	if !ok || limit <= 0 {
		limit = defaultQueryLimit
	}

	found, err := find(content, expr, limit)
	if err != nil {
		return Failure(err.Error())
	}

	elements := make([]map[string]any, len(found))
	for i, m := range found {
		elements[i] = map[string]any{"text": m.text, "html": m.html}
	}
	return Success(map[string]any{
		"elements": elements,
		"count":    len(elements),
	})
}

func selectCSS(content, selector string, limit int) ([]match, error) {
	doc, err := LoadHTML(content)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	var found []match
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		inner, _ := s.Html()
		found = append(found, match{text: strings.TrimSpace(s.Text()), html: inner})
		return len(found) < limit
	})
	return found, nil
}

func selectXPath(content, expr string, limit int) ([]match, error) {
	doc, err := LoadHTMLNode(content)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if len(nodes) > limit {
		nodes = nodes[:limit]
	}

	found := make([]match, len(nodes))
	for i, n := range nodes {
		found[i] = match{text: NodeText(n), html: htmlquery.OutputHTML(n, true)}
	}
	return found, nil
}
