package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/GriffinCanCode/markscan/internal/types"
	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// MaxContentSize is the default input limit (10MB).
const MaxContentSize = 10 * 1024 * 1024

var (
	ErrEmptyContent    = errors.New("content is empty")
	ErrContentTooLarge = errors.New("content too large")
)

// ParseObserver is told about every parse a tool runs. source is "html" or
// "markup"; items is the number of links or tokens produced.
type ParseObserver interface {
	ObserveParse(source string, err error, elapsed time.Duration, items int)
}

type nopObserver struct{}

func (nopObserver) ObserveParse(string, error, time.Duration, int) {}

// ScraperOps provides the helpers shared by every tool module.
type ScraperOps struct {
	sanitizer *bluemonday.Policy
	maxBytes  int64
	observer  ParseObserver
	logger    *logging.Logger
}

// NewScraperOps creates ops with a UGC sanitizer policy.
func NewScraperOps(maxBytes int64, observer ParseObserver, logger *logging.Logger) *ScraperOps {
	if maxBytes <= 0 {
		maxBytes = MaxContentSize
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ScraperOps{
		sanitizer: bluemonday.UGCPolicy(),
		maxBytes:  maxBytes,
		observer:  observer,
		logger:    logger.Named("scraper"),
	}
}

// Success creates successful result
func Success(data map[string]any) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates failed result
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

// UnknownToolFailure reports a tool ID no module handles.
func UnknownToolFailure(toolID string) (*types.Result, error) {
	return Failure(fmt.Sprintf("unknown tool: %s", toolID))
}

// GetString extracts a string parameter.
func GetString(params map[string]any, key string) (string, bool) {
	val, ok := params[key].(string)
	return val, ok
}

// GetBool extracts a bool parameter with default.
func GetBool(params map[string]any, key string, defaultVal bool) bool {
	val, ok := params[key].(bool)
	if !ok {
		return defaultVal
	}
	return val
}

// GetInt extracts an int parameter. JSON numbers arrive as float64.
func GetInt(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// ValidateContent rejects empty input and input over the size limit.
func (s *ScraperOps) ValidateContent(content string) error {
	if len(content) == 0 {
		return ErrEmptyContent
	}
	if int64(len(content)) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrContentTooLarge, len(content), s.maxBytes)
	}
	return nil
}

// MaxBytes returns the input size limit.
func (s *ScraperOps) MaxBytes() int64 {
	return s.maxBytes
}

// requireContent reads and validates the named parameter.
func (s *ScraperOps) requireContent(params map[string]any, key string) (string, error) {
	content, ok := GetString(params, key)
	if !ok {
		return "", fmt.Errorf("%s parameter required", key)
	}
	if err := s.ValidateContent(content); err != nil {
		return "", err
	}
	return content, nil
}

// DetectCharset guesses the charset of data. Valid UTF-8 is reported as such
// without running the detector.
func DetectCharset(data []byte) string {
	if utf8.Valid(data) {
		return "utf-8"
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// DecodeBytes converts data to text. declared is a charset label from a
// Content-Type header or similar; when empty the charset is detected. The
// charset actually used is returned alongside the text.
func DecodeBytes(data []byte, declared string) (string, string, error) {
	label := strings.ToLower(strings.TrimSpace(declared))
	if label == "" {
		label = DetectCharset(data)
	}
	if label == "utf-8" || label == "utf8" {
		return string(data), "utf-8", nil
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", label, err)
	}
	return string(out), label, nil
}

// LoadHTML parses decoded HTML into a goquery document.
func LoadHTML(content string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

// LoadHTMLNode parses decoded HTML into an xpath-compatible node tree.
func LoadHTMLNode(content string) (*html.Node, error) {
	return htmlquery.Parse(strings.NewReader(content))
}

// Sanitize applies the UGC policy to content.
func (s *ScraperOps) Sanitize(content string) string {
	return s.sanitizer.Sanitize(content)
}

// NodeText concatenates the text nodes under n.
func NodeText(n *html.Node) string {
	var buf bytes.Buffer
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.TrimSpace(buf.String())
}

// NormalizeWhitespace collapses runs of whitespace into one space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Deduplicate removes duplicate strings while preserving order.
func Deduplicate(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
