package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/markscan/internal/api/middleware"
	"github.com/GriffinCanCode/markscan/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/markscan/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/GriffinCanCode/markscan/internal/providers/scraper"
	"github.com/GriffinCanCode/markscan/internal/service"
	"github.com/GriffinCanCode/markscan/internal/shared/id"
	"github.com/GriffinCanCode/markscan/internal/storage"
)

const page = `<html><head><title>Menu</title></head><body><p>Hello</p><a href="/fish">fish</a></body></html>`

type fixture struct {
	router  *gin.Engine
	metrics *monitoring.Metrics
}

func setup(t *testing.T, maxBytes int64, withStore bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetrics()
	provider := scraper.NewProvider(scraper.Options{MaxInputBytes: maxBytes, Observer: metrics})

	registry := service.NewRegistry()
	require.NoError(t, registry.Register(provider))

	var store *storage.ResultStore
	if withStore {
		var err error
		store, err = storage.NewResultStore(t.TempDir(), storage.CodecJSON, storage.None, nil)
		require.NoError(t, err)
	}

	tracer := tracing.New("test", nil)
	t.Cleanup(tracer.Close)

	h := NewHandlers(Options{
		Registry: registry,
		Scraper:  provider,
		Store:    store,
		Metrics:  metrics,
		Tracer:   tracer,
	})

	router := gin.New()
	router.Use(middleware.RequestID())
	h.Register(router)
	return &fixture{router: router, metrics: metrics}
}

func (f *fixture) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w, body
}

func post(path, contentType string, body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestRootAndHealth(t *testing.T) {
	f := setup(t, 0, false)

	w, body := f.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "markscan", body["service"])

	w, body = f.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.EqualValues(t, scraper.MaxContentSize, body["max_input_bytes"])
	assert.Equal(t, map[string]any{"enabled": false}, body["store"])
}

func TestExtract(t *testing.T) {
	gz, err := storage.Compress(storage.Gzip, []byte(page))
	require.NoError(t, err)

	tests := []struct {
		name     string
		req      func() *http.Request
		wantText string
	}{
		{
			name:     "raw html",
			req:      func() *http.Request { return post("/extract", "text/html", []byte(page)) },
			wantText: "Hello",
		},
		{
			name: "json body",
			req: func() *http.Request {
				return post("/extract", "application/json", []byte(`{"html": "<title>Menu</title><p>Hello</p><a href=\"/fish\">fish</a>"}`))
			},
			wantText: "Hello",
		},
		{
			name: "gzip content encoding",
			req: func() *http.Request {
				req := post("/extract", "text/html; charset=utf-8", gz)
				req.Header.Set("Content-Encoding", "gzip")
				return req
			},
			wantText: "Hello",
		},
		{
			name: "latin-1 body",
			req: func() *http.Request {
				return post("/extract", "text/html; charset=iso-8859-1",
					[]byte("<title>Menu</title><p>caf\xe9</p><a href=\"/fish\">fish</a>"))
			},
			wantText: "café",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, 0, false)
			w, body := f.do(t, tt.req())

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, body["text"], tt.wantText)
			assert.Equal(t, "Menu", body["title"])
			assert.Equal(t, []any{"/fish"}, body["links"])
			assert.Empty(t, w.Header().Get(HeaderResultID))
		})
	}
}

func TestExtractSanitize(t *testing.T) {
	const doc = `<p>hi</p><a href="javascript:alert(1)">x</a><p>end</p>`

	f := setup(t, 0, false)

	_, plain := f.do(t, post("/extract", "text/html", []byte(doc)))
	assert.Equal(t, []any{"javascript:alert(1)"}, plain["links"])

	_, clean := f.do(t, post("/extract?sanitize=true", "text/html", []byte(doc)))
	assert.Equal(t, []any{}, clean["links"])
}

func TestExtractErrors(t *testing.T) {
	// 32 MiB of one byte gzips to a few dozen KiB.
	bomb, err := storage.Compress(storage.Gzip, bytes.Repeat([]byte("a"), 32<<20))
	require.NoError(t, err)
	require.Less(t, len(bomb), 1<<20)

	tests := []struct {
		name       string
		maxBytes   int64
		req        func() *http.Request
		wantStatus int
		wantError  string
	}{
		{
			name:       "empty body",
			req:        func() *http.Request { return post("/extract", "text/html", nil) },
			wantStatus: http.StatusBadRequest,
			wantError:  "content is empty",
		},
		{
			name:       "body over limit",
			maxBytes:   16,
			req:        func() *http.Request { return post("/extract", "text/html", []byte(page)) },
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "too large",
		},
		{
			name:       "empty tag",
			req:        func() *http.Request { return post("/extract", "text/html", []byte("<p>x<>y</p>")) },
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "html parse failed",
		},
		{
			name:       "invalid json",
			req:        func() *http.Request { return post("/extract", "application/json", []byte("{")) },
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid JSON",
		},
		{
			name:       "json without field",
			req:        func() *http.Request { return post("/extract", "application/json", []byte(`{"content": "x"}`)) },
			wantStatus: http.StatusBadRequest,
			wantError:  `"html" field required`,
		},
		{
			name:     "gzip expanding past limit",
			maxBytes: 1 << 20,
			req: func() *http.Request {
				req := post("/extract", "text/html", bomb)
				req.Header.Set("Content-Encoding", "gzip")
				return req
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "decoded body exceeds",
		},
		{
			name: "unknown content encoding",
			req: func() *http.Request {
				req := post("/extract", "text/html", []byte(page))
				req.Header.Set("Content-Encoding", "br")
				return req
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantError:  "unsupported compression format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, tt.maxBytes, false)
			w, body := f.do(t, tt.req())

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, body["error"], tt.wantError)
		})
	}
}

func TestTokenize(t *testing.T) {
	f := setup(t, 0, false)

	w, body := f.do(t, post("/tokenize", "application/xml", []byte(`<?xml encoding="UTF-8"?><a>hi</a>`)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "UTF-8", w.Header().Get(middleware.HeaderDeclaredEncoding))
	assert.Equal(t, "UTF-8", body["encoding"])
	assert.Equal(t, "a hi a", body["content"])

	tokens, ok := body["tokens"].([]any)
	require.True(t, ok)
	require.Len(t, tokens, 3)
	assert.Equal(t, map[string]any{"type": "tag", "name": "a"}, tokens[0])
	assert.Equal(t, map[string]any{"type": "text", "text": "hi"}, tokens[1])
	assert.Equal(t, map[string]any{"type": "tag", "name": "a", "end": true}, tokens[2])

	snap := f.metrics.Snapshot()
	assert.Equal(t, int64(1), snap.TotalParses)
}

func TestTokenizeJSON(t *testing.T) {
	f := setup(t, 0, false)

	w, body := f.do(t, post("/tokenize", "application/json", []byte(`{"content": "<r><i k=\"v\"/></r>"}`)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, body["encoding"])
	assert.Empty(t, w.Header().Get(middleware.HeaderDeclaredEncoding))

	tokens := body["tokens"].([]any)
	require.Len(t, tokens, 3)
	assert.Equal(t, map[string]any{
		"type":         "tag",
		"name":         "i",
		"self_closing": true,
		"attributes":   map[string]any{"k": "v"},
	}, tokens[1])
}

func TestTools(t *testing.T) {
	f := setup(t, 0, false)

	w, body := f.do(t, httptest.NewRequest(http.MethodGet, "/tools", nil))
	require.Equal(t, http.StatusOK, w.Code)
	services := body["services"].([]any)
	require.Len(t, services, 1)
	assert.Equal(t, "scraper", services[0].(map[string]any)["id"])

	w, body = f.do(t, httptest.NewRequest(http.MethodGet, "/tools?q=xpath+queries", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["services"], 1)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "title tool",
			body:       `{"tool_id": "scraper.title", "params": {"html": "<title>Menu</title><p>x</p>"}}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "Menu", body["data"].(map[string]any)["title"])
			},
		},
		{
			name:       "tool failure is a result",
			body:       `{"tool_id": "scraper.nope", "params": {}}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, false, body["success"])
			},
		},
		{
			name:       "unknown service",
			body:       `{"tool_id": "other.run"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing tool id",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := f.do(t, post("/tools/execute", "application/json", []byte(tt.body)))
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestResults(t *testing.T) {
	f := setup(t, 0, true)

	w, _ := f.do(t, post("/extract?source=unit", "text/html", []byte(page)))
	require.Equal(t, http.StatusOK, w.Code)
	rid := w.Header().Get(HeaderResultID)
	require.True(t, id.IsValid(rid), rid)

	w, body := f.do(t, httptest.NewRequest(http.MethodGet, "/results", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])
	assert.Equal(t, []any{rid}, body["results"])

	w, body = f.do(t, httptest.NewRequest(http.MethodGet, "/results/"+rid, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, rid, body["id"])
	assert.Equal(t, "html", body["kind"])
	assert.Equal(t, "unit", body["source"])
	assert.Len(t, body["checksum"], 64)
	assert.Equal(t, "Menu", body["html"].(map[string]any)["title"])

	w, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/results/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/results/"+string(id.NewResultID()), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultsDisabled(t *testing.T) {
	f := setup(t, 0, false)

	w, body := f.do(t, httptest.NewRequest(http.MethodGet, "/results", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "result store disabled", body["error"])
}

func TestMetricsJSON(t *testing.T) {
	f := setup(t, 0, false)

	f.do(t, post("/extract", "text/html", []byte(page)))
	f.do(t, post("/extract", "text/html", []byte("<p>x<>y</p>")))

	w, body := f.do(t, httptest.NewRequest(http.MethodGet, "/metrics/json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, body["total_parses"])
	assert.EqualValues(t, 1, body["parse_failures"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusFor(scraper.ErrContentTooLarge))
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusFor(storage.ErrTooLarge))
	assert.True(t, strings.HasPrefix(errBodyTooLarge.Error(), "request body"))
}

func TestParseSpansAndFailureLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.FromZap(zap.New(core))

	provider := scraper.NewProvider(scraper.Options{})
	registry := service.NewRegistry()
	require.NoError(t, registry.Register(provider))
	tracer := tracing.New("test", logger)

	h := NewHandlers(Options{Registry: registry, Scraper: provider, Tracer: tracer, Logger: logger})
	router := gin.New()
	router.Use(tracing.HTTPMiddleware(tracer))
	h.Register(router)

	for _, req := range []*http.Request{
		post("/tokenize", "application/xml", []byte("<a>hi</a>")),
		post("/extract", "text/html", []byte("<p>x<>y</p>")),
	} {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	tracer.Close()

	spans := logs.FilterMessage("span completed").FilterField(zap.String("operation", "tokenize")).All()
	require.Len(t, spans, 1)
	events, ok := spans[0].ContextMap()["events"].([]tracing.LogEntry)
	require.True(t, ok)
	require.Len(t, events, 1)
	assert.Equal(t, "parsed", events[0].Message)
	assert.Equal(t, 3, events[0].Fields["items"])

	rejected := logs.FilterMessage("Request rejected").All()
	require.Len(t, rejected, 1)
	fields := rejected[0].ContextMap()
	assert.EqualValues(t, http.StatusUnprocessableEntity, fields["status"])
	assert.Regexp(t, `^\[trace:trace_\w+ span:span_\w+\]$`, fields["trace"])
}
