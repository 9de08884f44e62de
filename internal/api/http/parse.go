package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/markscan/internal/api/middleware"
	"github.com/GriffinCanCode/markscan/internal/extractor"
	"github.com/GriffinCanCode/markscan/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/markscan/internal/markup"
	"github.com/GriffinCanCode/markscan/internal/report"
	"github.com/GriffinCanCode/markscan/internal/shared/id"
	"github.com/GriffinCanCode/markscan/internal/storage"
)

// HeaderResultID names the stored record of a parse.
const HeaderResultID = "X-Result-ID"

// Extract runs the HTML extractor on the request document
func (h *Handlers) Extract(c *gin.Context) {
	ops := h.scraper.Ops()
	in, err := readInput(c, "html", ops.MaxBytes())
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := ops.ValidateContent(in.content); err != nil {
		h.fail(c, err)
		return
	}

	content := in.content
	if in.sanitize {
		content = ops.Sanitize(content)
	}

	var res *extractor.Result
	err = h.trace(c, "extract", len(content), func() (int, error) {
		var err error
		res, err = h.scraper.Extractor().Extract(content)
		if err != nil {
			return 0, err
		}
		return len(res.Links), nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	rid := id.NewResultID()
	h.persist(c, report.NewHTML(rid.String(), sourceOf(c), res), content)

	c.JSON(http.StatusOK, res)
}

// Tokenize runs the generic markup tokenizer on the request document
func (h *Handlers) Tokenize(c *gin.Context) {
	ops := h.scraper.Ops()
	in, err := readInput(c, "content", ops.MaxBytes())
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := ops.ValidateContent(in.content); err != nil {
		h.fail(c, err)
		return
	}

	var doc *markup.Document
	err = h.trace(c, "tokenize", len(in.content), func() (int, error) {
		var err error
		doc, err = h.scraper.Tokenizer().Tokenize(in.content)
		if err != nil {
			return 0, err
		}
		return doc.Len(), nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	rid := id.NewResultID()
	rep := report.NewMarkup(rid.String(), sourceOf(c), doc)
	h.persist(c, rep, in.content)

	if doc.Encoding != nil {
		c.Header(middleware.HeaderDeclaredEncoding, *doc.Encoding)
	}
	c.JSON(http.StatusOK, rep.Markup)
}

// trace runs fn inside a span when tracing is enabled. fn reports how many
// items the parse produced; successful runs log the count on the span.
func (h *Handlers) trace(c *gin.Context, name string, size int, fn func() (int, error)) error {
	if h.tracer == nil {
		_, err := fn()
		return err
	}
	return h.tracer.Trace(c.Request.Context(), name, func(_ context.Context, span *tracing.Span) error {
		span.SetTag("bytes", strconv.Itoa(size))
		items, err := fn()
		if err == nil {
			span.Log("parsed", map[string]any{"items": items})
		}
		return err
	})
}

// persist writes rep to the result store when one is configured. A failed
// write is logged and does not fail the request.
func (h *Handlers) persist(c *gin.Context, rep *report.Report, content string) {
	if h.store == nil {
		return
	}
	rep.Checksum = storage.Checksum([]byte(content), storage.SHA256)

	if err := h.store.SaveAs(c.Request.Context(), id.ResultID(rep.ID), rep); err != nil {
		h.logger.Warn("Failed to store result",
			zap.String("id", rep.ID),
			zap.String("kind", string(rep.Kind)),
			zap.Error(err),
		)
		return
	}
	if h.metrics != nil {
		h.metrics.IncResultsStored()
	}
	c.Header(HeaderResultID, rep.ID)
}

func sourceOf(c *gin.Context) string {
	if s := c.Query("source"); s != "" {
		return s
	}
	if rid := middleware.GetRequestID(c); rid != "" {
		return "request:" + rid
	}
	return "http"
}
