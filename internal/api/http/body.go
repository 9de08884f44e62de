package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/markscan/internal/providers/scraper"
	"github.com/GriffinCanCode/markscan/internal/storage"
)

var (
	errBodyTooLarge = errors.New("request body too large")
	errBadRequest   = errors.New("bad request")
)

// input is a request document after transfer decoding.
type input struct {
	content  string
	charset  string
	sanitize bool
}

// readInput reads the request body into text. JSON bodies carry the
// document in field; any other content type is the document itself, in the
// charset named by Content-Type or detected from the bytes. A gzip, deflate
// or zstd Content-Encoding is undone first.
func readInput(c *gin.Context, field string, maxBytes int64) (*input, error) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxBytes)
	}

	if enc := c.GetHeader("Content-Encoding"); enc != "" {
		format, err := storage.ParseFormat(enc)
		if err != nil {
			return nil, err
		}
		data, err = storage.Decompress(format, data, maxBytes)
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			return nil, fmt.Errorf("%w: decoded body exceeds %d bytes", errBodyTooLarge, maxBytes)
		case err != nil:
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}

	mediaType, params, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType == "application/json" {
		return decodeJSON(data, field)
	}

	text, used, err := scraper.DecodeBytes(data, params["charset"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return &input{
		content:  text,
		charset:  used,
		sanitize: strings.EqualFold(c.Query("sanitize"), "true"),
	}, nil
}

func decodeJSON(data []byte, field string) (*input, error) {
	var body map[string]any
	if err := sonic.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	content, ok := body[field].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %q field required", errBadRequest, field)
	}
	sanitize, _ := body["sanitize"].(bool)
	return &input{content: content, charset: "utf-8", sanitize: sanitize}, nil
}
