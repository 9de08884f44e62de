// Package extractor pulls visible text, links, meta pairs and the title out
// of raw HTML using the markup scanner.
package extractor

import (
	"errors"
	"io"
	"strings"

	"github.com/GriffinCanCode/markscan/internal/markup"
)

// Result holds everything extracted from one HTML document.
type Result struct {
	Text  string            `json:"text" yaml:"text" toml:"text"`
	Links []string          `json:"links" yaml:"links" toml:"links"`
	Meta  map[string]string `json:"meta" yaml:"meta" toml:"meta"`
	Title *string           `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
}

// Reader returns a reader over the visible text.
func (r *Result) Reader() io.Reader {
	return strings.NewReader(r.Text)
}

// TitleOr returns the title, or def when none was captured.
func (r *Result) TitleOr(def string) string {
	if r.Title == nil {
		return def
	}
	return *r.Title
}

type suppression int

const (
	notSuppressed suppression = iota
	inScript
	inStyle
)

// state is the accumulator for a single Extract call.
type state struct {
	text       strings.Builder
	links      []string
	meta       map[string]string
	title      *string
	inTitle    bool
	suppressed suppression
}

// Extract decodes entities in content and runs the HTML state machine over
// its token stream. Any tag that cannot be parsed fails the whole call.
func Extract(content string) (*Result, error) {
	st := &state{
		links: []string{},
		meta:  make(map[string]string),
	}

	sc := markup.NewScanner(markup.DecodeEntities(content))
	for {
		tok, err := sc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, markup.Fail("html", err)
		}

		switch t := tok.(type) {
		case *markup.Tag:
			st.tag(t)
		case *markup.Text:
			st.textToken(t)
		}
	}

	return &Result{
		Text:  st.text.String(),
		Links: st.links,
		Meta:  st.meta,
		Title: st.title,
	}, nil
}

func (st *state) tag(t *markup.Tag) {
	switch t.Name() {
	case "script":
		switch {
		case t.IsEnd():
			st.suppressed = notSuppressed
		case t.HasAttr("src"):
			st.suppressed = notSuppressed
		default:
			st.suppressed = inScript
		}
	case "style":
		if t.IsEnd() {
			st.suppressed = notSuppressed
		} else {
			st.suppressed = inStyle
		}
	case "a":
		if href, ok := t.Attr("href"); ok && st.suppressed == notSuppressed {
			st.links = append(st.links, href)
		}
	case "frame":
		if src, ok := t.Attr("src"); ok && st.suppressed == notSuppressed {
			st.links = append(st.links, src)
		}
	case "meta":
		if st.suppressed != notSuppressed {
			return
		}
		name, hasName := t.Attr("name")
		value, hasValue := t.Attr("value")
		if hasName && hasValue {
			st.meta[name] = value
		}
	case "title":
		if t.IsEnd() {
			st.inTitle = false
		} else if st.title == nil {
			st.inTitle = true
		}
	}
}

func (st *state) textToken(t *markup.Text) {
	if st.suppressed != notSuppressed {
		return
	}
	if st.inTitle && st.title == nil {
		title := t.Text()
		st.title = &title
		st.inTitle = false
		return
	}
	st.text.WriteString(t.Text())
	st.text.WriteByte(' ')
}
