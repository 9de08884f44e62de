// Package report defines the serializable form of parse results shared by the
// HTTP API, the CLI and the result store.
package report

import (
	"time"

	"github.com/GriffinCanCode/markscan/internal/extractor"
	"github.com/GriffinCanCode/markscan/internal/markup"
)

// Kind names the parser that produced a report.
type Kind string

const (
	KindHTML   Kind = "html"
	KindMarkup Kind = "markup"
)

// Report is one persisted parse result.
type Report struct {
	ID        string            `json:"id" yaml:"id" toml:"id"`
	Kind      Kind              `json:"kind" yaml:"kind" toml:"kind"`
	Source    string            `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Checksum  string            `json:"checksum,omitempty" yaml:"checksum,omitempty" toml:"checksum,omitempty"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at" toml:"created_at"`
	HTML      *extractor.Result `json:"html,omitempty" yaml:"html,omitempty" toml:"html,omitempty"`
	Markup    *Document         `json:"markup,omitempty" yaml:"markup,omitempty" toml:"markup,omitempty"`
}

// Document is the serializable view of a tokenized markup document.
type Document struct {
	Tokens   []Token `json:"tokens" yaml:"tokens" toml:"tokens"`
	Encoding *string `json:"encoding,omitempty" yaml:"encoding,omitempty" toml:"encoding,omitempty"`
	Content  string  `json:"content" yaml:"content" toml:"content"`
}

// Token is either a tag (Type "tag") or character data (Type "text").
type Token struct {
	Type        string            `json:"type" yaml:"type" toml:"type"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	End         bool              `json:"end,omitempty" yaml:"end,omitempty" toml:"end,omitempty"`
	SelfClosing bool              `json:"self_closing,omitempty" yaml:"self_closing,omitempty" toml:"self_closing,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Text        string            `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
}

// FromDocument converts a tokenized document into its serializable view.
func FromDocument(doc *markup.Document) *Document {
	out := &Document{
		Tokens:   make([]Token, 0, doc.Len()),
		Encoding: doc.Encoding,
		Content:  doc.Content(),
	}
	for tok := range doc.All() {
		switch t := tok.(type) {
		case *markup.Tag:
			view := Token{
				Type:        markup.KindTag.String(),
				Name:        t.Name(),
				End:         t.IsEnd(),
				SelfClosing: t.IsSelfClosing(),
			}
			if t.Attributes().Len() > 0 {
				view.Attributes = t.Attributes().Map()
			}
			out.Tokens = append(out.Tokens, view)
		case *markup.Text:
			out.Tokens = append(out.Tokens, Token{
				Type: markup.KindText.String(),
				Text: t.Text(),
			})
		}
	}
	return out
}

// Tags counts tag tokens.
func (d *Document) Tags() int {
	n := 0
	for _, t := range d.Tokens {
		if t.Type == markup.KindTag.String() {
			n++
		}
	}
	return n
}

// NewHTML wraps an extraction result.
func NewHTML(rid, source string, res *extractor.Result) *Report {
	return &Report{
		ID:        rid,
		Kind:      KindHTML,
		Source:    source,
		CreatedAt: time.Now().UTC(),
		HTML:      res,
	}
}

// NewMarkup wraps a tokenized document.
func NewMarkup(rid, source string, doc *markup.Document) *Report {
	return &Report{
		ID:        rid,
		Kind:      KindMarkup,
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Markup:    FromDocument(doc),
	}
}
