package markup

import (
	"errors"
	"io"
	"iter"
	"slices"
	"strings"
)

// Document is the result of Tokenize: every tag and text token in stream
// order plus the encoding declared by a leading processing instruction.
// The token sequence is read-only.
type Document struct {
	tokens   []Token
	Encoding *string
}

// Tokenize strips control characters from s and returns its token stream.
//
// A tag written as <?...?> is a processing instruction: its encoding
// attribute is captured and the tag itself is not emitted.
func Tokenize(s string) (*Document, error) {
	doc := &Document{tokens: []Token{}}
	sc := NewScannerAtFirstTag(StripControl(s))

	for {
		tok, err := sc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Fail("markup", err)
		}

		switch t := tok.(type) {
		case *Tag:
			if isProcessingInstruction(t.Raw()) {
				if enc, ok := processingInstructionEncoding(t.Raw()); ok {
					doc.Encoding = &enc
				}
				continue
			}
			doc.tokens = append(doc.tokens, t)
		case *Text:
			doc.tokens = append(doc.tokens, t)
		}
	}
	return doc, nil
}

func isProcessingInstruction(raw string) bool {
	return strings.HasPrefix(raw, "?") && strings.HasSuffix(raw, "?")
}

// processingInstructionEncoding reads the encoding attribute of ?...? text
// with the closing '?' removed, so encoding="UTF-8"? yields UTF-8.
func processingInstructionEncoding(raw string) (string, bool) {
	inner := raw
	if len(inner) >= 2 {
		inner = inner[:len(inner)-1]
	}
	pi, err := ParseTag(inner)
	if err != nil {
		return "", false
	}
	return pi.Attr("encoding")
}

// StripControl removes C0 and C1 control characters.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return -1
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}

// Tokens returns a copy of the token stream.
func (d *Document) Tokens() []Token {
	return slices.Clone(d.tokens)
}

// All iterates over the token stream in order.
func (d *Document) All() iter.Seq[Token] {
	return slices.Values(d.tokens)
}

// Len returns the number of tokens.
func (d *Document) Len() int {
	return len(d.tokens)
}

// Content joins tag names and text in stream order with single spaces.
func (d *Document) Content() string {
	parts := make([]string, 0, len(d.tokens))
	for tok := range d.All() {
		switch t := tok.(type) {
		case *Tag:
			parts = append(parts, t.Name())
		case *Text:
			parts = append(parts, t.Text())
		}
	}
	return strings.Join(parts, " ")
}

// Reader returns a reader over Content.
func (d *Document) Reader() io.Reader {
	return strings.NewReader(d.Content())
}

// Tags returns the tag tokens in stream order.
func (d *Document) Tags() []*Tag {
	var tags []*Tag
	for tok := range d.All() {
		if t, ok := tok.(*Tag); ok {
			tags = append(tags, t)
		}
	}
	return tags
}

// Texts returns the text tokens in stream order.
func (d *Document) Texts() []*Text {
	var texts []*Text
	for tok := range d.All() {
		if t, ok := tok.(*Text); ok {
			texts = append(texts, t)
		}
	}
	return texts
}
