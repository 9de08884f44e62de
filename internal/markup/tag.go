package markup

import (
	"strings"
)

const (
	escapeChar = '\\'
	quoteChar  = '"'
	slashChar  = '/'
	tagOpen    = '<'
	tagClose   = '>'
)

// Tag is one parsed <...> element.
type Tag struct {
	raw         string
	name        string
	end         bool
	selfClosing bool
	attrs       *Attributes
}

// ParseTag parses the inner text of one tag (the text between '<' and '>').
func ParseTag(raw string) (*Tag, error) {
	words, selfClosing := splitTag(raw)
	if len(words) == 0 {
		reason := ReasonMissingName
		if trimToken(raw) == "" {
			reason = ReasonEmptyTag
		}
		return nil, &TagParseError{Raw: raw, Reason: reason}
	}

	name := words[0].text
	if words[0].slash {
		selfClosing = true
		name = name[:len(name)-1]
	}
	leading := strings.HasPrefix(name, "/")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return nil, &TagParseError{Raw: raw, Reason: ReasonMissingName}
	}

	t := &Tag{
		raw:   raw,
		name:  strings.ToLower(name),
		attrs: NewAttributes(),
	}

	for _, w := range words[1:] {
		text := w.text
		if w.slash {
			selfClosing = true
			text = text[:len(text)-1]
		}
		if text == "" {
			continue
		}
		key, value, _ := strings.Cut(text, "=")
		t.attrs.Set(key, value)
	}

	// A trailing slash wins over a leading one: "</br/>" is self-closing.
	t.selfClosing = selfClosing
	t.end = leading && !selfClosing
	return t, nil
}

// tagWord is one whitespace-separated token of tag text. slash is set when
// the token ends with a '/' that was outside quotes.
type tagWord struct {
	text  string
	slash bool
}

// splitTag runs the quote/escape/whitespace state machine over raw tag text.
// The second result reports a trailing unquoted '/' before the end of the tag.
func splitTag(raw string) ([]tagWord, bool) {
	var (
		words       []tagWord
		buf         strings.Builder
		quoted      bool
		slash       bool
		selfClosing bool
	)

	flush := func() {
		if buf.Len() > 0 {
			words = append(words, tagWord{text: buf.String(), slash: slash})
			buf.Reset()
		}
		slash = false
	}

	runes := []rune(raw)
loop:
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == escapeChar && i+1 < len(runes) && (runes[i+1] == quoteChar || runes[i+1] == escapeChar) {
			i++
			buf.WriteRune(runes[i])
			slash = false
			continue
		}
		if r == quoteChar {
			quoted = !quoted
			continue
		}
		if quoted {
			buf.WriteRune(r)
			slash = false
			continue
		}

		switch {
		case r == tagOpen:
			continue
		case r == tagClose:
			break loop
		case r == slashChar && (i == len(runes)-1 || runes[i+1] == tagClose):
			flush()
			selfClosing = true
			break loop
		case isTagSpace(r):
			flush()
			continue
		}

		buf.WriteRune(r)
		slash = r == slashChar
	}
	flush()

	return words, selfClosing
}

func isTagSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Name returns the lower-cased tag name without slashes.
func (t *Tag) Name() string { return t.name }

// IsEnd reports a closing tag such as </div>.
func (t *Tag) IsEnd() bool { return t.end }

// IsSelfClosing reports a tag ending in '/' such as <br/>.
func (t *Tag) IsSelfClosing() bool { return t.selfClosing }

// Raw returns the tag text as delivered by the scanner.
func (t *Tag) Raw() string { return t.raw }

// Attributes returns the tag's attribute set. Callers must not modify it.
func (t *Tag) Attributes() *Attributes { return t.attrs }

// Attr returns an attribute value and whether it is present.
func (t *Tag) Attr(name string) (string, bool) { return t.attrs.Get(name) }

// HasAttr reports whether the attribute is present.
func (t *Tag) HasAttr(name string) bool { return t.attrs.Exists(name) }

// QuotedAttr returns an attribute value escaped for double-quoted output.
func (t *Tag) QuotedAttr(name string) (string, bool) { return t.attrs.Quoted(name) }

// Kind implements Token.
func (t *Tag) Kind() Kind { return KindTag }

func (t *Tag) token() {}

// String re-serializes the tag.
func (t *Tag) String() string {
	var sb strings.Builder
	sb.WriteByte(tagOpen)
	if t.end {
		sb.WriteByte(slashChar)
	}
	sb.WriteString(t.name)
	if t.attrs.Len() > 0 {
		sb.WriteByte(' ')
		sb.WriteString(t.attrs.String())
	}
	if t.selfClosing {
		sb.WriteByte(slashChar)
	}
	sb.WriteByte(tagClose)
	return sb.String()
}
