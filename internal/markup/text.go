package markup

// Text is a run of character data between two tags.
type Text struct {
	text string
}

// NewText creates a text token holding s.
func NewText(s string) *Text {
	return &Text{text: s}
}

// Text returns the character data.
func (t *Text) Text() string { return t.text }

// SetText replaces the character data.
func (t *Text) SetText(s string) { t.text = s }

// Append adds s to the end of the character data.
func (t *Text) Append(s string) { t.text += s }

// Kind implements Token.
func (t *Text) Kind() Kind { return KindText }

func (t *Text) token() {}

func (t *Text) String() string { return t.text }
