package markup

// Kind discriminates the two token variants.
type Kind int

const (
	KindTag Kind = iota + 1
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Token is either a *Tag or a *Text. The set of variants is closed.
type Token interface {
	Kind() Kind
	String() string
	token()
}

var (
	_ Token = (*Tag)(nil)
	_ Token = (*Text)(nil)
)
