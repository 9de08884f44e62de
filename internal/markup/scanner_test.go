package markup

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect drains the scanner into a flat description of its tokens.
func collect(t *testing.T, sc *Scanner) ([]string, error) {
	t.Helper()
	var out []string
	for tok, err := range sc.All() {
		if err != nil {
			return out, err
		}
		switch v := tok.(type) {
		case *Tag:
			out = append(out, v.String())
		case *Text:
			out = append(out, "text:"+v.Text())
		}
	}
	return out, nil
}

func TestScannerSegments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "<p>hello</p>", []string{"<p>", "text:hello", "</p>"}},
		{"empty", "", nil},
		{"no markup", "just text", nil},
		{"whitespace between tags", "<ul>\n  <li>a</li>\n</ul>", []string{"<ul>", "<li>", "text:a", "</li>", "</ul>"}},
		{"trimmed text", "<p>\t hi \n</p>", []string{"<p>", "text:hi", "</p>"}},
		{"nbsp survives trim", "<p>\u00a0hi</p>", []string{"<p>", "text:\u00a0hi", "</p>"}},
		{"trailing text dropped", "<p>hello", []string{"<p>"}},
		{"self closing", "<br/>x", []string{"<br/>"}},
		{"attributes", `<a href="/a">1</a>`, []string{`<a href="/a">`, "text:1", "</a>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collect(t, NewScanner(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestScannerLeadingCloseBracket pins the boundary rule: a separator found at
// buffer position 0 ends the scan.
func TestScannerLeadingCloseBracket(t *testing.T) {
	got, err := collect(t, NewScanner(">abc<b>"))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = collect(t, NewScanner(" >abc<b>"))
	assert.ErrorIs(t, err, ErrEmptyTag, "a blank first segment is an empty tag")
}

func TestScannerAtFirstTag(t *testing.T) {
	got, err := collect(t, NewScannerAtFirstTag("junk before <a>b</a>"))
	require.NoError(t, err)
	assert.Equal(t, []string{"<a>", "text:b", "</a>"}, got)

	got, err = collect(t, NewScannerAtFirstTag(">abc<b>"))
	require.NoError(t, err)
	assert.Equal(t, []string{"<b>"}, got)
}

func TestScannerEmptyTag(t *testing.T) {
	sc := NewScanner("<p>x<>")

	tok, err := sc.Next()
	require.NoError(t, err)
	assert.Equal(t, "p", tok.(*Tag).Name())

	tok, err = sc.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", tok.(*Text).Text())

	_, err = sc.Next()
	require.Error(t, err)
	var tpe *TagParseError
	require.True(t, errors.As(err, &tpe))
	assert.Equal(t, 5, tpe.Offset)
	assert.Contains(t, err.Error(), "offset 5")

	// The scanner stays finished after a failure.
	_, err = sc.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestScannerNextAfterEOF(t *testing.T) {
	sc := NewScanner("<a>")

	_, err := sc.Next()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = sc.Next()
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestScannerAllStopsEarly(t *testing.T) {
	sc := NewScanner("<a><b><c>")
	n := 0
	for range sc.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)

	tok, err := sc.Next()
	require.NoError(t, err)
	assert.Equal(t, "c", tok.(*Tag).Name())
}
