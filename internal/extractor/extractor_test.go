package extractor

import (
	"errors"
	"io"
	"testing"

	"github.com/GriffinCanCode/markscan/internal/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html>
<head>
	<title>Caf&eacute; Menu</title>
	<meta name="author" value="Kitchen">
	<meta name="keywords" value="food, drink">
	<style>body { color: red; } a > b { }</style>
	<script src="/app.js"></script>
	<script>if (a < b && c > d) { document.write("<a href='/evil'>x</a>"); }</script>
</head>
<body>
	<h1>Today&nbsp;only</h1>
	<p>Fish &amp; chips</p>
	<a href="/menu">Menu</a>
	<frame src="/side.html">
	<a name="anchor">no href</a>
</body>
</html>`

func TestExtractPage(t *testing.T) {
	res, err := Extract(samplePage)
	require.NoError(t, err)

	require.NotNil(t, res.Title)
	assert.Equal(t, "Café Menu", *res.Title)
	assert.Equal(t, []string{"/menu", "/side.html"}, res.Links)
	assert.Equal(t, map[string]string{"author": "Kitchen", "keywords": "food, drink"}, res.Meta)
	assert.Equal(t, "Today\u00a0only Fish & chips Menu no href ", res.Text)
	assert.NotContains(t, res.Text, "color")
	assert.NotContains(t, res.Text, "document")
}

func TestExtractScriptSuppression(t *testing.T) {
	res, err := Extract(`<script>var x = "<b>";</script><p>hello</p>`)
	require.NoError(t, err)

	assert.Equal(t, "hello ", res.Text)
	assert.Empty(t, res.Links)
}

func TestExtractLinkOrder(t *testing.T) {
	res, err := Extract(`<a href="/a">1</a><a href="/b">2</a><a href="/a">3</a>`)
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/b", "/a"}, res.Links)
	assert.Equal(t, "1 2 3 ", res.Text)
}

func TestExtractTitleOnce(t *testing.T) {
	res, err := Extract(`<title>First</title><title>Second</title>`)
	require.NoError(t, err)

	require.NotNil(t, res.Title)
	assert.Equal(t, "First", *res.Title)
	assert.Equal(t, "Second ", res.Text)
	assert.Equal(t, "First", res.TitleOr("untitled"))
}

func TestExtractMetaOverwrite(t *testing.T) {
	res, err := Extract(`<meta name="x" value="1"><meta name="x" value="2"><meta name="y"><meta value="z">`)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"x": "2"}, res.Meta)
}

func TestExtractEmpty(t *testing.T) {
	res, err := Extract("")
	require.NoError(t, err)

	assert.Empty(t, res.Text)
	assert.Empty(t, res.Links)
	assert.NotNil(t, res.Links)
	assert.Empty(t, res.Meta)
	assert.Nil(t, res.Title)
	assert.Equal(t, "untitled", res.TitleOr("untitled"))
}

func TestExtractSuppressionRules(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
		links []string
	}{
		{
			name:  "style body hidden",
			input: `<style>p { x: y }</style><p>shown</p>`,
			text:  "shown ",
			links: []string{},
		},
		{
			name:  "script with src does not suppress",
			input: `<script src="/x.js">visible</script>`,
			text:  "visible ",
			links: []string{},
		},
		{
			name:  "links inside script ignored",
			input: `<script><a href="/hidden"></a><frame src="/f"></script><a href="/shown">ok</a>`,
			text:  "ok ",
			links: []string{"/shown"},
		},
		{
			name:  "any end tag clears suppression",
			input: `<script>code</style><p>after</p>`,
			text:  "after ",
			links: []string{},
		},
		{
			name:  "upper case tag names",
			input: `<SCRIPT>code</SCRIPT><A HREF="/up">Up</A>`,
			text:  "Up ",
			links: []string{"/up"},
		},
		{
			name:  "unterminated trailing text dropped",
			input: `<p>kept</p>lost`,
			text:  "kept ",
			links: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.text, res.Text)
			assert.Equal(t, tt.links, res.Links)
		})
	}
}

func TestExtractTitleWhileSuppressed(t *testing.T) {
	res, err := Extract(`<title><script>x</script>Real</title>`)
	require.NoError(t, err)

	require.NotNil(t, res.Title)
	assert.Equal(t, "Real", *res.Title)
	assert.Empty(t, res.Text)
}

func TestExtractLinksAreRaw(t *testing.T) {
	res, err := Extract(`<a href="../x?a=1&amp;b=2">x</a>`)
	require.NoError(t, err)

	assert.Equal(t, []string{"../x?a=1&b=2"}, res.Links)
}

func TestExtractParseFailure(t *testing.T) {
	res, err := Extract(`<p>ok</p><>`)
	require.Error(t, err)
	assert.Nil(t, res)

	var pf *markup.ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.Equal(t, "html", pf.Source)
	assert.ErrorIs(t, err, markup.ErrEmptyTag)
}

func TestResultReader(t *testing.T) {
	res, err := Extract(`<p>read me</p>`)
	require.NoError(t, err)

	b, err := io.ReadAll(res.Reader())
	require.NoError(t, err)
	assert.Equal(t, "read me ", string(b))
}

func BenchmarkExtract(b *testing.B) {
	b.SetBytes(int64(len(samplePage)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Extract(samplePage); err != nil {
			b.Fatal(err)
		}
	}
}
