package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributesSetGet(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("HREF", "/Index.html")
	attrs.Set("", "ignored")
	attrs.Set("checked", "")

	v, ok := attrs.Get("href")
	assert.True(t, ok)
	assert.Equal(t, "/Index.html", v)

	v, ok = attrs.Get("Checked")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = attrs.Get("missing")
	assert.False(t, ok)

	assert.True(t, attrs.Exists("HrEf"))
	assert.False(t, attrs.Exists(""))
	assert.Equal(t, 2, attrs.Len())
}

func TestAttributesNil(t *testing.T) {
	var attrs *Attributes

	_, ok := attrs.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, attrs.Len())
	assert.Empty(t, attrs.Names())
	assert.Empty(t, attrs.Map())
	assert.Equal(t, "", attrs.String())
}

func TestAttributesQuoted(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("title", `say "hi" \ bye`)
	attrs.Set("alt", "日本語")
	attrs.Set("empty", "")

	q, ok := attrs.Quoted("title")
	assert.True(t, ok)
	assert.Equal(t, `say \"hi\" \\ bye`, q)

	q, ok = attrs.Quoted("alt")
	assert.True(t, ok)
	assert.Equal(t, "日本語", q)

	q, ok = attrs.Quoted("empty")
	assert.True(t, ok)
	assert.Equal(t, "", q)

	_, ok = attrs.Quoted("absent")
	assert.False(t, ok)
}

func TestAttributesRender(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("class", `a "b"`)
	attrs.Set("disabled", "")

	assert.Equal(t, `class="a \"b\""`, attrs.Render("CLASS"))
	assert.Equal(t, "disabled", attrs.Render("disabled"))
	assert.Equal(t, "", attrs.Render("absent"))
	assert.Equal(t, `class="a \"b\"" disabled`, attrs.String())
}

func TestAttributesMapIsCopy(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("id", "main")

	m := attrs.Map()
	m["id"] = "changed"

	v, _ := attrs.Get("id")
	assert.Equal(t, "main", v)
}

// TestQuotedRoundTrip renders a value through Quoted and parses it back
// through a synthetic tag.
func TestQuotedRoundTrip(t *testing.T) {
	values := []string{
		`a"b`,
		`back\slash`,
		`both " and \ here`,
		`\"`,
		`plain`,
	}

	for _, v := range values {
		attrs := NewAttributes()
		attrs.Set("v", v)
		q, _ := attrs.Quoted("v")

		tag, err := ParseTag(`x v="` + q + `"`)
		assert.NoError(t, err)
		if tag == nil {
			continue
		}
		got, ok := tag.Attr("v")
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}
}
