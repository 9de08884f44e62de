package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/markscan/internal/report"
	"github.com/GriffinCanCode/markscan/internal/storage"
)

func writeTree(t *testing.T, files map[string][]byte) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return root
}

func TestNewRunnerValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"markup mode", Options{Mode: report.KindMarkup}, false},
		{"unknown mode", Options{Mode: "pdf"}, true},
		{"bad pattern", Options{Pattern: "[abc"}, true},
		{"explicit format", Options{Decompress: "zstd"}, false},
		{"unknown format", Options{Decompress: "rar"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	root := writeTree(t, map[string][]byte{
		"index.html":        []byte("<p>x</p>"),
		"docs/a.htm":        []byte("<p>x</p>"),
		"docs/deep/b.xml":   []byte("<r/>"),
		"docs/notes.txt":    []byte("plain"),
		"assets/style.css":  []byte("p{}"),
		"docs/deep/c.XHTML": []byte("<p/>"),
	})
	extra := filepath.Join(root, "docs", "notes.txt")

	r, err := NewRunner(Options{})
	require.NoError(t, err)

	files, err := r.Collect(context.Background(), []string{root, extra})
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		p, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(p))
	}
	assert.Equal(t, []string{"docs/a.htm", "docs/deep/b.xml", "docs/notes.txt", "index.html"}, rel)

	_, err = r.Collect(context.Background(), []string{filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestScanFile(t *testing.T) {
	gz, err := storage.Compress(storage.Gzip, []byte("<title>Zipped</title><p>x</p>"))
	require.NoError(t, err)

	root := writeTree(t, map[string][]byte{
		"plain.html":  []byte(`<title>Plain</title><a href="/a">a</a><p>x</p>`),
		"zipped.html": gz,
		"broken.html": []byte("<p>x<>y</p>"),
		"doc.xml":     []byte(`<?xml encoding="ISO-8859-1"?><r>v</r>`),
		"empty.html":  nil,
	})

	html, err := NewRunner(Options{})
	require.NoError(t, err)

	rep, err := html.ScanFile(filepath.Join(root, "plain.html"))
	require.NoError(t, err)
	assert.Equal(t, report.KindHTML, rep.Kind)
	assert.Equal(t, "Plain", rep.HTML.TitleOr(""))
	assert.Equal(t, []string{"/a"}, rep.HTML.Links)
	assert.Len(t, rep.Checksum, 64)
	assert.Equal(t, filepath.Join(root, "plain.html"), rep.Source)

	rep, err = html.ScanFile(filepath.Join(root, "zipped.html"))
	require.NoError(t, err)
	assert.Equal(t, "Zipped", rep.HTML.TitleOr(""))

	_, err = html.ScanFile(filepath.Join(root, "broken.html"))
	assert.ErrorContains(t, err, "html parse failed")

	_, err = html.ScanFile(filepath.Join(root, "empty.html"))
	assert.Error(t, err)

	markup, err := NewRunner(Options{Mode: report.KindMarkup})
	require.NoError(t, err)

	rep, err = markup.ScanFile(filepath.Join(root, "doc.xml"))
	require.NoError(t, err)
	require.NotNil(t, rep.Markup)
	require.NotNil(t, rep.Markup.Encoding)
	assert.Equal(t, "ISO-8859-1", *rep.Markup.Encoding)
	assert.Equal(t, "r v r", rep.Markup.Content)
}

func TestScanFileDecompressLimit(t *testing.T) {
	tests := []struct {
		name       string
		decompress string
	}{
		{"sniffed", DecompressAuto},
		{"named", "gzip"},
	}

	// 8 MiB of one byte gzips to a few KiB.
	gz, err := storage.Compress(storage.Gzip, bytes.Repeat([]byte("a"), 8<<20))
	require.NoError(t, err)
	root := writeTree(t, map[string][]byte{"big.html.gz": gz})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRunner(Options{Decompress: tt.decompress, MaxBytes: 1 << 20})
			require.NoError(t, err)

			_, err = r.ScanFile(filepath.Join(root, "big.html.gz"))
			assert.ErrorIs(t, err, storage.ErrTooLarge)
		})
	}
}

func TestRunToWriter(t *testing.T) {
	root := writeTree(t, map[string][]byte{
		"a.html": []byte("<title>A</title><p>x</p>"),
		"b.html": []byte("<title>B</title><p>x</p>"),
	})

	r, err := NewRunner(Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := r.Run(context.Background(), []string{root}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	dec := json.NewDecoder(&out)
	var titles []string
	for dec.More() {
		var rep report.Report
		require.NoError(t, dec.Decode(&rep))
		titles = append(titles, rep.HTML.TitleOr(""))
	}
	assert.Equal(t, []string{"A", "B"}, titles)
}

func TestRunYAMLSeparators(t *testing.T) {
	root := writeTree(t, map[string][]byte{
		"a.html": []byte("<p>x</p>"),
		"b.html": []byte("<p>y</p>"),
	})

	r, err := NewRunner(Options{Codec: storage.CodecYAML})
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = r.Run(context.Background(), []string{root}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.String(), "---\n"))
}

func TestRunReportsFailures(t *testing.T) {
	root := writeTree(t, map[string][]byte{
		"good.html": []byte("<p>x</p>"),
		"bad.html":  []byte("<p>x<>y</p>"),
	})

	r, err := NewRunner(Options{})
	require.NoError(t, err)

	n, err := r.Run(context.Background(), []string{root}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrFailures)
	assert.Equal(t, 1, n)
}

func TestRunToStore(t *testing.T) {
	root := writeTree(t, map[string][]byte{
		"a.xml": []byte("<r>1</r>"),
	})
	store, err := storage.NewResultStore(t.TempDir(), storage.CodecTOML, storage.Zstd, nil)
	require.NoError(t, err)

	r, err := NewRunner(Options{Mode: report.KindMarkup, Store: store})
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := r.Run(context.Background(), []string{root}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, out.Len())

	ids, err := store.List()
	require.NoError(t, err)
	require.Len(t, ids, 1)

	var rep report.Report
	require.NoError(t, store.Load(ids[0], &rep))
	assert.Equal(t, report.KindMarkup, rep.Kind)
	assert.Equal(t, "r 1 r", rep.Markup.Content)
}

func TestRunCanceled(t *testing.T) {
	root := writeTree(t, map[string][]byte{"a.html": []byte("<p>x</p>")})

	r, err := NewRunner(Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Run(ctx, []string{root}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
