package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

var (
	// ErrUnsupportedFormat is returned for compression formats without a codec.
	ErrUnsupportedFormat = errors.New("unsupported compression format")
	// ErrTooLarge is returned when decoded data exceeds the caller's limit.
	ErrTooLarge = errors.New("decompressed data too large")
)

// Format names a compression format.
type Format string

const (
	None    Format = "none"
	Gzip    Format = "gzip"
	Deflate Format = "deflate"
	Zip     Format = "zip"
	Zstd    Format = "zstd"
)

// zstdMinWindow keeps frames written with the default 8 MiB window decodable
// under small limits.
const zstdMinWindow = 8 << 20

// zipEntry is the name of the single member written by Compress(Zip, ...).
const zipEntry = "content"

// ParseFormat maps a name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "none", "identity":
		return None, nil
	case "gzip", "gz", "x-gzip":
		return Gzip, nil
	case "deflate":
		return Deflate, nil
	case "zip":
		return Zip, nil
	case "zstd", "zst":
		return Zstd, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Extension returns the file suffix for f, "" for None.
func (f Format) Extension() string {
	switch f {
	case Gzip:
		return ".gz"
	case Deflate:
		return ".deflate"
	case Zip:
		return ".zip"
	case Zstd:
		return ".zst"
	}
	return ""
}

// DetectFormat sniffs data. Raw deflate streams carry no signature and are
// reported as None.
func DetectFormat(data []byte) Format {
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("application/gzip"):
		return Gzip
	case mtype.Is("application/zip"):
		return Zip
	case mtype.Is("application/zstd"):
		return Zstd
	}
	return None
}

// Compress encodes data with format.
func Compress(format Format, data []byte) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case None:
		return data, nil
	case Gzip:
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
	case Deflate:
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
	case Zip:
		zw := zip.NewWriter(&buf)
		w, err := zw.Create(zipEntry)
		if err != nil {
			return nil, fmt.Errorf("zip: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("zip: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("zip: %w", err)
		}
	case Zstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return buf.Bytes(), nil
}

// Decompress decodes data with format. For Zip the first member is returned.
// A positive limit bounds the decoded size: decoding stops after limit+1
// bytes and ErrTooLarge is returned.
func Decompress(format Format, data []byte, limit int64) ([]byte, error) {
	switch format {
	case None:
		if limit > 0 && int64(len(data)) > limit {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
		}
		return data, nil
	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer r.Close()
		return readAll("gzip", r, limit)
	case Deflate:
		r := flate.NewReader(bytes.NewReader(data))
		defer r.Close()
		return readAll("deflate", r, limit)
	case Zip:
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("zip: %w", err)
		}
		if len(zr.File) == 0 {
			return nil, errors.New("zip: archive is empty")
		}
		r, err := zr.File[0].Open()
		if err != nil {
			return nil, fmt.Errorf("zip: %w", err)
		}
		defer r.Close()
		return readAll("zip", r, limit)
	case Zstd:
		opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
		if limit > 0 {
			opts = append(opts, zstd.WithDecoderMaxMemory(max(uint64(limit)+1, zstdMinWindow)))
		}
		dec, err := zstd.NewReader(bytes.NewReader(data), opts...)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		out, err := readAll("zstd", dec, limit)
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
		}
		return out, err
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// DecompressAuto sniffs data and decodes it when a signature is recognized.
func DecompressAuto(data []byte, limit int64) ([]byte, Format, error) {
	format := DetectFormat(data)
	out, err := Decompress(format, data, limit)
	return out, format, err
}

func readAll(name string, r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if limit > 0 && int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: %s output exceeds %d bytes", ErrTooLarge, name, limit)
	}
	return out, nil
}
