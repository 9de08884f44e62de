package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/GriffinCanCode/markscan/internal/shared/id"
	"go.uber.org/zap"
)

// ResultStore persists records under dir as <ulid><codec ext>[<compression ext>].
type ResultStore struct {
	dir         string
	codec       Codec
	compression Format
	logger      *logging.Logger
}

// NewResultStore creates dir if needed and returns a store writing with
// codec and compression.
func NewResultStore(dir string, codec Codec, compression Format, logger *logging.Logger) (*ResultStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("result store directory is required")
	}
	if _, err := Compress(compression, nil); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create result store: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ResultStore{
		dir:         dir,
		codec:       codec,
		compression: compression,
		logger:      logger.Named("store"),
	}, nil
}

// Dir returns the store directory.
func (s *ResultStore) Dir() string {
	return s.dir
}

// Save encodes v and writes it under a fresh ID.
func (s *ResultStore) Save(ctx context.Context, v any) (id.ResultID, error) {
	rid := id.NewResultID()
	if err := s.SaveAs(ctx, rid, v); err != nil {
		return "", err
	}
	return rid, nil
}

// SaveAs encodes v and writes it under rid, replacing any previous record.
func (s *ResultStore) SaveAs(ctx context.Context, rid id.ResultID, v any) error {
	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.codec.Name, err)
	}
	data, err = Compress(s.compression, data)
	if err != nil {
		return err
	}

	path := s.path(rid)
	if err := WriteFile(ctx, path, data); err != nil {
		return err
	}

	s.logger.Debug("Result saved",
		zap.String("id", rid.String()),
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Load decodes the record rid into v. Records written with any codec or
// compression are readable; the file name says which.
func (s *ResultStore) Load(rid id.ResultID, v any) error {
	path, err := s.find(rid)
	if err != nil {
		return err
	}

	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	codec, compression, err := splitName(filepath.Base(path))
	if err != nil {
		return err
	}
	data, err = Decompress(compression, data, 0)
	if err != nil {
		return err
	}
	if err := codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// List returns stored IDs oldest first.
func (s *ResultStore) List() ([]id.ResultID, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list result store: %w", err)
	}

	var ids []id.ResultID
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		base, _, _ := strings.Cut(e.Name(), ".")
		if id.IsValid(base) {
			ids = append(ids, id.ResultID(base))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Delete removes the record rid.
func (s *ResultStore) Delete(rid id.ResultID) error {
	path, err := s.find(rid)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", rid, err)
	}
	return nil
}

func (s *ResultStore) path(rid id.ResultID) string {
	return filepath.Join(s.dir, rid.String()+s.codec.Extension+s.compression.Extension())
}

func (s *ResultStore) find(rid id.ResultID) (string, error) {
	if !id.IsValid(rid.String()) {
		return "", fmt.Errorf("invalid result id %q", rid)
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, rid.String()+".*"))
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		if !strings.HasSuffix(m, lockSuffix) {
			return m, nil
		}
	}
	return "", fmt.Errorf("result %s: %w", rid, os.ErrNotExist)
}

// splitName recovers codec and compression from "<id>.<codec>[.<comp>]".
func splitName(name string) (Codec, Format, error) {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return Codec{}, "", fmt.Errorf("malformed result file name %q", name)
	}
	codec, err := ParseCodec(parts[1])
	if err != nil {
		return Codec{}, "", err
	}
	compression := None
	if len(parts) > 2 {
		if compression, err = ParseFormat(parts[2]); err != nil {
			return Codec{}, "", err
		}
	}
	return codec, compression, nil
}
