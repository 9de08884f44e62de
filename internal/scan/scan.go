// Package scan runs the parsers over files on disk. It backs the scan
// command.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/GriffinCanCode/markscan/internal/providers/scraper"
	"github.com/GriffinCanCode/markscan/internal/report"
	"github.com/GriffinCanCode/markscan/internal/shared/id"
	"github.com/GriffinCanCode/markscan/internal/storage"
)

// DefaultPattern selects the files scanned inside directories.
const DefaultPattern = "**/*.{html,htm,xml}"

// DecompressAuto sniffs each file for a compression format.
const DecompressAuto = "auto"

// ErrFailures is returned by Run when at least one file failed.
var ErrFailures = errors.New("some files failed")

// Options configures a Runner.
type Options struct {
	// Mode is report.KindHTML or report.KindMarkup.
	Mode report.Kind
	// Pattern filters files found in directories. Paths named directly are
	// always scanned.
	Pattern string
	// Decompress is "auto", "none" or a storage.Format name.
	Decompress string
	Codec      storage.Codec
	// Store, when set, receives every report instead of the output writer.
	Store    *storage.ResultStore
	MaxBytes int64
	Logger   *logging.Logger
}

// Runner scans files and emits reports.
type Runner struct {
	opts     Options
	provider *scraper.Provider
	logger   *logging.Logger
}

// NewRunner validates opts and returns a Runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Mode == "" {
		opts.Mode = report.KindHTML
	}
	if opts.Mode != report.KindHTML && opts.Mode != report.KindMarkup {
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(opts.Pattern) {
		return nil, fmt.Errorf("invalid pattern %q", opts.Pattern)
	}
	if opts.Decompress == "" {
		opts.Decompress = DecompressAuto
	}
	if opts.Decompress != DecompressAuto {
		if _, err := storage.ParseFormat(opts.Decompress); err != nil {
			return nil, err
		}
	}
	if opts.Codec.Marshal == nil {
		opts.Codec = storage.CodecJSON
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	return &Runner{
		opts: opts,
		provider: scraper.NewProvider(scraper.Options{
			MaxInputBytes: opts.MaxBytes,
			Logger:        opts.Logger,
		}),
		logger: opts.Logger.Named("scan"),
	}, nil
}

// Collect expands paths into a sorted list of files. Directories are walked
// and filtered by the pattern, matched against paths relative to the
// directory.
func (r *Runner) Collect(ctx context.Context, paths []string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		conf := fastwalk.Config{Follow: false}
		err = fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				r.logger.Warn("Skipping unreadable path", zap.String("path", p), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(root, p)
			if err != nil {
				return nil
			}
			if ok, _ := doublestar.Match(r.opts.Pattern, filepath.ToSlash(rel)); ok {
				mu.Lock()
				files = append(files, p)
				mu.Unlock()
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ScanFile reads, decompresses, decodes and parses one file.
func (r *Runner) ScanFile(path string) (*report.Report, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if data, err = r.decompress(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	content, _, err := scraper.DecodeBytes(data, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := r.provider.Ops().ValidateContent(content); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rid := id.NewResultID().String()
	var rep *report.Report
	switch r.opts.Mode {
	case report.KindMarkup:
		doc, err := r.provider.Tokenizer().Tokenize(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rep = report.NewMarkup(rid, path, doc)
	default:
		res, err := r.provider.Extractor().Extract(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rep = report.NewHTML(rid, path, res)
	}
	rep.Checksum = storage.Checksum(data, storage.SHA256)
	return rep, nil
}

func (r *Runner) decompress(data []byte) ([]byte, error) {
	if r.opts.Decompress == DecompressAuto {
		out, _, err := storage.DecompressAuto(data, r.provider.Ops().MaxBytes())
		return out, err
	}
	format, err := storage.ParseFormat(r.opts.Decompress)
	if err != nil {
		return nil, err
	}
	return storage.Decompress(format, data, r.provider.Ops().MaxBytes())
}

// Run scans every file under paths. Reports go to the store when one is
// configured, otherwise they are encoded to out one after another. Files
// that fail are logged and counted; Run then returns ErrFailures.
func (r *Runner) Run(ctx context.Context, paths []string, out io.Writer) (int, error) {
	files, err := r.Collect(ctx, paths)
	if err != nil {
		return 0, err
	}

	failed := 0
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return i - failed, err
		}

		rep, err := r.ScanFile(path)
		if err != nil {
			failed++
			r.logger.Error("Scan failed", zap.String("path", path), zap.Error(err))
			continue
		}
		if err := r.emit(ctx, rep, out); err != nil {
			return i - failed, err
		}
		r.logger.Debug("Scanned", zap.String("path", path), zap.String("id", rep.ID))
	}

	r.logger.Info("Scan complete",
		zap.Int("files", len(files)),
		zap.Int("failed", failed),
	)
	scanned := len(files) - failed
	if failed > 0 {
		return scanned, fmt.Errorf("%w: %d of %d", ErrFailures, failed, len(files))
	}
	return scanned, nil
}

func (r *Runner) emit(ctx context.Context, rep *report.Report, out io.Writer) error {
	if r.opts.Store != nil {
		return r.opts.Store.SaveAs(ctx, id.ResultID(rep.ID), rep)
	}

	data, err := r.opts.Codec.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode %s: %w", rep.Source, err)
	}
	if r.opts.Codec.Name == storage.CodecYAML.Name {
		if _, err := io.WriteString(out, "---\n"); err != nil {
			return err
		}
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = io.WriteString(out, "\n")
	}
	return err
}
