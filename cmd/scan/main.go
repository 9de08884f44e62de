package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/markscan/internal/infrastructure/config"
	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/GriffinCanCode/markscan/internal/report"
	"github.com/GriffinCanCode/markscan/internal/scan"
	"github.com/GriffinCanCode/markscan/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.LoadOrDefault()

	mode := flag.String("mode", string(report.KindHTML), "Parser: html or markup")
	pattern := flag.String("pattern", scan.DefaultPattern, "Glob selecting files inside directories")
	decompress := flag.String("decompress", scan.DecompressAuto, "auto, none, gzip, deflate, zip or zstd")
	format := flag.String("format", cfg.Store.Format, "Output format: json, yaml or toml")
	compression := flag.String("compression", cfg.Store.Compression, "Compression of stored results (with -out)")
	out := flag.String("out", cfg.Store.Dir, "Write results to this directory instead of stdout")
	maxBytes := flag.Int64("max-bytes", cfg.Limits.MaxInputBytes, "Largest decoded document accepted")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	logCfg := logging.DevelopmentConfig()
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer logger.Sync()
	if !*verbose {
		logger.SetLevel(zap.InfoLevel)
	}

	codec, err := storage.ParseCodec(*format)
	if err != nil {
		logger.Error("Invalid format", zap.Error(err))
		return 2
	}

	var store *storage.ResultStore
	if *out != "" {
		comp, err := storage.ParseFormat(*compression)
		if err != nil {
			logger.Error("Invalid compression", zap.Error(err))
			return 2
		}
		if store, err = storage.NewResultStore(*out, codec, comp, logger); err != nil {
			logger.Error("Failed to open output directory", zap.Error(err))
			return 1
		}
	}

	runner, err := scan.NewRunner(scan.Options{
		Mode:       report.Kind(*mode),
		Pattern:    *pattern,
		Decompress: *decompress,
		Codec:      codec,
		Store:      store,
		MaxBytes:   *maxBytes,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("Invalid options", zap.Error(err))
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := runner.Run(ctx, flag.Args(), os.Stdout); err != nil {
		logger.Error("Scan failed", zap.Error(err))
		return 1
	}
	return 0
}
