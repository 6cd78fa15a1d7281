package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/vmunix/epmatch/internal/catalog"
	"github.com/vmunix/epmatch/internal/config"
	"github.com/vmunix/epmatch/internal/extract"
	"github.com/vmunix/epmatch/internal/match"
	"github.com/vmunix/epmatch/internal/media"
	"github.com/vmunix/epmatch/internal/ocr"
	"github.com/vmunix/epmatch/internal/prompt"
	"github.com/vmunix/epmatch/internal/rename"
	"github.com/vmunix/epmatch/pkg/tvdb"
)

func run(ctx context.Context, inputs []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	unlock, err := acquireRunLock()
	if err != nil {
		return err
	}
	defer unlock()

	files, err := collectFiles(inputs, recursive, log)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .mkv files found under the given inputs")
	}

	if cfg.PromptSize > 0 && !prompt.Interactive() {
		log.Warn("stdin is not a terminal, disabling manual entry prompts")
		cfg.PromptSize = 0
	}

	prompter := prompt.New(os.Stdin, os.Stderr)
	client := tvdb.New(cfg.TVDBAPIKey, tvdb.WithLogger(log))
	svc := catalog.NewService(client, log)

	seriesID := showID
	if seriesID == "" {
		seriesID, err = resolveShow(ctx, svc, prompter, showName)
		if err != nil {
			return err
		}
	}

	cache := catalog.Load(config.CachePath())
	if err := svc.EnsureEpisodes(ctx, seriesID, cache); err != nil {
		return err
	}
	series, err := svc.SeriesName(ctx, seriesID, cache)
	if err != nil {
		return err
	}
	log.Info("identified show", "series_id", seriesID, "name", series)

	matcher, cleanup, err := buildMatcher(ctx, cfg, prompter, log)
	if err != nil {
		return err
	}
	defer cleanup()

	var confirm rename.Confirmer
	if !noConfirm {
		confirm = prompter
	}

	for _, file := range files {
		if err := processFile(ctx, file, series, seriesID, cache, matcher, confirm, log); err != nil {
			log.Error("failed to process file", "file", file, "error", err)
		}
	}

	if err := cache.Save(); err != nil {
		log.Warn("failed to save episode cache", "error", err)
	}
	return nil
}

// applyFlagOverrides layers explicitly-set flags over the config file.
// --prompt-size is gated on the flag being set so an explicit 0 can
// disable a threshold configured in the file.
func applyFlagOverrides(cfg *config.Config) {
	if promptSizeSet {
		cfg.PromptSize = promptSize
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

// processFile identifies one file and renames it in place.
func processFile(ctx context.Context, path, series, seriesID string, cache *catalog.Cache, matcher match.Matcher, confirm rename.Confirmer, log *slog.Logger) error {
	entry, err := matcher.MatchEpisode(ctx, path, seriesID, cache)
	if err != nil {
		return err
	}
	if entry == nil {
		log.Warn("could not identify episode", "file", path)
		return nil
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	candidate := rename.GenerateFilename(series, entry.SeasonNumber, entry.EpisodeNumber, entry.Name, ext)
	target, err := rename.FindUniqueFilename(path, filepath.Dir(path), candidate)
	if err != nil {
		return err
	}

	err = rename.Rename(path, target, confirm)
	switch {
	case errors.Is(err, rename.ErrDeclined):
		log.Info("rename declined", "file", path)
		return nil
	case err != nil:
		return err
	}

	if path != target {
		log.Info("renamed", "from", path, "to", target)
	}
	return nil
}

// buildMatcher constructs the configured matching strategy. The cleanup
// releases the OCR engine when one was created.
func buildMatcher(ctx context.Context, cfg *config.Config, prompter *prompt.Prompter, log *slog.Logger) (match.Matcher, func(), error) {
	switch matchMode {
	case "production-code":
		engine, err := ocr.NewTesseract(ctx, config.Dir(), log)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize OCR engine: %w", err)
		}
		m := &match.ProductionCodeMatcher{
			Extractor:  extract.NewPipeline(engine, log),
			Prompter:   prompter,
			PromptSize: cfg.PromptSize,
			Log:        log,
		}
		return m, func() { engine.Close() }, nil

	case "subtitles":
		viewer := &media.SubtitleViewer{
			Pager: cfg.Pager,
			NewEngine: func(ctx context.Context) (ocr.Engine, error) {
				return ocr.NewTesseract(ctx, config.Dir(), log)
			},
			Log: log,
		}
		m := &match.SubtitleMatcher{
			Reviewer: viewer,
			Prompter: prompter,
			Log:      log,
		}
		return m, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown match mode %q (want production-code or subtitles)", matchMode)
	}
}

// acquireRunLock takes the single-instance lock. Cache writes are
// last-write-wins, so concurrent runs would silently lose sync work.
func acquireRunLock() (func(), error) {
	path := config.LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another epmatch run is already active (lock %s)", path)
	}
	return func() { lock.Unlock() }, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), nil
}
