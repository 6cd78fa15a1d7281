// Package extract turns a video file into an ordered list of
// production-code-shaped strings by sampling tail frames, running OCR
// over each and pattern-matching the recognized text.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/vmunix/epmatch/internal/media"
	"github.com/vmunix/epmatch/internal/ocr"
)

// codePattern matches the production-code shape: one digit, one to three
// letters, two to three digits. Covers early "3X22"-style codes through
// later "6ABX08"/"1AYW01"-style ones. Matching happens after confusable
// normalization, so no letter O/I/S can appear in the digit positions.
var codePattern = regexp.MustCompile(`\d[A-Za-z]{1,3}\d{2,3}`)

// confusables is the fixed substitution table for characters the OCR
// engine habitually misreads against the credits font.
var confusables = strings.NewReplacer(
	"O", "0",
	"I", "1",
	"S", "5",
	"?", "X",
)

// Pipeline extracts production-code candidates from video files.
type Pipeline struct {
	engine ocr.Engine
	log    *slog.Logger
}

// NewPipeline creates an extraction pipeline around an OCR engine.
func NewPipeline(engine ocr.Engine, log *slog.Logger) *Pipeline {
	return &Pipeline{engine: engine, log: log}
}

// ExtractCandidates samples frames from the file's tail and returns
// every production-code-shaped match, in frame order. Per-frame OCR
// failures are skipped; a failing or missing media tool is fatal. The
// pipeline never consults the episode cache.
func (p *Pipeline) ExtractCandidates(ctx context.Context, videoPath string) ([]string, error) {
	tempDir, err := os.MkdirTemp("", "epmatch-frames-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := media.SampleTailFrames(ctx, videoPath, tempDir); err != nil {
		return nil, err
	}

	return p.scanFrames(tempDir)
}

// scanFrames OCRs every PNG under dir in sorted filename order, which
// for the zero-padded frame numbers is chronological.
func (p *Pipeline) scanFrames(dir string) ([]string, error) {
	frames, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	sort.Strings(frames)

	var candidates []string
	for _, frame := range frames {
		image, err := os.ReadFile(frame)
		if err != nil {
			if p.log != nil {
				p.log.Warn("failed to read frame", "frame", frame, "error", err)
			}
			continue
		}

		text, err := p.engine.Recognize(image)
		if err != nil {
			if p.log != nil {
				p.log.Warn("OCR failed on frame", "frame", frame, "error", err)
			}
			continue
		}

		candidates = append(candidates, FindCodes(text)...)
	}

	return candidates, nil
}

// FindCodes normalizes raw OCR text and returns every production-code
// match, in order of appearance.
func FindCodes(text string) []string {
	return codePattern.FindAllString(Normalize(text), -1)
}

// Normalize strips all whitespace from OCR output and applies the
// confusable-character table. It is idempotent.
func Normalize(text string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	return confusables.Replace(stripped)
}
