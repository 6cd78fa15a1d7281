package media

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"unicode"

	"github.com/vmunix/epmatch/internal/ocr"
)

// SubtitleViewer extracts the best subtitle track of a video file and
// pages its text for operator review. Image-based tracks are decoded and
// run through OCR; text tracks are shown as-is.
type SubtitleViewer struct {
	Pager string

	// NewEngine constructs the OCR engine on demand; it is only invoked
	// for image-based tracks.
	NewEngine func(ctx context.Context) (ocr.Engine, error)

	Log *slog.Logger
}

// Review selects, extracts and displays the subtitle text for the file.
func (v *SubtitleViewer) Review(ctx context.Context, videoPath string) error {
	track, err := BestSubtitleTrack(ctx, videoPath)
	if err != nil {
		return err
	}
	if v.Log != nil {
		v.Log.Info("using subtitle track", "index", track.Index, "codec", string(track.Codec))
	}

	tempDir, err := os.MkdirTemp("", "epmatch-subs-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	subPath := filepath.Join(tempDir, "extracted."+track.Codec.Ext())
	if err := ExtractSubtitleTrack(ctx, videoPath, track.Index, subPath); err != nil {
		return err
	}

	var engine ocr.Engine
	if track.Codec.ImageBased() {
		if v.NewEngine == nil {
			return fmt.Errorf("track %d is image-based and no OCR engine is available", track.Index)
		}
		engine, err = v.NewEngine(ctx)
		if err != nil {
			return err
		}
		defer engine.Close()
	}

	return v.page(ctx, func(w io.Writer) error {
		if track.Codec.ImageBased() {
			return v.writePGSText(subPath, engine, w)
		}
		return writeTextLines(subPath, w)
	})
}

// page runs the operator's pager and feeds it the produced text. A pager
// closed early (operator quit) is not an error.
func (v *SubtitleViewer) page(ctx context.Context, produce func(io.Writer) error) error {
	pager := v.Pager
	if pager == "" {
		pager = "less"
	}

	cmd := exec.CommandContext(ctx, pager)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open pager stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn pager %q: %w", pager, err)
	}

	produceErr := produce(stdin)
	stdin.Close()
	waitErr := cmd.Wait()

	if produceErr != nil && !isClosedPipe(produceErr) {
		return produceErr
	}
	if waitErr != nil {
		return fmt.Errorf("pager: %w", waitErr)
	}
	return nil
}

// printablePunct is the ASCII punctuation kept in recognized text.
const printablePunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// cleanOCRText fixes the engine's habitual pipe-for-I confusion against
// subtitle fonts and drops unprintable characters.
func cleanOCRText(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '|':
			return 'I'
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
			return r
		case strings.ContainsRune(printablePunct, r):
			return r
		default:
			return -1
		}
	}, text)
	return strings.TrimSpace(cleaned)
}

// isClosedPipe reports whether the pager quit before reading all input.
func isClosedPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}

// writeTextLines streams a text subtitle file to the pager.
func writeTextLines(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open subtitle file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// writePGSText decodes each display set, OCRs it and writes the
// recognized lines with their presentation timestamps.
func (v *SubtitleViewer) writePGSText(path string, engine ocr.Engine, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open subtitle file: %w", err)
	}
	defer f.Close()

	images, err := DecodePGS(bufio.NewReader(f))
	if err != nil && len(images) == 0 {
		return fmt.Errorf("decode PGS stream: %w", err)
	}

	for _, sub := range images {
		var buf bytes.Buffer
		if err := png.Encode(&buf, sub.Image); err != nil {
			if v.Log != nil {
				v.Log.Warn("failed to encode subtitle image", "pts", sub.PTS, "error", err)
			}
			continue
		}

		text, err := engine.Recognize(buf.Bytes())
		if err != nil {
			if v.Log != nil {
				v.Log.Warn("OCR failed on subtitle image", "pts", sub.PTS, "error", err)
			}
			continue
		}

		text = cleanOCRText(text)
		if text == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "[%s]\n%s\n\n", sub.PTS.Truncate(0), text); err != nil {
			return err
		}
	}
	return nil
}
