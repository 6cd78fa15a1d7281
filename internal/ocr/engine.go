// Package ocr wraps the tesseract engine behind a small text-recognition
// interface and handles locating or fetching the trained-data files the
// engine needs.
package ocr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in an encoded raster image.
type Engine interface {
	Recognize(image []byte) (string, error)
	Close() error
}

const trainedDataURL = "https://github.com/tesseract-ocr/tessdata_fast/raw/main/eng.traineddata"

// wellKnownTessdataDirs are checked, in order, for eng.traineddata when
// TESSDATA_PREFIX is not set.
var wellKnownTessdataDirs = []string{
	"/usr/share/tesseract-ocr/5/tessdata",
	"/usr/share/tesseract-ocr/4.00/tessdata",
	"/usr/share/tessdata",
	"/usr/local/share/tessdata",
	"/opt/homebrew/share/tessdata",
}

// Tesseract is the gosseract-backed Engine.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract initializes a tesseract engine for English text. Trained
// data is located via TESSDATA_PREFIX, then well-known system paths, and
// downloaded into dataDir as a last resort.
func NewTesseract(ctx context.Context, dataDir string, log *slog.Logger) (*Tesseract, error) {
	tessdata, err := ensureTrainedData(ctx, dataDir, log)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	if tessdata != "" {
		if err := client.SetTessdataPrefix(tessdata); err != nil {
			client.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language: %w", err)
	}

	return &Tesseract{client: client}, nil
}

// Recognize runs OCR over one encoded image and returns the raw text.
func (t *Tesseract) Recognize(image []byte) (string, error) {
	if err := t.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set OCR image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// Close releases the underlying tesseract handle.
func (t *Tesseract) Close() error {
	return t.client.Close()
}

// ensureTrainedData returns a directory containing eng.traineddata, or
// "" to defer to the engine's built-in default. The data is downloaded
// into dataDir when no local copy can be found.
func ensureTrainedData(ctx context.Context, dataDir string, log *slog.Logger) (string, error) {
	if prefix := os.Getenv("TESSDATA_PREFIX"); prefix != "" {
		if hasTrainedData(prefix) {
			return prefix, nil
		}
	}
	for _, dir := range wellKnownTessdataDirs {
		if hasTrainedData(dir) {
			return dir, nil
		}
	}

	local := filepath.Join(dataDir, "tessdata")
	if hasTrainedData(local) {
		return local, nil
	}

	if log != nil {
		log.Info("downloading OCR trained data", "dest", local)
	}
	if err := downloadFile(ctx, trainedDataURL, filepath.Join(local, "eng.traineddata")); err != nil {
		return "", fmt.Errorf("fetch trained data: %w", err)
	}
	return local, nil
}

func hasTrainedData(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "eng.traineddata"))
	return err == nil && !info.IsDir()
}

func downloadFile(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: %s", url, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}
