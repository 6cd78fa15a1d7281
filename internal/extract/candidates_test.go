package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips whitespace", "6AB X08\n", "6ABX08"},
		{"letter O to zero", "O1ABX1O", "01ABX10"},
		{"letter I to one", "IAYW0I", "1AYW01"},
		{"letter S to five", "3X2S", "3X25"},
		{"question mark to X", "6AB?08", "6ABX08"},
		{"untouched", "1AYW01", "1AYW01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"O1ABX1O", "6AB ?08", "production code 3X22"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestFindCodes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"early season code", "executive producer 3X22 chris carter", []string{"3X22"}},
		{"late season code", "6ABX08", []string{"6ABX08"}},
		{"revival code", "#1AYW01", []string{"1AYW01"}},
		{"confused code matches after normalization", "O1ABX1O", []string{"1ABX10"}},
		{"spread across whitespace", "6AB\nX08", []string{"6ABX08"}},
		{"multiple codes in one frame", "3X22 then 3X23", []string{"3X22", "3X23"}},
		{"no trailing digits", "1080p", nil},
		{"plain text", "previously on", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindCodes(tt.in))
		})
	}
}

// stubEngine returns canned text keyed by frame image content.
type stubEngine struct {
	texts map[string]string
	errs  map[string]error
}

func (s *stubEngine) Recognize(image []byte) (string, error) {
	if err, ok := s.errs[string(image)]; ok {
		return "", err
	}
	return s.texts[string(image)], nil
}

func (s *stubEngine) Close() error { return nil }

func writeFrames(t *testing.T, dir string, frames ...string) {
	t.Helper()
	for i, content := range frames {
		name := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i+1))
		require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	}
}

func TestScanFrames_OrderAndAggregation(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, "frame-a", "frame-b", "frame-c")

	engine := &stubEngine{texts: map[string]string{
		"frame-a": "nothing here",
		"frame-b": "code 3X22",
		"frame-c": "codes 6ABX08 and 1AYW01",
	}}
	p := NewPipeline(engine, slog.New(slog.NewTextHandler(io.Discard, nil)))

	candidates, err := p.scanFrames(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"3X22", "6ABX08", "1AYW01"}, candidates)
}

func TestScanFrames_SkipsFailingFrames(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, "frame-a", "frame-b")

	engine := &stubEngine{
		texts: map[string]string{"frame-b": "2X04"},
		errs:  map[string]error{"frame-a": errors.New("ocr exploded")},
	}
	p := NewPipeline(engine, slog.New(slog.NewTextHandler(io.Discard, nil)))

	candidates, err := p.scanFrames(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"2X04"}, candidates)
}

func TestScanFrames_NoFrames(t *testing.T) {
	p := NewPipeline(&stubEngine{}, nil)

	candidates, err := p.scanFrames(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
