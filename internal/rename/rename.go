// Package rename builds deterministic episode filenames and performs
// the guarded filesystem move.
package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// invalidChars maps characters that are unsafe or unportable in
// filenames to a dash.
var invalidChars = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "-",
	"\"", "-",
	"<", "-",
	">", "-",
	"|", "-",
)

// sanitize replaces filesystem-hostile characters and trims surrounding
// whitespace.
func sanitize(s string) string {
	return strings.TrimSpace(invalidChars.Replace(s))
}

// GenerateFilename builds the canonical episode filename:
// "<show> - S02E15 - <title>.<ext>".
func GenerateFilename(show string, season, episode int, title, ext string) string {
	return fmt.Sprintf("%s - S%02dE%02d - %s.%s", sanitize(show), season, episode, sanitize(title), ext)
}

// FindUniqueFilename returns dir/candidate if it is free or already the
// file being renamed, otherwise probes " [copy N]" variants until one
// is free.
func FindUniqueFilename(originalPath, dir, candidate string) (string, error) {
	target := filepath.Join(dir, candidate)
	free, err := available(originalPath, target)
	if err != nil {
		return "", err
	}
	if free {
		return target, nil
	}

	ext := filepath.Ext(candidate)
	base := strings.TrimSuffix(candidate, ext)
	for n := 1; ; n++ {
		target = filepath.Join(dir, fmt.Sprintf("%s [copy %d]%s", base, n, ext))
		free, err := available(originalPath, target)
		if err != nil {
			return "", err
		}
		if free {
			return target, nil
		}
	}
}

// available reports whether target can be used: it either does not
// exist, or it is the original file itself.
func available(originalPath, target string) (bool, error) {
	if _, err := os.Lstat(target); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", target, err)
	}
	same, err := samePath(originalPath, target)
	if err != nil {
		return false, err
	}
	return same, nil
}

func samePath(a, b string) (bool, error) {
	ai, err := os.Lstat(a)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", a, err)
	}
	bi, err := os.Lstat(b)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", b, err)
	}
	return os.SameFile(ai, bi), nil
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(msg string) (bool, error)
}

// Rename moves oldPath to newPath. An in-place no-op short-circuits
// without confirmation. When confirm is non-nil a declined prompt
// leaves the file untouched; ErrDeclined distinguishes that from
// failure.
func Rename(oldPath, newPath string, confirm Confirmer) error {
	if oldPath == newPath {
		return nil
	}
	if same, err := samePath(oldPath, newPath); err == nil && same {
		return nil
	}

	if confirm != nil {
		ok, err := confirm.Confirm(fmt.Sprintf("Rename %s\n    -> %s?", oldPath, newPath))
		if err != nil {
			return fmt.Errorf("confirm rename: %w", err)
		}
		if !ok {
			return ErrDeclined
		}
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	return nil
}

// ErrDeclined is returned when the operator answers no to a rename.
var ErrDeclined = errors.New("rename declined")
