package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// collectFiles expands the operator's inputs into a sorted list of .mkv
// paths. Non-MKV plain files are skipped with a warning; directories
// contribute their .mkv entries, descending only when recursive is set.
func collectFiles(inputs []string, recursive bool, log *slog.Logger) ([]string, error) {
	var files []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if !isMKV(input) {
				if log != nil {
					log.Warn("skipping non-MKV file", "file", input)
				}
				continue
			}
			files = append(files, input)
			continue
		}

		found, err := videosInDir(input, recursive)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	sort.Strings(files)
	return files, nil
}

func videosInDir(dir string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if isMKV(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

func isMKV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mkv")
}
