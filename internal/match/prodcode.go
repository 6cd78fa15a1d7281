package match

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/vmunix/epmatch/internal/catalog"
)

// ProductionCodeMatcher identifies episodes by the production code shown
// in the closing credits. When automatic extraction finds nothing and
// the file is large enough to be worth operator time, it falls back to
// an interactive prompt loop.
type ProductionCodeMatcher struct {
	Extractor CandidateExtractor
	Prompter  Prompter

	// PromptSize is the file size in bytes above which an unresolved
	// file triggers interactive entry. Zero disables prompting.
	PromptSize int64

	Log *slog.Logger
}

// MatchEpisode extracts candidates from the file's tail and returns the
// first one found in the cache. Extraction failure is fatal for the
// file; exhausting candidates without prompting is a plain no-match.
func (m *ProductionCodeMatcher) MatchEpisode(ctx context.Context, path, seriesID string, cache *catalog.Cache) (*catalog.EpisodeEntry, error) {
	candidates, err := m.Extractor.ExtractCandidates(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract candidates from %s: %w", path, err)
	}

	for _, candidate := range candidates {
		if entry, ok := cache.EpisodeByCode(seriesID, candidate); ok {
			if m.Log != nil {
				m.Log.Info("matched by production code", "file", path, "code", candidate)
			}
			return &entry, nil
		}
		if m.Log != nil {
			m.Log.Debug("candidate not in catalog", "file", path, "code", candidate)
		}
	}

	if !m.shouldPrompt(path) {
		return nil, nil
	}
	return m.promptLoop(path, seriesID, cache)
}

// shouldPrompt reports whether an unresolved file warrants manual entry.
func (m *ProductionCodeMatcher) shouldPrompt(path string) bool {
	if m.PromptSize <= 0 || m.Prompter == nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > m.PromptSize
}

// promptLoop asks for a production code or an SXXEXX identifier until
// the operator names a cached episode. An ended input stream is fatal
// for this file only.
func (m *ProductionCodeMatcher) promptLoop(path, seriesID string, cache *catalog.Cache) (*catalog.EpisodeEntry, error) {
	for {
		input, err := m.Prompter.Line(fmt.Sprintf("No code found for %s. Enter a production code or SXXEXX: ", path))
		if err != nil {
			return nil, fmt.Errorf("read manual episode entry: %w", err)
		}
		if input == "" {
			continue
		}

		if entry, ok := cache.EpisodeByCode(seriesID, input); ok {
			return &entry, nil
		}
		if season, episode, ok := parseSeasonEpisode(input); ok {
			if entry, ok := cache.EpisodeBySeasonEpisode(seriesID, season, episode); ok {
				return &entry, nil
			}
			if m.Log != nil {
				m.Log.Warn("no such season/episode in catalog", "input", input)
			}
			continue
		}
		if m.Log != nil {
			m.Log.Warn("input is neither a known code nor SXXEXX", "input", input)
		}
	}
}
