package match

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/epmatch/internal/catalog"
)

// SubtitleReviewer pages a file's subtitle text for the operator.
type SubtitleReviewer interface {
	Review(ctx context.Context, videoPath string) error
}

// SubtitleMatcher identifies episodes by showing the operator the
// file's subtitles and asking which episode they belong to.
type SubtitleMatcher struct {
	Reviewer SubtitleReviewer
	Prompter Prompter
	Log      *slog.Logger
}

// MatchEpisode pages the subtitles, then asks once for an SXXEXX
// identifier. A malformed answer or a catalog miss is reported and
// returned as no-match rather than re-prompted.
func (m *SubtitleMatcher) MatchEpisode(ctx context.Context, path, seriesID string, cache *catalog.Cache) (*catalog.EpisodeEntry, error) {
	if err := m.Reviewer.Review(ctx, path); err != nil {
		return nil, fmt.Errorf("review subtitles for %s: %w", path, err)
	}

	input, err := m.Prompter.Line(fmt.Sprintf("Which episode is %s? Enter SXXEXX: ", path))
	if err != nil {
		return nil, fmt.Errorf("read episode entry: %w", err)
	}

	season, episode, ok := parseSeasonEpisode(input)
	if !ok {
		if m.Log != nil {
			m.Log.Warn("not an SXXEXX identifier", "input", input)
		}
		return nil, nil
	}

	entry, ok := cache.EpisodeBySeasonEpisode(seriesID, season, episode)
	if !ok {
		if m.Log != nil {
			m.Log.Warn("no such season/episode in catalog", "input", input)
		}
		return nil, nil
	}
	return &entry, nil
}
