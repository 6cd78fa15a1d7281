// Package match implements the episode matching strategies: automatic
// identification via production codes read off the tail frames, and a
// subtitle review flow driven by the operator.
package match

import (
	"context"
	"regexp"
	"strconv"

	"github.com/vmunix/epmatch/internal/catalog"
)

// Matcher identifies the episode a video file contains. A nil entry
// with a nil error means the file could not be matched; errors are
// reserved for tooling failures and ended input streams.
type Matcher interface {
	MatchEpisode(ctx context.Context, path, seriesID string, cache *catalog.Cache) (*catalog.EpisodeEntry, error)
}

// CandidateExtractor produces production-code-shaped candidates from a
// video file, in frame order.
type CandidateExtractor interface {
	ExtractCandidates(ctx context.Context, videoPath string) ([]string, error)
}

// Prompter reads one operator answer. Implementations return io.EOF
// when the input stream ends.
type Prompter interface {
	Line(msg string) (string, error)
}

var seasonEpisodeRe = regexp.MustCompile(`^[Ss](\d{1,2})[Ee](\d{1,2})$`)

// parseSeasonEpisode parses an SXXEXX identifier such as "s02e15".
func parseSeasonEpisode(input string) (season, episode int, ok bool) {
	m := seasonEpisodeRe.FindStringSubmatch(input)
	if m == nil {
		return 0, 0, false
	}
	season, _ = strconv.Atoi(m[1])
	episode, _ = strconv.Atoi(m[2])
	return season, episode, true
}
