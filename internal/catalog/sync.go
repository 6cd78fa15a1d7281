package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vmunix/epmatch/pkg/tvdb"
)

// searchTTL bounds the session memo of remote search results. Searches
// never enter the persistent cache, so repeated queries within one run
// are answered from memory.
const searchTTL = time.Hour

const keyPrefixSearch = "search:"

// maxEpisodePages guards against a remote that never reports an empty page.
const maxEpisodePages = 100

// Service populates the cache from the remote catalog.
type Service struct {
	client *tvdb.Client
	memo   *gocache.Cache
	log    *slog.Logger
}

// NewService creates a catalog sync service around a TVDB client.
func NewService(client *tvdb.Client, log *slog.Logger) *Service {
	return &Service{
		client: client,
		memo:   gocache.New(searchTTL, 0),
		log:    log,
	}
}

// Search looks up series by name, memoized for the session.
func (s *Service) Search(ctx context.Context, query string) ([]tvdb.SearchResult, error) {
	key := keyPrefixSearch + query
	if cached, ok := s.memo.Get(key); ok {
		results := cached.([]tvdb.SearchResult)
		if s.log != nil {
			s.log.Debug("memo hit for search", "query", query, "results", len(results))
		}
		return results, nil
	}

	results, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.memo.SetDefault(key, results)
	return results, nil
}

// SeriesName resolves a series display name: cache first, then the
// remote catalog, writing the result back into the cache.
func (s *Service) SeriesName(ctx context.Context, seriesID string, c *Cache) (string, error) {
	if name, ok := c.SeriesName(seriesID); ok {
		return name, nil
	}

	name, err := s.client.GetSeriesName(ctx, seriesID)
	if err != nil {
		return "", fmt.Errorf("get series name: %w", err)
	}

	c.SetSeriesName(seriesID, name)
	return name, nil
}

// EnsureEpisodes syncs the series episode list into the cache unless
// episodes for it are already cached.
func (s *Service) EnsureEpisodes(ctx context.Context, seriesID string, c *Cache) error {
	if c.HasEpisodes(seriesID) {
		if s.log != nil {
			s.log.Info("using cached episode data", "series_id", seriesID)
		}
		return nil
	}
	return s.SyncEpisodes(ctx, seriesID, c)
}

// SyncEpisodes fetches the full episode list via offset pagination and
// writes each episode into the cache as it arrives. Page fetching is
// all-or-nothing; the per-episode extended fetch is best-effort. A
// partially synced cache from an aborted run is valid and resumable.
func (s *Service) SyncEpisodes(ctx context.Context, seriesID string, c *Cache) error {
	if s.log != nil {
		s.log.Info("syncing episodes from remote catalog", "series_id", seriesID)
	}

	var summaries []tvdb.EpisodeSummary
	for page := 0; ; page++ {
		if page >= maxEpisodePages {
			if s.log != nil {
				s.log.Warn("hit pagination limit", "series_id", seriesID, "pages", page)
			}
			break
		}

		episodes, err := s.client.EpisodePage(ctx, seriesID, page)
		if errors.Is(err, tvdb.ErrNotFound) {
			// The server reports "not found" past the last page.
			break
		}
		if err != nil {
			return fmt.Errorf("fetch episode page %d: %w", page, err)
		}
		if len(episodes) == 0 {
			break
		}
		summaries = append(summaries, episodes...)
	}

	synced := 0
	for _, summary := range summaries {
		entry, ok := s.extendEpisode(ctx, summary)
		if !ok {
			continue
		}
		c.SetEpisode(seriesID, entry)
		synced++
	}

	if s.log != nil {
		s.log.Info("episode sync complete", "series_id", seriesID, "episodes", synced, "skipped", len(summaries)-synced)
	}
	return nil
}

// extendEpisode resolves one summary into a cache entry via the
// extended fetch. When the extended fetch fails, the summary's own
// numbering is used and the production code left empty, so SXXEXX
// lookups still work. Episodes without season and episode numbers are
// skipped.
func (s *Service) extendEpisode(ctx context.Context, summary tvdb.EpisodeSummary) (EpisodeEntry, bool) {
	ext, err := s.client.EpisodeExtended(ctx, summary.ID)
	if err != nil {
		if s.log != nil {
			s.log.Warn("extended fetch failed, caching without production code", "episode_id", summary.ID, "error", err)
		}
		if summary.SeasonNumber == nil || summary.EpisodeNumber == nil {
			if s.log != nil {
				s.log.Warn("skipping episode without season/episode numbers", "episode_id", summary.ID)
			}
			return EpisodeEntry{}, false
		}
		return EpisodeEntry{
			SeasonNumber:  *summary.SeasonNumber,
			EpisodeNumber: *summary.EpisodeNumber,
			Name:          summary.Name,
		}, true
	}

	season, episode := ext.SeasonNumber, ext.EpisodeNumber
	if season == nil {
		season = summary.SeasonNumber
	}
	if episode == nil {
		episode = summary.EpisodeNumber
	}
	if season == nil || episode == nil {
		if s.log != nil {
			s.log.Warn("skipping episode without season/episode numbers", "episode_id", summary.ID)
		}
		return EpisodeEntry{}, false
	}

	name := ext.Name
	if name == "" {
		name = summary.Name
	}

	return EpisodeEntry{
		ProductionCode: ext.ProductionCode,
		SeasonNumber:   *season,
		EpisodeNumber:  *episode,
		Name:           name,
	}, true
}
