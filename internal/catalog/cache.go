// Package catalog provides the persistent episode catalog: a two-index
// cache keyed by production code and by season/episode number, and the
// sync service that populates it from the remote catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EpisodeEntry is the canonical identification record for one episode.
// ProductionCode may be empty; not all episodes carry one.
type EpisodeEntry struct {
	ProductionCode string `json:"production_code,omitempty"`
	SeasonNumber   int    `json:"season_number"`
	EpisodeNumber  int    `json:"episode_number"`
	Name           string `json:"name"`
}

// Cache is the on-disk episode catalog for one or more series. It is
// loaded once at process start, mutated in memory, and saved once at
// process end. It is owned exclusively by the driver; no locking.
type Cache struct {
	path string

	Series       map[string]string                          `json:"series"`
	EpisodesByPC map[string]map[string]EpisodeEntry         `json:"episodesByProductionCode"`
	EpisodesBySE map[string]map[int]map[int]EpisodeEntry    `json:"episodesBySeasonEpisode"`
}

// NewCache returns an empty cache that will persist to path.
func NewCache(path string) *Cache {
	return &Cache{
		path:         path,
		Series:       make(map[string]string),
		EpisodesByPC: make(map[string]map[string]EpisodeEntry),
		EpisodesBySE: make(map[string]map[int]map[int]EpisodeEntry),
	}
}

// Load reads the cache file at path. A missing or unreadable or corrupt
// file yields an empty cache; startup must never fail on cache state.
func Load(path string) *Cache {
	c := NewCache(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	loaded := NewCache(path)
	if err := json.Unmarshal(data, loaded); err != nil {
		return c
	}
	// Maps may be nil if the file omitted a field.
	if loaded.Series == nil {
		loaded.Series = make(map[string]string)
	}
	if loaded.EpisodesByPC == nil {
		loaded.EpisodesByPC = make(map[string]map[string]EpisodeEntry)
	}
	if loaded.EpisodesBySE == nil {
		loaded.EpisodesBySE = make(map[string]map[int]map[int]EpisodeEntry)
	}
	return loaded
}

// Save serializes the cache to its persistence location, creating parent
// directories as needed. Failure is returned for the caller to report as
// a warning; it must not abort the run.
func (c *Cache) Save() error {
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// SeriesName returns the cached display name for a series.
func (c *Cache) SeriesName(seriesID string) (string, bool) {
	name, ok := c.Series[seriesID]
	return name, ok
}

// SetSeriesName upserts the display name for a series.
func (c *Cache) SetSeriesName(seriesID, name string) {
	c.Series[seriesID] = name
}

// EpisodeByCode looks up an episode by production code. Lookup is
// case-insensitive; an unknown series or code is a miss, not an error.
func (c *Cache) EpisodeByCode(seriesID, code string) (EpisodeEntry, bool) {
	episodes, ok := c.EpisodesByPC[seriesID]
	if !ok {
		return EpisodeEntry{}, false
	}
	entry, ok := episodes[strings.ToLower(code)]
	return entry, ok
}

// EpisodeBySeasonEpisode looks up an episode by (season, episode) pair.
func (c *Cache) EpisodeBySeasonEpisode(seriesID string, season, episode int) (EpisodeEntry, bool) {
	seasons, ok := c.EpisodesBySE[seriesID]
	if !ok {
		return EpisodeEntry{}, false
	}
	episodes, ok := seasons[season]
	if !ok {
		return EpisodeEntry{}, false
	}
	entry, ok := episodes[episode]
	return entry, ok
}

// SetEpisode inserts an episode into the season/episode index
// unconditionally, and into the production-code index only when the
// entry carries a non-empty code. Last write wins at either key.
func (c *Cache) SetEpisode(seriesID string, entry EpisodeEntry) {
	if entry.ProductionCode != "" {
		episodes, ok := c.EpisodesByPC[seriesID]
		if !ok {
			episodes = make(map[string]EpisodeEntry)
			c.EpisodesByPC[seriesID] = episodes
		}
		episodes[strings.ToLower(entry.ProductionCode)] = entry
	}

	seasons, ok := c.EpisodesBySE[seriesID]
	if !ok {
		seasons = make(map[int]map[int]EpisodeEntry)
		c.EpisodesBySE[seriesID] = seasons
	}
	episodes, ok := seasons[entry.SeasonNumber]
	if !ok {
		episodes = make(map[int]EpisodeEntry)
		seasons[entry.SeasonNumber] = episodes
	}
	episodes[entry.EpisodeNumber] = entry
}

// HasEpisodes reports whether any episode is cached for the series. A
// series whose episodes all lack production codes is still populated in
// the season/episode index, so both indices are consulted.
func (c *Cache) HasEpisodes(seriesID string) bool {
	if eps, ok := c.EpisodesByPC[seriesID]; ok && len(eps) > 0 {
		return true
	}
	if seasons, ok := c.EpisodesBySE[seriesID]; ok {
		for _, eps := range seasons {
			if len(eps) > 0 {
				return true
			}
		}
	}
	return false
}
