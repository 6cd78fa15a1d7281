// Package tvdb provides a client for the TVDB API v4.
package tvdb

// SearchResult represents a series search result. Translations maps a
// three-letter language code to the localized series name.
type SearchResult struct {
	ID           string            `json:"tvdb_id"`
	Name         string            `json:"name"`
	Translations map[string]string `json:"translations"`
}

// DisplayName returns the English localized name when available, the
// primary name otherwise.
func (r SearchResult) DisplayName() string {
	if name, ok := r.Translations["eng"]; ok && name != "" {
		return name
	}
	if r.Name != "" {
		return r.Name
	}
	for _, name := range r.Translations {
		if name != "" {
			return name
		}
	}
	return "Unknown"
}

// EpisodeSummary is one entry from the paginated episode list. The
// summary endpoint does not carry the production code; that requires a
// second extended fetch by episode id. Season and episode numbers are
// pointers so an absent field is distinguishable from season/episode 0.
type EpisodeSummary struct {
	ID            int    `json:"id"`
	SeasonNumber  *int   `json:"seasonNumber"`
	EpisodeNumber *int   `json:"number"`
	Name          string `json:"name"`
}

// ExtendedEpisode is the per-episode extended record carrying the
// production code.
type ExtendedEpisode struct {
	ID             int    `json:"id"`
	ProductionCode string `json:"productionCode"`
	SeasonNumber   *int   `json:"seasonNumber"`
	EpisodeNumber  *int   `json:"number"`
	Name           string `json:"name"`
}

// loginResponse is the TVDB login API response.
type loginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}

// searchResponse is the TVDB search API response.
type searchResponse struct {
	Status string         `json:"status"`
	Data   []SearchResult `json:"data"`
}

// seriesResponse is the TVDB get series API response.
type seriesResponse struct {
	Status string `json:"status"`
	Data   struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// episodePageResponse is one page of the TVDB episode list.
type episodePageResponse struct {
	Status string `json:"status"`
	Data   struct {
		Episodes []EpisodeSummary `json:"episodes"`
	} `json:"data"`
}

// extendedEpisodeResponse is the TVDB extended episode API response.
type extendedEpisodeResponse struct {
	Status string          `json:"status"`
	Data   ExtendedEpisode `json:"data"`
}
