package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api4.thetvdb.com/v4"

// Sentinel errors for TVDB API responses.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized: invalid or expired API key")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

// Client is a TVDB API v4 client with JWT authentication. It logs in
// lazily on the first authenticated call and reuses the token for the
// rest of the session; an expired token surfaces as ErrUnauthorized
// from whichever call hits it.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "tvdb")
	}
}

// New creates a new TVDB API v4 client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// login authenticates with TVDB and stores the JWT token.
func (c *Client) login(ctx context.Context) error {
	body := map[string]string{"apikey": c.apiKey}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", resp.Status)
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	if loginResp.Data.Token == "" {
		return errors.New("login response missing token")
	}

	c.token = loginResp.Data.Token

	if c.log != nil {
		c.log.Debug("authenticated with TVDB")
	}

	return nil
}

// doRequest performs an authenticated request, logging in first when no
// token is held yet. Expired tokens are not refreshed.
func (c *Client) doRequest(ctx context.Context, method, endpoint string) (*http.Response, error) {
	if c.token == "" {
		if err := c.login(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	return resp, nil
}

// Search searches for series by name.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	start := time.Now()

	endpoint := "/search?query=" + url.QueryEscape(query) + "&type=series"
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if c.log != nil {
		c.log.Debug("search completed", "query", query, "results", len(searchResp.Data), "duration_ms", time.Since(start).Milliseconds())
	}

	return searchResp.Data, nil
}

// GetSeriesName fetches the display name of a series by id.
func (c *Client) GetSeriesName(ctx context.Context, seriesID string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/series/"+url.PathEscape(seriesID))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		if c.log != nil && errors.Is(err, ErrNotFound) {
			c.log.Debug("series not found", "id", seriesID)
		}
		return "", err
	}

	var seriesResp seriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&seriesResp); err != nil {
		return "", fmt.Errorf("decode series response: %w", err)
	}
	if seriesResp.Data.Name == "" {
		return "", fmt.Errorf("series %s: response missing name", seriesID)
	}

	return seriesResp.Data.Name, nil
}

// EpisodePage fetches one zero-based page of the series episode list.
// A 404 is returned as ErrNotFound; callers treat it as the end of
// pagination, like an empty page.
func (c *Client) EpisodePage(ctx context.Context, seriesID string, page int) ([]EpisodeSummary, error) {
	endpoint := fmt.Sprintf("/series/%s/episodes/default?page=%d", url.PathEscape(seriesID), page)
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var pageResp episodePageResponse
	if err := json.NewDecoder(resp.Body).Decode(&pageResp); err != nil {
		return nil, fmt.Errorf("decode episodes page %d: %w", page, err)
	}

	if c.log != nil {
		c.log.Debug("fetched episode page", "series_id", seriesID, "page", page, "count", len(pageResp.Data.Episodes))
	}

	return pageResp.Data.Episodes, nil
}

// EpisodeExtended fetches the extended record for one episode. The
// summary list omits the production code; this endpoint carries it.
func (c *Client) EpisodeExtended(ctx context.Context, episodeID int) (*ExtendedEpisode, error) {
	endpoint := fmt.Sprintf("/episodes/%d/extended", episodeID)
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var extResp extendedEpisodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&extResp); err != nil {
		return nil, fmt.Errorf("decode extended episode %d: %w", episodeID, err)
	}

	return &extResp.Data, nil
}

// checkResponse checks the HTTP response for errors and returns appropriate sentinel errors.
func (c *Client) checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TVDB API error: %s", resp.Status)
	}
}
