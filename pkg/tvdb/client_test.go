package tvdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTVDB creates a test server that simulates the TVDB API.
func mockTVDB(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check for handler by path
		if handler, ok := handlers[r.URL.Path]; ok {
			handler(w, r)
			return
		}
		// Default: 404
		w.WriteHeader(http.StatusNotFound)
	}))
}

// writeJSON is a test helper that writes JSON response and panics on error.
func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic("test: failed to encode JSON: " + err.Error())
	}
}

// loginHandler returns a handler that validates API key and returns a token.
func loginHandler(validAPIKey, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body struct {
			APIKey string `json:"apikey"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if body.APIKey != validAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, loginResponse{
			Status: "success",
			Data: struct {
				Token string `json:"token"`
			}{Token: token},
		})
	}
}

// requireAuth wraps a handler with token validation.
func requireAuth(validToken string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}
}

func TestNew(t *testing.T) {
	client := New("test-api-key")
	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
}

func TestNew_WithOptions(t *testing.T) {
	customHTTP := &http.Client{Timeout: 5 * time.Second}

	client := New("test-key",
		WithBaseURL("https://custom.url"),
		WithHTTPClient(customHTTP),
	)

	assert.Equal(t, "https://custom.url", client.baseURL)
	assert.Same(t, customHTTP, client.httpClient)
}

func TestLogin_Success(t *testing.T) {
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("valid-key", "jwt-token-123"),
	})
	defer server.Close()

	client := New("valid-key", WithBaseURL(server.URL))
	err := client.login(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "jwt-token-123", client.token)
}

func TestLogin_InvalidAPIKey(t *testing.T) {
	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("valid-key", "jwt-token-123"),
	})
	defer server.Close()

	client := New("wrong-key", WithBaseURL(server.URL))
	err := client.login(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSearch_Success(t *testing.T) {
	const token = "test-token"

	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", token),
		"/search": requireAuth(token, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "The X-Files", r.URL.Query().Get("query"))
			assert.Equal(t, "series", r.URL.Query().Get("type"))

			w.Header().Set("Content-Type", "application/json")
			writeJSON(w, searchResponse{
				Status: "success",
				Data: []SearchResult{
					{
						ID:           "77398",
						Name:         "The X-Files",
						Translations: map[string]string{"eng": "The X-Files", "deu": "Akte X"},
					},
					{
						ID:   "328724",
						Name: "The X-Files: Re-Opened",
					},
				},
			})
		}),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	results, err := client.Search(context.Background(), "The X-Files")

	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "77398", results[0].ID)
	assert.Equal(t, "The X-Files", results[0].DisplayName())
	assert.Equal(t, "328724", results[1].ID)
	assert.Equal(t, "The X-Files: Re-Opened", results[1].DisplayName())
}

func TestSearch_EmptyResults(t *testing.T) {
	const token = "test-token"

	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", token),
		"/search": requireAuth(token, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			writeJSON(w, searchResponse{Status: "success", Data: nil})
		}),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	results, err := client.Search(context.Background(), "no such show")

	// Empty results are a distinct outcome from an error.
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetSeriesName_Success(t *testing.T) {
	const token = "test-token"

	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", token),
		"/series/77398": requireAuth(token, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			writeJSON(w, map[string]any{
				"status": "success",
				"data":   map[string]any{"id": 77398, "name": "The X-Files"},
			})
		}),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	name, err := client.GetSeriesName(context.Background(), "77398")

	require.NoError(t, err)
	assert.Equal(t, "The X-Files", name)
}

func TestGetSeriesName_NotFound(t *testing.T) {
	const token = "test-token"

	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", token),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	_, err := client.GetSeriesName(context.Background(), "99999")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEpisodePage_Success(t *testing.T) {
	const token = "test-token"
	season := 1

	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", token),
		"/series/77398/episodes/default": requireAuth(token, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("page"))

			w.Header().Set("Content-Type", "application/json")
			writeJSON(w, episodePageResponse{
				Status: "success",
				Data: struct {
					Episodes []EpisodeSummary `json:"episodes"`
				}{
					Episodes: []EpisodeSummary{
						{ID: 127131, SeasonNumber: &season, EpisodeNumber: &season, Name: "Pilot"},
					},
				},
			})
		}),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	episodes, err := client.EpisodePage(context.Background(), "77398", 2)

	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, 127131, episodes[0].ID)
	assert.Equal(t, "Pilot", episodes[0].Name)
	require.NotNil(t, episodes[0].SeasonNumber)
	assert.Equal(t, 1, *episodes[0].SeasonNumber)
}

func TestEpisodePage_NotFound(t *testing.T) {
	const token = "test-token"

	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", token),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	_, err := client.EpisodePage(context.Background(), "77398", 12)

	// Callers treat this sentinel as end-of-pagination.
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEpisodeExtended_Success(t *testing.T) {
	const token = "test-token"
	season, episode := 6, 8

	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", token),
		"/episodes/127131/extended": requireAuth(token, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			writeJSON(w, extendedEpisodeResponse{
				Status: "success",
				Data: ExtendedEpisode{
					ID:             127131,
					ProductionCode: "6ABX08",
					SeasonNumber:   &season,
					EpisodeNumber:  &episode,
					Name:           "The Rain King",
				},
			})
		}),
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	ext, err := client.EpisodeExtended(context.Background(), 127131)

	require.NoError(t, err)
	assert.Equal(t, "6ABX08", ext.ProductionCode)
	assert.Equal(t, "The Rain King", ext.Name)
}

func TestExpiredToken_NotRefreshed(t *testing.T) {
	const token = "test-token"
	logins := 0

	server := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": func(w http.ResponseWriter, r *http.Request) {
			logins++
			loginHandler("api-key", token)(w, r)
		},
		"/series/77398": func(w http.ResponseWriter, r *http.Request) {
			// Simulate a token that expired mid-session.
			w.WriteHeader(http.StatusUnauthorized)
		},
	})
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	_, err := client.GetSeriesName(context.Background(), "77398")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, logins, "client must not re-login on a mid-session 401")
}

func TestDisplayName_Fallbacks(t *testing.T) {
	assert.Equal(t, "Akte X", SearchResult{Translations: map[string]string{"deu": "Akte X"}}.DisplayName())
	assert.Equal(t, "Primary", SearchResult{Name: "Primary"}.DisplayName())
	assert.Equal(t, "Unknown", SearchResult{}.DisplayName())
}
