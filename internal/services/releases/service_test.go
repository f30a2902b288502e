package releases

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codaipro/gateway/internal/infrastructure/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *int) {
	t.Helper()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	t.Setenv("GITHUB_API_URL", server.URL)
	t.Setenv("GITHUB_TOKEN", "")

	return NewService(github.NewService(), nil, "codaipro/codai"), &calls
}

func releaseHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"tag_name":     "v2.1.0",
		"name":         "CodaiPro 2.1",
		"published_at": "2025-06-01T12:00:00Z",
		"body":         "Bug fixes and offline mode improvements",
		"assets": []map[string]any{
			{
				"name":                 "CodaiPro-Setup.exe",
				"size":                 52428800,
				"browser_download_url": "https://example.com/CodaiPro-Setup.exe",
				"download_count":       1234,
			},
		},
	})
}

func TestLatestReshapesRelease(t *testing.T) {
	svc, _ := newTestService(t, releaseHandler)

	release, err := svc.Latest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "v2.1.0", release.Version)
	assert.Equal(t, "CodaiPro 2.1", release.Name)
	assert.Equal(t, "2025-06-01T12:00:00Z", release.PublishedAt)
	require.Len(t, release.Assets, 1)
	assert.Equal(t, "CodaiPro-Setup.exe", release.Assets[0].Name)
	assert.Equal(t, "https://example.com/CodaiPro-Setup.exe", release.Assets[0].DownloadURL)
	assert.Equal(t, int64(1234), release.Assets[0].DownloadCount)
}

func TestLatestUsesMemoryCache(t *testing.T) {
	svc, calls := newTestService(t, releaseHandler)

	_, err := svc.Latest(context.Background())
	require.NoError(t, err)
	_, err = svc.Latest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, *calls, "second lookup should be served from cache")
}

func TestLatestCacheExpiry(t *testing.T) {
	svc, calls := newTestService(t, releaseHandler)

	current := time.Now()
	svc.now = func() time.Time { return current }

	_, err := svc.Latest(context.Background())
	require.NoError(t, err)

	current = current.Add(CacheTTL + time.Minute)

	_, err = svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, *calls, "expired cache entry should trigger a refetch")
}

func TestLatestUpstreamFailure(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := svc.Latest(context.Background())
	assert.Error(t, err)
}
