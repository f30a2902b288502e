package releases

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codaipro/gateway/internal/infrastructure/github"
	releasesvc "github.com/codaipro/gateway/internal/services/releases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, handler http.HandlerFunc) *releasesvc.Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("GITHUB_API_URL", server.URL)
	t.Setenv("GITHUB_TOKEN", "")

	return releasesvc.NewService(github.NewService(), nil, "codaipro/codai")
}

func TestHandleLatestRelease(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"tag_name":     "v2.1.0",
			"name":         "CodaiPro 2.1",
			"published_at": "2025-06-01T12:00:00Z",
			"body":         "Release notes",
			"assets": []map[string]any{
				{
					"name":                 "CodaiPro-Setup.exe",
					"size":                 1024,
					"browser_download_url": "https://example.com/setup.exe",
					"download_count":       7,
				},
			},
		})
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/releases/latest", nil)

	HandleLatestRelease(svc, w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))

	var release releasesvc.Release
	require.NoError(t, json.NewDecoder(w.Body).Decode(&release))
	assert.Equal(t, "v2.1.0", release.Version)
	require.Len(t, release.Assets, 1)
	assert.Equal(t, "https://example.com/setup.exe", release.Assets[0].DownloadURL)
}

func TestHandleLatestReleaseUpstreamFailure(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/releases/latest", nil)

	HandleLatestRelease(svc, w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
