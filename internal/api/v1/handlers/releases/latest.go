package releases

import (
	"fmt"
	"net/http"

	"github.com/codaipro/gateway/internal/services/releases"
	"github.com/codaipro/gateway/pkg/httpext"
	"github.com/rs/zerolog/log"
)

// HandleLatestRelease serves reshaped metadata for the newest product
// release. Results are cached for an hour; the header tells browsers
// and CDNs to do the same.
func HandleLatestRelease(releaseService *releases.Service, w http.ResponseWriter, r *http.Request) {
	release, err := releaseService.Latest(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch latest release")
		httpext.JsonError(w, "Failed to fetch releases", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(releases.CacheTTL.Seconds())))
	httpext.JsonResponse(w, http.StatusOK, release)
}
