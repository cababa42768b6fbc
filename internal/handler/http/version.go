package http

import (
	"net/http"

	"github.com/MKhiriev/go-stevedore/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	ex, err := h.begin(w, r)
	if err != nil {
		ex.fail(err)
		return
	}

	info := h.services.AppInfoService
	build := info.GetBuildInfo(r.Context())
	ex.cacheable(models.VersionResponse{
		Version: info.GetAppVersion(r.Context()),
		Date:    build.BuildDate(),
		Commit:  build.BuildCommit(),
	})
}
