package v1

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/townplan/assessment-portal/pkg/version"
)

// (GET /api/v1/info)
func (h *PortalHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, version.Get())
}
