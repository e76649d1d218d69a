package v1

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/auth"
	"github.com/townplan/assessment-portal/internal/handlers/validator"
	"github.com/townplan/assessment-portal/internal/service"
	"github.com/townplan/assessment-portal/internal/service/mappers"
	"github.com/townplan/assessment-portal/internal/store/model"
)

// (GET /api/v1/jobs)
func (h *PortalHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	filter := service.NewJobFilter(user.Organization)
	if address := r.URL.Query().Get("address"); address != "" {
		filter = filter.WithAddressLike(address)
	}

	jobs, err := h.jobSrv.ListJobs(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (POST /api/v1/jobs)
func (h *PortalHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var resource api.CreateJobRequest
	if err := render.DecodeJSON(r.Body, &resource); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(resource); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := h.jobSrv.CreateJob(r.Context(), mappers.JobFormToCreateForm(resource, user))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.JobToApi(*job))
}

// (GET /api/v1/jobs/{id})
func (h *PortalHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownedJob(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, mappers.JobToApi(*job))
}

// (PUT /api/v1/jobs/{id}/site-details)
func (h *PortalHandler) UpdateSiteDetails(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownedJob(w, r)
	if !ok {
		return
	}

	var resource api.UpdateSiteDetailsRequest
	if err := render.DecodeJSON(r.Body, &resource); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if resource.SiteDetails == nil {
		respondError(w, r, http.StatusBadRequest, "siteDetails is required")
		return
	}

	updated, err := h.jobSrv.UpdateSiteDetails(r.Context(), job.ID, resource.SiteDetails)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobToApi(*updated))
}

// (GET /api/v1/jobs/{id}/documents)
func (h *PortalHandler) ListDocumentTiles(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownedJob(w, r)
	if !ok {
		return
	}

	tiles, err := h.jobSrv.DocumentTiles(r.Context(), job.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, tiles)
}

// ownedJob resolves the {id} route param and enforces that the job belongs
// to the caller's organization.
func (h *PortalHandler) ownedJob(w http.ResponseWriter, r *http.Request) (*model.Job, bool) {
	id, ok := parseUUIDParam(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "invalid job id")
		return nil, false
	}

	job, err := h.jobSrv.GetJob(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return nil, false
	}

	user := auth.MustHaveUser(r.Context())
	if user.Organization != job.OrgID {
		respondError(w, r, http.StatusForbidden, fmt.Sprintf("forbidden access to job %q", id))
		return nil, false
	}
	return job, true
}
