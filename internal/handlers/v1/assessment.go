package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/handlers/validator"
	"github.com/townplan/assessment-portal/internal/service"
	"github.com/townplan/assessment-portal/internal/service/mappers"
)

// (POST /api/v1/jobs/{id}/assessments/{type}/confirm-check)
func (h *PortalHandler) ConfirmCheck(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownedJob(w, r)
	if !ok {
		return
	}
	assessmentType := api.AssessmentType(chi.URLParam(r, "type"))

	var resource api.SubmitAssessmentRequest
	if err := render.DecodeJSON(r.Body, &resource); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	form := service.ConfirmForm{
		DevelopmentType: resource.DevelopmentType,
		AdditionalInfo:  resource.AdditionalInfo,
	}
	decision, err := h.assessmentSrv.ConfirmCheck(r.Context(), job.ID, assessmentType, form)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, api.GateDecisionView{Allowed: decision.Allowed, Reason: decision.Reason})
}

// (POST /api/v1/jobs/{id}/assessments/{type}/submit)
func (h *PortalHandler) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownedJob(w, r)
	if !ok {
		return
	}
	assessmentType := api.AssessmentType(chi.URLParam(r, "type"))

	var resource api.SubmitAssessmentRequest
	if err := render.DecodeJSON(r.Body, &resource); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewSubmissionValidationRules()...)
	if err := v.Struct(resource); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ticket, err := h.assessmentSrv.SubmitAssessment(r.Context(), job.ID, assessmentType, mappers.SubmitRequestToAssessmentRequest(resource))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.TicketToApi(*ticket))
}
