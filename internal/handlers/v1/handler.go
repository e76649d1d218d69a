// Package v1 holds the HTTP handlers of the portal API. Handlers decode and
// validate the wire form, enforce organization ownership and translate
// service errors to HTTP responses; all domain logic lives in the service
// layer.
package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/service"
	"github.com/townplan/assessment-portal/pkg/requestid"
)

type PortalHandler struct {
	jobSrv        *service.JobService
	documentSrv   *service.DocumentService
	assessmentSrv *service.AssessmentService
	ticketSrv     *service.TicketService
}

func NewPortalHandler(
	jobService *service.JobService,
	documentService *service.DocumentService,
	assessmentService *service.AssessmentService,
	ticketService *service.TicketService,
) *PortalHandler {
	return &PortalHandler{
		jobSrv:        jobService,
		documentSrv:   documentService,
		assessmentSrv: assessmentService,
		ticketSrv:     ticketService,
	}
}

func (h *PortalHandler) Routes(router chi.Router) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/info", h.GetInfo)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.ListJobs)
			r.Post("/", h.CreateJob)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetJob)
				r.Put("/site-details", h.UpdateSiteDetails)
				r.Get("/documents", h.ListDocumentTiles)
				r.Route("/documents/{documentId}", func(r chi.Router) {
					r.Post("/", h.UploadDocument)
					r.Get("/", h.DownloadDocument)
					r.Delete("/", h.DeleteDocument)
				})
				r.Route("/assessments/{type}", func(r chi.Router) {
					r.Post("/confirm-check", h.ConfirmCheck)
					r.Post("/submit", h.SubmitAssessment)
				})
			})
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", h.ListTickets)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetTicket)
				r.Post("/start", h.StartTicket)
				r.Post("/complete", h.CompleteTicket)
			})
		})
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, api.Error{Message: message, RequestId: requestid.FromContextPtr(r.Context())})
}

// respondServiceError maps the typed service errors to HTTP status codes.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch err.(type) {
	case *service.ErrResourceNotFound, *service.ErrDocumentNotFound:
		respondError(w, r, http.StatusNotFound, err.Error())
	case *service.ErrValidation, *service.ErrUnknownAssessmentType, *service.ErrUnknownDocumentType:
		respondError(w, r, http.StatusBadRequest, err.Error())
	case *service.ErrInvalidTransition, *service.ErrAssessmentAlreadyCompleted:
		respondError(w, r, http.StatusConflict, err.Error())
	case *service.ErrSubmissionPartial, *service.ErrCompletionPartial:
		// the first write landed; tell the caller the retry is safe
		respondError(w, r, http.StatusBadGateway, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, err.Error())
	}
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}
