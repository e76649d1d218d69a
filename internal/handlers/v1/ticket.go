package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/auth"
	"github.com/townplan/assessment-portal/internal/handlers/validator"
	"github.com/townplan/assessment-portal/internal/service"
	"github.com/townplan/assessment-portal/internal/service/mappers"
	"github.com/townplan/assessment-portal/internal/store/model"
)

// (GET /api/v1/tickets)
func (h *PortalHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	filter := service.NewTicketFilter(user.Organization)
	query := r.URL.Query()
	if jobID := query.Get("jobId"); jobID != "" {
		filter = filter.WithJobID(jobID)
	}
	if ticketType := query.Get("type"); ticketType != "" {
		filter = filter.WithTicketType(ticketType)
	}
	if status := query.Get("status"); status != "" {
		filter = filter.WithStatus(status)
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		filter = filter.WithLimit(limit)
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil && offset > 0 {
		filter = filter.WithOffset(offset)
	}

	tickets, err := h.ticketSrv.ListTickets(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.TicketListToApi(tickets))
}

// (GET /api/v1/tickets/{id})
func (h *PortalHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.ownedTicket(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, mappers.TicketToApi(*ticket))
}

// (POST /api/v1/tickets/{id}/start)
func (h *PortalHandler) StartTicket(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.ownedTicket(w, r)
	if !ok {
		return
	}

	updated, err := h.ticketSrv.StartTicket(r.Context(), ticket.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.TicketToApi(*updated))
}

// (POST /api/v1/tickets/{id}/complete)
func (h *PortalHandler) CompleteTicket(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.ownedTicket(w, r)
	if !ok {
		return
	}

	var resource api.CompleteTicketRequest
	if err := render.DecodeJSON(r.Body, &resource); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewTicketValidationRules()...)
	if err := v.Struct(resource); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.ticketSrv.CompleteTicket(r.Context(), ticket.ID, api.CompletedDocument{
		Filename:     resource.Filename,
		OriginalName: resource.OriginalName,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.TicketToApi(*updated))
}

func (h *PortalHandler) ownedTicket(w http.ResponseWriter, r *http.Request) (*model.Ticket, bool) {
	id, ok := parseUUIDParam(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "invalid ticket id")
		return nil, false
	}

	ticket, err := h.ticketSrv.GetTicket(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return nil, false
	}

	user := auth.MustHaveUser(r.Context())
	if user.Organization != ticket.OrgID {
		respondError(w, r, http.StatusForbidden, fmt.Sprintf("forbidden access to ticket %q", id))
		return nil, false
	}
	return ticket, true
}
