package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/events"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
)

// ErrCompletionPartial signals that the ticket was marked completed but the
// job sub-record sync failed. The reconciler repairs the job side on its
// next sweep; the caller may also retry.
type ErrCompletionPartial struct {
	error
	TicketID uuid.UUID
}

func NewErrCompletionPartial(ticketID uuid.UUID, cause error) *ErrCompletionPartial {
	return &ErrCompletionPartial{
		error:    fmt.Errorf("ticket %s completed but job sync failed: %w", ticketID, cause),
		TicketID: ticketID,
	}
}

func (e *ErrCompletionPartial) Unwrap() error {
	return e.error
}

// TicketService exposes the fulfiller-facing operations on work tickets.
type TicketService struct {
	store       store.Store
	eventWriter *events.EventProducer
}

func NewTicketService(store store.Store, ew *events.EventProducer) *TicketService {
	return &TicketService{
		store:       store,
		eventWriter: ew,
	}
}

func (s *TicketService) ListTickets(ctx context.Context, filter *TicketFilter) (model.TicketList, error) {
	storeFilter := store.NewTicketQueryFilter()
	if filter.OrgID != "" {
		storeFilter = storeFilter.ByOrgID(filter.OrgID)
	}
	if filter.JobID != "" {
		storeFilter = storeFilter.ByJobID(filter.JobID)
	}
	if filter.TicketType != "" {
		storeFilter = storeFilter.ByTicketType(filter.TicketType)
	}
	if filter.Status != "" {
		storeFilter = storeFilter.ByStatus(filter.Status)
	}

	opts := store.NewTicketQueryOptions()
	if filter.Limit > 0 {
		opts = opts.WithLimit(filter.Limit)
	}
	if filter.Offset > 0 {
		opts = opts.WithOffset(filter.Offset)
	}

	tickets, err := s.store.Ticket().List(ctx, storeFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.store.Ticket().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrTicketNotFound(id)
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// StartTicket moves a pending ticket to in-progress.
func (s *TicketService) StartTicket(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Status != string(api.TicketStatusPending) {
		return nil, NewErrInvalidTransition(ticket.Status, string(api.TicketStatusInProgress))
	}

	ticket.Status = string(api.TicketStatusInProgress)
	updated, err := s.store.Ticket().Update(ctx, *ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return updated, nil
}

// CompleteTicket attaches the result document, marks the ticket completed
// and syncs the job's assessment sub-record so the status derivation sees
// the completion without ever reading tickets. Calling it again on an
// already-completed ticket re-runs only the job sync.
func (s *TicketService) CompleteTicket(ctx context.Context, id uuid.UUID, completed api.CompletedDocument) (*model.Ticket, error) {
	logger := zap.S().Named("ticket_service")

	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Status != string(api.TicketStatusCompleted) {
		now := time.Now()
		if completed.UploadedAt.IsZero() {
			completed.UploadedAt = now
		}
		if completed.ReturnedAt == nil {
			completed.ReturnedAt = &now
		}

		ticket.Status = string(api.TicketStatusCompleted)
		ticket.CompletedDocument = model.MakeJSONField(completed)
		ticket, err = s.store.Ticket().Update(ctx, *ticket)
		if err != nil {
			return nil, fmt.Errorf("failed to update ticket: %w", err)
		}
	}

	if err := s.syncJobRecord(ctx, ticket); err != nil {
		return nil, NewErrCompletionPartial(ticket.ID, err)
	}

	s.emitFulfillmentEvent(ctx, ticket)
	logger.Infow("ticket completed", "ticket_id", ticket.ID, "job_id", ticket.JobID, "ticket_type", ticket.TicketType)

	return ticket, nil
}

// syncJobRecord copies the completion onto the job's sub-record. It also
// repairs the request fields when the original job patch never landed.
func (s *TicketService) syncJobRecord(ctx context.Context, ticket *model.Ticket) error {
	patch := model.AssessmentRecord{
		Type:              ticket.TicketType,
		Status:            string(api.AssessmentStatusCompleted),
		CompletedDocument: ticket.CompletedDocument,
	}
	if ticket.Request != nil {
		patch.DevelopmentType = ticket.Request.Data.DevelopmentType
		patch.AdditionalInfo = ticket.Request.Data.AdditionalInfo
		if len(ticket.Request.Data.Documents) > 0 {
			patch.Documents = model.MakeJSONField(ticket.Request.Data.Documents)
		}
	}

	_, err := s.store.Job().UpsertAssessment(ctx, ticket.JobID, patch)
	return err
}

func (s *TicketService) emitFulfillmentEvent(ctx context.Context, ticket *model.Ticket) {
	if s.eventWriter == nil {
		return
	}

	event := events.FulfillmentEvent{
		JobID:          ticket.JobID.String(),
		TicketID:       ticket.ID.String(),
		AssessmentType: api.AssessmentType(ticket.TicketType),
		Status:         api.TicketStatus(ticket.Status),
	}
	data, err := json.Marshal(event)
	if err != nil {
		zap.S().Named("ticket_service").Errorw("failed to marshal fulfillment event", "error", err)
		return
	}
	if err := s.eventWriter.Write(ctx, events.FulfillmentMessageKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("ticket_service").Errorw("failed to write fulfillment event", "error", err)
	}
}

// TicketFilter represents filtering options for listing tickets
type TicketFilter struct {
	OrgID      string
	JobID      string
	TicketType string
	Status     string
	Limit      int
	Offset     int
}

func NewTicketFilter(orgID string) *TicketFilter {
	return &TicketFilter{OrgID: orgID}
}

func (f *TicketFilter) WithJobID(jobID string) *TicketFilter {
	f.JobID = jobID
	return f
}

func (f *TicketFilter) WithTicketType(ticketType string) *TicketFilter {
	f.TicketType = ticketType
	return f
}

func (f *TicketFilter) WithStatus(status string) *TicketFilter {
	f.Status = status
	return f
}

func (f *TicketFilter) WithLimit(limit int) *TicketFilter {
	f.Limit = limit
	return f
}

func (f *TicketFilter) WithOffset(offset int) *TicketFilter {
	f.Offset = offset
	return f
}
