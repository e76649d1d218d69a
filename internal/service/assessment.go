package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/catalog"
	"github.com/townplan/assessment-portal/internal/events"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
	"github.com/townplan/assessment-portal/pkg/metrics"
)

// AssessmentService implements the submission protocol: the requirement
// gate, the ticket create and the job patch. The two writes are not atomic;
// the submission key makes the sequence retry-safe.
type AssessmentService struct {
	store       store.Store
	catalog     *catalog.Catalog
	eventWriter *events.EventProducer
}

func NewAssessmentService(store store.Store, cat *catalog.Catalog, ew *events.EventProducer) *AssessmentService {
	return &AssessmentService{
		store:       store,
		catalog:     cat,
		eventWriter: ew,
	}
}

// ConfirmCheck runs the requirement gate for one assessment type without
// writing anything. The handlers expose it so the UI can enable/disable the
// confirm button; SubmitAssessment re-runs the same predicate before any
// write.
func (s *AssessmentService) ConfirmCheck(ctx context.Context, jobID uuid.UUID, assessmentType api.AssessmentType, form ConfirmForm) (GateDecision, error) {
	if _, ok := s.catalog.TypeSpec(assessmentType); !ok {
		return GateDecision{}, NewErrUnknownAssessmentType(string(assessmentType))
	}

	if _, err := s.store.Job().Get(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return GateDecision{}, NewErrJobNotFound(jobID)
		}
		return GateDecision{}, fmt.Errorf("failed to get job: %w", err)
	}

	statuses, _, err := s.documentStatuses(ctx, jobID)
	if err != nil {
		return GateDecision{}, err
	}

	return CanConfirmDetails(form, s.catalog.RequiredDocuments(assessmentType), statuses), nil
}

// SubmitAssessment moves one assessment from unset to paid: it re-checks
// the gate server-side, creates the work ticket (idempotent on the
// submission key) and patches the job's sub-record. A retry after a partial
// failure reuses the persisted ticket and only completes the job patch.
func (s *AssessmentService) SubmitAssessment(ctx context.Context, jobID uuid.UUID, assessmentType api.AssessmentType, request api.AssessmentRequest) (*model.Ticket, error) {
	logger := zap.S().Named("assessment_service")

	spec, ok := s.catalog.TypeSpec(assessmentType)
	if !ok {
		return nil, NewErrUnknownAssessmentType(string(assessmentType))
	}

	job, err := s.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	// the lattice only moves forward; a completed assessment cannot be
	// re-submitted
	if record := job.Assessment(assessmentType); record != nil &&
		record.Status == string(api.AssessmentStatusCompleted) {
		return nil, NewErrAssessmentAlreadyCompleted(jobID, string(assessmentType))
	}

	statuses, uploads, err := s.documentStatuses(ctx, jobID)
	if err != nil {
		return nil, err
	}

	form := ConfirmForm{DevelopmentType: request.DevelopmentType, AdditionalInfo: request.AdditionalInfo}
	decision := CanConfirmDetails(form, spec.RequiredDocuments, statuses)
	if !decision.Allowed {
		metrics.IncreaseSubmissionsTotalMetric(string(assessmentType), "rejected")
		return nil, NewErrValidation(decision.Reason)
	}

	// snapshot the required documents as they are right now; the ticket
	// keeps a copy, not a live reference
	snapshots := make(map[string]api.DocumentSnapshot, len(spec.RequiredDocuments))
	for _, documentID := range spec.RequiredDocuments {
		upload := uploads[documentID]
		snapshots[documentID] = api.DocumentSnapshot{
			OriginalName: upload.OriginalName,
			FileName:     upload.FileName,
		}
	}
	request.Documents = snapshots
	if request.Category == "" {
		request.Category = spec.Category
	}

	key := SubmissionKey(jobID, assessmentType, request)

	ticket, err := s.store.Ticket().Create(ctx, model.Ticket{
		ID:            uuid.New(),
		JobID:         jobID,
		JobAddress:    job.Address,
		OrgID:         job.OrgID,
		Username:      job.Username,
		TicketType:    string(assessmentType),
		Category:      request.Category,
		Status:        string(api.TicketStatusPending),
		SubmissionKey: key,
		Request:       model.MakeJSONField(request),
	})
	if err != nil {
		metrics.IncreaseSubmissionsTotalMetric(string(assessmentType), "failed")
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if _, err := s.store.Job().UpsertAssessment(ctx, jobID, model.AssessmentRecord{
		Type:            string(assessmentType),
		Status:          string(api.AssessmentStatusPaid),
		DevelopmentType: request.DevelopmentType,
		AdditionalInfo:  request.AdditionalInfo,
		Documents:       model.MakeJSONField(snapshots),
	}); err != nil {
		// the ticket exists; surface a distinct error so the caller can
		// retry just the missing half
		metrics.IncreaseSubmissionsTotalMetric(string(assessmentType), "partial")
		return nil, NewErrSubmissionPartial(ticket.ID, err)
	}

	metrics.IncreaseSubmissionsTotalMetric(string(assessmentType), "ok")
	s.emitSubmissionEvent(ctx, ticket)

	logger.Infow("assessment submitted",
		"job_id", jobID, "assessment_type", assessmentType, "ticket_id", ticket.ID)

	return ticket, nil
}

// documentStatuses derives the display status of every plain document slot
// of a job, plus the raw uploads keyed by document id.
func (s *AssessmentService) documentStatuses(ctx context.Context, jobID uuid.UUID) (map[string]api.DisplayStatus, map[string]model.Document, error) {
	documents, err := s.store.Document().List(ctx, store.NewDocumentQueryFilter().ByJobID(jobID.String()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list documents: %w", err)
	}

	uploads := UploadsByDocumentID(documents)
	statuses := make(map[string]api.DisplayStatus, len(uploads))
	for documentID := range uploads {
		statuses[documentID] = api.DisplayStatusUploaded
	}
	return statuses, uploads, nil
}

func (s *AssessmentService) emitSubmissionEvent(ctx context.Context, ticket *model.Ticket) {
	if s.eventWriter == nil {
		return
	}

	event := events.SubmissionEvent{
		JobID:          ticket.JobID.String(),
		TicketID:       ticket.ID.String(),
		AssessmentType: api.AssessmentType(ticket.TicketType),
	}
	data, err := json.Marshal(event)
	if err != nil {
		zap.S().Named("assessment_service").Errorw("failed to marshal submission event", "error", err)
		return
	}
	if err := s.eventWriter.Write(ctx, events.SubmissionMessageKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("assessment_service").Errorw("failed to write submission event", "error", err)
	}
}

// SubmissionKey derives the idempotency key of one logical submission from
// the job, the assessment type and the request payload. Identical retries
// map to the same ticket; a changed request is a new submission.
func SubmissionKey(jobID uuid.UUID, assessmentType api.AssessmentType, request api.AssessmentRequest) string {
	payload, _ := json.Marshal(request)

	h := sha256.New()
	h.Write([]byte(jobID.String()))
	h.Write([]byte{0})
	h.Write([]byte(assessmentType))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
