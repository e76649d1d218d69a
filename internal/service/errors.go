package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job")
}

func NewErrTicketNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "ticket")
}

type ErrDocumentNotFound struct {
	error
}

func NewErrDocumentNotFound(jobID uuid.UUID, documentID string) *ErrDocumentNotFound {
	return &ErrDocumentNotFound{fmt.Errorf("document %s not found for job %s", documentID, jobID)}
}

// ErrValidation is raised by the requirement gate before any write has
// occurred. Reason matches the gate decision reason.
type ErrValidation struct {
	error
	Reason string
}

func NewErrValidation(reason string) *ErrValidation {
	return &ErrValidation{
		error:  fmt.Errorf("validation failed: %s", reason),
		Reason: reason,
	}
}

type ErrUnknownAssessmentType struct {
	error
}

func NewErrUnknownAssessmentType(t string) *ErrUnknownAssessmentType {
	return &ErrUnknownAssessmentType{fmt.Errorf("unknown assessment type %q", t)}
}

type ErrUnknownDocumentType struct {
	error
}

func NewErrUnknownDocumentType(id string) *ErrUnknownDocumentType {
	return &ErrUnknownDocumentType{fmt.Errorf("unknown document type %q", id)}
}

// ErrSubmissionPartial signals that the work ticket was persisted but the
// job patch failed. The caller can retry the same submission: the ticket
// create is idempotent on the submission key, so the retry only completes
// the missing half.
type ErrSubmissionPartial struct {
	error
	TicketID uuid.UUID
}

func NewErrSubmissionPartial(ticketID uuid.UUID, cause error) *ErrSubmissionPartial {
	return &ErrSubmissionPartial{
		error:    fmt.Errorf("ticket %s created but job update failed: %w", ticketID, cause),
		TicketID: ticketID,
	}
}

func (e *ErrSubmissionPartial) Unwrap() error {
	return e.error
}

type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(from, to string) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("invalid status transition %s -> %s", from, to)}
}

type ErrAssessmentAlreadyCompleted struct {
	error
}

func NewErrAssessmentAlreadyCompleted(jobID uuid.UUID, t string) *ErrAssessmentAlreadyCompleted {
	return &ErrAssessmentAlreadyCompleted{fmt.Errorf("assessment %s for job %s is already completed", t, jobID)}
}
