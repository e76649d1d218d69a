// Package v1 holds the wire types shared between the portal API handlers,
// the service layer and the clients.
package v1

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentType identifies one report kind a job can purchase.
type AssessmentType string

const (
	AssessmentTypeCustom          AssessmentType = "custom"
	AssessmentTypeWasteManagement AssessmentType = "waste-management"
	AssessmentTypeInitial         AssessmentType = "initial"
)

// AssessmentStatus is the per-job request/fulfillment state of one report.
// It only ever moves forward: unset -> paid -> completed.
type AssessmentStatus string

const (
	AssessmentStatusUnset     AssessmentStatus = "unset"
	AssessmentStatusPaid      AssessmentStatus = "paid"
	AssessmentStatusCompleted AssessmentStatus = "completed"
)

// TicketStatus is the staff-facing state of a submitted work ticket.
// Not every ticket kind uses every value.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusPaid       TicketStatus = "paid"
	TicketStatusCompleted  TicketStatus = "completed"
)

// DisplayStatus is the derived, UI-facing state of a document tile.
type DisplayStatus string

const (
	DisplayStatusRequired           DisplayStatus = "required"
	DisplayStatusUploaded           DisplayStatus = "uploaded"
	DisplayStatusPendingFulfillment DisplayStatus = "pending_fulfillment"
	DisplayStatusDownloadable       DisplayStatus = "downloadable"
)

// DocumentSnapshot is the copy of an uploaded document's identity captured
// into a work ticket at submission time. It is a snapshot, not a live
// reference to the document store.
type DocumentSnapshot struct {
	OriginalName string `json:"originalName"`
	FileName     string `json:"fileName"`
}

// CompletedDocument describes the result document a fulfiller attaches to a
// completed ticket. ReturnedAt is set when the document has been returned to
// the customer; a completed record without it must not be reported as
// downloadable.
type CompletedDocument struct {
	Filename     string     `json:"filename"`
	OriginalName string     `json:"originalName"`
	UploadedAt   time.Time  `json:"uploadedAt"`
	ReturnedAt   *time.Time `json:"returnedAt,omitempty"`
}

// AssessmentRequest carries the user-entered request details for one
// assessment submission.
type AssessmentRequest struct {
	DevelopmentType string                      `json:"developmentType"`
	AdditionalInfo  string                      `json:"additionalInfo"`
	Category        string                      `json:"category,omitempty"`
	Documents       map[string]DocumentSnapshot `json:"documents,omitempty"`
}

type CreateJobRequest struct {
	Address      string         `json:"address" validate:"required,job_address"`
	PropertyData map[string]any `json:"propertyData,omitempty"`
	SiteDetails  map[string]any `json:"siteDetails,omitempty"`
}

type UpdateSiteDetailsRequest struct {
	SiteDetails map[string]any `json:"siteDetails" validate:"required"`
}

type SubmitAssessmentRequest struct {
	DevelopmentType string `json:"developmentType" validate:"development_type"`
	AdditionalInfo  string `json:"additionalInfo"`
	Category        string `json:"category,omitempty"`
}

type CompleteTicketRequest struct {
	Filename     string `json:"filename" validate:"required,object_name"`
	OriginalName string `json:"originalName" validate:"required,object_name"`
}

// AssessmentView is the API projection of a job's assessment sub-record.
type AssessmentView struct {
	Type              AssessmentType     `json:"type"`
	Status            AssessmentStatus   `json:"status"`
	DevelopmentType   string             `json:"developmentType,omitempty"`
	AdditionalInfo    string             `json:"additionalInfo,omitempty"`
	Documents         map[string]DocumentSnapshot `json:"documents,omitempty"`
	CompletedDocument *CompletedDocument `json:"completedDocument,omitempty"`
	CreatedAt         *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time         `json:"updatedAt,omitempty"`
}

type JobView struct {
	ID           uuid.UUID                         `json:"id"`
	Address      string                            `json:"address"`
	PropertyData map[string]any                    `json:"propertyData,omitempty"`
	SiteDetails  map[string]any                    `json:"siteDetails,omitempty"`
	Assessments  map[AssessmentType]AssessmentView `json:"assessments,omitempty"`
	CreatedAt    time.Time                         `json:"createdAt"`
}

type JobListView []JobView

// DocumentTile is the derived view backing one slot in the documents page.
type DocumentTile struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Category      string        `json:"category"`
	Required      bool          `json:"required"`
	DisplayStatus DisplayStatus `json:"displayStatus"`
	OriginalName  string        `json:"originalName,omitempty"`
	UploadedAt    *time.Time    `json:"uploadedAt,omitempty"`
}

type DocumentView struct {
	DocumentID   string    `json:"documentId"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type TicketView struct {
	ID                uuid.UUID          `json:"id"`
	JobID             uuid.UUID          `json:"jobId"`
	JobAddress        string             `json:"jobAddress"`
	TicketType        AssessmentType     `json:"ticketType"`
	Category          string             `json:"category,omitempty"`
	Status            TicketStatus       `json:"status"`
	Request           AssessmentRequest  `json:"request"`
	CompletedDocument *CompletedDocument `json:"completedDocument,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
}

type TicketListView []TicketView

// GateDecisionView reports whether the confirm-details action is allowed.
type GateDecisionView struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"requestId,omitempty"`
}
