package events

import (
	"time"

	api "github.com/townplan/assessment-portal/api/v1"
)

const (
	SubmissionMessageKind  string = "portal.events.submission"
	FulfillmentMessageKind string = "portal.events.fulfillment"
	UploadMessageKind      string = "portal.events.upload"
	defaultTopic           string = "portal.events"
)

// Event is the envelope written to the event stream.
type Event struct {
	ID   string    `json:"id"`
	Kind string    `json:"kind"`
	Time time.Time `json:"time"`
	Data []byte    `json:"data"`
}

type SubmissionEvent struct {
	JobID          string             `json:"job_id"`
	TicketID       string             `json:"ticket_id"`
	AssessmentType api.AssessmentType `json:"assessment_type"`
}

type FulfillmentEvent struct {
	JobID          string             `json:"job_id"`
	TicketID       string             `json:"ticket_id"`
	AssessmentType api.AssessmentType `json:"assessment_type"`
	Status         api.TicketStatus   `json:"status"`
}

type UploadEvent struct {
	JobID      string `json:"job_id"`
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
}
