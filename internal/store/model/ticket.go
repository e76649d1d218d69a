package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	api "github.com/townplan/assessment-portal/api/v1"
)

// Ticket is one submitted unit of work for the fulfillment staff. It is
// created exactly once per logical submission; the submission key makes the
// create retry-safe. Tickets are never deleted.
type Ticket struct {
	ID                uuid.UUID `gorm:"primaryKey;type:VARCHAR(255);"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         *time.Time
	JobID             uuid.UUID `gorm:"not null;index:tickets_job_id_idx;type:VARCHAR(255);"`
	JobAddress        string
	OrgID             string `gorm:"not null;index:tickets_org_id_idx"`
	Username          string `gorm:"type:VARCHAR(255)"`
	TicketType        string `gorm:"not null;type:VARCHAR(100)"`
	Category          string `gorm:"type:VARCHAR(100)"`
	Status            string `gorm:"not null;type:VARCHAR(50)"`
	SubmissionKey     string `gorm:"not null;uniqueIndex:tickets_submission_key_idx;type:VARCHAR(255)"`
	Request           *JSONField[api.AssessmentRequest] `gorm:"type:jsonb;not null"`
	CompletedDocument *JSONField[api.CompletedDocument] `gorm:"type:jsonb"`
}

type TicketList []Ticket

func (t Ticket) String() string {
	val, _ := json.Marshal(t)
	return string(val)
}
