package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	api "github.com/townplan/assessment-portal/api/v1"
)

// Job is one tracked property/development application. Assessment
// sub-records hang off it, one per purchased report type.
type Job struct {
	ID           uuid.UUID `gorm:"primaryKey;type:VARCHAR(255);"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    *time.Time
	OrgID        string                     `gorm:"not null;index:jobs_org_id_idx"`
	Username     string                     `gorm:"type:VARCHAR(255)"`
	Address      string                     `gorm:"not null"`
	PropertyData *JSONField[map[string]any] `gorm:"type:jsonb"`
	SiteDetails  *JSONField[map[string]any] `gorm:"type:jsonb"`
	Assessments  []AssessmentRecord         `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE;"`
}

// AssessmentRecord is the per-report-type request/fulfillment state embedded
// in a job. (job_id, type) is unique; status moves unset -> paid -> completed
// and never backwards.
type AssessmentRecord struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	JobID             uuid.UUID `gorm:"not null;uniqueIndex:assessment_records_job_id_type;type:VARCHAR(255);"`
	Type              string    `gorm:"not null;uniqueIndex:assessment_records_job_id_type;type:VARCHAR(100)"`
	Status            string    `gorm:"not null;default:'unset';type:VARCHAR(50)"`
	DevelopmentType   string
	AdditionalInfo    string
	Documents         *JSONField[map[string]api.DocumentSnapshot] `gorm:"type:jsonb"`
	CompletedDocument *JSONField[api.CompletedDocument]           `gorm:"type:jsonb"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         *time.Time
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

// Assessment returns the sub-record for the given type, or nil when the job
// has never initiated that report. Absence is a meaningful state, not an
// error.
func (j *Job) Assessment(assessmentType api.AssessmentType) *AssessmentRecord {
	for i := range j.Assessments {
		if j.Assessments[i].Type == string(assessmentType) {
			return &j.Assessments[i]
		}
	}
	return nil
}

func (r AssessmentRecord) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}
