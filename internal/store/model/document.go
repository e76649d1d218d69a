package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is the metadata row for one uploaded file. The bytes live in the
// object store under FileName; (job_id, document_id) is unique so
// re-uploading a slot replaces the previous file.
type Document struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	JobID        uuid.UUID `gorm:"not null;uniqueIndex:documents_job_id_document_id;type:VARCHAR(255);"`
	DocumentID   string    `gorm:"not null;uniqueIndex:documents_job_id_document_id;type:VARCHAR(100)"`
	FileName     string    `gorm:"not null"`
	OriginalName string    `gorm:"not null"`
	ContentType  string    `gorm:"type:VARCHAR(255)"`
	Size         int64
	UploadedAt   time.Time `gorm:"not null"`
}

type DocumentList []Document

func (d Document) String() string {
	val, _ := json.Marshal(d)
	return string(val)
}
