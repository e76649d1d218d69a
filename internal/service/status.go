package service

import (
	"errors"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/catalog"
	"github.com/townplan/assessment-portal/internal/store/model"
)

// ErrNilJob is returned when a caller passes no job at all. A job without
// the requested sub-record is valid input; a missing job is not.
var ErrNilJob = errors.New("job is required")

// ReportStatus is the derived state of one report section of a job.
type ReportStatus struct {
	IsPaid      bool
	IsCompleted bool
	HasFile     bool
	Record      *model.AssessmentRecord
}

// GetReportStatus derives the payment/completion state of one assessment
// type from the job's sub-record. The job's sub-record is the single read
// source; work tickets are a write-side audit trail and are never consulted
// here. A job without the sub-record is the not-purchased state, not an
// error.
func GetReportStatus(assessmentType api.AssessmentType, job *model.Job) (ReportStatus, error) {
	if job == nil {
		return ReportStatus{}, ErrNilJob
	}

	record := job.Assessment(assessmentType)
	if record == nil {
		return ReportStatus{}, nil
	}

	status := ReportStatus{
		IsPaid:      record.Status == string(api.AssessmentStatusPaid),
		IsCompleted: record.Status == string(api.AssessmentStatusCompleted),
		Record:      record,
	}

	// A completed document only counts once it has actually been returned
	// to the customer.
	if record.CompletedDocument != nil && record.CompletedDocument.Data.ReturnedAt != nil {
		status.HasFile = true
	}

	return status, nil
}

// DocumentDisplayStatus maps one document slot to its tile status. Plain
// slots depend on the uploads only; report slots delegate to
// GetReportStatus. Pure: identical inputs always produce the identical
// status.
func DocumentDisplayStatus(descriptor catalog.Descriptor, job *model.Job, uploads map[string]model.Document) (api.DisplayStatus, error) {
	if job == nil {
		return "", ErrNilJob
	}

	if !descriptor.Report {
		if _, ok := uploads[descriptor.ID]; ok {
			return api.DisplayStatusUploaded, nil
		}
		return api.DisplayStatusRequired, nil
	}

	report, err := GetReportStatus(api.AssessmentType(descriptor.ID), job)
	if err != nil {
		return "", err
	}

	switch {
	case report.IsCompleted && report.HasFile:
		return api.DisplayStatusDownloadable, nil
	case report.IsPaid && !report.IsCompleted:
		return api.DisplayStatusPendingFulfillment, nil
	default:
		// Completed without a returned file is deliberately NOT
		// downloadable; the tile falls back to required until the
		// document lands.
		return api.DisplayStatusRequired, nil
	}
}

// UploadsByDocumentID indexes a document list for status derivation.
func UploadsByDocumentID(documents model.DocumentList) map[string]model.Document {
	uploads := make(map[string]model.Document, len(documents))
	for _, d := range documents {
		uploads[d.DocumentID] = d
	}
	return uploads
}
