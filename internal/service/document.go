package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/townplan/assessment-portal/internal/catalog"
	"github.com/townplan/assessment-portal/internal/events"
	"github.com/townplan/assessment-portal/internal/objectstore"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
	"github.com/townplan/assessment-portal/pkg/metrics"
)

type DocumentService struct {
	store       store.Store
	objects     objectstore.Store
	catalog     *catalog.Catalog
	eventWriter *events.EventProducer
}

func NewDocumentService(store store.Store, objects objectstore.Store, cat *catalog.Catalog, ew *events.EventProducer) *DocumentService {
	return &DocumentService{
		store:       store,
		objects:     objects,
		catalog:     cat,
		eventWriter: ew,
	}
}

// Upload stores the file bytes and the metadata row for one document slot.
// Re-uploading a slot replaces the previous file.
func (s *DocumentService) Upload(ctx context.Context, jobID uuid.UUID, documentID, originalName, contentType string, size int64, r io.Reader) (*model.Document, error) {
	descriptor, ok := s.catalog.Descriptor(documentID)
	if !ok || descriptor.Report {
		return nil, NewErrUnknownDocumentType(documentID)
	}

	if _, err := s.store.Job().Get(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s", jobID, documentID, uuid.NewString())
	if err := s.objects.Put(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store document bytes: %w", err)
	}

	document, err := s.store.Document().Upsert(ctx, model.Document{
		JobID:        jobID,
		DocumentID:   documentID,
		FileName:     key,
		OriginalName: originalName,
		ContentType:  contentType,
		Size:         size,
		UploadedAt:   time.Now(),
	})
	if err != nil {
		// keep the object store clean when the metadata write fails
		_ = s.objects.Remove(ctx, key)
		return nil, fmt.Errorf("failed to store document metadata: %w", err)
	}

	metrics.IncreaseDocumentUploadsTotalMetric(documentID)
	s.emitUploadEvent(ctx, document)

	zap.S().Named("document_service").Infow("document uploaded",
		"job_id", jobID, "document_id", documentID, "file_name", key, "size", size)

	return document, nil
}

// Download streams the bytes of one uploaded document.
func (s *DocumentService) Download(ctx context.Context, jobID uuid.UUID, documentID string) (io.ReadCloser, *model.Document, error) {
	document, err := s.store.Document().Get(ctx, jobID, documentID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, NewErrDocumentNotFound(jobID, documentID)
		}
		return nil, nil, fmt.Errorf("failed to get document: %w", err)
	}

	rc, err := s.objects.Get(ctx, document.FileName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document bytes: %w", err)
	}
	return rc, document, nil
}

func (s *DocumentService) Delete(ctx context.Context, jobID uuid.UUID, documentID string) error {
	document, err := s.store.Document().Get(ctx, jobID, documentID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrDocumentNotFound(jobID, documentID)
		}
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := s.store.Document().Delete(ctx, jobID, documentID); err != nil {
		return fmt.Errorf("failed to delete document metadata: %w", err)
	}

	if err := s.objects.Remove(ctx, document.FileName); err != nil {
		// metadata is gone; the orphaned object is only a storage leak
		zap.S().Named("document_service").Warnw("failed to remove document bytes",
			"job_id", jobID, "document_id", documentID, "file_name", document.FileName, "error", err)
	}
	return nil
}

func (s *DocumentService) List(ctx context.Context, jobID uuid.UUID) (model.DocumentList, error) {
	documents, err := s.store.Document().List(ctx, store.NewDocumentQueryFilter().ByJobID(jobID.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

func (s *DocumentService) emitUploadEvent(ctx context.Context, document *model.Document) {
	if s.eventWriter == nil {
		return
	}

	event := events.UploadEvent{
		JobID:      document.JobID.String(),
		DocumentID: document.DocumentID,
		FileName:   document.FileName,
	}
	data, err := json.Marshal(event)
	if err != nil {
		zap.S().Named("document_service").Errorw("failed to marshal upload event", "error", err)
		return
	}
	if err := s.eventWriter.Write(ctx, events.UploadMessageKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("document_service").Errorw("failed to write upload event", "error", err)
	}
}
