package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/townplan/assessment-portal/internal/store/model"
)

type Document interface {
	List(ctx context.Context, filter *DocumentQueryFilter) (model.DocumentList, error)
	Get(ctx context.Context, jobID uuid.UUID, documentID string) (*model.Document, error)
	Upsert(ctx context.Context, document model.Document) (*model.Document, error)
	Delete(ctx context.Context, jobID uuid.UUID, documentID string) error
}

type DocumentStore struct {
	db *gorm.DB
}

// Make sure we conform to Document interface
var _ Document = (*DocumentStore)(nil)

func NewDocumentStore(db *gorm.DB) Document {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) List(ctx context.Context, filter *DocumentQueryFilter) (model.DocumentList, error) {
	var documents model.DocumentList
	tx := s.getDB(ctx).Model(&documents).Order("uploaded_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&documents)
	if result.Error != nil {
		return nil, result.Error
	}
	return documents, nil
}

func (s *DocumentStore) Get(ctx context.Context, jobID uuid.UUID, documentID string) (*model.Document, error) {
	var document model.Document
	result := s.getDB(ctx).First(&document, "job_id = ? AND document_id = ?", jobID, documentID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &document, nil
}

// Upsert stores the metadata row for one document slot. Uploading into a
// slot that already holds a file replaces the previous metadata.
func (s *DocumentStore) Upsert(ctx context.Context, document model.Document) (*model.Document, error) {
	result := s.getDB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}, {Name: "document_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"file_name", "original_name", "content_type", "size", "uploaded_at",
		}),
	}).Create(&document)
	if result.Error != nil {
		return nil, result.Error
	}
	return s.Get(ctx, document.JobID, document.DocumentID)
}

func (s *DocumentStore) Delete(ctx context.Context, jobID uuid.UUID, documentID string) error {
	result := s.getDB(ctx).Unscoped().
		Delete(&model.Document{}, "job_id = ? AND document_id = ?", jobID, documentID)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (s *DocumentStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
