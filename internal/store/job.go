package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/townplan/assessment-portal/internal/store/model"
)

type Job interface {
	List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	UpdateSiteDetails(ctx context.Context, id uuid.UUID, details map[string]any) (*model.Job, error)
	UpsertAssessment(ctx context.Context, jobID uuid.UUID, patch model.AssessmentRecord) (*model.AssessmentRecord, error)
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error) {
	var jobs model.JobList
	tx := s.getDB(ctx).Model(&jobs).Order("created_at DESC").Preload("Assessments")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	result := s.getDB(ctx).Preload("Assessments").First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	result := s.getDB(ctx).Clauses(clause.Returning{}).Create(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &job, nil
}

// UpdateSiteDetails replaces the site details blob only. Assessment
// sub-records and property data are left untouched.
func (s *JobStore) UpdateSiteDetails(ctx context.Context, id uuid.UUID, details map[string]any) (*model.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job.SiteDetails = model.MakeJSONField(details)
	job.UpdatedAt = &now
	if err := s.getDB(ctx).Model(&model.Job{ID: job.ID}).
		Updates(map[string]any{"site_details": job.SiteDetails, "updated_at": job.UpdatedAt}).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// UpsertAssessment merges the patch into the job's sub-record for
// patch.Type, creating the record if it does not exist yet. Only the fields
// present on the patch are written; sibling sub-records and the job row
// itself are never modified. The read-modify-write runs in one transaction
// so concurrent patches to the same sub-record cannot interleave.
func (s *JobStore) UpsertAssessment(ctx context.Context, jobID uuid.UUID, patch model.AssessmentRecord) (*model.AssessmentRecord, error) {
	ownsTx := FromContext(ctx) == nil
	if ownsTx {
		var err error
		ctx, err = newTransactionContext(ctx, s.db)
		if err != nil {
			return nil, err
		}
	}

	record, err := s.upsertAssessment(ctx, jobID, patch)
	if !ownsTx {
		return record, err
	}
	if err != nil {
		_, _ = Rollback(ctx)
		return nil, err
	}
	if _, err := Commit(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *JobStore) upsertAssessment(ctx context.Context, jobID uuid.UUID, patch model.AssessmentRecord) (*model.AssessmentRecord, error) {
	db := s.getDB(ctx)

	var existing model.AssessmentRecord
	err := db.Where("job_id = ? AND type = ?", jobID, patch.Type).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		patch.JobID = jobID
		if patch.CreatedAt.IsZero() {
			patch.CreatedAt = time.Now()
		}
		if patch.Status == "" {
			patch.Status = "unset"
		}
		if err := db.Create(&patch).Error; err != nil {
			return nil, err
		}
		return &patch, nil
	}

	if patch.Status != "" {
		existing.Status = patch.Status
	}
	if patch.DevelopmentType != "" {
		existing.DevelopmentType = patch.DevelopmentType
	}
	if patch.AdditionalInfo != "" {
		existing.AdditionalInfo = patch.AdditionalInfo
	}
	if patch.Documents != nil {
		existing.Documents = patch.Documents
	}
	if patch.CompletedDocument != nil {
		existing.CompletedDocument = patch.CompletedDocument
	}

	now := time.Now()
	existing.UpdatedAt = &now
	if err := db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *JobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
