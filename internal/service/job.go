package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/catalog"
	"github.com/townplan/assessment-portal/internal/service/mappers"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
)

type JobService struct {
	store   store.Store
	catalog *catalog.Catalog
}

func NewJobService(store store.Store, cat *catalog.Catalog) *JobService {
	return &JobService{
		store:   store,
		catalog: cat,
	}
}

func (s *JobService) CreateJob(ctx context.Context, createForm mappers.JobCreateForm) (*model.Job, error) {
	job, err := s.store.Job().Create(ctx, createForm.ToModel())
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	zap.S().Named("job_service").Infow("job created", "job_id", job.ID, "org_id", job.OrgID)
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context, filter *JobFilter) (model.JobList, error) {
	storeFilter := store.NewJobQueryFilter().ByOrgID(filter.OrgID)
	if filter.AddressLike != "" {
		storeFilter = storeFilter.ByAddressLike(filter.AddressLike)
	}

	jobs, err := s.store.Job().List(ctx, storeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) UpdateSiteDetails(ctx context.Context, id uuid.UUID, details map[string]any) (*model.Job, error) {
	job, err := s.store.Job().UpdateSiteDetails(ctx, id, details)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, fmt.Errorf("failed to update site details: %w", err)
	}
	return job, nil
}

// DocumentTiles computes the documents page for one job: every catalog slot
// joined with the job's uploads and report states.
func (s *JobService) DocumentTiles(ctx context.Context, jobID uuid.UUID) ([]api.DocumentTile, error) {
	job, err := s.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	documents, err := s.store.Document().List(ctx, store.NewDocumentQueryFilter().ByJobID(jobID.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	uploads := UploadsByDocumentID(documents)

	descriptors := s.catalog.Descriptors()
	tiles := make([]api.DocumentTile, 0, len(descriptors))
	for _, descriptor := range descriptors {
		displayStatus, err := DocumentDisplayStatus(descriptor, job, uploads)
		if err != nil {
			return nil, err
		}

		tile := api.DocumentTile{
			ID:            descriptor.ID,
			Title:         descriptor.Title,
			Category:      descriptor.Category,
			Required:      descriptor.Required,
			DisplayStatus: displayStatus,
		}
		if upload, ok := uploads[descriptor.ID]; ok && !descriptor.Report {
			uploadedAt := upload.UploadedAt
			tile.OriginalName = upload.OriginalName
			tile.UploadedAt = &uploadedAt
		}
		tiles = append(tiles, tile)
	}

	return tiles, nil
}

// JobFilter represents filtering options for listing jobs
type JobFilter struct {
	OrgID       string
	AddressLike string
}

func NewJobFilter(orgID string) *JobFilter {
	return &JobFilter{OrgID: orgID}
}

func (f *JobFilter) WithAddressLike(pattern string) *JobFilter {
	f.AddressLike = pattern
	return f
}
