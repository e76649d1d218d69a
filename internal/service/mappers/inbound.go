package mappers

import (
	"github.com/google/uuid"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/auth"
	"github.com/townplan/assessment-portal/internal/store/model"
)

// JobCreateForm carries the validated input of a job creation request.
type JobCreateForm struct {
	ID           uuid.UUID
	OrgID        string
	Username     string
	Address      string
	PropertyData map[string]any
	SiteDetails  map[string]any
}

func (f JobCreateForm) ToModel() model.Job {
	job := model.Job{
		ID:       f.ID,
		OrgID:    f.OrgID,
		Username: f.Username,
		Address:  f.Address,
	}
	if f.PropertyData != nil {
		job.PropertyData = model.MakeJSONField(f.PropertyData)
	}
	if f.SiteDetails != nil {
		job.SiteDetails = model.MakeJSONField(f.SiteDetails)
	}
	return job
}

func JobFormToCreateForm(resource api.CreateJobRequest, user auth.User) JobCreateForm {
	return JobCreateForm{
		ID:           uuid.New(),
		OrgID:        user.Organization,
		Username:     user.Username,
		Address:      resource.Address,
		PropertyData: resource.PropertyData,
		SiteDetails:  resource.SiteDetails,
	}
}

func SubmitRequestToAssessmentRequest(resource api.SubmitAssessmentRequest) api.AssessmentRequest {
	return api.AssessmentRequest{
		DevelopmentType: resource.DevelopmentType,
		AdditionalInfo:  resource.AdditionalInfo,
		Category:        resource.Category,
	}
}
