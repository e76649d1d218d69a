package mappers

import (
	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/store/model"
)

func JobToApi(j model.Job) api.JobView {
	view := api.JobView{
		ID:        j.ID,
		Address:   j.Address,
		CreatedAt: j.CreatedAt,
	}
	if j.PropertyData != nil {
		view.PropertyData = j.PropertyData.Data
	}
	if j.SiteDetails != nil {
		view.SiteDetails = j.SiteDetails.Data
	}
	if len(j.Assessments) > 0 {
		view.Assessments = make(map[api.AssessmentType]api.AssessmentView, len(j.Assessments))
		for _, record := range j.Assessments {
			view.Assessments[api.AssessmentType(record.Type)] = AssessmentRecordToApi(record)
		}
	}
	return view
}

func JobListToApi(jobs model.JobList) api.JobListView {
	views := make(api.JobListView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, JobToApi(j))
	}
	return views
}

func AssessmentRecordToApi(r model.AssessmentRecord) api.AssessmentView {
	createdAt := r.CreatedAt
	view := api.AssessmentView{
		Type:            api.AssessmentType(r.Type),
		Status:          api.AssessmentStatus(r.Status),
		DevelopmentType: r.DevelopmentType,
		AdditionalInfo:  r.AdditionalInfo,
		CreatedAt:       &createdAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Documents != nil {
		view.Documents = r.Documents.Data
	}
	if r.CompletedDocument != nil {
		completed := r.CompletedDocument.Data
		view.CompletedDocument = &completed
	}
	return view
}

func TicketToApi(t model.Ticket) api.TicketView {
	view := api.TicketView{
		ID:         t.ID,
		JobID:      t.JobID,
		JobAddress: t.JobAddress,
		TicketType: api.AssessmentType(t.TicketType),
		Category:   t.Category,
		Status:     api.TicketStatus(t.Status),
		CreatedAt:  t.CreatedAt,
	}
	if t.Request != nil {
		view.Request = t.Request.Data
	}
	if t.CompletedDocument != nil {
		completed := t.CompletedDocument.Data
		view.CompletedDocument = &completed
	}
	return view
}

func TicketListToApi(tickets model.TicketList) api.TicketListView {
	views := make(api.TicketListView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, TicketToApi(t))
	}
	return views
}

func DocumentToApi(d model.Document) api.DocumentView {
	return api.DocumentView{
		DocumentID:   d.DocumentID,
		FileName:     d.FileName,
		OriginalName: d.OriginalName,
		ContentType:  d.ContentType,
		Size:         d.Size,
		UploadedAt:   d.UploadedAt,
	}
}
