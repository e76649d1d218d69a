package reconciler_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/reconciler"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
)

var _ = Describe("sweep", Ordered, func() {
	var (
		s store.Store
		r *reconciler.Reconciler
	)

	BeforeEach(func() {
		s = newTestStore()
		r = reconciler.New(s, time.Minute)
	})

	AfterEach(func() {
		s.Close()
	})

	newCompletedTicket := func(jobID uuid.UUID) model.Ticket {
		now := time.Now()
		return model.Ticket{
			ID:            uuid.New(),
			JobID:         jobID,
			JobAddress:    "12 Harbour St",
			OrgID:         "org-1",
			Username:      "admin",
			TicketType:    string(api.AssessmentTypeCustom),
			Category:      "consultant",
			Status:        string(api.TicketStatusCompleted),
			SubmissionKey: uuid.NewString(),
			Request: model.MakeJSONField(api.AssessmentRequest{
				DevelopmentType: "dual occupancy",
				AdditionalInfo:  "corner block",
			}),
			CompletedDocument: model.MakeJSONField(api.CompletedDocument{
				Filename:     "report.pdf",
				OriginalName: "Report.pdf",
				UploadedAt:   now,
				ReturnedAt:   &now,
			}),
		}
	}

	It("repairs a job record lagging behind its completed ticket", func() {
		jobID := uuid.New()
		_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
		Expect(err).To(BeNil())

		_, err = s.Job().UpsertAssessment(context.TODO(), jobID, model.AssessmentRecord{
			Type:   string(api.AssessmentTypeCustom),
			Status: string(api.AssessmentStatusPaid),
		})
		Expect(err).To(BeNil())

		_, err = s.Ticket().Create(context.TODO(), newCompletedTicket(jobID))
		Expect(err).To(BeNil())

		Expect(r.Sweep(context.TODO())).To(BeNil())

		job, err := s.Job().Get(context.TODO(), jobID)
		Expect(err).To(BeNil())
		record := job.Assessment(api.AssessmentTypeCustom)
		Expect(record).NotTo(BeNil())
		Expect(record.Status).To(Equal(string(api.AssessmentStatusCompleted)))
		Expect(record.CompletedDocument.Data.Filename).To(Equal("report.pdf"))
		Expect(record.DevelopmentType).To(Equal("dual occupancy"))
	})

	It("creates the sub-record when the original job patch never landed", func() {
		jobID := uuid.New()
		_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
		Expect(err).To(BeNil())

		_, err = s.Ticket().Create(context.TODO(), newCompletedTicket(jobID))
		Expect(err).To(BeNil())

		Expect(r.Sweep(context.TODO())).To(BeNil())

		job, err := s.Job().Get(context.TODO(), jobID)
		Expect(err).To(BeNil())
		record := job.Assessment(api.AssessmentTypeCustom)
		Expect(record).NotTo(BeNil())
		Expect(record.Status).To(Equal(string(api.AssessmentStatusCompleted)))
		Expect(record.AdditionalInfo).To(Equal("corner block"))
	})

	It("leaves an already synced record untouched", func() {
		jobID := uuid.New()
		_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
		Expect(err).To(BeNil())

		ticket := newCompletedTicket(jobID)
		_, err = s.Ticket().Create(context.TODO(), ticket)
		Expect(err).To(BeNil())

		_, err = s.Job().UpsertAssessment(context.TODO(), jobID, model.AssessmentRecord{
			Type:              string(api.AssessmentTypeCustom),
			Status:            string(api.AssessmentStatusCompleted),
			DevelopmentType:   "boarding house",
			CompletedDocument: ticket.CompletedDocument,
		})
		Expect(err).To(BeNil())

		Expect(r.Sweep(context.TODO())).To(BeNil())

		job, err := s.Job().Get(context.TODO(), jobID)
		Expect(err).To(BeNil())
		Expect(job.Assessment(api.AssessmentTypeCustom).DevelopmentType).To(Equal("boarding house"))
	})

	It("skips pending and in-progress tickets", func() {
		jobID := uuid.New()
		_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
		Expect(err).To(BeNil())

		pending := newCompletedTicket(jobID)
		pending.Status = string(api.TicketStatusPending)
		pending.CompletedDocument = nil
		_, err = s.Ticket().Create(context.TODO(), pending)
		Expect(err).To(BeNil())

		Expect(r.Sweep(context.TODO())).To(BeNil())

		job, err := s.Job().Get(context.TODO(), jobID)
		Expect(err).To(BeNil())
		Expect(job.Assessment(api.AssessmentTypeCustom)).To(BeNil())
	})

	It("keeps sweeping past a ticket whose job vanished", func() {
		orphan := newCompletedTicket(uuid.New())
		_, err := s.Ticket().Create(context.TODO(), orphan)
		Expect(err).To(BeNil())

		jobID := uuid.New()
		_, err = s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
		Expect(err).To(BeNil())
		_, err = s.Ticket().Create(context.TODO(), newCompletedTicket(jobID))
		Expect(err).To(BeNil())

		Expect(r.Sweep(context.TODO())).To(BeNil())

		job, err := s.Job().Get(context.TODO(), jobID)
		Expect(err).To(BeNil())
		Expect(job.Assessment(api.AssessmentTypeCustom)).NotTo(BeNil())
	})
})
