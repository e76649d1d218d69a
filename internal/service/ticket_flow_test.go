package service_test

import (
	"bytes"
	"context"
	"errors"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/catalog"
	"github.com/townplan/assessment-portal/internal/objectstore"
	"github.com/townplan/assessment-portal/internal/service"
	"github.com/townplan/assessment-portal/internal/service/mappers"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
)

var _ = Describe("ticket fulfillment", Ordered, func() {
	var (
		s             store.Store
		jobSrv        *service.JobService
		assessmentSrv *service.AssessmentService
		ticketSrv     *service.TicketService
	)

	BeforeEach(func() {
		s = newTestStore()
		cat := catalog.Default()
		jobSrv = service.NewJobService(s, cat)
		assessmentSrv = service.NewAssessmentService(s, cat, nil)
		ticketSrv = service.NewTicketService(s, nil)
	})

	AfterEach(func() {
		s.Close()
	})

	submittedTicket := func() *model.Ticket {
		jobID := uuid.New()
		_, err := jobSrv.CreateJob(context.TODO(), mappers.JobCreateForm{
			ID:       jobID,
			OrgID:    "org-1",
			Username: "admin",
			Address:  "12 Harbour St",
		})
		Expect(err).To(BeNil())

		documentSrv := service.NewDocumentService(s, objectstore.NewMemoryStore(), catalog.Default(), nil)
		content := []byte("certificate body")
		_, err = documentSrv.Upload(context.TODO(), jobID, catalog.DocumentSection107Certificate,
			"Certificate.pdf", "application/pdf", int64(len(content)), bytes.NewReader(content))
		Expect(err).To(BeNil())

		ticket, err := assessmentSrv.SubmitAssessment(context.TODO(), jobID, api.AssessmentTypeCustom,
			api.AssessmentRequest{DevelopmentType: "dual occupancy"})
		Expect(err).To(BeNil())
		return ticket
	}

	Context("start", func() {
		It("moves a pending ticket to in-progress", func() {
			ticket := submittedTicket()

			started, err := ticketSrv.StartTicket(context.TODO(), ticket.ID)
			Expect(err).To(BeNil())
			Expect(started.Status).To(Equal(string(api.TicketStatusInProgress)))
		})

		It("refuses any other starting state", func() {
			ticket := submittedTicket()
			_, err := ticketSrv.StartTicket(context.TODO(), ticket.ID)
			Expect(err).To(BeNil())

			_, err = ticketSrv.StartTicket(context.TODO(), ticket.ID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))
		})

		It("returns not found for unknown ticket", func() {
			_, err := ticketSrv.StartTicket(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("complete", func() {
		It("attaches the document and syncs the job record", func() {
			ticket := submittedTicket()

			completed, err := ticketSrv.CompleteTicket(context.TODO(), ticket.ID,
				api.CompletedDocument{Filename: "report.pdf", OriginalName: "Report.pdf"})
			Expect(err).To(BeNil())
			Expect(completed.Status).To(Equal(string(api.TicketStatusCompleted)))
			Expect(completed.CompletedDocument).NotTo(BeNil())
			Expect(completed.CompletedDocument.Data.ReturnedAt).NotTo(BeNil())

			job, err := jobSrv.GetJob(context.TODO(), ticket.JobID)
			Expect(err).To(BeNil())
			record := job.Assessment(api.AssessmentTypeCustom)
			Expect(record).NotTo(BeNil())
			Expect(record.Status).To(Equal(string(api.AssessmentStatusCompleted)))
			Expect(record.CompletedDocument.Data.Filename).To(Equal("report.pdf"))
		})

		It("completing again keeps the first document", func() {
			ticket := submittedTicket()

			first, err := ticketSrv.CompleteTicket(context.TODO(), ticket.ID,
				api.CompletedDocument{Filename: "report.pdf", OriginalName: "Report.pdf"})
			Expect(err).To(BeNil())

			second, err := ticketSrv.CompleteTicket(context.TODO(), ticket.ID,
				api.CompletedDocument{Filename: "other.pdf", OriginalName: "Other.pdf"})
			Expect(err).To(BeNil())
			Expect(second.CompletedDocument.Data.Filename).To(Equal(first.CompletedDocument.Data.Filename))
		})

		It("surfaces a partial completion when the job sync fails", func() {
			ticket := submittedTicket()

			fail := true
			flaky := flakyStore{Store: s, failUpsert: &fail}
			flakySrv := service.NewTicketService(flaky, nil)

			_, err := flakySrv.CompleteTicket(context.TODO(), ticket.ID,
				api.CompletedDocument{Filename: "report.pdf", OriginalName: "Report.pdf"})
			var partial *service.ErrCompletionPartial
			Expect(errors.As(err, &partial)).To(BeTrue())
			Expect(partial.TicketID).To(Equal(ticket.ID))

			// the ticket side landed; only the job record is stale
			persisted, err := ticketSrv.GetTicket(context.TODO(), ticket.ID)
			Expect(err).To(BeNil())
			Expect(persisted.Status).To(Equal(string(api.TicketStatusCompleted)))

			job, err := jobSrv.GetJob(context.TODO(), ticket.JobID)
			Expect(err).To(BeNil())
			record := job.Assessment(api.AssessmentTypeCustom)
			Expect(record.Status).To(Equal(string(api.AssessmentStatusPaid)))

			// the retry re-runs only the job sync
			fail = false
			completed, err := flakySrv.CompleteTicket(context.TODO(), ticket.ID,
				api.CompletedDocument{Filename: "ignored.pdf", OriginalName: "Ignored.pdf"})
			Expect(err).To(BeNil())
			Expect(completed.CompletedDocument.Data.Filename).To(Equal("report.pdf"))

			job, err = jobSrv.GetJob(context.TODO(), ticket.JobID)
			Expect(err).To(BeNil())
			Expect(job.Assessment(api.AssessmentTypeCustom).Status).To(Equal(string(api.AssessmentStatusCompleted)))
		})
	})
})
