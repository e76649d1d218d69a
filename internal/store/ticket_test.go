package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
)

func newTicket(key string) model.Ticket {
	return model.Ticket{
		ID:            uuid.New(),
		JobID:         uuid.New(),
		JobAddress:    "12 Harbour St",
		OrgID:         "org-1",
		Username:      "admin",
		TicketType:    "custom",
		Category:      "consultant",
		Status:        "pending",
		SubmissionKey: key,
		Request:       model.MakeJSONField(api.AssessmentRequest{DevelopmentType: "dual occupancy"}),
	}
}

var _ = Describe("ticket store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(newTestConfig())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from tickets;")
	})

	Context("create", func() {
		It("successfully creates a ticket", func() {
			ticket, err := s.Ticket().Create(context.TODO(), newTicket("key-1"))
			Expect(err).To(BeNil())
			Expect(ticket.Status).To(Equal("pending"))

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM tickets;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("returns the existing ticket for a duplicate submission key", func() {
			first, err := s.Ticket().Create(context.TODO(), newTicket("key-1"))
			Expect(err).To(BeNil())

			retry := newTicket("key-1")
			second, err := s.Ticket().Create(context.TODO(), retry)
			Expect(err).To(BeNil())
			Expect(second.ID).To(Equal(first.ID))

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM tickets;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("different submission keys create separate tickets", func() {
			_, err := s.Ticket().Create(context.TODO(), newTicket("key-1"))
			Expect(err).To(BeNil())
			_, err = s.Ticket().Create(context.TODO(), newTicket("key-2"))
			Expect(err).To(BeNil())

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM tickets;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(2))
		})
	})

	Context("update", func() {
		It("updates the status", func() {
			ticket, err := s.Ticket().Create(context.TODO(), newTicket("key-1"))
			Expect(err).To(BeNil())

			ticket.Status = "in-progress"
			updated, err := s.Ticket().Update(context.TODO(), *ticket)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal("in-progress"))
			Expect(updated.UpdatedAt).NotTo(BeNil())
		})

		It("keeps the completed document when the update carries none", func() {
			ticket, err := s.Ticket().Create(context.TODO(), newTicket("key-1"))
			Expect(err).To(BeNil())

			now := time.Now()
			ticket.Status = "completed"
			ticket.CompletedDocument = model.MakeJSONField(api.CompletedDocument{
				Filename:     "report.pdf",
				OriginalName: "Report.pdf",
				UploadedAt:   now,
				ReturnedAt:   &now,
			})
			completed, err := s.Ticket().Update(context.TODO(), *ticket)
			Expect(err).To(BeNil())
			Expect(completed.CompletedDocument).NotTo(BeNil())

			completed.CompletedDocument = nil
			again, err := s.Ticket().Update(context.TODO(), *completed)
			Expect(err).To(BeNil())
			Expect(again.CompletedDocument).NotTo(BeNil())
			Expect(again.CompletedDocument.Data.Filename).To(Equal("report.pdf"))
		})

		It("returns not found for unknown id", func() {
			missing := newTicket("key-x")
			_, err := s.Ticket().Update(context.TODO(), missing)
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("filters by status and type", func() {
			pending := newTicket("key-1")
			_, err := s.Ticket().Create(context.TODO(), pending)
			Expect(err).To(BeNil())

			other := newTicket("key-2")
			other.TicketType = "initial"
			other.Status = "completed"
			_, err = s.Ticket().Create(context.TODO(), other)
			Expect(err).To(BeNil())

			tickets, err := s.Ticket().List(context.TODO(), store.NewTicketQueryFilter().ByStatus("completed"), nil)
			Expect(err).To(BeNil())
			Expect(tickets).To(HaveLen(1))
			Expect(tickets[0].TicketType).To(Equal("initial"))

			tickets, err = s.Ticket().List(context.TODO(), store.NewTicketQueryFilter().ByTicketType("custom"), nil)
			Expect(err).To(BeNil())
			Expect(tickets).To(HaveLen(1))
			Expect(tickets[0].Status).To(Equal("pending"))
		})

		It("applies limit and offset", func() {
			for _, key := range []string{"key-1", "key-2", "key-3"} {
				_, err := s.Ticket().Create(context.TODO(), newTicket(key))
				Expect(err).To(BeNil())
			}

			tickets, err := s.Ticket().List(context.TODO(), store.NewTicketQueryFilter(), store.NewTicketQueryOptions().WithLimit(2))
			Expect(err).To(BeNil())
			Expect(tickets).To(HaveLen(2))

			tickets, err = s.Ticket().List(context.TODO(), store.NewTicketQueryFilter(), store.NewTicketQueryOptions().WithLimit(2).WithOffset(2))
			Expect(err).To(BeNil())
			Expect(tickets).To(HaveLen(1))
		})
	})

	Context("get by submission key", func() {
		It("finds the ticket", func() {
			created, err := s.Ticket().Create(context.TODO(), newTicket("key-1"))
			Expect(err).To(BeNil())

			found, err := s.Ticket().GetBySubmissionKey(context.TODO(), "key-1")
			Expect(err).To(BeNil())
			Expect(found.ID).To(Equal(created.ID))
		})

		It("returns not found for unknown key", func() {
			_, err := s.Ticket().GetBySubmissionKey(context.TODO(), "nope")
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})
	})
})
