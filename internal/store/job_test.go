package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
)

var _ = Describe("job store", Ordered, func() {
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
		gormdb.Exec("DELETE from assessment_records;")
		gormdb.Exec("DELETE from jobs;")
	})

	Context("create and get", func() {
		It("successfully creates a job", func() {
			jobID := uuid.New()
			job, err := s.Job().Create(context.TODO(), model.Job{
				ID:       jobID,
				OrgID:    "org-1",
				Username: "admin",
				Address:  "12 Harbour St",
			})
			Expect(err).To(BeNil())
			Expect(job.ID).To(Equal(jobID))

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM jobs;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("gets a job with its assessment sub-records", func() {
			jobID := uuid.New()
			_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
			Expect(err).To(BeNil())

			_, err = s.Job().UpsertAssessment(context.TODO(), jobID, model.AssessmentRecord{Type: "custom", Status: "paid"})
			Expect(err).To(BeNil())

			job, err := s.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(job.Assessments).To(HaveLen(1))
			Expect(job.Assessments[0].Type).To(Equal("custom"))
			Expect(job.Assessments[0].Status).To(Equal("paid"))
		})

		It("returns not found for unknown id", func() {
			_, err := s.Job().Get(context.TODO(), uuid.New())
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("filters by organization", func() {
			_, err := s.Job().Create(context.TODO(), model.Job{ID: uuid.New(), OrgID: "org-1", Address: "12 Harbour St"})
			Expect(err).To(BeNil())
			_, err = s.Job().Create(context.TODO(), model.Job{ID: uuid.New(), OrgID: "org-2", Address: "3 George St"})
			Expect(err).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByOrgID("org-1"))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].OrgID).To(Equal("org-1"))
		})

		It("filters by address pattern", func() {
			_, err := s.Job().Create(context.TODO(), model.Job{ID: uuid.New(), OrgID: "org-1", Address: "12 Harbour St"})
			Expect(err).To(BeNil())
			_, err = s.Job().Create(context.TODO(), model.Job{ID: uuid.New(), OrgID: "org-1", Address: "3 George St"})
			Expect(err).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByOrgID("org-1").ByAddressLike("Harbour"))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Address).To(Equal("12 Harbour St"))
		})
	})

	Context("transactions", func() {
		It("a rolled back transaction leaves no trace", func() {
			jobID := uuid.New()
			txCtx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.Job().Create(txCtx, model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
			Expect(err).To(BeNil())

			_, err = store.Rollback(txCtx)
			Expect(err).To(BeNil())

			_, err = s.Job().Get(context.TODO(), jobID)
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})
	})

	Context("update site details", func() {
		It("replaces the site details blob only", func() {
			jobID := uuid.New()
			_, err := s.Job().Create(context.TODO(), model.Job{
				ID:           jobID,
				OrgID:        "org-1",
				Address:      "12 Harbour St",
				PropertyData: model.MakeJSONField(map[string]any{"lot": "7"}),
			})
			Expect(err).To(BeNil())

			job, err := s.Job().UpdateSiteDetails(context.TODO(), jobID, map[string]any{"zoning": "R2"})
			Expect(err).To(BeNil())
			Expect(job.SiteDetails.Data["zoning"]).To(Equal("R2"))

			job, err = s.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(job.PropertyData.Data["lot"]).To(Equal("7"))
			Expect(job.SiteDetails.Data["zoning"]).To(Equal("R2"))
		})
	})

	Context("upsert assessment", func() {
		It("creates the sub-record on first write", func() {
			jobID := uuid.New()
			_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
			Expect(err).To(BeNil())

			record, err := s.Job().UpsertAssessment(context.TODO(), jobID, model.AssessmentRecord{Type: "custom"})
			Expect(err).To(BeNil())
			Expect(record.Status).To(Equal("unset"))

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM assessment_records;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("merges only the fields present on the patch", func() {
			jobID := uuid.New()
			_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
			Expect(err).To(BeNil())

			_, err = s.Job().UpsertAssessment(context.TODO(), jobID, model.AssessmentRecord{
				Type:            "custom",
				Status:          "paid",
				DevelopmentType: "dual occupancy",
				AdditionalInfo:  "corner block",
			})
			Expect(err).To(BeNil())

			record, err := s.Job().UpsertAssessment(context.TODO(), jobID, model.AssessmentRecord{
				Type:   "custom",
				Status: "completed",
			})
			Expect(err).To(BeNil())
			Expect(record.Status).To(Equal("completed"))
			Expect(record.DevelopmentType).To(Equal("dual occupancy"))
			Expect(record.AdditionalInfo).To(Equal("corner block"))

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM assessment_records;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("never touches sibling sub-records", func() {
			jobID := uuid.New()
			_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
			Expect(err).To(BeNil())

			_, err = s.Job().UpsertAssessment(context.TODO(), jobID, model.AssessmentRecord{Type: "custom", Status: "paid"})
			Expect(err).To(BeNil())
			_, err = s.Job().UpsertAssessment(context.TODO(), jobID, model.AssessmentRecord{Type: "initial", Status: "completed"})
			Expect(err).To(BeNil())

			status := ""
			tx := gormdb.Raw(fmt.Sprintf("SELECT status FROM assessment_records WHERE job_id = '%s' AND type = 'custom';", jobID)).Scan(&status)
			Expect(tx.Error).To(BeNil())
			Expect(status).To(Equal("paid"))
		})

		It("joins a caller transaction instead of opening its own", func() {
			jobID := uuid.New()
			_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
			Expect(err).To(BeNil())

			txCtx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.Job().UpsertAssessment(txCtx, jobID, model.AssessmentRecord{Type: "custom", Status: "paid"})
			Expect(err).To(BeNil())

			// nothing is visible until the caller commits
			job, err := s.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(job.Assessment(api.AssessmentTypeCustom)).To(BeNil())

			_, err = store.Commit(txCtx)
			Expect(err).To(BeNil())

			job, err = s.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(job.Assessment(api.AssessmentTypeCustom)).NotTo(BeNil())
		})

		It("persists the completed document blob", func() {
			jobID := uuid.New()
			_, err := s.Job().Create(context.TODO(), model.Job{ID: jobID, OrgID: "org-1", Address: "12 Harbour St"})
			Expect(err).To(BeNil())

			_, err = s.Job().UpsertAssessment(context.TODO(), jobID, model.AssessmentRecord{
				Type:              "custom",
				Status:            "completed",
				CompletedDocument: model.MakeJSONField(api.CompletedDocument{Filename: "report.pdf", OriginalName: "Report.pdf"}),
			})
			Expect(err).To(BeNil())

			job, err := s.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			record := job.Assessment(api.AssessmentTypeCustom)
			Expect(record).NotTo(BeNil())
			Expect(record.CompletedDocument.Data.Filename).To(Equal("report.pdf"))
		})
	})
})
