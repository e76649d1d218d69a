package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
)

var _ = Describe("document store", Ordered, func() {
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
		gormdb.Exec("DELETE from documents;")
	})

	newDocument := func(jobID uuid.UUID, documentID, fileName string) model.Document {
		return model.Document{
			JobID:        jobID,
			DocumentID:   documentID,
			FileName:     fileName,
			OriginalName: "Survey.pdf",
			ContentType:  "application/pdf",
			Size:         1024,
			UploadedAt:   time.Now(),
		}
	}

	Context("upsert", func() {
		It("creates the metadata row", func() {
			jobID := uuid.New()
			document, err := s.Document().Upsert(context.TODO(), newDocument(jobID, "survey-plan", "key-1"))
			Expect(err).To(BeNil())
			Expect(document.FileName).To(Equal("key-1"))

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM documents;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("replaces the previous upload for the same slot", func() {
			jobID := uuid.New()
			_, err := s.Document().Upsert(context.TODO(), newDocument(jobID, "survey-plan", "key-1"))
			Expect(err).To(BeNil())

			document, err := s.Document().Upsert(context.TODO(), newDocument(jobID, "survey-plan", "key-2"))
			Expect(err).To(BeNil())
			Expect(document.FileName).To(Equal("key-2"))

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM documents;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("keeps uploads of different jobs apart", func() {
			_, err := s.Document().Upsert(context.TODO(), newDocument(uuid.New(), "survey-plan", "key-1"))
			Expect(err).To(BeNil())
			_, err = s.Document().Upsert(context.TODO(), newDocument(uuid.New(), "survey-plan", "key-2"))
			Expect(err).To(BeNil())

			count := -1
			tx := gormdb.Raw("SELECT COUNT(*) FROM documents;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(2))
		})
	})

	Context("get and list", func() {
		It("lists the documents of one job", func() {
			jobID := uuid.New()
			_, err := s.Document().Upsert(context.TODO(), newDocument(jobID, "survey-plan", "key-1"))
			Expect(err).To(BeNil())
			_, err = s.Document().Upsert(context.TODO(), newDocument(jobID, "owner-consent", "key-2"))
			Expect(err).To(BeNil())
			_, err = s.Document().Upsert(context.TODO(), newDocument(uuid.New(), "survey-plan", "key-3"))
			Expect(err).To(BeNil())

			documents, err := s.Document().List(context.TODO(), store.NewDocumentQueryFilter().ByJobID(jobID.String()))
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(2))
		})

		It("returns not found for an empty slot", func() {
			_, err := s.Document().Get(context.TODO(), uuid.New(), "survey-plan")
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})
	})

	Context("delete", func() {
		It("removes the metadata row", func() {
			jobID := uuid.New()
			_, err := s.Document().Upsert(context.TODO(), newDocument(jobID, "survey-plan", "key-1"))
			Expect(err).To(BeNil())

			Expect(s.Document().Delete(context.TODO(), jobID, "survey-plan")).To(BeNil())

			_, err = s.Document().Get(context.TODO(), jobID, "survey-plan")
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})

		It("is a no-op for an empty slot", func() {
			Expect(s.Document().Delete(context.TODO(), uuid.New(), "survey-plan")).To(BeNil())
		})
	})
})
