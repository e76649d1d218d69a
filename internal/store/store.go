package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/townplan/assessment-portal/internal/store/model"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Job() Job
	Ticket() Ticket
	Document() Document
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db       *gorm.DB
	job      Job
	ticket   Ticket
	document Document
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		job:      NewJobStore(db),
		ticket:   NewTicketStore(db),
		document: NewDocumentStore(db),
		db:       db,
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Ticket() Ticket {
	return s.ticket
}

func (s *DataStore) Document() Document {
	return s.document
}

// InitialMigration creates the schema directly from the models. Production
// deployments run the goose migrations instead; this is for sqlite dev/test
// databases.
func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Job{},
		&model.AssessmentRecord{},
		&model.Ticket{},
		&model.Document{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
