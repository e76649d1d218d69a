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

type Ticket interface {
	List(ctx context.Context, filter *TicketQueryFilter, opts *TicketQueryOptions) (model.TicketList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	GetBySubmissionKey(ctx context.Context, key string) (*model.Ticket, error)
	Create(ctx context.Context, ticket model.Ticket) (*model.Ticket, error)
	Update(ctx context.Context, ticket model.Ticket) (*model.Ticket, error)
}

type TicketStore struct {
	db *gorm.DB
}

// Make sure we conform to Ticket interface
var _ Ticket = (*TicketStore)(nil)

func NewTicketStore(db *gorm.DB) Ticket {
	return &TicketStore{db: db}
}

func (s *TicketStore) List(ctx context.Context, filter *TicketQueryFilter, opts *TicketQueryOptions) (model.TicketList, error) {
	var tickets model.TicketList
	tx := s.getDB(ctx).Model(&tickets).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}
	return tickets, nil
}

func (s *TicketStore) Get(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	var ticket model.Ticket
	result := s.getDB(ctx).First(&ticket, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &ticket, nil
}

func (s *TicketStore) GetBySubmissionKey(ctx context.Context, key string) (*model.Ticket, error) {
	var ticket model.Ticket
	result := s.getDB(ctx).First(&ticket, "submission_key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &ticket, nil
}

// Create inserts the ticket, keyed by its submission key. A concurrent or
// retried submission with the same key returns the already-persisted ticket
// instead of a duplicate.
func (s *TicketStore) Create(ctx context.Context, ticket model.Ticket) (*model.Ticket, error) {
	result := s.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_key"}},
		DoNothing: true,
	}).Create(&ticket)
	if result.Error != nil {
		return nil, result.Error
	}

	// RowsAffected == 0 means the key already existed; hand back that row.
	if result.RowsAffected == 0 {
		return s.GetBySubmissionKey(ctx, ticket.SubmissionKey)
	}
	return &ticket, nil
}

func (s *TicketStore) Update(ctx context.Context, ticket model.Ticket) (*model.Ticket, error) {
	now := time.Now()
	ticket.UpdatedAt = &now
	fields := map[string]any{
		"status":     ticket.Status,
		"updated_at": ticket.UpdatedAt,
	}
	if ticket.CompletedDocument != nil {
		fields["completed_document"] = ticket.CompletedDocument
	}
	result := s.getDB(ctx).Model(&model.Ticket{ID: ticket.ID}).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.Get(ctx, ticket.ID)
}

func (s *TicketStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
