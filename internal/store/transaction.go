package store

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type txContextKey struct{}

var txSeq atomic.Int64

// Tx is a store transaction carried through the context. Repositories pick
// it up via FromContext and fall back to the shared handle when absent.
type Tx struct {
	id int64
	tx *gorm.DB
}

// FromContext returns the transaction handle bound to the context, or nil.
func FromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*Tx); ok && tx.tx != nil {
		return tx.tx
	}
	return nil
}

func Commit(ctx context.Context) (context.Context, error) {
	tx, ok := ctx.Value(txContextKey{}).(*Tx)
	if !ok {
		return ctx, nil
	}
	return context.WithValue(ctx, txContextKey{}, nil), tx.Commit()
}

func Rollback(ctx context.Context) (context.Context, error) {
	tx, ok := ctx.Value(txContextKey{}).(*Tx)
	if !ok {
		return ctx, nil
	}
	return context.WithValue(ctx, txContextKey{}, nil), tx.Rollback()
}

// newTransactionContext begins a transaction and binds it to the context.
// Nested calls reuse the outer transaction.
func newTransactionContext(ctx context.Context, db *gorm.DB) (context.Context, error) {
	if _, ok := ctx.Value(txContextKey{}).(*Tx); ok {
		return ctx, nil
	}

	conn := db.Session(&gorm.Session{Context: ctx})
	tx := conn.Begin()
	if tx.Error != nil {
		return ctx, tx.Error
	}

	return context.WithValue(ctx, txContextKey{}, &Tx{id: txSeq.Add(1), tx: tx}), nil
}

func (t *Tx) Commit() error {
	if t.tx == nil {
		return errors.New("transaction already finished")
	}
	if err := t.tx.Commit().Error; err != nil {
		zap.S().Named("store").Errorf("failed to commit transaction %d: %v", t.id, err)
		return err
	}
	t.tx = nil
	zap.S().Named("store").Debugf("transaction %d committed", t.id)
	return nil
}

func (t *Tx) Rollback() error {
	if t.tx == nil {
		return errors.New("transaction already finished")
	}
	if err := t.tx.Rollback().Error; err != nil {
		zap.S().Named("store").Errorf("failed to rollback transaction %d: %v", t.id, err)
		return err
	}
	t.tx = nil
	zap.S().Named("store").Debugf("transaction %d rolled back", t.id)
	return nil
}
