package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// A transaction handle rides the context so repositories joined under one
// RunInTx call share it without changing their signatures.
type txCtxKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// dbFor returns the in-flight transaction when the context carries one and
// the base handle otherwise.
func dbFor(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return base
}

// TxManager wraps save and journal writes in one database transaction, so a
// run save and its bookkeeping land atomically.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
