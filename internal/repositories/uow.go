package repositories

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// UnitOfWork runs a function as one all-or-nothing storage transaction.
// Repositories called with the context passed to fn join the same
// transaction; an error from fn rolls everything back.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a gorm-backed UnitOfWork.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// txFromContext returns the transaction carried by ctx, or nil when the
// caller is not inside a unit of work.
func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// conn resolves the gorm handle for a repository call: the ambient
// transaction when present, the base connection otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
