package persistence

import (
	"context"

	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactionManager implements shared.TransactionManager on top of
// GORM transactions. The transaction handle travels in the context, so
// repository calls made inside WithinTx join the same transaction.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTx runs fn inside one database transaction. fn returning an
// error rolls the transaction back.
func (m *GormTransactionManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the transaction handle carried by ctx, falling
// back to the repository's own connection outside a transaction.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback
}

var _ shared.TransactionManager = (*GormTransactionManager)(nil)
