package persistence

import (
	"context"

	"gorm.io/gorm"

	appprocurement "github.com/praxis/backend/internal/application/procurement"
	"github.com/praxis/backend/internal/domain/inventory"
	"github.com/praxis/backend/internal/domain/procurement"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It makes the receipt state change and the resulting stock movements atomic.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appprocurement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ReceiptRepo returns the goods receipt repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReceiptRepo() procurement.GoodsReceiptRepository {
	return NewGormGoodsReceiptRepository(r.tx)
}

// StockRepo returns the stock item repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockRepo() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appprocurement.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appprocurement.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
