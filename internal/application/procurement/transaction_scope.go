package procurement

import (
	"context"

	"github.com/praxis/backend/internal/domain/inventory"
	"github.com/praxis/backend/internal/domain/procurement"
)

// TransactionScope provides transactional access to the repositories the
// receipt confirmation path writes to. When a function is executed within a
// transaction scope, all repository operations are part of the same database
// transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories touched by
// receipt confirmation within one transaction. Confirming a receipt persists
// the receipt state change and the corresponding stock increments together;
// anything else (discrepancy records, order status) is applied afterwards and
// is recoverable from the confirmed receipts if it fails.
type TransactionalRepositories interface {
	// ReceiptRepo returns the goods receipt repository scoped to the current transaction
	ReceiptRepo() procurement.GoodsReceiptRepository
	// StockRepo returns the stock item repository scoped to the current transaction
	StockRepo() inventory.StockItemRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	receiptRepo procurement.GoodsReceiptRepository
	stockRepo   inventory.StockItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	receiptRepo procurement.GoodsReceiptRepository,
	stockRepo inventory.StockItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		receiptRepo: receiptRepo,
		stockRepo:   stockRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ReceiptRepo returns the goods receipt repository.
func (s *NoOpTransactionScope) ReceiptRepo() procurement.GoodsReceiptRepository {
	return s.receiptRepo
}

// StockRepo returns the stock item repository.
func (s *NoOpTransactionScope) StockRepo() inventory.StockItemRepository {
	return s.stockRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
