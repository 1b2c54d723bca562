package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/wareline/backend/internal/application/inventory"
	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/trade"
)

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. Every
// repository handed to fn is bound to that transaction, so a failure
// anywhere rolls back all writes.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories bound to a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StockRecords returns a stock record repository bound to the transaction
func (r *gormTransactionalRepositories) StockRecords() inventory.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

// Movements returns a stock movement repository bound to the transaction
func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// PurchaseOrders returns a purchase order repository bound to the transaction
func (r *gormTransactionalRepositories) PurchaseOrders() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// Transfers returns a transfer repository bound to the transaction
func (r *gormTransactionalRepositories) Transfers() trade.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

// Sequences returns a sequence repository bound to the transaction
func (r *gormTransactionalRepositories) Sequences() trade.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

var (
	_ appinventory.TransactionScope          = (*GormTransactionScope)(nil)
	_ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
