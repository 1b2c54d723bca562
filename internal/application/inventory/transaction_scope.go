package inventory

import (
	"context"

	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. The ledger's core guarantee depends on this: a bucket
// change and its movement row always land together or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a stock
// mutation may touch, all scoped to the same transaction. Trade documents are
// included so that receiving a purchase order or shipping a transfer can
// update the document status and the ledger in one unit.
type TransactionalRepositories interface {
	// StockRecords returns the stock record repository scoped to the current transaction
	StockRecords() inventory.StockRecordRepository
	// Movements returns the append-only stock movement repository scoped to the current transaction
	Movements() inventory.StockMovementRepository
	// PurchaseOrders returns the purchase order repository scoped to the current transaction
	PurchaseOrders() trade.PurchaseOrderRepository
	// Transfers returns the transfer repository scoped to the current transaction
	Transfers() trade.TransferRepository
	// Sequences returns the document sequence repository scoped to the current transaction
	Sequences() trade.SequenceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	stockRecords   inventory.StockRecordRepository
	movements      inventory.StockMovementRepository
	purchaseOrders trade.PurchaseOrderRepository
	transfers      trade.TransferRepository
	sequences      trade.SequenceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	stockRecords inventory.StockRecordRepository,
	movements inventory.StockMovementRepository,
	purchaseOrders trade.PurchaseOrderRepository,
	transfers trade.TransferRepository,
	sequences trade.SequenceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRecords:   stockRecords,
		movements:      movements,
		purchaseOrders: purchaseOrders,
		transfers:      transfers,
		sequences:      sequences,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRecords returns the stock record repository
func (s *NoOpTransactionScope) StockRecords() inventory.StockRecordRepository {
	return s.stockRecords
}

// Movements returns the stock movement repository
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository {
	return s.movements
}

// PurchaseOrders returns the purchase order repository
func (s *NoOpTransactionScope) PurchaseOrders() trade.PurchaseOrderRepository {
	return s.purchaseOrders
}

// Transfers returns the transfer repository
func (s *NoOpTransactionScope) Transfers() trade.TransferRepository {
	return s.transfers
}

// Sequences returns the document sequence repository
func (s *NoOpTransactionScope) Sequences() trade.SequenceRepository {
	return s.sequences
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
