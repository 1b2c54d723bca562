package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/wareline/backend/internal/application/inventory"
	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/shared"
)

func TestGormTransactionScope_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("commits the record and the ledger row together", func(t *testing.T) {
		db := setupTestDB(t)
		scope := NewGormTransactionScope(db)

		orgID := uuid.New()
		warehouseID := uuid.New()
		productID := uuid.New()

		err := scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			record, err := repos.StockRecords().GetOrCreate(ctx, orgID, warehouseID, productID)
			if err != nil {
				return err
			}

			before, after, err := record.Apply(inventory.MovementTypePurchase, decimal.NewFromInt(25))
			if err != nil {
				return err
			}
			if err := repos.StockRecords().SaveWithLock(ctx, record); err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(orgID, warehouseID, productID,
				inventory.MovementTypePurchase, decimal.NewFromInt(25), before, after)
			if err != nil {
				return err
			}
			return repos.Movements().Create(ctx, movement)
		})
		require.NoError(t, err)

		record, err := NewGormStockRecordRepository(db).FindByPair(ctx, orgID, warehouseID, productID)
		require.NoError(t, err)
		assert.True(t, record.Available.Equal(decimal.NewFromInt(25)))

		movements, err := NewGormStockMovementRepository(db).FindByPair(ctx, orgID, warehouseID, productID)
		require.NoError(t, err)
		assert.Len(t, movements, 1)
	})

	t.Run("rolls back every write when the function fails", func(t *testing.T) {
		db := setupTestDB(t)
		scope := NewGormTransactionScope(db)

		orgID := uuid.New()
		warehouseID := uuid.New()
		productID := uuid.New()
		boom := errors.New("ledger append failed")

		err := scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			if _, err := repos.StockRecords().GetOrCreate(ctx, orgID, warehouseID, productID); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = NewGormStockRecordRepository(db).FindByPair(ctx, orgID, warehouseID, productID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exposes the trade repositories in the same transaction", func(t *testing.T) {
		db := setupTestDB(t)
		scope := NewGormTransactionScope(db)

		orgID := uuid.New()
		var number string

		err := scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			value, err := repos.Sequences().Next(ctx, orgID, "PO", 2026)
			if err != nil {
				return err
			}
			order := createTestPurchaseOrder(t, orgID, fmt.Sprintf("PO-%d-%05d", 2026, value))
			number = order.Number
			return repos.PurchaseOrders().Save(ctx, order)
		})
		require.NoError(t, err)

		found, err := NewGormPurchaseOrderRepository(db).FindByNumber(ctx, orgID, number)
		require.NoError(t, err)
		assert.Equal(t, "PO-2026-00001", found.Number)
	})
}
