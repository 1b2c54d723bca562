package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wareline/backend/internal/domain/shared"
)

func TestNewStockMovement(t *testing.T) {
	orgID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()

	t.Run("creates movement with consistent before and after", func(t *testing.T) {
		m, err := NewStockMovement(orgID, warehouseID, productID, MovementTypePurchase,
			decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(100))

		require.NoError(t, err)
		assert.Equal(t, MovementTypePurchase, m.Type)
		assert.Equal(t, decimal.NewFromInt(100), m.QuantityChange)
		assert.False(t, m.OccurredAt.IsZero())
	})

	t.Run("rejects zero change", func(t *testing.T) {
		_, err := NewStockMovement(orgID, warehouseID, productID, MovementTypePurchase,
			decimal.Zero, decimal.NewFromInt(5), decimal.NewFromInt(5))

		require.Error(t, err)
		assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	})

	t.Run("rejects inconsistent before and after", func(t *testing.T) {
		_, err := NewStockMovement(orgID, warehouseID, productID, MovementTypeSale,
			decimal.NewFromInt(-10), decimal.NewFromInt(50), decimal.NewFromInt(45))

		require.Error(t, err)
		assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	})
}

func TestMovementType_Semantics(t *testing.T) {
	t.Run("damage tracks the damaged bucket, everything else available", func(t *testing.T) {
		assert.Equal(t, BucketDamaged, MovementTypeDamage.TrackedBucket())
		assert.Equal(t, BucketAvailable, MovementTypePurchase.TrackedBucket())
		assert.Equal(t, BucketAvailable, MovementTypeRecount.TrackedBucket())
		assert.Equal(t, BucketAvailable, MovementTypeReserve.TrackedBucket())
	})

	t.Run("only adjustment and recount are authoritative", func(t *testing.T) {
		assert.True(t, MovementTypeAdjustment.IsAuthoritative())
		assert.True(t, MovementTypeRecount.IsAuthoritative())
		assert.False(t, MovementTypeSale.IsAuthoritative())
		assert.False(t, MovementTypeDamage.IsAuthoritative())
	})

	t.Run("reserve and release are reservation movements", func(t *testing.T) {
		assert.True(t, MovementTypeReserve.IsReservation())
		assert.True(t, MovementTypeRelease.IsReservation())
		assert.False(t, MovementTypeTransferOut.IsReservation())
	})
}

// applyAndRecord drives a StockRecord mutation and captures the equivalent
// ledger row, simulating what the ledger service does in one transaction.
func applyAndRecord(t *testing.T, record *StockRecord, movementType MovementType, change decimal.Decimal) StockMovement {
	t.Helper()
	var before, after decimal.Decimal
	var err error
	switch {
	case movementType == MovementTypeReserve:
		before, after, err = record.Reserve(change.Neg())
	case movementType == MovementTypeRelease:
		before, after, err = record.Release(change)
	default:
		before, after, err = record.Apply(movementType, change)
	}
	require.NoError(t, err)
	m, err := NewStockMovement(record.OrgID, record.WarehouseID, record.ProductID, movementType, change, before, after)
	require.NoError(t, err)
	return *m
}

func TestReplay_ReconstructsBuckets(t *testing.T) {
	record := createTestStockRecord(t)
	history := []StockMovement{
		applyAndRecord(t, record, MovementTypePurchase, decimal.NewFromInt(100)),
		applyAndRecord(t, record, MovementTypeSale, decimal.NewFromInt(-20)),
		applyAndRecord(t, record, MovementTypeReserve, decimal.NewFromInt(-15)),
		applyAndRecord(t, record, MovementTypeDamage, decimal.NewFromInt(4)),
		applyAndRecord(t, record, MovementTypeRelease, decimal.NewFromInt(5)),
		applyAndRecord(t, record, MovementTypeReturn, decimal.NewFromInt(2)),
		applyAndRecord(t, record, MovementTypeAdjustment, decimal.NewFromInt(-8)),
		applyAndRecord(t, record, MovementTypeDamage, decimal.NewFromInt(-1)),
	}

	available, reserved, damaged := Replay(history)

	assert.True(t, available.Equal(record.Available),
		"replayed available %s != record %s", available, record.Available)
	assert.True(t, reserved.Equal(record.Reserved),
		"replayed reserved %s != record %s", reserved, record.Reserved)
	assert.True(t, damaged.Equal(record.Damaged),
		"replayed damaged %s != record %s", damaged, record.Damaged)
}

func TestReplay_EmptyHistoryIsZero(t *testing.T) {
	available, reserved, damaged := Replay(nil)

	assert.True(t, available.IsZero())
	assert.True(t, reserved.IsZero())
	assert.True(t, damaged.IsZero())
}

func TestStockMovement_WithReference(t *testing.T) {
	m, err := NewStockMovement(uuid.New(), uuid.New(), uuid.New(), MovementTypePurchase,
		decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(10))
	require.NoError(t, err)

	refID := uuid.New()
	m.WithReference(MovementRef{Type: ReferencePurchaseOrder, ID: refID, Key: "receive-1"})

	require.NotNil(t, m.RefType)
	assert.Equal(t, ReferencePurchaseOrder, *m.RefType)
	require.NotNil(t, m.RefID)
	assert.Equal(t, refID, *m.RefID)
	require.NotNil(t, m.RefKey)
	assert.Equal(t, "receive-1", *m.RefKey)
}
