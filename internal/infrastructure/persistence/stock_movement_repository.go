package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wareline/backend/internal/domain/inventory"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// Ledger rows are insert-only; there is no update or delete path.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a ledger row
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// ExistsByReference reports whether a movement with the same reference triple
// already exists for the pair
func (r *GormStockMovementRepository) ExistsByReference(ctx context.Context, orgID uuid.UUID, ref inventory.MovementRef, warehouseID, productID uuid.UUID) (bool, error) {
	if ref.Key == "" {
		// keyless references never collide
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("org_id = ? AND ref_type = ? AND ref_id = ? AND ref_key = ? AND warehouse_id = ? AND product_id = ?",
			orgID, ref.Type, ref.ID, ref.Key, warehouseID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByFilter finds movements matching the filter, ordered by id ascending
func (r *GormStockMovementRepository) FindByFilter(ctx context.Context, orgID uuid.UUID, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("org_id = ?", orgID)

	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.RefType != nil {
		query = query.Where("ref_type = ?", *filter.RefType)
	}
	if filter.RefID != nil {
		query = query.Where("ref_id = ?", *filter.RefID)
	}
	if filter.Since != nil {
		query = query.Where("occurred_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("occurred_at < ?", *filter.Until)
	}
	if filter.AfterID > 0 {
		query = query.Where("id > ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var movements []inventory.StockMovement
	if err := query.Order("id ASC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByPair finds all movements for a warehouse-product pair, id ascending
func (r *GormStockMovementRepository) FindByPair(ctx context.Context, orgID, warehouseID, productID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND warehouse_id = ? AND product_id = ?", orgID, warehouseID, productID).
		Order("id ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ConsumptionSince sums the negative available-bucket movement (as a positive
// number) for a pair since the given time. Reservations reclassify rather
// than consume, and damage rows track the damaged bucket, so both are
// excluded.
func (r *GormStockMovementRepository) ConsumptionSince(ctx context.Context, orgID, warehouseID, productID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Select("COALESCE(SUM(-quantity_change), 0) AS total").
		Where("org_id = ? AND warehouse_id = ? AND product_id = ?", orgID, warehouseID, productID).
		Where("occurred_at >= ?", since).
		Where("quantity_change < 0").
		Where("type NOT IN ?", []inventory.MovementType{
			inventory.MovementTypeReserve,
			inventory.MovementTypeRelease,
			inventory.MovementTypeDamage,
		}).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
