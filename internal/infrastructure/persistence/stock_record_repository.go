package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/shared"
)

// GormStockRecordRepository implements StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByPair finds the stock record for a warehouse-product pair
func (r *GormStockRecordRepository) FindByPair(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND warehouse_id = ? AND product_id = ?", orgID, warehouseID, productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProduct finds stock records for a product across all warehouses
func (r *GormStockRecordRepository) FindByProduct(ctx context.Context, orgID, productID uuid.UUID) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND product_id = ?", orgID, productID).
		Order("warehouse_id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByWarehouse finds stock records in a warehouse
func (r *GormStockRecordRepository) FindByWarehouse(ctx context.Context, orgID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
			Where("org_id = ? AND warehouse_id = ?", orgID, warehouseID),
		filter, stockRecordSortFields, "product_id",
	)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAllForOrg finds all stock records for an organization
func (r *GormStockRecordRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
			Where("org_id = ?", orgID),
		filter, stockRecordSortFields, "created_at",
	)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetOrCreate returns the record for a pair, creating an all-zero row on
// first touch. The insert ignores conflicts so two concurrent first touches
// both end up reading the same row.
func (r *GormStockRecordRepository) GetOrCreate(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	record, err := r.FindByPair(ctx, orgID, warehouseID, productID)
	if err == nil {
		return record, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	fresh, err := inventory.NewStockRecord(orgID, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, err
	}
	return r.FindByPair(ctx, orgID, warehouseID, productID)
}

// SaveWithLock saves the record only if its version has not moved since it
// was read; returns a CONCURRENCY_CONFLICT domain error otherwise
func (r *GormStockRecordRepository) SaveWithLock(ctx context.Context, record *inventory.StockRecord) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.StockRecord{}).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"available":  record.Available,
			"reserved":   record.Reserved,
			"damaged":    record.Damaged,
			"in_transit": record.InTransit,
			"version":    record.Version,
			"updated_at": record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConflict, "Stock record was modified by another transaction")
	}
	return nil
}

// SumBucketsByProduct sums the four buckets for a product across warehouses
func (r *GormStockRecordRepository) SumBucketsByProduct(ctx context.Context, orgID, productID uuid.UUID) (decimal.Decimal, decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	var sums struct {
		Available decimal.Decimal
		Reserved  decimal.Decimal
		Damaged   decimal.Decimal
		InTransit decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&inventory.StockRecord{}).
		Select(
			"COALESCE(SUM(available), 0) AS available, " +
				"COALESCE(SUM(reserved), 0) AS reserved, " +
				"COALESCE(SUM(damaged), 0) AS damaged, " +
				"COALESCE(SUM(in_transit), 0) AS in_transit",
		).
		Where("org_id = ? AND product_id = ?", orgID, productID).
		Scan(&sums).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return sums.Available, sums.Reserved, sums.Damaged, sums.InTransit, nil
}

var _ inventory.StockRecordRepository = (*GormStockRecordRepository)(nil)
