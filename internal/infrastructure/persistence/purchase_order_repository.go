package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wareline/backend/internal/domain/shared"
	"github.com/wareline/backend/internal/domain/trade"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByIDForOrg finds a purchase order with items by ID within an organization
func (r *GormPurchaseOrderRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a purchase order by its document number within an organization
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ? AND number = ?", orgID, number).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForOrg finds all purchase orders for an organization
func (r *GormPurchaseOrderRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	query := applyFilter(
		r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}).
			Preload("Items").
			Where("org_id = ?", orgID),
		filter, purchaseOrderSortFields, "created_at",
	)
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if supplierID, ok := filter.Filters["supplier_id"].(uuid.UUID); ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if warehouseID, ok := filter.Filters["warehouse_id"].(uuid.UUID); ok {
		query = query.Where("warehouse_id = ?", warehouseID)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds purchase orders in a given status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, orgID uuid.UUID, status trade.PurchaseOrderStatus) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ? AND status = ?", orgID, status).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a purchase order and its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
