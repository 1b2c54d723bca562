package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wareline/backend/internal/domain/catalog"
	"github.com/wareline/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForOrg finds a product by ID within an organization
func (r *GormProductRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its normalized SKU within an organization
func (r *GormProductRepository) FindBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND sku = ?", orgID, catalog.NormalizeSKU(sku)).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAllForOrg finds all products for an organization
func (r *GormProductRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("org_id = ?", orgID),
		filter, productSortFields, "created_at",
	)
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindWithThresholds finds active products that have a low-stock threshold or
// reorder point set
func (r *GormProductRepository) FindWithThresholds(ctx context.Context, orgID uuid.UUID) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND active = ? AND (low_stock_threshold > 0 OR reorder_point > 0)", orgID, true).
		Order("sku").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindComponents finds the direct composition edges of a bundle
func (r *GormProductRepository) FindComponents(ctx context.Context, orgID, bundleID uuid.UUID) ([]catalog.BundleComponent, error) {
	var components []catalog.BundleComponent
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND bundle_id = ?", orgID, bundleID).
		Find(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

// AddComponent persists a composition edge
func (r *GormProductRepository) AddComponent(ctx context.Context, component *catalog.BundleComponent) error {
	return r.db.WithContext(ctx).Create(component).Error
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Omit("Components").Save(product).Error
}

// CountForOrg counts products matching the filter
func (r *GormProductRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("org_id = ?", orgID)
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormProductSupplierRepository implements ProductSupplierRepository using GORM
type GormProductSupplierRepository struct {
	db *gorm.DB
}

// NewGormProductSupplierRepository creates a new GormProductSupplierRepository
func NewGormProductSupplierRepository(db *gorm.DB) *GormProductSupplierRepository {
	return &GormProductSupplierRepository{db: db}
}

// FindByProduct finds all supplier links for a product
func (r *GormProductSupplierRepository) FindByProduct(ctx context.Context, orgID, productID uuid.UUID) ([]catalog.ProductSupplier, error) {
	var links []catalog.ProductSupplier
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND product_id = ?", orgID, productID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// Save creates or updates a link; saving an existing (product, supplier) pair
// updates its preferred flag
func (r *GormProductSupplierRepository) Save(ctx context.Context, link *catalog.ProductSupplier) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "supplier_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_preferred"}),
		}).
		Create(link).Error
}

var _ catalog.ProductSupplierRepository = (*GormProductSupplierRepository)(nil)
