package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/wareline/backend/internal/domain/shared"
)

// ProductRepository defines persistence for products and their composition edges
type ProductRepository interface {
	// FindByIDForOrg finds a product by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its normalized SKU within an organization
	FindBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*Product, error)

	// FindAllForOrg finds all products for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindWithThresholds finds active products that have a low-stock threshold or reorder point set
	FindWithThresholds(ctx context.Context, orgID uuid.UUID) ([]Product, error)

	// FindComponents finds the direct composition edges of a bundle
	FindComponents(ctx context.Context, orgID, bundleID uuid.UUID) ([]BundleComponent, error)

	// AddComponent persists a composition edge
	AddComponent(ctx context.Context, component *BundleComponent) error

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// CountForOrg counts products matching the filter
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
}

// ProductSupplierRepository defines persistence for product-supplier links
type ProductSupplierRepository interface {
	// FindByProduct finds all supplier links for a product
	FindByProduct(ctx context.Context, orgID, productID uuid.UUID) ([]ProductSupplier, error)

	// Save creates or updates a link
	Save(ctx context.Context, link *ProductSupplier) error
}
