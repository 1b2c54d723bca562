package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wareline/backend/internal/domain/shared"
)

// ProductType distinguishes simple products from bundles (bill of materials)
type ProductType string

const (
	ProductTypeStandard ProductType = "STANDARD"
	ProductTypeBundle   ProductType = "BUNDLE"
)

// IsValid returns true if the product type is valid
func (t ProductType) IsValid() bool {
	return t == ProductTypeStandard || t == ProductTypeBundle
}

// Product is the catalog entry the inventory core operates on.
// The core only needs its identity, unit of measure and threshold fields;
// pricing and descriptive attributes live with the catalog collaborator.
type Product struct {
	shared.OrgAggregateRoot
	SKU               string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_product_org_sku,priority:2"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Unit              string          `gorm:"type:varchar(20);not null"`
	Type              ProductType     `gorm:"type:varchar(20);not null;default:'STANDARD'"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderPoint      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active            bool            `gorm:"not null;default:true"`

	Components []BundleComponent `gorm:"foreignKey:BundleID;references:ID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NormalizeSKU normalizes a SKU for per-organization uniqueness
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// NewProduct creates a new product with a normalized SKU
func NewProduct(orgID uuid.UUID, sku, name, unit string, productType ProductType) (*Product, error) {
	sku = NormalizeSKU(sku)
	if sku == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unit of measure cannot be empty")
	}
	if productType == "" {
		productType = ProductTypeStandard
	}
	if !productType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Invalid product type %q", productType))
	}

	return &Product{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(orgID),
		SKU:               sku,
		Name:              name,
		Unit:              unit,
		Type:              productType,
		LowStockThreshold: decimal.Zero,
		ReorderPoint:      decimal.Zero,
		ReorderQuantity:   decimal.Zero,
		Active:            true,
	}, nil
}

// SetThresholds sets the low-stock threshold and reorder parameters
func (p *Product) SetThresholds(lowStock, reorderPoint, reorderQuantity decimal.Decimal) error {
	if lowStock.IsNegative() || reorderPoint.IsNegative() || reorderQuantity.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Thresholds cannot be negative")
	}
	p.LowStockThreshold = lowStock
	p.ReorderPoint = reorderPoint
	p.ReorderQuantity = reorderQuantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsBundle returns true if the product is a bundle of other products
func (p *Product) IsBundle() bool {
	return p.Type == ProductTypeBundle
}

// Deactivate marks the product as inactive; inactive products are skipped by the reorder advisor
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// BundleComponent is one (component product, quantity) edge of a bundle's
// composition graph. The graph must stay acyclic; see ValidateComponentEdge.
type BundleComponent struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrgID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BundleID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bundle_component,priority:1"`
	ComponentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bundle_component,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BundleComponent) TableName() string {
	return "bundle_components"
}

// NewBundleComponent creates a component edge for a bundle
func NewBundleComponent(orgID, bundleID, componentID uuid.UUID, quantity decimal.Decimal) (*BundleComponent, error) {
	if bundleID == componentID {
		return nil, shared.NewDomainError(shared.CodeValidation, "A bundle cannot contain itself")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Component quantity must be positive")
	}
	return &BundleComponent{
		ID:          uuid.New(),
		OrgID:       orgID,
		BundleID:    bundleID,
		ComponentID: componentID,
		Quantity:    quantity,
		CreatedAt:   time.Now(),
	}, nil
}

// ProductSupplier links a product to a supplier that can restock it.
// The reorder advisor prefers links flagged preferred, then shorter lead times.
type ProductSupplier struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	OrgID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_supplier,priority:1"`
	SupplierID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_supplier,priority:2"`
	IsPreferred bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductSupplier) TableName() string {
	return "product_suppliers"
}

// NewProductSupplier creates a product-supplier link
func NewProductSupplier(orgID, productID, supplierID uuid.UUID, preferred bool) (*ProductSupplier, error) {
	if productID == uuid.Nil || supplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product and supplier IDs are required")
	}
	return &ProductSupplier{
		ID:          uuid.New(),
		OrgID:       orgID,
		ProductID:   productID,
		SupplierID:  supplierID,
		IsPreferred: preferred,
		CreatedAt:   time.Now(),
	}, nil
}
