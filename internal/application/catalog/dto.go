package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wareline/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to register a product
type CreateProductRequest struct {
	SKU  string `json:"sku" binding:"required,max=64"`
	Name string `json:"name" binding:"required,max=200"`
	Unit string `json:"unit" binding:"required,max=20"`
	Type string `json:"type" binding:"omitempty,oneof=STANDARD BUNDLE"`

	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	ReorderQuantity   decimal.Decimal `json:"reorder_quantity"`

	// Optional opening stock, seeded into the ledger as an adjustment
	InitialQuantity  *decimal.Decimal `json:"initial_quantity"`
	InitialWarehouse *uuid.UUID       `json:"initial_warehouse_id"`
	InitialUnitCost  *decimal.Decimal `json:"initial_unit_cost"`
}

// UpdateProductRequest represents a request to update descriptive fields
type UpdateProductRequest struct {
	Name string `json:"name" binding:"omitempty,max=200"`
	Unit string `json:"unit" binding:"omitempty,max=20"`
}

// UpdateThresholdsRequest represents a request to change reorder settings
type UpdateThresholdsRequest struct {
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	ReorderQuantity   decimal.Decimal `json:"reorder_quantity"`
}

// AddComponentRequest represents a request to add a component to a bundle
type AddComponentRequest struct {
	ComponentID uuid.UUID       `json:"component_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

// LinkSupplierRequest represents a request to link a supplier to a product
type LinkSupplierRequest struct {
	SupplierID  uuid.UUID `json:"supplier_id" binding:"required"`
	IsPreferred bool      `json:"is_preferred"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	Type              string          `json:"type"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	ReorderQuantity   decimal.Decimal `json:"reorder_quantity"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product to its response form
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                product.ID,
		SKU:               product.SKU,
		Name:              product.Name,
		Unit:              product.Unit,
		Type:              string(product.Type),
		LowStockThreshold: product.LowStockThreshold,
		ReorderPoint:      product.ReorderPoint,
		ReorderQuantity:   product.ReorderQuantity,
		Active:            product.Active,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}

// ComponentResponse represents one bundle composition edge
type ComponentResponse struct {
	ComponentID uuid.UUID       `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// SupplierLinkResponse represents one product-supplier link
type SupplierLinkResponse struct {
	SupplierID  uuid.UUID `json:"supplier_id"`
	IsPreferred bool      `json:"is_preferred"`
}

// ProductDetailResponse is a product with its composition and supplier links
type ProductDetailResponse struct {
	ProductResponse
	Components []ComponentResponse    `json:"components,omitempty"`
	Suppliers  []SupplierLinkResponse `json:"suppliers,omitempty"`
}

// ProductListResponse is a paginated product listing
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
