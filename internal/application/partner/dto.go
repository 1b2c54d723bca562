package partner

import (
	"github.com/google/uuid"

	"github.com/wareline/backend/internal/domain/partner"
)

// CreateWarehouseRequest carries the fields for registering a warehouse
type CreateWarehouseRequest struct {
	Code string `json:"code" binding:"required,max=32"`
	Name string `json:"name" binding:"required,max=200"`
}

// UpdateWarehouseRequest carries the mutable warehouse fields
type UpdateWarehouseRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// WarehouseResponse is the API representation of a warehouse
type WarehouseResponse struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// WarehouseListResponse wraps a page of warehouses
type WarehouseListResponse struct {
	Warehouses []WarehouseResponse `json:"warehouses"`
	Total      int                 `json:"total"`
}

// ToWarehouseResponse converts a domain warehouse to its API shape
func ToWarehouseResponse(warehouse *partner.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:     warehouse.ID,
		Code:   warehouse.Code,
		Name:   warehouse.Name,
		Active: warehouse.Active,
	}
}

// CreateSupplierRequest carries the fields for registering a supplier
type CreateSupplierRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	LeadTimeDays int    `json:"lead_time_days" binding:"omitempty,min=0"`
}

// UpdateSupplierRequest carries the mutable supplier fields
type UpdateSupplierRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	LeadTimeDays int    `json:"lead_time_days" binding:"omitempty,min=0"`
}

// SupplierResponse is the API representation of a supplier
type SupplierResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	LeadTimeDays int       `json:"lead_time_days"`
	Active       bool      `json:"active"`
}

// SupplierListResponse wraps a page of suppliers
type SupplierListResponse struct {
	Suppliers []SupplierResponse `json:"suppliers"`
	Total     int                `json:"total"`
}

// ToSupplierResponse converts a domain supplier to its API shape
func ToSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           supplier.ID,
		Name:         supplier.Name,
		LeadTimeDays: supplier.LeadTimeDays,
		Active:       supplier.Active,
	}
}
