package advisor

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierSuggestion names the supplier the advisor would order from
type SupplierSuggestion struct {
	SupplierID   uuid.UUID `json:"supplier_id"`
	Name         string    `json:"name"`
	LeadTimeDays int       `json:"lead_time_days"`
	IsPreferred  bool      `json:"is_preferred"`
}

// ReorderAdvice is one (product, warehouse) pair the advisor recommends
// restocking
type ReorderAdvice struct {
	ProductID         uuid.UUID           `json:"product_id"`
	SKU               string              `json:"sku"`
	Name              string              `json:"name"`
	WarehouseID       uuid.UUID           `json:"warehouse_id"`
	Available         decimal.Decimal     `json:"available"`
	InTransit         decimal.Decimal     `json:"in_transit"`
	LowStockThreshold decimal.Decimal     `json:"low_stock_threshold"`
	ReorderPoint      decimal.Decimal     `json:"reorder_point"`
	DailyConsumption  decimal.Decimal     `json:"daily_consumption"`
	DaysUntilStockout *decimal.Decimal    `json:"days_until_stockout,omitempty"`
	SuggestedQuantity decimal.Decimal     `json:"suggested_quantity"`
	Supplier          *SupplierSuggestion `json:"supplier,omitempty"`
}
