package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wareline/backend/internal/domain/shared"
)

// validateSortOrder normalizes the sort direction to ASC or DESC
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField whitelists the sort column; sort fields come from request
// input and must never reach the ORDER BY clause unchecked
func validateSortField(field string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" || !allowed[trimmed] {
		return defaultField
	}
	return trimmed
}

// applyFilter applies pagination and validated ordering to a query
func applyFilter(db *gorm.DB, filter shared.Filter, allowedSortFields map[string]bool, defaultField string) *gorm.DB {
	field := validateSortField(filter.OrderBy, allowedSortFields, defaultField)
	dir := validateSortOrder(filter.OrderDir)
	db = db.Order(fmt.Sprintf("%s %s", field, dir))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		db = db.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return db
}

var productSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"name":       true,
	"type":       true,
	"active":     true,
}

var warehouseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"active":     true,
}

var supplierSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"lead_time_days": true,
	"active":         true,
}

var stockRecordSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"warehouse_id": true,
	"product_id":   true,
	"available":    true,
	"reserved":     true,
	"damaged":      true,
	"in_transit":   true,
}

var purchaseOrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"number":       true,
	"supplier_id":  true,
	"warehouse_id": true,
	"status":       true,
	"submitted_at": true,
	"completed_at": true,
}

var transferSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"number":              true,
	"source_warehouse_id": true,
	"dest_warehouse_id":   true,
	"status":              true,
	"shipped_at":          true,
	"completed_at":        true,
}
