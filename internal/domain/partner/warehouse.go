package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wareline/backend/internal/domain/shared"
)

// Warehouse is a physical location stock moves in and out of.
// Identified by (organization, code).
type Warehouse struct {
	shared.OrgAggregateRoot
	Code   string `gorm:"type:varchar(32);not null;uniqueIndex:idx_warehouse_org_code,priority:2"`
	Name   string `gorm:"type:varchar(200);not null"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(orgID uuid.UUID, code, name string) (*Warehouse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Warehouse code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Warehouse name cannot be empty")
	}
	return &Warehouse{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Code:             code,
		Name:             name,
		Active:           true,
	}, nil
}

// Deactivate marks the warehouse as inactive
func (w *Warehouse) Deactivate() {
	w.Active = false
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}
