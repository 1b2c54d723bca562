package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/wareline/backend/internal/domain/shared"
)

// Supplier is a source of purchased goods. The core only needs its identity
// and lead time; contact and pricing details belong to the partner collaborator.
type Supplier struct {
	shared.OrgAggregateRoot
	Name         string `gorm:"type:varchar(200);not null"`
	LeadTimeDays int    `gorm:"not null;default:0"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(orgID uuid.UUID, name string, leadTimeDays int) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Supplier name cannot be empty")
	}
	if leadTimeDays < 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Lead time cannot be negative")
	}
	return &Supplier{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		LeadTimeDays:     leadTimeDays,
		Active:           true,
	}, nil
}

// SetLeadTime updates the expected days between ordering and receipt
func (s *Supplier) SetLeadTime(days int) error {
	if days < 0 {
		return shared.NewDomainError(shared.CodeValidation, "Lead time cannot be negative")
	}
	s.LeadTimeDays = days
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate marks the supplier as inactive
func (s *Supplier) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
