package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wareline/backend/internal/domain/shared"
	"github.com/wareline/backend/internal/domain/trade"
)

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByIDForOrg finds a transfer with items by ID within an organization
func (r *GormTransferRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*trade.Transfer, error) {
	var transfer trade.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByNumber finds a transfer by its document number within an organization
func (r *GormTransferRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*trade.Transfer, error) {
	var transfer trade.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ? AND number = ?", orgID, number).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAllForOrg finds all transfers for an organization
func (r *GormTransferRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]trade.Transfer, error) {
	var transfers []trade.Transfer
	query := applyFilter(
		r.db.WithContext(ctx).Model(&trade.Transfer{}).
			Preload("Items").
			Where("org_id = ?", orgID),
		filter, transferSortFields, "created_at",
	)
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if sourceID, ok := filter.Filters["source_warehouse_id"].(uuid.UUID); ok {
		query = query.Where("source_warehouse_id = ?", sourceID)
	}
	if destID, ok := filter.Filters["dest_warehouse_id"].(uuid.UUID); ok {
		query = query.Where("dest_warehouse_id = ?", destID)
	}
	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindByStatus finds transfers in a given status
func (r *GormTransferRepository) FindByStatus(ctx context.Context, orgID uuid.UUID, status trade.TransferStatus) ([]trade.Transfer, error) {
	var transfers []trade.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ? AND status = ?", orgID, status).
		Order("created_at ASC").
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a transfer and its items
func (r *GormTransferRepository) Save(ctx context.Context, transfer *trade.Transfer) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(transfer).Error
}

var _ trade.TransferRepository = (*GormTransferRepository)(nil)
