package partner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
)

// WarehouseService handles warehouse registration and lifecycle
type WarehouseService struct {
	warehouseRepo partner.WarehouseRepository
	logger        *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo partner.WarehouseRepository, logger *zap.Logger) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		logger:        logger,
	}
}

// Create registers a warehouse; the code must be unique within the organization
func (s *WarehouseService) Create(ctx context.Context, orgID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := partner.NewWarehouse(orgID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	_, err = s.warehouseRepo.FindByCode(ctx, orgID, warehouse.Code)
	if err == nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Warehouse code already exists")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	s.logger.Info("warehouse created",
		zap.String("org_id", orgID.String()),
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("code", warehouse.Code))

	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// Get returns a warehouse by ID
func (s *WarehouseService) Get(ctx context.Context, orgID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForOrg(ctx, orgID, warehouseID)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// GetByCode returns a warehouse by its code
func (s *WarehouseService) GetByCode(ctx context.Context, orgID uuid.UUID, code string) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByCode(ctx, orgID, code)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// List returns warehouses for the organization
func (s *WarehouseService) List(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (*WarehouseListResponse, error) {
	warehouses, err := s.warehouseRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	resp := WarehouseListResponse{
		Warehouses: make([]WarehouseResponse, 0, len(warehouses)),
		Total:      len(warehouses),
	}
	for i := range warehouses {
		resp.Warehouses = append(resp.Warehouses, ToWarehouseResponse(&warehouses[i]))
	}
	return &resp, nil
}

// Update changes the warehouse name; the code is immutable after creation
func (s *WarehouseService) Update(ctx context.Context, orgID, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForOrg(ctx, orgID, warehouseID)
	if err != nil {
		return nil, err
	}

	warehouse.Name = req.Name
	warehouse.UpdatedAt = time.Now()
	warehouse.IncrementVersion()

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// Deactivate marks a warehouse as inactive. Stock records referencing it are
// kept; the warehouse just stops accepting new documents.
func (s *WarehouseService) Deactivate(ctx context.Context, orgID, warehouseID uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByIDForOrg(ctx, orgID, warehouseID)
	if err != nil {
		return err
	}

	warehouse.Deactivate()

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return err
	}

	s.logger.Info("warehouse deactivated",
		zap.String("org_id", orgID.String()),
		zap.String("warehouse_id", warehouseID.String()))
	return nil
}
