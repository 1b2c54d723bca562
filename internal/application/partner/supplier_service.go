package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
)

// SupplierService handles supplier registration and lifecycle
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create registers a supplier
func (s *SupplierService) Create(ctx context.Context, orgID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(orgID, req.Name, req.LeadTimeDays)
	if err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created",
		zap.String("org_id", orgID.String()),
		zap.String("supplier_id", supplier.ID.String()))

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Get returns a supplier by ID
func (s *SupplierService) Get(ctx context.Context, orgID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForOrg(ctx, orgID, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns suppliers for the organization
func (s *SupplierService) List(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (*SupplierListResponse, error) {
	suppliers, err := s.supplierRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	resp := SupplierListResponse{
		Suppliers: make([]SupplierResponse, 0, len(suppliers)),
		Total:     len(suppliers),
	}
	for i := range suppliers {
		resp.Suppliers = append(resp.Suppliers, ToSupplierResponse(&suppliers[i]))
	}
	return &resp, nil
}

// Update changes the supplier name and lead time
func (s *SupplierService) Update(ctx context.Context, orgID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForOrg(ctx, orgID, supplierID)
	if err != nil {
		return nil, err
	}

	if err := supplier.SetLeadTime(req.LeadTimeDays); err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.UpdatedAt = time.Now()

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Deactivate marks a supplier as inactive
func (s *SupplierService) Deactivate(ctx context.Context, orgID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForOrg(ctx, orgID, supplierID)
	if err != nil {
		return err
	}

	supplier.Deactivate()

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return err
	}

	s.logger.Info("supplier deactivated",
		zap.String("org_id", orgID.String()),
		zap.String("supplier_id", supplierID.String()))
	return nil
}
