package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/wareline/backend/internal/application/inventory"
	"github.com/wareline/backend/internal/domain/catalog"
	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
)

// ProductService manages the product slice of the catalog the inventory core
// depends on: identity, unit of measure, reorder thresholds, bundle
// composition and supplier links. Pricing and descriptive attributes are the
// catalog collaborator's business.
type ProductService struct {
	productRepo         catalog.ProductRepository
	productSupplierRepo catalog.ProductSupplierRepository
	supplierRepo        partner.SupplierRepository
	ledger              *appinventory.LedgerService
	logger              *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	productSupplierRepo catalog.ProductSupplierRepository,
	supplierRepo partner.SupplierRepository,
	ledger *appinventory.LedgerService,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:         productRepo,
		productSupplierRepo: productSupplierRepo,
		supplierRepo:        supplierRepo,
		ledger:              ledger,
		logger:              logger,
	}
}

// CreateProduct registers a product. When an opening quantity is supplied the
// ledger is seeded with an adjustment movement, so the opening stock has a
// ledger row like any other stock.
func (s *ProductService) CreateProduct(ctx context.Context, orgID, actorID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(orgID, req.SKU, req.Name, req.Unit, catalog.ProductType(req.Type))
	if err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindBySKU(ctx, orgID, product.SKU); err == nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("Product with SKU %s already exists", product.SKU))
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	hasThresholds := !req.LowStockThreshold.IsZero() || !req.ReorderPoint.IsZero() || !req.ReorderQuantity.IsZero()
	if hasThresholds {
		if err := product.SetThresholds(req.LowStockThreshold, req.ReorderPoint, req.ReorderQuantity); err != nil {
			return nil, err
		}
	}

	if err := s.validateInitialStock(req); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if req.InitialQuantity != nil && req.InitialQuantity.IsPositive() {
		movementReq := appinventory.RecordMovementRequest{
			WarehouseID:    *req.InitialWarehouse,
			ProductID:      product.ID,
			Type:           string(inventory.MovementTypeAdjustment),
			QuantityChange: *req.InitialQuantity,
			UnitCost:       req.InitialUnitCost,
			Reason:         "Initial stock",
			IdempotencyKey: "initial-stock-" + product.ID.String(),
		}
		if _, err := s.ledger.RecordMovement(ctx, orgID, actorID, movementReq); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Product created",
		zap.String("org_id", orgID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))

	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) validateInitialStock(req CreateProductRequest) error {
	if req.InitialQuantity == nil {
		return nil
	}
	if req.InitialQuantity.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Initial quantity cannot be negative")
	}
	if req.InitialQuantity.IsPositive() && req.InitialWarehouse == nil {
		return shared.NewDomainError(shared.CodeValidation, "Initial stock requires a warehouse")
	}
	return nil
}

// GetProduct returns a product with its composition and supplier links
func (s *ProductService) GetProduct(ctx context.Context, orgID, productID uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindByIDForOrg(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}

	detail := ProductDetailResponse{ProductResponse: ToProductResponse(product)}

	if product.IsBundle() {
		components, err := s.productRepo.FindComponents(ctx, orgID, productID)
		if err != nil {
			return nil, err
		}
		for _, component := range components {
			detail.Components = append(detail.Components, ComponentResponse{
				ComponentID: component.ComponentID,
				Quantity:    component.Quantity,
			})
		}
	}

	links, err := s.productSupplierRepo.FindByProduct(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		detail.Suppliers = append(detail.Suppliers, SupplierLinkResponse{
			SupplierID:  link.SupplierID,
			IsPreferred: link.IsPreferred,
		})
	}

	return &detail, nil
}

// GetProductBySKU returns a product by its normalized SKU
func (s *ProductService) GetProductBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, orgID, sku)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts returns a page of products with the total count
func (s *ProductService) ListProducts(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (*ProductListResponse, error) {
	products, err := s.productRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	resp := ProductListResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for i := range products {
		resp.Products = append(resp.Products, ToProductResponse(&products[i]))
	}
	return &resp, nil
}

// UpdateProduct updates a product's descriptive fields
func (s *ProductService) UpdateProduct(ctx context.Context, orgID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForOrg(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	product.IncrementVersion()

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// UpdateThresholds changes the low-stock and reorder settings the advisor
// works from
func (s *ProductService) UpdateThresholds(ctx context.Context, orgID, productID uuid.UUID, req UpdateThresholdsRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForOrg(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.SetThresholds(req.LowStockThreshold, req.ReorderPoint, req.ReorderQuantity); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// DeactivateProduct retires a product; the reorder advisor skips inactive
// products and no new documents should reference them
func (s *ProductService) DeactivateProduct(ctx context.Context, orgID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForOrg(ctx, orgID, productID)
	if err != nil {
		return err
	}
	product.Deactivate()
	return s.productRepo.Save(ctx, product)
}

// AddComponent adds a component edge to a bundle. Both ends must exist in the
// organization, the parent must be a bundle, and the edge must keep the
// composition graph acyclic.
func (s *ProductService) AddComponent(ctx context.Context, orgID, bundleID uuid.UUID, req AddComponentRequest) error {
	bundle, err := s.productRepo.FindByIDForOrg(ctx, orgID, bundleID)
	if err != nil {
		return err
	}
	if !bundle.IsBundle() {
		return shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Product %s is not a bundle", bundle.SKU))
	}
	if _, err := s.productRepo.FindByIDForOrg(ctx, orgID, req.ComponentID); err != nil {
		return err
	}

	if err := catalog.ValidateComponentEdge(ctx, s.productRepo, orgID, bundleID, req.ComponentID); err != nil {
		return err
	}

	component, err := catalog.NewBundleComponent(orgID, bundleID, req.ComponentID, req.Quantity)
	if err != nil {
		return err
	}
	return s.productRepo.AddComponent(ctx, component)
}

// LinkSupplier links a supplier to a product, or updates the preference of an
// existing link. The supplier must belong to the same organization; like every
// other org-scoped lookup, a supplier from another organization reads as not
// found rather than confirming the row exists elsewhere.
func (s *ProductService) LinkSupplier(ctx context.Context, orgID, productID uuid.UUID, req LinkSupplierRequest) error {
	if _, err := s.productRepo.FindByIDForOrg(ctx, orgID, productID); err != nil {
		return err
	}
	if _, err := s.supplierRepo.FindByIDForOrg(ctx, orgID, req.SupplierID); err != nil {
		return err
	}

	link, err := catalog.NewProductSupplier(orgID, productID, req.SupplierID, req.IsPreferred)
	if err != nil {
		return err
	}
	return s.productSupplierRepo.Save(ctx, link)
}
