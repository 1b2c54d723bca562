package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/wareline/backend/internal/application/inventory"
	"github.com/wareline/backend/internal/domain/catalog"
	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
	"github.com/wareline/backend/internal/domain/trade"
)

const maxConflictRetries = 3

// PurchaseOrderService drives the purchase order workflow. Receiving goods
// updates the order and writes the matching ledger entries in one
// transaction, so a crash can never leave stock without its paper trail.
type PurchaseOrderService struct {
	txScope       appinventory.TransactionScope
	ledger        *appinventory.LedgerService
	supplierRepo  partner.SupplierRepository
	warehouseRepo partner.WarehouseRepository
	productRepo   catalog.ProductRepository
	logger        *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	txScope appinventory.TransactionScope,
	ledger *appinventory.LedgerService,
	supplierRepo partner.SupplierRepository,
	warehouseRepo partner.WarehouseRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		txScope:       txScope,
		ledger:        ledger,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// Create creates a draft purchase order with a freshly allocated document number
func (s *PurchaseOrderService) Create(ctx context.Context, orgID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForOrg(ctx, orgID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.Active {
		return nil, shared.NewDomainError(shared.CodeValidation, "Supplier "+supplier.Name+" is inactive")
	}
	warehouse, err := s.warehouseRepo.FindByIDForOrg(ctx, orgID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.Active {
		return nil, shared.NewDomainError(shared.CodeValidation, "Warehouse "+warehouse.Code+" is inactive")
	}
	for _, item := range req.Items {
		if _, err := s.productRepo.FindByIDForOrg(ctx, orgID, item.ProductID); err != nil {
			return nil, err
		}
	}

	var order *trade.PurchaseOrder
	err = s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		number, err := nextDocumentNumber(ctx, repos, orgID, trade.SequenceKindPurchaseOrder)
		if err != nil {
			return err
		}
		order, err = trade.NewPurchaseOrder(orgID, number, req.SupplierID, req.WarehouseID)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if _, err := order.AddItem(item.ProductID, item.Quantity, item.UnitCost); err != nil {
				return err
			}
		}
		return repos.PurchaseOrders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("org_id", orgID.String()),
		zap.String("number", order.Number))

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Submit moves a draft order to submitted
func (s *PurchaseOrderService) Submit(ctx context.Context, orgID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orgID, orderID, func(order *trade.PurchaseOrder) error {
		return order.Submit()
	})
}

// Approve moves a submitted order to approved, recording the approver
func (s *PurchaseOrderService) Approve(ctx context.Context, orgID, orderID, approverID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orgID, orderID, func(order *trade.PurchaseOrder) error {
		return order.Approve(approverID)
	})
}

// Cancel terminates an order that has not yet received goods
func (s *PurchaseOrderService) Cancel(ctx context.Context, orgID, orderID uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orgID, orderID, func(order *trade.PurchaseOrder) error {
		return order.Cancel(reason)
	})
}

// ReceiveGoods records arrived quantities against the order and writes one
// PURCHASE ledger entry per line at the order's destination warehouse.
// The order update and all ledger entries commit atomically.
func (s *PurchaseOrderService) ReceiveGoods(ctx context.Context, orgID, actorID, orderID uuid.UUID, req ReceiveOrderRequest) (*PurchaseOrderResponse, error) {
	lines := make([]trade.ReceiveLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, trade.ReceiveLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	var order *trade.PurchaseOrder
	err := s.withConflictRetry(ctx, func() error {
		return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			var err error
			order, err = repos.PurchaseOrders().FindByIDForOrg(ctx, orgID, orderID)
			if err != nil {
				return err
			}

			received, err := order.Receive(lines)
			if err != nil {
				return err
			}

			for _, line := range received {
				params := appinventory.MovementParams{
					OrgID:       orgID,
					WarehouseID: order.WarehouseID,
					ProductID:   line.ProductID,
					Type:        inventory.MovementTypePurchase,
					Change:      line.Quantity,
					UnitCost:    &line.UnitCost,
					ActorID:     actorID,
					Ref: &inventory.MovementRef{
						Type: inventory.ReferencePurchaseOrder,
						ID:   order.ID,
						Key:  req.IdempotencyKey,
					},
				}
				if _, err := s.ledger.ApplyInScope(ctx, repos, params); err != nil {
					return err
				}
			}

			return repos.PurchaseOrders().Save(ctx, order)
		})
	})
	if err != nil {
		return nil, err
	}

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Get returns one purchase order with its items
func (s *PurchaseOrderService) Get(ctx context.Context, orgID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrders().FindByIDForOrg(ctx, orgID, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// List returns the organization's purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]PurchaseOrderResponse, error) {
	var orders []trade.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		orders, err = repos.PurchaseOrders().FindAllForOrg(ctx, orgID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[i]))
	}
	return responses, nil
}

func (s *PurchaseOrderService) mutate(ctx context.Context, orgID, orderID uuid.UUID, fn func(*trade.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.withConflictRetry(ctx, func() error {
		return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			var err error
			order, err = repos.PurchaseOrders().FindByIDForOrg(ctx, orgID, orderID)
			if err != nil {
				return err
			}
			if err := fn(order); err != nil {
				return err
			}
			return repos.PurchaseOrders().Save(ctx, order)
		})
	})
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

func (s *PurchaseOrderService) withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !shared.IsConflict(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Debug("retrying purchase order mutation after version conflict", zap.Int("attempt", attempt))
	}
	return err
}

// nextDocumentNumber allocates the next PO-YYYY-NNNNN style number from the
// per-organization sequence, inside the current transaction
func nextDocumentNumber(ctx context.Context, repos appinventory.TransactionalRepositories, orgID uuid.UUID, kind string) (string, error) {
	year := time.Now().Year()
	n, err := repos.Sequences().Next(ctx, orgID, kind, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%05d", kind, year, n), nil
}
