package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wareline/backend/internal/domain/catalog"
	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
)

// maxConflictRetries bounds the optimistic-lock retry loop. Conflicts past
// this count surface to the caller as CONCURRENCY_CONFLICT.
const maxConflictRetries = 3

// MovementParams carries one ledger mutation through the transaction scope
type MovementParams struct {
	OrgID       uuid.UUID
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
	Type        inventory.MovementType
	Change      decimal.Decimal
	UnitCost    *decimal.Decimal
	Ref         *inventory.MovementRef
	ActorID     uuid.UUID
}

// LedgerService is the single write path for stock. Every bucket change goes
// through it so the stock record and its movement row always commit together.
type LedgerService struct {
	txScope        TransactionScope
	productRepo    catalog.ProductRepository
	warehouseRepo  partner.WarehouseRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	warehouseRepo partner.WarehouseRepository,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		txScope:       txScope,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordMovement records a manual stock movement for the organization. The
// movement type must be directly recordable; reservation movements go through
// Reserve and Release, transfer movements through the transfer service.
func (s *LedgerService) RecordMovement(ctx context.Context, orgID, actorID uuid.UUID, req RecordMovementRequest) (*MovementResponse, error) {
	movementType := inventory.MovementType(req.Type)
	if !movementType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid movement type "+req.Type)
	}
	if movementType.IsReservation() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Reservation movements cannot be recorded directly")
	}
	if movementType == inventory.MovementTypeTransferIn || movementType == inventory.MovementTypeTransferOut {
		return nil, shared.NewDomainError(shared.CodeValidation, "Transfer movements are recorded by the transfer workflow")
	}

	if err := s.checkPair(ctx, orgID, req.WarehouseID, req.ProductID); err != nil {
		return nil, err
	}

	params := MovementParams{
		OrgID:       orgID,
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		Type:        movementType,
		Change:      req.QuantityChange,
		UnitCost:    req.UnitCost,
		ActorID:     actorID,
	}
	if req.IdempotencyKey != "" {
		params.Ref = &inventory.MovementRef{Type: inventory.ReferenceManual, ID: orgID, Key: req.IdempotencyKey}
	}

	movement, err := s.applyWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	s.notifyMovement(ctx, movement)
	s.checkThreshold(ctx, orgID, req.ProductID)

	resp := ToMovementResponse(movement)
	return &resp, nil
}

// Recount sets the available bucket to a counted value, recording the delta
// as an authoritative RECOUNT movement. Counting exactly the current value
// writes no ledger row; the response still carries the record so callers can
// confirm what was on the books.
func (s *LedgerService) Recount(ctx context.Context, orgID, actorID uuid.UUID, req RecountRequest) (*RecountResponse, error) {
	if req.CountedQty.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeNegativeQuantity, "Counted quantity cannot be negative")
	}
	if err := s.checkPair(ctx, orgID, req.WarehouseID, req.ProductID); err != nil {
		return nil, err
	}

	var result *inventory.StockRecord
	var movement *inventory.StockMovement
	err := s.withConflictRetry(ctx, func() error {
		movement = nil
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			record, err := repos.StockRecords().GetOrCreate(ctx, orgID, req.WarehouseID, req.ProductID)
			if err != nil {
				return err
			}
			change := req.CountedQty.Sub(record.Available)
			if change.IsZero() {
				result = record
				return nil
			}
			before, after, err := record.Apply(inventory.MovementTypeRecount, change)
			if err != nil {
				return err
			}
			m, err := inventory.NewStockMovement(orgID, req.WarehouseID, req.ProductID,
				inventory.MovementTypeRecount, change, before, after)
			if err != nil {
				return err
			}
			m.WithActor(actorID)
			if err := repos.Movements().Create(ctx, m); err != nil {
				return err
			}
			if err := repos.StockRecords().SaveWithLock(ctx, record); err != nil {
				return err
			}
			result = record
			movement = m
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	resp := &RecountResponse{Record: ToStockRecordResponse(result)}
	if movement == nil {
		return resp, nil
	}

	s.notifyMovement(ctx, movement)
	s.checkThreshold(ctx, orgID, req.ProductID)

	resp.Changed = true
	m := ToMovementResponse(movement)
	resp.Movement = &m
	return resp, nil
}

// Reserve moves quantity from available to reserved for an open order. The
// reservation is recorded in the ledger as a RESERVE movement against the
// available bucket, so replaying the ledger still reproduces both buckets.
func (s *LedgerService) Reserve(ctx context.Context, orgID, actorID uuid.UUID, req ReservationRequest) (*StockRecordResponse, error) {
	return s.reservation(ctx, orgID, actorID, req, inventory.MovementTypeReserve)
}

// Release returns reserved quantity to available
func (s *LedgerService) Release(ctx context.Context, orgID, actorID uuid.UUID, req ReservationRequest) (*StockRecordResponse, error) {
	return s.reservation(ctx, orgID, actorID, req, inventory.MovementTypeRelease)
}

func (s *LedgerService) reservation(ctx context.Context, orgID, actorID uuid.UUID, req ReservationRequest, movementType inventory.MovementType) (*StockRecordResponse, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity must be positive")
	}
	if err := s.checkPair(ctx, orgID, req.WarehouseID, req.ProductID); err != nil {
		return nil, err
	}

	var result *inventory.StockRecord
	var movement *inventory.StockMovement
	err := s.withConflictRetry(ctx, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			record, err := repos.StockRecords().GetOrCreate(ctx, orgID, req.WarehouseID, req.ProductID)
			if err != nil {
				return err
			}

			var before, after decimal.Decimal
			var change decimal.Decimal
			if movementType == inventory.MovementTypeReserve {
				before, after, err = record.Reserve(req.Quantity)
				change = req.Quantity.Neg()
			} else {
				before, after, err = record.Release(req.Quantity)
				change = req.Quantity
			}
			if err != nil {
				return err
			}

			m, err := inventory.NewStockMovement(orgID, req.WarehouseID, req.ProductID, movementType, change, before, after)
			if err != nil {
				return err
			}
			m.WithActor(actorID)
			if err := repos.Movements().Create(ctx, m); err != nil {
				return err
			}
			if err := repos.StockRecords().SaveWithLock(ctx, record); err != nil {
				return err
			}
			result = record
			movement = m
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyMovement(ctx, movement)

	resp := ToStockRecordResponse(result)
	return &resp, nil
}

// ApplyInScope performs one ledger mutation inside an already-open
// transaction scope. Trade workflows use it to combine document status
// changes and stock changes in a single transaction. Tenancy checks are the
// caller's responsibility.
func (s *LedgerService) ApplyInScope(ctx context.Context, repos TransactionalRepositories, params MovementParams) (*inventory.StockMovement, error) {
	if params.Ref != nil && params.Ref.Key != "" {
		exists, err := repos.Movements().ExistsByReference(ctx, params.OrgID, *params.Ref, params.WarehouseID, params.ProductID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeDuplicateReference,
				"Movement with reference key "+params.Ref.Key+" already recorded")
		}
	}

	record, err := repos.StockRecords().GetOrCreate(ctx, params.OrgID, params.WarehouseID, params.ProductID)
	if err != nil {
		return nil, err
	}

	before, after, err := record.Apply(params.Type, params.Change)
	if err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(params.OrgID, params.WarehouseID, params.ProductID,
		params.Type, params.Change, before, after)
	if err != nil {
		return nil, err
	}
	if params.UnitCost != nil {
		movement.WithUnitCost(*params.UnitCost)
	}
	if params.Ref != nil {
		movement.WithReference(*params.Ref)
	}
	if params.ActorID != uuid.Nil {
		movement.WithActor(params.ActorID)
	}

	if err := repos.Movements().Create(ctx, movement); err != nil {
		return nil, err
	}
	if err := repos.StockRecords().SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	return movement, nil
}

// AdjustInTransitInScope moves the destination warehouse's informational
// in-transit counter by delta inside an open transaction scope
func (s *LedgerService) AdjustInTransitInScope(ctx context.Context, repos TransactionalRepositories, orgID, warehouseID, productID uuid.UUID, delta decimal.Decimal) error {
	record, err := repos.StockRecords().GetOrCreate(ctx, orgID, warehouseID, productID)
	if err != nil {
		return err
	}
	if delta.IsPositive() {
		if err := record.AddInTransit(delta); err != nil {
			return err
		}
	} else {
		if err := record.RemoveInTransit(delta.Neg()); err != nil {
			return err
		}
	}
	return repos.StockRecords().SaveWithLock(ctx, record)
}

// GetStock returns the stock record for a (product, warehouse) pair. A pair
// with no history reads as an all-zero record.
func (s *LedgerService) GetStock(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*StockRecordResponse, error) {
	if err := s.checkPair(ctx, orgID, warehouseID, productID); err != nil {
		return nil, err
	}
	record, err := s.findOrZero(ctx, orgID, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToStockRecordResponse(record)
	return &resp, nil
}

// GetProductStock aggregates a product's buckets across all warehouses
func (s *LedgerService) GetProductStock(ctx context.Context, orgID, productID uuid.UUID) (*ProductStockResponse, error) {
	if _, err := s.productRepo.FindByIDForOrg(ctx, orgID, productID); err != nil {
		return nil, err
	}

	var records []inventory.StockRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		records, err = repos.StockRecords().FindByProduct(ctx, orgID, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &ProductStockResponse{
		ProductID: productID,
		Available: decimal.Zero,
		Reserved:  decimal.Zero,
		Damaged:   decimal.Zero,
		InTransit: decimal.Zero,
		OnHand:    decimal.Zero,
		Records:   make([]StockRecordResponse, 0, len(records)),
	}
	for i := range records {
		record := &records[i]
		resp.Available = resp.Available.Add(record.Available)
		resp.Reserved = resp.Reserved.Add(record.Reserved)
		resp.Damaged = resp.Damaged.Add(record.Damaged)
		resp.InTransit = resp.InTransit.Add(record.InTransit)
		resp.OnHand = resp.OnHand.Add(record.OnHand())
		resp.Records = append(resp.Records, ToStockRecordResponse(record))
	}
	return resp, nil
}

// ListWarehouseStock returns the stock records held in one warehouse
func (s *LedgerService) ListWarehouseStock(ctx context.Context, orgID, warehouseID uuid.UUID, filter shared.Filter) ([]StockRecordResponse, error) {
	if _, err := s.warehouseRepo.FindByIDForOrg(ctx, orgID, warehouseID); err != nil {
		return nil, err
	}

	var records []inventory.StockRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		records, err = repos.StockRecords().FindByWarehouse(ctx, orgID, warehouseID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := make([]StockRecordResponse, 0, len(records))
	for i := range records {
		resp = append(resp, ToStockRecordResponse(&records[i]))
	}
	return resp, nil
}

// ListMovements returns the ledger history matching the filter, ordered by
// id ascending
func (s *LedgerService) ListMovements(ctx context.Context, orgID uuid.UUID, filter MovementListFilter) ([]MovementResponse, error) {
	domainFilter := inventory.MovementFilter{
		WarehouseID: filter.WarehouseID,
		ProductID:   filter.ProductID,
		RefID:       filter.RefID,
		Since:       filter.Since,
		Until:       filter.Until,
		AfterID:     filter.AfterID,
		Limit:       filter.Limit,
	}
	if filter.Type != "" {
		movementType := inventory.MovementType(filter.Type)
		if !movementType.IsValid() {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid movement type "+filter.Type)
		}
		domainFilter.Type = &movementType
	}
	if filter.RefType != "" {
		refType := inventory.ReferenceType(filter.RefType)
		if !refType.IsValid() {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid reference type "+filter.RefType)
		}
		domainFilter.RefType = &refType
	}

	var movements []inventory.StockMovement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movements, err = repos.Movements().FindByFilter(ctx, orgID, domainFilter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses, nil
}

// Reconcile replays a pair's full ledger and compares the result against the
// stored stock record
func (s *LedgerService) Reconcile(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*ReconciliationResponse, error) {
	if err := s.checkPair(ctx, orgID, warehouseID, productID); err != nil {
		return nil, err
	}

	var record *inventory.StockRecord
	var history []inventory.StockMovement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		record, err = s.findOrZeroIn(ctx, repos, orgID, warehouseID, productID)
		if err != nil {
			return err
		}
		history, err = repos.Movements().FindByPair(ctx, orgID, warehouseID, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	available, reserved, damaged := inventory.Replay(history)
	resp := &ReconciliationResponse{
		WarehouseID:       warehouseID,
		ProductID:         productID,
		StoredAvailable:   record.Available,
		StoredReserved:    record.Reserved,
		StoredDamaged:     record.Damaged,
		ReplayedAvailable: available,
		ReplayedReserved:  reserved,
		ReplayedDamaged:   damaged,
		Consistent: available.Equal(record.Available) &&
			reserved.Equal(record.Reserved) &&
			damaged.Equal(record.Damaged),
	}
	if !resp.Consistent {
		s.logger.Warn("stock record diverges from ledger replay",
			zap.String("org_id", orgID.String()),
			zap.String("warehouse_id", warehouseID.String()),
			zap.String("product_id", productID.String()))
	}
	return resp, nil
}

func (s *LedgerService) applyWithRetry(ctx context.Context, params MovementParams) (*inventory.StockMovement, error) {
	var movement *inventory.StockMovement
	err := s.withConflictRetry(ctx, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			movement, err = s.ApplyInScope(ctx, repos, params)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// withConflictRetry reruns fn on optimistic-lock conflicts. Each attempt
// re-reads current state, so a retried mutation applies on top of whatever
// won the race.
func (s *LedgerService) withConflictRetry(ctx context.Context, fn func() error) error {
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
		s.logger.Debug("retrying stock mutation after version conflict", zap.Int("attempt", attempt))
	}
	return err
}

// checkPair verifies the warehouse and product exist and belong to the
// organization. Cross-org references read as not found, never as a hint that
// the row exists elsewhere.
func (s *LedgerService) checkPair(ctx context.Context, orgID, warehouseID, productID uuid.UUID) error {
	if _, err := s.warehouseRepo.FindByIDForOrg(ctx, orgID, warehouseID); err != nil {
		return err
	}
	if _, err := s.productRepo.FindByIDForOrg(ctx, orgID, productID); err != nil {
		return err
	}
	return nil
}

func (s *LedgerService) findOrZero(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	var record *inventory.StockRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		record, err = s.findOrZeroIn(ctx, repos, orgID, warehouseID, productID)
		return err
	})
	return record, err
}

func (s *LedgerService) findOrZeroIn(ctx context.Context, repos TransactionalRepositories, orgID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	record, err := repos.StockRecords().FindByPair(ctx, orgID, warehouseID, productID)
	if err == nil {
		return record, nil
	}
	if shared.IsNotFound(err) {
		return inventory.NewStockRecord(orgID, warehouseID, productID)
	}
	return nil, err
}

func (s *LedgerService) notifyMovement(ctx context.Context, movement *inventory.StockMovement) {
	if s.eventPublisher == nil || movement == nil {
		return
	}
	event := inventory.NewStockMovementRecordedEvent(movement)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish stock movement event", zap.Error(err))
	}
}

// checkThreshold emits a low-stock event when the product's total available
// quantity across warehouses falls to or below its configured threshold
func (s *LedgerService) checkThreshold(ctx context.Context, orgID, productID uuid.UUID) {
	if s.eventPublisher == nil {
		return
	}
	product, err := s.productRepo.FindByIDForOrg(ctx, orgID, productID)
	if err != nil || product.LowStockThreshold.LessThanOrEqual(decimal.Zero) {
		return
	}

	var available decimal.Decimal
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		available, _, _, _, err = repos.StockRecords().SumBucketsByProduct(ctx, orgID, productID)
		return err
	})
	if err != nil {
		s.logger.Warn("failed to sum stock for threshold check", zap.Error(err))
		return
	}
	if available.GreaterThan(product.LowStockThreshold) {
		return
	}

	event := inventory.NewStockBelowThresholdEvent(orgID, productID, available, product.LowStockThreshold)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish low stock event", zap.Error(err))
	}
}
