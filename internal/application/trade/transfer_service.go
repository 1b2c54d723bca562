package trade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/wareline/backend/internal/application/inventory"
	"github.com/wareline/backend/internal/domain/catalog"
	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
	"github.com/wareline/backend/internal/domain/trade"
)

// TransferService drives warehouse-to-warehouse stock moves. Shipping writes
// TRANSFER_OUT entries at the source, receiving writes TRANSFER_IN entries at
// the destination, and the destination's informational in-transit counter is
// kept in step, all inside the same transaction as the document update.
type TransferService struct {
	txScope       appinventory.TransactionScope
	ledger        *appinventory.LedgerService
	warehouseRepo partner.WarehouseRepository
	productRepo   catalog.ProductRepository
	logger        *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(
	txScope appinventory.TransactionScope,
	ledger *appinventory.LedgerService,
	warehouseRepo partner.WarehouseRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		txScope:       txScope,
		ledger:        ledger,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// Create creates a pending transfer with a freshly allocated document number
func (s *TransferService) Create(ctx context.Context, orgID uuid.UUID, req CreateTransferRequest) (*TransferResponse, error) {
	for _, id := range []uuid.UUID{req.SourceWarehouseID, req.DestWarehouseID} {
		warehouse, err := s.warehouseRepo.FindByIDForOrg(ctx, orgID, id)
		if err != nil {
			return nil, err
		}
		if !warehouse.Active {
			return nil, shared.NewDomainError(shared.CodeValidation, "Warehouse "+warehouse.Code+" is inactive")
		}
	}
	for _, item := range req.Items {
		if _, err := s.productRepo.FindByIDForOrg(ctx, orgID, item.ProductID); err != nil {
			return nil, err
		}
	}

	var transfer *trade.Transfer
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		number, err := nextDocumentNumber(ctx, repos, orgID, trade.SequenceKindTransfer)
		if err != nil {
			return err
		}
		transfer, err = trade.NewTransfer(orgID, number, req.SourceWarehouseID, req.DestWarehouseID)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if _, err := transfer.AddItem(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return repos.Transfers().Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer created",
		zap.String("org_id", orgID.String()),
		zap.String("number", transfer.Number))

	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Ship dispatches quantities from the source warehouse. Each shipped line
// decrements the source's available bucket through a TRANSFER_OUT entry and
// raises the destination's in-transit counter.
func (s *TransferService) Ship(ctx context.Context, orgID, actorID, transferID uuid.UUID, req MoveTransferRequest) (*TransferResponse, error) {
	lines := toTransferLines(req.Lines)

	var transfer *trade.Transfer
	err := s.withConflictRetry(ctx, func() error {
		return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			var err error
			transfer, err = repos.Transfers().FindByIDForOrg(ctx, orgID, transferID)
			if err != nil {
				return err
			}

			moved, err := transfer.Ship(lines)
			if err != nil {
				return err
			}

			for _, line := range moved {
				params := appinventory.MovementParams{
					OrgID:       orgID,
					WarehouseID: transfer.SourceWarehouseID,
					ProductID:   line.ProductID,
					Type:        inventory.MovementTypeTransferOut,
					Change:      line.Quantity.Neg(),
					ActorID:     actorID,
					Ref: &inventory.MovementRef{
						Type: inventory.ReferenceTransfer,
						ID:   transfer.ID,
						Key:  req.IdempotencyKey,
					},
				}
				if _, err := s.ledger.ApplyInScope(ctx, repos, params); err != nil {
					return err
				}
				if err := s.ledger.AdjustInTransitInScope(ctx, repos, orgID,
					transfer.DestWarehouseID, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}

			return repos.Transfers().Save(ctx, transfer)
		})
	})
	if err != nil {
		return nil, err
	}

	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Receive books arrived quantities into the destination warehouse. Each line
// increments the destination's available bucket through a TRANSFER_IN entry
// and lowers its in-transit counter.
func (s *TransferService) Receive(ctx context.Context, orgID, actorID, transferID uuid.UUID, req MoveTransferRequest) (*TransferResponse, error) {
	lines := toTransferLines(req.Lines)

	var transfer *trade.Transfer
	err := s.withConflictRetry(ctx, func() error {
		return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			var err error
			transfer, err = repos.Transfers().FindByIDForOrg(ctx, orgID, transferID)
			if err != nil {
				return err
			}

			moved, err := transfer.Receive(lines)
			if err != nil {
				return err
			}

			for _, line := range moved {
				params := appinventory.MovementParams{
					OrgID:       orgID,
					WarehouseID: transfer.DestWarehouseID,
					ProductID:   line.ProductID,
					Type:        inventory.MovementTypeTransferIn,
					Change:      line.Quantity,
					ActorID:     actorID,
					Ref: &inventory.MovementRef{
						Type: inventory.ReferenceTransfer,
						ID:   transfer.ID,
						Key:  req.IdempotencyKey,
					},
				}
				if _, err := s.ledger.ApplyInScope(ctx, repos, params); err != nil {
					return err
				}
				if err := s.ledger.AdjustInTransitInScope(ctx, repos, orgID,
					transfer.DestWarehouseID, line.ProductID, line.Quantity.Neg()); err != nil {
					return err
				}
			}

			return repos.Transfers().Save(ctx, transfer)
		})
	})
	if err != nil {
		return nil, err
	}

	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// ResolveDiscrepancy closes out an in-transit transfer whose shipped goods
// did not all arrive. Each lost quantity is booked into the destination as a
// TRANSFER_IN and immediately written off with an ADJUSTMENT, so the loss is
// explicit in the ledger instead of silently vanishing in transit.
func (s *TransferService) ResolveDiscrepancy(ctx context.Context, orgID, actorID, transferID uuid.UUID, req ResolveDiscrepancyRequest) (*TransferResponse, error) {
	var transfer *trade.Transfer
	err := s.withConflictRetry(ctx, func() error {
		return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			var err error
			transfer, err = repos.Transfers().FindByIDForOrg(ctx, orgID, transferID)
			if err != nil {
				return err
			}

			shortfalls, err := transfer.ResolveDiscrepancy(req.Reason)
			if err != nil {
				return err
			}

			for _, short := range shortfalls {
				inParams := appinventory.MovementParams{
					OrgID:       orgID,
					WarehouseID: transfer.DestWarehouseID,
					ProductID:   short.ProductID,
					Type:        inventory.MovementTypeTransferIn,
					Change:      short.Shortfall,
					ActorID:     actorID,
					Ref:         &inventory.MovementRef{Type: inventory.ReferenceTransfer, ID: transfer.ID},
				}
				if _, err := s.ledger.ApplyInScope(ctx, repos, inParams); err != nil {
					return err
				}
				writeOff := appinventory.MovementParams{
					OrgID:       orgID,
					WarehouseID: transfer.DestWarehouseID,
					ProductID:   short.ProductID,
					Type:        inventory.MovementTypeAdjustment,
					Change:      short.Shortfall.Neg(),
					ActorID:     actorID,
					Ref:         &inventory.MovementRef{Type: inventory.ReferenceTransfer, ID: transfer.ID},
				}
				if _, err := s.ledger.ApplyInScope(ctx, repos, writeOff); err != nil {
					return err
				}
				if err := s.ledger.AdjustInTransitInScope(ctx, repos, orgID,
					transfer.DestWarehouseID, short.ProductID, short.Shortfall.Neg()); err != nil {
					return err
				}
			}

			return repos.Transfers().Save(ctx, transfer)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer closed with discrepancy",
		zap.String("org_id", orgID.String()),
		zap.String("number", transfer.Number),
		zap.String("reason", req.Reason))

	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Cancel terminates a transfer before anything has shipped
func (s *TransferService) Cancel(ctx context.Context, orgID, transferID uuid.UUID, reason string) (*TransferResponse, error) {
	var transfer *trade.Transfer
	err := s.withConflictRetry(ctx, func() error {
		return s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			var err error
			transfer, err = repos.Transfers().FindByIDForOrg(ctx, orgID, transferID)
			if err != nil {
				return err
			}
			if err := transfer.Cancel(reason); err != nil {
				return err
			}
			return repos.Transfers().Save(ctx, transfer)
		})
	})
	if err != nil {
		return nil, err
	}
	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// Get returns one transfer with its items
func (s *TransferService) Get(ctx context.Context, orgID, transferID uuid.UUID) (*TransferResponse, error) {
	var transfer *trade.Transfer
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		transfer, err = repos.Transfers().FindByIDForOrg(ctx, orgID, transferID)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToTransferResponse(transfer)
	return &resp, nil
}

// List returns the organization's transfers
func (s *TransferService) List(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]TransferResponse, error) {
	var transfers []trade.Transfer
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		transfers, err = repos.Transfers().FindAllForOrg(ctx, orgID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	responses := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		responses = append(responses, ToTransferResponse(&transfers[i]))
	}
	return responses, nil
}

func (s *TransferService) withConflictRetry(ctx context.Context, fn func() error) error {
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
		s.logger.Debug("retrying transfer mutation after version conflict", zap.Int("attempt", attempt))
	}
	return err
}

func toTransferLines(lines []TransferLineRequest) []trade.TransferLine {
	result := make([]trade.TransferLine, 0, len(lines))
	for _, line := range lines {
		result = append(result, trade.TransferLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return result
}
