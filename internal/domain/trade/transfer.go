package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wareline/backend/internal/domain/shared"
)

// TransferStatus represents the status of a warehouse transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusInTransit TransferStatus = "IN_TRANSIT"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusInTransit, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// IsTerminal returns true for terminal states
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusCancelled
}

// TransferItem is one product line of a transfer. Receipt is bounded by what
// was shipped, and shipment by what was requested.
type TransferItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransferID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityRequested decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityShipped   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityReceived  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransferItem) TableName() string {
	return "transfer_items"
}

// NewTransferItem creates a new transfer line
func NewTransferItem(transferID, productID uuid.UUID, quantity decimal.Decimal) (*TransferItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Requested quantity must be positive")
	}
	now := time.Now()
	return &TransferItem{
		ID:                uuid.New(),
		TransferID:        transferID,
		ProductID:         productID,
		QuantityRequested: quantity,
		QuantityShipped:   decimal.Zero,
		QuantityReceived:  decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Outstanding returns the shipped quantity not yet received
func (i *TransferItem) Outstanding() decimal.Decimal {
	return i.QuantityShipped.Sub(i.QuantityReceived)
}

func (i *TransferItem) ship(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Ship quantity must be positive")
	}
	newShipped := i.QuantityShipped.Add(quantity)
	if newShipped.GreaterThan(i.QuantityRequested) {
		return shared.NewDomainError(shared.CodeOverShipment,
			fmt.Sprintf("Cannot ship %s for item %s, only %s requested", quantity, i.ID, i.QuantityRequested))
	}
	i.QuantityShipped = newShipped
	i.UpdatedAt = time.Now()
	return nil
}

func (i *TransferItem) receive(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Receive quantity must be positive")
	}
	newReceived := i.QuantityReceived.Add(quantity)
	if newReceived.GreaterThan(i.QuantityShipped) {
		return shared.NewDomainError(shared.CodeOverReceipt,
			fmt.Sprintf("Cannot receive %s for item %s, only %s outstanding", quantity, i.ID, i.Outstanding()))
	}
	i.QuantityReceived = newReceived
	i.UpdatedAt = time.Now()
	return nil
}

// TransferLine names one line of a ship or receive operation
type TransferLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// MovedLine reports one applied ship or receive line, ready for the ledger
type MovedLine struct {
	ItemID    uuid.UUID
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// DiscrepancyLine reports goods shipped but never received when a transfer is
// closed out short
type DiscrepancyLine struct {
	ItemID    uuid.UUID
	ProductID uuid.UUID
	Shortfall decimal.Decimal
}

// Transfer is the aggregate root for a warehouse-to-warehouse stock move.
// The source decrement happens on ship, the destination increment on receive,
// so goods in flight belong to neither warehouse's on-hand.
type Transfer struct {
	shared.OrgAggregateRoot
	Number            string         `gorm:"type:varchar(32);not null;uniqueIndex:idx_transfer_org_number,priority:2"`
	SourceWarehouseID uuid.UUID      `gorm:"type:uuid;not null;index"`
	DestWarehouseID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status            TransferStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Items             []TransferItem `gorm:"foreignKey:TransferID;references:ID"`
	ShippedAt         *time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// NewTransfer creates a pending transfer between two distinct warehouses
func NewTransfer(orgID uuid.UUID, number string, sourceWarehouseID, destWarehouseID uuid.UUID) (*Transfer, error) {
	if number == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Transfer number cannot be empty")
	}
	if sourceWarehouseID == uuid.Nil || destWarehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Source and destination warehouse IDs cannot be empty")
	}
	if sourceWarehouseID == destWarehouseID {
		return nil, shared.NewDomainError(shared.CodeValidation, "Source and destination warehouses must differ")
	}
	return &Transfer{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(orgID),
		Number:            number,
		SourceWarehouseID: sourceWarehouseID,
		DestWarehouseID:   destWarehouseID,
		Status:            TransferStatusPending,
		Items:             make([]TransferItem, 0),
	}, nil
}

// AddItem adds a requested line; only allowed while pending
func (t *Transfer) AddItem(productID uuid.UUID, quantity decimal.Decimal) (*TransferItem, error) {
	if t.Status != TransferStatusPending {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot add items to transfer %s in %s status", t.Number, t.Status))
	}
	for _, item := range t.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError(shared.CodeValidation, "Product already present in transfer")
		}
	}
	item, err := NewTransferItem(t.ID, productID, quantity)
	if err != nil {
		return nil, err
	}
	t.Items = append(t.Items, *item)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return item, nil
}

// Ship records dispatched quantities and moves the transfer in transit on the
// first shipment. The caller must write the matching TRANSFER_OUT ledger
// entries against the source warehouse in the same transaction.
func (t *Transfer) Ship(lines []TransferLine) ([]MovedLine, error) {
	if t.Status != TransferStatusPending && t.Status != TransferStatusInTransit {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot ship transfer %s in %s status", t.Number, t.Status))
	}
	if t.Status == TransferStatusPending && len(t.Items) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Cannot ship transfer without items")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Ship lines cannot be empty")
	}

	moved := make([]MovedLine, 0, len(lines))
	for _, line := range lines {
		item := t.item(line.ItemID)
		if item == nil {
			return nil, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Transfer item %s not found in transfer %s", line.ItemID, t.Number))
		}
		if err := item.ship(line.Quantity); err != nil {
			return nil, err
		}
		moved = append(moved, MovedLine{ItemID: item.ID, ProductID: item.ProductID, Quantity: line.Quantity})
	}

	now := time.Now()
	if t.Status == TransferStatusPending {
		t.Status = TransferStatusInTransit
		t.ShippedAt = &now
	}
	t.UpdatedAt = now
	t.IncrementVersion()
	return moved, nil
}

// Receive records arrived quantities, bounded per line by what was shipped.
// The transfer completes once every shipped quantity has been received and no
// line still has a requested remainder to ship. The caller must write the
// matching TRANSFER_IN ledger entries against the destination warehouse in
// the same transaction.
func (t *Transfer) Receive(lines []TransferLine) ([]MovedLine, error) {
	if t.Status != TransferStatusInTransit {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot receive transfer %s in %s status", t.Number, t.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Receive lines cannot be empty")
	}

	moved := make([]MovedLine, 0, len(lines))
	for _, line := range lines {
		item := t.item(line.ItemID)
		if item == nil {
			return nil, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Transfer item %s not found in transfer %s", line.ItemID, t.Number))
		}
		if err := item.receive(line.Quantity); err != nil {
			return nil, err
		}
		moved = append(moved, MovedLine{ItemID: item.ID, ProductID: item.ProductID, Quantity: line.Quantity})
	}

	now := time.Now()
	if t.isSettled() {
		t.Status = TransferStatusCompleted
		t.CompletedAt = &now
	}
	t.UpdatedAt = now
	t.IncrementVersion()
	return moved, nil
}

// ResolveDiscrepancy closes out an in-transit transfer short: lines that were
// shipped but never arrived are returned as shortfalls for the caller to
// write off in the ledger, and lines never fully shipped are simply left
// unfulfilled. Completion is explicit, never silent.
func (t *Transfer) ResolveDiscrepancy(reason string) ([]DiscrepancyLine, error) {
	if t.Status != TransferStatusInTransit {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot resolve discrepancy for transfer %s in %s status", t.Number, t.Status))
	}
	if reason == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Resolution reason is required")
	}

	discrepancies := make([]DiscrepancyLine, 0)
	for idx := range t.Items {
		item := &t.Items[idx]
		if short := item.Outstanding(); short.IsPositive() {
			discrepancies = append(discrepancies, DiscrepancyLine{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Shortfall: short,
			})
		}
	}
	now := time.Now()
	t.Status = TransferStatusCompleted
	t.CompletedAt = &now
	t.CancelReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()
	return discrepancies, nil
}

// Cancel terminates a transfer before anything has shipped
func (t *Transfer) Cancel(reason string) error {
	if t.Status != TransferStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot cancel transfer %s in %s status", t.Number, t.Status))
	}
	if reason == "" {
		return shared.NewDomainError(shared.CodeValidation, "Cancel reason is required")
	}
	now := time.Now()
	t.Status = TransferStatusCancelled
	t.CancelledAt = &now
	t.CancelReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

func (t *Transfer) item(itemID uuid.UUID) *TransferItem {
	for idx := range t.Items {
		if t.Items[idx].ID == itemID {
			return &t.Items[idx]
		}
	}
	return nil
}

// isSettled reports whether every shipped quantity has been received and
// every line is fully shipped
func (t *Transfer) isSettled() bool {
	for _, item := range t.Items {
		if item.Outstanding().IsPositive() {
			return false
		}
		if item.QuantityShipped.LessThan(item.QuantityRequested) {
			return false
		}
	}
	return len(t.Items) > 0
}
