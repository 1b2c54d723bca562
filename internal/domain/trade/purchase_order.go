package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wareline/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusSubmitted         PurchaseOrderStatus = "SUBMITTED"
	PurchaseOrderStatusApproved          PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSubmitted, PurchaseOrderStatusApproved,
		PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved || s == PurchaseOrderStatusPartiallyReceived
}

// CanCancel returns true if the order may still be cancelled. Once goods have
// moved, reversal requires an explicit adjustment, not a status rollback.
func (s PurchaseOrderStatus) CanCancel() bool {
	return s == PurchaseOrderStatusDraft || s == PurchaseOrderStatusSubmitted || s == PurchaseOrderStatusApproved
}

// IsTerminal returns true for terminal states
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityOrdered  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityReceived decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order line
func NewPurchaseOrderItem(orderID, productID uuid.UUID, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Ordered quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unit cost cannot be negative")
	}
	now := time.Now()
	return &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		QuantityOrdered:  quantity,
		QuantityReceived: decimal.Zero,
		UnitCost:         unitCost,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Remaining returns the quantity still to be received
func (i *PurchaseOrderItem) Remaining() decimal.Decimal {
	return i.QuantityOrdered.Sub(i.QuantityReceived)
}

// IsFullyReceived returns true once the whole ordered quantity has arrived
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.QuantityReceived.GreaterThanOrEqual(i.QuantityOrdered)
}

// addReceived adds to the received quantity, bounded by the ordered quantity
func (i *PurchaseOrderItem) addReceived(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Receive quantity must be positive")
	}
	newReceived := i.QuantityReceived.Add(quantity)
	if newReceived.GreaterThan(i.QuantityOrdered) {
		return shared.NewDomainError(shared.CodeOverReceipt,
			fmt.Sprintf("Cannot receive %s for item %s, only %s remaining", quantity, i.ID, i.Remaining()))
	}
	i.QuantityReceived = newReceived
	i.UpdatedAt = time.Now()
	return nil
}

// ReceiveLine names one line of a receive operation
type ReceiveLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// ReceivedLine reports one applied receive line, ready for the ledger
type ReceivedLine struct {
	ItemID    uuid.UUID
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// PurchaseOrder is the aggregate root for a supplier order. It owns its own
// status and item rows; all stock mutation is delegated to the ledger.
type PurchaseOrder struct {
	shared.OrgAggregateRoot
	Number       string              `gorm:"type:varchar(32);not null;uniqueIndex:idx_purchase_order_org_number,priority:2"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	WarehouseID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	SubmittedAt  *time.Time
	ApprovedAt   *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(orgID uuid.UUID, number string, supplierID, warehouseID uuid.UUID) (*PurchaseOrder, error) {
	if number == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Supplier ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Destination warehouse ID cannot be empty")
	}
	return &PurchaseOrder{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           number,
		SupplierID:       supplierID,
		WarehouseID:      warehouseID,
		Status:           PurchaseOrderStatusDraft,
		Items:            make([]PurchaseOrderItem, 0),
	}, nil
}

// AddItem adds a line to the order; only allowed in draft
func (o *PurchaseOrder) AddItem(productID uuid.UUID, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot add items to order %s in %s status", o.Number, o.Status))
	}
	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError(shared.CodeValidation, "Product already present in order")
		}
	}
	item, err := NewPurchaseOrderItem(o.ID, productID, quantity, unitCost)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return item, nil
}

// Submit moves a draft order to submitted. Requires at least one line with a
// positive ordered quantity.
func (o *PurchaseOrder) Submit() error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot submit order %s in %s status", o.Number, o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Cannot submit order without items")
	}
	now := time.Now()
	o.Status = PurchaseOrderStatusSubmitted
	o.SubmittedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Approve moves a submitted order to approved, recording the approver
func (o *PurchaseOrder) Approve(approverID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusSubmitted {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot approve order %s in %s status", o.Number, o.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "Approver ID cannot be empty")
	}
	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedAt = &now
	o.ApprovedBy = &approverID
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Receive records arrived quantities per line. Partial and repeated calls are
// legal; the status becomes RECEIVED only when every line is fully received.
// The caller must write the matching ledger entries in the same transaction.
func (o *PurchaseOrder) Receive(lines []ReceiveLine) ([]ReceivedLine, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot receive goods for order %s in %s status", o.Number, o.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Receive lines cannot be empty")
	}

	received := make([]ReceivedLine, 0, len(lines))
	for _, line := range lines {
		item := o.item(line.ItemID)
		if item == nil {
			return nil, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Order item %s not found in order %s", line.ItemID, o.Number))
		}
		if err := item.addReceived(line.Quantity); err != nil {
			return nil, err
		}
		received = append(received, ReceivedLine{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Quantity:  line.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	now := time.Now()
	if o.isFullyReceived() {
		o.Status = PurchaseOrderStatusReceived
		o.CompletedAt = &now
	} else {
		o.Status = PurchaseOrderStatusPartiallyReceived
	}
	o.UpdatedAt = now
	o.IncrementVersion()
	return received, nil
}

// Cancel terminates the order before any goods have moved. Cancellation is a
// terminal status, never a row removal.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanCancel() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot cancel order %s in %s status", o.Number, o.Status))
	}
	if reason == "" {
		return shared.NewDomainError(shared.CodeValidation, "Cancel reason is required")
	}
	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

func (o *PurchaseOrder) item(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

func (o *PurchaseOrder) isFullyReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

// TotalOrdered returns the total ordered quantity across lines
func (o *PurchaseOrder) TotalOrdered() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.QuantityOrdered)
	}
	return total
}

// TotalReceived returns the total received quantity across lines
func (o *PurchaseOrder) TotalReceived() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.QuantityReceived)
	}
	return total
}
