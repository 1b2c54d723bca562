package trade

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appinventory "github.com/wareline/backend/internal/application/inventory"
	"github.com/wareline/backend/internal/domain/catalog"
	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
	"github.com/wareline/backend/internal/domain/trade"
)

// In-memory repositories backing the workflow tests. FindByIDForOrg returns
// clones so a failed mutation never leaks into the stored state.

type memStockRecords struct {
	mu      sync.Mutex
	records map[string]*inventory.StockRecord
}

func pairKey(orgID, warehouseID, productID uuid.UUID) string {
	return orgID.String() + "/" + warehouseID.String() + "/" + productID.String()
}

func (r *memStockRecords) FindByPair(_ context.Context, orgID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[pairKey(orgID, warehouseID, productID)]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeNotFound, "stock record not found")
	}
	clone := *record
	return &clone, nil
}

func (r *memStockRecords) FindByProduct(_ context.Context, orgID, productID uuid.UUID) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0)
	for _, record := range r.records {
		if record.OrgID == orgID && record.ProductID == productID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (r *memStockRecords) FindByWarehouse(_ context.Context, orgID, warehouseID uuid.UUID, _ shared.Filter) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0)
	for _, record := range r.records {
		if record.OrgID == orgID && record.WarehouseID == warehouseID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (r *memStockRecords) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ shared.Filter) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0)
	for _, record := range r.records {
		if record.OrgID == orgID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (r *memStockRecords) GetOrCreate(_ context.Context, orgID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(orgID, warehouseID, productID)
	if record, ok := r.records[key]; ok {
		clone := *record
		return &clone, nil
	}
	record, err := inventory.NewStockRecord(orgID, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	stored := *record
	r.records[key] = &stored
	clone := stored
	return &clone, nil
}

func (r *memStockRecords) SaveWithLock(_ context.Context, record *inventory.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(record.OrgID, record.WarehouseID, record.ProductID)
	stored, ok := r.records[key]
	if ok && stored.Version != record.Version-1 {
		return shared.NewDomainError(shared.CodeConflict, "stock record version conflict")
	}
	clone := *record
	r.records[key] = &clone
	return nil
}

func (r *memStockRecords) SumBucketsByProduct(_ context.Context, orgID, productID uuid.UUID) (available, reserved, damaged, inTransit decimal.Decimal, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	available, reserved, damaged, inTransit = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, record := range r.records {
		if record.OrgID == orgID && record.ProductID == productID {
			available = available.Add(record.Available)
			reserved = reserved.Add(record.Reserved)
			damaged = damaged.Add(record.Damaged)
			inTransit = inTransit.Add(record.InTransit)
		}
	}
	return available, reserved, damaged, inTransit, nil
}

type memMovements struct {
	mu        sync.Mutex
	nextID    int64
	movements []inventory.StockMovement
}

func (r *memMovements) Create(_ context.Context, movement *inventory.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	movement.ID = r.nextID
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovements) ExistsByReference(_ context.Context, orgID uuid.UUID, ref inventory.MovementRef, warehouseID, productID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.OrgID != orgID || m.WarehouseID != warehouseID || m.ProductID != productID {
			continue
		}
		if m.RefType == nil || m.RefID == nil || m.RefKey == nil {
			continue
		}
		if *m.RefType == ref.Type && *m.RefID == ref.ID && *m.RefKey == ref.Key {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMovements) FindByFilter(_ context.Context, orgID uuid.UUID, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockMovement, 0)
	for _, m := range r.movements {
		if m.OrgID != orgID {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.WarehouseID != nil && m.WarehouseID != *filter.WarehouseID {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

func (r *memMovements) FindByPair(_ context.Context, orgID, warehouseID, productID uuid.UUID) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockMovement, 0)
	for _, m := range r.movements {
		if m.OrgID == orgID && m.WarehouseID == warehouseID && m.ProductID == productID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *memMovements) ConsumptionSince(_ context.Context, _, _, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type memPurchaseOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*trade.PurchaseOrder
}

func (r *memPurchaseOrders) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.OrgID != orgID {
		return nil, shared.NewDomainError(shared.CodeNotFound, "purchase order not found")
	}
	clone := *order
	clone.Items = append([]trade.PurchaseOrderItem(nil), order.Items...)
	return &clone, nil
}

func (r *memPurchaseOrders) FindByNumber(_ context.Context, orgID uuid.UUID, number string) (*trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrgID == orgID && order.Number == number {
			clone := *order
			return &clone, nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeNotFound, "purchase order not found")
}

func (r *memPurchaseOrders) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ shared.Filter) ([]trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]trade.PurchaseOrder, 0)
	for _, order := range r.orders {
		if order.OrgID == orgID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (r *memPurchaseOrders) FindByStatus(_ context.Context, orgID uuid.UUID, status trade.PurchaseOrderStatus) ([]trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]trade.PurchaseOrder, 0)
	for _, order := range r.orders {
		if order.OrgID == orgID && order.Status == status {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (r *memPurchaseOrders) Save(_ context.Context, order *trade.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *order
	clone.Items = append([]trade.PurchaseOrderItem(nil), order.Items...)
	r.orders[order.ID] = &clone
	return nil
}

type memTransfers struct {
	mu        sync.Mutex
	transfers map[uuid.UUID]*trade.Transfer
}

func (r *memTransfers) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*trade.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	transfer, ok := r.transfers[id]
	if !ok || transfer.OrgID != orgID {
		return nil, shared.NewDomainError(shared.CodeNotFound, "transfer not found")
	}
	clone := *transfer
	clone.Items = append([]trade.TransferItem(nil), transfer.Items...)
	return &clone, nil
}

func (r *memTransfers) FindByNumber(_ context.Context, orgID uuid.UUID, number string) (*trade.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, transfer := range r.transfers {
		if transfer.OrgID == orgID && transfer.Number == number {
			clone := *transfer
			return &clone, nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeNotFound, "transfer not found")
}

func (r *memTransfers) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ shared.Filter) ([]trade.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]trade.Transfer, 0)
	for _, transfer := range r.transfers {
		if transfer.OrgID == orgID {
			result = append(result, *transfer)
		}
	}
	return result, nil
}

func (r *memTransfers) FindByStatus(_ context.Context, orgID uuid.UUID, status trade.TransferStatus) ([]trade.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]trade.Transfer, 0)
	for _, transfer := range r.transfers {
		if transfer.OrgID == orgID && transfer.Status == status {
			result = append(result, *transfer)
		}
	}
	return result, nil
}

func (r *memTransfers) Save(_ context.Context, transfer *trade.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *transfer
	clone.Items = append([]trade.TransferItem(nil), transfer.Items...)
	r.transfers[transfer.ID] = &clone
	return nil
}

type memSequences struct {
	mu     sync.Mutex
	values map[string]int64
}

func (r *memSequences) Next(_ context.Context, orgID uuid.UUID, kind string, year int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := orgID.String() + "/" + kind + "/" + strconv.Itoa(year)
	r.values[key]++
	return r.values[key], nil
}

type memProducts struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func (r *memProducts) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok || product.OrgID != orgID {
		return nil, shared.NewDomainError(shared.CodeNotFound, "product not found")
	}
	return product, nil
}

func (r *memProducts) FindBySKU(_ context.Context, orgID uuid.UUID, sku string) (*catalog.Product, error) {
	return nil, shared.NewDomainError(shared.CodeNotFound, "product not found")
}

func (r *memProducts) FindAllForOrg(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *memProducts) FindWithThresholds(_ context.Context, _ uuid.UUID) ([]catalog.Product, error) {
	return nil, nil
}

func (r *memProducts) FindComponents(_ context.Context, _, _ uuid.UUID) ([]catalog.BundleComponent, error) {
	return nil, nil
}

func (r *memProducts) AddComponent(_ context.Context, _ *catalog.BundleComponent) error {
	return nil
}

func (r *memProducts) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *memProducts) CountForOrg(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return 0, nil
}

type memWarehouses struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]*partner.Warehouse
}

func (r *memWarehouses) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	warehouse, ok := r.warehouses[id]
	if !ok || warehouse.OrgID != orgID {
		return nil, shared.NewDomainError(shared.CodeNotFound, "warehouse not found")
	}
	return warehouse, nil
}

func (r *memWarehouses) FindByCode(_ context.Context, _ uuid.UUID, _ string) (*partner.Warehouse, error) {
	return nil, shared.NewDomainError(shared.CodeNotFound, "warehouse not found")
}

func (r *memWarehouses) FindAllForOrg(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]partner.Warehouse, error) {
	return nil, nil
}

func (r *memWarehouses) Save(_ context.Context, warehouse *partner.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses[warehouse.ID] = warehouse
	return nil
}

type memSuppliers struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*partner.Supplier
}

func (r *memSuppliers) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	supplier, ok := r.suppliers[id]
	if !ok || supplier.OrgID != orgID {
		return nil, shared.NewDomainError(shared.CodeNotFound, "supplier not found")
	}
	return supplier, nil
}

func (r *memSuppliers) FindByIDs(_ context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]partner.Supplier, 0)
	for _, id := range ids {
		if supplier, ok := r.suppliers[id]; ok && supplier.OrgID == orgID {
			result = append(result, *supplier)
		}
	}
	return result, nil
}

func (r *memSuppliers) FindAllForOrg(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]partner.Supplier, error) {
	return nil, nil
}

func (r *memSuppliers) Save(_ context.Context, supplier *partner.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[supplier.ID] = supplier
	return nil
}

// tradeFixture wires the purchase order and transfer services over in-memory
// repositories, with the real ledger service underneath.
type tradeFixture struct {
	poService       *PurchaseOrderService
	transferService *TransferService
	ledger          *appinventory.LedgerService
	records         *memStockRecords
	movements       *memMovements
	orgID           uuid.UUID
	actorID         uuid.UUID
	supplierID      uuid.UUID
	warehouseID     uuid.UUID
	warehouse2ID    uuid.UUID
	productID       uuid.UUID
}

func newTradeFixture(t *testing.T) *tradeFixture {
	t.Helper()
	ctx := context.Background()
	orgID := uuid.New()

	products := &memProducts{products: make(map[uuid.UUID]*catalog.Product)}
	product, err := catalog.NewProduct(orgID, "WGT-001", "Widget", "piece", catalog.ProductTypeStandard)
	require.NoError(t, err)
	require.NoError(t, products.Save(ctx, product))

	warehouses := &memWarehouses{warehouses: make(map[uuid.UUID]*partner.Warehouse)}
	main, err := partner.NewWarehouse(orgID, "MAIN", "Main Warehouse")
	require.NoError(t, err)
	require.NoError(t, warehouses.Save(ctx, main))
	east, err := partner.NewWarehouse(orgID, "EAST", "East Warehouse")
	require.NoError(t, err)
	require.NoError(t, warehouses.Save(ctx, east))

	suppliers := &memSuppliers{suppliers: make(map[uuid.UUID]*partner.Supplier)}
	supplier, err := partner.NewSupplier(orgID, "Acme Components", 7)
	require.NoError(t, err)
	require.NoError(t, suppliers.Save(ctx, supplier))

	records := &memStockRecords{records: make(map[string]*inventory.StockRecord)}
	movements := &memMovements{}
	orders := &memPurchaseOrders{orders: make(map[uuid.UUID]*trade.PurchaseOrder)}
	transfers := &memTransfers{transfers: make(map[uuid.UUID]*trade.Transfer)}
	sequences := &memSequences{values: make(map[string]int64)}

	scope := appinventory.NewNoOpTransactionScope(records, movements, orders, transfers, sequences)
	ledger := appinventory.NewLedgerService(scope, products, warehouses, zap.NewNop())

	return &tradeFixture{
		poService:       NewPurchaseOrderService(scope, ledger, suppliers, warehouses, products, zap.NewNop()),
		transferService: NewTransferService(scope, ledger, warehouses, products, zap.NewNop()),
		ledger:          ledger,
		records:         records,
		movements:       movements,
		orgID:           orgID,
		actorID:         uuid.New(),
		supplierID:      supplier.ID,
		warehouseID:     main.ID,
		warehouse2ID:    east.ID,
		productID:       product.ID,
	}
}

// seedStock puts quantity into a warehouse's available bucket through the ledger
func (f *tradeFixture) seedStock(t *testing.T, warehouseID uuid.UUID, qty int64) {
	t.Helper()
	_, err := f.ledger.RecordMovement(context.Background(), f.orgID, f.actorID, appinventory.RecordMovementRequest{
		WarehouseID:    warehouseID,
		ProductID:      f.productID,
		Type:           string(inventory.MovementTypePurchase),
		QuantityChange: decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
}

func (f *tradeFixture) stock(t *testing.T, warehouseID uuid.UUID) *appinventory.StockRecordResponse {
	t.Helper()
	stock, err := f.ledger.GetStock(context.Background(), f.orgID, warehouseID, f.productID)
	require.NoError(t, err)
	return stock
}

func requireNumberFormat(t *testing.T, number, kind string) {
	t.Helper()
	require.True(t, strings.HasPrefix(number, kind+"-"), "number %s should start with %s-", number, kind)
	require.Len(t, number, len(kind)+1+4+1+5, "number %s should be %s-YYYY-NNNNN", number, kind)
}
