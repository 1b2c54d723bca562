package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wareline/backend/internal/domain/catalog"
	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
)

// memStockRecords is an in-memory StockRecordRepository with real
// optimistic-lock semantics, so conflict handling can be exercised without a
// database.
type memStockRecords struct {
	mu      sync.Mutex
	records map[string]*inventory.StockRecord
}

func newMemStockRecords() *memStockRecords {
	return &memStockRecords{records: make(map[string]*inventory.StockRecord)}
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
	if !ok {
		clone := *record
		r.records[key] = &clone
		return nil
	}
	// The in-flight record was mutated in memory, so its version is already
	// one ahead of the row it was read from.
	if stored.Version != record.Version-1 {
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

// memMovements is an in-memory append-only StockMovementRepository
type memMovements struct {
	mu        sync.Mutex
	nextID    int64
	movements []inventory.StockMovement
}

func newMemMovements() *memMovements {
	return &memMovements{nextID: 1}
}

func (r *memMovements) Create(_ context.Context, movement *inventory.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	movement.ID = r.nextID
	r.nextID++
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
		if filter.WarehouseID != nil && m.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.AfterID > 0 && m.ID <= filter.AfterID {
			continue
		}
		result = append(result, m)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
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

func (r *memMovements) ConsumptionSince(_ context.Context, orgID, warehouseID, productID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, m := range r.movements {
		if m.OrgID != orgID || m.WarehouseID != warehouseID || m.ProductID != productID {
			continue
		}
		if m.OccurredAt.Before(since) || m.Type.IsReservation() {
			continue
		}
		if m.Type.TrackedBucket() == inventory.BucketAvailable && m.QuantityChange.IsNegative() {
			total = total.Add(m.QuantityChange.Neg())
		}
	}
	return total, nil
}

// memProducts is a map-backed catalog.ProductRepository covering what the
// ledger service touches
type memProducts struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProducts() *memProducts {
	return &memProducts{products: make(map[uuid.UUID]*catalog.Product)}
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
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.OrgID == orgID && product.SKU == sku {
			return product, nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeNotFound, "product not found")
}

func (r *memProducts) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]catalog.Product, 0)
	for _, product := range r.products {
		if product.OrgID == orgID {
			items = append(items, *product)
		}
	}
	return items, nil
}

func (r *memProducts) FindWithThresholds(_ context.Context, orgID uuid.UUID) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]catalog.Product, 0)
	for _, product := range r.products {
		if product.OrgID == orgID && (product.LowStockThreshold.IsPositive() || product.ReorderPoint.IsPositive()) {
			items = append(items, *product)
		}
	}
	return items, nil
}

func (r *memProducts) FindComponents(_ context.Context, _, _ uuid.UUID) ([]catalog.BundleComponent, error) {
	return nil, nil
}

func (r *memProducts) AddComponent(_ context.Context, component *catalog.BundleComponent) error {
	return nil
}

func (r *memProducts) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *memProducts) CountForOrg(_ context.Context, orgID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, product := range r.products {
		if product.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

// memWarehouses is a map-backed partner.WarehouseRepository
type memWarehouses struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]*partner.Warehouse
}

func newMemWarehouses() *memWarehouses {
	return &memWarehouses{warehouses: make(map[uuid.UUID]*partner.Warehouse)}
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

func (r *memWarehouses) FindByCode(_ context.Context, orgID uuid.UUID, code string) (*partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, warehouse := range r.warehouses {
		if warehouse.OrgID == orgID && warehouse.Code == code {
			return warehouse, nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeNotFound, "warehouse not found")
}

func (r *memWarehouses) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ shared.Filter) ([]partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]partner.Warehouse, 0)
	for _, warehouse := range r.warehouses {
		if warehouse.OrgID == orgID {
			items = append(items, *warehouse)
		}
	}
	return items, nil
}

func (r *memWarehouses) Save(_ context.Context, warehouse *partner.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses[warehouse.ID] = warehouse
	return nil
}

type ledgerFixture struct {
	service     *LedgerService
	records     *memStockRecords
	movements   *memMovements
	products    *memProducts
	orgID       uuid.UUID
	actorID     uuid.UUID
	warehouseID uuid.UUID
	productID   uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	orgID := uuid.New()

	products := newMemProducts()
	product, err := catalog.NewProduct(orgID, "WGT-001", "Widget", "piece", catalog.ProductTypeStandard)
	require.NoError(t, err)
	require.NoError(t, products.Save(context.Background(), product))

	warehouses := newMemWarehouses()
	warehouse, err := partner.NewWarehouse(orgID, "MAIN", "Main Warehouse")
	require.NoError(t, err)
	require.NoError(t, warehouses.Save(context.Background(), warehouse))

	records := newMemStockRecords()
	movements := newMemMovements()
	scope := NewNoOpTransactionScope(records, movements, nil, nil, nil)

	service := NewLedgerService(scope, products, warehouses, zap.NewNop())
	return &ledgerFixture{
		service:     service,
		records:     records,
		movements:   movements,
		products:    products,
		orgID:       orgID,
		actorID:     uuid.New(),
		warehouseID: warehouse.ID,
		productID:   product.ID,
	}
}

func (f *ledgerFixture) purchase(t *testing.T, qty int64) {
	t.Helper()
	_, err := f.service.RecordMovement(context.Background(), f.orgID, f.actorID, RecordMovementRequest{
		WarehouseID:    f.warehouseID,
		ProductID:      f.productID,
		Type:           string(inventory.MovementTypePurchase),
		QuantityChange: decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
}

func TestLedgerService_RecordMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("purchase creates record and ledger row", func(t *testing.T) {
		f := newLedgerFixture(t)

		resp, err := f.service.RecordMovement(ctx, f.orgID, f.actorID, RecordMovementRequest{
			WarehouseID:    f.warehouseID,
			ProductID:      f.productID,
			Type:           string(inventory.MovementTypePurchase),
			QuantityChange: decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.True(t, resp.QuantityBefore.IsZero())
		assert.Equal(t, decimal.NewFromInt(100), resp.QuantityAfter)

		stock, err := f.service.GetStock(ctx, f.orgID, f.warehouseID, f.productID)
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(100), stock.Available)
	})

	t.Run("sale beyond available is rejected and nothing is written", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.purchase(t, 10)

		_, err := f.service.RecordMovement(ctx, f.orgID, f.actorID, RecordMovementRequest{
			WarehouseID:    f.warehouseID,
			ProductID:      f.productID,
			Type:           string(inventory.MovementTypeSale),
			QuantityChange: decimal.NewFromInt(-11),
		})

		require.Error(t, err)
		assert.Equal(t, shared.CodeInsufficientStock, shared.CodeOf(err))

		history, err := f.service.ListMovements(ctx, f.orgID, MovementListFilter{})
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("unknown warehouse reads as not found", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.service.RecordMovement(ctx, f.orgID, f.actorID, RecordMovementRequest{
			WarehouseID:    uuid.New(),
			ProductID:      f.productID,
			Type:           string(inventory.MovementTypePurchase),
			QuantityChange: decimal.NewFromInt(1),
		})

		require.Error(t, err)
		assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))
	})

	t.Run("product from another org reads as not found", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.service.RecordMovement(ctx, uuid.New(), f.actorID, RecordMovementRequest{
			WarehouseID:    f.warehouseID,
			ProductID:      f.productID,
			Type:           string(inventory.MovementTypePurchase),
			QuantityChange: decimal.NewFromInt(1),
		})

		require.Error(t, err)
		assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))
	})

	t.Run("reservation types cannot be recorded directly", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.service.RecordMovement(ctx, f.orgID, f.actorID, RecordMovementRequest{
			WarehouseID:    f.warehouseID,
			ProductID:      f.productID,
			Type:           string(inventory.MovementTypeReserve),
			QuantityChange: decimal.NewFromInt(-1),
		})

		require.Error(t, err)
		assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	})

	t.Run("idempotency key rejects the second attempt", func(t *testing.T) {
		f := newLedgerFixture(t)
		req := RecordMovementRequest{
			WarehouseID:    f.warehouseID,
			ProductID:      f.productID,
			Type:           string(inventory.MovementTypePurchase),
			QuantityChange: decimal.NewFromInt(50),
			IdempotencyKey: "import-batch-7",
		}

		_, err := f.service.RecordMovement(ctx, f.orgID, f.actorID, req)
		require.NoError(t, err)

		_, err = f.service.RecordMovement(ctx, f.orgID, f.actorID, req)
		require.Error(t, err)
		assert.Equal(t, shared.CodeDuplicateReference, shared.CodeOf(err))

		stock, err := f.service.GetStock(ctx, f.orgID, f.warehouseID, f.productID)
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(50), stock.Available)
	})
}

func TestLedgerService_Recount(t *testing.T) {
	ctx := context.Background()

	t.Run("records the delta to the counted value", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.purchase(t, 100)

		resp, err := f.service.Recount(ctx, f.orgID, f.actorID, RecountRequest{
			WarehouseID: f.warehouseID,
			ProductID:   f.productID,
			CountedQty:  decimal.NewFromInt(93),
		})

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.True(t, resp.Changed)
		require.NotNil(t, resp.Movement)
		assert.Equal(t, string(inventory.MovementTypeRecount), resp.Movement.Type)
		assert.Equal(t, decimal.NewFromInt(-7), resp.Movement.QuantityChange)
		assert.Equal(t, decimal.NewFromInt(93), resp.Record.Available)

		stock, err := f.service.GetStock(ctx, f.orgID, f.warehouseID, f.productID)
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(93), stock.Available)
	})

	t.Run("counting the current value writes no movement", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.purchase(t, 100)

		resp, err := f.service.Recount(ctx, f.orgID, f.actorID, RecountRequest{
			WarehouseID: f.warehouseID,
			ProductID:   f.productID,
			CountedQty:  decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.False(t, resp.Changed)
		assert.Nil(t, resp.Movement)
		assert.Equal(t, decimal.NewFromInt(100), resp.Record.Available)

		history, err := f.service.ListMovements(ctx, f.orgID, MovementListFilter{})
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("negative counted value is rejected", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.service.Recount(ctx, f.orgID, f.actorID, RecountRequest{
			WarehouseID: f.warehouseID,
			ProductID:   f.productID,
			CountedQty:  decimal.NewFromInt(-1),
		})

		require.Error(t, err)
		assert.Equal(t, shared.CodeNegativeQuantity, shared.CodeOf(err))
	})
}

func TestLedgerService_ReserveRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("reserve then release round trips", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.purchase(t, 10)

		stock, err := f.service.Reserve(ctx, f.orgID, f.actorID, ReservationRequest{
			WarehouseID: f.warehouseID,
			ProductID:   f.productID,
			Quantity:    decimal.NewFromInt(4),
		})
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(6), stock.Available)
		assert.Equal(t, decimal.NewFromInt(4), stock.Reserved)
		assert.Equal(t, decimal.NewFromInt(10), stock.OnHand)

		stock, err = f.service.Release(ctx, f.orgID, f.actorID, ReservationRequest{
			WarehouseID: f.warehouseID,
			ProductID:   f.productID,
			Quantity:    decimal.NewFromInt(4),
		})
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(10), stock.Available)
		assert.True(t, stock.Reserved.IsZero())
	})

	t.Run("competing reservations never oversell", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.purchase(t, 10)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		quantities := []int64{6, 7}
		for i := range quantities {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.service.Reserve(ctx, f.orgID, f.actorID, ReservationRequest{
					WarehouseID: f.warehouseID,
					ProductID:   f.productID,
					Quantity:    decimal.NewFromInt(quantities[i]),
				})
			}(i)
		}
		wg.Wait()

		failures := 0
		for _, err := range errs {
			if err != nil {
				failures++
				code := shared.CodeOf(err)
				assert.Contains(t, []string{shared.CodeInsufficientStock, shared.CodeConflict}, code)
			}
		}
		require.Equal(t, 1, failures, "exactly one reservation must lose")

		stock, err := f.service.GetStock(ctx, f.orgID, f.warehouseID, f.productID)
		require.NoError(t, err)
		assert.True(t, stock.Reserved.LessThanOrEqual(decimal.NewFromInt(10)))
		assert.Equal(t, decimal.NewFromInt(10), stock.OnHand)
		assert.False(t, stock.Available.IsNegative())
	})
}

func TestLedgerService_Reconcile(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	f.purchase(t, 100)

	_, err := f.service.RecordMovement(ctx, f.orgID, f.actorID, RecordMovementRequest{
		WarehouseID:    f.warehouseID,
		ProductID:      f.productID,
		Type:           string(inventory.MovementTypeSale),
		QuantityChange: decimal.NewFromInt(-30),
	})
	require.NoError(t, err)

	_, err = f.service.Reserve(ctx, f.orgID, f.actorID, ReservationRequest{
		WarehouseID: f.warehouseID,
		ProductID:   f.productID,
		Quantity:    decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	_, err = f.service.RecordMovement(ctx, f.orgID, f.actorID, RecordMovementRequest{
		WarehouseID:    f.warehouseID,
		ProductID:      f.productID,
		Type:           string(inventory.MovementTypeDamage),
		QuantityChange: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	report, err := f.service.Reconcile(ctx, f.orgID, f.warehouseID, f.productID)

	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, decimal.NewFromInt(45), report.StoredAvailable)
	assert.Equal(t, decimal.NewFromInt(20), report.StoredReserved)
	assert.Equal(t, decimal.NewFromInt(5), report.StoredDamaged)
}

// capturedEvents subscribes to one event type and records what it receives
type capturedEvents struct {
	eventType string
	events    []shared.DomainEvent
}

func (h *capturedEvents) EventTypes() []string { return []string{h.eventType} }

func (h *capturedEvents) Handle(_ context.Context, event shared.DomainEvent) error {
	h.events = append(h.events, event)
	return nil
}

func TestLedgerService_PublishesLowStockEvent(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)

	product, err := f.products.FindByIDForOrg(ctx, f.orgID, f.productID)
	require.NoError(t, err)
	require.NoError(t, product.SetThresholds(
		decimal.NewFromInt(10), decimal.Zero, decimal.Zero,
	))

	captured := &capturedEvents{eventType: inventory.EventTypeStockBelowThreshold}
	bus := shared.NewInMemoryEventBus()
	bus.Subscribe(captured)
	f.service.SetEventPublisher(bus)

	// stock above threshold: no alert
	f.purchase(t, 12)
	assert.Empty(t, captured.events)

	// sale drops available to 7, at or below the threshold of 10
	_, err = f.service.RecordMovement(ctx, f.orgID, f.actorID, RecordMovementRequest{
		WarehouseID:    f.warehouseID,
		ProductID:      f.productID,
		Type:           string(inventory.MovementTypeSale),
		QuantityChange: decimal.NewFromInt(-5),
	})
	require.NoError(t, err)

	require.Len(t, captured.events, 1)
	event, ok := captured.events[0].(*inventory.StockBelowThresholdEvent)
	require.True(t, ok)
	assert.Equal(t, f.orgID, event.OrgID())
	assert.Equal(t, f.productID, event.ProductID)
	assert.True(t, event.Available.Equal(decimal.NewFromInt(7)))
	assert.True(t, event.Threshold.Equal(decimal.NewFromInt(10)))
}
