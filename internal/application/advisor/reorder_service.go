package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wareline/backend/internal/domain/catalog"
	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/partner"
)

const (
	// consumptionWindowDays is the trailing window used to estimate velocity
	consumptionWindowDays = 30

	// safetyStockDays pads the lead-time demand when no explicit reorder
	// quantity is configured on the product
	safetyStockDays = 7

	adviceCacheTTL = 5 * time.Minute
)

// ListingCache caches serialized advice listings. A miss is reported as
// (found=false, nil error); errors are reserved for transport failures.
type ListingCache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// ReorderService computes restocking advice from thresholds, current stock
// and recent consumption. It only reads; placing the order is up to the caller.
type ReorderService struct {
	productRepo         catalog.ProductRepository
	productSupplierRepo catalog.ProductSupplierRepository
	supplierRepo        partner.SupplierRepository
	stockRecordRepo     inventory.StockRecordRepository
	movementRepo        inventory.StockMovementRepository
	cache               ListingCache
	cacheTTL            time.Duration
	logger              *zap.Logger
}

// SetCacheTTL overrides the default advice cache lifetime
func (s *ReorderService) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// NewReorderService creates a reorder service
func NewReorderService(
	productRepo catalog.ProductRepository,
	productSupplierRepo catalog.ProductSupplierRepository,
	supplierRepo partner.SupplierRepository,
	stockRecordRepo inventory.StockRecordRepository,
	movementRepo inventory.StockMovementRepository,
	cache ListingCache,
	logger *zap.Logger,
) *ReorderService {
	return &ReorderService{
		productRepo:         productRepo,
		productSupplierRepo: productSupplierRepo,
		supplierRepo:        supplierRepo,
		stockRecordRepo:     stockRecordRepo,
		movementRepo:        movementRepo,
		cache:               cache,
		cacheTTL:            adviceCacheTTL,
		logger:              logger,
	}
}

// Advise lists every (product, warehouse) pair at or below the product's
// low-stock threshold or reorder point, with a suggested order quantity and
// supplier. The listing is cached for a few minutes; pass refresh=true to
// bypass the cache after bulk stock changes.
func (s *ReorderService) Advise(ctx context.Context, orgID uuid.UUID, refresh bool) ([]ReorderAdvice, error) {
	cacheKey := adviceCacheKey(orgID)
	if s.cache != nil && !refresh {
		if cached, found, err := s.cache.Get(ctx, cacheKey); err != nil {
			s.logger.Warn("Reorder advice cache read failed", zap.Error(err))
		} else if found {
			var advice []ReorderAdvice
			if err := json.Unmarshal([]byte(cached), &advice); err == nil {
				return advice, nil
			}
			s.logger.Warn("Discarding undecodable cached reorder advice", zap.String("key", cacheKey))
		}
	}

	products, err := s.productRepo.FindWithThresholds(ctx, orgID)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -consumptionWindowDays)
	advice := make([]ReorderAdvice, 0)
	for i := range products {
		entries, err := s.adviseProduct(ctx, orgID, &products[i], since)
		if err != nil {
			return nil, err
		}
		advice = append(advice, entries...)
	}

	sort.Slice(advice, func(i, j int) bool {
		if advice[i].SKU != advice[j].SKU {
			return advice[i].SKU < advice[j].SKU
		}
		return advice[i].WarehouseID.String() < advice[j].WarehouseID.String()
	})

	if s.cache != nil {
		if payload, err := json.Marshal(advice); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(payload), s.cacheTTL); err != nil {
				s.logger.Warn("Reorder advice cache write failed", zap.Error(err))
			}
		}
	}

	return advice, nil
}

// adviseProduct evaluates every warehouse holding the product. A pair is low
// when its available bucket is at or below the larger of the product's
// low-stock threshold and reorder point; either threshold may be unset.
func (s *ReorderService) adviseProduct(ctx context.Context, orgID uuid.UUID, product *catalog.Product, since time.Time) ([]ReorderAdvice, error) {
	threshold := product.LowStockThreshold
	if product.ReorderPoint.GreaterThan(threshold) {
		threshold = product.ReorderPoint
	}
	if threshold.IsZero() {
		return nil, nil
	}

	records, err := s.stockRecordRepo.FindByProduct(ctx, orgID, product.ID)
	if err != nil {
		return nil, err
	}

	var entries []ReorderAdvice
	var supplier *SupplierSuggestion
	supplierPicked := false
	for i := range records {
		record := &records[i]
		if record.Available.GreaterThan(threshold) {
			continue
		}

		if !supplierPicked {
			supplier, err = s.pickSupplier(ctx, orgID, product.ID)
			if err != nil {
				return nil, err
			}
			supplierPicked = true
		}

		velocity, err := s.dailyConsumption(ctx, orgID, record.WarehouseID, product.ID, since)
		if err != nil {
			return nil, err
		}

		entry := ReorderAdvice{
			ProductID:         product.ID,
			SKU:               product.SKU,
			Name:              product.Name,
			WarehouseID:       record.WarehouseID,
			Available:         record.Available,
			InTransit:         record.InTransit,
			LowStockThreshold: product.LowStockThreshold,
			ReorderPoint:      product.ReorderPoint,
			DailyConsumption:  velocity,
			SuggestedQuantity: suggestedQuantity(product, record.Available, velocity, supplier),
			Supplier:          supplier,
		}
		if velocity.IsPositive() {
			days := record.Available.Div(velocity).Round(1)
			entry.DaysUntilStockout = &days
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// dailyConsumption averages the outbound available-bucket volume for the
// pair over the trailing window.
func (s *ReorderService) dailyConsumption(ctx context.Context, orgID, warehouseID, productID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	consumed, err := s.movementRepo.ConsumptionSince(ctx, orgID, warehouseID, productID, since)
	if err != nil {
		return decimal.Zero, err
	}
	return consumed.Div(decimal.NewFromInt(consumptionWindowDays)), nil
}

// pickSupplier chooses the preferred supplier link, breaking ties (and the
// no-preferred case) by shortest lead time. Nil when the product has no
// active supplier link.
func (s *ReorderService) pickSupplier(ctx context.Context, orgID, productID uuid.UUID) (*SupplierSuggestion, error) {
	links, err := s.productSupplierRepo.FindByProduct(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(links))
	preferred := make(map[uuid.UUID]bool, len(links))
	for i := range links {
		ids = append(ids, links[i].SupplierID)
		if links[i].IsPreferred {
			preferred[links[i].SupplierID] = true
		}
	}

	suppliers, err := s.supplierRepo.FindByIDs(ctx, orgID, ids)
	if err != nil {
		return nil, err
	}

	var best *partner.Supplier
	for i := range suppliers {
		candidate := &suppliers[i]
		if !candidate.Active {
			continue
		}
		if best == nil || betterSupplier(candidate, best, preferred) {
			best = candidate
		}
	}
	if best == nil {
		return nil, nil
	}
	return &SupplierSuggestion{
		SupplierID:   best.ID,
		Name:         best.Name,
		LeadTimeDays: best.LeadTimeDays,
		IsPreferred:  preferred[best.ID],
	}, nil
}

func betterSupplier(candidate, incumbent *partner.Supplier, preferred map[uuid.UUID]bool) bool {
	if preferred[candidate.ID] != preferred[incumbent.ID] {
		return preferred[candidate.ID]
	}
	return candidate.LeadTimeDays < incumbent.LeadTimeDays
}

// suggestedQuantity is the configured reorder quantity when one is set.
// Otherwise it covers expected demand over the supplier lead time plus a
// safety margin, less what is already on hand, rounded up to whole units.
func suggestedQuantity(product *catalog.Product, available, velocity decimal.Decimal, supplier *SupplierSuggestion) decimal.Decimal {
	if product.ReorderQuantity.IsPositive() {
		return product.ReorderQuantity
	}

	leadDays := safetyStockDays
	if supplier != nil {
		leadDays = supplier.LeadTimeDays + safetyStockDays
	}
	demand := velocity.Mul(decimal.NewFromInt(int64(leadDays)))
	suggested := demand.Sub(available).Ceil()
	if suggested.IsNegative() {
		return decimal.Zero
	}
	return suggested
}

func adviceCacheKey(orgID uuid.UUID) string {
	return fmt.Sprintf("advisor:reorder:%s", orgID)
}
