package advisor

import (
	"context"

	"go.uber.org/zap"

	"github.com/wareline/backend/internal/domain/inventory"
	"github.com/wareline/backend/internal/domain/shared"
)

// LowStockAlertHandler reacts to below-threshold events from the ledger: it
// raises a structured alert and drops the organization's cached reorder
// advice so the next listing reflects the shortage immediately.
type LowStockAlertHandler struct {
	cache  ListingCache
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a low-stock alert handler
func NewLowStockAlertHandler(cache ListingCache, logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{
		cache:  cache,
		logger: logger,
	}
}

// EventTypes declares the events this handler subscribes to
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle logs the alert and invalidates the cached advice listing
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStock, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("Product stock below threshold",
		zap.String("org_id", lowStock.OrgID().String()),
		zap.String("product_id", lowStock.ProductID.String()),
		zap.String("available", lowStock.Available.String()),
		zap.String("threshold", lowStock.Threshold.String()),
	)

	if h.cache == nil {
		return nil
	}
	if err := h.cache.Invalidate(ctx, adviceCacheKey(lowStock.OrgID())); err != nil {
		h.logger.Warn("Failed to invalidate reorder advice cache", zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
