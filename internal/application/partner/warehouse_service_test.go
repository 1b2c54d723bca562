package partner

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
)

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
		return nil, shared.ErrNotFound
	}
	clone := *warehouse
	return &clone, nil
}

func (r *memWarehouses) FindByCode(_ context.Context, orgID uuid.UUID, code string) (*partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, warehouse := range r.warehouses {
		if warehouse.OrgID == orgID && warehouse.Code == code {
			clone := *warehouse
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouses) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ shared.Filter) ([]partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]partner.Warehouse, 0)
	for _, warehouse := range r.warehouses {
		if warehouse.OrgID == orgID {
			result = append(result, *warehouse)
		}
	}
	return result, nil
}

func (r *memWarehouses) Save(_ context.Context, warehouse *partner.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *warehouse
	r.warehouses[warehouse.ID] = &clone
	return nil
}

func TestWarehouseService_Create(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("registers a warehouse with an uppercased code", func(t *testing.T) {
		service := NewWarehouseService(newMemWarehouses(), zap.NewNop())

		resp, err := service.Create(ctx, orgID, CreateWarehouseRequest{Code: " main ", Name: "Main Warehouse"})
		require.NoError(t, err)

		assert.Equal(t, "MAIN", resp.Code)
		assert.True(t, resp.Active)
	})

	t.Run("rejects a duplicate code in the organization", func(t *testing.T) {
		service := NewWarehouseService(newMemWarehouses(), zap.NewNop())

		_, err := service.Create(ctx, orgID, CreateWarehouseRequest{Code: "MAIN", Name: "Main"})
		require.NoError(t, err)

		_, err = service.Create(ctx, orgID, CreateWarehouseRequest{Code: "main", Name: "Main again"})
		require.Error(t, err)
		assert.Equal(t, shared.CodeAlreadyExists, shared.CodeOf(err))
	})

	t.Run("the same code is allowed in another organization", func(t *testing.T) {
		repo := newMemWarehouses()
		service := NewWarehouseService(repo, zap.NewNop())

		_, err := service.Create(ctx, orgID, CreateWarehouseRequest{Code: "MAIN", Name: "Main"})
		require.NoError(t, err)

		_, err = service.Create(ctx, uuid.New(), CreateWarehouseRequest{Code: "MAIN", Name: "Other org main"})
		require.NoError(t, err)
	})

	t.Run("rejects an empty code", func(t *testing.T) {
		service := NewWarehouseService(newMemWarehouses(), zap.NewNop())

		_, err := service.Create(ctx, orgID, CreateWarehouseRequest{Code: "  ", Name: "Nameless"})
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	})
}

func TestWarehouseService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	service := NewWarehouseService(newMemWarehouses(), zap.NewNop())

	created, err := service.Create(ctx, orgID, CreateWarehouseRequest{Code: "WH-1", Name: "First"})
	require.NoError(t, err)

	t.Run("gets by id and by code", func(t *testing.T) {
		byID, err := service.Get(ctx, orgID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "WH-1", byID.Code)

		byCode, err := service.GetByCode(ctx, orgID, "WH-1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byCode.ID)
	})

	t.Run("hides the warehouse from other organizations", func(t *testing.T) {
		_, err := service.Get(ctx, uuid.New(), created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("renames without touching the code", func(t *testing.T) {
		updated, err := service.Update(ctx, orgID, created.ID, UpdateWarehouseRequest{Name: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "WH-1", updated.Code)
	})

	t.Run("deactivates", func(t *testing.T) {
		require.NoError(t, service.Deactivate(ctx, orgID, created.ID))

		got, err := service.Get(ctx, orgID, created.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)
	})

	t.Run("lists for the organization only", func(t *testing.T) {
		_, err := service.Create(ctx, uuid.New(), CreateWarehouseRequest{Code: "WH-X", Name: "Foreign"})
		require.NoError(t, err)

		listing, err := service.List(ctx, orgID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, 1, listing.Total)
	})
}
