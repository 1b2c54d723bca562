package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wareline/backend/internal/domain/partner"
	"github.com/wareline/backend/internal/domain/shared"
)

func TestGormWarehouseRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWarehouseRepository(db)
	ctx := context.Background()

	orgID := uuid.New()
	warehouse, err := partner.NewWarehouse(orgID, "WH-MAIN", "Main warehouse")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, warehouse))

	t.Run("finds by id within the organization", func(t *testing.T) {
		found, err := repo.FindByIDForOrg(ctx, orgID, warehouse.ID)
		require.NoError(t, err)
		assert.Equal(t, "WH-MAIN", found.Code)
	})

	t.Run("finds by code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, orgID, "WH-MAIN")
		require.NoError(t, err)
		assert.Equal(t, warehouse.ID, found.ID)
	})

	t.Run("returns ErrNotFound for another organization", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, uuid.New(), "WH-MAIN")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("enforces code uniqueness per organization", func(t *testing.T) {
		duplicate, err := partner.NewWarehouse(orgID, "WH-MAIN", "Second main")
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, duplicate))
	})

	t.Run("persists updates", func(t *testing.T) {
		warehouse.Deactivate()
		require.NoError(t, repo.Save(ctx, warehouse))

		found, err := repo.FindByIDForOrg(ctx, orgID, warehouse.ID)
		require.NoError(t, err)
		assert.False(t, found.Active)
	})

	t.Run("lists warehouses ordered by code", func(t *testing.T) {
		for _, code := range []string{"WH-C", "WH-A", "WH-B"} {
			w, err := partner.NewWarehouse(orgID, code, "Warehouse "+code)
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, w))
		}

		filter := shared.DefaultFilter()
		filter.OrderBy = "code"
		filter.OrderDir = "asc"

		warehouses, err := repo.FindAllForOrg(ctx, orgID, filter)
		require.NoError(t, err)
		require.Len(t, warehouses, 4)
		assert.Equal(t, "WH-A", warehouses[0].Code)
		assert.Equal(t, "WH-MAIN", warehouses[3].Code)
	})
}
