package products

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	t.Parallel()

	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Product{
		Name:       "Runner",
		SKU:        "RUN-1",
		PriceCents: 8900,
		IsActive:   true,
		Sizes: []models.ProductSize{
			{Size: "42", InStock: true, StockQuantity: 2},
			{Size: "40", InStock: true, StockQuantity: 0},
			{Size: "41", InStock: true, StockQuantity: 5},
		},
		Colors: []models.ProductColor{{ColorName: "Red", ColorValue: "#f00"}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, created.CountInStock)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, found.Sizes, 3)
	require.Equal(t, []string{"42", "40", "41"}, []string{found.Sizes[0].Size, found.Sizes[1].Size, found.Sizes[2].Size}, "position order is kept")
	require.False(t, found.Sizes[1].InStock)
	require.True(t, found.HasColor("Red"))

	byID, err := repo.FindByIDs(ctx, []uuid.UUID{created.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	require.Contains(t, byID, created.ID)
}
