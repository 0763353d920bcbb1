package users

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDeleteCascadesOwnedRows(t *testing.T) {
	t.Parallel()

	conn := dbtest.Open(t)
	ctx := context.Background()
	svc, err := NewService(NewRepository(conn), logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, err)

	user := dbtest.CreateUser(t, conn)
	product := dbtest.CreateProduct(t, conn, dbtest.ProductFixture{PriceCents: 500, Stock: 3})
	now := time.Now().UTC()

	require.NoError(t, conn.Create(&models.CartItem{ID: uuid.New(), UserID: user.ID, ProductID: product.ID, Name: product.Name, UnitPriceCents: 500, Quantity: 1, AddedAt: now}).Error)
	require.NoError(t, conn.Create(&models.FavoriteItem{ID: uuid.New(), UserID: user.ID, ProductID: product.ID}).Error)
	order := models.Order{
		ID:                 uuid.New(),
		UserID:             user.ID,
		ShippingAddress:    types.ShippingAddress{Street: "1 Main St"},
		PaymentMethod:      enums.PaymentMethodCard,
		ItemsPriceCents:    500,
		TaxPriceCents:      50,
		ShippingPriceCents: 500,
		TotalPriceCents:    1050,
		Email:              user.Email,
		FirstName:          "A",
		LastName:           "B",
		Status:             enums.OrderStatusPending,
	}
	require.NoError(t, conn.Omit("Items").Create(&order).Error)

	require.NoError(t, svc.Delete(ctx, uuid.New(), user.ID))

	for _, model := range []any{&models.CartItem{}, &models.FavoriteItem{}, &models.Order{}} {
		var count int64
		require.NoError(t, conn.Model(model).Where("user_id = ?", user.ID).Count(&count).Error)
		require.Zero(t, count)
	}

	err = svc.Delete(ctx, uuid.New(), user.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteRejectsSelf(t *testing.T) {
	t.Parallel()

	svc, err := NewService(NewRepository(dbtest.Open(t)), logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, err)

	id := uuid.New()
	err = svc.Delete(context.Background(), id, id)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
