package favorites

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), products.NewRepository(conn))
	require.NoError(t, err)
	return svc.(*service), conn
}

func TestAddIsIdempotent(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := dbtest.CreateUser(t, conn)
	mug := dbtest.CreateProduct(t, conn, dbtest.ProductFixture{PriceCents: 900, Stock: 3})

	require.NoError(t, svc.Add(ctx, user.ID, mug.ID))
	require.NoError(t, svc.Add(ctx, user.ID, mug.ID))

	page, err := svc.List(ctx, user.ID, "", 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, mug.ID, page.Items[0].Product.ID)
	require.True(t, page.Items[0].Product.Available)
}

func TestAddRejectsUnknownProduct(t *testing.T) {
	svc, conn := newTestService(t)
	user := dbtest.CreateUser(t, conn)

	err := svc.Add(context.Background(), user.ID, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = svc.Add(context.Background(), uuid.Nil, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := dbtest.CreateUser(t, conn)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := dbtest.CreateProduct(t, conn, dbtest.ProductFixture{PriceCents: 100, Stock: 1})
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		require.NoError(t, svc.Add(ctx, user.ID, p.ID))
		ids = append(ids, p.ID)
	}

	first, err := svc.List(ctx, user.ID, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.Equal(t, ids[2], first.Items[0].Product.ID)
	require.Equal(t, ids[1], first.Items[1].Product.ID)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, user.ID, first.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Equal(t, ids[0], second.Items[0].Product.ID)
	require.Empty(t, second.NextCursor)

	_, err = svc.List(ctx, user.ID, "%%%", 2)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRemoveAndClear(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := dbtest.CreateUser(t, conn)
	a := dbtest.CreateProduct(t, conn, dbtest.ProductFixture{PriceCents: 100, Stock: 1})
	b := dbtest.CreateProduct(t, conn, dbtest.ProductFixture{PriceCents: 100, Stock: 1})
	require.NoError(t, svc.Add(ctx, user.ID, a.ID))
	require.NoError(t, svc.Add(ctx, user.ID, b.ID))

	require.NoError(t, svc.Remove(ctx, user.ID, a.ID))
	require.NoError(t, svc.Remove(ctx, user.ID, a.ID))
	page, err := svc.List(ctx, user.ID, "", 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	require.NoError(t, svc.Clear(ctx, user.ID))
	page, err = svc.List(ctx, user.ID, "", 0)
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Zero(t, page.Total)
}
