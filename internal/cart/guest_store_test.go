package cart

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGuestStoreRoundTripAndTTL(t *testing.T) {
	kv := newFakeKV()
	store, err := NewGuestStore(kv, 2*time.Hour)
	require.NoError(t, err)
	ctx := context.Background()
	auth := guestAuth()
	key := kv.GuestCartKey(auth.GuestToken)

	lines, err := store.Load(ctx, auth)
	require.NoError(t, err)
	require.Empty(t, lines)

	line := Line{ProductID: uuid.New(), Size: "M", Name: "Tee", UnitPriceCents: 1000, Quantity: 2, AddedAt: time.Now().UTC()}
	require.NoError(t, store.Save(ctx, auth, []Line{line}))
	require.Equal(t, 2*time.Hour, kv.ttls[key])

	kv.ttls[key] = time.Minute
	lines, err = store.Load(ctx, auth)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, line.Key(), lines[0].Key())
	require.Equal(t, 2, lines[0].Quantity)
	require.Equal(t, 2*time.Hour, kv.ttls[key], "load slides the expiry")

	require.NoError(t, store.Save(ctx, auth, nil))
	_, ok := kv.data[key]
	require.False(t, ok)
}

func TestGuestStoreDiscardsCorruptSnapshot(t *testing.T) {
	kv := newFakeKV()
	store, err := NewGuestStore(kv, time.Hour)
	require.NoError(t, err)
	auth := guestAuth()
	kv.data[kv.GuestCartKey(auth.GuestToken)] = "{not json"

	lines, err := store.Load(context.Background(), auth)
	require.NoError(t, err)
	require.Empty(t, lines)
	_, ok := kv.data[kv.GuestCartKey(auth.GuestToken)]
	require.False(t, ok)
}

func TestNewGuestStoreValidation(t *testing.T) {
	_, err := NewGuestStore(nil, time.Hour)
	require.Error(t, err)
	_, err = NewGuestStore(newFakeKV(), 0)
	require.Error(t, err)
}

func TestDurableStorePreservesOrder(t *testing.T) {
	conn := dbtest.Open(t)
	store, err := NewDurableStore(db.NewFromConn(conn))
	require.NoError(t, err)
	ctx := context.Background()
	user := dbtest.CreateUser(t, conn)
	a := dbtest.CreateProduct(t, conn, dbtest.ProductFixture{PriceCents: 100, Stock: 5})
	b := dbtest.CreateProduct(t, conn, dbtest.ProductFixture{PriceCents: 200, Stock: 5})
	auth := AuthState{UserID: user.ID}
	now := time.Now().UTC()

	require.NoError(t, store.Save(ctx, auth, []Line{
		{ProductID: b.ID, Name: "B", UnitPriceCents: 200, Quantity: 1, AddedAt: now},
		{ProductID: a.ID, Name: "A", UnitPriceCents: 100, Quantity: 3, AddedAt: now},
	}))
	lines, err := store.Load(ctx, auth)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, b.ID, lines[0].ProductID)
	require.Equal(t, a.ID, lines[1].ProductID)

	require.NoError(t, store.Save(ctx, auth, lines[1:]))
	lines, err = store.Load(ctx, auth)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 3, lines[0].Quantity)
}
