package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-billing/internal/billing"
	"github.com/noah-isme/backend-billing/internal/pricing"
)

func sampleBill(id string) pricing.Bill {
	lines, total := pricing.Compute([]pricing.Line{{ProductID: 1, Name: "Tee", Size: "M", Quantity: 2, UnitPrice: decimal.RequireFromString("499.00")}})
	return pricing.Bill{ID: id, CustomerName: "Asha", MobileNumber: "1", Items: lines, GrandTotal: total, GeneratedAt: fixedNow}
}

func TestRedisStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	store := billing.NewRedisStore(rdb, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, sampleBill("b-1")))

	got, ok, err := store.Get(ctx, "b-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "998.00", pricing.Format(got.GrandTotal))
	require.Equal(t, "05-03-2024 14:07", got.DateLabel())

	mr.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, "b-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStoreDelete(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	store := billing.NewRedisStore(rdb, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, sampleBill("b-2")))
	require.NoError(t, store.Delete(ctx, "b-2"))
	_, ok, err := store.Get(ctx, "b-2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	store := billing.NewMemoryStore(1, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, sampleBill("old")))
	require.NoError(t, store.Put(ctx, sampleBill("new")))

	_, ok, _ := store.Get(ctx, "old")
	require.False(t, ok)
	got, ok, _ := store.Get(ctx, "new")
	require.True(t, ok)
	require.Equal(t, "new", got.ID)

	require.NoError(t, store.Delete(ctx, "new"))
	_, ok, _ = store.Get(ctx, "new")
	require.False(t, ok)
}
