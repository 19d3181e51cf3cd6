package cart_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fenanpay-bridge/internal/cart"
)

func TestClearRemovesCartKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "cart:order:482", `[{"sku":"A","qty":2}]`, 0).Err())

	svc := &cart.Service{R: client}
	require.NoError(t, svc.Clear(ctx, 482))
	require.False(t, mr.Exists("cart:order:482"))

	// clearing again is a no-op
	require.NoError(t, svc.Clear(ctx, 482))
}

func TestClearWithoutRedisIsNoop(t *testing.T) {
	var svc *cart.Service
	require.NoError(t, svc.Clear(context.Background(), 1))
	require.NoError(t, (&cart.Service{}).Clear(context.Background(), 1))
}
