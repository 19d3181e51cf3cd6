package cart

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// Service manages the redis-held cart snapshot that checkout keeps per
// order. The bridge only ever empties it: once the customer is redirected
// to the payment page the cart contents must not survive a back-button.
type Service struct {
	R *redis.Client
}

func key(orderID int64) string {
	return fmt.Sprintf("cart:order:%d", orderID)
}

// Clear removes the cart tied to the order. Clearing an absent cart is not
// an error.
func (s *Service) Clear(ctx context.Context, orderID int64) error {
	if s == nil || s.R == nil {
		return nil
	}
	if err := s.R.Del(ctx, key(orderID)).Err(); err != nil {
		return fmt.Errorf("clear cart for order %d: %w", orderID, err)
	}
	return nil
}
