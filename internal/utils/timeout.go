package utils

import (
	"context"
	"time"
)

// OrderHistoryTimeout bounds every order history query.
const OrderHistoryTimeout = 3 * time.Second

func WithOrderHistoryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, OrderHistoryTimeout)
}
