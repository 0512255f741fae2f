package cache

import (
	"context"
	"time"
)

// Cache is durable client storage. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	UserKeyPrefix     = "session:user"
	CartKeyPrefix     = "cart:items"
	CategoryKeyPrefix = "catalog:category"
	LoginKeyPrefix    = "login:attempts"

	BackendCookieKeyPrefix = "backend:cookies"
	WishlistKeyPrefix      = "wishlist:items"
)

// CategoryTreeKey is shared by every client.
var CategoryTreeKey = Key(CategoryKeyPrefix, "tree")
