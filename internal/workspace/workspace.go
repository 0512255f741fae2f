// Package workspace wires the stores of one browser client together and keeps
// them for as long as the client is active.
package workspace

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aaravmahajanofficial/storefront-bff/internal/admin"
	"github.com/aaravmahajanofficial/storefront-bff/internal/backend"
	"github.com/aaravmahajanofficial/storefront-bff/internal/cart"
	"github.com/aaravmahajanofficial/storefront-bff/internal/catalog"
	"github.com/aaravmahajanofficial/storefront-bff/internal/checkout"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/pricing"
	"github.com/aaravmahajanofficial/storefront-bff/internal/session"
	"github.com/aaravmahajanofficial/storefront-bff/internal/wishlist"
)

// Workspace is everything the handlers need for one client. The session, cart,
// wishlist and backend cookies are durable; the selections, the listing, the
// search and the checkout slots live in memory only.
type Workspace struct {
	ClientID string
	Backend  *backend.Client
	Session  *session.Store
	Cart     *cart.Store
	Listing  *catalog.Listing
	Search   *catalog.Search
	Wishlist *wishlist.Store
	Checkout *checkout.Service
	Admin    *admin.Service
	Tree     *catalog.Tree

	logger   *slog.Logger
	lastSeen atomic.Int64

	mu         sync.Mutex
	selections map[int64]*pricing.Selection
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, w.lastSeen.Load()))
}

func (w *Workspace) Logger() *slog.Logger {
	return w.logger
}

// Selection returns the option selection of productID, creating it from the
// product detail on first use.
func (w *Workspace) Selection(ctx context.Context, productID int64) (*pricing.Selection, error) {

	w.mu.Lock()
	selection, ok := w.selections[productID]
	w.mu.Unlock()

	if ok {
		return selection, nil
	}

	product, err := w.Backend.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if existing, ok := w.selections[productID]; ok {
		return existing, nil
	}

	selection = pricing.NewSelection(product)
	w.selections[productID] = selection

	return selection, nil
}

// DiscardSelection forgets the selection of productID.
func (w *Workspace) DiscardSelection(productID int64) {
	w.mu.Lock()
	delete(w.selections, productID)
	w.mu.Unlock()
}

// onIdentityChange drops every selection made under the previous user.
func (w *Workspace) onIdentityChange(_ context.Context, _, _ *models.User) {
	w.mu.Lock()
	w.selections = make(map[int64]*pricing.Selection)
	w.mu.Unlock()
}
