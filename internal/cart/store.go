// Package cart keeps the cart lines of one browser client in sync with the
// remote cart. Local edits are applied optimistically and the server's state
// replaces them after every successful write.
//
// Admins and anonymous visitors have no cart: their cart is always empty and
// every operation is a no-op.
package cart

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/aaravmahajanofficial/storefront-bff/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/session"
)

type Backend interface {
	Cart(ctx context.Context) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, req models.AddCartItemRequest) error
	UpdateCartQuantity(ctx context.Context, req models.UpdateCartQuantityRequest) error
	ChangeCartOption(ctx context.Context, req models.ChangeCartOptionRequest) error
	DeleteCartItem(ctx context.Context, cartID int64) error
	ClearCart(ctx context.Context) error
}

// Users is the session view the cart depends on.
type Users interface {
	Get() *models.User
	Subscribe(fn session.Listener)
}

type Store struct {
	backend Backend
	users   Users
	record  *cache.Record[[]models.CartItem]
	logger  *slog.Logger

	mu     sync.Mutex
	items  []models.CartItem
	seq    uint64 // bumped by every load, clear and identity change
	epoch  uint64 // bumped by every clear and identity change
	tempID int64
}

// NewStore restores the stored lines for an eligible user and subscribes to
// identity changes.
func NewStore(ctx context.Context, backend Backend, users Users, record *cache.Record[[]models.CartItem], logger *slog.Logger) *Store {

	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		backend: backend,
		users:   users,
		record:  record,
		logger:  logger,
	}

	if users.Get().CanShop() {
		if items, found, err := s.loadRecord(ctx); err != nil {
			logger.Warn("Failed to restore stored cart", slog.String("error", err.Error()))
		} else if found {
			s.items = items
		}
	} else {
		s.persist(ctx, nil)
	}

	users.Subscribe(s.onIdentityChange)

	return s
}

func (s *Store) eligible() bool {
	return s.users.Get().CanShop()
}

// Load replaces the local lines with the server cart. Failures degrade to an
// empty cart; a response overtaken by a newer load, a clear or an identity
// change is dropped.
func (s *Store) Load(ctx context.Context) []models.CartItem {

	s.mu.Lock()
	s.seq++
	seq := s.seq

	if !s.eligible() {
		s.items = nil
		s.mu.Unlock()
		s.persist(ctx, nil)

		return nil
	}

	s.mu.Unlock()

	items, err := s.backend.Cart(ctx)
	if err != nil {
		s.logger.Warn("Failed to load cart", slog.String("error", err.Error()))
		items = nil
	}

	s.mu.Lock()

	if seq != s.seq {
		current := slices.Clone(s.items)
		s.mu.Unlock()
		s.logger.Debug("Dropping stale cart response", slog.Uint64("seq", seq))

		return current
	}

	s.items = items
	s.mu.Unlock()

	s.persist(ctx, items)

	return slices.Clone(items)
}

// Add puts quantity units of (product, optionID) into the cart, merging with a
// matching line. New lines carry a negative temporary id until the reload.
func (s *Store) Add(ctx context.Context, product models.CartProduct, optionID *int64, quantity int) error {

	if !s.eligible() {
		return nil
	}

	if quantity < 1 {
		return appErrors.ValidationError("Quantity must be at least 1")
	}

	return s.run(ctx, mutation{
		name: "add",
		apply: func(items []models.CartItem) ([]models.CartItem, func([]models.CartItem) []models.CartItem) {

			if idx := indexOfProduct(items, product.ProductID, optionID); idx >= 0 {
				items[idx].Quantity += quantity

				return items, func(items []models.CartItem) []models.CartItem {
					if idx := indexOfProduct(items, product.ProductID, optionID); idx >= 0 {
						items[idx].Quantity = max(items[idx].Quantity-quantity, 1)
					}

					return items
				}
			}

			line := models.CartItem{
				CartID:      s.nextTempID(),
				ProductID:   product.ProductID,
				ProductName: product.ProductName,
				Thumbnail:   product.MainImg,
				Quantity:    quantity,
				Price:       product.SellPrice,
				Stock:       product.Stock,
				SoldOut:     product.Stock <= 0,
			}

			if optionID != nil {
				line.Option = &models.CartOption{OptionID: *optionID}
			}

			return append(items, line), func(items []models.CartItem) []models.CartItem {
				if idx := indexOfLine(items, line.CartID); idx >= 0 {
					items = slices.Delete(items, idx, idx+1)
				}

				return items
			}
		},
		send: func(ctx context.Context) error {
			return s.backend.AddCartItem(ctx, models.AddCartItemRequest{
				ProductID: product.ProductID,
				OptionID:  optionID,
				Quantity:  quantity,
			})
		},
	})
}

// UpdateQuantity sets the quantity of a line, clamped to at least 1.
func (s *Store) UpdateQuantity(ctx context.Context, cartID int64, quantity int) error {

	if !s.eligible() {
		return nil
	}

	quantity = max(quantity, 1)

	return s.run(ctx, mutation{
		name: "update_quantity",
		apply: func(items []models.CartItem) ([]models.CartItem, func([]models.CartItem) []models.CartItem) {

			idx := indexOfLine(items, cartID)
			if idx < 0 {
				return items, nil
			}

			previous := items[idx].Quantity
			items[idx].Quantity = quantity

			return items, func(items []models.CartItem) []models.CartItem {
				if idx := indexOfLine(items, cartID); idx >= 0 {
					items[idx].Quantity = previous
				}

				return items
			}
		},
		send: func(ctx context.Context) error {
			return s.backend.UpdateCartQuantity(ctx, models.UpdateCartQuantityRequest{CartID: cartID, Quantity: quantity})
		},
	})
}

// ChangeOption moves a line to another option of the same product. The new
// option's details are only known after the reload.
func (s *Store) ChangeOption(ctx context.Context, cartID, newOptionID int64) error {

	if !s.eligible() {
		return nil
	}

	return s.run(ctx, mutation{
		name: "change_option",
		send: func(ctx context.Context) error {
			return s.backend.ChangeCartOption(ctx, models.ChangeCartOptionRequest{CartID: cartID, NewOptionID: newOptionID})
		},
	})
}

func (s *Store) Delete(ctx context.Context, cartID int64) error {

	if !s.eligible() {
		return nil
	}

	return s.run(ctx, mutation{
		name: "delete",
		apply: func(items []models.CartItem) ([]models.CartItem, func([]models.CartItem) []models.CartItem) {

			idx := indexOfLine(items, cartID)
			if idx < 0 {
				return items, nil
			}

			removed := items[idx]

			return slices.Delete(items, idx, idx+1), func(items []models.CartItem) []models.CartItem {
				if indexOfLine(items, cartID) >= 0 {
					return items
				}

				return slices.Insert(items, min(idx, len(items)), removed)
			}
		},
		send: func(ctx context.Context) error {
			return s.backend.DeleteCartItem(ctx, cartID)
		},
	})
}

// Clear empties the cart locally whatever happens, then asks the server to do
// the same. A server failure is only logged.
func (s *Store) Clear(ctx context.Context) {

	s.mu.Lock()
	s.items = nil
	s.seq++
	s.epoch++
	s.mu.Unlock()

	s.persist(ctx, nil)

	if !s.eligible() {
		return
	}

	if err := s.backend.ClearCart(ctx); err != nil {
		s.logger.Error("Failed to clear server cart", slog.String("error", err.Error()))
	}
}

func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

func (s *Store) Total() int64 {
	var total int64

	for _, item := range s.Items() {
		total += item.LineTotal()
	}

	return total
}

// Count is the number of lines, not of units.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *Store) Snapshot() models.CartResponse {
	items := s.Items()

	var total int64

	for _, item := range items {
		total += item.LineTotal()
	}

	if items == nil {
		items = []models.CartItem{}
	}

	return models.CartResponse{Items: items, Total: total, Count: len(items)}
}

func (s *Store) onIdentityChange(ctx context.Context, _, next *models.User) {

	s.mu.Lock()
	s.items = nil
	s.seq++
	s.epoch++
	s.mu.Unlock()

	s.persist(ctx, nil)

	if next.CanShop() {
		s.Load(ctx)
	}
}

func (s *Store) nextTempID() int64 {
	s.tempID--

	return s.tempID
}

func (s *Store) loadRecord(ctx context.Context) ([]models.CartItem, bool, error) {
	if s.record == nil {
		return nil, false, nil
	}

	return s.record.Load(ctx)
}

func (s *Store) persist(ctx context.Context, items []models.CartItem) {

	if s.record == nil {
		return
	}

	var err error

	if len(items) == 0 {
		err = s.record.Clear(ctx)
	} else {
		err = s.record.Save(ctx, items)
	}

	if err != nil {
		s.logger.Warn("Failed to persist cart", slog.String("error", err.Error()))
	}
}
