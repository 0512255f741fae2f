package cart

import (
	"context"
	"log/slog"
	"slices"

	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
)

// mutation is one optimistic change of the cart. apply edits the local lines
// and returns the function that undoes exactly that edit; send performs the
// change on the server.
type mutation struct {
	name  string
	apply func(items []models.CartItem) ([]models.CartItem, func([]models.CartItem) []models.CartItem)
	send  func(ctx context.Context) error
}

// run applies the local delta, fires the request, then either reloads the
// authoritative cart or reverts the delta. A revert is skipped when the cart
// was cleared or the identity changed meanwhile.
func (s *Store) run(ctx context.Context, m mutation) error {

	var revert func([]models.CartItem) []models.CartItem

	s.mu.Lock()
	epoch := s.epoch

	if m.apply != nil {
		s.items, revert = m.apply(slices.Clone(s.items))
	}

	snapshot := slices.Clone(s.items)
	s.mu.Unlock()

	if m.apply != nil {
		s.persist(ctx, snapshot)
	}

	if err := m.send(ctx); err != nil {

		s.logger.Warn("Cart update failed", slog.String("operation", m.name), slog.String("error", err.Error()))

		if revert != nil {
			s.mu.Lock()

			if s.epoch == epoch {
				s.items = revert(slices.Clone(s.items))
			}

			snapshot = slices.Clone(s.items)
			s.mu.Unlock()

			s.persist(ctx, snapshot)
		}

		return err
	}

	s.Load(ctx)

	return nil
}

func indexOfLine(items []models.CartItem, cartID int64) int {
	return slices.IndexFunc(items, func(item models.CartItem) bool {
		return item.CartID == cartID
	})
}

func indexOfProduct(items []models.CartItem, productID int64, optionID *int64) int {
	return slices.IndexFunc(items, func(item models.CartItem) bool {
		return item.Matches(productID, optionID)
	})
}
