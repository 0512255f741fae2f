// Package wishlist keeps the products a browser client marked for later. The
// list belongs to the client, not to a user, and survives restarts.
package wishlist

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/aaravmahajanofficial/storefront-bff/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/go-playground/validator/v10"
)

type Store struct {
	record   *cache.Record[[]models.WishlistItem]
	validate *validator.Validate
	logger   *slog.Logger

	mu    sync.Mutex
	items []models.WishlistItem
}

// NewStore restores the stored list. A failed restore starts empty.
func NewStore(ctx context.Context, record *cache.Record[[]models.WishlistItem], validate *validator.Validate, logger *slog.Logger) *Store {

	if validate == nil {
		validate = validator.New()
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{record: record, validate: validate, logger: logger}

	if record == nil {
		return s
	}

	items, found, err := record.Load(ctx)
	if err != nil {
		logger.Warn("Failed to restore wishlist", slog.String("error", err.Error()))
	} else if found {
		s.items = items
	}

	return s
}

// Add appends item unless its product is already listed.
func (s *Store) Add(ctx context.Context, item models.WishlistItem) (models.WishlistResponse, error) {

	if err := s.validate.Struct(item); err != nil {
		return models.WishlistResponse{}, appErrors.ValidationError("Product id and name are required").WithError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.items, func(existing models.WishlistItem) bool { return existing.ProductID == item.ProductID }) {
		return s.snapshot(), nil
	}

	s.items = append(slices.Clone(s.items), item)
	s.persist(ctx)

	return s.snapshot(), nil
}

// Remove drops productID. Removing an unlisted product changes nothing.
func (s *Store) Remove(ctx context.Context, productID int64) models.WishlistResponse {

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := slices.DeleteFunc(slices.Clone(s.items), func(item models.WishlistItem) bool { return item.ProductID == productID })
	if len(kept) == len(s.items) {
		return s.snapshot()
	}

	s.items = kept
	s.persist(ctx)

	return s.snapshot()
}

func (s *Store) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.ContainsFunc(s.items, func(item models.WishlistItem) bool { return item.ProductID == productID })
}

func (s *Store) Snapshot() models.WishlistResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Store) snapshot() models.WishlistResponse {
	items := append([]models.WishlistItem{}, s.items...)

	return models.WishlistResponse{Items: items, Count: len(items)}
}

// persist is called with s.mu held.
func (s *Store) persist(ctx context.Context) {

	if s.record == nil {
		return
	}

	if err := s.record.Save(ctx, s.items); err != nil {
		s.logger.Warn("Failed to persist wishlist", slog.String("error", err.Error()))
	}
}
