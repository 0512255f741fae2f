package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
)

type ProductSource interface {
	ProductsByCategory(ctx context.Context, leafCode string) ([]models.Product, error)
	Product(ctx context.Context, productID int64) (*models.Product, error)
}

// Listing is the category page state of one client. Every Load takes a new
// request token; an answer for an older token is discarded.
type Listing struct {
	mu     sync.Mutex
	source ProductSource
	logger *slog.Logger
	seq    uint64
	state  models.ListingResponse
}

func NewListing(source ProductSource, logger *slog.Logger) *Listing {

	if logger == nil {
		logger = slog.Default()
	}

	return &Listing{
		source: source,
		logger: logger,
		state:  models.ListingResponse{Products: []models.Product{}},
	}
}

func (l *Listing) State() models.ListingResponse {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.snapshot()
}

// Load fetches the products of leafCode and returns the state after the
// answer was applied. If a newer Load started meanwhile, the answer is dropped
// and the current state is returned instead.
func (l *Listing) Load(ctx context.Context, leafCode string) models.ListingResponse {

	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.state = models.ListingResponse{LeafCode: leafCode, Products: []models.Product{}, Loading: true}
	l.mu.Unlock()

	products, err := l.source.ProductsByCategory(ctx, leafCode)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		l.logger.Debug("Dropping stale category listing", slog.String("leafCode", leafCode))
		return l.snapshot()
	}

	l.state.Loading = false

	if err != nil {
		l.logger.Warn("Failed to load category listing",
			slog.String("leafCode", leafCode),
			slog.String("error", err.Error()),
		)
		l.state.Failed = true

		return l.snapshot()
	}

	if products != nil {
		l.state.Products = products
	}

	return l.snapshot()
}

func (l *Listing) snapshot() models.ListingResponse {
	state := l.state
	state.Products = append([]models.Product{}, l.state.Products...)

	return state
}
