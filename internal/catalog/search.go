package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
)

type SearchSource interface {
	Search(ctx context.Context, query string) ([]models.SearchItem, error)
}

// Search is the keyword search state of one client. It follows the same
// request token rule as Listing. A failed search shows no results.
type Search struct {
	mu     sync.Mutex
	source SearchSource
	logger *slog.Logger
	seq    uint64
	state  models.SearchResponse
}

func NewSearch(source SearchSource, logger *slog.Logger) *Search {

	if logger == nil {
		logger = slog.Default()
	}

	return &Search{
		source: source,
		logger: logger,
		state:  models.SearchResponse{Items: []models.SearchItem{}},
	}
}

func (s *Search) State() models.SearchResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Run searches for query. A blank query clears the results without asking
// the backend.
func (s *Search) Run(ctx context.Context, query string) models.SearchResponse {

	query = strings.TrimSpace(query)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state = models.SearchResponse{Query: query, Items: []models.SearchItem{}, Loading: query != ""}

	if query == "" {
		defer s.mu.Unlock()
		return s.snapshot()
	}

	s.mu.Unlock()

	items, err := s.source.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.logger.Debug("Dropping stale search results", slog.String("query", query))
		return s.snapshot()
	}

	s.state.Loading = false

	if err != nil {
		s.logger.Warn("Search failed", slog.String("query", query), slog.String("error", err.Error()))
		s.state.Failed = true

		return s.snapshot()
	}

	if items != nil {
		s.state.Items = items
	}

	return s.snapshot()
}

func (s *Search) snapshot() models.SearchResponse {
	state := s.state
	state.Items = append([]models.SearchItem{}, s.state.Items...)

	return state
}
