package pricing

import (
	"slices"
	"sync"

	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
)

// Selection is the in-progress option selection of one client on one product
// detail page.
type Selection struct {
	mu      sync.Mutex
	product *models.Product
	items   []models.SelectedOption
}

func NewSelection(product *models.Product) *Selection {
	return &Selection{product: product}
}

func (s *Selection) Product() *models.Product {
	return s.product
}

// Add selects optionID with a count of 1. Selecting an option twice is
// rejected and leaves the selection unchanged.
func (s *Selection) Add(optionID int64) (models.SelectedOption, error) {

	if !s.product.IsOption {
		return models.SelectedOption{}, appErrors.BadRequestError("Product has no options")
	}

	opt, ok := s.product.Option(optionID)
	if !ok {
		return models.SelectedOption{}, appErrors.NotFoundError("Option not found")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(optionID) >= 0 {
		return models.SelectedOption{}, appErrors.DuplicateEntryError("Option already selected")
	}

	selected := models.SelectedOption{
		OptionID: opt.OptionID,
		Value:    opt.OptionValue,
		Count:    1,
		Price:    UnitPrice(s.product, opt),
	}

	s.items = append(s.items, selected)

	return selected, nil
}

// SetCount changes the quantity of a selected option, never below 1.
func (s *Selection) SetCount(optionID int64, count int) error {

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(optionID)
	if idx < 0 {
		return appErrors.NotFoundError("Option is not selected")
	}

	s.items[idx].Count = max(count, 1)

	return nil
}

func (s *Selection) Remove(optionID int64) bool {

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(optionID)
	if idx < 0 {
		return false
	}

	s.items = slices.Delete(s.items, idx, idx+1)

	return true
}

func (s *Selection) Items() []models.SelectedOption {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

func (s *Selection) Total() int64 {
	return Total(s.product, s.Items())
}

func (s *Selection) Reset() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *Selection) indexOf(optionID int64) int {
	return slices.IndexFunc(s.items, func(sel models.SelectedOption) bool {
		return sel.OptionID == optionID
	})
}
