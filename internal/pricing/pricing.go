// Package pricing derives display and order prices from a product and the
// options a customer has selected on its detail page. Every function here is
// pure; Selection is the only stateful type.
package pricing

import (
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
)

// UnitPrice is the price of one unit of opt. The catalog serves absolute
// option prices; an option without one is priced at base plus its extra price.
func UnitPrice(product *models.Product, opt models.ProductOption) int64 {
	if opt.SellPrice > 0 {
		return opt.SellPrice
	}

	return product.SellPrice + opt.ExtraPrice
}

// Total is the price to display or submit for product with the given
// selections. Non-option products and empty selections yield the base price.
func Total(product *models.Product, selections []models.SelectedOption) int64 {
	if product == nil {
		return 0
	}

	if !product.IsOption || len(selections) == 0 {
		return product.SellPrice
	}

	var total int64

	for _, sel := range selections {
		total += sel.Price * int64(sel.Count)
	}

	return total
}

// SingleUnitPrice returns the common unit price of all selections, and false
// when they differ or nothing is selected.
func SingleUnitPrice(selections []models.SelectedOption) (int64, bool) {
	if len(selections) == 0 {
		return 0, false
	}

	price := selections[0].Price

	for _, sel := range selections[1:] {
		if sel.Price != price {
			return 0, false
		}
	}

	return price, true
}
