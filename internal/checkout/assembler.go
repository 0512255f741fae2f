package checkout

import (
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/pricing"
)

// NormalizeCartItem turns a cart line into an order line. A line without an
// option gets one synthetic option carrying the full quantity.
func NormalizeCartItem(item models.CartItem) models.CheckoutData {

	option := models.CheckoutOption{OptionID: 0, Value: models.NoOptionLabel, Count: item.Quantity}

	if item.Option != nil {
		option = models.CheckoutOption{
			OptionID: item.Option.OptionID,
			Value:    optionLabel(item.Option),
			Count:    item.Quantity,
		}
	}

	return models.CheckoutData{
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		MainImg:     item.Thumbnail,
		SellPrice:   item.Price,
		Options:     []models.CheckoutOption{option},
	}
}

func optionLabel(opt *models.CartOption) string {

	var parts []string

	if opt.OptionTitle != nil && strings.TrimSpace(*opt.OptionTitle) != "" {
		parts = append(parts, strings.TrimSpace(*opt.OptionTitle))
	}

	if opt.OptionValue != nil && strings.TrimSpace(*opt.OptionValue) != "" {
		parts = append(parts, strings.TrimSpace(*opt.OptionValue))
	}

	if len(parts) == 0 {
		return models.NoOptionLabel
	}

	return strings.Join(parts, " ")
}

// Assemble lists the direct purchase first, then every cart line.
func Assemble(direct *models.CheckoutData, cart []models.CartItem) models.CheckoutSummary {

	items := make([]models.CheckoutData, 0, len(cart)+1)

	if direct != nil {
		items = append(items, *direct)
	}

	for _, line := range cart {
		items = append(items, NormalizeCartItem(line))
	}

	return models.CheckoutSummary{Items: items, TotalPrice: Total(items)}
}

// Total is the sum over every line and option of sellPrice * count. It is the
// amount submitted with the order.
func Total(items []models.CheckoutData) int64 {

	var total int64

	for _, item := range items {
		total += item.Subtotal()
	}

	return total
}

// NewDirectPurchase builds the "buy now" record for a product. Option products
// take their lines from the selections, which must all share one unit price so
// that sellPrice * count stays exact. Plain products use quantity.
func NewDirectPurchase(product *models.Product, selections []models.SelectedOption, quantity int) (models.CheckoutData, error) {

	data := models.CheckoutData{
		ProductID:   product.ProductID,
		ProductName: product.ProductName,
		MainImg:     product.MainImg,
		SellPrice:   product.SellPrice,
	}

	if !product.IsOption {
		if quantity < 1 {
			return models.CheckoutData{}, appErrors.ValidationError("Quantity must be at least 1")
		}

		data.Options = []models.CheckoutOption{{OptionID: 0, Value: models.NoOptionLabel, Count: quantity}}

		return data, nil
	}

	if len(selections) == 0 {
		return models.CheckoutData{}, appErrors.ValidationError("Select an option first")
	}

	unitPrice, ok := pricing.SingleUnitPrice(selections)
	if !ok {
		return models.CheckoutData{}, appErrors.ValidationError("Options with different prices must be bought through the cart")
	}

	data.SellPrice = unitPrice

	for _, sel := range selections {
		data.Options = append(data.Options, models.CheckoutOption{OptionID: sel.OptionID, Value: sel.Value, Count: sel.Count})
	}

	return data, nil
}
