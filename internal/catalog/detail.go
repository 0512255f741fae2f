package catalog

import (
	"context"

	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountRate is round((consumer - sell) / consumer * 100), or 0 when there
// is no consumer price above the sell price.
func DiscountRate(consumerPrice *int64, sellPrice int64) int {

	if consumerPrice == nil || *consumerPrice <= 0 || *consumerPrice <= sellPrice {
		return 0
	}

	consumer := decimal.NewFromInt(*consumerPrice)

	rate := consumer.Sub(decimal.NewFromInt(sellPrice)).Div(consumer).Mul(hundred).Round(0)

	return int(rate.IntPart())
}

func Detail(ctx context.Context, source ProductSource, productID int64) (*models.ProductDetailResponse, error) {

	if productID <= 0 {
		return nil, appErrors.ValidationError("Invalid product id")
	}

	product, err := source.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.SubImages == nil {
		product.SubImages = []string{}
	}

	if product.Options == nil {
		product.Options = []models.ProductOption{}
	}

	return &models.ProductDetailResponse{
		Product:      product,
		DiscountRate: DiscountRate(product.ConsumerPrice, product.SellPrice),
	}, nil
}
