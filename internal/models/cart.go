package models

type CartOption struct {
	OptionID    int64   `json:"optionId"`
	OptionType  string  `json:"optionType"`
	OptionTitle *string `json:"optionTitle"`
	OptionValue *string `json:"optionValue"`
}

type CartItem struct {
	CartID      int64       `json:"cartId"`
	ProductID   int64       `json:"productId"`
	ProductName string      `json:"productName"`
	Thumbnail   string      `json:"thumbnail"`
	Quantity    int         `json:"quantity"`
	Price       int64       `json:"price"`
	Stock       int         `json:"stock"`
	SoldOut     bool        `json:"soldOut"`
	Option      *CartOption `json:"option,omitempty"`
}

func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Matches reports whether the line is identified by (productID, optionID). A nil
// optionID only matches lines without an option.
func (i CartItem) Matches(productID int64, optionID *int64) bool {
	if i.ProductID != productID {
		return false
	}

	if optionID == nil {
		return i.Option == nil
	}

	return i.Option != nil && i.Option.OptionID == *optionID
}

// CartProduct is the slice of a product the cart needs for an optimistic line.
type CartProduct struct {
	ProductID   int64  `json:"productId" validate:"required"`
	ProductName string `json:"productName"`
	SellPrice   int64  `json:"sellPrice" validate:"gte=0"`
	Stock       int    `json:"stock"`
	MainImg     string `json:"mainImg,omitempty"`
}

type CartResponse struct {
	Items []CartItem `json:"items"`
	Total int64      `json:"total"`
	Count int        `json:"count"`
}

type AddCartItemRequest struct {
	ProductID int64  `json:"productId" validate:"required"`
	OptionID  *int64 `json:"optionId"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// AddToCartRequest is what the UI posts to the BFF: the product snapshot plus
// the option and quantity.
type AddToCartRequest struct {
	Product  CartProduct `json:"product" validate:"required"`
	OptionID *int64      `json:"optionId"`
	Quantity int         `json:"quantity" validate:"required,min=1"`
}

type UpdateCartQuantityRequest struct {
	CartID   int64 `json:"cartId" validate:"required"`
	Quantity int   `json:"quantity"`
}

type ChangeCartOptionRequest struct {
	CartID      int64 `json:"cartId" validate:"required"`
	NewOptionID int64 `json:"newOptionId" validate:"required"`
}
