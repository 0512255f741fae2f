package models

type WishlistItem struct {
	ProductID   int64  `json:"productId" validate:"required,gt=0"`
	ProductName string `json:"productName" validate:"required"`
	MainImg     string `json:"mainImg,omitempty"`
	SellPrice   int64  `json:"sellPrice" validate:"gte=0"`
}

type WishlistResponse struct {
	Items []WishlistItem `json:"items"`
	Count int            `json:"count"`
}
