package models

import "time"

const NoOptionLabel = "기본"

type CheckoutOption struct {
	OptionID int64  `json:"optionId"`
	Value    string `json:"value"`
	Count    int    `json:"count"`
}

// CheckoutData is the normalised order line. It is also the shape of the
// direct purchase record written right before checkout.
type CheckoutData struct {
	ProductID   int64            `json:"productId"`
	ProductName string           `json:"productName"`
	MainImg     string           `json:"mainImg,omitempty"`
	SellPrice   int64            `json:"sellPrice"`
	Options     []CheckoutOption `json:"options"`
}

func (d CheckoutData) Subtotal() int64 {
	var total int64

	for _, opt := range d.Options {
		total += d.SellPrice * int64(opt.Count)
	}

	return total
}

type Address struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Detail    string `json:"detail"`
	IsDefault bool   `json:"isDefault"`
}

type AddAddressRequest struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	Detail    string `json:"detail"`
	IsDefault bool   `json:"isDefault"`
}

type AddressListResponse struct {
	Addresses []Address `json:"addresses"`
	Selected  int64     `json:"selected,omitempty"`
}

type CreateOrderRequest struct {
	Items      []CheckoutData `json:"items" validate:"required,min=1"`
	AddressID  int64          `json:"addressId" validate:"required"`
	TotalPrice int64          `json:"totalPrice"`
}

type PlaceOrderRequest struct {
	AddressID int64 `json:"addressId"`
}

// OrderConfirmation is what the backend returns from /api/orders/create.
type OrderConfirmation struct {
	OrderID    int64          `json:"orderId,omitempty"`
	Items      []CheckoutData `json:"items"`
	Address    *Address       `json:"address,omitempty"`
	TotalPrice int64          `json:"totalPrice"`
	OrderDate  *time.Time     `json:"orderDate,omitempty"`
}

type CheckoutSummary struct {
	Items      []CheckoutData `json:"items"`
	TotalPrice int64          `json:"totalPrice"`
}

// OrderHistoryEntry is a confirmed order remembered for one user of one client.
type OrderHistoryEntry struct {
	ID         int64             `json:"id"`
	ClientID   string            `json:"clientId"`
	UserID     int64             `json:"userId"`
	OrderID    int64             `json:"orderId,omitempty"`
	TotalPrice int64             `json:"totalPrice"`
	Order      OrderConfirmation `json:"order"`
	CreatedAt  time.Time         `json:"createdAt"`
}
