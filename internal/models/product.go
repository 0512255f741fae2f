package models

// ProductOption as served by the catalog. SellPrice is the absolute unit price
// of the option; ExtraPrice only appears on admin payloads.
type ProductOption struct {
	OptionID    int64  `json:"optionId"`
	OptionValue string `json:"optionValue"`
	SellPrice   int64  `json:"sellPrice"`
	ExtraPrice  int64  `json:"extraPrice,omitempty"`
	Stock       int    `json:"stock"`
	OptionType  string `json:"optionType"`
	OptionTitle string `json:"optionTitle"`
	ColorCode   string `json:"colorCode,omitempty"`
	IsShow      bool   `json:"isShow"`
}

type Product struct {
	ProductID     int64           `json:"productId"`
	ProductName   string          `json:"productName"`
	Description   string          `json:"description,omitempty"`
	MainImg       string          `json:"mainImg"`
	SubImages     []string        `json:"subImages"`
	ConsumerPrice *int64          `json:"consumerPrice,omitempty"`
	SellPrice     int64           `json:"sellPrice"`
	Stock         int             `json:"stock"`
	IsOption      bool            `json:"isOption"`
	Options       []ProductOption `json:"options"`
	CategoryCode  string          `json:"categoryCode,omitempty"`
	CategoryPath  string          `json:"categoryPath"`
	LikeCount     int             `json:"likeCount"`
	UserLiked     bool            `json:"userLiked"`
}

// Option returns the option with the given id.
func (p *Product) Option(optionID int64) (ProductOption, bool) {
	for _, opt := range p.Options {
		if opt.OptionID == optionID {
			return opt, true
		}
	}

	return ProductOption{}, false
}

// CartProduct projects the product onto the fields the cart store keeps.
func (p *Product) CartProduct() CartProduct {
	return CartProduct{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		SellPrice:   p.SellPrice,
		Stock:       p.Stock,
		MainImg:     p.MainImg,
	}
}

type ProductDetailResponse struct {
	Product      *Product `json:"product"`
	DiscountRate int      `json:"discountRate"`
}

// SelectedOption is one entry of an in-progress option selection on a detail page.
type SelectedOption struct {
	OptionID int64  `json:"optionId"`
	Value    string `json:"value"`
	Count    int    `json:"count"`
	Price    int64  `json:"price"`
}

type SelectOptionRequest struct {
	OptionID int64 `json:"optionId" validate:"required"`
}

type SelectionCountRequest struct {
	Count int `json:"count"`
}

type SelectionResponse struct {
	Selections []SelectedOption `json:"selections"`
	TotalPrice int64            `json:"totalPrice"`
}

type BuyNowRequest struct {
	Quantity int `json:"quantity"`
}

type ListingResponse struct {
	LeafCode string    `json:"leafCode"`
	Products []Product `json:"products"`
	Loading  bool      `json:"loading"`
	Failed   bool      `json:"failed"`
}

// SearchItem is one hit of the external shopping search the backend proxies.
type SearchItem struct {
	Image  string `json:"image"`
	Title  string `json:"title"`
	LPrice string `json:"lprice"`
	Link   string `json:"link"`
}

type SearchResponse struct {
	Query   string       `json:"query"`
	Items   []SearchItem `json:"items"`
	Loading bool         `json:"loading"`
	Failed  bool         `json:"failed"`
}
