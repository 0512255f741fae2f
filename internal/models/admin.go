package models

// AdminOptionForm is an option row of the admin product form. Prices are
// entered relative to the product's sell price.
type AdminOptionForm struct {
	OptionType  string `json:"optionType"`
	OptionTitle string `json:"optionTitle"`
	OptionValue string `json:"optionValue" validate:"required"`
	ExtraPrice  int64  `json:"extraPrice" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	IsShow      bool   `json:"isShow"`
	ColorCode   string `json:"colorCode,omitempty"`
}

type AdminProductForm struct {
	ProductName   string            `json:"productName" validate:"required"`
	Description   string            `json:"description"`
	ConsumerPrice int64             `json:"consumerPrice" validate:"gte=0"`
	SellPrice     int64             `json:"sellPrice" validate:"required,gt=0"`
	Stock         int               `json:"stock" validate:"gte=0"`
	IsOption      bool              `json:"isOption"`
	MainImg       string            `json:"mainImg"`
	SubImages     []string          `json:"subImages"`
	ProductStatus int               `json:"productStatus"`
	IsShow        bool              `json:"isShow"`
	CategoryCode  string            `json:"categoryCode" validate:"required"`
	Options       []AdminOptionForm `json:"options" validate:"dive"`
}

// AdminProductPayload is the body of POST /api/admin/products; options carry
// their absolute sell price.
type AdminProductPayload struct {
	ProductName   string          `json:"productName"`
	Description   string          `json:"description"`
	ConsumerPrice int64           `json:"consumerPrice"`
	SellPrice     int64           `json:"sellPrice"`
	Stock         int             `json:"stock"`
	IsOption      bool            `json:"isOption"`
	MainImg       string          `json:"mainImg"`
	SubImages     []string        `json:"subImages"`
	ProductStatus int             `json:"productStatus"`
	IsShow        bool            `json:"isShow"`
	CategoryCode  string          `json:"categoryCode"`
	Options       []ProductOption `json:"options"`
}

type DescriptionRequest struct {
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	Options      []string `json:"options"`
	CategoryPath string   `json:"category_path"`
	ImageURL     string   `json:"image_url"`
}

type DescriptionResponse struct {
	Description string `json:"description"`
}
