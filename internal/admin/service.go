// Package admin holds the admin console operations: product creation, product
// editing and AI-assisted description generation.
package admin

import (
	"context"
	"log/slog"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

type Backend interface {
	Product(ctx context.Context, productID int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID int64, product models.Product) error
	CreateProduct(ctx context.Context, payload models.AdminProductPayload) error
	GenerateDescription(ctx context.Context, req models.DescriptionRequest) (string, error)
}

type Categories interface {
	Path(ctx context.Context, leafCode string) string
}

// Gate tells whether the current client is an admin.
type Gate interface {
	IsAdmin() bool
}

type Service struct {
	backend    Backend
	categories Categories
	gate       Gate
	validate   *validator.Validate
	policy     *bluemonday.Policy
	logger     *slog.Logger
}

func NewService(backend Backend, categories Categories, gate Gate, validate *validator.Validate, logger *slog.Logger) *Service {

	if validate == nil {
		validate = validator.New()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		backend:    backend,
		categories: categories,
		gate:       gate,
		validate:   validate,
		policy:     bluemonday.UGCPolicy(),
		logger:     logger,
	}
}

func (s *Service) authorize() error {
	if s.gate == nil || !s.gate.IsAdmin() {
		return appErrors.ForbiddenError("Admin access required")
	}

	return nil
}

// BuildPayload turns the admin form into the backend payload. Option products
// carry stock on their options only; each option is priced absolutely at
// product sell price plus its extra price. Single products send no options.
func BuildPayload(form models.AdminProductForm) models.AdminProductPayload {

	payload := models.AdminProductPayload{
		ProductName:   strings.TrimSpace(form.ProductName),
		Description:   form.Description,
		ConsumerPrice: form.ConsumerPrice,
		SellPrice:     form.SellPrice,
		Stock:         form.Stock,
		IsOption:      form.IsOption,
		MainImg:       form.MainImg,
		SubImages:     form.SubImages,
		ProductStatus: form.ProductStatus,
		IsShow:        form.IsShow,
		CategoryCode:  form.CategoryCode,
		Options:       []models.ProductOption{},
	}

	if payload.SubImages == nil {
		payload.SubImages = []string{}
	}

	if !form.IsOption {
		return payload
	}

	payload.Stock = 0

	for _, opt := range form.Options {
		payload.Options = append(payload.Options, models.ProductOption{
			OptionType:  opt.OptionType,
			OptionTitle: opt.OptionTitle,
			OptionValue: opt.OptionValue,
			ExtraPrice:  opt.ExtraPrice,
			SellPrice:   form.SellPrice + opt.ExtraPrice,
			Stock:       opt.Stock,
			IsShow:      opt.IsShow,
			ColorCode:   opt.ColorCode,
		})
	}

	return payload
}

func (s *Service) CreateProduct(ctx context.Context, form models.AdminProductForm) (*models.AdminProductPayload, error) {

	if err := s.authorize(); err != nil {
		return nil, err
	}

	if !form.IsOption {
		form.Options = nil
	}

	if err := s.validateForm(form); err != nil {
		return nil, err
	}

	payload := BuildPayload(form)

	if err := s.backend.CreateProduct(ctx, payload); err != nil {
		s.logger.Error("Failed to create product",
			slog.String("productName", payload.ProductName),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	s.logger.Info("Product created",
		slog.String("productName", payload.ProductName),
		slog.String("categoryCode", payload.CategoryCode),
		slog.Int("options", len(payload.Options)),
	)

	return &payload, nil
}

// EditableProduct loads a product into the edit form.
func (s *Service) EditableProduct(ctx context.Context, productID int64) (*models.Product, error) {

	if err := s.authorize(); err != nil {
		return nil, err
	}

	return s.backend.Product(ctx, productID)
}

// UpdateProduct saves the edited product. Name, sell price and stock must all
// be set; a stock of zero counts as missing.
func (s *Service) UpdateProduct(ctx context.Context, productID int64, product models.Product) (*models.Product, error) {

	if err := s.authorize(); err != nil {
		return nil, err
	}

	product.ProductName = strings.TrimSpace(product.ProductName)

	if product.ProductName == "" || product.SellPrice <= 0 || product.Stock <= 0 {
		return nil, appErrors.ValidationError("Product name, sell price and stock are required")
	}

	product.ProductID = productID

	if err := s.backend.UpdateProduct(ctx, productID, product); err != nil {
		s.logger.Error("Failed to update product",
			slog.Int64("productId", productID),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	s.logger.Info("Product updated", slog.Int64("productId", productID))

	return &product, nil
}

func (s *Service) validateForm(form models.AdminProductForm) error {

	switch {
	case strings.TrimSpace(form.ProductName) == "":
		return appErrors.ValidationError("Product name is required")
	case form.CategoryCode == "":
		return appErrors.ValidationError("Select a category")
	case form.SellPrice <= 0:
		return appErrors.ValidationError("Sell price is required")
	case form.IsOption && len(form.Options) == 0:
		return appErrors.ValidationError("Add at least one option")
	}

	if err := s.validate.Struct(form); err != nil {
		return appErrors.ValidationError("Invalid product form").WithError(err).WithDetail(err.Error())
	}

	return nil
}

// GenerateDescription asks the backend for a product description and strips
// anything a user-generated-content policy would not allow.
func (s *Service) GenerateDescription(ctx context.Context, form models.AdminProductForm) (string, error) {

	if err := s.authorize(); err != nil {
		return "", err
	}

	if strings.TrimSpace(form.ProductName) == "" {
		return "", appErrors.ValidationError("Product name is required")
	}

	req := models.DescriptionRequest{
		Name:     strings.TrimSpace(form.ProductName),
		Price:    form.SellPrice,
		Options:  []string{},
		ImageURL: form.MainImg,
	}

	if form.CategoryCode != "" && s.categories != nil {
		req.CategoryPath = s.categories.Path(ctx, form.CategoryCode)
	}

	if form.IsOption {
		for _, opt := range form.Options {
			if label := strings.TrimSpace(strings.Join([]string{opt.OptionTitle, opt.OptionValue}, " ")); label != "" {
				req.Options = append(req.Options, label)
			}
		}
	}

	description, err := s.backend.GenerateDescription(ctx, req)
	if err != nil {
		s.logger.Warn("Description generation failed", slog.String("error", err.Error()))
		return "", err
	}

	return s.policy.Sanitize(description), nil
}
