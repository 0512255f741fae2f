package admin_test

import (
	"context"
	"testing"

	"github.com/aaravmahajanofficial/storefront-bff/internal/admin"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Product(ctx context.Context, productID int64) (*models.Product, error) {
	args := m.Called(ctx, productID)
	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *mockBackend) UpdateProduct(ctx context.Context, productID int64, product models.Product) error {
	return m.Called(ctx, productID, product).Error(0)
}

func (m *mockBackend) CreateProduct(ctx context.Context, payload models.AdminProductPayload) error {
	return m.Called(ctx, payload).Error(0)
}

func (m *mockBackend) GenerateDescription(ctx context.Context, req models.DescriptionRequest) (string, error) {
	args := m.Called(ctx, req)

	return args.String(0), args.Error(1)
}

type staticGate bool

func (g staticGate) IsAdmin() bool { return bool(g) }

type staticCategories map[string]string

func (c staticCategories) Path(_ context.Context, leafCode string) string { return c[leafCode] }

func optionForm() models.AdminProductForm {
	return models.AdminProductForm{
		ProductName:  "Linen Shirt",
		SellPrice:    30000,
		Stock:        12,
		IsOption:     true,
		CategoryCode: "101020",
		MainImg:      "https://cdn.example.com/shirt.png",
		Options: []models.AdminOptionForm{
			{OptionTitle: "Size", OptionValue: "M", ExtraPrice: 0, Stock: 4},
			{OptionTitle: "Size", OptionValue: "XL", ExtraPrice: 2000, Stock: 3},
		},
	}
}

func TestBuildPayload(t *testing.T) {
	t.Run("Success - Option products price options absolutely", func(t *testing.T) {
		payload := admin.BuildPayload(optionForm())

		assert.Equal(t, 0, payload.Stock)
		require.Len(t, payload.Options, 2)
		assert.Equal(t, int64(30000), payload.Options[0].SellPrice)
		assert.Equal(t, int64(32000), payload.Options[1].SellPrice)
		assert.Equal(t, 3, payload.Options[1].Stock)
	})

	t.Run("Success - Single products send no options", func(t *testing.T) {
		form := optionForm()
		form.IsOption = false

		payload := admin.BuildPayload(form)

		assert.Equal(t, 12, payload.Stock)
		assert.Empty(t, payload.Options)
		assert.NotNil(t, payload.Options)
	})
}

func TestCreateProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		backendMock := new(mockBackend)
		svc := admin.NewService(backendMock, nil, staticGate(true), nil, nil)
		backendMock.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.AdminProductPayload) bool {
			return p.ProductName == "Linen Shirt" && len(p.Options) == 2 && p.Options[1].SellPrice == 32000
		})).Return(nil).Once()

		// Act
		payload, err := svc.CreateProduct(t.Context(), optionForm())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "101020", payload.CategoryCode)
		backendMock.AssertExpectations(t)
	})

	t.Run("Failure - Not an admin", func(t *testing.T) {
		backendMock := new(mockBackend)
		svc := admin.NewService(backendMock, nil, staticGate(false), nil, nil)

		_, err := svc.CreateProduct(t.Context(), optionForm())

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeForbidden))
		backendMock.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	tests := []struct {
		name   string
		mutate func(*models.AdminProductForm)
	}{
		{"missing name", func(f *models.AdminProductForm) { f.ProductName = "  " }},
		{"missing category", func(f *models.AdminProductForm) { f.CategoryCode = "" }},
		{"missing sell price", func(f *models.AdminProductForm) { f.SellPrice = 0 }},
		{"option product without options", func(f *models.AdminProductForm) { f.Options = nil }},
		{"option without value", func(f *models.AdminProductForm) { f.Options[0].OptionValue = "" }},
	}

	for _, tt := range tests {
		t.Run("Failure - "+tt.name, func(t *testing.T) {
			backendMock := new(mockBackend)
			svc := admin.NewService(backendMock, nil, staticGate(true), nil, nil)
			form := optionForm()
			tt.mutate(&form)

			_, err := svc.CreateProduct(t.Context(), form)

			assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
			backendMock.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
		})
	}

	t.Run("Failure - Backend rejects", func(t *testing.T) {
		backendMock := new(mockBackend)
		svc := admin.NewService(backendMock, nil, staticGate(true), nil, nil)
		backendMock.On("CreateProduct", mock.Anything, mock.Anything).Return(appErrors.DuplicateEntryError("Product exists"))

		_, err := svc.CreateProduct(t.Context(), optionForm())

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDuplicateEntry))
	})
}

func TestGenerateDescription(t *testing.T) {
	t.Run("Success - Request built and answer sanitised", func(t *testing.T) {
		// Arrange
		backendMock := new(mockBackend)
		categories := staticCategories{"101020": "Fashion > Tops > Shirts"}
		svc := admin.NewService(backendMock, categories, staticGate(true), nil, nil)

		expected := models.DescriptionRequest{
			Name:         "Linen Shirt",
			Price:        30000,
			Options:      []string{"Size M", "Size XL"},
			CategoryPath: "Fashion > Tops > Shirts",
			ImageURL:     "https://cdn.example.com/shirt.png",
		}
		backendMock.On("GenerateDescription", mock.Anything, expected).
			Return(`<p>Breathable linen.</p><script>alert(1)</script>`, nil)

		// Act
		description, err := svc.GenerateDescription(t.Context(), optionForm())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "<p>Breathable linen.</p>", description)
		backendMock.AssertExpectations(t)
	})

	t.Run("Failure - Name required", func(t *testing.T) {
		svc := admin.NewService(new(mockBackend), nil, staticGate(true), nil, nil)
		form := optionForm()
		form.ProductName = ""

		_, err := svc.GenerateDescription(t.Context(), form)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
	})

	t.Run("Failure - Not an admin", func(t *testing.T) {
		svc := admin.NewService(new(mockBackend), nil, staticGate(false), nil, nil)

		_, err := svc.GenerateDescription(t.Context(), optionForm())

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeForbidden))
	})
}

func TestUpdateProduct(t *testing.T) {
	edited := models.Product{ProductName: "  Stoneware Mug ", SellPrice: 5500, Stock: 7, CategoryCode: "101010"}

	t.Run("Success - Sends the edited product", func(t *testing.T) {
		// Arrange
		backendMock := new(mockBackend)
		svc := admin.NewService(backendMock, nil, staticGate(true), nil, nil)
		backendMock.On("UpdateProduct", mock.Anything, int64(10), mock.MatchedBy(func(p models.Product) bool {
			return p.ProductID == 10 && p.ProductName == "Stoneware Mug" && p.SellPrice == 5500 && p.Stock == 7
		})).Return(nil).Once()

		// Act
		saved, err := svc.UpdateProduct(t.Context(), 10, edited)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(10), saved.ProductID)
		backendMock.AssertExpectations(t)
	})

	t.Run("Failure - Required fields", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(p *models.Product)
		}{
			{"blank name", func(p *models.Product) { p.ProductName = "  " }},
			{"no sell price", func(p *models.Product) { p.SellPrice = 0 }},
			{"no stock", func(p *models.Product) { p.Stock = 0 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				backendMock := new(mockBackend)
				svc := admin.NewService(backendMock, nil, staticGate(true), nil, nil)
				product := edited
				tt.mutate(&product)

				_, err := svc.UpdateProduct(t.Context(), 10, product)

				assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
				backendMock.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Failure - Non-admin", func(t *testing.T) {
		backendMock := new(mockBackend)
		svc := admin.NewService(backendMock, nil, staticGate(false), nil, nil)

		_, err := svc.UpdateProduct(t.Context(), 10, edited)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeForbidden))
		backendMock.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Backend rejects the update", func(t *testing.T) {
		backendMock := new(mockBackend)
		svc := admin.NewService(backendMock, nil, staticGate(true), nil, nil)
		backendMock.On("UpdateProduct", mock.Anything, int64(10), mock.Anything).Return(appErrors.NotFoundError("no such product"))

		_, err := svc.UpdateProduct(t.Context(), 10, edited)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})
}

func TestEditableProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		backendMock := new(mockBackend)
		svc := admin.NewService(backendMock, nil, staticGate(true), nil, nil)
		backendMock.On("Product", mock.Anything, int64(10)).Return(&models.Product{ProductID: 10, ProductName: "Mug"}, nil)

		product, err := svc.EditableProduct(t.Context(), 10)

		require.NoError(t, err)
		assert.Equal(t, "Mug", product.ProductName)
	})

	t.Run("Failure - Non-admin", func(t *testing.T) {
		backendMock := new(mockBackend)
		svc := admin.NewService(backendMock, nil, staticGate(false), nil, nil)

		_, err := svc.EditableProduct(t.Context(), 10)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeForbidden))
		backendMock.AssertNotCalled(t, "Product", mock.Anything, mock.Anything)
	})
}
