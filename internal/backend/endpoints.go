package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
)

// Me returns the logged-in user. An answer without a user ID means nobody is
// logged in and is reported like a 401.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User

	if err := c.get(ctx, "/api/auth/me", &user); err != nil {
		return nil, err
	}

	if user.ID == 0 {
		statusErr := &StatusError{Status: http.StatusUnauthorized, Message: "session carries no user"}
		return nil, appErrors.UnauthorizedError("Not logged in").WithError(statusErr)
	}

	return &user, nil
}

// Login stores the backend session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) error {
	return c.post(ctx, "/api/auth/login", req, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/api/auth/logout", nil, nil)
}

func (c *Client) CategoryTree(ctx context.Context) (models.CategoryTree, error) {
	var res models.CategoryTreeResponse

	if err := c.get(ctx, "/api/categories/tree", &res); err != nil {
		return nil, err
	}

	return res.Tree, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, leafCode string) ([]models.Product, error) {
	var products []models.Product

	if err := c.get(ctx, "/api/products/category/"+url.PathEscape(leafCode), &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (c *Client) Product(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product

	if err := c.get(ctx, fmt.Sprintf("/api/products/%d", productID), &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *Client) Cart(ctx context.Context) ([]models.CartItem, error) {
	var res struct {
		Items []models.CartItem `json:"items"`
	}

	if err := c.get(ctx, "/api/cart", &res); err != nil {
		return nil, err
	}

	return res.Items, nil
}

func (c *Client) AddCartItem(ctx context.Context, req models.AddCartItemRequest) error {
	return c.post(ctx, "/api/cart", req, nil)
}

func (c *Client) UpdateCartQuantity(ctx context.Context, req models.UpdateCartQuantityRequest) error {
	return c.put(ctx, "/api/cart/quantity", req, nil)
}

func (c *Client) ChangeCartOption(ctx context.Context, req models.ChangeCartOptionRequest) error {
	return c.put(ctx, "/api/cart/option", req, nil)
}

func (c *Client) DeleteCartItem(ctx context.Context, cartID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/cart/%d", cartID))
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/api/cart")
}

func (c *Client) Addresses(ctx context.Context) ([]models.Address, error) {
	var addresses []models.Address

	if err := c.get(ctx, "/api/address", &addresses); err != nil {
		return nil, err
	}

	return addresses, nil
}

func (c *Client) AddAddress(ctx context.Context, req models.AddAddressRequest) error {
	return c.post(ctx, "/api/address/add", req, nil)
}

func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.OrderConfirmation, error) {
	var confirmation models.OrderConfirmation

	if err := c.post(ctx, "/api/orders/create", req, &confirmation); err != nil {
		return nil, err
	}

	return &confirmation, nil
}

// UpdateProduct replaces the stored product with the edited one.
func (c *Client) UpdateProduct(ctx context.Context, productID int64, product models.Product) error {
	return c.put(ctx, fmt.Sprintf("/api/products/%d", productID), product, nil)
}

func (c *Client) Search(ctx context.Context, query string) ([]models.SearchItem, error) {
	var res struct {
		Items []models.SearchItem `json:"items"`
	}

	if err := c.get(ctx, "/api/search?query="+url.QueryEscape(query), &res); err != nil {
		return nil, err
	}

	return res.Items, nil
}

func (c *Client) CreateProduct(ctx context.Context, payload models.AdminProductPayload) error {
	return c.post(ctx, "/api/admin/products", payload, nil)
}

func (c *Client) GenerateDescription(ctx context.Context, req models.DescriptionRequest) (string, error) {
	var res models.DescriptionResponse

	if err := c.post(ctx, "/api/admin/products/generate-description", req, &res); err != nil {
		return "", err
	}

	return res.Description, nil
}
