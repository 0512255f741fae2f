package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront-bff/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-bff/internal/catalog"
	"github.com/go-playground/validator/v10"
)

// NewRouter registers every storefront route. The caller wraps it with the
// logging and client-session middleware.
func NewRouter(workspaces Workspaces, tree *catalog.Tree, validate *validator.Validate) *http.ServeMux {

	if validate == nil {
		validate = validator.New()
	}

	sessionHandler := NewSessionHandler(workspaces, validate)
	catalogHandler := NewCatalogHandler(workspaces, tree, validate)
	selectionHandler := NewSelectionHandler(workspaces, validate)
	cartHandler := NewCartHandler(workspaces, validate)
	checkoutHandler := NewCheckoutHandler(workspaces, validate)
	adminHandler := NewAdminHandler(workspaces, validate)
	wishlistHandler := NewWishlistHandler(workspaces, validate)

	adminOnly := middleware.RequireAdmin(adminHandler.IsAdmin)

	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/session", sessionHandler.Current())
	routerMux.HandleFunc("POST /api/session/refresh", sessionHandler.Refresh())
	routerMux.HandleFunc("POST /api/session/login", sessionHandler.Login())
	routerMux.HandleFunc("POST /api/session/logout", sessionHandler.Logout())
	routerMux.HandleFunc("GET /api/categories", catalogHandler.Categories())
	routerMux.HandleFunc("GET /api/categories/{leafCode}/products", catalogHandler.Listing())
	routerMux.HandleFunc("GET /api/search", catalogHandler.Search())
	routerMux.HandleFunc("GET /api/products/{id}", catalogHandler.Product())
	routerMux.HandleFunc("GET /api/products/{id}/selections", selectionHandler.List())
	routerMux.HandleFunc("POST /api/products/{id}/selections", selectionHandler.Add())
	routerMux.HandleFunc("PATCH /api/products/{id}/selections/{optionId}", selectionHandler.UpdateCount())
	routerMux.HandleFunc("DELETE /api/products/{id}/selections/{optionId}", selectionHandler.Remove())
	routerMux.HandleFunc("POST /api/products/{id}/buy-now", selectionHandler.BuyNow())
	routerMux.HandleFunc("GET /api/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/cart", cartHandler.AddItem())
	routerMux.HandleFunc("DELETE /api/cart", cartHandler.Clear())
	routerMux.HandleFunc("PUT /api/cart/quantity", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("PUT /api/cart/option", cartHandler.ChangeOption())
	routerMux.HandleFunc("DELETE /api/cart/{cartId}", cartHandler.DeleteItem())
	routerMux.HandleFunc("GET /api/wishlist", wishlistHandler.List())
	routerMux.HandleFunc("POST /api/wishlist", wishlistHandler.Add())
	routerMux.HandleFunc("DELETE /api/wishlist/{productId}", wishlistHandler.Remove())
	routerMux.HandleFunc("GET /api/checkout", checkoutHandler.Summary())
	routerMux.HandleFunc("GET /api/addresses", checkoutHandler.ListAddresses())
	routerMux.HandleFunc("POST /api/addresses", checkoutHandler.AddAddress())
	routerMux.HandleFunc("POST /api/orders", checkoutHandler.PlaceOrder())
	routerMux.HandleFunc("GET /api/orders/confirmation", checkoutHandler.Confirmation())
	routerMux.HandleFunc("GET /api/orders/history", checkoutHandler.History())
	routerMux.Handle("POST /api/admin/products", adminOnly(adminHandler.CreateProduct()))
	routerMux.Handle("POST /api/admin/products/generate-description", adminOnly(adminHandler.GenerateDescription()))
	routerMux.Handle("GET /api/admin/products/{id}", adminOnly(adminHandler.Product()))
	routerMux.Handle("PUT /api/admin/products/{id}", adminOnly(adminHandler.UpdateProduct()))

	return routerMux
}
