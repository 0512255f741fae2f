package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// CartHandler answers every write with the cart as it stands afterwards:
// confirmed by the server on success, rolled back on failure.
type CartHandler struct {
	base
}

func NewCartHandler(workspaces Workspaces, validate *validator.Validate) *CartHandler {
	return &CartHandler{base: newBase(workspaces, validate)}
}

// GetCart answers an empty cart for visitors and admins.
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		ws.Cart.Load(r.Context())

		response.Success(w, http.StatusOK, ws.Cart.Snapshot())
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.AddToCartRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		ws, ok := h.shopper(w, r)
		if !ok {
			return
		}

		if err := ws.Cart.Add(r.Context(), req.Product, req.OptionID, req.Quantity); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, ws.Cart.Snapshot())
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.UpdateCartQuantityRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		ws, ok := h.shopper(w, r)
		if !ok {
			return
		}

		if err := ws.Cart.UpdateQuantity(r.Context(), req.CartID, req.Quantity); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, ws.Cart.Snapshot())
	}
}

func (h *CartHandler) ChangeOption() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.ChangeCartOptionRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		ws, ok := h.shopper(w, r)
		if !ok {
			return
		}

		if err := ws.Cart.ChangeOption(r.Context(), req.CartID, req.NewOptionID); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, ws.Cart.Snapshot())
	}
}

func (h *CartHandler) DeleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cartID, err := pathID(r, "cartId")
		if err != nil {
			response.Error(w, err)
			return
		}

		ws, ok := h.shopper(w, r)
		if !ok {
			return
		}

		if err := ws.Cart.Delete(r.Context(), cartID); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, ws.Cart.Snapshot())
	}
}

// Clear is a no-op answering an empty cart for visitors and admins.
func (h *CartHandler) Clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		ws.Cart.Clear(r.Context())

		response.Success(w, http.StatusOK, ws.Cart.Snapshot())
	}
}
