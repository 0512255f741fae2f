package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-bff/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	base
}

func NewCheckoutHandler(workspaces Workspaces, validate *validator.Validate) *CheckoutHandler {
	return &CheckoutHandler{base: newBase(workspaces, validate)}
}

func (h *CheckoutHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.shopper(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, ws.Checkout.Summary())
	}
}

func (h *CheckoutHandler) ListAddresses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.shopper(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, ws.Checkout.Addresses(r.Context()))
	}
}

func (h *CheckoutHandler) AddAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.AddAddressRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		ws, ok := h.shopper(w, r)
		if !ok {
			return
		}

		addresses, err := ws.Checkout.AddAddress(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, addresses)
	}
}

func (h *CheckoutHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.PlaceOrderRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		ws, ok := h.shopper(w, r)
		if !ok {
			return
		}

		confirmation, err := ws.Checkout.PlaceOrder(r.Context(), req.AddressID)
		if err != nil {
			logger.Warn("Order placement failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed", slog.Int64("orderId", confirmation.OrderID))
		response.Success(w, http.StatusCreated, confirmation)
	}
}

func (h *CheckoutHandler) Confirmation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		confirmation, err := ws.Checkout.TakeConfirmation(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, confirmation)
	}
}

func (h *CheckoutHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		page, err := ws.Checkout.History(r.Context(), queryInt(r, "page", 1), queryInt(r, "size", 10))
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list order history", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, page)
	}
}
