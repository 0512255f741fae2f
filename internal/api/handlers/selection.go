package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-bff/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-bff/internal/checkout"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/pricing"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils/response"
	"github.com/aaravmahajanofficial/storefront-bff/internal/workspace"
	"github.com/go-playground/validator/v10"
)

// SelectionHandler serves the option selection of a product detail page and
// the "buy now" shortcut built from it.
type SelectionHandler struct {
	base
}

func NewSelectionHandler(workspaces Workspaces, validate *validator.Validate) *SelectionHandler {
	return &SelectionHandler{base: newBase(workspaces, validate)}
}

func selectionResponse(sel *pricing.Selection) models.SelectionResponse {
	return models.SelectionResponse{Selections: sel.Items(), TotalPrice: sel.Total()}
}

func (h *SelectionHandler) selection(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, *pricing.Selection, bool) {

	productID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, err)
		return nil, nil, false
	}

	ws, ok := h.workspace(w, r)
	if !ok {
		return nil, nil, false
	}

	sel, err := ws.Selection(r.Context(), productID)
	if err != nil {
		response.Error(w, err)
		return nil, nil, false
	}

	return ws, sel, true
}

func (h *SelectionHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, sel, ok := h.selection(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, selectionResponse(sel))
	}
}

func (h *SelectionHandler) Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.SelectOptionRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		_, sel, ok := h.selection(w, r)
		if !ok {
			return
		}

		if _, err := sel.Add(req.OptionID); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, selectionResponse(sel))
	}
}

func (h *SelectionHandler) UpdateCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		optionID, err := pathID(r, "optionId")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.SelectionCountRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		_, sel, ok := h.selection(w, r)
		if !ok {
			return
		}

		if err := sel.SetCount(optionID, req.Count); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, selectionResponse(sel))
	}
}

func (h *SelectionHandler) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		optionID, err := pathID(r, "optionId")
		if err != nil {
			response.Error(w, err)
			return
		}

		_, sel, ok := h.selection(w, r)
		if !ok {
			return
		}

		if !sel.Remove(optionID) {
			response.Error(w, appErrors.NotFoundError("Option is not selected"))
			return
		}

		response.Success(w, http.StatusOK, selectionResponse(sel))
	}
}

// BuyNow stores the direct purchase record and drops the selection it was
// built from.
func (h *SelectionHandler) BuyNow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.BuyNowRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if _, ok := h.shopper(w, r); !ok {
			return
		}

		ws, sel, ok := h.selection(w, r)
		if !ok {
			return
		}

		data, err := checkout.NewDirectPurchase(sel.Product(), sel.Items(), req.Quantity)
		if err != nil {
			response.Error(w, err)
			return
		}

		ws.Checkout.SetDirectPurchase(data)
		ws.DiscardSelection(data.ProductID)

		middleware.LoggerFromContext(r.Context()).Info("Direct purchase prepared",
			slog.Int64("productId", data.ProductID),
			slog.Int64("subtotal", data.Subtotal()),
		)

		response.Success(w, http.StatusCreated, data)
	}
}
