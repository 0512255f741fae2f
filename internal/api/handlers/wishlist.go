package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// WishlistHandler serves every client, logged in or not.
type WishlistHandler struct {
	base
}

func NewWishlistHandler(workspaces Workspaces, validate *validator.Validate) *WishlistHandler {
	return &WishlistHandler{base: newBase(workspaces, validate)}
}

func (h *WishlistHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, ws.Wishlist.Snapshot())
	}
}

func (h *WishlistHandler) Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var item models.WishlistItem

		if !utils.ParseAndValidate(r, w, &item, h.validator) {
			return
		}

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		res, err := ws.Wishlist.Add(r.Context(), item)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, res)
	}
}

func (h *WishlistHandler) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		productID, err := pathID(r, "productId")
		if err != nil {
			response.Error(w, err)
			return
		}

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, ws.Wishlist.Remove(r.Context(), productID))
	}
}
