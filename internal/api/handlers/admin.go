package handlers

import (
	"net/http"

	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AdminHandler struct {
	base
}

func NewAdminHandler(workspaces Workspaces, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{base: newBase(workspaces, validate)}
}

func (h *AdminHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var form models.AdminProductForm

		// the service validates: option rows only matter for option products
		if err := utils.DecodeJSONBody(r, &form); err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()))
			return
		}

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		payload, err := ws.Admin.CreateProduct(r.Context(), form)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, payload)
	}
}

func (h *AdminHandler) GenerateDescription() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var form models.AdminProductForm

		if err := utils.DecodeJSONBody(r, &form); err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()))
			return
		}

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		description, err := ws.Admin.GenerateDescription(r.Context(), form)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.DescriptionResponse{Description: description})
	}
}

func (h *AdminHandler) Product() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := pathID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		product, err := ws.Admin.EditableProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *AdminHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := pathID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var product models.Product

		if err := utils.DecodeJSONBody(r, &product); err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()))
			return
		}

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		saved, err := ws.Admin.UpdateProduct(r.Context(), id, product)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, saved)
	}
}
