package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront-bff/internal/catalog"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CatalogHandler struct {
	base
	tree *catalog.Tree
}

func NewCatalogHandler(workspaces Workspaces, tree *catalog.Tree, validate *validator.Validate) *CatalogHandler {
	return &CatalogHandler{base: newBase(workspaces, validate), tree: tree}
}

func (h *CatalogHandler) Categories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, models.CategoryTreeResponse{Tree: h.tree.Get(r.Context())})
	}
}

func (h *CatalogHandler) Listing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		leafCode := r.PathValue("leafCode")
		if leafCode == "" {
			response.Error(w, appErrors.ValidationError("Category code is required"))
			return
		}

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, ws.Listing.Load(r.Context(), leafCode))
	}
}

func (h *CatalogHandler) Product() http.HandlerFunc {
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

		detail, err := catalog.Detail(r.Context(), ws.Backend, id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, detail)
	}
}

// Search runs a keyword search. A failed search answers 200 with no items.
func (h *CatalogHandler) Search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, ws.Search.Run(r.Context(), r.URL.Query().Get("query")))
	}
}
