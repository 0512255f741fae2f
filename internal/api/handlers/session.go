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

type SessionHandler struct {
	base
}

func NewSessionHandler(workspaces Workspaces, validate *validator.Validate) *SessionHandler {
	return &SessionHandler{base: newBase(workspaces, validate)}
}

func sessionResponse(user *models.User) models.SessionResponse {
	return models.SessionResponse{User: user, IsAdmin: user.IsAdmin()}
}

func (h *SessionHandler) Current() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, sessionResponse(ws.Session.Get()))
	}
}

func (h *SessionHandler) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, sessionResponse(ws.Session.Refresh(r.Context())))
	}
}

func (h *SessionHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		var req models.LoginRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := ws.Session.Login(r.Context(), req)
		if err != nil {
			logger.Warn("Login failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if !resp.Success {
			logger.Info("Login rejected", slog.String("email", req.Email), slog.Int("remaining", resp.Remaining))
			response.JSON(w, http.StatusUnauthorized, response.APIResponse{Success: false, Data: resp})
			return
		}

		logger.Info("User logged in", slog.Int64("userId", resp.User.ID))
		response.Success(w, http.StatusOK, resp)
	}
}

func (h *SessionHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ws, ok := h.workspace(w, r)
		if !ok {
			return
		}

		ws.Session.Logout(r.Context())

		response.Success(w, http.StatusOK, sessionResponse(nil))
	}
}
