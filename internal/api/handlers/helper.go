package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront-bff/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils/response"
	"github.com/aaravmahajanofficial/storefront-bff/internal/workspace"
	"github.com/go-playground/validator/v10"
)

// Workspaces hands out the workspace of a client id.
type Workspaces interface {
	Get(ctx context.Context, clientID string) *workspace.Workspace
}

type base struct {
	workspaces Workspaces
	validator  *validator.Validate
}

func newBase(workspaces Workspaces, validate *validator.Validate) base {
	if validate == nil {
		validate = validator.New()
	}

	return base{workspaces: workspaces, validator: validate}
}

// workspace resolves the caller's workspace or writes 401.
func (b base) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {

	clientID, ok := middleware.ClientIDFromContext(r.Context())
	if !ok {
		middleware.LoggerFromContext(r.Context()).Warn("Request without client session")
		response.Error(w, appErrors.UnauthorizedError("Client session required"))
		return nil, false
	}

	return b.workspaces.Get(r.Context(), clientID), true
}

// shopper resolves the workspace of a logged-in, non-admin user.
func (b base) shopper(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {

	ws, ok := b.workspace(w, r)
	if !ok {
		return nil, false
	}

	user := ws.Session.Get()

	switch {
	case user == nil:
		response.Error(w, appErrors.UnauthorizedError("Login required"))
		return nil, false
	case user.IsAdmin():
		response.Error(w, appErrors.ForbiddenError("Admin accounts cannot shop"))
		return nil, false
	}

	return ws, true
}

// IsAdmin is the admin gate of the router.
func (b base) IsAdmin(r *http.Request) bool {

	clientID, ok := middleware.ClientIDFromContext(r.Context())
	if !ok {
		return false
	}

	return b.workspaces.Get(r.Context(), clientID).Session.IsAdmin()
}

func pathID(r *http.Request, name string) (int64, error) {

	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.ValidationError("Invalid " + name)
	}

	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {

	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}

	return value
}
