package handler

import (
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/labstack/echo/v4"
)

// UserHandler is the admin account browse surface: list, get, patch (role
// changes) and delete through the shared resource handler. Account creation
// stays on the register endpoint, and the collection's field surface keeps
// credential columns out of reach.
type UserHandler struct {
	resource *Resource[entity.User]
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(users repository.Collection[entity.User]) *UserHandler {
	return &UserHandler{
		resource: NewResource[entity.User](users, ResourceOptions[entity.User]{
			View: toUserView,
		}),
	}
}

// List handles the admin GET /users with the filter grammar.
func (h *UserHandler) List(c echo.Context) error { return h.resource.GetMany(c) }

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error { return h.resource.GetOne(c) }

// Update handles PATCH /users/:id, typically a role change.
func (h *UserHandler) Update(c echo.Context) error { return h.resource.UpdateOne(c) }

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c echo.Context) error { return h.resource.DeleteOne(c) }
