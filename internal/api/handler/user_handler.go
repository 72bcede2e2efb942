package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// UserHandler serves staff account management.
type UserHandler struct {
	records ports.RecordsService
}

func NewUserHandler(records ports.RecordsService) *UserHandler {
	return &UserHandler{records: records}
}

type usersData struct {
	Users   []domain.StaffUser
	Roles   []domain.Role
	Form    userForm
	Editing int64
}

// List handles GET /users?edit=<id>.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.records.ListUsers(c.Request().Context(), ctxSID(c))
	if err != nil {
		return err
	}
	data := &usersData{Users: users, Roles: domain.AllRoles}
	if id := queryID(c, "edit"); id > 0 {
		for _, u := range users {
			if u.ID == id {
				data.Form = userFormFrom(u)
				data.Editing = id
			}
		}
	}
	return c.Render(http.StatusOK, "users", newPage(c, "Users", domain.FeatureUsers, data))
}

// Create handles POST /users.
func (h *UserHandler) Create(c echo.Context) error {
	var form userForm
	if err := bindForm(c, &form); err != nil {
		return h.renderError(c, form, 0, err)
	}
	if _, err := h.records.CreateUser(c.Request().Context(), ctxSID(c), form.toRequest()); err != nil {
		return h.renderError(c, form, 0, err)
	}
	return seeOther(c, "/users", "created")
}

// Update handles POST /users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form userForm
	if err := bindForm(c, &form); err != nil {
		return h.renderError(c, form, id, err)
	}
	if _, err := h.records.UpdateUser(c.Request().Context(), ctxSID(c), id, form.toRequest()); err != nil {
		return h.renderError(c, form, id, err)
	}
	return seeOther(c, "/users", "updated")
}

// Toggle handles POST /users/:id/toggle.
func (h *UserHandler) Toggle(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.records.ToggleUser(c.Request().Context(), ctxSID(c), id); err != nil {
		return h.renderError(c, userForm{}, 0, err)
	}
	return seeOther(c, "/users", "toggled")
}

// Delete handles POST /users/:id/delete.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.records.DeleteUser(c.Request().Context(), ctxSID(c), id); err != nil {
		return h.renderError(c, userForm{}, 0, err)
	}
	return seeOther(c, "/users", "deleted")
}

func (h *UserHandler) renderError(c echo.Context, form userForm, editing int64, cause error) error {
	msg, err := inlineError(c, cause)
	if err != nil {
		return err
	}
	users, err := h.records.ListUsers(c.Request().Context(), ctxSID(c))
	if err != nil {
		return err
	}

	page := newPage(c, "Users", domain.FeatureUsers, &usersData{Users: users, Roles: domain.AllRoles, Form: form, Editing: editing})
	page.Error = msg
	return c.Render(http.StatusUnprocessableEntity, "users", page)
}
