package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// PasswordHandler serves the change password form.
type PasswordHandler struct {
	sessions ports.SessionService
}

func NewPasswordHandler(sessions ports.SessionService) *PasswordHandler {
	return &PasswordHandler{sessions: sessions}
}

// Form handles GET /change-password.
func (h *PasswordHandler) Form(c echo.Context) error {
	return c.Render(http.StatusOK, "password", newPage(c, "Change Password", domain.FeatureChangePassword, nil))
}

// Change handles POST /change-password. The form is always rendered empty;
// the outcome is shown as the backend worded it.
func (h *PasswordHandler) Change(c echo.Context) error {
	var form passwordForm
	if err := bindForm(c, &form); err != nil {
		return h.renderError(c, err)
	}

	msg, err := h.sessions.ChangePassword(c.Request().Context(), ctxSID(c), form.CurrentPassword, form.NewPassword, form.ConfirmPassword)
	if err != nil {
		return h.renderError(c, err)
	}

	page := newPage(c, "Change Password", domain.FeatureChangePassword, nil)
	page.Notice = msg
	return c.Render(http.StatusOK, "password", page)
}

func (h *PasswordHandler) renderError(c echo.Context, cause error) error {
	msg, err := inlineError(c, cause)
	if err != nil {
		return err
	}
	page := newPage(c, "Change Password", domain.FeatureChangePassword, nil)
	page.Error = msg
	return c.Render(http.StatusUnprocessableEntity, "password", page)
}
