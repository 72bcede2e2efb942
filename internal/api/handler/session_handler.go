package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/api/middleware"
	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// SessionHandler serves the login entry point, logout, and the JSON session
// API.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type registerData struct {
	Form    clientForm
	Created *domain.Client
}

// Home handles GET /. Anonymous visitors get the login form, everyone else
// the register-client form.
func (h *SessionHandler) Home(c echo.Context) error {
	if !middleware.CurrentSession(c).Authenticated() {
		return c.Render(http.StatusOK, "login", newPage(c, "Log in", "", loginForm{}))
	}
	return c.Render(http.StatusOK, "register", newPage(c, "Register Client", domain.FeatureRegisterClient, registerData{}))
}

// Login handles POST /login.
func (h *SessionHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	_, err := h.login(c, form.Username, form.Password)
	if err != nil {
		page := newPage(c, "Log in", "", loginForm{Username: form.Username})
		page.Error = "Invalid username or password."
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			msg, ferr := inlineError(c, err)
			if ferr != nil {
				return ferr
			}
			page.Error = msg
		}
		return c.Render(http.StatusUnauthorized, "login", page)
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles POST /logout.
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), ctxSID(c)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// GetSession returns the current user and the navigation it may see.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionBody(middleware.CurrentSession(c)))
}

// CreateSession logs in with JSON credentials.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginForm  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/session [post]
func (h *SessionHandler) CreateSession(c echo.Context) error {
	var req loginForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: validationText(err)})
	}

	session, err := h.login(c, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		}
		return err
	}
	return c.JSON(http.StatusOK, sessionBody(session))
}

// DeleteSession logs out.
//
// @Summary      Log out
// @Tags         session
// @Success      204
// @Router       /api/session [delete]
func (h *SessionHandler) DeleteSession(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), ctxSID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// login stores the new session under a fresh id, then drops whatever the
// browser carried before, so an id known before login never authenticates.
func (h *SessionHandler) login(c echo.Context, username, password string) (*domain.Session, error) {
	ctx := c.Request().Context()
	previous := ctxSID(c)
	sid := uuid.NewString()

	session, err := h.sessions.Login(ctx, sid, username, password)
	if err != nil {
		return nil, err
	}
	middleware.ReplaceSID(c, sid)
	if previous != "" {
		if err := h.sessions.Logout(ctx, previous); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func sessionBody(session *domain.Session) sessionResponse {
	resp := sessionResponse{
		Authenticated: session.Authenticated(),
		Navigation:    navigationFor(session),
	}
	if resp.Authenticated {
		user := session.User
		resp.User = &user
	}
	return resp
}

func validationText(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return validationMessage(he)
	}
	return err.Error()
}
