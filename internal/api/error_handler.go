package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/salvaclients/vet-admin/internal/api/middleware"
	"github.com/salvaclients/vet-admin/internal/api/view"
	"github.com/salvaclients/vet-admin/internal/core/domain"
)

// errorResponse is the error envelope of JSON endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends the browser back to / when the session expired or is missing.
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Passes backend answers through with their status and text.
//   - Logs unexpected errors internally without leaking details to the client.
//
// JSON endpoints get {"error": "<message>"}; screens get the error page.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrNoSession) {
			if wantsJSON(c) {
				_ = c.JSON(http.StatusUnauthorized, errorResponse{Error: "session expired"})
				return
			}
			_ = c.Redirect(http.StatusSeeOther, "/")
			return
		}

		code, msg := resolveError(err, log, c)
		if wantsJSON(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}

		session := middleware.CurrentSession(c)
		page := &view.Page{
			Title:   http.StatusText(code),
			Session: session,
			Nav:     domain.Navigation(session),
			Error:   msg,
		}
		if rerr := c.Render(code, "error", page); rerr != nil {
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, CSRF, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var be *domain.BackendError
	if errors.As(err, &be) {
		return be.Status, be.Error()
	}

	switch {
	case errors.Is(err, domain.ErrFeatureUnavailable):
		return http.StatusNotFound, "page not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInvalidMonth):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func wantsJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/") ||
		strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
