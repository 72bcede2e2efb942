package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/salvaclients/vet-admin/internal/api/middleware"
	"github.com/salvaclients/vet-admin/internal/api/view"
	"github.com/salvaclients/vet-admin/internal/core/domain"
)

// genericFailure is shown when the backend could not be reached.
const genericFailure = "The request could not be completed. Please try again."

var notices = map[string]string{
	"created": "Saved.",
	"updated": "Changes saved.",
	"deleted": "Deleted.",
	"toggled": "Status updated.",
}

// newPage fills the layout fields from the request context.
func newPage(c echo.Context, title string, active domain.Feature, data any) *view.Page {
	session := middleware.CurrentSession(c)
	csrf, _ := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
	return &view.Page{
		Title:   title,
		Active:  active,
		Session: session,
		Nav:     domain.Navigation(session),
		CSRF:    csrf,
		Notice:  notices[c.QueryParam("notice")],
		Data:    data,
	}
}

// ctxSID returns the session id set by the session middleware.
func ctxSID(c echo.Context) string {
	return middleware.SID(c)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// queryID parses an optional numeric query parameter; zero when absent.
func queryID(c echo.Context, name string) int64 {
	id, _ := strconv.ParseInt(c.QueryParam(name), 10, 64)
	return id
}

// inlineError sorts err into a message the current screen shows, or an error
// the global handler must take over (expired session).
func inlineError(c echo.Context, err error) (string, error) {
	var (
		be *domain.BackendError
		he *echo.HTTPError
	)
	switch {
	case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrNoSession):
		return "", err
	case errors.As(err, &be):
		return be.Error(), nil
	case errors.As(err, &he) && he.Code == http.StatusBadRequest:
		return validationMessage(he), nil
	case errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidCredentials):
		return err.Error(), nil
	default:
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return genericFailure, nil
	}
}

// bindForm binds and validates a form into dst.
func bindForm(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	return c.Validate(dst)
}

// seeOther redirects after a successful POST, carrying a notice key.
func seeOther(c echo.Context, path, notice string) error {
	if notice != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + "notice=" + notice
	}
	return c.Redirect(http.StatusSeeOther, path)
}
