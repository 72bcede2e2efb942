package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

// RequireFeature guards the routes of feature f with the shared access
// policy. Anonymous users are sent to the login entry point; authenticated
// users outside the feature's roles get a 404, as if the route did not exist.
func RequireFeature(f domain.Feature) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := CurrentSession(c)
			if !session.Authenticated() {
				return c.Redirect(http.StatusSeeOther, "/")
			}
			if !domain.Allows(session, f) {
				return domain.ErrFeatureUnavailable
			}
			return next(c)
		}
	}
}
