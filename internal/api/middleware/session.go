package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// Context keys set by Session.
const (
	ContextSID     = "sid"
	ContextSession = "session"

	contextCookie = "session_cookie"
)

// SessionConfig configures the session id cookie.
type SessionConfig struct {
	Skipper    echomiddleware.Skipper
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// Session makes sure every browser carries a session id cookie and loads the
// session stored under it. Anonymous requests get a nil *domain.Session.
func Session(sessions ports.SessionService, cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomiddleware.DefaultSkipper
	}
	cfg = cfg.withDefaults()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			sid := ""
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				if _, err := uuid.Parse(ck.Value); err == nil {
					sid = ck.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				setCookie(c, cfg, sid)
			}

			session, err := sessions.Current(c.Request().Context(), sid)
			if err != nil {
				return err
			}

			c.Set(contextCookie, cfg)
			c.Set(ContextSID, sid)
			c.Set(ContextSession, session)
			return next(c)
		}
	}
}

// ReplaceSID points the browser at a new session id and makes it the id for
// the rest of the request. Call it after storing a session under sid.
func ReplaceSID(c echo.Context, sid string) {
	cfg, ok := c.Get(contextCookie).(SessionConfig)
	if !ok {
		cfg = SessionConfig{}.withDefaults()
	}
	setCookie(c, cfg, sid)
	c.Set(ContextSID, sid)
}

func (cfg SessionConfig) withDefaults() SessionConfig {
	if cfg.CookieName == "" {
		cfg.CookieName = "vet_sid"
	}
	return cfg
}

func setCookie(c echo.Context, cfg SessionConfig, sid string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SID returns the session id placed on c by Session.
func SID(c echo.Context) string {
	sid, _ := c.Get(ContextSID).(string)
	return sid
}

// CurrentSession returns the session placed on c by Session, nil when
// anonymous.
func CurrentSession(c echo.Context) *domain.Session {
	s, _ := c.Get(ContextSession).(*domain.Session)
	return s
}
