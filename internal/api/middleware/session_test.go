package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

type stubSessions struct {
	sessions map[string]*domain.Session
	lastSID  string
}

func (s *stubSessions) Current(_ context.Context, sid string) (*domain.Session, error) {
	s.lastSID = sid
	return s.sessions[sid], nil
}

func (s *stubSessions) Login(context.Context, string, string, string) (*domain.Session, error) {
	return nil, nil
}

func (s *stubSessions) Logout(context.Context, string) error { return nil }

func (s *stubSessions) HasAnyRole(context.Context, string, ...domain.Role) bool { return false }

func (s *stubSessions) ChangePassword(context.Context, string, string, string, string) (string, error) {
	return "", nil
}

func TestSession_IssuesCookieWhenMissing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	stub := &stubSessions{}

	handler := Session(stub, SessionConfig{CookieName: "vet_sid"})(func(c echo.Context) error {
		if CurrentSession(c) != nil {
			t.Fatalf("expected anonymous session")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "vet_sid" || !cookies[0].HttpOnly {
		t.Fatalf("expected one http-only session cookie, got %+v", cookies)
	}
	if stub.lastSID != cookies[0].Value {
		t.Fatalf("session looked up under %q, cookie carries %q", stub.lastSID, cookies[0].Value)
	}
}

func TestSession_LoadsExistingSession(t *testing.T) {
	const sid = "4f9c2f8e-8c1a-4a57-9a55-0d6f7f1e2b3c"
	stub := &stubSessions{sessions: map[string]*domain.Session{
		sid: {Token: "t1", User: domain.User{Username: "admin", Role: domain.RoleAdmin}},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "vet_sid", Value: sid})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(stub, SessionConfig{CookieName: "vet_sid"})(func(c echo.Context) error {
		if SID(c) != sid {
			t.Fatalf("unexpected sid %q", SID(c))
		}
		if s := CurrentSession(c); s == nil || s.User.Username != "admin" {
			t.Fatalf("expected admin session, got %+v", s)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("existing cookie must not be replaced")
	}
}

func TestSession_ReplacesMalformedCookie(t *testing.T) {
	stub := &stubSessions{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "vet_sid", Value: "../../etc/passwd"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(stub, SessionConfig{CookieName: "vet_sid"})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.lastSID == "../../etc/passwd" {
		t.Fatalf("malformed session id must not reach the store")
	}
}
