package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
	"github.com/salvaclients/vet-admin/internal/core/service"
	"github.com/salvaclients/vet-admin/internal/infrastructure/db/memory"
)

const testSID = "5f0c6f4e-8a52-4a8e-9f3d-0d6c2b7f6a11"

type fakeSessions struct {
	ports.SessionService
	session *domain.Session
}

func (f *fakeSessions) Current(context.Context, string) (*domain.Session, error) {
	return f.session, nil
}

type fakeRecords struct {
	ports.RecordsService
	err error
}

func (f *fakeRecords) ListServices(context.Context, string) ([]domain.Service, error) {
	return nil, f.err
}

func (f *fakeRecords) ListClients(context.Context, string) ([]domain.Client, error) {
	return nil, f.err
}

func (f *fakeRecords) Costs(_ context.Context, _ string, month string) (*ports.CostsView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ports.CostsView{Month: "2026-10"}, nil
}

func newTestRouter(session *domain.Session, records *fakeRecords) *echo.Echo {
	reg := prometheus.NewRegistry()
	return NewRouter(Dependencies{
		Sessions:   &fakeSessions{session: session},
		Records:    records,
		Log:        zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})
}

func staff(role domain.Role) *domain.Session {
	return &domain.Session{Token: "t", User: domain.User{ID: 1, Username: "staff", FullName: "Staff", Role: role}}
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: "vet_sid", Value: testSID})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AnonymousIsSentToLogin(t *testing.T) {
	e := newTestRouter(nil, &fakeRecords{})
	rec := serve(e, http.MethodGet, "/services")

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRouter_ForbiddenFeatureIsNotFound(t *testing.T) {
	e := newTestRouter(staff(domain.RoleReceptionist), &fakeRecords{})
	for _, path := range []string{"/costs", "/users", "/inventory"} {
		if rec := serve(e, http.MethodGet, path); rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestRouter_AdminSeesCosts(t *testing.T) {
	e := newTestRouter(staff(domain.RoleAdmin), &fakeRecords{})
	rec := serve(e, http.MethodGet, "/costs")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `href="/users"`) || !strings.Contains(body, `href="/costs"`) {
		t.Fatalf("admin navigation should include costs and users")
	}
}

func TestRouter_ReceptionistHomeHidesAdminLinks(t *testing.T) {
	e := newTestRouter(staff(domain.RoleReceptionist), &fakeRecords{})
	rec := serve(e, http.MethodGet, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `href="/costs"`) {
		t.Fatalf("receptionist must not see costs link")
	}
}

func TestRouter_ExpiredSessionReturnsToLogin(t *testing.T) {
	e := newTestRouter(staff(domain.RoleAdmin), &fakeRecords{err: domain.ErrSessionExpired})
	rec := serve(e, http.MethodGet, "/services")

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to /, got %d", rec.Code)
	}
}

func TestRouter_BackendErrorPage(t *testing.T) {
	e := newTestRouter(staff(domain.RoleAdmin), &fakeRecords{err: &domain.BackendError{Status: http.StatusBadGateway, Message: "backend down"}})
	rec := serve(e, http.MethodGet, "/costs")

	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "backend down") {
		t.Fatalf("expected backend status and text, got %d", rec.Code)
	}
}

func TestRouter_HealthSkipsSession(t *testing.T) {
	e := newTestRouter(nil, &fakeRecords{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatalf("probes must not get a session cookie")
	}
}

func TestRouter_IssuesSessionCookie(t *testing.T) {
	e := newTestRouter(nil, &fakeRecords{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	found := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "vet_sid" && ck.HttpOnly && ck.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected vet_sid cookie")
	}
}

func TestRouter_APISessionAnonymous(t *testing.T) {
	e := newTestRouter(nil, &fakeRecords{})
	rec := serve(e, http.MethodGet, "/api/session")

	var body struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec.Code != http.StatusOK || body.Authenticated {
		t.Fatalf("expected anonymous session, got %d %+v", rec.Code, body)
	}
}

func TestRouter_PostWithoutCSRFIsRejected(t *testing.T) {
	e := newTestRouter(staff(domain.RoleAdmin), &fakeRecords{})
	rec := serve(e, http.MethodPost, "/logout")

	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusForbidden {
		t.Fatalf("expected CSRF rejection, got %d", rec.Code)
	}
}

type loginGateway struct{}

func (loginGateway) Do(_ context.Context, _ string, path string, _ ports.Request) (*ports.Response, error) {
	if path != "/auth/login" {
		return &ports.Response{StatusCode: http.StatusNotFound}, nil
	}
	body := `{"token":"t1","user":{"id":1,"username":"admin","fullName":"Admin","role":"ADMIN"}}`
	return &ports.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
}

func TestRouter_LoginRotatesSessionID(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := NewRouter(Dependencies{
		Sessions:   service.NewSessionService(memory.NewCredentialStore(), loginGateway{}, zerolog.Nop()),
		Records:    &fakeRecords{},
		Log:        zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"username":"admin","password":"password"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: "vet_sid", Value: testSID})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	var issued string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "vet_sid" {
			issued = ck.Value
		}
	}
	if issued == "" || issued == testSID {
		t.Fatalf("expected a new session id cookie, got %q", issued)
	}

	authenticated := func(sid string) bool {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.AddCookie(&http.Cookie{Name: "vet_sid", Value: sid})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		var body struct {
			Authenticated bool `json:"authenticated"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		return body.Authenticated
	}
	if authenticated(testSID) {
		t.Fatalf("the id carried before login must stay anonymous")
	}
	if !authenticated(issued) {
		t.Fatalf("the issued id must be logged in")
	}
}
