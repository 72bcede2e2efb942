package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/api/middleware"
	"github.com/salvaclients/vet-admin/internal/api/view"
	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// stubRecords implements the methods the handler tests need; anything else
// panics through the nil embedded interface.
type stubRecords struct {
	ports.RecordsService

	searchFn    func(f domain.ClientFilter) ([]domain.Client, error)
	createFn    func(c domain.Client) (*domain.Client, error)
	inventoryFn func() (*ports.InventoryView, error)
	movementFn  func(m domain.MovementRequest) (*domain.StockMovement, error)
	costsFn     func(month string) (*ports.CostsView, error)
	listUsersFn func() ([]domain.StaffUser, error)
	toggleFn    func(id int64) (*domain.StaffUser, error)
	calls       int
}

func (s *stubRecords) SearchClients(_ context.Context, _ string, f domain.ClientFilter) ([]domain.Client, error) {
	s.calls++
	return s.searchFn(f)
}

func (s *stubRecords) CreateClient(_ context.Context, _ string, c domain.Client) (*domain.Client, error) {
	s.calls++
	return s.createFn(c)
}

func (s *stubRecords) Inventory(context.Context, string) (*ports.InventoryView, error) {
	s.calls++
	return s.inventoryFn()
}

func (s *stubRecords) RecordMovement(_ context.Context, _ string, m domain.MovementRequest) (*domain.StockMovement, error) {
	s.calls++
	return s.movementFn(m)
}

func (s *stubRecords) Costs(_ context.Context, _ string, month string) (*ports.CostsView, error) {
	s.calls++
	return s.costsFn(month)
}

func (s *stubRecords) ListUsers(context.Context, string) ([]domain.StaffUser, error) {
	s.calls++
	return s.listUsersFn()
}

func (s *stubRecords) ToggleUser(_ context.Context, _ string, id int64) (*domain.StaffUser, error) {
	s.calls++
	return s.toggleFn(id)
}

type stubSessions struct {
	ports.SessionService

	loginFn    func(username, password string) (*domain.Session, error)
	changeFn   func(current, next, confirm string) (string, error)
	logouts    int
	loginSID   string
	logoutSIDs []string
}

func (s *stubSessions) Login(_ context.Context, sid string, username, password string) (*domain.Session, error) {
	s.loginSID = sid
	return s.loginFn(username, password)
}

func (s *stubSessions) Logout(_ context.Context, sid string) error {
	s.logouts++
	s.logoutSIDs = append(s.logoutSIDs, sid)
	return nil
}

func (s *stubSessions) ChangePassword(_ context.Context, _ string, current, next, confirm string) (string, error) {
	return s.changeFn(current, next, confirm)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Renderer = view.MustNew()
	e.Validator = NewValidator()
	return e
}

func sessionAs(role domain.Role) *domain.Session {
	return &domain.Session{Token: "t1", User: domain.User{ID: 1, Username: "staff", FullName: "Staff Member", Role: role}}
}

// newContext builds a context as the session middleware would leave it.
// A nil session is anonymous.
func newContext(e *echo.Echo, method, target string, form url.Values, session *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextSID, "sid")
	c.Set(middleware.ContextSession, session)
	return c, rec
}

func newJSONContext(e *echo.Echo, method, target, body string, session *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextSID, "sid")
	c.Set(middleware.ContextSession, session)
	return c, rec
}
