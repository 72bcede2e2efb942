package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

func TestUserToggle_Redirects(t *testing.T) {
	e := newEcho()
	var toggled int64
	records := &stubRecords{toggleFn: func(id int64) (*domain.StaffUser, error) {
		toggled = id
		return &domain.StaffUser{ID: id}, nil
	}}
	c, rec := newContext(e, http.MethodPost, "/users/7/toggle", url.Values{}, sessionAs(domain.RoleAdmin))
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := NewUserHandler(records).Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if toggled != 7 {
		t.Fatalf("expected user 7 toggled, got %d", toggled)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/users?notice=toggled" {
		t.Fatalf("unexpected redirect %d", rec.Code)
	}
}

func TestUserToggle_InvalidID(t *testing.T) {
	e := newEcho()
	c, _ := newContext(e, http.MethodPost, "/users/x/toggle", url.Values{}, sessionAs(domain.RoleAdmin))
	c.SetParamNames("id")
	c.SetParamValues("x")

	err := NewUserHandler(&stubRecords{}).Toggle(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserList_ExpiredSessionPropagates(t *testing.T) {
	e := newEcho()
	records := &stubRecords{listUsersFn: func() ([]domain.StaffUser, error) {
		return nil, domain.ErrSessionExpired
	}}
	c, _ := newContext(e, http.MethodGet, "/users", nil, sessionAs(domain.RoleAdmin))

	if err := NewUserHandler(records).List(c); err != domain.ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
