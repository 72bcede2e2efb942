package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

func TestNew_ParsesEveryPage(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("templates do not parse: %v", err)
	}
	for _, name := range []string{"login", "register", "search", "profile", "services", "inventory", "costs", "users", "password", "error"} {
		if _, ok := r.pages[name]; !ok {
			t.Fatalf("page %q not loaded", name)
		}
	}
	if _, ok := r.pages["layout"]; ok {
		t.Fatalf("layout must not be a page of its own")
	}
}

func TestRender_UnknownPage(t *testing.T) {
	r := MustNew()
	var buf bytes.Buffer
	if err := r.Render(&buf, "missing", &Page{}, nil); err == nil {
		t.Fatalf("expected error for unknown page")
	}
}

func TestRender_NavigationFollowsRole(t *testing.T) {
	r := MustNew()
	session := &domain.Session{Token: "t", User: domain.User{ID: 1, Username: "vet", Role: domain.RoleVeterinarian}}
	page := &Page{Title: "Change Password", Active: domain.FeatureChangePassword, Session: session, Nav: domain.Navigation(session), Notice: "Password updated"}

	var buf bytes.Buffer
	if err := r.Render(&buf, "password", page, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `href="/inventory"`) {
		t.Fatalf("veterinarian navigation should include inventory")
	}
	if strings.Contains(out, `href="/costs"`) || strings.Contains(out, `href="/users"`) {
		t.Fatalf("veterinarian navigation must not include costs or users")
	}
	if !strings.Contains(out, "Password updated") {
		t.Fatalf("notice not rendered")
	}
}

func TestRender_EscapesBackendText(t *testing.T) {
	r := MustNew()
	var buf bytes.Buffer
	if err := r.Render(&buf, "login", &Page{Title: "Log in", Error: "<script>x</script>", Data: struct{ Username string }{}}, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>x</script>") {
		t.Fatalf("error text must be escaped")
	}
}
