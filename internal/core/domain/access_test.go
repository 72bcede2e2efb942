package domain

import "testing"

func paths(entries []AccessEntry) map[string]bool {
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		out[e.Path] = true
	}
	return out
}

func TestNavigation_ByRole(t *testing.T) {
	cases := []struct {
		role    Role
		visible []string
		hidden  []string
	}{
		{RoleAdmin, []string{"/", "/search", "/services", "/inventory", "/costs", "/users", "/change-password"}, nil},
		{RoleVeterinarian, []string{"/", "/search", "/services", "/inventory", "/change-password"}, []string{"/costs", "/users"}},
		{RoleReceptionist, []string{"/", "/search", "/services", "/change-password"}, []string{"/inventory", "/costs", "/users"}},
	}

	for _, tc := range cases {
		s := &Session{Token: "t", User: User{Role: tc.role}}
		nav := paths(Navigation(s))
		for _, p := range tc.visible {
			if !nav[p] {
				t.Fatalf("%s: expected %s in navigation", tc.role, p)
			}
		}
		for _, p := range tc.hidden {
			if nav[p] {
				t.Fatalf("%s: %s must not be in navigation", tc.role, p)
			}
		}
		if nav["/clients/:id"] {
			t.Fatalf("client profile is never a navigation link")
		}
	}
}

func TestNavigation_Anonymous(t *testing.T) {
	if got := Navigation(nil); len(got) != 0 {
		t.Fatalf("anonymous navigation should be empty, got %d entries", len(got))
	}
	if Allows(nil, FeatureRegisterClient) {
		t.Fatalf("anonymous sessions reach nothing")
	}
}

func TestRoutesAgreeWithNavigation(t *testing.T) {
	for _, role := range AllRoles {
		s := &Session{Token: "t", User: User{Role: role}}
		routes := paths(Routes(s))
		for _, e := range Navigation(s) {
			if !routes[e.Path] {
				t.Fatalf("%s: %s linked but not routable", role, e.Path)
			}
			if !Allows(s, e.Feature) {
				t.Fatalf("%s: %s linked but not allowed", role, e.Feature)
			}
		}
	}
}

func TestAllows_UnknownFeature(t *testing.T) {
	s := &Session{Token: "t", User: User{Role: RoleAdmin}}
	if Allows(s, Feature("reports")) {
		t.Fatalf("unknown features are denied")
	}
}

func TestHasAnyRole_UnknownRole(t *testing.T) {
	s := &Session{Token: "t", User: User{Role: Role("INTERN")}}
	if s.HasAnyRole(AllRoles...) {
		t.Fatalf("unknown role must not match")
	}
	if len(Navigation(s)) != 0 {
		t.Fatalf("unknown role sees no navigation")
	}
}
