package domain

import "slices"

// Role is one of the fixed staff categories issued by the clinic backend.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleVeterinarian Role = "VETERINARIAN"
	RoleReceptionist Role = "RECEPTIONIST"
)

// AllRoles lists every role the backend knows about, in display order.
var AllRoles = []Role{RoleAdmin, RoleVeterinarian, RoleReceptionist}

// Label returns the human-readable name shown in forms and tables.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleVeterinarian:
		return "Veterinarian"
	case RoleReceptionist:
		return "Receptionist"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of AllRoles.
func (r Role) Valid() bool {
	return slices.Contains(AllRoles, r)
}

// User is the descriptor the backend returns alongside the token at login.
type User struct {
	ID       int64  `json:"id"                 bson:"id"`
	Username string `json:"username"           bson:"username"`
	FullName string `json:"fullName"           bson:"full_name"`
	Email    string `json:"email,omitempty"    bson:"email,omitempty"`
	Role     Role   `json:"role"               bson:"role"`
}

// Session pairs the bearer token with the user it was issued to.
// Both halves are written and removed together.
type Session struct {
	Token string `json:"token" bson:"token"`
	User  User   `json:"user"  bson:"user"`
}

// Authenticated reports whether s carries a usable token. A nil session is
// anonymous.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// HasAnyRole reports whether the session's user holds one of roles.
// Anonymous sessions never match.
func (s *Session) HasAnyRole(roles ...Role) bool {
	if !s.Authenticated() {
		return false
	}
	return slices.Contains(roles, s.User.Role)
}
