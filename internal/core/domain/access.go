package domain

// Feature names one screen of the front end.
type Feature string

const (
	FeatureRegisterClient Feature = "register"
	FeatureSearchClients  Feature = "search"
	FeatureServices       Feature = "services"
	FeatureInventory      Feature = "inventory"
	FeatureCosts          Feature = "costs"
	FeatureUsers          Feature = "users"
	FeatureChangePassword Feature = "change-password"
	FeatureClientProfile  Feature = "client-profile"
)

// AccessEntry binds a feature to its route and the roles allowed to see it.
type AccessEntry struct {
	Feature Feature
	Path    string
	Label   string
	InNav   bool
	Roles   []Role
}

// PermittedFor reports whether s may see the entry.
func (e AccessEntry) PermittedFor(s *Session) bool {
	return s.HasAnyRole(e.Roles...)
}

// accessPolicy is the one table read by both navigation rendering and route
// registration. Order is navigation order. This is advisory: the backend
// enforces its own policy.
var accessPolicy = []AccessEntry{
	{Feature: FeatureRegisterClient, Path: "/", Label: "Register Client", InNav: true, Roles: AllRoles},
	{Feature: FeatureSearchClients, Path: "/search", Label: "Search Clients", InNav: true, Roles: AllRoles},
	{Feature: FeatureServices, Path: "/services", Label: "Services", InNav: true, Roles: []Role{RoleAdmin, RoleVeterinarian, RoleReceptionist}},
	{Feature: FeatureInventory, Path: "/inventory", Label: "Inventory", InNav: true, Roles: []Role{RoleAdmin, RoleVeterinarian}},
	{Feature: FeatureCosts, Path: "/costs", Label: "Costs", InNav: true, Roles: []Role{RoleAdmin}},
	{Feature: FeatureUsers, Path: "/users", Label: "Users", InNav: true, Roles: []Role{RoleAdmin}},
	{Feature: FeatureChangePassword, Path: "/change-password", Label: "Change Password", InNav: true, Roles: AllRoles},
	{Feature: FeatureClientProfile, Path: "/clients/:id", Label: "Client Profile", Roles: AllRoles},
}

// AccessPolicy returns a copy of the full table.
func AccessPolicy() []AccessEntry {
	out := make([]AccessEntry, len(accessPolicy))
	copy(out, accessPolicy)
	return out
}

// LookupFeature returns the table entry for f.
func LookupFeature(f Feature) (AccessEntry, bool) {
	for _, e := range accessPolicy {
		if e.Feature == f {
			return e, true
		}
	}
	return AccessEntry{}, false
}

// Allows reports whether s may reach feature f. Unknown features are denied.
func Allows(s *Session, f Feature) bool {
	e, ok := LookupFeature(f)
	return ok && e.PermittedFor(s)
}

// Navigation returns the links rendered in the navigation bar for s.
func Navigation(s *Session) []AccessEntry {
	var out []AccessEntry
	for _, e := range accessPolicy {
		if e.InNav && e.PermittedFor(s) {
			out = append(out, e)
		}
	}
	return out
}

// Routes returns every route reachable by s, navigation or not.
func Routes(s *Session) []AccessEntry {
	var out []AccessEntry
	for _, e := range accessPolicy {
		if e.PermittedFor(s) {
			out = append(out, e)
		}
	}
	return out
}
