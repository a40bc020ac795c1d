package session

import "testing"

func TestParseRole(t *testing.T) {
	t.Parallel()

	cases := map[string]Role{
		"Admin":     RoleAdmin,
		"admin ":    RoleAdmin,
		"ORGANIZER": RoleOrganizer,
		"Staff":     RoleStaff,
		"student":   RoleStudent,
		"":          RoleInvalid,
		"Dean":      RoleInvalid,
	}
	for raw, want := range cases {
		if got := ParseRole(raw); got != want {
			t.Fatalf("ParseRole(%q) = %v, want %v", raw, got, want)
		}
	}
	if RoleInvalid.Valid() || !RoleStudent.Valid() {
		t.Fatalf("unexpected validity")
	}
	if RoleOrganizer.String() != "Organizer" {
		t.Fatalf("unexpected name %q", RoleOrganizer.String())
	}
}

func TestDefaultRoutePolicy(t *testing.T) {
	t.Parallel()

	policy := DefaultRoutePolicy()
	roles, ok := policy.Roles(RouteEventsReview)
	if !ok || len(roles) != 1 || roles[0] != RoleAdmin {
		t.Fatalf("expected review to be admin only, got %v", roles)
	}
	roles, ok = policy.Roles(RouteProfile)
	if !ok || len(roles) != 0 {
		t.Fatalf("expected profile open to any role, got %v", roles)
	}
	if _, ok := policy.Roles(Route("nope")); ok {
		t.Fatalf("unknown routes must report false")
	}
}
