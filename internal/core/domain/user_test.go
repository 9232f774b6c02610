package domain

import "testing"

func TestRole_Satisfies(t *testing.T) {
	cases := []struct {
		name     string
		caller   Role
		required Role
		want     bool
	}{
		{"user satisfies user", RoleUser, RoleUser, true},
		{"admin satisfies user", RoleAdmin, RoleUser, true},
		{"ban does not satisfy user", RoleBan, RoleUser, false},
		{"user does not satisfy admin", RoleUser, RoleAdmin, false},
		{"admin satisfies admin", RoleAdmin, RoleAdmin, true},
		{"ban does not satisfy admin", RoleBan, RoleAdmin, false},
		{"nobody satisfies ban", RoleAdmin, RoleBan, false},
		{"unknown requirement qualifies no one", RoleAdmin, Role("superuser"), false},
		{"unknown caller qualifies for nothing", Role("guest"), RoleUser, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.caller.Satisfies(tc.required); got != tc.want {
				t.Fatalf("Satisfies(%q, %q) = %v, want %v", tc.required, tc.caller, got, tc.want)
			}
		})
	}
}

func TestRole_IsValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin, RoleBan} {
		if !r.IsValid() {
			t.Fatalf("expected %q to be valid", r)
		}
	}
	if Role("superuser").IsValid() {
		t.Fatalf("unknown role reported valid")
	}
	if Role("").IsValid() {
		t.Fatalf("empty role reported valid")
	}
}
