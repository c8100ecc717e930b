package tui

import (
	"testing"

	"github.com/rupeewave/teller/internal/session"
)

func TestMenuForRole(t *testing.T) {
	tests := []struct {
		role    session.Role
		count   int
		missing []ViewType
	}{
		{
			role:  session.RoleAdmin,
			count: len(allMenuItems),
		},
		{
			role:    session.RoleTeller,
			count:   len(allMenuItems) - 1,
			missing: []ViewType{ViewCreateUser},
		},
		{
			role:    session.RoleCustomer,
			count:   len(allMenuItems) - 2,
			missing: []ViewType{ViewCreateUser, ViewCreateAccount},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			items := menuFor(tt.role)
			if len(items) != tt.count {
				t.Errorf("menuFor(%s) has %d items, want %d", tt.role, len(items), tt.count)
			}
			for _, item := range items {
				for _, m := range tt.missing {
					if item.view == m {
						t.Errorf("menuFor(%s) contains gated view %d", tt.role, m)
					}
				}
			}
		})
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		view ViewType
		role session.Role
		want bool
	}{
		{ViewCreateUser, session.RoleAdmin, true},
		{ViewCreateUser, session.RoleTeller, false},
		{ViewCreateUser, session.RoleCustomer, false},
		{ViewCreateAccount, session.RoleAdmin, true},
		{ViewCreateAccount, session.RoleTeller, true},
		{ViewCreateAccount, session.RoleCustomer, false},
		{ViewDeposit, session.RoleCustomer, true},
		{ViewHistory, session.RoleCustomer, true},
		{ViewOverview, session.RoleCustomer, true},
	}

	for _, tt := range tests {
		if got := allowed(tt.view, tt.role); got != tt.want {
			t.Errorf("allowed(%d, %s) = %v, want %v", tt.view, tt.role, got, tt.want)
		}
	}
}
