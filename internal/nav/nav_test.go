package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

func keys(items []Item) []Tab {
	out := make([]Tab, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

func TestItemsFor(t *testing.T) {
	tests := []struct {
		role api.Role
		want []Tab
	}{
		{api.RoleAdmin, []Tab{Dashboard, Employees, Attendance, Leaves, Feedback}},
		{api.RoleEmployee, []Tab{Dashboard, Attendance, Leaves, Feedback}},
		{api.Role("manager"), []Tab{Dashboard, Attendance, Leaves, Feedback}},
		{api.Role(""), []Tab{Dashboard, Attendance, Leaves, Feedback}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, keys(ItemsFor(tt.role)))
		})
	}
}

func TestItemsForIsPure(t *testing.T) {
	first := ItemsFor(api.RoleAdmin)
	first[0].Label = "changed"

	assert.Equal(t, "Dashboard", ItemsFor(api.RoleAdmin)[0].Label)
	assert.Equal(t, ItemsFor(api.RoleEmployee), ItemsFor(api.RoleEmployee))
}

func TestEmployeesOnlyForAdmin(t *testing.T) {
	for _, role := range []api.Role{api.RoleAdmin, api.RoleEmployee, "other"} {
		hasEmployees := false
		for _, it := range ItemsFor(role) {
			if it.Key == Employees {
				hasEmployees = true
			}
		}
		assert.Equal(t, role.IsAdmin(), hasEmployees, "role %q", role)
		assert.Equal(t, role.IsAdmin(), CanAccess(role, Employees), "role %q", role)
	}
}

func TestBottom(t *testing.T) {
	assert.Equal(t, []Tab{Profile, Logout}, keys(Bottom()))
}

func TestCanAccess(t *testing.T) {
	assert.True(t, CanAccess(api.RoleEmployee, Profile))
	assert.True(t, CanAccess(api.RoleEmployee, Leaves))
	assert.False(t, CanAccess(api.RoleAdmin, Logout))
	assert.False(t, CanAccess(api.RoleAdmin, Tab("payroll")))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Leave Management", Title(Leaves))
	assert.Equal(t, "Feedback & Complaints", Title(Feedback))
	assert.Equal(t, "My Profile", Title(Profile))
	assert.Equal(t, "Dashboard", Title(Tab("nope")))
	assert.True(t, Valid(Employees))
	assert.False(t, Valid(Logout))
	assert.Len(t, Tabs(), 6)
}
