package staff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleAdmin, PermManageStaff, true},
		{RoleAdmin, PermWriteInvoice, true},
		{RoleDentist, PermReadPatient, true},
		{RoleDentist, PermWriteAppointment, true},
		{RoleDentist, PermManageStaff, false},
		{RoleDentist, PermWriteInvoice, false},
		{RoleAssistant, PermReadPatient, true},
		{RoleAssistant, PermWritePatient, false},
		{RoleAssistant, PermReadInvoice, false},
		{RoleReceptionist, PermWriteInvoice, true},
		{RoleReceptionist, PermReadAnalytics, false},
		{RoleReceptionist, PermManageStaff, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.role, tt.perm), "%s / %s", tt.role, tt.perm)
	}
}

func TestAllowed_UnknownRole(t *testing.T) {
	assert.False(t, Allowed(Role("janitor"), PermReadPatient))
	assert.False(t, Allowed("", PermReadPatient))
}

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleDentist, RoleAssistant, RoleReceptionist} {
		assert.True(t, ValidRole(r))
	}
	assert.False(t, ValidRole("manager"))
}
