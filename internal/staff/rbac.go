package staff

// Permission tags gate API operations per role.
type Permission string

const (
	PermReadPatient      Permission = "read:patient"
	PermWritePatient     Permission = "write:patient"
	PermReadAppointment  Permission = "read:appointment"
	PermWriteAppointment Permission = "write:appointment"
	PermReadCatalog      Permission = "read:catalog"
	PermWriteCatalog     Permission = "write:catalog"
	PermReadInvoice      Permission = "read:invoice"
	PermWriteInvoice     Permission = "write:invoice"
	PermReadAnalytics    Permission = "read:analytics"
	PermManageStaff      Permission = "manage:staff"
)

// rolePermissions is the capability set per role, fixed at startup. No global
// mutable state; Allowed is a pure lookup.
var rolePermissions = map[Role]map[Permission]bool{
	RoleAdmin: permSet(
		PermReadPatient, PermWritePatient,
		PermReadAppointment, PermWriteAppointment,
		PermReadCatalog, PermWriteCatalog,
		PermReadInvoice, PermWriteInvoice,
		PermReadAnalytics, PermManageStaff,
	),
	RoleDentist: permSet(
		PermReadPatient, PermWritePatient,
		PermReadAppointment, PermWriteAppointment,
		PermReadCatalog, PermReadInvoice, PermReadAnalytics,
	),
	RoleAssistant: permSet(
		PermReadPatient,
		PermReadAppointment, PermWriteAppointment,
		PermReadCatalog,
	),
	RoleReceptionist: permSet(
		PermReadPatient, PermWritePatient,
		PermReadAppointment, PermWriteAppointment,
		PermReadCatalog, PermReadInvoice, PermWriteInvoice,
	),
}

func permSet(perms ...Permission) map[Permission]bool {
	set := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return set
}

// Allowed reports whether the role carries the permission.
func Allowed(role Role, perm Permission) bool {
	return rolePermissions[role][perm]
}
