package staff

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDentist      Role = "dentist"
	RoleAssistant    Role = "assistant"
	RoleReceptionist Role = "receptionist"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleDentist, RoleAssistant, RoleReceptionist:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Role         Role
	PasswordHash string
	Specialty    string // dentists only
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
