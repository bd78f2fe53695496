package patient

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID                uuid.UUID
	FirstName         string
	LastName          string
	DateOfBirth       *time.Time
	Sex               string // Male, Female, Other
	Phone             string
	Email             string
	Address           string
	InsuranceProvider string
	InsuranceNumber   string
	MedicalNotes      string
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
