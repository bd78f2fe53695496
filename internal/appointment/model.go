package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// Terminal reports whether no further status transitions are permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Type string

const (
	TypeCheckup      Type = "checkup"
	TypeCleaning     Type = "cleaning"
	TypeConsultation Type = "consultation"
	TypeTreatment    Type = "treatment"
	TypeEmergency    Type = "emergency"
	TypeFollowUp     Type = "follow_up"
)

func ValidType(t Type) bool {
	switch t {
	case TypeCheckup, TypeCleaning, TypeConsultation,
		TypeTreatment, TypeEmergency, TypeFollowUp:
		return true
	}
	return false
}

type Appointment struct {
	ID              uuid.UUID
	Number          string // human readable, e.g. APT-20250610-0042
	PatientID       uuid.UUID
	DentistID       uuid.UUID
	ServiceID       uuid.UUID
	Date            time.Time // calendar date, midnight
	Start           Clock
	DurationMinutes int
	Status          Status
	Type            Type
	Notes           string
	CancelReason    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// End is the minute-of-day at which the appointment finishes.
func (a *Appointment) End() Clock {
	return a.Start + Clock(a.DurationMinutes)
}

// DaySlot is one dentist's existing booking on a given day, reduced to what
// the conflict check needs.
type DaySlot struct {
	ID              uuid.UUID
	Start           Clock
	DurationMinutes int
	Status          Status
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
