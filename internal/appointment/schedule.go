package appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock is a time of day in minutes from midnight. Negative means unset.
type Clock int

const ClockUnset Clock = -1

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockUnset, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	if c < 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480
)

// Kind identifies the rule a proposal or transition failed.
type Kind string

const (
	KindMissingField         Kind = "missing_field"
	KindInvalidDuration      Kind = "invalid_duration"
	KindPastDate             Kind = "past_date"
	KindDateTooFar           Kind = "date_too_far"
	KindPastTime             Kind = "past_time"
	KindOutsideBusinessHours Kind = "outside_business_hours"
	KindAppointmentConflict  Kind = "appointment_conflict"
	KindMissingReason        Kind = "missing_reason"
	KindInvalidTransition    Kind = "invalid_transition"
)

// ValidationError is a rejected proposal or transition, returned as a value so
// callers can branch on Kind and render the context.
type ValidationError struct {
	Kind     Kind
	Field    string   // set for KindMissingField
	Conflict *DaySlot // set for KindAppointmentConflict
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("required field %s is missing", e.Field)
	case KindInvalidDuration:
		return fmt.Sprintf("duration must be between %d and %d minutes", MinDurationMinutes, MaxDurationMinutes)
	case KindPastDate:
		return "appointment date is in the past"
	case KindDateTooFar:
		return "appointment date is too far in the future"
	case KindPastTime:
		return "appointment time has already passed today"
	case KindOutsideBusinessHours:
		return "appointment does not fit within business hours"
	case KindAppointmentConflict:
		if e.Conflict != nil {
			return fmt.Sprintf("this time slot conflicts with an existing appointment at %s; choose a different time", e.Conflict.Start)
		}
		return "this time slot conflicts with an existing appointment; choose a different time"
	case KindMissingReason:
		return "a cancellation reason is required"
	case KindInvalidTransition:
		return "the requested status change is not permitted"
	}
	return string(e.Kind)
}

// Proposal is a not-yet-persisted candidate appointment.
type Proposal struct {
	PatientID       uuid.UUID
	DentistID       uuid.UUID
	ServiceID       uuid.UUID
	Date            time.Time
	Start           Clock
	DurationMinutes int
	// Exclude is the id of the appointment being edited, ignored during the
	// conflict check. Zero value means none.
	Exclude uuid.UUID
}

// Rules are the configured scheduling bounds.
type Rules struct {
	BusinessStart  Clock
	BusinessEnd    Clock
	MaxAdvanceDays int
}

func DefaultRules() Rules {
	return Rules{
		BusinessStart:  8 * 60,
		BusinessEnd:    18 * 60,
		MaxAdvanceDays: 365,
	}
}

// Validate decides accept/reject for one proposal against the dentist's
// existing bookings on the same date. Checks run in a fixed order and the
// first failure wins. Cancelled bookings and the excluded appointment never
// conflict. Validate has no side effects; a nil return means accepted.
func (r Rules) Validate(p Proposal, existing []DaySlot, now time.Time) error {
	if p.PatientID == uuid.Nil {
		return &ValidationError{Kind: KindMissingField, Field: "patient_id"}
	}
	if p.ServiceID == uuid.Nil {
		return &ValidationError{Kind: KindMissingField, Field: "service_id"}
	}
	if p.Date.IsZero() {
		return &ValidationError{Kind: KindMissingField, Field: "date"}
	}
	if p.Start < 0 {
		return &ValidationError{Kind: KindMissingField, Field: "time"}
	}
	if p.DentistID == uuid.Nil {
		return &ValidationError{Kind: KindMissingField, Field: "dentist_id"}
	}

	if p.DurationMinutes < MinDurationMinutes || p.DurationMinutes > MaxDurationMinutes {
		return &ValidationError{Kind: KindInvalidDuration}
	}

	// Calendar-day comparisons use each side's own wall-clock date so the
	// proposal's location (UTC off the wire) and the server's location never
	// skew the result.
	today := startOfDay(now)
	day := startOfDay(p.Date)
	if day.Before(today) {
		return &ValidationError{Kind: KindPastDate}
	}
	if day.After(today.AddDate(0, 0, r.MaxAdvanceDays)) {
		return &ValidationError{Kind: KindDateTooFar}
	}

	if day.Equal(today) {
		startAt := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			Add(time.Duration(p.Start) * time.Minute)
		if startAt.Before(now) {
			return &ValidationError{Kind: KindPastTime}
		}
	}

	end := p.Start + Clock(p.DurationMinutes)
	if p.Start < r.BusinessStart || end > r.BusinessEnd {
		return &ValidationError{Kind: KindOutsideBusinessHours}
	}

	for _, e := range existing {
		if e.Status == StatusCancelled {
			continue
		}
		if p.Exclude != uuid.Nil && e.ID == p.Exclude {
			continue
		}
		// Half-open intervals: [a,b) overlaps [c,d) iff a < d && c < b.
		eEnd := e.Start + Clock(e.DurationMinutes)
		if p.Start < eEnd && e.Start < end {
			conflict := e
			return &ValidationError{Kind: KindAppointmentConflict, Conflict: &conflict}
		}
	}

	return nil
}

// startOfDay reduces an instant to its wall-clock calendar date, normalized
// to UTC so dates from different locations compare as plain days.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
