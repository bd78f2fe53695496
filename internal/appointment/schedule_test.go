package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func baseProposal() Proposal {
	return Proposal{
		PatientID:       uuid.New(),
		DentistID:       uuid.New(),
		ServiceID:       uuid.New(),
		Date:            time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Start:           9 * 60,
		DurationMinutes: 30,
	}
}

func mustClock(t *testing.T, s string) Clock {
	t.Helper()
	c, err := ParseClock(s)
	require.NoError(t, err)
	return c
}

func assertRejected(t *testing.T, err error, kind Kind) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %T: %v", err, err)
	assert.Equal(t, kind, verr.Kind)
	return verr
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(570), c)
	assert.Equal(t, "09:30", c.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)

	_, err = ParseClock("9am")
	assert.Error(t, err)
}

func TestValidate_AcceptsOpenDay(t *testing.T) {
	err := DefaultRules().Validate(baseProposal(), nil, testNow)
	assert.NoError(t, err)
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Proposal)
		field  string
	}{
		{"patient", func(p *Proposal) { p.PatientID = uuid.Nil }, "patient_id"},
		{"service", func(p *Proposal) { p.ServiceID = uuid.Nil }, "service_id"},
		{"date", func(p *Proposal) { p.Date = time.Time{} }, "date"},
		{"time", func(p *Proposal) { p.Start = ClockUnset }, "time"},
		{"dentist", func(p *Proposal) { p.DentistID = uuid.Nil }, "dentist_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseProposal()
			tt.mutate(&p)
			verr := assertRejected(t, DefaultRules().Validate(p, nil, testNow), KindMissingField)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidate_DurationBounds(t *testing.T) {
	for _, dur := range []int{0, 14, 481, 1000, -30} {
		p := baseProposal()
		p.DurationMinutes = dur
		assertRejected(t, DefaultRules().Validate(p, nil, testNow), KindInvalidDuration)
	}

	for _, dur := range []int{15, 480} {
		p := baseProposal()
		p.Start = 8 * 60
		p.DurationMinutes = dur
		assert.NoError(t, DefaultRules().Validate(p, nil, testNow), "duration %d should be accepted", dur)
	}
}

func TestValidate_PastDate(t *testing.T) {
	p := baseProposal()
	p.Date = testNow.AddDate(0, 0, -1)
	assertRejected(t, DefaultRules().Validate(p, nil, testNow), KindPastDate)
}

func TestValidate_DateTooFar(t *testing.T) {
	p := baseProposal()
	p.Date = testNow.AddDate(0, 0, 366)
	assertRejected(t, DefaultRules().Validate(p, nil, testNow), KindDateTooFar)

	// Exactly one year out is still fine.
	p.Date = testNow.AddDate(0, 0, 365)
	assert.NoError(t, DefaultRules().Validate(p, nil, testNow))
}

func TestValidate_PastTimeToday(t *testing.T) {
	p := baseProposal()
	p.Date = testNow // same day, noon
	p.Start = mustClock(t, "09:00")
	assertRejected(t, DefaultRules().Validate(p, nil, testNow), KindPastTime)

	p.Start = mustClock(t, "14:00")
	assert.NoError(t, DefaultRules().Validate(p, nil, testNow))
}

func TestValidate_ServerClockNotUTC(t *testing.T) {
	// Wire dates parse as UTC but the server clock may sit in any zone; the
	// calendar-day checks must agree on what "today" is either way.
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("same-day booking west of UTC is not past_date", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.FixedZone("UTC-5", -5*3600))
		p := baseProposal()
		p.Date = date
		p.Start = mustClock(t, "14:00")
		assert.NoError(t, DefaultRules().Validate(p, nil, now))
	})

	t.Run("elapsed slot east of UTC is still past_time", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 16, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))
		p := baseProposal()
		p.Date = date
		p.Start = mustClock(t, "09:00")
		assertRejected(t, DefaultRules().Validate(p, nil, now), KindPastTime)
	})
}

func TestValidate_BusinessHours(t *testing.T) {
	// 07:45 starts before opening.
	p := baseProposal()
	p.Start = mustClock(t, "07:45")
	assertRejected(t, DefaultRules().Validate(p, nil, testNow), KindOutsideBusinessHours)

	// 17:45 + 30min runs past closing.
	p = baseProposal()
	p.Start = mustClock(t, "17:45")
	assertRejected(t, DefaultRules().Validate(p, nil, testNow), KindOutsideBusinessHours)

	// Exactly at the edges is fine.
	p = baseProposal()
	p.Start = mustClock(t, "08:00")
	assert.NoError(t, DefaultRules().Validate(p, nil, testNow))

	p = baseProposal()
	p.Start = mustClock(t, "17:30")
	assert.NoError(t, DefaultRules().Validate(p, nil, testNow))
}

func TestValidate_Conflict(t *testing.T) {
	existingID := uuid.New()
	existing := []DaySlot{
		{ID: existingID, Start: 9 * 60, DurationMinutes: 30, Status: StatusScheduled},
	}

	p := baseProposal()
	p.Start = mustClock(t, "09:15")

	verr := assertRejected(t, DefaultRules().Validate(p, existing, testNow), KindAppointmentConflict)
	require.NotNil(t, verr.Conflict)
	assert.Equal(t, existingID, verr.Conflict.ID)
	assert.Equal(t, "09:00", verr.Conflict.Start.String())
	assert.Contains(t, verr.Error(), "09:00")
}

func TestValidate_CancelledDoesNotConflict(t *testing.T) {
	existing := []DaySlot{
		{ID: uuid.New(), Start: 9 * 60, DurationMinutes: 30, Status: StatusCancelled},
	}

	p := baseProposal()
	p.Start = mustClock(t, "09:15")
	assert.NoError(t, DefaultRules().Validate(p, existing, testNow))
}

func TestValidate_AdjacentSlotsDoNotConflict(t *testing.T) {
	existing := []DaySlot{
		{ID: uuid.New(), Start: 9 * 60, DurationMinutes: 30, Status: StatusScheduled},
	}

	// Back to back at 09:30 — half-open intervals, no overlap.
	p := baseProposal()
	p.Start = mustClock(t, "09:30")
	assert.NoError(t, DefaultRules().Validate(p, existing, testNow))

	// Ending exactly at 09:00.
	p = baseProposal()
	p.Start = mustClock(t, "08:30")
	assert.NoError(t, DefaultRules().Validate(p, existing, testNow))
}

func TestValidate_FirstConflictInOrderWins(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	existing := []DaySlot{
		{ID: first, Start: 9 * 60, DurationMinutes: 60, Status: StatusScheduled},
		{ID: second, Start: 9*60 + 30, DurationMinutes: 60, Status: StatusConfirmed},
	}

	p := baseProposal()
	p.Start = mustClock(t, "09:45")

	verr := assertRejected(t, DefaultRules().Validate(p, existing, testNow), KindAppointmentConflict)
	require.NotNil(t, verr.Conflict)
	assert.Equal(t, first, verr.Conflict.ID)
}

func TestValidate_ExcludedAppointmentIgnored(t *testing.T) {
	self := uuid.New()
	existing := []DaySlot{
		{ID: self, Start: 9 * 60, DurationMinutes: 30, Status: StatusScheduled},
	}

	p := baseProposal()
	p.Start = mustClock(t, "09:15")
	p.Exclude = self
	assert.NoError(t, DefaultRules().Validate(p, existing, testNow))
}

func TestValidate_Idempotent(t *testing.T) {
	p := baseProposal()
	existing := []DaySlot{
		{ID: uuid.New(), Start: 11 * 60, DurationMinutes: 45, Status: StatusScheduled},
	}

	require.NoError(t, DefaultRules().Validate(p, existing, testNow))
	// Same inputs, same verdict. Nothing mutates.
	require.NoError(t, DefaultRules().Validate(p, existing, testNow))
}

func TestValidate_ConfiguredWindow(t *testing.T) {
	rules := Rules{
		BusinessStart:  10 * 60,
		BusinessEnd:    14 * 60,
		MaxAdvanceDays: 30,
	}

	p := baseProposal()
	p.Start = mustClock(t, "09:00")
	assertRejected(t, rules.Validate(p, nil, testNow), KindOutsideBusinessHours)

	p.Start = mustClock(t, "10:00")
	assert.NoError(t, rules.Validate(p, nil, testNow))

	p.Date = testNow.AddDate(0, 0, 31)
	assertRejected(t, rules.Validate(p, nil, testNow), KindDateTooFar)
}
